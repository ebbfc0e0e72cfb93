// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package vertexrag

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/protobuf/proto"

	"github.com/gardener/ragctl/pkg/gcp/utils"
	"github.com/gardener/ragctl/pkg/metrics"
)

// ErrNoRagCorpus is an error, which is returned when an operation requires a
// RAG corpus, but none was configured.
var ErrNoRagCorpus = errors.New("no rag corpus specified")

// API is the subset of the Vertex AI RAG API client, which is used by the
// [Service].
type API interface {
	RetrieveContexts(ctx context.Context, req *aiplatformpb.RetrieveContextsRequest, opts ...gax.CallOption) (*aiplatformpb.RetrieveContextsResponse, error)
	AugmentPrompt(ctx context.Context, req *aiplatformpb.AugmentPromptRequest, opts ...gax.CallOption) (*aiplatformpb.AugmentPromptResponse, error)
	CorroborateContent(ctx context.Context, req *aiplatformpb.CorroborateContentRequest, opts ...gax.CallOption) (*aiplatformpb.CorroborateContentResponse, error)
	Close() error
}

// Service provides retrieval-augmented generation operations on top of the
// Vertex AI RAG API service.
type Service struct {
	api       API
	projectID string
	location  string
	ragCorpus string
}

// NewService creates a new [Service] backed by the given API client. The
// project id and location identify the parent resource of the API calls, and
// ragCorpus is the default corpus used by retrieval operations.
func NewService(api API, projectID, location, ragCorpus string) *Service {
	s := &Service{
		api:       api,
		projectID: projectID,
		location:  location,
		ragCorpus: ragCorpus,
	}

	return s
}

// parent returns the full-qualified name of the parent location resource.
func (s *Service) parent() string {
	return utils.LocationFQN(s.projectID, s.location)
}

// corpus returns the full-qualified name of the RAG corpus used by retrieval
// operations. The given corpus takes precedence over the default corpus of
// the service.
func (s *Service) corpus(corpus string) (string, error) {
	if corpus == "" {
		corpus = s.ragCorpus
	}
	if corpus == "" {
		return "", ErrNoRagCorpus
	}

	return utils.RagCorpusFQN(s.projectID, s.location, corpus), nil
}

// RetrieveContexts retrieves the most relevant contexts for the given query
// from the RAG corpus.
func (s *Service) RetrieveContexts(ctx context.Context, query string, corpus string, topK int32) ([]*aiplatformpb.RagContexts_Context, error) {
	corpusFQN, err := s.corpus(corpus)
	if err != nil {
		return nil, err
	}

	req := &aiplatformpb.RetrieveContextsRequest{
		Parent: s.parent(),
		Query: &aiplatformpb.RagQuery{
			Query: &aiplatformpb.RagQuery_Text{
				Text: query,
			},
			RagRetrievalConfig: &aiplatformpb.RagRetrievalConfig{
				TopK: topK,
			},
		},
		DataSource: &aiplatformpb.RetrieveContextsRequest_VertexRagStore_{
			VertexRagStore: &aiplatformpb.RetrieveContextsRequest_VertexRagStore{
				RagResources: []*aiplatformpb.RetrieveContextsRequest_VertexRagStore_RagResource{
					{
						RagCorpus: corpusFQN,
					},
				},
			},
		},
	}

	resp, err := s.api.RetrieveContexts(ctx, req)
	if err != nil {
		metrics.RAGRequestTotal.WithLabelValues(MethodRetrieveContexts, "error").Inc()

		return nil, fmt.Errorf("vertexrag: cannot retrieve contexts: %w", err)
	}
	metrics.RAGRequestTotal.WithLabelValues(MethodRetrieveContexts, "ok").Inc()

	if resp.Contexts == nil {
		return nil, nil
	}

	return resp.Contexts.Contexts, nil
}

// AugmentPrompt augments the given prompt with facts retrieved from the RAG
// corpus.
func (s *Service) AugmentPrompt(ctx context.Context, prompt string, corpus string, model string) (*aiplatformpb.AugmentPromptResponse, error) {
	corpusFQN, err := s.corpus(corpus)
	if err != nil {
		return nil, err
	}

	req := &aiplatformpb.AugmentPromptRequest{
		Parent: s.parent(),
		Contents: []*aiplatformpb.Content{
			{
				Role: "user",
				Parts: []*aiplatformpb.Part{
					{
						Data: &aiplatformpb.Part_Text{
							Text: prompt,
						},
					},
				},
			},
		},
		DataSource: &aiplatformpb.AugmentPromptRequest_VertexRagStore{
			VertexRagStore: &aiplatformpb.VertexRagStore{
				RagResources: []*aiplatformpb.VertexRagStore_RagResource{
					{
						RagCorpus: corpusFQN,
					},
				},
			},
		},
	}

	if model != "" {
		req.Model = &aiplatformpb.AugmentPromptRequest_Model{
			Model: model,
		}
	}

	resp, err := s.api.AugmentPrompt(ctx, req)
	if err != nil {
		metrics.RAGRequestTotal.WithLabelValues(MethodAugmentPrompt, "error").Inc()

		return nil, fmt.Errorf("vertexrag: cannot augment prompt: %w", err)
	}
	metrics.RAGRequestTotal.WithLabelValues(MethodAugmentPrompt, "ok").Inc()

	return resp, nil
}

// CorroborateContent corroborates the given content against the given facts
// and returns the corroboration result.
func (s *Service) CorroborateContent(ctx context.Context, content string, facts []string, threshold float64) (*aiplatformpb.CorroborateContentResponse, error) {
	req := &aiplatformpb.CorroborateContentRequest{
		Parent: s.parent(),
		Content: &aiplatformpb.Content{
			Role: "user",
			Parts: []*aiplatformpb.Part{
				{
					Data: &aiplatformpb.Part_Text{
						Text: content,
					},
				},
			},
		},
	}

	for _, fact := range facts {
		req.Facts = append(req.Facts, &aiplatformpb.Fact{
			Summary: proto.String(fact),
		})
	}

	if threshold > 0 {
		req.Parameters = &aiplatformpb.CorroborateContentRequest_Parameters{
			CitationThreshold: threshold,
		}
	}

	resp, err := s.api.CorroborateContent(ctx, req)
	if err != nil {
		metrics.RAGRequestTotal.WithLabelValues(MethodCorroborateContent, "error").Inc()

		return nil, fmt.Errorf("vertexrag: cannot corroborate content: %w", err)
	}
	metrics.RAGRequestTotal.WithLabelValues(MethodCorroborateContent, "ok").Inc()

	return resp, nil
}

// Close closes the API client of the service.
func (s *Service) Close() error {
	return s.api.Close()
}
