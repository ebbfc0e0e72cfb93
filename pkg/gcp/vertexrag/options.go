// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package vertexrag

import (
	"errors"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	gcpclients "github.com/gardener/ragctl/pkg/clients/gcp"
	"github.com/gardener/ragctl/pkg/core/config"
	"github.com/gardener/ragctl/pkg/gcp/retry"
)

// Names of the Vertex AI RAG service methods for which retry settings may be
// configured.
const (
	MethodRetrieveContexts   = "retrieve_contexts"
	MethodAugmentPrompt      = "augment_prompt"
	MethodCorroborateContent = "corroborate_content"
	MethodGetLocation        = "get_location"
	MethodListLocations      = "list_locations"
	MethodGetIamPolicy       = "get_iam_policy"
	MethodSetIamPolicy       = "set_iam_policy"
	MethodTestIamPermissions = "test_iam_permissions"
)

// ErrUnknownMethod is an error, which is returned when configuring retry
// settings for an unknown Vertex AI RAG service method.
var ErrUnknownMethod = errors.New("unknown vertex rag method")

// Methods returns the names of the Vertex AI RAG service methods for which
// retry settings may be configured.
func Methods() []string {
	return []string{
		MethodRetrieveContexts,
		MethodAugmentPrompt,
		MethodCorroborateContent,
		MethodGetLocation,
		MethodListLocations,
		MethodGetIamPolicy,
		MethodSetIamPolicy,
		MethodTestIamPermissions,
	}
}

// ClientOptions returns the client options for creating Vertex AI RAG API
// clients from the given config.
func ClientOptions(conf *config.Config) ([]option.ClientOption, error) {
	opts, err := gcpclients.ClientOptions(&conf.GCP, conf.VertexRAG.UseCredentials)
	if err != nil {
		return nil, err
	}

	endpoint := conf.VertexRAG.Endpoint
	if endpoint == "" && conf.VertexRAG.Location != "" {
		// The Vertex AI API is served from regional endpoints.
		endpoint = fmt.Sprintf("%s-aiplatform.googleapis.com:443", conf.VertexRAG.Location)
	}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	if conf.VertexRAG.QuotaProject != "" {
		opts = append(opts, option.WithQuotaProject(conf.VertexRAG.QuotaProject))
	}

	if conf.VertexRAG.ConnectionPoolSize > 0 {
		opts = append(opts, option.WithGRPCConnectionPool(conf.VertexRAG.ConnectionPoolSize))
	}

	return opts, nil
}

// methodSlot returns the call-option slot of the given method name.
func methodSlot(co *aiplatform.VertexRagCallOptions, name string) (*[]gax.CallOption, error) {
	switch name {
	case MethodRetrieveContexts:
		return &co.RetrieveContexts, nil
	case MethodAugmentPrompt:
		return &co.AugmentPrompt, nil
	case MethodCorroborateContent:
		return &co.CorroborateContent, nil
	case MethodGetLocation:
		return &co.GetLocation, nil
	case MethodListLocations:
		return &co.ListLocations, nil
	case MethodGetIamPolicy:
		return &co.GetIamPolicy, nil
	case MethodSetIamPolicy:
		return &co.SetIamPolicy, nil
	case MethodTestIamPermissions:
		return &co.TestIamPermissions, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
}

// ApplyCallOptions applies the service-level and per-method retry settings to
// the given call options. Service-level settings apply to all methods, while
// per-method settings are appended after them, so that they take precedence
// during call-option resolution.
func ApplyCallOptions(co *aiplatform.VertexRagCallOptions, serviceRetry *config.RetryConfig, methodRetry map[string]*config.RetryConfig) error {
	serviceOpts, err := retry.CallOptions(serviceRetry)
	if err != nil {
		return err
	}

	if len(serviceOpts) > 0 {
		slots := []*[]gax.CallOption{
			&co.RetrieveContexts,
			&co.AugmentPrompt,
			&co.CorroborateContent,
			&co.GetLocation,
			&co.ListLocations,
			&co.GetIamPolicy,
			&co.SetIamPolicy,
			&co.TestIamPermissions,
		}
		for _, slot := range slots {
			*slot = append(*slot, serviceOpts...)
		}
	}

	for name, rc := range methodRetry {
		slot, err := methodSlot(co, name)
		if err != nil {
			return err
		}

		opts, err := retry.CallOptions(rc)
		if err != nil {
			return fmt.Errorf("invalid retry settings for %s: %w", name, err)
		}

		*slot = append(*slot, opts...)
	}

	return nil
}
