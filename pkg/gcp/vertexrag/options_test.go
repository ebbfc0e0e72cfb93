// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package vertexrag_test

import (
	"errors"
	"testing"
	"time"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"

	"github.com/gardener/ragctl/pkg/core/config"
	"github.com/gardener/ragctl/pkg/gcp/vertexrag"
)

func newRetryConfig() *config.RetryConfig {
	return &config.RetryConfig{
		MaxAttempts:  5,
		InitialDelay: config.Duration(100 * time.Millisecond),
		MaxDelay:     config.Duration(time.Minute),
		Multiplier:   1.3,
		Timeout:      config.Duration(10 * time.Second),
		RetryOn:      []string{"UNAVAILABLE"},
	}
}

func TestClientOptions(t *testing.T) {
	conf := &config.Config{
		GCP: config.GCPConfig{
			UserAgent: "ragctl/test",
		},
		VertexRAG: config.VertexRAGConfig{
			Endpoint:           "eu-aiplatform.example.org:443",
			QuotaProject:       "my-quota-project",
			ConnectionPoolSize: 4,
		},
	}

	opts, err := vertexrag.ClientOptions(conf)
	if err != nil {
		t.Fatalf("failed to get client options: %s", err)
	}

	// User agent, endpoint, quota project and connection pool
	if len(opts) != 4 {
		t.Fatalf("wanted 4 client options, got %d", len(opts))
	}
}

func TestClientOptionsDefaultEndpoint(t *testing.T) {
	conf := &config.Config{
		VertexRAG: config.VertexRAGConfig{
			Location: "europe-west1",
		},
	}

	opts, err := vertexrag.ClientOptions(conf)
	if err != nil {
		t.Fatalf("failed to get client options: %s", err)
	}

	// The regional endpoint is derived from the location
	if len(opts) != 1 {
		t.Fatalf("wanted 1 client option, got %d", len(opts))
	}
}

func TestApplyCallOptions(t *testing.T) {
	co := &aiplatform.VertexRagCallOptions{}
	methodRetry := map[string]*config.RetryConfig{
		vertexrag.MethodRetrieveContexts: newRetryConfig(),
	}

	if err := vertexrag.ApplyCallOptions(co, newRetryConfig(), methodRetry); err != nil {
		t.Fatalf("failed to apply call options: %s", err)
	}

	// Service-level settings contribute a retry and a timeout option to
	// each method.
	methods := map[string]int{
		"AugmentPrompt":      len(co.AugmentPrompt),
		"CorroborateContent": len(co.CorroborateContent),
		"GetLocation":        len(co.GetLocation),
		"ListLocations":      len(co.ListLocations),
		"GetIamPolicy":       len(co.GetIamPolicy),
		"SetIamPolicy":       len(co.SetIamPolicy),
		"TestIamPermissions": len(co.TestIamPermissions),
	}
	for name, count := range methods {
		if count != 2 {
			t.Fatalf("wanted 2 call options for %s, got %d", name, count)
		}
	}

	// Method-level settings are appended after the service-level ones.
	if len(co.RetrieveContexts) != 4 {
		t.Fatalf("wanted 4 call options for RetrieveContexts, got %d", len(co.RetrieveContexts))
	}
}

func TestApplyCallOptionsMethodOnly(t *testing.T) {
	co := &aiplatform.VertexRagCallOptions{}
	methodRetry := map[string]*config.RetryConfig{
		vertexrag.MethodAugmentPrompt: newRetryConfig(),
	}

	if err := vertexrag.ApplyCallOptions(co, nil, methodRetry); err != nil {
		t.Fatalf("failed to apply call options: %s", err)
	}

	if len(co.AugmentPrompt) != 2 {
		t.Fatalf("wanted 2 call options for AugmentPrompt, got %d", len(co.AugmentPrompt))
	}
	if len(co.RetrieveContexts) != 0 {
		t.Fatalf("wanted no call options for RetrieveContexts, got %d", len(co.RetrieveContexts))
	}
}

func TestApplyCallOptionsUnknownMethod(t *testing.T) {
	co := &aiplatform.VertexRagCallOptions{}
	methodRetry := map[string]*config.RetryConfig{
		"no_such_method": newRetryConfig(),
	}

	err := vertexrag.ApplyCallOptions(co, nil, methodRetry)
	if !errors.Is(err, vertexrag.ErrUnknownMethod) {
		t.Fatalf("wanted %s, got %s", vertexrag.ErrUnknownMethod, err)
	}
}
