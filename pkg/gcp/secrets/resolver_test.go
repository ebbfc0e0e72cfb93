// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gardener/ragctl/pkg/core/config"
)

// newTestResolver returns a [Resolver] backed by the given fake client. The
// counter is incremented each time a new client is created.
func newTestResolver(conf *config.Config, client *fakeClient, counter *atomic.Int32) *Resolver {
	r := NewResolver(conf)
	r.newClientFunc = func(ctx context.Context) (APIClient, error) {
		counter.Add(1)

		return client, nil
	}

	return r
}

func newTestConfig(enabled bool) *config.Config {
	return &config.Config{
		GCP: config.GCPConfig{
			Project: "my-project",
		},
		SecretManager: config.SecretManagerConfig{
			Enabled: enabled,
		},
	}
}

func TestResolverResolve(t *testing.T) {
	client := &fakeClient{
		secrets: map[string]string{
			"projects/my-project/secrets/db-password/versions/latest":  "hunter2",
			"projects/other-project/secrets/api-token/versions/latest": "s3cr3t",
		},
	}

	var counter atomic.Int32
	resolver := newTestResolver(newTestConfig(true), client, &counter)

	testCases := []struct {
		desc   string
		input  string
		wanted string
	}{
		{
			desc:   "regular value passes through",
			input:  "hunter2",
			wanted: "hunter2",
		},
		{
			desc:   "short reference",
			input:  "sm://db-password",
			wanted: "hunter2",
		},
		{
			desc:   "full-qualified reference",
			input:  "sm://projects/other-project/secrets/api-token/versions/latest",
			wanted: "s3cr3t",
		},
		{
			desc:   "deprecated prefix",
			input:  "sm@db-password",
			wanted: "hunter2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			value, err := resolver.Resolve(context.Background(), tc.input)
			if err != nil {
				t.Fatalf("failed to resolve value: %s", err)
			}
			if value != tc.wanted {
				t.Fatalf("wanted %q got %q", tc.wanted, value)
			}
		})
	}

	if got := counter.Load(); got != 1 {
		t.Fatalf("wanted 1 client creation, got %d", got)
	}
}

func TestResolverDisabled(t *testing.T) {
	var counter atomic.Int32
	resolver := newTestResolver(newTestConfig(false), &fakeClient{}, &counter)

	value, err := resolver.Resolve(context.Background(), "sm://db-password")
	if err != nil {
		t.Fatalf("failed to resolve value: %s", err)
	}

	// With resolution disabled references pass through untouched and no
	// client is created.
	if value != "sm://db-password" {
		t.Fatalf("wanted reference to pass through, got %q", value)
	}
	if got := counter.Load(); got != 0 {
		t.Fatalf("wanted no client creation, got %d", got)
	}
}

func TestResolverResolveMap(t *testing.T) {
	client := &fakeClient{
		secrets: map[string]string{
			"projects/my-project/secrets/db-password/versions/latest": "hunter2",
		},
	}

	var counter atomic.Int32
	resolver := newTestResolver(newTestConfig(true), client, &counter)

	items := map[string]string{
		"db_password": "sm://db-password",
		"db_user":     "scott",
	}
	if err := resolver.ResolveMap(context.Background(), items); err != nil {
		t.Fatalf("failed to resolve map: %s", err)
	}

	if items["db_password"] != "hunter2" {
		t.Fatalf("wanted %q got %q", "hunter2", items["db_password"])
	}
	if items["db_user"] != "scott" {
		t.Fatalf("wanted %q got %q", "scott", items["db_user"])
	}
}

func TestResolverResolveEnviron(t *testing.T) {
	client := &fakeClient{
		secrets: map[string]string{
			"projects/my-project/secrets/db-password/versions/latest": "hunter2",
		},
	}

	var counter atomic.Int32
	resolver := newTestResolver(newTestConfig(true), client, &counter)

	t.Setenv("RAGCTL_TEST_DB_PASSWORD", "sm://db-password")
	t.Setenv("RAGCTL_TEST_DB_USER", "scott")

	if err := resolver.ResolveEnviron(context.Background()); err != nil {
		t.Fatalf("failed to resolve environment: %s", err)
	}

	if got := os.Getenv("RAGCTL_TEST_DB_PASSWORD"); got != "hunter2" {
		t.Fatalf("wanted %q got %q", "hunter2", got)
	}
	if got := os.Getenv("RAGCTL_TEST_DB_USER"); got != "scott" {
		t.Fatalf("wanted %q got %q", "scott", got)
	}
}

func TestResolverClientCaching(t *testing.T) {
	client := &fakeClient{}

	var counter atomic.Int32
	resolver := newTestResolver(newTestConfig(true), client, &counter)

	// Concurrent first access creates exactly one client.
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := resolver.Client(context.Background()); err != nil {
				t.Errorf("failed to get client: %s", err)
			}
		}()
	}
	wg.Wait()

	if got := counter.Load(); got != 1 {
		t.Fatalf("wanted 1 client creation, got %d", got)
	}

	// A closed client is replaced on next use.
	if err := resolver.Close(); err != nil {
		t.Fatalf("failed to close resolver: %s", err)
	}
	if !client.closed {
		t.Fatal("wanted cached client to be closed")
	}

	if _, err := resolver.Client(context.Background()); err != nil {
		t.Fatalf("failed to get client: %s", err)
	}
	if got := counter.Load(); got != 2 {
		t.Fatalf("wanted 2 client creations, got %d", got)
	}
}
