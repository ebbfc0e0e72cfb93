// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"google.golang.org/api/option"

	gcpclients "github.com/gardener/ragctl/pkg/clients/gcp"
	"github.com/gardener/ragctl/pkg/core/config"
	gcputils "github.com/gardener/ragctl/pkg/gcp/utils"
	"github.com/gardener/ragctl/pkg/metrics"
)

// Resolver resolves `sm://` secret references from configuration values and
// the process environment.
//
// The resolver owns a lazily created Secret Manager API client, which is
// cached and shared between resolutions. The cached client is re-created,
// when it has been closed since caching. The resolver is safe for concurrent
// use.
type Resolver struct {
	conf *config.Config

	mu     sync.Mutex
	client APIClient
	closed bool

	// newClientFunc creates the Secret Manager API client.
	newClientFunc func(ctx context.Context) (APIClient, error)
}

// NewResolver creates a new [Resolver] from the given config.
func NewResolver(conf *config.Config) *Resolver {
	r := &Resolver{
		conf: conf,
	}
	r.newClientFunc = r.newClient

	return r
}

// Enabled returns true, if secret resolution is enabled.
func (r *Resolver) Enabled() bool {
	return r.conf.SecretManager.Enabled
}

// newClient creates a new Secret Manager API client from the configuration.
func (r *Resolver) newClient(ctx context.Context) (APIClient, error) {
	opts, err := gcpclients.ClientOptions(&r.conf.GCP, r.conf.SecretManager.UseCredentials)
	if err != nil {
		return nil, err
	}

	if r.conf.SecretManager.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(r.conf.SecretManager.Endpoint))
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secrets: cannot create secret manager client: %w", err)
	}

	return client, nil
}

// Client returns the Secret Manager API client of the resolver. The client is
// created on first use and cached for subsequent calls. A client, which has
// been closed since caching is replaced with a new one.
func (r *Resolver) Client(ctx context.Context) (APIClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil && !r.closed {
		return r.client, nil
	}

	client, err := r.newClientFunc(ctx)
	if err != nil {
		return nil, err
	}

	r.client = client
	r.closed = false

	return client, nil
}

// Close closes the cached API client, if any.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil || r.closed {
		return nil
	}

	r.closed = true

	return r.client.Close()
}

// Template returns a [Template] backed by the cached API client of the
// resolver.
func (r *Resolver) Template(ctx context.Context) (*Template, error) {
	client, err := r.Client(ctx)
	if err != nil {
		return nil, err
	}

	project, err := gcputils.ProjectID(ctx, r.conf.SecretManager.Project, r.conf.GCP.Project)
	if err != nil && !errors.Is(err, gcputils.ErrNoProjectID) {
		return nil, err
	}

	return NewTemplate(client, project, r.conf.SecretManager.AllowMissing), nil
}

// Resolve resolves the given value. A value, which is not a secret reference
// is returned as-is. When secret resolution is disabled, references pass
// through untouched as well.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	if !IsReference(value) {
		return value, nil
	}

	if !r.Enabled() {
		return value, nil
	}

	if IsDeprecatedReference(value) {
		slog.Warn(
			"using deprecated secret reference prefix",
			"deprecated_prefix", DeprecatedPrefix,
			"prefix", Prefix,
		)
	}

	ref, err := ParseReference(value)
	if err != nil {
		metrics.SecretResolutionTotal.WithLabelValues("error").Inc()

		return "", err
	}

	template, err := r.Template(ctx)
	if err != nil {
		metrics.SecretResolutionTotal.WithLabelValues("error").Inc()

		return "", err
	}

	secret, err := template.GetSecret(ctx, ref)
	if err != nil {
		metrics.SecretResolutionTotal.WithLabelValues("error").Inc()

		return "", err
	}

	metrics.SecretResolutionTotal.WithLabelValues("ok").Inc()

	return secret, nil
}

// ResolveMap resolves the secret references from the values of the given map
// in place.
func (r *Resolver) ResolveMap(ctx context.Context, items map[string]string) error {
	for key, value := range items {
		resolved, err := r.Resolve(ctx, value)
		if err != nil {
			return fmt.Errorf("secrets: cannot resolve %s: %w", key, err)
		}
		items[key] = resolved
	}

	return nil
}

// ResolveEnviron resolves the secret references from the values of the
// process environment variables.
func (r *Resolver) ResolveEnviron(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}

	for _, item := range os.Environ() {
		key, value, _ := strings.Cut(item, "=")
		if !IsReference(value) {
			continue
		}

		resolved, err := r.Resolve(ctx, value)
		if err != nil {
			return fmt.Errorf("secrets: cannot resolve %s: %w", key, err)
		}

		if err := os.Setenv(key, resolved); err != nil {
			return err
		}
	}

	return nil
}
