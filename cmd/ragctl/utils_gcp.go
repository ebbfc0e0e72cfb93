// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"github.com/urfave/cli/v2"

	gcpclients "github.com/gardener/ragctl/pkg/clients/gcp"
	"github.com/gardener/ragctl/pkg/core/config"
	"github.com/gardener/ragctl/pkg/gcp/secrets"
	gcputils "github.com/gardener/ragctl/pkg/gcp/utils"
	"github.com/gardener/ragctl/pkg/gcp/vertexrag"
)

// errVertexRAGDisabled is an error, which is returned when the Vertex AI RAG
// integration is used while being disabled in the configuration.
var errVertexRAGDisabled = errors.New("vertex rag integration is disabled")

// errSecretManagerDisabled is an error, which is returned when the Secret
// Manager integration is used while being disabled in the configuration.
var errSecretManagerDisabled = errors.New("secret manager integration is disabled")

// errClientNotFound is an error, which is returned when a GCP client was not
// found in the respective clientset.
var errClientNotFound = errors.New("client not found")

// validateGCPConfig validates the GCP configuration settings.
func validateGCPConfig(conf *config.Config) error {
	// Named credentials the integrations refer to must be defined. An
	// empty name means ambient credentials.
	services := map[string]string{
		"vertex_rag":     conf.VertexRAG.UseCredentials,
		"secret_manager": conf.SecretManager.UseCredentials,
	}

	for service, nc := range services {
		if nc == "" {
			continue
		}
		if _, ok := conf.GCP.Credentials[nc]; !ok {
			return fmt.Errorf("gcp: %w: service %s refers to %s", gcpclients.ErrUnknownNamedCredentials, service, nc)
		}
	}

	// Validate the named credentials for using valid authentication
	// methods/strategies.
	supportedAuthnMethods := []string{
		config.GCPAuthenticationMethodNone,
		config.GCPAuthenticationMethodKeyFile,
		config.GCPAuthenticationMethodKeyJSON,
		config.GCPAuthenticationMethodImpersonate,
	}

	for name, creds := range conf.GCP.Credentials {
		if creds.Authentication == "" {
			return fmt.Errorf("gcp: %w: credentials %s", gcpclients.ErrNoAuthenticationMethod, name)
		}
		if !slices.Contains(supportedAuthnMethods, creds.Authentication) {
			return fmt.Errorf("gcp: %w: %s uses %s", gcpclients.ErrUnknownAuthenticationMethod, name, creds.Authentication)
		}
	}

	// Per-method retry settings must refer to known methods.
	methods := vertexrag.Methods()
	for name := range conf.VertexRAG.MethodRetry {
		if !slices.Contains(methods, name) {
			return fmt.Errorf("gcp: %w: %s", vertexrag.ErrUnknownMethod, name)
		}
	}

	return nil
}

// configureVertexRAGClients configures the Vertex AI RAG API clientset.
func configureVertexRAGClients(ctx *cli.Context, conf *config.Config) error {
	if !conf.VertexRAG.Enabled {
		return errVertexRAGDisabled
	}

	project, err := gcputils.ProjectID(ctx.Context, conf.GCP.Project)
	if err != nil {
		return err
	}

	opts, err := vertexrag.ClientOptions(conf)
	if err != nil {
		return err
	}

	c, err := aiplatform.NewVertexRagClient(ctx.Context, opts...)
	if err != nil {
		return fmt.Errorf("gcp: cannot create vertex rag client: %w", err)
	}

	if err := vertexrag.ApplyCallOptions(c.CallOptions, conf.VertexRAG.Retry, conf.VertexRAG.MethodRetry); err != nil {
		return err
	}

	client := &gcpclients.Client[*aiplatform.VertexRagClient]{
		NamedCredentials: conf.VertexRAG.UseCredentials,
		ProjectID:        project,
		Client:           c,
	}
	gcpclients.VertexRAGClientset.Overwrite(project, client)
	slog.Info(
		"configured GCP client",
		"service", "vertex_rag",
		"credentials", client.NamedCredentials,
		"project", project,
	)

	return nil
}

// configureSecretManagerClients configures the Secret Manager API clientset
// with the cached client of the given resolver.
func configureSecretManagerClients(ctx *cli.Context, conf *config.Config, resolver *secrets.Resolver) error {
	if !conf.SecretManager.Enabled {
		return errSecretManagerDisabled
	}

	project, err := gcputils.ProjectID(ctx.Context, conf.SecretManager.Project, conf.GCP.Project)
	if err != nil {
		return err
	}

	c, err := resolver.Client(ctx.Context)
	if err != nil {
		return err
	}

	sm, ok := c.(*secretmanager.Client)
	if !ok {
		return fmt.Errorf("gcp: unexpected secret manager client type %T", c)
	}

	client := &gcpclients.Client[*secretmanager.Client]{
		NamedCredentials: conf.SecretManager.UseCredentials,
		ProjectID:        project,
		Client:           sm,
	}
	gcpclients.SecretManagerClientset.Overwrite(project, client)
	slog.Info(
		"configured GCP client",
		"service", "secret_manager",
		"credentials", client.NamedCredentials,
		"project", project,
	)

	return nil
}

// newRAGService configures the Vertex AI RAG clientset and returns a new
// [vertexrag.Service] backed by the client for the configured project.
func newRAGService(ctx *cli.Context) (*vertexrag.Service, error) {
	conf := getConfig(ctx)
	if err := configureVertexRAGClients(ctx, conf); err != nil {
		return nil, err
	}

	project, err := gcputils.ProjectID(ctx.Context, conf.GCP.Project)
	if err != nil {
		return nil, err
	}

	client, ok := gcpclients.VertexRAGClientset.Get(project)
	if !ok {
		return nil, fmt.Errorf("gcp: %w: vertex_rag for %s", errClientNotFound, project)
	}

	service := vertexrag.NewService(
		client.Client,
		project,
		conf.VertexRAG.Location,
		conf.VertexRAG.RAGCorpus,
	)

	return service, nil
}

// newSecretTemplate configures the Secret Manager clientset and returns a new
// [secrets.Template] backed by the client for the configured project.
func newSecretTemplate(ctx *cli.Context) (*secrets.Template, error) {
	conf := getConfig(ctx)
	resolver := getResolver(ctx)

	if err := configureSecretManagerClients(ctx, conf, resolver); err != nil {
		return nil, err
	}

	project, err := gcputils.ProjectID(ctx.Context, conf.SecretManager.Project, conf.GCP.Project)
	if err != nil {
		return nil, err
	}

	client, ok := gcpclients.SecretManagerClientset.Get(project)
	if !ok {
		return nil, fmt.Errorf("gcp: %w: secret_manager for %s", errClientNotFound, project)
	}

	template := secrets.NewTemplate(client.Client, project, conf.SecretManager.AllowMissing)

	return template, nil
}
