// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/compute/metadata"

	"github.com/gardener/ragctl/pkg/gcp/constants"
)

// ErrNoProjectID is an error, which is returned when no GCP Project ID could
// be determined from the configuration or the ambient environment.
var ErrNoProjectID = errors.New("no GCP project id specified")

// ProjectFQN returns the full-qualified name for the given project id.
func ProjectFQN(s string) string {
	if strings.HasPrefix(s, constants.ProjectsPrefix) {
		return s
	}

	return fmt.Sprintf("%s%s", constants.ProjectsPrefix, s)
}

// LocationFQN returns the full-qualified name for the given project id and
// location.
func LocationFQN(project string, location string) string {
	return fmt.Sprintf("%s/%s%s", ProjectFQN(project), constants.LocationsPrefix, location)
}

// RagCorpusFQN returns the full-qualified name for the given RAG corpus. A
// corpus, which is already full-qualified is returned as-is.
func RagCorpusFQN(project string, location string, corpus string) string {
	if strings.HasPrefix(corpus, constants.ProjectsPrefix) {
		return corpus
	}

	return fmt.Sprintf("%s/%s%s", LocationFQN(project, location), constants.RagCorporaPrefix, corpus)
}

// SecretFQN returns the full-qualified name for the given secret. A secret,
// which is already full-qualified is returned as-is.
func SecretFQN(project string, secret string) string {
	if strings.HasPrefix(secret, constants.ProjectsPrefix) {
		return secret
	}

	return fmt.Sprintf("%s/%s%s", ProjectFQN(project), constants.SecretsPrefix, secret)
}

// SecretVersionFQN returns the full-qualified name for the given secret
// version. An empty version defaults to [constants.DefaultSecretVersion].
func SecretVersionFQN(project string, secret string, version string) string {
	if version == "" {
		version = constants.DefaultSecretVersion
	}

	return fmt.Sprintf("%s/%s%s", SecretFQN(project, secret), constants.VersionsPrefix, version)
}

// ProjectID returns the first non-empty GCP Project ID from the given
// candidates. When no candidate is set it falls back to the
// GOOGLE_CLOUD_PROJECT environment variable and the GCE metadata service.
func ProjectID(ctx context.Context, candidates ...string) (string, error) {
	for _, candidate := range candidates {
		if candidate != "" {
			return candidate, nil
		}
	}

	if project := os.Getenv("GOOGLE_CLOUD_PROJECT"); project != "" {
		return project, nil
	}

	if metadata.OnGCE() {
		project, err := metadata.ProjectIDWithContext(ctx)
		if err != nil {
			return "", fmt.Errorf("gcp: cannot get project id from metadata service: %w", err)
		}

		return project, nil
	}

	return "", ErrNoProjectID
}
