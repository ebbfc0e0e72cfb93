// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gardener/ragctl/pkg/gcp/constants"
	gcputils "github.com/gardener/ragctl/pkg/gcp/utils"
)

// ErrSecretNotFound is an error, which is returned when accessing a
// non-existing secret.
var ErrSecretNotFound = errors.New("secret not found")

// ErrPayloadCorrupted is an error, which is returned when the checksum of a
// secret payload does not match the data.
var ErrPayloadCorrupted = errors.New("secret payload data corruption detected")

// APIClient is the subset of the Secret Manager API client, which is used by
// the [Template].
type APIClient interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	ListSecrets(ctx context.Context, req *secretmanagerpb.ListSecretsRequest, opts ...gax.CallOption) *secretmanager.SecretIterator
	Close() error
}

// Template provides convenience methods for accessing secrets from the Secret
// Manager API service.
type Template struct {
	client       APIClient
	projectID    string
	allowMissing bool
}

// NewTemplate creates a new [Template] backed by the given API client. The
// project id is used for resolving short secret references. With allowMissing
// set to true a missing secret resolves to an empty value instead of an
// error.
func NewTemplate(client APIClient, projectID string, allowMissing bool) *Template {
	t := &Template{
		client:       client,
		projectID:    projectID,
		allowMissing: allowMissing,
	}

	return t
}

// GetSecret returns the payload of the secret specified by the given
// reference.
func (t *Template) GetSecret(ctx context.Context, ref *Reference) (string, error) {
	project := ref.Project
	if project == "" {
		project = t.projectID
	}

	if project == "" {
		return "", fmt.Errorf("secrets: %w", gcputils.ErrNoProjectID)
	}

	name := gcputils.SecretVersionFQN(project, ref.Secret, ref.Version)

	return t.AccessSecretVersion(ctx, name)
}

// AccessSecretVersion returns the payload of the secret version specified by
// the given full-qualified resource name.
func (t *Template) AccessSecretVersion(ctx context.Context, name string) (string, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	}

	resp, err := t.client.AccessSecretVersion(ctx, req)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			if t.allowMissing {
				return "", nil
			}

			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
		}

		return "", fmt.Errorf("secrets: cannot access %s: %w", name, err)
	}

	if resp.Payload == nil {
		return "", fmt.Errorf("secrets: empty payload for %s", name)
	}

	// Validate the payload against the server-side checksum, if one was
	// provided.
	if resp.Payload.DataCrc32C != nil {
		checksum := int64(crc32.Checksum(resp.Payload.Data, crc32.MakeTable(crc32.Castagnoli)))
		if checksum != *resp.Payload.DataCrc32C {
			return "", fmt.Errorf("%w: %s", ErrPayloadCorrupted, name)
		}
	}

	return string(resp.Payload.Data), nil
}

// ListSecrets returns the full-qualified names of the secrets in the project
// associated with the template.
func (t *Template) ListSecrets(ctx context.Context) ([]string, error) {
	if t.projectID == "" {
		return nil, fmt.Errorf("secrets: %w", gcputils.ErrNoProjectID)
	}

	req := &secretmanagerpb.ListSecretsRequest{
		Parent:   gcputils.ProjectFQN(t.projectID),
		PageSize: constants.PageSize,
	}

	names := make([]string, 0)
	it := t.client.ListSecrets(ctx, req)
	for {
		secret, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("secrets: cannot list secrets: %w", err)
		}
		names = append(names, secret.Name)
	}

	return names, nil
}

// Close closes the API client of the template.
func (t *Template) Close() error {
	return t.client.Close()
}
