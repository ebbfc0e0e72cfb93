// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package constants

const (
	// PageSize represents the max number of items to fetch from the GCP API
	// during a paginated call.
	PageSize = 100

	// ProjectsPrefix is the prefix for project identifiers.
	ProjectsPrefix = "projects/"

	// LocationsPrefix is the prefix for location identifiers.
	LocationsPrefix = "locations/"

	// RagCorporaPrefix is the prefix for RAG corpus identifiers.
	RagCorporaPrefix = "ragCorpora/"

	// SecretsPrefix is the prefix for secret identifiers.
	SecretsPrefix = "secrets/"

	// VersionsPrefix is the prefix for secret version identifiers.
	VersionsPrefix = "versions/"

	// DefaultSecretVersion is the secret version used, when a secret
	// reference does not specify one.
	DefaultSecretVersion = "latest"
)
