// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gcp

import (
	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	"github.com/gardener/ragctl/pkg/core/registry"
)

// SecretManagerClientset provides the registry of GCP API clients for
// interfacing with the Secret Manager API service, keyed by GCP Project ID.
var SecretManagerClientset = registry.New[string, *Client[*secretmanager.Client]]()
