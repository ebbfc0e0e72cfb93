// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gcp

import (
	aiplatform "cloud.google.com/go/aiplatform/apiv1"

	"github.com/gardener/ragctl/pkg/core/registry"
)

// VertexRAGClientset provides the registry of GCP API clients for interfacing
// with the Vertex AI RAG API service, keyed by GCP Project ID.
var VertexRAGClientset = registry.New[string, *Client[*aiplatform.VertexRagClient]]()
