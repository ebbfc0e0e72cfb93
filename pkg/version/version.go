// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package version

// Version is the current version of ragctl. It is meant to be set via
// -ldflags during build time.
var Version = "v0.1.0-dev"
