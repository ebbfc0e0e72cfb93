// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/gardener/ragctl/pkg/core/config"
	"github.com/gardener/ragctl/pkg/gcp/secrets"
)

// na is displayed for values which are not available
const na = "N/A"

// configKey is the context key for the parsed configuration.
type configKey struct{}

// resolverKey is the context key for the secret resolver.
type resolverKey struct{}

// getConfig returns the parsed configuration from the context.
func getConfig(ctx *cli.Context) *config.Config {
	conf, ok := ctx.Context.Value(configKey{}).(*config.Config)
	if !ok {
		return nil
	}

	return conf
}

// getResolver returns the secret resolver from the context.
func getResolver(ctx *cli.Context) *secrets.Resolver {
	resolver, ok := ctx.Context.Value(resolverKey{}).(*secrets.Resolver)
	if !ok {
		return nil
	}

	return resolver
}

// newTableWriter creates a new table writer with the given headers, which
// renders to the given [io.Writer].
func newTableWriter(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(w)
	table.Header(headers)

	return table
}
