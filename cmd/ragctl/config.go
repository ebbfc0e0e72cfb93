// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/gardener/ragctl/pkg/core/config"
)

// masked is displayed instead of sensitive configuration values
const masked = "**********"

// NewConfigCommand returns a new command for configuration operations.
func NewConfigCommand() *cli.Command {
	cmd := &cli.Command{
		Name:    "config",
		Usage:   "configuration operations",
		Aliases: []string{"c"},
		Subcommands: []*cli.Command{
			{
				Name:    "show",
				Usage:   "show the effective configuration",
				Aliases: []string{"dump"},
				Action: func(ctx *cli.Context) error {
					conf := getConfig(ctx)
					redacted := redactConfig(conf)

					out, err := yaml.Marshal(redacted)
					if err != nil {
						return err
					}
					fmt.Print(string(out))

					return nil
				},
			},
		},
	}

	return cmd
}

// redactConfig returns a copy of the given config with sensitive values
// masked out.
func redactConfig(conf *config.Config) *config.Config {
	redacted := *conf

	if len(conf.Secrets) > 0 {
		redacted.Secrets = make(map[string]string, len(conf.Secrets))
		for key := range conf.Secrets {
			redacted.Secrets[key] = masked
		}
	}

	if len(conf.GCP.Credentials) > 0 {
		redacted.GCP.Credentials = make(map[string]config.GCPCredentialsConfig, len(conf.GCP.Credentials))
		for name, creds := range conf.GCP.Credentials {
			if creds.KeyJSON != "" {
				creds.KeyJSON = masked
			}
			redacted.GCP.Credentials[name] = creds
		}
	}

	return &redacted
}
