// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gardener/ragctl/pkg/core/config"
	"github.com/gardener/ragctl/pkg/gcp/secrets"
	slogutils "github.com/gardener/ragctl/pkg/utils/slog"
	"github.com/gardener/ragctl/pkg/version"
)

func main() {
	app := &cli.App{
		Name:                 "ragctl",
		Version:              version.Version,
		EnableBashCompletion: true,
		Usage:                "command-line tool for retrieval-augmented generation on Vertex AI",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enables debug mode, if set",
				Value: false,
			},
			&cli.StringFlag{
				Name:     "config",
				Usage:    "path to config file",
				Required: true,
				Aliases:  []string{"file"},
				EnvVars:  []string{"RAGCTL_CONFIG"},
			},
		},
		Before: func(ctx *cli.Context) error {
			configFile := ctx.String("config")
			conf, err := config.Parse(configFile)
			if err != nil {
				return fmt.Errorf("Cannot parse config: %w", err)
			}

			// Overrides from flags/options
			if ctx.IsSet("debug") {
				conf.Debug = ctx.Bool("debug")
			}
			if conf.Debug {
				conf.Logging.Level = string(slogutils.LevelDebug)
			}

			if conf.GCP.UserAgent == "" {
				conf.GCP.UserAgent = fmt.Sprintf("ragctl/%s", version.Version)
			}

			logger, err := slogutils.NewFromConfig(os.Stderr, conf.Logging)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			if err := validateGCPConfig(conf); err != nil {
				return err
			}

			// First startup phase: resolve secret references from the
			// config and the environment, before any other component
			// is configured.
			resolver := secrets.NewResolver(conf)
			if err := resolver.ResolveMap(ctx.Context, conf.Secrets); err != nil {
				return err
			}
			if err := resolver.ResolveEnviron(ctx.Context); err != nil {
				return err
			}

			ctx.Context = context.WithValue(ctx.Context, configKey{}, conf)
			ctx.Context = context.WithValue(ctx.Context, resolverKey{}, resolver)

			return nil
		},
		Commands: []*cli.Command{
			NewRAGCommand(),
			NewSecretCommand(),
			NewConfigCommand(),
			NewServeCommand(),
			NewVersionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
