// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gardener/ragctl/pkg/gcp/secrets"
)

// NewSecretCommand returns a new command for Secret Manager operations.
func NewSecretCommand() *cli.Command {
	cmd := &cli.Command{
		Name:    "secret",
		Usage:   "secret manager operations",
		Aliases: []string{"s"},
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "get the payload of a secret",
				Aliases:   []string{"g"},
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "version",
						Usage: "secret version to access",
					},
				},
				Action: func(ctx *cli.Context) error {
					name := ctx.Args().First()
					if name == "" {
						return cli.ShowSubcommandHelp(ctx)
					}

					template, err := newSecretTemplate(ctx)
					if err != nil {
						return err
					}

					ref := &secrets.Reference{
						Secret:  name,
						Version: ctx.String("version"),
					}
					if secrets.IsReference(name) {
						parsed, err := secrets.ParseReference(name)
						if err != nil {
							return err
						}
						ref = parsed
					}

					value, err := template.GetSecret(ctx.Context, ref)
					if err != nil {
						return err
					}
					fmt.Println(value)

					return nil
				},
			},
			{
				Name:    "list",
				Usage:   "list secrets",
				Aliases: []string{"ls"},
				Action: func(ctx *cli.Context) error {
					template, err := newSecretTemplate(ctx)
					if err != nil {
						return err
					}

					names, err := template.ListSecrets(ctx.Context)
					if err != nil {
						return err
					}

					if len(names) == 0 {
						return nil
					}

					table := newTableWriter(os.Stdout, []string{"NAME"})
					for _, item := range names {
						table.Append([]string{item})
					}
					table.Render()

					return nil
				},
			},
			{
				Name:      "resolve",
				Usage:     "resolve a secret reference",
				Aliases:   []string{"r"},
				ArgsUsage: "VALUE",
				Action: func(ctx *cli.Context) error {
					value := ctx.Args().First()
					if value == "" {
						return cli.ShowSubcommandHelp(ctx)
					}

					resolver := getResolver(ctx)
					resolved, err := resolver.Resolve(ctx.Context, value)
					if err != nil {
						return err
					}
					fmt.Println(resolved)

					return nil
				},
			},
		},
	}

	return cmd
}
