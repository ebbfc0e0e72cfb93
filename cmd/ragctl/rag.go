// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/gardener/ragctl/pkg/utils/ptr"
)

// NewRAGCommand returns a new command for retrieval-augmented generation
// operations.
func NewRAGCommand() *cli.Command {
	cmd := &cli.Command{
		Name:    "rag",
		Usage:   "retrieval-augmented generation operations",
		Aliases: []string{"r"},
		Subcommands: []*cli.Command{
			{
				Name:      "retrieve",
				Usage:     "retrieve relevant contexts for a query",
				Aliases:   []string{"r"},
				ArgsUsage: "QUERY",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "corpus",
						Usage: "rag corpus to query",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "number of contexts to retrieve",
						Value: 10,
					},
				},
				Action: func(ctx *cli.Context) error {
					query := ctx.Args().First()
					if query == "" {
						return cli.ShowSubcommandHelp(ctx)
					}

					service, err := newRAGService(ctx)
					if err != nil {
						return err
					}
					defer service.Close() // nolint: errcheck

					contexts, err := service.RetrieveContexts(
						ctx.Context,
						query,
						ctx.String("corpus"),
						int32(ctx.Int("top-k")),
					)
					if err != nil {
						return err
					}

					if len(contexts) == 0 {
						return nil
					}

					headers := []string{
						"SOURCE",
						"SCORE",
						"TEXT",
					}
					table := newTableWriter(os.Stdout, headers)
					for _, item := range contexts {
						score := na
						if item.Score != nil {
							score = strconv.FormatFloat(*item.Score, 'f', 4, 64)
						}
						table.Append([]string{item.SourceUri, score, item.Text})
					}
					table.Render()

					return nil
				},
			},
			{
				Name:      "augment",
				Usage:     "augment a prompt with facts from the rag corpus",
				Aliases:   []string{"a"},
				ArgsUsage: "PROMPT",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "corpus",
						Usage: "rag corpus to query",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "model to augment the prompt for",
					},
				},
				Action: func(ctx *cli.Context) error {
					prompt := ctx.Args().First()
					if prompt == "" {
						return cli.ShowSubcommandHelp(ctx)
					}

					service, err := newRAGService(ctx)
					if err != nil {
						return err
					}
					defer service.Close() // nolint: errcheck

					resp, err := service.AugmentPrompt(
						ctx.Context,
						prompt,
						ctx.String("corpus"),
						ctx.String("model"),
					)
					if err != nil {
						return err
					}

					for _, content := range resp.AugmentedPrompt {
						for _, part := range content.Parts {
							fmt.Println(part.GetText())
						}
					}

					if len(resp.Facts) == 0 {
						return nil
					}

					headers := []string{
						"TITLE",
						"URI",
						"SUMMARY",
					}
					table := newTableWriter(os.Stdout, headers)
					for _, fact := range resp.Facts {
						table.Append([]string{
							ptr.Value(fact.Title, na),
							ptr.Value(fact.Uri, na),
							ptr.Value(fact.Summary, na),
						})
					}
					table.Render()

					return nil
				},
			},
			{
				Name:      "corroborate",
				Usage:     "corroborate content against a set of facts",
				Aliases:   []string{"c"},
				ArgsUsage: "CONTENT",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "fact",
						Usage: "fact to corroborate the content against",
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "citation threshold to use",
					},
				},
				Action: func(ctx *cli.Context) error {
					content := ctx.Args().First()
					if content == "" {
						return cli.ShowSubcommandHelp(ctx)
					}

					service, err := newRAGService(ctx)
					if err != nil {
						return err
					}
					defer service.Close() // nolint: errcheck

					resp, err := service.CorroborateContent(
						ctx.Context,
						content,
						ctx.StringSlice("fact"),
						ctx.Float64("threshold"),
					)
					if err != nil {
						return err
					}

					score := na
					if resp.CorroborationScore != nil {
						score = strconv.FormatFloat(float64(*resp.CorroborationScore), 'f', 4, 32)
					}
					fmt.Printf("%-20s: %s\n", "Corroboration Score", score)
					fmt.Printf("%-20s: %d\n", "Claims", len(resp.Claims))

					return nil
				},
			},
		},
	}

	return cmd
}
