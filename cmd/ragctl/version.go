// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/gardener/ragctl/pkg/version"
)

// NewVersionCommand returns a new command for displaying the version.
func NewVersionCommand() *cli.Command {
	cmd := &cli.Command{
		Name:  "version",
		Usage: "print version and exit",
		Action: func(_ *cli.Context) error {
			fmt.Println(version.Version)

			return nil
		},
	}

	return cmd
}
