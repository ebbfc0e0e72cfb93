// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package secrets_test

import (
	"errors"
	"testing"

	"github.com/gardener/ragctl/pkg/gcp/secrets"
)

func TestIsReference(t *testing.T) {
	testCases := []struct {
		desc   string
		input  string
		wanted bool
	}{
		{
			desc:   "current prefix",
			input:  "sm://my-secret",
			wanted: true,
		},
		{
			desc:   "deprecated prefix",
			input:  "sm@my-secret",
			wanted: true,
		},
		{
			desc:   "regular value",
			input:  "hunter2",
			wanted: false,
		},
		{
			desc:   "empty value",
			input:  "",
			wanted: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			output := secrets.IsReference(tc.input)
			if output != tc.wanted {
				t.Fatalf("wanted %t got %t", tc.wanted, output)
			}
		})
	}
}

func TestParseReference(t *testing.T) {
	testCases := []struct {
		desc   string
		input  string
		wanted secrets.Reference
	}{
		{
			desc:   "secret only",
			input:  "sm://my-secret",
			wanted: secrets.Reference{Secret: "my-secret"},
		},
		{
			desc:   "secret and version",
			input:  "sm://my-secret/42",
			wanted: secrets.Reference{Secret: "my-secret", Version: "42"},
		},
		{
			desc:   "project, secret and version",
			input:  "sm://my-project/my-secret/latest",
			wanted: secrets.Reference{Project: "my-project", Secret: "my-secret", Version: "latest"},
		},
		{
			desc:   "full-qualified secret",
			input:  "sm://projects/my-project/secrets/my-secret",
			wanted: secrets.Reference{Project: "my-project", Secret: "my-secret"},
		},
		{
			desc:   "full-qualified secret version",
			input:  "sm://projects/my-project/secrets/my-secret/versions/42",
			wanted: secrets.Reference{Project: "my-project", Secret: "my-secret", Version: "42"},
		},
		{
			desc:   "deprecated prefix",
			input:  "sm@my-secret",
			wanted: secrets.Reference{Secret: "my-secret"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			ref, err := secrets.ParseReference(tc.input)
			if err != nil {
				t.Fatalf("failed to parse reference: %s", err)
			}

			if *ref != tc.wanted {
				t.Fatalf("wanted %v got %v", tc.wanted, *ref)
			}
		})
	}
}

func TestParseInvalidReference(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
	}{
		{
			desc:  "no prefix",
			input: "my-secret",
		},
		{
			desc:  "empty path",
			input: "sm://",
		},
		{
			desc:  "empty path segment",
			input: "sm://my-project//latest",
		},
		{
			desc:  "too many path segments",
			input: "sm://a/b/c/d",
		},
		{
			desc:  "malformed full-qualified name",
			input: "sm://projects/my-project/buckets/my-bucket",
		},
		{
			desc:  "full-qualified name with trailing segment",
			input: "sm://projects/my-project/secrets/my-secret/versions",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := secrets.ParseReference(tc.input)
			if !errors.Is(err, secrets.ErrInvalidReference) {
				t.Fatalf("wanted %s, got %s", secrets.ErrInvalidReference, err)
			}
		})
	}
}
