// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gcp_test

import (
	"errors"
	"testing"

	gcpclients "github.com/gardener/ragctl/pkg/clients/gcp"
	"github.com/gardener/ragctl/pkg/core/config"
)

func TestClientOptions(t *testing.T) {
	conf := &config.GCPConfig{
		UserAgent: "ragctl/test",
		Credentials: map[string]config.GCPCredentialsConfig{
			"default": {
				Authentication: config.GCPAuthenticationMethodNone,
			},
			"key-file": {
				Authentication: config.GCPAuthenticationMethodKeyFile,
				KeyFile: config.GCPKeyFileConfig{
					Path: "/etc/ragctl/key.json",
				},
			},
			"key-json": {
				Authentication: config.GCPAuthenticationMethodKeyJSON,
				KeyJSON:        `{"type": "service_account"}`,
			},
			"impersonated": {
				Authentication: config.GCPAuthenticationMethodImpersonate,
				Impersonate: config.GCPImpersonateConfig{
					TargetPrincipal: "sa@my-project.iam.gserviceaccount.com",
				},
			},
			"key-file-without-path": {
				Authentication: config.GCPAuthenticationMethodKeyFile,
			},
			"key-json-without-key": {
				Authentication: config.GCPAuthenticationMethodKeyJSON,
			},
			"impersonated-without-target": {
				Authentication: config.GCPAuthenticationMethodImpersonate,
			},
			"no-authentication": {},
			"unsupported": {
				Authentication: "mfa-token",
			},
		},
	}

	testCases := []struct {
		desc             string
		namedCredentials string
		wantedLen        int
		wantedErr        error
	}{
		{
			desc:             "empty named credentials fall back to ambient credentials",
			namedCredentials: "",
			wantedLen:        1,
		},
		{
			desc:             "application default credentials",
			namedCredentials: "default",
			wantedLen:        1,
		},
		{
			desc:             "key file credentials",
			namedCredentials: "key-file",
			wantedLen:        2,
		},
		{
			desc:             "inline key json credentials",
			namedCredentials: "key-json",
			wantedLen:        2,
		},
		{
			desc:             "impersonated credentials",
			namedCredentials: "impersonated",
			wantedLen:        2,
		},
		{
			desc:             "unknown named credentials",
			namedCredentials: "missing",
			wantedErr:        gcpclients.ErrUnknownNamedCredentials,
		},
		{
			desc:             "key file credentials without a path",
			namedCredentials: "key-file-without-path",
			wantedErr:        gcpclients.ErrNoKeyFile,
		},
		{
			desc:             "inline key json credentials without a key",
			namedCredentials: "key-json-without-key",
			wantedErr:        gcpclients.ErrNoKeyJSON,
		},
		{
			desc:             "impersonated credentials without a target principal",
			namedCredentials: "impersonated-without-target",
			wantedErr:        gcpclients.ErrNoTargetPrincipal,
		},
		{
			desc:             "credentials without authentication method",
			namedCredentials: "no-authentication",
			wantedErr:        gcpclients.ErrNoAuthenticationMethod,
		},
		{
			desc:             "credentials with unsupported authentication method",
			namedCredentials: "unsupported",
			wantedErr:        gcpclients.ErrUnknownAuthenticationMethod,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			opts, err := gcpclients.ClientOptions(conf, tc.namedCredentials)
			if tc.wantedErr != nil {
				if !errors.Is(err, tc.wantedErr) {
					t.Fatalf("wanted error %s, got %s", tc.wantedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("failed to build client options: %s", err)
			}

			if len(opts) != tc.wantedLen {
				t.Fatalf("wanted %d client options, got %d", tc.wantedLen, len(opts))
			}
		})
	}
}

func TestClientOptionsWithoutUserAgent(t *testing.T) {
	conf := &config.GCPConfig{
		Credentials: map[string]config.GCPCredentialsConfig{
			"default": {
				Authentication: config.GCPAuthenticationMethodNone,
			},
		},
	}

	opts, err := gcpclients.ClientOptions(conf, "default")
	if err != nil {
		t.Fatalf("failed to build client options: %s", err)
	}

	if len(opts) != 0 {
		t.Fatalf("wanted no client options, got %d", len(opts))
	}
}
