// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gcp

import (
	"errors"
	"fmt"

	"google.golang.org/api/option"

	"github.com/gardener/ragctl/pkg/core/config"
)

// ErrUnknownNamedCredentials is an error, which is returned when a service
// refers to named credentials, which are not defined in the configuration.
var ErrUnknownNamedCredentials = errors.New("unknown named credentials specified")

// ErrNoAuthenticationMethod is an error, which is returned when named
// credentials do not specify an authentication method.
var ErrNoAuthenticationMethod = errors.New("no authentication method specified")

// ErrUnknownAuthenticationMethod is an error, which is returned when using an
// unknown/unsupported authentication method/strategy.
var ErrUnknownAuthenticationMethod = errors.New("unknown authentication method specified")

// ErrNoKeyFile is an error, which is returned when no path to a service
// account JSON key file was specified for a named credential.
var ErrNoKeyFile = errors.New("no service account JSON key file specified")

// ErrNoKeyJSON is an error, which is returned when no inline service account
// JSON key was specified for a named credential.
var ErrNoKeyJSON = errors.New("no inline service account JSON key specified")

// ErrNoTargetPrincipal is an error, which is returned when no target principal
// was specified for impersonated credentials.
var ErrNoTargetPrincipal = errors.New("no target principal specified")

// ClientOptions returns the slice of [option.ClientOption], which are derived
// from the named credentials settings. An empty credentials name falls back to
// Application Default Credentials.
func ClientOptions(conf *config.GCPConfig, namedCredentials string) ([]option.ClientOption, error) {
	// Default set of options
	opts := make([]option.ClientOption, 0)
	if conf.UserAgent != "" {
		opts = append(opts, option.WithUserAgent(conf.UserAgent))
	}

	// No named credentials means ambient credentials only.
	if namedCredentials == "" {
		return opts, nil
	}

	creds, ok := conf.Credentials[namedCredentials]
	if !ok {
		return nil, fmt.Errorf("gcp: %w: %s", ErrUnknownNamedCredentials, namedCredentials)
	}

	switch creds.Authentication {
	case config.GCPAuthenticationMethodNone:
		// Load Application Default Credentials only, nothing to be done
		// from our side.
	case config.GCPAuthenticationMethodKeyFile:
		// JSON key file authentication
		if creds.KeyFile.Path == "" {
			return nil, fmt.Errorf("gcp: %w: credentials %s", ErrNoKeyFile, namedCredentials)
		}
		opts = append(opts, option.WithCredentialsFile(creds.KeyFile.Path))
	case config.GCPAuthenticationMethodKeyJSON:
		// Inline JSON key authentication
		if creds.KeyJSON == "" {
			return nil, fmt.Errorf("gcp: %w: credentials %s", ErrNoKeyJSON, namedCredentials)
		}
		opts = append(opts, option.WithCredentialsJSON([]byte(creds.KeyJSON)))
	case config.GCPAuthenticationMethodImpersonate:
		// Service account impersonation
		if creds.Impersonate.TargetPrincipal == "" {
			return nil, fmt.Errorf("gcp: %w: credentials %s", ErrNoTargetPrincipal, namedCredentials)
		}
		opts = append(
			opts,
			option.ImpersonateCredentials(creds.Impersonate.TargetPrincipal, creds.Impersonate.Delegates...),
		)
	case "":
		return nil, fmt.Errorf("gcp: %w: credentials %s", ErrNoAuthenticationMethod, namedCredentials)
	default:
		return nil, fmt.Errorf("gcp: %w: %s uses %s", ErrUnknownAuthenticationMethod, namedCredentials, creds.Authentication)
	}

	return opts, nil
}
