// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Prefix is the prefix of secret references, e.g.
	// sm://my-project/my-secret/latest
	Prefix = "sm://"

	// DeprecatedPrefix is the legacy prefix of secret references. It is
	// still supported, but emits a warning during resolution.
	DeprecatedPrefix = "sm@"
)

// ErrInvalidReference is an error, which is returned when parsing a malformed
// secret reference.
var ErrInvalidReference = errors.New("invalid secret reference")

// Reference represents a parsed secret reference.
//
// The following syntaxes are supported.
//
//	sm://<secret>
//	sm://<secret>/<version>
//	sm://<project>/<secret>/<version>
//	sm://projects/<project>/secrets/<secret>
//	sm://projects/<project>/secrets/<secret>/versions/<version>
type Reference struct {
	// Project is the GCP Project ID of the secret. When empty, the
	// default project of the resolver is used.
	Project string

	// Secret is the secret id.
	Secret string

	// Version is the secret version. When empty, the latest version is
	// used.
	Version string
}

// IsReference returns true, if the given value looks like a secret reference.
func IsReference(s string) bool {
	return strings.HasPrefix(s, Prefix) || strings.HasPrefix(s, DeprecatedPrefix)
}

// IsDeprecatedReference returns true, if the given value uses the deprecated
// secret reference prefix.
func IsDeprecatedReference(s string) bool {
	return strings.HasPrefix(s, DeprecatedPrefix)
}

// ParseReference parses the given secret reference.
func ParseReference(s string) (*Reference, error) {
	var path string
	switch {
	case strings.HasPrefix(s, Prefix):
		path = strings.TrimPrefix(s, Prefix)
	case strings.HasPrefix(s, DeprecatedPrefix):
		path = strings.TrimPrefix(s, DeprecatedPrefix)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidReference, s)
	}

	if path == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReference, s)
	}

	parts := strings.Split(path, "/")
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidReference, s)
		}
	}

	// Full-qualified resource names
	if parts[0] == "projects" {
		switch {
		case len(parts) == 4 && parts[2] == "secrets":
			return &Reference{Project: parts[1], Secret: parts[3]}, nil
		case len(parts) == 6 && parts[2] == "secrets" && parts[4] == "versions":
			return &Reference{Project: parts[1], Secret: parts[3], Version: parts[5]}, nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidReference, s)
		}
	}

	// Short forms
	switch len(parts) {
	case 1:
		return &Reference{Secret: parts[0]}, nil
	case 2:
		return &Reference{Secret: parts[0], Version: parts[1]}, nil
	case 3:
		return &Reference{Project: parts[0], Secret: parts[1], Version: parts[2]}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidReference, s)
	}
}
