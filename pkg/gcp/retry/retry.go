// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"

	"github.com/gardener/ragctl/pkg/core/config"
)

// ErrUnknownStatusCode is an error, which is returned when a retry policy
// refers to an unknown gRPC status code.
var ErrUnknownStatusCode = errors.New("unknown grpc status code specified")

// DefaultRetryableCodes are the gRPC status codes considered retryable, when
// the retry policy does not specify any.
var DefaultRetryableCodes = []codes.Code{
	codes.Unavailable,
}

// StatusCodes parses the given status code names, e.g. UNAVAILABLE, into
// [codes.Code] values.
func StatusCodes(names []string) ([]codes.Code, error) {
	cc := make([]codes.Code, 0, len(names))
	for _, name := range names {
		var c codes.Code
		if err := c.UnmarshalJSON([]byte(strconv.Quote(name))); err != nil {
			return nil, fmt.Errorf("retry: %w: %s", ErrUnknownStatusCode, name)
		}
		cc = append(cc, c)
	}

	return cc, nil
}

// NewRetryer creates a new [gax.Retryer] from the given retry policy. The
// returned retryer is stateful and must not be shared between calls.
func NewRetryer(rc *config.RetryConfig) (gax.Retryer, error) {
	cc := DefaultRetryableCodes
	if len(rc.RetryOn) > 0 {
		parsed, err := StatusCodes(rc.RetryOn)
		if err != nil {
			return nil, err
		}
		cc = parsed
	}

	backoff := gax.Backoff{
		Initial:    rc.InitialDelay.Duration(),
		Max:        rc.MaxDelay.Duration(),
		Multiplier: rc.Multiplier,
	}

	var retryer gax.Retryer = gax.OnCodes(cc, backoff)
	if rc.MaxAttempts > 0 {
		retryer = &attemptCapRetryer{
			remaining: rc.MaxAttempts - 1,
			next:      retryer,
		}
	}

	return retryer, nil
}

// CallOptions returns the slice of [gax.CallOption], which represent the
// given retry policy. A nil policy yields no call options, which leaves the
// client library defaults in place.
func CallOptions(rc *config.RetryConfig) ([]gax.CallOption, error) {
	if rc == nil {
		return nil, nil
	}

	// Validate the policy eagerly, a broken policy must surface during
	// startup and not on the first API call.
	if _, err := NewRetryer(rc); err != nil {
		return nil, err
	}

	opts := []gax.CallOption{
		gax.WithRetry(func() gax.Retryer {
			retryer, _ := NewRetryer(rc)

			return retryer
		}),
	}

	if rc.Timeout > 0 {
		opts = append(opts, gax.WithTimeout(rc.Timeout.Duration()))
	}

	return opts, nil
}

// attemptCapRetryer is a [gax.Retryer], which enforces a max number of call
// attempts on top of another retryer. The gax call options do not expose an
// attempt cap on their own.
type attemptCapRetryer struct {
	remaining int
	next      gax.Retryer
}

// Retry implements the [gax.Retryer] interface.
func (r *attemptCapRetryer) Retry(err error) (time.Duration, bool) {
	if r.remaining <= 0 {
		return 0, false
	}
	r.remaining--

	return r.next.Retry(err)
}
