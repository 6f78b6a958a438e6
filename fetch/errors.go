// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fetch

import (
	"fmt"
	"net/http"

	"github.com/bitmark-inc/pubconnector/fault"
)

// limit the amount of body kept in an error
const maximumErrorBody = 512

// StatusError - an unsuccessful HTTP response
type StatusError struct {
	StatusCode int
	Body       string
}

func newStatusError(code int, body []byte) *StatusError {
	if len(body) > maximumErrorBody {
		body = body[:maximumErrorBody]
	}
	return &StatusError{
		StatusCode: code,
		Body:       string(body),
	}
}

// Error - the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Unwrap - classify as rate limited or generic upstream failure
func (e *StatusError) Unwrap() error {
	if http.StatusTooManyRequests == e.StatusCode {
		return fault.ErrRateLimited
	}
	return fault.ErrUpstreamStatus
}
