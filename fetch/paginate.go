// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fetch

import (
	"context"
	"encoding/json"
	"time"
)

// DefaultPageDelay - pause between successive pages
const DefaultPageDelay = 500 * time.Millisecond

// PageFunc - fetch one page (numbered from 1) returning its items and
// the total number of items across all pages
type PageFunc func(ctx context.Context, page int) ([]json.RawMessage, int, error)

// Pagination - walker settings
type Pagination struct {
	Delay    time.Duration // between pages
	MaxPages int           // zero for no cap
}

// Paginate - fetch successive pages until the total is reached
//
// a failing page stops the walk; items accumulated so far are
// returned together with the error
func Paginate(ctx context.Context, p Pagination, fetchPage PageFunc) ([]json.RawMessage, error) {
	accumulated := []json.RawMessage{}

	for page := 1; ; page += 1 {
		results, total, err := fetchPage(ctx, page)
		if nil != err {
			return accumulated, err
		}
		accumulated = append(accumulated, results...)

		if len(accumulated) >= total || 0 == len(results) {
			return accumulated, nil
		}
		if p.MaxPages > 0 && page >= p.MaxPages {
			return accumulated, nil
		}
		if err := sleep(ctx, p.Delay); nil != err {
			return accumulated, err
		}
	}
}
