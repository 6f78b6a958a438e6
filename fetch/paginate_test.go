// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fetch_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/fetch"
)

// pages of size n over a total of total items
func pager(n int, total int, failAt int, calls *[]int) fetch.PageFunc {
	return func(ctx context.Context, page int) ([]json.RawMessage, int, error) {
		*calls = append(*calls, page)
		if page == failAt {
			return nil, 0, fmt.Errorf("page %d failed", page)
		}
		results := []json.RawMessage{}
		for i := (page - 1) * n; i < page*n && i < total; i += 1 {
			results = append(results, json.RawMessage(fmt.Sprintf("%d", i)))
		}
		return results, total, nil
	}
}

func TestPaginateAll(t *testing.T) {
	calls := []int{}
	results, err := fetch.Paginate(context.Background(), fetch.Pagination{Delay: time.Millisecond}, pager(2, 5, 0, &calls))
	assert.Nil(t, err)
	assert.Equal(t, 5, len(results))
	assert.Equal(t, []int{1, 2, 3}, calls)
	assert.Equal(t, json.RawMessage("4"), results[4])
}

func TestPaginateStopsOnFailure(t *testing.T) {
	calls := []int{}
	results, err := fetch.Paginate(context.Background(), fetch.Pagination{}, pager(2, 10, 3, &calls))
	assert.NotNil(t, err)
	assert.Equal(t, 4, len(results), "keeps accumulated pages")
	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestPaginateMaxPages(t *testing.T) {
	calls := []int{}
	results, err := fetch.Paginate(context.Background(), fetch.Pagination{MaxPages: 2}, pager(2, 10, 0, &calls))
	assert.Nil(t, err)
	assert.Equal(t, 4, len(results))
	assert.Equal(t, []int{1, 2}, calls)
}

func TestPaginateEmptyPageStops(t *testing.T) {
	calls := []int{}
	// total claims more than is delivered
	results, err := fetch.Paginate(context.Background(), fetch.Pagination{}, pager(2, 3, 0, &calls))
	assert.Nil(t, err)
	assert.Equal(t, 3, len(results))

	calls = []int{}
	f := func(ctx context.Context, page int) ([]json.RawMessage, int, error) {
		calls = append(calls, page)
		if page > 1 {
			return nil, 100, nil
		}
		return []json.RawMessage{json.RawMessage("1")}, 100, nil
	}
	results, err = fetch.Paginate(context.Background(), fetch.Pagination{}, f)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(results))
	assert.Equal(t, []int{1, 2}, calls)
}

func TestPaginateDelay(t *testing.T) {
	calls := []int{}
	start := time.Now()
	_, err := fetch.Paginate(context.Background(), fetch.Pagination{Delay: 20 * time.Millisecond}, pager(1, 3, 0, &calls))
	assert.Nil(t, err)
	assert.True(t, time.Since(start) >= 40*time.Millisecond, "two delays between three pages")
}
