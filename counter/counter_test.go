// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/counter"
)

func TestCounter(t *testing.T) {
	var c counter.Counter
	assert.Equal(t, uint64(0), c.Uint64(), "zero at start")

	const workers = 8
	const each = 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j += 1 {
				c.Increment()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(workers*each), c.Uint64())
	assert.Equal(t, uint64(workers*each), c.Take())
	assert.Equal(t, uint64(0), c.Uint64(), "reset by take")
}
