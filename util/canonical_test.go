// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/util"
)

func TestCanonicalIPandPort(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		v6       bool
		err      error
	}{
		{"127.0.0.1:2140", "tcp://127.0.0.1:2140", false, nil},
		{" 127.0.0.1:2140 ", "tcp://127.0.0.1:2140", false, nil},
		{"[::1]:2140", "tcp://[::1]:2140", true, nil},
		{"localhost:2140", "", false, fault.ErrInvalidIPAddress},
		{"127.0.0.1", "", false, fault.ErrInvalidIPAddress},
		{"127.0.0.1:0", "", false, fault.ErrInvalidPortNumber},
		{"127.0.0.1:65536", "", false, fault.ErrInvalidPortNumber},
	}

	for i, item := range tests {
		actual, v6, err := util.CanonicalIPandPort("tcp://", item.in)
		assert.Equal(t, item.err, err, "%d: error", i)
		assert.Equal(t, item.expected, actual, "%d: result", i)
		assert.Equal(t, item.v6, v6, "%d: IPv6", i)
	}
}
