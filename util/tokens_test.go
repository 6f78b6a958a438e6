// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/util"
)

func TestPackUnpackTokens(t *testing.T) {
	tests := [][]string{
		{"0000-0002-1825-0097"},
		{"a123", "10.1000/xyz123"},
		{"", "x"},
		{"with|separator", "and,comma", "[]"},
		{strings.Repeat("long", 100)},
	}

	for i, tokens := range tests {
		packed := util.PackTokens(tokens...)
		unpacked, err := util.UnpackTokens(packed)
		assert.Nil(t, err, "%d: unpack", i)
		assert.Equal(t, tokens, unpacked, "%d: tokens", i)
	}
}

func TestPackTokensUnambiguous(t *testing.T) {
	a := util.PackTokens("ab", "c")
	b := util.PackTokens("a", "bc")
	c := util.PackTokens("abc")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, b, c)
}

func TestUnpackTruncated(t *testing.T) {
	packed := util.PackTokens("abcdef")
	_, err := util.UnpackTokens(packed[:3])
	assert.Equal(t, fault.ErrTruncatedToken, err)

	_, err = util.UnpackTokens([]byte{0x80})
	assert.Equal(t, fault.ErrTruncatedToken, err)
}
