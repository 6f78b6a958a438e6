// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/util"
)

// lengths a key token can realistically have
var lengthPrefixes = []struct {
	length  uint64
	encoded []byte
}{
	{0, []byte{0x00}},
	{7, []byte{0x07}},
	{127, []byte{0x7f}},
	{128, []byte{0x80, 0x01}},
	{300, []byte{0xac, 0x02}},
	{16384, []byte{0x80, 0x80, 0x01}},
	{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
}

func TestLengthPrefixEncoding(t *testing.T) {
	for _, item := range lengthPrefixes {
		assert.Equal(t, item.encoded, util.ToVarint64(item.length), "encode: %d", item.length)
	}
}

func TestLengthPrefixDecoding(t *testing.T) {
	for _, item := range lengthPrefixes {

		// a token follows the prefix in a packed key
		buffer := append(append([]byte{}, item.encoded...), "10.1000/xyz"...)

		length, count := util.FromVarint64(buffer)
		assert.Equal(t, item.length, length, "decode: %x", item.encoded)
		assert.Equal(t, len(item.encoded), count, "bytes used: %x", item.encoded)
		assert.Equal(t, "10.1000/xyz", string(buffer[count:]), "remainder: %x", item.encoded)
	}
}

func TestLengthPrefixTruncated(t *testing.T) {
	for _, b := range [][]byte{{}, {0x80}, {0xac}, {0x80, 0x80}} {
		length, count := util.FromVarint64(b)
		assert.Equal(t, uint64(0), length, "length: %x", b)
		assert.Equal(t, 0, count, "count: %x", b)
	}
}
