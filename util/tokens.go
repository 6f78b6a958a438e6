// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/bitmark-inc/pubconnector/fault"
)

// PackTokens - encode an ordered list of strings as
// a sequence of varint length prefixed byte strings
//
// the encoding is unambiguous for any token content
func PackTokens(tokens ...string) []byte {
	n := 0
	for _, t := range tokens {
		n += len(t) + 2
	}
	buffer := make([]byte, 0, n)
	for _, t := range tokens {
		buffer = append(buffer, ToVarint64(uint64(len(t)))...)
		buffer = append(buffer, t...)
	}
	return buffer
}

// UnpackTokens - reverse of PackTokens
func UnpackTokens(buffer []byte) ([]string, error) {
	tokens := make([]string, 0, 2)
	for len(buffer) > 0 {
		length, count := FromVarint64(buffer)
		if 0 == count {
			return nil, fault.ErrTruncatedToken
		}
		buffer = buffer[count:]
		if uint64(len(buffer)) < length {
			return nil, fault.ErrTruncatedToken
		}
		tokens = append(tokens, string(buffer[:length]))
		buffer = buffer[length:]
	}
	return tokens, nil
}
