// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"encoding/json"
	"strings"

	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/util"
)

// reserved keys start with this so they never collide with an identity
const reservedPrefix = "__"

// Key - a single token or an ordered tuple of tokens
type Key []string

// K - construct a key
func K(tokens ...string) Key {
	return Key(tokens)
}

// Reserved - construct an internal bookkeeping key
func Reserved(name string) Key {
	return Key{reservedPrefix + name}
}

// DecodeKey - unpack a stored key
func DecodeKey(b []byte) (Key, error) {
	tokens, err := util.UnpackTokens(b)
	if nil != err {
		return nil, fault.ErrCacheKeyCorrupt
	}
	if 0 == len(tokens) {
		return nil, fault.ErrCacheKeyCorrupt
	}
	return Key(tokens), nil
}

// Bytes - canonical storage form
func (k Key) Bytes() []byte {
	return util.PackTokens(k...)
}

// IsComposite - more than one token
func (k Key) IsComposite() bool {
	return len(k) > 1
}

// IsReserved - internal bookkeeping key
func (k Key) IsReserved() bool {
	return 1 == len(k) && strings.HasPrefix(k[0], reservedPrefix)
}

// Identity - the token of a single token, non reserved key
func (k Key) Identity() (string, bool) {
	if 1 != len(k) || k.IsReserved() {
		return "", false
	}
	return k[0], true
}

// Equal - same tokens in the same order
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// String - the token itself or a JSON array for composites
func (k Key) String() string {
	if 1 == len(k) {
		return k[0]
	}
	b, _ := json.Marshal([]string(k))
	return string(b)
}
