// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/zmqutil"
)

const (
	publicText  = "PUBLIC:" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	privateText = "PRIVATE:" + "fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210"
)

func TestParseKey(t *testing.T) {
	key, private, err := zmqutil.ParseKey("  " + publicText + "\n")
	assert.Nil(t, err, "public parse")
	assert.False(t, private, "public is not private")
	assert.Equal(t, 32, len(key), "key length")
	assert.Equal(t, byte(0x01), key[0], "first byte")

	key, private, err = zmqutil.ParseKey(privateText)
	assert.Nil(t, err, "private parse")
	assert.True(t, private, "private flag")
	assert.Equal(t, byte(0xfe), key[0], "first byte")
}

func TestParseKeyErrors(t *testing.T) {
	_, _, err := zmqutil.ParseKey("SECRET:00")
	assert.Equal(t, fault.ErrInvalidPublicKey, err, "unknown tag")

	_, _, err = zmqutil.ParseKey("PUBLIC:0123")
	assert.Equal(t, fault.ErrInvalidPublicKey, err, "short public")

	_, _, err = zmqutil.ParseKey("PRIVATE:zz" + strings.Repeat("0", 62))
	assert.Equal(t, fault.ErrInvalidPrivateKey, err, "bad hex")
}

func TestReadKindMismatch(t *testing.T) {
	_, err := zmqutil.ReadPublicKey(privateText)
	assert.Equal(t, fault.ErrInvalidPublicKey, err, "private given as public")

	_, err = zmqutil.ReadPrivateKey(publicText)
	assert.Equal(t, fault.ErrInvalidPrivateKey, err, "public given as private")
}

func TestReadKeysOptional(t *testing.T) {
	keys, err := zmqutil.ReadKeys("", "")
	assert.Nil(t, err, "no keys")
	assert.False(t, keys.Secure(), "plain socket")

	_, err = zmqutil.ReadKeys("public.key", "")
	assert.Equal(t, fault.ErrMissingKeyPair, err, "half a pair")
}

func TestZ85(t *testing.T) {
	key, err := zmqutil.ReadPublicKey(publicText)
	assert.Nil(t, err, "parse")
	assert.Equal(t, 40, len(zmqutil.Z85(key)), "z85 length")
}

func TestMakeKeyPair(t *testing.T) {
	dir, err := ioutil.TempDir("", "keys")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	publicFile := filepath.Join(dir, "publish.public")
	privateFile := filepath.Join(dir, "publish.private")

	err = zmqutil.MakeKeyPair(publicFile, privateFile)
	if nil != err {
		t.Skipf("CURVE not available: %s", err)
	}

	keys, err := zmqutil.ReadKeys(publicFile, privateFile)
	assert.Nil(t, err, "read back")
	assert.True(t, keys.Secure(), "both halves present")
	assert.Equal(t, 32, len(keys.Public), "public length")
	assert.Equal(t, 32, len(keys.Private), "private length")

	err = zmqutil.MakeKeyPair(publicFile, privateFile)
	assert.Equal(t, fault.ErrKeyFileAlreadyExists, err, "no overwrite")
}
