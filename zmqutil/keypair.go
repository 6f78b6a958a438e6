// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/util"
)

const (
	taggedPublic  = "PUBLIC:"
	taggedPrivate = "PRIVATE:"
	keyLength     = 32
)

// MakeKeyPair - create a new CURVE keypair and write each half to
// its own file, neither file may already exist
func MakeKeyPair(publicKeyFileName string, privateKeyFileName string) error {
	if util.EnsureFileExists(publicKeyFileName) || util.EnsureFileExists(privateKeyFileName) {
		return fault.ErrKeyFileAlreadyExists
	}

	// generated in Z85, stored as tagged hex
	publicKey, privateKey, err := zmq.NewCurveKeypair()
	if nil != err {
		return err
	}

	publicText := taggedPublic + hex.EncodeToString([]byte(zmq.Z85decode(publicKey))) + "\n"
	privateText := taggedPrivate + hex.EncodeToString([]byte(zmq.Z85decode(privateKey))) + "\n"

	if err = ioutil.WriteFile(publicKeyFileName, []byte(publicText), 0666); nil != err {
		return err
	}

	if err = ioutil.WriteFile(privateKeyFileName, []byte(privateText), 0600); nil != err {
		os.Remove(publicKeyFileName)
		return err
	}

	return nil
}

// ReadKeys - load a server keypair from its two files
//
// both names empty gives empty keys, i.e. a plain socket
func ReadKeys(publicKeyFileName string, privateKeyFileName string) (Keys, error) {
	if "" == publicKeyFileName && "" == privateKeyFileName {
		return Keys{}, nil
	}
	if "" == publicKeyFileName || "" == privateKeyFileName {
		return Keys{}, fault.ErrMissingKeyPair
	}

	public, err := readKeyFile(publicKeyFileName, ReadPublicKey)
	if nil != err {
		return Keys{}, err
	}
	private, err := readKeyFile(privateKeyFileName, ReadPrivateKey)
	if nil != err {
		return Keys{}, err
	}
	return Keys{Private: private, Public: public}, nil
}

func readKeyFile(fileName string, parse func(string) ([]byte, error)) ([]byte, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	return parse(string(data))
}

// ReadPublicKey - decode a tagged public key to its 32 bytes
func ReadPublicKey(key string) ([]byte, error) {
	data, private, err := ParseKey(key)
	if nil != err {
		return nil, err
	}
	if private {
		return nil, fault.ErrInvalidPublicKey
	}
	return data, nil
}

// ReadPrivateKey - decode a tagged private key to its 32 bytes
func ReadPrivateKey(key string) ([]byte, error) {
	data, private, err := ParseKey(key)
	if nil != err {
		return nil, err
	}
	if !private {
		return nil, fault.ErrInvalidPrivateKey
	}
	return data, nil
}

// ParseKey - decode either kind of tagged key
//
// returns the key bytes and true for a private key
func ParseKey(data string) ([]byte, bool, error) {
	s := strings.TrimSpace(data)

	tag, private, invalid := taggedPublic, false, fault.ErrInvalidPublicKey
	if strings.HasPrefix(s, taggedPrivate) {
		tag, private, invalid = taggedPrivate, true, fault.ErrInvalidPrivateKey
	} else if !strings.HasPrefix(s, taggedPublic) {
		return nil, false, fault.ErrInvalidPublicKey
	}

	h, err := hex.DecodeString(s[len(tag):])
	if nil != err || keyLength != len(h) {
		return nil, false, invalid
	}
	return h, private, nil
}

// Z85 - the text form of a key used by ZeroMQ clients
func Z85(key []byte) string {
	return zmq.Z85encode(string(key))
}
