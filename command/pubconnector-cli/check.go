// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"strings"
)

// configuration file is required
func checkConfigFile(file string) (string, error) {
	if "" == file {
		return "", ErrRequiredConfigFile
	}

	file = os.ExpandEnv(file)
	return file, nil
}

// check for non-blank DOI text, the connectors extract the DOI itself
func checkDOI(text string) (string, error) {
	text = strings.TrimSpace(text)
	if "" == text {
		return "", ErrRequiredDOI
	}

	return text, nil
}

// exactly one of the two must be given
func checkDOIOrEntry(d string, entry string) (string, string, error) {
	d = strings.TrimSpace(d)
	entry = strings.TrimSpace(entry)
	if ("" == d) == ("" == entry) {
		return "", "", ErrRequiredDOIOrEntry
	}

	return d, entry, nil
}

// identity is required
func checkIdentity(identity string) (string, error) {
	if "" == identity {
		return "", ErrRequiredIdentity
	}

	return identity, nil
}

// check for non-blank file name
func checkFileName(fileName string) (string, error) {
	if "" == fileName {
		return "", ErrRequiredFileName
	}

	return os.ExpandEnv(fileName), nil
}

// namespace is required
func checkNamespace(namespace string) (string, error) {
	if "" == namespace {
		return "", ErrRequiredNamespace
	}

	return namespace, nil
}
