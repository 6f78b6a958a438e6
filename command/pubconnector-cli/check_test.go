// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckDOIOrEntry(t *testing.T) {
	d, entry, err := checkDOIOrEntry(" 10.1000/xyz ", "")
	assert.Nil(t, err, "doi only")
	assert.Equal(t, "10.1000/xyz", d, "trimmed")
	assert.Equal(t, "", entry, "no entry")

	_, entry, err = checkDOIOrEntry("", "A Paper")
	assert.Nil(t, err, "entry only")
	assert.Equal(t, "A Paper", entry, "entry")

	_, _, err = checkDOIOrEntry("", "  ")
	assert.Equal(t, ErrRequiredDOIOrEntry, err, "neither")

	_, _, err = checkDOIOrEntry("10.1000/xyz", "A Paper")
	assert.Equal(t, ErrRequiredDOIOrEntry, err, "both")
}

func TestRequiredArguments(t *testing.T) {
	_, err := checkConfigFile("")
	assert.Equal(t, ErrRequiredConfigFile, err, "config")
	_, err = checkDOI(" ")
	assert.Equal(t, ErrRequiredDOI, err, "doi")
	_, err = checkIdentity("")
	assert.Equal(t, ErrRequiredIdentity, err, "identity")
	_, err = checkFileName("")
	assert.Equal(t, ErrRequiredFileName, err, "file")
	_, err = checkNamespace("")
	assert.Equal(t, ErrRequiredNamespace, err, "namespace")

	os.Setenv("PUBCONNECTOR_TEST_DIR", "/tmp/x")
	defer os.Unsetenv("PUBCONNECTOR_TEST_DIR")
	file, err := checkConfigFile("$PUBCONNECTOR_TEST_DIR/pubconnectord.conf")
	assert.Nil(t, err, "expanded")
	assert.Equal(t, "/tmp/x/pubconnectord.conf", file, "expanded")
}

func TestReadRecords(t *testing.T) {
	dir, err := ioutil.TempDir("", "pubconnector-cli")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	good := filepath.Join(dir, "good.json")
	err = ioutil.WriteFile(good, []byte(`[{"title":"A Paper","author":"A Lovelace","year":"2025","cites":"123"}]`), 0600)
	assert.Nil(t, err, "write")

	records, err := readRecords(good)
	assert.Nil(t, err, "read")
	assert.Equal(t, 1, len(records), "count")
	assert.Equal(t, "A Paper", records[0].Title, "title")
	assert.Equal(t, "123", records[0].Cites, "cites")

	bad := filepath.Join(dir, "bad.json")
	err = ioutil.WriteFile(bad, []byte(`{"title":"A Paper"}`), 0600)
	assert.Nil(t, err, "write")

	_, err = readRecords(bad)
	assert.True(t, errors.Is(err, ErrRecordsNotAnArray), "object rejected")

	_, err = readRecords(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err), "missing file")
}

func TestPrintJson(t *testing.T) {
	var buffer bytes.Buffer
	err := printJson(&buffer, map[string]int{"added": 2})
	assert.Nil(t, err, "print")
	assert.Equal(t, "{\n  \"added\": 2\n}\n", buffer.String(), "indented")
}
