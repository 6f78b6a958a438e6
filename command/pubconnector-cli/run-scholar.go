// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pubconnector/connector/scholar"
)

func runPending(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	pending, err := m.service.Scholar.Pending()
	if nil != err {
		return err
	}

	return printJson(m.w, pending)
}

func runIngest(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	identity, err := checkIdentity(c.String("identity"))
	if nil != err {
		return err
	}
	fileName, err := checkFileName(c.String("file"))
	if nil != err {
		return err
	}

	records, err := readRecords(fileName)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "ingesting: %d records for: %s\n", len(records), identity)
	}

	ctx, cancel := interruptible()
	defer cancel()

	works, err := m.service.Scholar.Ingest(ctx, identity, records)
	if nil != err {
		return err
	}

	return printJson(m.w, works)
}

func readRecords(fileName string) ([]scholar.Record, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}

	var records []scholar.Record
	if err := json.Unmarshal(data, &records); nil != err {
		return nil, fmt.Errorf("%s: %w", fileName, ErrRecordsNotAnArray)
	}

	return records, nil
}
