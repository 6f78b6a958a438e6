// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"
)

const defaultDays = 7

func runLatest(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	days := c.Int("days")

	works, err := m.service.Engine.LatestUnread(days)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "%d unread works in the last %d days\n", len(works), days)
	}

	return printJson(m.w, works)
}
