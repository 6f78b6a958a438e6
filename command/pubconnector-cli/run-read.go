// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
)

func runRead(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	values := append(c.StringSlice("doi"), c.Args()...)

	if 0 == len(values) {
		dois, err := m.service.ReadSet.ReadDOIs()
		if nil != err {
			return err
		}
		return printJson(m.w, dois)
	}

	added, err := m.service.ReadSet.MarkAsRead(values...)
	if nil != err {
		return err
	}

	out := struct {
		Added int `json:"added"`
	}{
		Added: added,
	}
	return printJson(m.w, out)
}

func runClearRead(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	return m.service.ReadSet.Clear()
}
