// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/pubconnector/aggregator"
)

func runAuthors(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	d, entry, err := checkDOIOrEntry(c.String("doi"), c.String("entry"))
	if nil != err {
		return err
	}

	var authors aggregator.Authors
	if "" != d {
		authors, err = m.service.Engine.AuthorsByDOI(d)
	} else {
		authors, err = m.service.Engine.AuthorsByEntity(entry)
	}
	if nil != err {
		return err
	}

	return printJson(m.w, authors)
}
