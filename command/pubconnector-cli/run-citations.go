// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
)

func runReferences(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	d, err := checkDOI(c.String("doi"))
	if nil != err {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	works, err := m.service.OpenAlex.References(ctx, d)
	if nil != err {
		return err
	}

	return printJson(m.w, works)
}

func runCites(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	d, err := checkDOI(c.String("doi"))
	if nil != err {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	works, err := m.service.OpenAlex.Cites(ctx, d)
	if nil != err {
		return err
	}

	return printJson(m.w, works)
}

func runCitations(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	d, err := checkDOI(c.String("doi"))
	if nil != err {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	citations, err := m.service.OpenCitations.Citations(ctx, d)
	if nil != err {
		return err
	}

	return printJson(m.w, citations)
}
