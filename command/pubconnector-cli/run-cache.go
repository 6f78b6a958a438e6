// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pubconnector/cache"
)

func runQuota(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	quotas, err := m.service.Quotas()
	if nil != err {
		return err
	}

	return printJson(m.w, quotas)
}

func runPrune(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	stores := m.service.Stores()
	if m.verbose {
		for _, st := range stores {
			fmt.Fprintf(m.e, "sweeping: %s  ttl: %s\n", st.Namespace(), st.TTL())
		}
	}

	// interval is irrelevant to a single sweep
	removed := cache.NewSweeper(0, stores...).Sweep()

	out := struct {
		Removed int `json:"removed"`
	}{
		Removed: removed,
	}
	return printJson(m.w, out)
}

func runDump(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	namespace, err := checkNamespace(c.String("namespace"))
	if nil != err {
		return err
	}

	st, err := m.service.Store(namespace)
	if nil != err {
		return err
	}

	entries, err := st.AllEntries()
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "namespace: %s  entries: %d\n", namespace, len(entries))
	}

	return printJson(m.w, entries)
}
