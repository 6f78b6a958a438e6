// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pubconnector/fault"
)

func runRefresh(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	ctx, cancel := interruptible()
	defer cancel()

	if m.verbose {
		for _, conn := range m.service.Engine.Connectors() {
			fmt.Fprintf(m.e, "%s enabled: %t\n", conn.Name(), conn.IsEnabled())
		}
	}

	if !m.service.Engine.RefreshAll(ctx) {
		return fault.ErrRefreshInProgress
	}

	return printJson(m.w, m.service.Engine.Progress())
}

// a context cancelled by SIGINT or SIGTERM
func interruptible() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(ch)
		cancel()
	}
}
