// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared test setup
package fixtures

import (
	"fmt"
	"os"
	"time"

	"github.com/bitmark-inc/logger"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// Now - fixed reference time for tests
var Now = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

// Clock - a settable clock for tests
type Clock struct {
	T time.Time
}

// NewClock - clock starting at Now
func NewClock() *Clock {
	return &Clock{T: Now}
}

// Now - current time of the clock
func (c *Clock) Now() time.Time {
	return c.T
}

// Advance - move the clock forward
func (c *Clock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}

// SetupTestLogger - start logging into a scratch directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
