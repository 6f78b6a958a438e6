// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aggregator

import (
	"encoding/json"
	"time"

	"github.com/bitmark-inc/pubconnector/messagebus"
)

// bus commands
const (
	ProgressCommand  = "progress"
	RefreshedCommand = "refreshed"
)

// Progress - state of the current or most recent refresh
type Progress struct {
	Running     bool      `json:"running"`
	Current     int       `json:"current"`
	Total       int       `json:"total"`
	Failures    int       `json:"failures"`
	Started     time.Time `json:"started"`
	Finished    time.Time `json:"finished"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// send a copy of the progress on the bus
func (e *Engine) announce(command string, p Progress) {
	data, err := json.Marshal(p)
	if nil != err {
		e.log.Errorf("encode progress error: %s", err)
		return
	}
	messagebus.Bus.Broadcast.Send(command, data)
}
