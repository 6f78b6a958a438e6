// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - broadcast engine events on ZeroMQ PUB sockets
package publish

import (
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/background"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/messagebus"
	"github.com/bitmark-inc/pubconnector/zmqutil"
)

// Configuration - the publish block of the configuration file
//
// without keys the sockets are plain, without addresses nothing is started
type Configuration struct {
	Broadcast  []string `gluamapper:"broadcast" json:"broadcast"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

// globals for background proccess
type publishData struct {
	sync.RWMutex

	log *logger.L

	brdc broadcaster

	background *background.T

	// set once during initialise
	initialised bool
}

// global data
var globalData publishData

// Initialise - bind the sockets and start broadcasting
func Initialise(configuration *Configuration) error {

	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("publish")
	globalData.log.Info("starting…")

	if 0 == len(configuration.Broadcast) {
		globalData.log.Info("no broadcast addresses, publishing disabled")
		globalData.initialised = true
		return nil
	}

	keys, err := zmqutil.ReadKeys(configuration.PublicKey, configuration.PrivateKey)
	if nil != err {
		globalData.log.Errorf("read keys: %q %q  error: %s", configuration.PublicKey, configuration.PrivateKey, err)
		return err
	}
	if keys.Secure() {
		if err := zmqutil.StartAuthentication(); nil != err {
			globalData.log.Errorf("start authentication error: %s", err)
			return err
		}
		globalData.log.Infof("server public key: %q", zmqutil.Z85(keys.Public))
	}

	globalData.brdc = broadcaster{}
	if err := globalData.brdc.initialise(keys, configuration.Broadcast); nil != err {
		return err
	}

	globalData.initialised = true

	globalData.log.Info("start background…")

	processes := background.Processes{
		&globalData.brdc,
	}

	globalData.background = background.Start(processes, globalData.log)

	return nil
}

// Finalise - stop all background tasks
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")

	if nil != globalData.background {
		globalData.background.Stop()
		globalData.background = nil
	}

	globalData.initialised = false

	globalData.log.Infof("finished  bus dropped: %d", messagebus.Bus.Broadcast.Dropped())
	globalData.log.Flush()

	return nil
}
