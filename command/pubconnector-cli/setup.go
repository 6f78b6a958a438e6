// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pubconnector/configuration"
	"github.com/bitmark-inc/pubconnector/document"
	"github.com/bitmark-inc/pubconnector/flags"
	"github.com/bitmark-inc/pubconnector/service"
	"github.com/bitmark-inc/pubconnector/storage"
)

const logFile = "pubconnector-cli.log"

// open the daemon's database and build the same service it runs
//
// LevelDB allows one process at a time so the daemon must be stopped
func open(file string) (*configuration.Configuration, *service.Service, func(), error) {

	conf, err := configuration.Load(file)
	if nil != err {
		return nil, nil, nil, err
	}

	conf.Logging.File = logFile
	conf.Logging.Console = false
	if err := logger.Initialise(conf.Logging); nil != err {
		return nil, nil, nil, err
	}

	if err := storage.Initialise(conf.Database.Name, storage.ReadWrite); nil != err {
		logger.Finalise()
		return nil, nil, nil, err
	}

	docs, err := document.NewDirectory(conf.Documents)
	if nil != err {
		storage.Finalise()
		logger.Finalise()
		return nil, nil, nil, err
	}

	s, err := service.New(conf, flags.New(conf.Flags), docs)
	if nil != err {
		storage.Finalise()
		logger.Finalise()
		return nil, nil, nil, err
	}

	finish := func() {
		s.Close()
		storage.Finalise()
		logger.Finalise()
	}
	return conf, s, finish, nil
}
