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

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/background"
	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/configuration"
	"github.com/bitmark-inc/pubconnector/document"
	"github.com/bitmark-inc/pubconnector/flags"
	"github.com/bitmark-inc/pubconnector/publish"
	"github.com/bitmark-inc/pubconnector/schedule"
	"github.com/bitmark-inc/pubconnector/service"
	"github.com/bitmark-inc/pubconnector/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	options := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, opts, arguments, err := getoptions.GetOS(options)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(opts["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(opts["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(opts["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(opts["config-file"]))
	}

	configurationFile := opts["config-file"][0]
	theConfiguration, err := configuration.Load(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands only inspect the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("database: %q", theConfiguration.Database.Name)
	log.Infof("documents: %q", theConfiguration.Documents)
	log.Debugf("%s = %#v", "Sources", theConfiguration.Sources)
	log.Debugf("%s = %#v", "Publish", theConfiguration.Publish)

	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	docs, err := document.NewDirectory(theConfiguration.Documents)
	if nil != err {
		log.Criticalf("documents error: %s", err)
		exitwithstatus.Message("documents error: %s", err)
	}

	f := flags.New(theConfiguration.Flags)

	log.Info("initialise service")
	s, err := service.New(theConfiguration, f, docs)
	if nil != err {
		log.Criticalf("service initialise error: %s", err)
		exitwithstatus.Message("service initialise error: %s", err)
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start up the publishing background processes
	err = publish.Initialise(&theConfiguration.Publish)
	if nil != err {
		log.Criticalf("publish initialise error: %s", err)
		exitwithstatus.Message("publish initialise error: %s", err)
	}
	defer publish.Finalise()

	watcher, err := flags.NewWatcher(theConfiguration.FileName, f, configuration.ParseFlags)
	if nil != err {
		log.Criticalf("flags watcher error: %s", err)
		exitwithstatus.Message("flags watcher error: %s", err)
	}

	processes := background.Processes{
		cache.NewSweeper(theConfiguration.SweepInterval(), s.Stores()...),
		schedule.New(ctx, f, s.Authoring, s.Engine, theConfiguration.CheckInterval()),
		watcher,
	}
	bg := background.Start(processes, nil)

	// if memory logging enabled
	if len(opts["memory-stats"]) > 0 {
		go memstats()
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(opts["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(opts["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	bg.Stop()

	// abandon any refresh in progress
	cancel()
	s.Engine.Wait()
}
