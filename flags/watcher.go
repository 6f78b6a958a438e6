// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flags

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/logger"
)

// LoadFunc - read the flag values from a file
type LoadFunc func(fileName string) (map[string]string, error)

// Watcher - background process reloading flags when a file changes
type Watcher struct {
	fileName string
	flags    *Flags
	load     LoadFunc
	watcher  *fsnotify.Watcher
	log      *logger.L
}

// NewWatcher - watch a file for changes
//
// the containing directory is watched so editors that replace the
// file are also seen
func NewWatcher(fileName string, flags *Flags, load LoadFunc) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	absolute, err := filepath.Abs(fileName)
	if nil != err {
		w.Close()
		return nil, err
	}

	err = w.Add(filepath.Dir(absolute))
	if nil != err {
		w.Close()
		return nil, err
	}

	return &Watcher{
		fileName: absolute,
		flags:    flags,
		load:     load,
		watcher:  w,
		log:      logger.New("flags"),
	}, nil
}

// Run - background loop
func (w *Watcher) Run(args interface{}, shutdown <-chan struct{}) {
	w.log.Infof("watching: %q", w.fileName)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != w.fileName {
				continue loop
			}
			if 0 == event.Op&(fsnotify.Write|fsnotify.Create) {
				continue loop
			}
			w.Reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			w.log.Errorf("watch error: %s", err)
		}
	}

	w.watcher.Close()
	w.log.Info("stopped")
}

// Reload - read the file and replace the flags
//
// on error the current flags are kept
func (w *Watcher) Reload() {
	values, err := w.load(w.fileName)
	if nil != err {
		w.log.Errorf("reload: %q  error: %s", w.fileName, err)
		return
	}
	w.flags.Replace(values)
	w.log.Infof("reloaded %d flags", len(values))
}
