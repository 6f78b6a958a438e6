// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"time"

	"github.com/bitmark-inc/logger"
)

const defaultSweepInterval = time.Hour

// Sweeper - background process removing expired entries
type Sweeper struct {
	interval time.Duration
	stores   []*Store
	log      *logger.L
}

// NewSweeper - sweep the given stores every interval
func NewSweeper(interval time.Duration, stores ...*Store) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{
		interval: interval,
		stores:   stores,
		log:      logger.New("sweeper"),
	}
}

// Run - background loop
func (s *Sweeper) Run(args interface{}, shutdown <-chan struct{}) {
	s.log.Infof("starting… interval: %s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-shutdown:
			s.log.Info("stopped")
			return
		}
	}
}

// Sweep - remove expired items from all stores once
//
// errors are logged and the remaining stores still processed
func (s *Sweeper) Sweep() int {
	total := 0
	for _, store := range s.stores {
		n, err := store.RemoveExpired()
		if nil != err {
			s.log.Errorf("%s: sweep error: %s", store.Namespace(), err)
			continue
		}
		total += n
	}
	s.log.Debugf("swept: %d", total)
	return total
}
