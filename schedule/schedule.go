// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package schedule - start a refresh at a configured time of day
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/flags"
)

// flag names
const (
	EnableFlag = "schedule.enable"
	HourFlag   = "schedule.hour"
	MinuteFlag = "schedule.minute"
)

// Every - wildcard hour or minute
const Every = -1

const defaultCheckInterval = time.Minute

// LastRunKey - reserved key of the last fired date/hour/minute
var LastRunKey = cache.Reserved("schedule_last_run")

// Trigger - something that can start a refresh
type Trigger interface {
	StartRefresh(ctx context.Context) bool
}

// Scheduler - background process firing the trigger
type Scheduler struct {
	log      *logger.L
	flags    *flags.Flags
	store    *cache.Store
	trigger  Trigger
	interval time.Duration
	ctx      context.Context
}

// New - check the schedule every interval
//
// the last run is kept in the store so a restart within the same
// minute does not fire twice
func New(ctx context.Context, f *flags.Flags, store *cache.Store, trigger Trigger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	return &Scheduler{
		log:      logger.New("schedule"),
		flags:    f,
		store:    store,
		trigger:  trigger,
		interval: interval,
		ctx:      ctx,
	}
}

// Run - background loop
func (s *Scheduler) Run(args interface{}, shutdown <-chan struct{}) {
	s.log.Infof("starting…  at: %s:%s",
		s.flags.String(HourFlag, strconv.Itoa(Every)),
		s.flags.String(MinuteFlag, strconv.Itoa(Every)),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			if _, err := s.Check(s.store.Now()); nil != err {
				s.log.Warnf("check error: %s", err)
			}
		}
	}
	s.log.Info("stopped")
}

// Check - fire the trigger if now matches the schedule and this
// minute has not fired before
//
// returns true if a refresh was started
func (s *Scheduler) Check(now time.Time) (bool, error) {
	if !s.flags.Enabled(EnableFlag, false) {
		return false, nil
	}

	hour, minute, err := s.when()
	if nil != err {
		return false, err
	}

	if Every != hour && now.Hour() != hour {
		return false, nil
	}
	if Every != minute && now.Minute() != minute {
		return false, nil
	}

	key := now.Format("2006-01-02 15:04")
	last := ""
	if _, err := s.store.GetItem(LastRunKey, &last); nil != err {
		return false, err
	}
	if key == last {
		return false, nil
	}
	if err := s.store.Set(LastRunKey, key); nil != err {
		return false, err
	}

	s.log.Infof("triggered at: %s", key)
	if !s.trigger.StartRefresh(s.ctx) {
		s.log.Info("refresh already running")
		return false, nil
	}
	return true, nil
}

// read and check the configured time
func (s *Scheduler) when() (int, int, error) {
	hour, err := value(s.flags, HourFlag, 23)
	if nil != err {
		return 0, 0, err
	}
	minute, err := value(s.flags, MinuteFlag, 59)
	if nil != err {
		return 0, 0, err
	}
	return hour, minute, nil
}

func value(f *flags.Flags, key string, maximum int) (int, error) {
	v, ok := f.Lookup(key)
	if !ok || "" == v {
		return Every, nil
	}
	n, err := strconv.Atoi(v)
	if nil != err || n < Every || n > maximum {
		return 0, fmt.Errorf("%s=%q: %w", key, v, fault.ErrInvalidScheduleTime)
	}
	return n, nil
}
