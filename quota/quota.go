// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package quota - per source daily request counters
//
// the counter lives in the source's own cache namespace under a
// reserved key; it is reset lazily on the first read of a new UTC day.
// read, increment and write are not atomic across concurrent callers
// so the count is best effort
package quota

import (
	"fmt"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/fault"
)

const dayLayout = "2006-01-02"

// Counter - persisted state
type Counter struct {
	Count int    `json:"count"`
	Day   string `json:"day"`
}

// Tracker - counts requests against a daily limit
type Tracker struct {
	store *cache.Store
	log   *logger.L
}

// New - tracker storing its counters in the given store
func New(store *cache.Store) *Tracker {
	return &Tracker{
		store: store,
		log:   logger.New("quota"),
	}
}

// Key - reserved cache key of a source counter
func Key(source string) cache.Key {
	return cache.Reserved(fmt.Sprintf("%s_daily_request_count", source))
}

func (t *Tracker) today() string {
	return t.store.Now().UTC().Format(dayLayout)
}

// Current - today's count for a source
//
// a counter from a previous day reads as zero and is reset in storage
func (t *Tracker) Current(source string) (int, error) {
	c, err := t.read(source)
	if nil != err {
		return 0, err
	}
	return c.Count, nil
}

// Increment - count one request
//
// a limit of zero or less means unlimited; when the new count would
// exceed the limit the counter is left unchanged and
// fault.ErrQuotaExceeded is returned
func (t *Tracker) Increment(source string, limit int) (int, error) {
	c, err := t.read(source)
	if nil != err {
		return 0, err
	}

	if limit > 0 && c.Count+1 > limit {
		t.log.Warnf("%s: daily limit: %d reached", source, limit)
		return c.Count, fault.ErrQuotaExceeded
	}

	c.Count += 1
	err = t.store.Put(Key(source), c, t.store.Now(), false)
	if nil != err {
		return 0, err
	}
	t.log.Debugf("%s: request count: %d/%d", source, c.Count, limit)
	return c.Count, nil
}

func (t *Tracker) read(source string) (Counter, error) {
	today := t.today()

	var c Counter
	found, err := t.store.GetItem(Key(source), &c)
	if nil != err {
		return Counter{}, err
	}
	if found && c.Day == today {
		return c, nil
	}

	// a fresh day restarts the entry lifetime as well
	c = Counter{Count: 0, Day: today}
	err = t.store.Set(Key(source), c)
	if nil != err {
		return Counter{}, err
	}
	return c, nil
}
