// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package aggregator - refresh every source and merge their works
package aggregator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/connector"
	"github.com/bitmark-inc/pubconnector/document"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/reading"
)

// Engine - owns the connectors and the refresh state
type Engine struct {
	sync.Mutex

	log        *logger.L
	connectors []connector.Connector
	docs       document.Store
	read       *reading.ReadSet
	now        func() time.Time

	progress Progress
	wg       sync.WaitGroup
}

// one identity of one connector
type job struct {
	c        connector.Connector
	identity string
}

// New - create an engine over a fixed, ordered set of connectors
func New(connectors []connector.Connector, docs document.Store, read *reading.ReadSet) *Engine {
	return &Engine{
		log:        logger.New("aggregator"),
		connectors: connectors,
		docs:       docs,
		read:       read,
		now:        time.Now,
	}
}

// SetClock - replace the time source
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Connectors - all connectors, enabled or not
func (e *Engine) Connectors() []connector.Connector {
	return e.connectors
}

// Connector - find a connector by name
func (e *Engine) Connector(name string) (connector.Connector, bool) {
	for _, c := range e.connectors {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Progress - a copy of the refresh state
func (e *Engine) Progress() Progress {
	e.Lock()
	defer e.Unlock()
	return e.progress
}

// StartRefresh - run RefreshAll in the background
//
// returns false if a refresh is already running
func (e *Engine) StartRefresh(ctx context.Context) bool {
	if !e.begin() {
		return false
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.refresh(ctx)
	}()
	return true
}

// Wait - block until a background refresh has finished
func (e *Engine) Wait() {
	e.wg.Wait()
}

// RefreshAll - populate the cache of every tracked identity
//
// returns false without doing anything if a refresh is already
// running; failures of single identities are logged and counted
func (e *Engine) RefreshAll(ctx context.Context) bool {
	if !e.begin() {
		e.log.Info("refresh already in progress")
		return false
	}
	e.refresh(ctx)
	return true
}

// single flight guard
func (e *Engine) begin() bool {
	e.Lock()
	defer e.Unlock()

	if e.progress.Running {
		return false
	}
	now := e.now()
	e.progress = Progress{
		Running:     true,
		Started:     now,
		LastUpdated: now,
		Finished:    e.progress.Finished,
	}
	return true
}

func (e *Engine) refresh(ctx context.Context) {
	e.log.Info("refresh: start")

	enabled := e.enabled()
	for _, c := range enabled {
		if err := c.Prepare(); nil != err {
			e.log.Warnf("%s: prepare error: %s", c.Name(), err)
		}
		if n, err := c.ClearExpired(); nil != err {
			e.log.Warnf("%s: clear expired error: %s", c.Name(), err)
		} else {
			e.log.Debugf("%s: expired: %d", c.Name(), n)
		}
	}

	entities, jobs := e.plan(enabled)

	e.Lock()
	e.progress.Total = len(entities)
	p := e.progress
	e.Unlock()
	e.announce(ProgressCommand, p)

	exhausted := map[string]bool{}
	failures := 0

loop:
	for i, entity := range entities {
		for _, j := range jobs[entity] {
			if nil != ctx.Err() {
				e.log.Warnf("refresh: stopped: %s", ctx.Err())
				break loop
			}
			name := j.c.Name()
			if exhausted[name] {
				continue
			}
			_, err := j.c.PopulateCache(ctx, j.identity)
			if nil == err {
				continue
			}
			failures += 1
			e.log.Errorf("%s: entity: %q  identity: %q  error: %s", name, entity, j.identity, err)
			if errors.Is(err, fault.ErrQuotaExceeded) {
				e.log.Warnf("%s: daily quota reached, skipping remaining identities", name)
				exhausted[name] = true
			}
		}

		e.Lock()
		e.progress.Current = i + 1
		e.progress.Failures = failures
		e.progress.LastUpdated = e.now()
		p := e.progress
		e.Unlock()
		e.announce(ProgressCommand, p)
	}

	e.Lock()
	now := e.now()
	e.progress.Running = false
	e.progress.Failures = failures
	e.progress.Finished = now
	e.progress.LastUpdated = now
	p = e.progress
	e.Unlock()
	e.announce(RefreshedCommand, p)

	e.log.Infof("refresh: finished  entities: %d  failures: %d", p.Current, failures)
}

// enabled connectors in their fixed order
func (e *Engine) enabled() []connector.Connector {
	list := make([]connector.Connector, 0, len(e.connectors))
	for _, c := range e.connectors {
		if c.IsEnabled() {
			list = append(list, c)
		}
	}
	return list
}

// group the targets of all connectors by entity, keeping first seen order
func (e *Engine) plan(enabled []connector.Connector) ([]string, map[string][]job) {
	entities := []string{}
	jobs := map[string][]job{}

	for _, c := range enabled {
		targets, err := c.Targets(e.docs)
		if nil != err {
			e.log.Errorf("%s: targets error: %s", c.Name(), err)
			continue
		}
		for _, t := range targets {
			if _, ok := jobs[t.Entity]; !ok {
				entities = append(entities, t.Entity)
			}
			jobs[t.Entity] = append(jobs[t.Entity], job{c: c, identity: t.Identity})
		}
	}
	return entities, jobs
}
