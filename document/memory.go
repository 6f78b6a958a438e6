// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package document

import (
	"sort"
	"sync"

	"github.com/bitmark-inc/pubconnector/fault"
)

// Memory - an in-process entity store
type Memory struct {
	sync.RWMutex
	entities map[string]*Entity
}

// NewMemory - create a store holding the given entities
func NewMemory(entities ...*Entity) *Memory {
	m := &Memory{
		entities: make(map[string]*Entity),
	}
	for _, e := range entities {
		m.entities[e.Title] = e
	}
	return m
}

// Put - add or replace an entity
func (m *Memory) Put(e *Entity) {
	m.Lock()
	defer m.Unlock()
	m.entities[e.Title] = e
}

// Get - fetch an entity by title
func (m *Memory) Get(title string) (*Entity, error) {
	m.RLock()
	defer m.RUnlock()
	e, ok := m.entities[title]
	if !ok {
		return nil, fault.ErrEntityNotFound
	}
	return e, nil
}

// Filter - evaluate an expression in title order
func (m *Memory) Filter(expression string) ([]string, error) {
	f, err := Compile(expression)
	if nil != err {
		return nil, err
	}
	return f.Apply(m.sorted()), nil
}

func (m *Memory) sorted() []*Entity {
	m.RLock()
	defer m.RUnlock()
	list := make([]*Entity, 0, len(m.entities))
	for _, e := range m.entities {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Title < list[j].Title })
	return list
}
