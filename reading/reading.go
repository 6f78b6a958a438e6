// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reading - the persisted set of DOIs marked as read
package reading

import (
	"sync"
	"time"

	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/doi"
	"github.com/bitmark-inc/pubconnector/fault"
)

// Key - where the set is stored in the reading namespace
var Key = cache.K("read-literature")

// Set - the stored form
type Set struct {
	DOIs        []string  `json:"dois"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ReadSet - read marks over a non-expiring store
type ReadSet struct {
	sync.Mutex
	store *cache.Store
}

// New - create over the reading namespace
func New(store *cache.Store) *ReadSet {
	return &ReadSet{
		store: store,
	}
}

// MarkAsRead - add DOIs to the set, returns the number newly added
//
// the stored form is the normalised DOI; text that contains no DOI is
// rejected and nothing is written
func (r *ReadSet) MarkAsRead(values ...string) (int, error) {
	normalised := make([]string, 0, len(values))
	for _, v := range values {
		d, err := doi.First(v)
		if nil != err {
			return 0, err
		}
		normalised = append(normalised, doi.Normalise(d))
	}
	if 0 == len(normalised) {
		return 0, fault.ErrInvalidDOI
	}

	r.Lock()
	defer r.Unlock()

	s, err := r.read()
	if nil != err {
		return 0, err
	}
	present := make(map[string]struct{}, len(s.DOIs))
	for _, d := range s.DOIs {
		present[d] = struct{}{}
	}

	added := 0
	for _, d := range normalised {
		if _, ok := present[d]; ok {
			continue
		}
		present[d] = struct{}{}
		s.DOIs = append(s.DOIs, d)
		added += 1
	}
	if 0 == added {
		return 0, nil
	}

	s.LastUpdated = r.store.Now().UTC()
	if err := r.store.Set(Key, s); nil != err {
		return 0, err
	}
	return added, nil
}

// ReadDOIs - the normalised DOIs in the order they were marked
func (r *ReadSet) ReadDOIs() ([]string, error) {
	r.Lock()
	defer r.Unlock()
	s, err := r.read()
	if nil != err {
		return nil, err
	}
	return s.DOIs, nil
}

// Contains - check one DOI
func (r *ReadSet) Contains(d string) (bool, error) {
	dois, err := r.ReadDOIs()
	if nil != err {
		return false, err
	}
	key := doi.Normalise(d)
	for _, x := range dois {
		if x == key {
			return true, nil
		}
	}
	return false, nil
}

// Clear - forget every mark
func (r *ReadSet) Clear() error {
	r.Lock()
	defer r.Unlock()
	return r.store.Remove(Key)
}

func (r *ReadSet) read() (Set, error) {
	s := Set{}
	if _, err := r.store.GetItem(Key, &s); nil != err {
		return Set{}, err
	}
	if nil == s.DOIs {
		s.DOIs = []string{}
	}
	return s, nil
}
