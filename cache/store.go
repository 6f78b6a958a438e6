// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/storage"
)

const (
	// NoExpiry - entries of a store with this TTL never expire
	NoExpiry time.Duration = 0

	defaultHotExpiry = 5 * time.Minute
)

// Entry - a decoded cache entry
type Entry struct {
	Key       Key             `json:"key"`
	Item      json.RawMessage `json:"item"`
	Timestamp time.Time       `json:"timestamp"`
}

// persisted form
type record struct {
	Item      json.RawMessage `json:"item"`
	Timestamp time.Time       `json:"timestamp"`
}

// Store - TTL key/value store for one namespace
type Store struct {
	namespace string
	pool      storage.Handle
	ttl       time.Duration
	now       func() time.Time
	hot       *gocache.Cache
	log       *logger.L
}

// New - create a store over a storage pool
//
// ttl of NoExpiry keeps entries until removed
func New(pool storage.Handle, ttl time.Duration) *Store {
	return &Store{
		namespace: pool.Namespace(),
		pool:      pool,
		ttl:       ttl,
		now:       time.Now,
		hot:       gocache.New(defaultHotExpiry, 2*defaultHotExpiry),
		log:       logger.New("cache"),
	}
}

// SetClock - replace the time source
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
	s.hot.Flush()
}

// Now - current time as seen by the store
func (s *Store) Now() time.Time {
	return s.now()
}

// Namespace - name of the store
func (s *Store) Namespace() string {
	return s.namespace
}

// TTL - lifetime of entries
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Expired - check an entry against the store TTL
//
// reserved bookkeeping entries never expire, their owners reset them
func (s *Store) Expired(e *Entry) bool {
	if e.Key.IsReserved() {
		return false
	}
	return expired(e.Timestamp, s.ttl, s.now())
}

// Get - fetch an unexpired entry
//
// absent or expired entries return nil without error
func (s *Store) Get(key Key) (*Entry, error) {
	e, err := s.read(key)
	if nil != err || nil == e {
		return nil, err
	}
	if s.Expired(e) {
		return nil, nil
	}
	return e, nil
}

// GetItem - fetch an unexpired entry and decode its item
func (s *Store) GetItem(key Key, item interface{}) (bool, error) {
	e, err := s.Get(key)
	if nil != err || nil == e {
		return false, err
	}
	if err := e.Decode(item); nil != err {
		return false, err
	}
	return true, nil
}

// Set - write an item stamped with the current time
func (s *Store) Set(key Key, item interface{}) error {
	return s.Put(key, item, s.now(), true)
}

// Put - write an item
//
// with refreshTimestamp false the timestamp of any existing entry is
// kept, so partial progress can be saved without extending its life
func (s *Store) Put(key Key, item interface{}, timestamp time.Time, refreshTimestamp bool) error {
	if 0 == len(key) {
		return fault.ErrEmptyCacheKey
	}

	if !refreshTimestamp {
		existing, err := s.read(key)
		if nil != err {
			return err
		}
		if nil != existing {
			timestamp = existing.Timestamp
		}
	}

	data, err := json.Marshal(item)
	if nil != err {
		return err
	}

	r := record{
		Item:      data,
		Timestamp: timestamp.UTC(),
	}
	buffer, err := json.Marshal(r)
	if nil != err {
		return err
	}

	k := key.Bytes()
	if err := s.pool.Put(k, buffer); nil != err {
		s.log.Errorf("%s: put: %s  error: %s", s.namespace, key, err)
		s.hot.Delete(string(k))
		return err
	}

	s.remember(k, &Entry{Key: key, Item: r.Item, Timestamp: r.Timestamp})
	return nil
}

// Remove - delete an entry
func (s *Store) Remove(key Key) error {
	if 0 == len(key) {
		return fault.ErrEmptyCacheKey
	}
	k := key.Bytes()
	s.hot.Delete(string(k))
	return s.pool.Delete(k)
}

// RemoveExpired - physically delete all expired entries
//
// returns the number of entries removed
func (s *Store) RemoveExpired() (int, error) {
	if NoExpiry == s.ttl {
		return 0, nil
	}

	now := s.now()
	stale := [][]byte{}
	err := s.pool.Map(func(key []byte, value []byte) error {
		var r record
		if err := json.Unmarshal(value, &r); nil != err {
			s.log.Warnf("%s: undecodable entry removed: %x", s.namespace, key)
			stale = append(stale, key)
			return nil
		}
		if k, err := DecodeKey(key); nil == err && k.IsReserved() {
			return nil
		}
		if expired(r.Timestamp, s.ttl, now) {
			stale = append(stale, key)
		}
		return nil
	})
	if nil != err {
		return 0, err
	}

	for _, k := range stale {
		s.hot.Delete(string(k))
		if err := s.pool.Delete(k); nil != err {
			return 0, err
		}
	}

	if len(stale) > 0 {
		s.log.Debugf("%s: removed %d expired entries", s.namespace, len(stale))
	}
	return len(stale), nil
}

// AllEntries - every unexpired entry in key order
func (s *Store) AllEntries() ([]*Entry, error) {
	now := s.now()
	entries := []*Entry{}
	err := s.pool.Map(func(key []byte, value []byte) error {
		k, err := DecodeKey(key)
		if nil != err {
			s.log.Warnf("%s: skip corrupt key: %x", s.namespace, key)
			return nil
		}
		var r record
		if err := json.Unmarshal(value, &r); nil != err {
			s.log.Warnf("%s: skip corrupt entry: %s", s.namespace, k)
			return nil
		}
		if !k.IsReserved() && expired(r.Timestamp, s.ttl, now) {
			return nil
		}
		entries = append(entries, &Entry{Key: k, Item: r.Item, Timestamp: r.Timestamp})
		return nil
	})
	if nil != err {
		return nil, err
	}
	return entries, nil
}

// Decode - unmarshal the item
func (e *Entry) Decode(item interface{}) error {
	if err := json.Unmarshal(e.Item, item); nil != err {
		return fault.ErrCacheEntryCorrupt
	}
	return nil
}

// read an entry ignoring expiry
func (s *Store) read(key Key) (*Entry, error) {
	if 0 == len(key) {
		return nil, fault.ErrEmptyCacheKey
	}

	k := key.Bytes()
	if v, ok := s.hot.Get(string(k)); ok {
		return v.(*Entry), nil
	}

	buffer, err := s.pool.Get(k)
	if nil != err {
		return nil, err
	}
	if nil == buffer {
		return nil, nil
	}

	var r record
	if err := json.Unmarshal(buffer, &r); nil != err {
		s.log.Errorf("%s: corrupt entry: %s  error: %s", s.namespace, key, err)
		return nil, fault.ErrCacheEntryCorrupt
	}

	e := &Entry{Key: key, Item: r.Item, Timestamp: r.Timestamp}
	s.remember(k, e)
	return e, nil
}

func (s *Store) remember(k []byte, e *Entry) {
	s.hot.Set(string(k), e, gocache.DefaultExpiration)
}

func expired(timestamp time.Time, ttl time.Duration, now time.Time) bool {
	if NoExpiry == ttl {
		return false
	}
	return !now.Before(timestamp.Add(ttl))
}
