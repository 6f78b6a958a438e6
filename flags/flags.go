// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package flags - feature flag lookup by fixed string keys
//
// values are strings; enable/disable tokens select features and
// numeric values tune limits. A missing or unrecognised value means
// the caller's default applies.
package flags

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Flags - a replaceable key/value set
type Flags struct {
	sync.RWMutex
	values map[string]string
}

// New - create from an initial set of values
func New(values map[string]string) *Flags {
	f := &Flags{}
	f.Replace(values)
	return f
}

// Replace - swap in a new set of values
func (f *Flags) Replace(values map[string]string) {
	m := make(map[string]string, len(values))
	for k, v := range values {
		m[k] = strings.TrimSpace(v)
	}
	f.Lock()
	f.values = m
	f.Unlock()
}

// Set - change one value
func (f *Flags) Set(key string, value string) {
	f.Lock()
	f.values[key] = strings.TrimSpace(value)
	f.Unlock()
}

// Lookup - raw value
func (f *Flags) Lookup(key string) (string, bool) {
	f.RLock()
	defer f.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

// Enabled - interpret an enable/disable token
func (f *Flags) Enabled(key string, defaultValue bool) bool {
	v, ok := f.Lookup(key)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "enable", "enabled", "yes", "true", "on", "1":
		return true
	case "disable", "disabled", "no", "false", "off", "0":
		return false
	}
	return defaultValue
}

// Int - interpret a numeric value
func (f *Flags) Int(key string, defaultValue int) int {
	v, ok := f.Lookup(key)
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if nil != err {
		return defaultValue
	}
	return n
}

// String - a text value
func (f *Flags) String(key string, defaultValue string) string {
	v, ok := f.Lookup(key)
	if !ok || "" == v {
		return defaultValue
	}
	return v
}

// Keys - all keys in order
func (f *Flags) Keys() []string {
	f.RLock()
	defer f.RUnlock()
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
