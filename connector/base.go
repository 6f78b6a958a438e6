// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package connector

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/doi"
	"github.com/bitmark-inc/pubconnector/document"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/flags"
	"github.com/bitmark-inc/pubconnector/work"
)

// ColleagueFilter - entities whose identity fields are tracked
const ColleagueFilter = "[tag[Colleague]!has[draft.of]]"

// DecodeFunc - turn a cached item into works
type DecodeFunc func(item json.RawMessage) ([]work.Work, error)

// Settings - the fixed description of a source
type Settings struct {
	Name          string
	Platform      string
	IdentityField string
	EnableDefault bool
	DailyLimit    int
}

// Base - behaviour shared by every connector
//
// a source embeds Base and provides ExtractIdentity and PopulateCache
type Base struct {
	Settings
	Store   *cache.Store
	Flags   *flags.Flags
	Log     *logger.L
	Extract func(raw string) (string, error)
	Decode  DecodeFunc
}

// NewBase - set up the shared part of a connector
func NewBase(settings Settings, store *cache.Store, f *flags.Flags, extract func(string) (string, error)) Base {
	return Base{
		Settings: settings,
		Store:    store,
		Flags:    f,
		Log:      logger.New(settings.Name),
		Extract:  extract,
		Decode:   DecodeWorks,
	}
}

// Name - cache namespace and quota source
func (b *Base) Name() string {
	return b.Settings.Name
}

// Platform - label attached to works
func (b *Base) Platform() string {
	return b.Settings.Platform
}

// IdentityField - entity field name
func (b *Base) IdentityField() string {
	return b.Settings.IdentityField
}

// IsEnabled - <name>.enable flag
func (b *Base) IsEnabled() bool {
	return b.Flags.Enabled(b.Settings.Name+".enable", b.EnableDefault)
}

// DailyLimitNow - <name>.daily_limit flag
func (b *Base) DailyLimitNow() int {
	return DailyLimit(b.Flags, b.Settings.Name, b.Settings.DailyLimit)()
}

// DailyLimit - a live reader of the <name>.daily_limit flag
//
// suitable for fetch.Configuration.DailyLimit
func DailyLimit(f *flags.Flags, name string, defaultLimit int) func() int {
	return func() int {
		return f.Int(name+".daily_limit", defaultLimit)
	}
}

// Prepare - nothing to do by default
func (b *Base) Prepare() error {
	return nil
}

// ClearExpired - sweep this source's namespace
func (b *Base) ClearExpired() (int, error) {
	return b.Store.RemoveExpired()
}

// Targets - identities from the identity field of every colleague
//
// unparseable identities are logged and skipped
func (b *Base) Targets(docs document.Store) ([]Target, error) {
	return b.TargetsFrom(docs, ColleagueFilter)
}

// TargetsFrom - identities from the identity field of the entities
// matching a filter
func (b *Base) TargetsFrom(docs document.Store, filter string) ([]Target, error) {
	entityTitles, err := docs.Filter(filter)
	if nil != err {
		return nil, err
	}

	targets := []Target{}
	seen := map[string]struct{}{}
	for _, title := range entityTitles {
		e, err := docs.Get(title)
		if nil != err {
			b.Log.Warnf("entity: %q  error: %s", title, err)
			continue
		}
		for _, raw := range document.ParseStringArray(e.Field(b.IdentityField())) {
			id, err := b.Extract(raw)
			if nil != err {
				b.Log.Warnf("entity: %q  %s", title, err)
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			targets = append(targets, Target{Entity: title, Identity: id})
		}
	}
	return targets, nil
}

// InvalidIdentity - error naming the offending field
func (b *Base) InvalidIdentity(raw string) error {
	return fmt.Errorf("%s: %q: %w", b.IdentityField(), raw, fault.ErrInvalidIdentity)
}

// CachedWorks - unexpired works stored for an identity
func (b *Base) CachedWorks(identity string) ([]work.Work, bool, error) {
	e, err := b.Store.Get(cache.K(identity))
	if nil != err || nil == e {
		return nil, false, err
	}
	works, err := b.Decode(e.Item)
	if nil != err {
		return nil, false, err
	}
	return works, true, nil
}

// StoreWorks - write the works of an identity
func (b *Base) StoreWorks(identity string, works []work.Work) error {
	if nil == works {
		works = []work.Work{}
	}
	return b.Store.Set(cache.K(identity), works)
}

// RecentWorks - cached works published since now-days that carry a DOI
func (b *Base) RecentWorks(days int) ([]work.Work, error) {
	if days <= 0 {
		return nil, fault.ErrInvalidDays
	}
	cutoff := b.Store.Now().AddDate(0, 0, -days)

	results := []work.Work{}
	err := b.scan(func(identity string, works []work.Work) {
		for _, w := range works {
			if !w.HasDOI() || !w.PublishedSince(cutoff) {
				continue
			}
			r := w.Clone()
			r.Platforms = []string{b.Platform()}
			results = append(results, r)
		}
	})
	if nil != err {
		return nil, err
	}
	return results, nil
}

// FindIdentitiesByDOI - reverse lookup over all cached identities
func (b *Base) FindIdentitiesByDOI(d string) ([]string, error) {
	key := doi.Normalise(d)
	if "" == key {
		return nil, fault.ErrInvalidDOI
	}

	identities := []string{}
	err := b.scan(func(identity string, works []work.Work) {
		if work.ContainsDOI(works, key) {
			identities = append(identities, identity)
		}
	})
	if nil != err {
		return nil, err
	}
	sort.Strings(identities)
	return identities, nil
}

// scan every identity entry, skipping reserved and composite keys
func (b *Base) scan(f func(identity string, works []work.Work)) error {
	entries, err := b.Store.AllEntries()
	if nil != err {
		return err
	}
	for _, e := range entries {
		identity, ok := e.Key.Identity()
		if !ok {
			continue
		}
		works, err := b.Decode(e.Item)
		if nil != err {
			b.Log.Warnf("skip undecodable entry: %s  error: %s", e.Key, err)
			continue
		}
		f(identity, works)
	}
	return nil
}

// DecodeWorks - the default item format, a list of works
func DecodeWorks(item json.RawMessage) ([]work.Work, error) {
	var works []work.Work
	if err := json.Unmarshal(item, &works); nil != err {
		return nil, fault.ErrCacheEntryCorrupt
	}
	return works, nil
}
