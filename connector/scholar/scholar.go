// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package scholar - Google Scholar profiles
//
// profiles cannot be fetched directly; a refresh only records which
// profiles are missing, and records scraped elsewhere are handed in
// through Ingest where their DOIs are resolved through Crossref
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/connector"
	"github.com/bitmark-inc/pubconnector/connector/crossref"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/flags"
	"github.com/bitmark-inc/pubconnector/work"
)

// fixed settings
const (
	Name             = "scholar"
	Platform         = "Google Scholar"
	Field            = "google-scholar"
	DefaultCheckHits = 10
)

var (
	bareIdentity = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	urlIdentity  = regexp.MustCompile(`[?&]user=([A-Za-z0-9_-]+)`)
)

// PendingKey - identities waiting for an ingest
var PendingKey = cache.Reserved("scholar_pending_status")

// Resolver - DOI lookups by metadata
type Resolver interface {
	FindDOI(ctx context.Context, title string, authors string, publisher string) (crossref.Match, bool, error)
	WorkByDOI(ctx context.Context, doi string) (work.Work, bool, error)
}

// Record - one publication line of a profile
type Record struct {
	Title         string     `json:"title"`
	Author        string     `json:"author,omitempty"`
	Publisher     string     `json:"publisher,omitempty"`
	Year          string     `json:"year,omitempty"`
	Cites         string     `json:"cites,omitempty"`
	AccessDate    string     `json:"access-date,omitempty"`
	DOI           string     `json:"doi,omitempty"`
	DOISimilarity float64    `json:"doi-similarity,omitempty"`
	CheckHits     int        `json:"check-hits,omitempty"`
	Resolved      *work.Work `json:"crossref,omitempty"`
}

// Connector - the Google Scholar source
type Connector struct {
	connector.Base
	resolver Resolver
}

// New - create the connector over its cache namespace
func New(store *cache.Store, f *flags.Flags, resolver Resolver) *Connector {
	c := &Connector{
		resolver: resolver,
	}
	c.Base = connector.NewBase(connector.Settings{
		Name:          Name,
		Platform:      Platform,
		IdentityField: Field,
		EnableDefault: false,
	}, store, f, c.ExtractIdentity)
	c.Decode = decodeRecords
	return c
}

// ExtractIdentity - bare user token or the user= parameter of a profile URL
func (c *Connector) ExtractIdentity(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if bareIdentity.MatchString(s) {
		return s, nil
	}
	m := urlIdentity.FindStringSubmatch(s)
	if nil == m || "http" == m[1] || "https" == m[1] {
		return "", c.InvalidIdentity(raw)
	}
	return m[1], nil
}

// Prepare - forget the pending list of the previous refresh
func (c *Connector) Prepare() error {
	return c.Store.Set(PendingKey, []string{})
}

// PopulateCache - cached works, or mark the profile as pending
//
// never contacts the network
func (c *Connector) PopulateCache(ctx context.Context, raw string) ([]work.Work, error) {
	identity, err := c.ExtractIdentity(raw)
	if nil != err {
		return nil, err
	}

	records, found, err := c.records(identity)
	if nil != err {
		return nil, err
	}
	if found && len(records) > 0 {
		return works(records), nil
	}

	if err := c.addPending(identity); nil != err {
		return nil, err
	}
	return []work.Work{}, nil
}

// Pending - identities waiting for an ingest, sorted
func (c *Connector) Pending() ([]string, error) {
	var pending []string
	if _, err := c.Store.GetItem(PendingKey, &pending); nil != err {
		return nil, err
	}
	if nil == pending {
		pending = []string{}
	}
	sort.Strings(pending)
	return pending, nil
}

// Records - the stored profile of an identity
func (c *Connector) Records(raw string) ([]Record, error) {
	identity, err := c.ExtractIdentity(raw)
	if nil != err {
		return nil, err
	}
	records, _, err := c.records(identity)
	if nil == records {
		records = []Record{}
	}
	return records, err
}

// Ingest - store a scraped profile, resolving DOIs of recent records
//
// progress is written after every record without refreshing the
// entry lifetime; the final write refreshes it
func (c *Connector) Ingest(ctx context.Context, raw string, records []Record) ([]work.Work, error) {
	identity, err := c.ExtractIdentity(raw)
	if nil != err {
		return nil, err
	}
	if err := c.removePending(identity); nil != err {
		return nil, err
	}

	cached, _, err := c.records(identity)
	if nil != err {
		return nil, err
	}

	now := c.Store.Now()
	minimumYear := c.Flags.Int(Name+".minimum_year", now.Year()-1)
	threshold := c.Flags.Int(Name+".check_hits", DefaultCheckHits)
	key := cache.K(identity)
	lookups := true

	for i := range records {
		r := &records[i]
		year, err := strconv.Atoi(strings.TrimSpace(r.Year))
		if nil != err || year < minimumYear {
			continue
		}

		match := findRecord(cached, r)
		if nil == match && "" != r.Cites {
			match, err = c.recordByCites(r.Cites)
			if nil != err {
				return nil, err
			}
		}

		if nil != match && "" != match.AccessDate {
			r.AccessDate = match.AccessDate
		} else {
			r.AccessDate = fmt.Sprintf("%d-%02d-01", year, now.Month())
		}

		switch {
		case nil != match && match.resolved():
			r.DOI = match.DOI
			r.DOISimilarity = match.DOISimilarity
			r.CheckHits = match.CheckHits
			resolved := *match.Resolved
			r.Resolved = &resolved

		case nil != match && match.CheckHits >= threshold:
			r.CheckHits = match.CheckHits
			c.Log.Debugf("skip lookup after %d hits: %q", r.CheckHits, r.Title)

		case lookups:
			if nil != match && match.CheckHits > r.CheckHits {
				r.CheckHits = match.CheckHits
			}
			r.CheckHits += 1
			if err := c.resolve(ctx, r); nil != err {
				c.Log.Errorf("resolve: %q  error: %s", r.Title, err)
				if fault.IsErrLimit(err) || nil != ctx.Err() {
					lookups = false
				}
			}
		}

		if err := c.Store.Put(key, records, now, false); nil != err {
			return nil, err
		}
	}

	if nil == records {
		records = []Record{}
	}
	if err := c.Store.Set(key, records); nil != err {
		return nil, err
	}
	return works(records), nil
}

func (c *Connector) resolve(ctx context.Context, r *Record) error {
	m, found, err := c.resolver.FindDOI(ctx, r.Title, r.Author, r.Publisher)
	if nil != err || !found {
		return err
	}
	r.DOI = m.DOI
	r.DOISimilarity = m.Similarity

	w, found, err := c.resolver.WorkByDOI(ctx, m.DOI)
	if nil != err || !found {
		return err
	}
	if w.PublicationDate.IsZero() {
		return nil
	}
	w.SetDOI(m.DOI)
	r.Resolved = &w
	return nil
}

func (c *Connector) records(identity string) ([]Record, bool, error) {
	var records []Record
	found, err := c.Store.GetItem(cache.K(identity), &records)
	return records, found, err
}

// recordByCites - a record with the same cites token in any profile
func (c *Connector) recordByCites(cites string) (*Record, error) {
	entries, err := c.Store.AllEntries()
	if nil != err {
		return nil, err
	}
	for _, e := range entries {
		if _, ok := e.Key.Identity(); !ok {
			continue
		}
		var records []Record
		if err := e.Decode(&records); nil != err {
			continue
		}
		for i := range records {
			if cites == records[i].Cites {
				return &records[i], nil
			}
		}
	}
	return nil, nil
}

func (c *Connector) addPending(identity string) error {
	pending, err := c.Pending()
	if nil != err {
		return err
	}
	for _, p := range pending {
		if p == identity {
			return nil
		}
	}
	c.Log.Infof("pending: %s", identity)
	return c.Store.Set(PendingKey, append(pending, identity))
}

func (c *Connector) removePending(identity string) error {
	pending, err := c.Pending()
	if nil != err {
		return err
	}
	kept := make([]string, 0, len(pending))
	for _, p := range pending {
		if p != identity {
			kept = append(kept, p)
		}
	}
	return c.Store.Set(PendingKey, kept)
}

func (r *Record) resolved() bool {
	return "" != r.DOI && 0 != r.DOISimilarity && nil != r.Resolved && !r.Resolved.PublicationDate.IsZero()
}

// cites tokens decide when both sides have one
func (r *Record) same(other *Record) bool {
	if "" != r.Cites && "" != other.Cites {
		return r.Cites == other.Cites
	}
	return r.Title == other.Title &&
		r.Author == other.Author &&
		r.Publisher == other.Publisher &&
		r.Year == other.Year
}

func findRecord(records []Record, r *Record) *Record {
	for i := range records {
		if records[i].same(r) {
			return &records[i]
		}
	}
	return nil
}

// works - resolved records as works
func works(records []Record) []work.Work {
	results := []work.Work{}
	for _, r := range records {
		if nil == r.Resolved {
			continue
		}
		w := r.Resolved.Clone()
		if "" != r.DOI {
			w.SetDOI(r.DOI)
		}
		results = append(results, w)
	}
	return results
}

func decodeRecords(item json.RawMessage) ([]work.Work, error) {
	var records []Record
	if err := json.Unmarshal(item, &records); nil != err {
		return nil, fault.ErrCacheEntryCorrupt
	}
	return works(records), nil
}
