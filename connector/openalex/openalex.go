// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package openalex - author works, single works, references and
// citing works from the OpenAlex catalogue
//
// cache layout in the openalex namespace:
//
//   <author id>          list of works
//   ["doi", <doi>]       one record, looked up by normalised DOI
//   ["id", <work id>]    one record, looked up by OpenAlex work id
//   ["cites", <doi>]     works citing a DOI
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/connector"
	"github.com/bitmark-inc/pubconnector/doi"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/fetch"
	"github.com/bitmark-inc/pubconnector/flags"
	"github.com/bitmark-inc/pubconnector/work"
)

// fixed settings
const (
	Name              = "openalex"
	Platform          = "OpenAlex"
	Field             = "openalex"
	DefaultHost       = "https://api.openalex.org"
	DefaultDailyLimit = 10000
	DefaultPerPage    = 200
	BatchSize         = 50
)

var (
	filterIdentity = regexp.MustCompile(`authorships\.author\.id:(a\d+)`)
	urlIdentity    = regexp.MustCompile(`openalex\.org/([aw]\d+)`)
	bareIdentity   = regexp.MustCompile(`^[aw]\d+$`)
)

// Configuration - source specific settings
type Configuration struct {
	Host      string
	PerPage   int
	MaxPages  int
	PageDelay time.Duration
}

// Connector - the OpenAlex source
type Connector struct {
	connector.Base
	client     *fetch.Client
	host       string
	perPage    int
	pagination fetch.Pagination
}

// New - create the connector over its cache namespace and fetch client
func New(conf Configuration, store *cache.Store, f *flags.Flags, client *fetch.Client) *Connector {
	host := strings.TrimRight(conf.Host, "/")
	if "" == host {
		host = DefaultHost
	}
	perPage := conf.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	delay := conf.PageDelay
	if delay < 0 {
		delay = 0
	}

	c := &Connector{
		client:  client,
		host:    host,
		perPage: perPage,
		pagination: fetch.Pagination{
			Delay:    delay,
			MaxPages: conf.MaxPages,
		},
	}
	c.Base = connector.NewBase(connector.Settings{
		Name:          Name,
		Platform:      Platform,
		IdentityField: Field,
		EnableDefault: true,
		DailyLimit:    DefaultDailyLimit,
	}, store, f, c.ExtractIdentity)
	return c
}

// ExtractIdentity - author filter URLs, entity URLs and bare ids, lower cased
func (c *Connector) ExtractIdentity(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if unescaped, err := url.QueryUnescape(s); nil == err {
		s = unescaped
	}

	if strings.Contains(s, "authorships.author.id:") {
		if m := filterIdentity.FindStringSubmatch(s); nil != m {
			return m[1], nil
		}
		return "", c.InvalidIdentity(raw)
	}
	if m := urlIdentity.FindStringSubmatch(s); nil != m {
		return m[1], nil
	}
	if bareIdentity.MatchString(s) {
		return s, nil
	}
	return "", c.InvalidIdentity(raw)
}

// PopulateCache - cached works or a paginated fetch of all the author's works
//
// when a later page fails the pages already retrieved are cached
func (c *Connector) PopulateCache(ctx context.Context, raw string) ([]work.Work, error) {
	identity, err := c.ExtractIdentity(raw)
	if nil != err {
		return nil, err
	}

	works, found, err := c.CachedWorks(identity)
	if nil != err || found {
		return works, err
	}

	records, err := c.list(ctx, "authorships.author.id:"+identity)
	if nil != err {
		if 0 == len(records) {
			return nil, err
		}
		c.Log.Warnf("identity: %s  partial results: %d  error: %s", identity, len(records), err)
	}

	works = make([]work.Work, 0, len(records))
	for _, r := range records {
		works = append(works, r.work())
	}
	c.Log.Debugf("identity: %s  works: %d", identity, len(works))
	if err := c.StoreWorks(identity, works); nil != err {
		return nil, err
	}
	return works, nil
}

// WorkByDOI - a single work with its reference list
//
// found is false when OpenAlex does not know the DOI
func (c *Connector) WorkByDOI(ctx context.Context, d string) (*Record, bool, error) {
	key := doi.Normalise(d)
	if "" == key {
		return nil, false, fault.ErrInvalidDOI
	}

	var r Record
	found, err := c.Store.GetItem(cache.K("doi", key), &r)
	if nil != err {
		return nil, false, err
	}
	if found {
		return &r, true, nil
	}

	u := fmt.Sprintf("%s/works/%s", c.host, url.PathEscape("https://doi.org/"+key))
	found, err = c.client.GetJSON(ctx, u, &r)
	if nil != err || !found {
		return nil, found, err
	}
	if err := c.remember(&r, true); nil != err {
		return nil, false, err
	}
	return &r, true, nil
}

// References - the works referenced by a DOI
//
// records already cached are reused, the rest are fetched in batches
// and each batch is written without refreshing existing entries
func (c *Connector) References(ctx context.Context, d string) ([]work.Work, error) {
	r, found, err := c.WorkByDOI(ctx, d)
	if nil != err || !found {
		return []work.Work{}, err
	}

	results := []work.Work{}
	uncached := []string{}
	for _, ref := range r.ReferencedWorks {
		id := shortID(ref)
		if "" == id {
			continue
		}
		var cached Record
		ok, err := c.Store.GetItem(cache.K("id", id), &cached)
		if nil != err {
			return results, err
		}
		if ok {
			results = append(results, cached.work())
		} else {
			uncached = append(uncached, id)
		}
	}

	for start := 0; start < len(uncached); start += BatchSize {
		end := start + BatchSize
		if end > len(uncached) {
			end = len(uncached)
		}
		records, err := c.list(ctx, "openalex:"+strings.Join(uncached[start:end], "|"))
		if nil != err {
			c.Log.Errorf("references: %s  batch at: %d  error: %s", d, start, err)
			if nil != ctx.Err() {
				return results, ctx.Err()
			}
		}
		for i := range records {
			if err := c.remember(&records[i], false); nil != err {
				return results, err
			}
			results = append(results, records[i].work())
		}
	}
	return results, nil
}

// Cites - works citing a DOI
func (c *Connector) Cites(ctx context.Context, d string) ([]work.Work, error) {
	key := doi.Normalise(d)
	if "" == key {
		return nil, fault.ErrInvalidDOI
	}

	var works []work.Work
	found, err := c.Store.GetItem(cache.K("cites", key), &works)
	if nil != err || found {
		return works, err
	}

	r, found, err := c.WorkByDOI(ctx, key)
	if nil != err || !found {
		return []work.Work{}, err
	}
	id := shortID(r.ID)
	if "" == id {
		c.Log.Warnf("cites: %s  record without id", key)
		return []work.Work{}, nil
	}

	records, err := c.list(ctx, "cites:"+id)
	if nil != err {
		if 0 == len(records) {
			return nil, err
		}
		c.Log.Warnf("cites: %s  partial results: %d  error: %s", key, len(records), err)
	}
	works = make([]work.Work, 0, len(records))
	for i := range records {
		if err := c.remember(&records[i], false); nil != err {
			return nil, err
		}
		works = append(works, records[i].work())
	}
	if err := c.Store.Set(cache.K("cites", key), works); nil != err {
		return nil, err
	}
	return works, nil
}

// list walks every page of a works filter
func (c *Connector) list(ctx context.Context, filter string) ([]Record, error) {
	items, err := fetch.Paginate(ctx, c.pagination, func(ctx context.Context, page int) ([]json.RawMessage, int, error) {
		query := url.Values{}
		query.Set("filter", filter)
		query.Set("per_page", fmt.Sprint(c.perPage))
		query.Set("page", fmt.Sprint(page))

		var reply listReply
		found, err := c.client.GetJSON(ctx, c.host+"/works?"+query.Encode(), &reply)
		if nil != err || !found {
			return nil, 0, err
		}
		c.Log.Debugf("filter: %s  page: %d  results: %d/%d", filter, page, len(reply.Results), reply.Meta.Count)
		return reply.Results, reply.Meta.Count, nil
	})

	records := make([]Record, 0, len(items))
	for _, item := range items {
		var r Record
		if e := json.Unmarshal(item, &r); nil != e {
			c.Log.Warnf("filter: %s  skip undecodable record: %s", filter, e)
			continue
		}
		records = append(records, r)
	}
	return records, err
}

// remember stores a record under its id and DOI keys
func (c *Connector) remember(r *Record, refresh bool) error {
	now := c.Store.Now()
	if id := shortID(r.ID); "" != id {
		if err := c.Store.Put(cache.K("id", id), r, now, refresh); nil != err {
			return err
		}
	}
	if key := doi.Normalise(r.DOI); "" != key {
		if err := c.Store.Put(cache.K("doi", key), r, now, refresh); nil != err {
			return err
		}
	}
	return nil
}

// shortID - "https://openalex.org/W123" -> "w123"
func shortID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	if !bareIdentity.MatchString(id) {
		return ""
	}
	return id
}
