// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package orcid - works listed on public ORCID records
package orcid

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/connector"
	"github.com/bitmark-inc/pubconnector/fetch"
	"github.com/bitmark-inc/pubconnector/flags"
	"github.com/bitmark-inc/pubconnector/work"
)

// fixed settings
const (
	Name              = "orcid"
	Platform          = "ORCID"
	Field             = "orcid"
	DefaultHost       = "https://pub.orcid.org"
	DefaultDailyLimit = 25000
	apiVersion        = "v3.0"
)

var (
	bareIdentity = regexp.MustCompile(`(?i)^\d{4}-\d{4}-\d{4}-\d{3}[0-9X]$`)
	urlIdentity  = regexp.MustCompile(`(?i)orcid\.org/(\d{4}-\d{4}-\d{4}-\d{3}[0-9X])`)
)

// Configuration - source specific settings
type Configuration struct {
	Host string
}

// Connector - the ORCID source
type Connector struct {
	connector.Base
	client *fetch.Client
	host   string
}

// New - create the connector over its cache namespace and fetch client
func New(conf Configuration, store *cache.Store, f *flags.Flags, client *fetch.Client) *Connector {
	host := strings.TrimRight(conf.Host, "/")
	if "" == host {
		host = DefaultHost
	}
	c := &Connector{
		client: client,
		host:   host,
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

// ExtractIdentity - bare ORCID iD or any URL containing orcid.org/<iD>
func (c *Connector) ExtractIdentity(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if unescaped, err := url.PathUnescape(s); nil == err {
		s = unescaped
	}
	if bareIdentity.MatchString(s) {
		return strings.ToUpper(s), nil
	}
	if m := urlIdentity.FindStringSubmatch(s); nil != m {
		return strings.ToUpper(m[1]), nil
	}
	return "", c.InvalidIdentity(raw)
}

// PopulateCache - cached works or a fresh fetch of the works summary
func (c *Connector) PopulateCache(ctx context.Context, raw string) ([]work.Work, error) {
	identity, err := c.ExtractIdentity(raw)
	if nil != err {
		return nil, err
	}

	works, found, err := c.CachedWorks(identity)
	if nil != err || found {
		return works, err
	}

	var reply worksReply
	u := fmt.Sprintf("%s/%s/%s/works", c.host, apiVersion, url.PathEscape(identity))
	found, err = c.client.GetJSON(ctx, u, &reply)
	if nil != err {
		return nil, err
	}
	if !found {
		c.Log.Warnf("no record for: %s", identity)
	}

	works = reply.works()
	c.Log.Debugf("identity: %s  works: %d", identity, len(works))
	if err := c.StoreWorks(identity, works); nil != err {
		return nil, err
	}
	return works, nil
}

type value struct {
	Value string `json:"value"`
}

type externalID struct {
	Type  string `json:"external-id-type"`
	Value string `json:"external-id-value"`
}

type externalIDCamel struct {
	Type  string `json:"externalIdType"`
	Value string `json:"externalIdValue"`
}

type summary struct {
	PutCode int `json:"put-code"`
	Title   *struct {
		Title *value `json:"title"`
	} `json:"title"`
	Type            string `json:"type"`
	JournalTitle    *value `json:"journal-title"`
	PublicationDate *struct {
		Year  *value `json:"year"`
		Month *value `json:"month"`
		Day   *value `json:"day"`
	} `json:"publication-date"`
	ExternalIDs *struct {
		ExternalID []externalID `json:"external-id"`
	} `json:"external-ids"`
	ExternalIDsCamel *struct {
		ExternalID []externalIDCamel `json:"externalId"`
	} `json:"externalIds"`
}

type worksReply struct {
	Group []struct {
		WorkSummary []summary `json:"work-summary"`
	} `json:"group"`
}

func (r worksReply) works() []work.Work {
	works := make([]work.Work, 0, len(r.Group))
	for _, g := range r.Group {
		if 0 == len(g.WorkSummary) {
			continue
		}
		works = append(works, g.WorkSummary[0].work())
	}
	return works
}

func (s summary) work() work.Work {
	w := work.Work{}
	if nil != s.Title && nil != s.Title.Title {
		w.Title = s.Title.Title.Value
	}
	if nil != s.JournalTitle {
		w.ContainerTitle = s.JournalTitle.Value
	}
	w.SetDOI(s.doi())
	if d, ok := s.date(); ok {
		w.PublicationDate = d
	}
	if 0 != s.PutCode {
		w.Identifiers = map[string]string{"put-code": strconv.Itoa(s.PutCode)}
	}
	return w
}

func (s summary) doi() string {
	if nil != s.ExternalIDsCamel {
		for _, id := range s.ExternalIDsCamel.ExternalID {
			if "doi" == id.Type && "" != id.Value {
				return id.Value
			}
		}
	}
	if nil != s.ExternalIDs {
		for _, id := range s.ExternalIDs.ExternalID {
			if "doi" == id.Type && "" != id.Value {
				return id.Value
			}
		}
	}
	return ""
}

// only a complete year-month-day is usable
func (s summary) date() (work.Date, bool) {
	p := s.PublicationDate
	if nil == p || nil == p.Year || nil == p.Month || nil == p.Day {
		return work.Date{}, false
	}
	year, err := strconv.Atoi(p.Year.Value)
	if nil != err {
		return work.Date{}, false
	}
	month, err := strconv.Atoi(p.Month.Value)
	if nil != err {
		return work.Date{}, false
	}
	day, err := strconv.Atoi(p.Day.Value)
	if nil != err {
		return work.Date{}, false
	}
	return work.DateFromParts(year, month, day)
}
