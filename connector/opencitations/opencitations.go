// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package opencitations - citing works of a DOI from the OpenCitations index
package opencitations

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/doi"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/fetch"
	"github.com/bitmark-inc/pubconnector/work"
)

// fixed settings
const (
	Name        = "opencitations"
	DefaultHost = "https://api.opencitations.net"
)

// Configuration - source specific settings
type Configuration struct {
	Host string
}

// Citation - one citing work
type Citation struct {
	OCI         string    `json:"oci,omitempty"`
	Citing      string    `json:"citing"`
	Identifiers []string  `json:"identifiers"`
	DOI         string    `json:"doi,omitempty"`
	Created     work.Date `json:"created"`
}

// Client - cached citation lookups
type Client struct {
	store  *cache.Store
	client *fetch.Client
	host   string
	log    *logger.L
}

type citationRecord struct {
	OCI      string `json:"oci"`
	Citing   string `json:"citing"`
	Cited    string `json:"cited"`
	Creation string `json:"creation"`
}

// New - create a client over the opencitations namespace
func New(conf Configuration, store *cache.Store, client *fetch.Client) *Client {
	host := strings.TrimRight(conf.Host, "/")
	if "" == host {
		host = DefaultHost
	}
	return &Client{
		store:  store,
		client: client,
		host:   host,
		log:    logger.New(Name),
	}
}

// Key - cache key of the citations of a DOI
func Key(d string) cache.Key {
	return cache.K("citations", doi.Normalise(d))
}

// Citations - all works citing a DOI
//
// an unknown DOI has no citations; the empty list is cached too
func (c *Client) Citations(ctx context.Context, text string) ([]Citation, error) {
	d, err := doi.First(text)
	if nil != err {
		return nil, err
	}

	var citations []Citation
	found, err := c.store.GetItem(Key(d), &citations)
	if nil != err || found {
		return citations, err
	}

	var records []citationRecord
	u := fmt.Sprintf("%s/index/v2/citations/doi:%s", c.host, d)
	found, err = c.client.GetJSON(ctx, u, &records)
	if nil != err {
		return nil, err
	}
	if !found {
		c.log.Debugf("not in index: %s", d)
	}

	citations = make([]Citation, 0, len(records))
	for _, r := range records {
		citations = append(citations, r.citation())
	}
	c.log.Debugf("doi: %s  citations: %d", d, len(citations))

	if err := c.store.Set(Key(d), citations); nil != err {
		return nil, err
	}
	return citations, nil
}

// Since - citations of a DOI created on or after now-days
func (c *Client) Since(ctx context.Context, text string, days int) ([]Citation, error) {
	if days <= 0 {
		return nil, fault.ErrInvalidDays
	}
	all, err := c.Citations(ctx, text)
	if nil != err {
		return nil, err
	}
	cutoff := work.DateOf(c.store.Now().AddDate(0, 0, -days))
	results := []Citation{}
	for _, citation := range all {
		if citation.Created.IsZero() || citation.Created.Before(cutoff.Time) {
			continue
		}
		results = append(results, citation)
	}
	return results, nil
}

// ClearExpired - sweep the namespace
func (c *Client) ClearExpired() (int, error) {
	return c.store.RemoveExpired()
}

func (r citationRecord) citation() Citation {
	identifiers, d := ParseIdentifiers(r.Citing)
	created, _ := work.ParseDate(r.Creation)
	return Citation{
		OCI:         r.OCI,
		Citing:      r.Citing,
		Identifiers: identifiers,
		DOI:         d,
		Created:     created,
	}
}

// ParseIdentifiers - split a space separated identifier list and pick
// out the doi: token
func ParseIdentifiers(s string) ([]string, string) {
	identifiers := strings.Fields(s)
	d := ""
	for _, id := range identifiers {
		if strings.HasPrefix(id, "doi:") {
			d = strings.TrimPrefix(id, "doi:")
			break
		}
	}
	return identifiers, d
}
