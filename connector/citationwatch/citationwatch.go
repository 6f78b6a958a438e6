// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package citationwatch - new citations of watched papers
//
// a watched paper is an entity tagged with the watch tag and carrying
// a DOI, or a paper tagged with a watched colleague; its identity is
// the DOI and its works are the papers citing it
package citationwatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/connector"
	"github.com/bitmark-inc/pubconnector/connector/opencitations"
	"github.com/bitmark-inc/pubconnector/doi"
	"github.com/bitmark-inc/pubconnector/document"
	"github.com/bitmark-inc/pubconnector/flags"
	"github.com/bitmark-inc/pubconnector/work"
)

// fixed settings
const (
	Name         = "citationwatch"
	Platform     = "Citation Watch"
	Field        = document.BibtexDOI
	DefaultTag   = "Citation Watch"
	DefaultScope = ScopeBoth
)

// scopes
const (
	ScopePaper     = "paper"
	ScopeColleague = "colleague"
	ScopeBoth      = "both"
)

// Citations - source of citing works
type Citations interface {
	Citations(ctx context.Context, doi string) ([]opencitations.Citation, error)
}

// Connector - the citation watch source
type Connector struct {
	connector.Base
	citations Citations
}

// New - create the connector over its cache namespace
func New(store *cache.Store, f *flags.Flags, citations Citations) *Connector {
	c := &Connector{
		citations: citations,
	}
	c.Base = connector.NewBase(connector.Settings{
		Name:          Name,
		Platform:      Platform,
		IdentityField: Field,
		EnableDefault: false,
	}, store, f, c.ExtractIdentity)
	return c
}

// ExtractIdentity - the first DOI in the text, normalised
func (c *Connector) ExtractIdentity(raw string) (string, error) {
	d, err := doi.First(raw)
	if nil != err {
		return "", c.InvalidIdentity(raw)
	}
	return doi.Normalise(d), nil
}

// Tag - the watch tag
func (c *Connector) Tag() string {
	tag, ok := c.Flags.Lookup(Name + ".tag")
	if !ok || "" == tag {
		return DefaultTag
	}
	return tag
}

// Scope - which kinds of entity are watched
func (c *Connector) Scope() string {
	scope, _ := c.Flags.Lookup(Name + ".scope")
	switch s := strings.ToLower(scope); s {
	case ScopePaper, ScopeColleague, ScopeBoth:
		return s
	}
	return DefaultScope
}

// Targets - watched papers, directly or through a watched colleague
func (c *Connector) Targets(docs document.Store) ([]connector.Target, error) {
	tag := c.Tag()
	scope := c.Scope()

	targets := []connector.Target{}
	seen := map[string]struct{}{}
	add := func(filter string) error {
		found, err := c.TargetsFrom(docs, filter)
		if nil != err {
			return err
		}
		for _, t := range found {
			if _, ok := seen[t.Identity]; ok {
				continue
			}
			seen[t.Identity] = struct{}{}
			targets = append(targets, t)
		}
		return nil
	}

	if ScopeColleague != scope {
		if err := add(fmt.Sprintf("[tag[%s]has[%s]!has[draft.of]]", tag, Field)); nil != err {
			return nil, err
		}
	}
	if ScopePaper != scope {
		colleagues, err := docs.Filter(fmt.Sprintf("[tag[%s]tag[%s]!has[draft.of]]", document.ColleagueTag, tag))
		if nil != err {
			return nil, err
		}
		for _, colleague := range colleagues {
			if err := add(fmt.Sprintf("[tag[%s]has[%s]!has[draft.of]]", colleague, Field)); nil != err {
				return nil, err
			}
		}
	}
	return targets, nil
}

// PopulateCache - cached citing works or a fresh citation lookup
func (c *Connector) PopulateCache(ctx context.Context, raw string) ([]work.Work, error) {
	identity, err := c.ExtractIdentity(raw)
	if nil != err {
		return nil, err
	}

	works, found, err := c.CachedWorks(identity)
	if nil != err || found {
		return works, err
	}

	citations, err := c.citations.Citations(ctx, identity)
	if nil != err {
		return nil, err
	}

	works = make([]work.Work, 0, len(citations))
	for _, citation := range citations {
		if "" == citation.DOI {
			continue
		}
		w := work.Work{
			PublicationDate: citation.Created,
		}
		w.SetDOI(citation.DOI)
		works = append(works, w)
	}
	c.Log.Debugf("doi: %s  citing works: %d", identity, len(works))

	if err := c.StoreWorks(identity, works); nil != err {
		return nil, err
	}
	return works, nil
}
