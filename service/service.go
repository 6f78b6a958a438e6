// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package service - assemble stores, clients, connectors and the
// engine from one configuration
//
// storage must be initialised first
package service

import (
	"net/http"
	"sort"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/aggregator"
	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/configuration"
	"github.com/bitmark-inc/pubconnector/connector"
	"github.com/bitmark-inc/pubconnector/connector/citationwatch"
	"github.com/bitmark-inc/pubconnector/connector/crossref"
	"github.com/bitmark-inc/pubconnector/connector/openalex"
	"github.com/bitmark-inc/pubconnector/connector/opencitations"
	"github.com/bitmark-inc/pubconnector/connector/orcid"
	"github.com/bitmark-inc/pubconnector/connector/scholar"
	"github.com/bitmark-inc/pubconnector/document"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/fetch"
	"github.com/bitmark-inc/pubconnector/flags"
	"github.com/bitmark-inc/pubconnector/quota"
	"github.com/bitmark-inc/pubconnector/reading"
	"github.com/bitmark-inc/pubconnector/storage"
)

// Service - every long lived component
type Service struct {
	Flags     *flags.Flags
	Documents document.Store
	Authoring *cache.Store
	ReadSet   *reading.ReadSet

	ORCID         *orcid.Connector
	OpenAlex      *openalex.Connector
	OpenCitations *opencitations.Client
	Crossref      *crossref.Client
	Scholar       *scholar.Connector
	CitationWatch *citationwatch.Connector

	Engine *aggregator.Engine

	stores   map[string]*cache.Store
	trackers map[string]tracked
	clients  []*fetch.Client
	log      *logger.L
}

// a quota tracker and the limit it is checked against
type tracked struct {
	tracker *quota.Tracker
	limit   func() int
}

// Quota - today's use of one source
type Quota struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Limit  int    `json:"limit"`
}

// New - build everything
func New(conf *configuration.Configuration, f *flags.Flags, docs document.Store) (*Service, error) {
	if nil == storage.Pool.ORCID {
		return nil, fault.ErrNotInitialised
	}

	s := &Service{
		Flags:     f,
		Documents: docs,
		stores:    make(map[string]*cache.Store),
		trackers:  make(map[string]tracked),
		log:       logger.New("service"),
	}

	ttl := conf.TTL()
	orcidStore := s.store(storage.Pool.ORCID, ttl)
	openAlexStore := s.store(storage.Pool.OpenAlex, ttl)
	openCitationsStore := s.store(storage.Pool.OpenCitations, ttl)
	scholarStore := s.store(storage.Pool.Scholar, ttl)
	citationWatchStore := s.store(storage.Pool.CitationWatch, ttl)
	s.Authoring = s.store(storage.Pool.Authoring, ttl)
	s.ReadSet = reading.New(s.store(storage.Pool.Reading, cache.NoExpiry))

	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	orcidClient, err := s.client(orcid.Name, conf.Sources.ORCID, orcidStore, orcid.DefaultDailyLimit)
	if nil != err {
		return nil, err
	}
	openAlexClient, err := s.client(openalex.Name, conf.Sources.OpenAlex, openAlexStore, openalex.DefaultDailyLimit)
	if nil != err {
		return nil, err
	}
	openCitationsClient, err := s.client(opencitations.Name, conf.Sources.OpenCitations, openCitationsStore, 0)
	if nil != err {
		return nil, err
	}
	// crossref has no namespace of its own, its counter lives with scholar
	crossrefClient, err := s.client(crossref.Name, conf.Sources.Crossref, scholarStore, 0)
	if nil != err {
		return nil, err
	}

	pageDelay, err := conf.Sources.OpenAlex.Delay()
	if nil != err {
		return nil, err
	}

	s.ORCID = orcid.New(orcid.Configuration{
		Host: conf.Sources.ORCID.Host,
	}, orcidStore, f, orcidClient)

	s.OpenAlex = openalex.New(openalex.Configuration{
		Host:      conf.Sources.OpenAlex.Host,
		PerPage:   conf.Sources.OpenAlex.PerPage,
		MaxPages:  conf.Sources.OpenAlex.MaxPages,
		PageDelay: pageDelay,
	}, openAlexStore, f, openAlexClient)

	s.OpenCitations = opencitations.New(opencitations.Configuration{
		Host: conf.Sources.OpenCitations.Host,
	}, openCitationsStore, openCitationsClient)

	s.Crossref = crossref.New(crossref.Configuration{
		Host:       conf.Sources.Crossref.Host,
		Rows:       conf.Sources.Crossref.Rows,
		Similarity: conf.Sources.Crossref.Similarity,
	}, crossrefClient)

	s.Scholar = scholar.New(scholarStore, f, s.Crossref)
	s.CitationWatch = citationwatch.New(citationWatchStore, f, s.OpenCitations)

	s.Engine = aggregator.New([]connector.Connector{
		s.ORCID,
		s.OpenAlex,
		s.Scholar,
		s.CitationWatch,
	}, docs, s.ReadSet)

	ok = true
	return s, nil
}

func (s *Service) store(pool *storage.PoolHandle, ttl time.Duration) *cache.Store {
	st := cache.New(pool, ttl)
	s.stores[st.Namespace()] = st
	return st
}

// create a serialised client charging the quota of the given store
func (s *Service) client(name string, sc configuration.SourceType, store *cache.Store, defaultLimit int) (*fetch.Client, error) {
	limit := connector.DailyLimit(s.Flags, name, defaultLimit)

	fc, err := sc.Fetch(name, limit)
	if nil != err {
		return nil, err
	}
	timeout, err := sc.HTTPTimeout()
	if nil != err {
		return nil, err
	}

	tracker := quota.New(store)
	s.trackers[name] = tracked{tracker: tracker, limit: limit}

	c := fetch.New(fc, tracker, &http.Client{Timeout: timeout})
	s.clients = append(s.clients, c)
	s.log.Debugf("client: %s  interval: %s  retries: %d", name, fc.Interval, fc.MaxRetries)
	return c, nil
}

// Stores - every cache store, in namespace order
func (s *Service) Stores() []*cache.Store {
	names := make([]string, 0, len(s.stores))
	for name := range s.stores {
		names = append(names, name)
	}
	sort.Strings(names)

	stores := make([]*cache.Store, len(names))
	for i, name := range names {
		stores[i] = s.stores[name]
	}
	return stores
}

// Store - the cache store of a namespace
func (s *Service) Store(namespace string) (*cache.Store, error) {
	st, ok := s.stores[namespace]
	if !ok {
		return nil, fault.ErrInvalidNamespace
	}
	return st, nil
}

// Quotas - today's request counts, in source order
func (s *Service) Quotas() ([]Quota, error) {
	names := make([]string, 0, len(s.trackers))
	for name := range s.trackers {
		names = append(names, name)
	}
	sort.Strings(names)

	quotas := make([]Quota, 0, len(names))
	for _, name := range names {
		t := s.trackers[name]
		count, err := t.tracker.Current(name)
		if nil != err {
			return nil, err
		}
		quotas = append(quotas, Quota{
			Source: name,
			Count:  count,
			Limit:  t.limit(),
		})
	}
	return quotas, nil
}

// Close - stop every fetch client
func (s *Service) Close() {
	for _, c := range s.clients {
		c.Close()
	}
	s.clients = nil
}
