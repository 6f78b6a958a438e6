// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package opencitations_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/connector/opencitations"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/fetch"
	"github.com/bitmark-inc/pubconnector/fixtures"
	"github.com/bitmark-inc/pubconnector/quota"
	"github.com/bitmark-inc/pubconnector/storage"
)

const citationsReply = `[
  {"oci": "1-2", "citing": "omid:br/0614 doi:10.1038/leu.2016.153 openalex:W2413032717 pmid:27282255", "cited": "doi:10.1000/watched", "creation": "2025-03-01"},
  {"oci": "3-4", "citing": "omid:br/0615 doi:10.1000/old", "cited": "doi:10.1000/watched", "creation": "2019"},
  {"oci": "5-6", "citing": "omid:br/0616", "cited": "doi:10.1000/watched", "creation": "2025-03"}
]`

func setup(t *testing.T, handler http.HandlerFunc) (*opencitations.Client, *fetch.Client, *httptest.Server) {
	fixtures.SetupTestLogger()
	err := storage.InitialiseInMemory()
	assert.Nil(t, err, "storage initialise")

	server := httptest.NewServer(handler)

	clock := fixtures.NewClock()
	store := cache.New(storage.Pool.OpenCitations, 24*time.Hour)
	store.SetClock(clock.Now)

	fc := fetch.New(fetch.Configuration{
		Source:     opencitations.Name,
		Interval:   time.Millisecond,
		MaxRetries: 3,
		Backoff:    time.Millisecond,
	}, quota.New(store), server.Client())

	return opencitations.New(opencitations.Configuration{Host: server.URL}, store, fc), fc, server
}

func teardown(fc *fetch.Client, server *httptest.Server) {
	fc.Close()
	server.Close()
	storage.Finalise()
	fixtures.TeardownTestLogger()
}

func TestCitations(t *testing.T) {
	var calls int32
	c, fc, server := setup(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/index/v2/citations/doi:10.1000/watched", r.URL.Path)
		_, _ = w.Write([]byte(citationsReply))
	})
	defer teardown(fc, server)

	citations, err := c.Citations(context.Background(), "https://doi.org/10.1000/watched")
	assert.Nil(t, err)
	assert.Equal(t, 3, len(citations))
	assert.Equal(t, "10.1038/leu.2016.153", citations[0].DOI)
	assert.Equal(t, 4, len(citations[0].Identifiers))
	assert.Equal(t, "2025-03-01", citations[0].Created.String())
	assert.Equal(t, "", citations[2].DOI)
	assert.Equal(t, "2025-03-01", citations[2].Created.String())

	recent, err := c.Since(context.Background(), "10.1000/WATCHED", 30)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(recent))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "served from cache")

	recent, err = c.Since(context.Background(), "10.1000/watched", 200000)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(recent), "very long window keeps every dated citation")

	_, err = c.Since(context.Background(), "10.1000/watched", 0)
	assert.Equal(t, fault.ErrInvalidDays, err)

	_, err = c.Citations(context.Background(), "no doi here")
	assert.Equal(t, fault.ErrInvalidDOI, err)
}

func TestCitationsNotFound(t *testing.T) {
	c, fc, server := setup(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer teardown(fc, server)

	citations, err := c.Citations(context.Background(), "10.1000/unknown")
	assert.Nil(t, err)
	assert.Equal(t, 0, len(citations))
}

func TestCitationsRateLimited(t *testing.T) {
	var calls int32
	c, fc, server := setup(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	defer teardown(fc, server)

	citations, err := c.Citations(context.Background(), "10.1000/busy")
	assert.Nil(t, err)
	assert.Equal(t, 0, len(citations))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestParseIdentifiers(t *testing.T) {
	ids, d := opencitations.ParseIdentifiers("  omid:br/1   doi:10.1/a  pmid:2 ")
	assert.Equal(t, []string{"omid:br/1", "doi:10.1/a", "pmid:2"}, ids)
	assert.Equal(t, "10.1/a", d)

	ids, d = opencitations.ParseIdentifiers("")
	assert.Equal(t, 0, len(ids))
	assert.Equal(t, "", d)
}
