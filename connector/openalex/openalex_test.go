// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package openalex_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/connector/openalex"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/fetch"
	"github.com/bitmark-inc/pubconnector/fixtures"
	"github.com/bitmark-inc/pubconnector/flags"
	"github.com/bitmark-inc/pubconnector/quota"
	"github.com/bitmark-inc/pubconnector/storage"
)

func record(id int, doi string, date string) string {
	return fmt.Sprintf(`{
  "id": "https://openalex.org/W%d",
  "doi": "https://doi.org/%s",
  "title": "Work %d",
  "publication_date": "%s",
  "primary_location": {"source": {"display_name": "Journal %d"}},
  "authorships": [
    {"author_position": "first", "author": {"id": "https://openalex.org/A123", "display_name": "Ada M Lovelace", "orcid": "https://orcid.org/0000-0002-1825-0097"}}
  ]
}`, id, doi, id, date, id)
}

func page(count int, records ...string) string {
	return fmt.Sprintf(`{"meta": {"count": %d}, "results": [%s]}`, count, strings.Join(records, ","))
}

type fixture struct {
	conn   *openalex.Connector
	client *fetch.Client
	server *httptest.Server
	calls  int32
}

func setup(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *fixture {
	fixtures.SetupTestLogger()
	err := storage.InitialiseInMemory()
	assert.Nil(t, err, "storage initialise")

	f := &fixture{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.calls, 1)
		handler(w, r)
	}))

	clock := fixtures.NewClock()
	store := cache.New(storage.Pool.OpenAlex, 24*time.Hour)
	store.SetClock(clock.Now)

	f.client = fetch.New(fetch.Configuration{
		Source:     openalex.Name,
		Interval:   time.Millisecond,
		MaxRetries: 1,
		Backoff:    time.Millisecond,
	}, quota.New(store), f.server.Client())

	f.conn = openalex.New(openalex.Configuration{
		Host:    f.server.URL,
		PerPage: 2,
	}, store, flags.New(nil), f.client)
	return f
}

func (f *fixture) teardown() {
	f.client.Close()
	f.server.Close()
	storage.Finalise()
	fixtures.TeardownTestLogger()
}

func (f *fixture) requests() int32 {
	return atomic.LoadInt32(&f.calls)
}

func TestExtractIdentity(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {})
	defer f.teardown()

	valid := map[string]string{
		"https://openalex.org/works?filter=authorships.author.id:A5023888391": "a5023888391",
		"https://api.openalex.org/works?filter=authorships.author.id%3AA12":   "a12",
		"https://openalex.org/A5023888391":                                    "a5023888391",
		"https://openalex.org/W2741809807":                                    "w2741809807",
		"A42":                                                                 "a42",
		"w7":                                                                  "w7",
	}
	for raw, expected := range valid {
		id, err := f.conn.ExtractIdentity(raw)
		assert.Nil(t, err, raw)
		assert.Equal(t, expected, id, raw)

		again, err := f.conn.ExtractIdentity(id)
		assert.Nil(t, err, "idempotent")
		assert.Equal(t, id, again, "idempotent")
	}

	for _, raw := range []string{"", "x123", "https://openalex.org/works?filter=authorships.author.id:bad"} {
		_, err := f.conn.ExtractIdentity(raw)
		assert.True(t, fault.IsErrInvalid(err), raw)
	}
}

func TestPopulateCachePaginated(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "authorships.author.id:a123", q.Get("filter"))
		assert.Equal(t, "2", q.Get("per_page"))
		switch q.Get("page") {
		case "1":
			_, _ = w.Write([]byte(page(3,
				record(1, "10.1000/one", "2025-03-10"),
				record(2, "10.1000/two", "2020-01-01"))))
		case "2":
			_, _ = w.Write([]byte(page(3, record(3, "10.1000/three", "2025-03-01"))))
		default:
			t.Errorf("unexpected page: %s", q.Get("page"))
		}
	})
	defer f.teardown()

	works, err := f.conn.PopulateCache(context.Background(), "https://openalex.org/A123")
	assert.Nil(t, err)
	assert.Equal(t, 3, len(works))
	assert.Equal(t, int32(2), f.requests())

	w := works[0]
	assert.Equal(t, "10.1000/one", w.DOI)
	assert.Equal(t, "Work 1", w.Title)
	assert.Equal(t, "Journal 1", w.ContainerTitle)
	assert.Equal(t, "w1", w.Identifiers["openalex"])
	assert.Equal(t, 1, len(w.Authors))
	assert.Equal(t, "Ada M", w.Authors[0].Given)
	assert.Equal(t, "Lovelace", w.Authors[0].Family)
	assert.Equal(t, "a123", w.Authors[0].Identifiers["openalex"])
	assert.Equal(t, "0000-0002-1825-0097", w.Authors[0].Identifiers["orcid"])

	_, err = f.conn.PopulateCache(context.Background(), "a123")
	assert.Nil(t, err)
	assert.Equal(t, int32(2), f.requests(), "served from cache")

	recent, err := f.conn.RecentWorks(30)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(recent))

	ids, err := f.conn.FindIdentitiesByDOI("https://doi.org/10.1000/TWO")
	assert.Nil(t, err)
	assert.Equal(t, []string{"a123"}, ids)
}

func TestPopulateCachePartial(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		if "1" == r.URL.Query().Get("page") {
			_, _ = w.Write([]byte(page(4,
				record(1, "10.1000/one", "2025-03-10"),
				record(2, "10.1000/two", "2025-03-11"))))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	})
	defer f.teardown()

	works, err := f.conn.PopulateCache(context.Background(), "a123")
	assert.Nil(t, err, "partial results are accepted")
	assert.Equal(t, 2, len(works))

	cached, found, err := f.conn.CachedWorks("a123")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, len(cached))
}

func TestPopulateCacheFirstPageFails(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer f.teardown()

	_, err := f.conn.PopulateCache(context.Background(), "a123")
	assert.NotNil(t, err)

	_, found, err := f.conn.CachedWorks("a123")
	assert.Nil(t, err)
	assert.False(t, found)
}

func TestWorkByDOIAndReferences(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/works/") {
			assert.Equal(t, "/works/https://doi.org/10.1000/main", r.URL.Path)
			_, _ = w.Write([]byte(`{
  "id": "https://openalex.org/W100",
  "doi": "https://doi.org/10.1000/MAIN",
  "title": "Main",
  "publication_date": "2024-05-01",
  "referenced_works": ["https://openalex.org/W1", "https://openalex.org/W2"]
}`))
			return
		}
		assert.Equal(t, "openalex:w1|w2", r.URL.Query().Get("filter"))
		_, _ = w.Write([]byte(page(2,
			record(1, "10.1000/one", "2025-03-10"),
			record(2, "10.1000/two", "2025-03-11"))))
	})
	defer f.teardown()

	r, found, err := f.conn.WorkByDOI(context.Background(), "10.1000/Main")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, "Main", r.Title)

	refs, err := f.conn.References(context.Background(), "https://doi.org/10.1000/main")
	assert.Nil(t, err)
	assert.Equal(t, 2, len(refs))
	assert.Equal(t, int32(2), f.requests(), "work record reused")

	// every reference is now cached
	refs, err = f.conn.References(context.Background(), "10.1000/main")
	assert.Nil(t, err)
	assert.Equal(t, 2, len(refs))
	assert.Equal(t, int32(2), f.requests())

	// composite entries are not identities
	ids, err := f.conn.FindIdentitiesByDOI("10.1000/one")
	assert.Nil(t, err)
	assert.Equal(t, 0, len(ids))

	_, _, err = f.conn.WorkByDOI(context.Background(), "")
	assert.Equal(t, fault.ErrInvalidDOI, err)
}

func TestCites(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/works/") {
			_, _ = w.Write([]byte(`{"id": "https://openalex.org/W100", "doi": "https://doi.org/10.1000/main"}`))
			return
		}
		assert.Equal(t, "cites:w100", r.URL.Query().Get("filter"))
		_, _ = w.Write([]byte(page(1, record(5, "10.1000/citing", "2025-03-01"))))
	})
	defer f.teardown()

	works, err := f.conn.Cites(context.Background(), "10.1000/main")
	assert.Nil(t, err)
	assert.Equal(t, 1, len(works))
	assert.Equal(t, "10.1000/citing", works[0].DOI)

	works, err = f.conn.Cites(context.Background(), "10.1000/MAIN")
	assert.Nil(t, err)
	assert.Equal(t, 1, len(works))
	assert.Equal(t, int32(2), f.requests(), "served from cache")
}

func TestUnknownDOI(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer f.teardown()

	_, found, err := f.conn.WorkByDOI(context.Background(), "10.1000/missing")
	assert.Nil(t, err)
	assert.False(t, found)

	refs, err := f.conn.References(context.Background(), "10.1000/missing")
	assert.Nil(t, err)
	assert.Equal(t, 0, len(refs))
}
