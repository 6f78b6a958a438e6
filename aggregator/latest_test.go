// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aggregator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/aggregator"
	"github.com/bitmark-inc/pubconnector/connector"
	"github.com/bitmark-inc/pubconnector/document"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/work"
)

func recent(d string, day int, platform string) work.Work {
	w := work.Work{
		Title:           "work " + d,
		PublicationDate: work.NewDate(2025, time.March, day),
		Platforms:       []string{platform},
	}
	w.SetDOI(d)
	return w
}

func TestLatestUnreadMergesAndFilters(t *testing.T) {
	read, _ := setup(t)
	defer teardown()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := read.MarkAsRead("10.1000/read")
	assert.Nil(t, err, "mark as read")

	docs := document.NewMemory(
		&document.Entity{
			Title:  "Catalogued paper",
			Tags:   []string{document.BibtexTag},
			Fields: map[string]string{document.BibtexDOI: "https://doi.org/10.1000/Catalogued"},
		},
		&document.Entity{
			Title:  "Draft paper",
			Tags:   []string{document.BibtexTag},
			Fields: map[string]string{document.BibtexDOI: "10.1000/draft", document.DraftField: "x"},
		},
	)

	a := newMock(ctrl, "orcid", "ORCID", "orcid", true)
	b := newMock(ctrl, "openalex", "OpenAlex", "openalex", true)

	a.EXPECT().RecentWorks(30).Return([]work.Work{
		recent("10.1000/xyz123", 10, "ORCID"),
		recent("10.1000/read", 12, "ORCID"),
		recent("10.1000/old", 1, "ORCID"),
	}, nil)
	b.EXPECT().RecentWorks(30).Return([]work.Work{
		recent("https://doi.org/10.1000/XYZ123", 10, "OpenAlex"),
		recent("10.1000/catalogued", 13, "OpenAlex"),
		recent("10.1000/draft", 14, "OpenAlex"),
	}, nil)

	e := aggregator.New([]connector.Connector{a, b}, docs, read)
	works, err := e.LatestUnread(30)
	assert.Nil(t, err, "latest")

	keys := []string{}
	for _, w := range works {
		keys = append(keys, w.Key())
	}
	assert.Equal(t, []string{"10.1000/draft", "10.1000/xyz123", "10.1000/old"}, keys, "newest first, read and catalogued removed")
	assert.Equal(t, []string{"ORCID", "OpenAlex"}, works[1].Platforms, "platform union")
	assert.Equal(t, "10.1000/xyz123", works[1].DOI, "first occurrence kept")
}

func TestLatestUnreadToleratesFailingSource(t *testing.T) {
	read, _ := setup(t)
	defer teardown()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := newMock(ctrl, "orcid", "ORCID", "orcid", true)
	b := newMock(ctrl, "openalex", "OpenAlex", "openalex", true)
	off := newMock(ctrl, "scholar", "Google Scholar", "google-scholar", false)

	a.EXPECT().RecentWorks(7).Return(nil, fault.ErrCacheEntryCorrupt)
	b.EXPECT().RecentWorks(7).Return([]work.Work{recent("10.1000/one", 14, "OpenAlex")}, nil)

	e := aggregator.New([]connector.Connector{a, off, b}, document.NewMemory(), read)
	works, err := e.LatestUnread(7)
	assert.Nil(t, err, "best effort")
	assert.Equal(t, 1, len(works), "results of the working source")
}

func TestLatestUnreadInvalidDays(t *testing.T) {
	read, _ := setup(t)
	defer teardown()

	e := aggregator.New(nil, document.NewMemory(), read)
	_, err := e.LatestUnread(0)
	assert.Equal(t, fault.ErrInvalidDays, err, "zero days")
}

func TestSortNewestFirst(t *testing.T) {
	undated := work.Work{Title: "undated"}
	works := []work.Work{
		undated,
		recent("10.1000/a", 5, "ORCID"),
		recent("10.1000/b", 9, "ORCID"),
		recent("10.1000/c", 5, "ORCID"),
	}
	aggregator.SortNewestFirst(works)

	titles := []string{}
	for _, w := range works {
		titles = append(titles, w.Title)
	}
	assert.Equal(t, []string{"work 10.1000/b", "work 10.1000/a", "work 10.1000/c", "undated"}, titles, "stable, undated last")
}

func TestAuthorsByDOI(t *testing.T) {
	read, _ := setup(t)
	defer teardown()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := document.NewMemory(
		&document.Entity{
			Title:  "Ada",
			Tags:   []string{document.ColleagueTag},
			Fields: map[string]string{"orcid": "https://orcid.org/0000-0002-1825-0097"},
		},
		&document.Entity{
			Title:  "Bob",
			Tags:   []string{document.ColleagueTag},
			Fields: map[string]string{"openalex": "A5023888391"},
		},
		&document.Entity{
			Title:  "Not a colleague",
			Fields: map[string]string{"orcid": "0000-0002-1825-0097"},
		},
		&document.Entity{
			Title:  "Paper",
			Tags:   []string{document.BibtexTag},
			Fields: map[string]string{document.BibtexDOI: "doi:10.1000/xyz123"},
		},
	)

	a := newMock(ctrl, "orcid", "ORCID", "orcid", true)
	b := newMock(ctrl, "openalex", "OpenAlex", "openalex", true)
	c := newMock(ctrl, "scholar", "Google Scholar", "google-scholar", true)

	a.EXPECT().FindIdentitiesByDOI("10.1000/xyz123").Return([]string{"0000-0002-1825-0097"}, nil).Times(2)
	b.EXPECT().FindIdentitiesByDOI("10.1000/xyz123").Return([]string{"a5023888391", "a1"}, nil).Times(2)
	c.EXPECT().FindIdentitiesByDOI("10.1000/xyz123").Return(nil, errors.New("broken")).Times(2)

	e := aggregator.New([]connector.Connector{a, b, c}, docs, read)

	authors, err := e.AuthorsByDOI("https://doi.org/10.1000/xyz123")
	assert.Nil(t, err, "authors")
	assert.Equal(t, "10.1000/xyz123", authors.DOI, "doi")
	assert.Equal(t, []string{"0000-0002-1825-0097", "a1", "a5023888391"}, authors.Identities, "union")
	assert.Equal(t, []string{"Ada", "Bob"}, authors.Colleagues, "colleagues")

	byEntity, err := e.AuthorsByEntity("Paper")
	assert.Nil(t, err, "by entity")
	assert.Equal(t, authors, byEntity, "same as by DOI")

	_, err = e.AuthorsByEntity("Ada")
	assert.True(t, fault.IsErrInvalid(err), "entity without DOI")

	_, err = e.AuthorsByEntity("Missing")
	assert.Equal(t, fault.ErrEntityNotFound, err, "unknown entity")

	_, err = e.AuthorsByDOI("no doi here")
	assert.Equal(t, fault.ErrInvalidDOI, err, "invalid DOI")
}
