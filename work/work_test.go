// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package work_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/work"
)

func TestSetDOIStripsPrefix(t *testing.T) {
	w := work.Work{}
	w.SetDOI("https://doi.org/10.1000/XYZ123")
	assert.Equal(t, "10.1000/XYZ123", w.DOI, "display form")
	assert.Equal(t, "10.1000/xyz123", w.Key(), "comparison form")
	assert.True(t, w.HasDOI())

	assert.False(t, work.Work{}.HasDOI())
}

func TestAddPlatform(t *testing.T) {
	w := work.Work{}
	w.AddPlatform("ORCID", "OpenAlex", "ORCID", "")
	assert.Equal(t, []string{"ORCID", "OpenAlex"}, w.Platforms)
	assert.True(t, w.HasPlatform("OpenAlex"))

	c := w.Clone()
	c.AddPlatform("Google Scholar")
	assert.Equal(t, 2, len(w.Platforms), "clone is independent")
}

func TestPublishedSince(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	w := work.Work{PublicationDate: work.NewDate(2025, time.March, 5)}

	assert.True(t, w.PublishedSince(now.AddDate(0, 0, -30)), "30 days")
	assert.False(t, w.PublishedSince(now.AddDate(0, 0, -5)), "5 days")
	assert.True(t, w.PublishedSince(now.AddDate(0, 0, -10)), "same day")
	assert.False(t, work.Work{}.PublishedSince(now.AddDate(0, 0, -30)), "no date")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		ok       bool
	}{
		{"2024-05-17", "2024-05-17", true},
		{"2024-05", "2024-05-01", true},
		{"2024", "2024-01-01", true},
		{"2024-02-30", "", false},
		{"2024-13-01", "", false},
		{"", "", false},
		{"soon", "", false},
	}

	for i, item := range tests {
		d, ok := work.ParseDate(item.in)
		assert.Equal(t, item.ok, ok, "%d: ok", i)
		assert.Equal(t, item.expected, d.String(), "%d: date", i)
	}
}

func TestDateJSON(t *testing.T) {
	w := work.Work{Title: "t", PublicationDate: work.NewDate(2024, time.June, 1)}
	b, err := json.Marshal(w)
	assert.Nil(t, err)
	assert.Contains(t, string(b), `"publicationDate":"2024-06-01"`)

	b, err = json.Marshal(work.Work{Title: "t"})
	assert.Nil(t, err)
	assert.Contains(t, string(b), `"publicationDate":null`)

	var decoded work.Work
	err = json.Unmarshal([]byte(`{"title":"x","publicationDate":"2023-11-02"}`), &decoded)
	assert.Nil(t, err)
	assert.Equal(t, work.NewDate(2023, time.November, 2), decoded.PublicationDate)

	err = json.Unmarshal([]byte(`{"title":"x","publicationDate":null}`), &decoded)
	assert.Nil(t, err)
	assert.True(t, decoded.PublicationDate.IsZero())
}

func TestSplitName(t *testing.T) {
	assert.Equal(t, work.Author{Given: "Ada", Family: "Lovelace"}, work.SplitName("Ada Lovelace"))
	assert.Equal(t, work.Author{Given: "Jean Paul", Family: "Sartre"}, work.SplitName("  Jean  Paul Sartre "))
	assert.Equal(t, work.Author{Family: "Plato"}, work.SplitName("Plato"))
	assert.Equal(t, work.Author{}, work.SplitName(""))
}

func TestContainsDOI(t *testing.T) {
	works := []work.Work{{DOI: "10.1/AAAA"}, {Title: "none"}}
	assert.True(t, work.ContainsDOI(works, "https://doi.org/10.1/aaaa"))
	assert.False(t, work.ContainsDOI(works, "10.1/bbbb"))
	assert.False(t, work.ContainsDOI(works, ""))
}
