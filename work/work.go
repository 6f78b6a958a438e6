// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package work - the canonical publication record shared by all sources
package work

import (
	"time"

	"github.com/bitmark-inc/pubconnector/doi"
)

// Author - one contributor to a work
type Author struct {
	Given       string            `json:"given,omitempty"`
	Family      string            `json:"family,omitempty"`
	Identifiers map[string]string `json:"identifiers,omitempty"`
}

// Work - a publication record
//
// DOI is stored without resolver prefix, case preserved
type Work struct {
	DOI             string            `json:"doi,omitempty"`
	Title           string            `json:"title"`
	PublicationDate Date              `json:"publicationDate"`
	ContainerTitle  string            `json:"containerTitle,omitempty"`
	Platforms       []string          `json:"platform,omitempty"`
	Authors         []Author          `json:"authors,omitempty"`
	Identifiers     map[string]string `json:"identifiers,omitempty"`
}

// SetDOI - store a DOI in its cleaned form
func (w *Work) SetDOI(s string) {
	w.DOI = doi.Clean(s)
}

// Key - the comparison form of the DOI, empty when absent
func (w Work) Key() string {
	return doi.Normalise(w.DOI)
}

// HasDOI - true when the work carries a usable DOI
func (w Work) HasDOI() bool {
	return "" != w.Key()
}

// PublishedSince - true if the publication date is known and not before the cutoff date
func (w Work) PublishedSince(cutoff time.Time) bool {
	if w.PublicationDate.IsZero() {
		return false
	}
	return !w.PublicationDate.Before(DateOf(cutoff).Time)
}

// AddPlatform - add a platform label, ignoring duplicates
func (w *Work) AddPlatform(platforms ...string) {
next:
	for _, p := range platforms {
		if "" == p {
			continue next
		}
		for _, existing := range w.Platforms {
			if existing == p {
				continue next
			}
		}
		w.Platforms = append(w.Platforms, p)
	}
}

// HasPlatform - check for a platform label
func (w Work) HasPlatform(platform string) bool {
	for _, p := range w.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Clone - copy with independent platform slice
func (w Work) Clone() Work {
	c := w
	c.Platforms = append([]string(nil), w.Platforms...)
	return c
}

// ContainsDOI - true if any work in the list has the given DOI
func ContainsDOI(works []Work, d string) bool {
	key := doi.Normalise(d)
	if "" == key {
		return false
	}
	for _, w := range works {
		if w.Key() == key {
			return true
		}
	}
	return false
}

// SplitName - split a display name into given and family parts
//
// the family name is the last space separated word
func SplitName(name string) Author {
	words := splitWords(name)
	switch len(words) {
	case 0:
		return Author{}
	case 1:
		return Author{Family: words[0]}
	}
	last := len(words) - 1
	given := words[0]
	for _, w := range words[1:last] {
		given += " " + w
	}
	return Author{Given: given, Family: words[last]}
}

func splitWords(s string) []string {
	words := []string{}
	start := -1
	for i, r := range s {
		if ' ' == r || '\t' == r {
			if start >= 0 {
				words = append(words, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}
