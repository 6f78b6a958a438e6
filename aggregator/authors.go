// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aggregator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bitmark-inc/pubconnector/doi"
	"github.com/bitmark-inc/pubconnector/document"
	"github.com/bitmark-inc/pubconnector/fault"
)

// Authors - who, among the tracked identities, wrote a work
type Authors struct {
	DOI        string   `json:"doi"`
	Identities []string `json:"identities"`
	Colleagues []string `json:"colleagues"`
}

// AuthorsByDOI - union of the matching identities of every enabled
// source, and the colleagues carrying them
func (e *Engine) AuthorsByDOI(text string) (Authors, error) {
	d, err := doi.First(text)
	if nil != err {
		return Authors{}, err
	}

	identities := map[string]struct{}{}
	colleagues := map[string]struct{}{}

	for _, c := range e.enabled() {
		ids, err := c.FindIdentitiesByDOI(d)
		if nil != err {
			e.log.Errorf("%s: find identities error: %s", c.Name(), err)
			continue
		}
		if 0 == len(ids) {
			continue
		}
		for _, id := range ids {
			identities[id] = struct{}{}
		}

		titles, err := e.docs.Filter(colleagueFilter(c.IdentityField(), ids))
		if nil != err {
			e.log.Warnf("%s: colleague filter error: %s", c.Name(), err)
			continue
		}
		for _, t := range titles {
			colleagues[t] = struct{}{}
		}
	}

	return Authors{
		DOI:        doi.Normalise(d),
		Identities: sortedKeys(identities),
		Colleagues: sortedKeys(colleagues),
	}, nil
}

// AuthorsByEntity - AuthorsByDOI of the first DOI of a catalogued entity
func (e *Engine) AuthorsByEntity(title string) (Authors, error) {
	entity, err := e.docs.Get(title)
	if nil != err {
		return Authors{}, err
	}
	value := entity.Field(document.BibtexDOI)
	if "" == value {
		return Authors{}, fmt.Errorf("%s: %q: %w", document.BibtexDOI, title, fault.ErrInvalidDOI)
	}
	return e.AuthorsByDOI(value)
}

// colleagues whose identity field mentions any of the identities
func colleagueFilter(field string, ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = regexp.QuoteMeta(id)
	}
	return "[tag[" + document.ColleagueTag + "]search:" + field + ":regexp[(?i)" + strings.Join(quoted, "|") + "]]"
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
