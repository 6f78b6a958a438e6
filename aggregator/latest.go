// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aggregator

import (
	"sort"

	"github.com/bitmark-inc/pubconnector/doi"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/work"
)

// CataloguedFilter - DOIs of works already in the local catalogue
const CataloguedFilter = "[tag[bibtex-entry]!has[draft.of]has[bibtex-doi]get[bibtex-doi]]"

// LatestUnread - recent works of every enabled source that are neither
// marked as read nor catalogued, merged by DOI, newest first
//
// a failing source is logged and left out
func (e *Engine) LatestUnread(days int) ([]work.Work, error) {
	if days <= 0 {
		return nil, fault.ErrInvalidDays
	}

	seen, err := e.alreadyRead()
	if nil != err {
		return nil, err
	}

	merged := []work.Work{}
	index := map[string]int{}

	for _, c := range e.enabled() {
		works, err := c.RecentWorks(days)
		if nil != err {
			e.log.Errorf("%s: recent works error: %s", c.Name(), err)
			continue
		}
		for _, w := range works {
			key := w.Key()
			if "" == key {
				merged = append(merged, w.Clone())
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			if i, ok := index[key]; ok {
				merged[i].AddPlatform(w.Platforms...)
				continue
			}
			index[key] = len(merged)
			merged = append(merged, w.Clone())
		}
	}

	SortNewestFirst(merged)
	return merged, nil
}

// SortNewestFirst - descending publication date, undated last, ties
// keep their order
func SortNewestFirst(works []work.Work) {
	sort.SliceStable(works, func(i, j int) bool {
		a := works[i].PublicationDate
		b := works[j].PublicationDate
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		}
		return a.After(b.Time)
	})
}

// read marks together with catalogued DOIs, normalised
func (e *Engine) alreadyRead() (map[string]struct{}, error) {
	seen := map[string]struct{}{}

	marked, err := e.read.ReadDOIs()
	if nil != err {
		return nil, err
	}
	for _, d := range marked {
		seen[doi.Normalise(d)] = struct{}{}
	}

	values, err := e.docs.Filter(CataloguedFilter)
	if nil != err {
		e.log.Warnf("catalogue filter error: %s", err)
		return seen, nil
	}
	for _, v := range values {
		for _, d := range doi.Extract(v) {
			seen[doi.Normalise(d)] = struct{}{}
		}
	}
	return seen, nil
}
