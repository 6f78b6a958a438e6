// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package openalex

import (
	"encoding/json"
	"strings"

	"github.com/bitmark-inc/pubconnector/work"
)

// Author - an authorship entry
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ORCID       string `json:"orcid,omitempty"`
}

// Record - the subset of an OpenAlex work that is kept
type Record struct {
	ID              string `json:"id"`
	DOI             string `json:"doi"`
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	PublicationDate string `json:"publication_date"`
	PrimaryLocation *struct {
		Source *struct {
			DisplayName string `json:"display_name"`
		} `json:"source"`
	} `json:"primary_location"`
	Authorships []struct {
		AuthorPosition string `json:"author_position"`
		Author         Author `json:"author"`
	} `json:"authorships"`
	ReferencedWorks []string `json:"referenced_works,omitempty"`
}

type listReply struct {
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
	Results []json.RawMessage `json:"results"`
}

func (r Record) work() work.Work {
	w := work.Work{
		Title: r.Title,
	}
	w.SetDOI(r.DOI)
	if d, ok := work.ParseDate(r.PublicationDate); ok {
		w.PublicationDate = d
	}
	if nil != r.PrimaryLocation && nil != r.PrimaryLocation.Source {
		w.ContainerTitle = r.PrimaryLocation.Source.DisplayName
	}
	if id := shortID(r.ID); "" != id {
		w.Identifiers = map[string]string{"openalex": id}
	}

	for _, a := range r.Authorships {
		author := work.SplitName(a.Author.DisplayName)
		ids := map[string]string{}
		if id := shortID(a.Author.ID); "" != id {
			ids["openalex"] = id
		}
		if "" != a.Author.ORCID {
			ids["orcid"] = strings.TrimPrefix(strings.TrimPrefix(a.Author.ORCID, "https://orcid.org/"), "http://orcid.org/")
		}
		if len(ids) > 0 {
			author.Identifiers = ids
		}
		w.Authors = append(w.Authors, author)
	}
	return w
}
