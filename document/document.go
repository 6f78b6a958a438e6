// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package document - access to the host's entity records
//
// entities are titled records with tags and string fields, queried by
// a small filter expression language:
//
//   [tag[Colleague]!has[draft.of]]
//   [tag[bibtex-entry]has[bibtex-doi]get[bibtex-doi]]
//   [tag[Colleague]search:orcid:regexp[0000-0002-1825-0097|0000-0001-5109-3700]]
//
// operators: tag, !tag, has, !has, field:<name>, search:<field>[:regexp], get
package document

import (
	"strings"
)

// well known names
const (
	TitleField   = "title"
	ColleagueTag = "Colleague"
	DraftField   = "draft.of"
	BibtexTag    = "bibtex-entry"
	BibtexDOI    = "bibtex-doi"
)

// Entity - one record of the host store
type Entity struct {
	Title  string            `json:"title"`
	Tags   []string          `json:"tags,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Store - what the engine needs from the host
type Store interface {
	// Filter - evaluate an expression, returning titles or, for a
	// trailing get[] operator, field values
	Filter(expression string) ([]string, error)

	// Get - fetch an entity by title
	Get(title string) (*Entity, error)
}

// HasTag - check for a tag
func (e *Entity) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Field - value of a field, the title is a field too
func (e *Entity) Field(name string) string {
	if TitleField == name {
		return e.Title
	}
	return e.Fields[name]
}

// HasField - true for a non-empty field
func (e *Entity) HasField(name string) bool {
	return "" != e.Field(name)
}

// ParseStringArray - split a list field: space separated tokens,
// with [[double brackets]] around tokens containing spaces
//
// duplicates are removed, first occurrence order is kept
func ParseStringArray(s string) []string {
	results := []string{}
	seen := map[string]struct{}{}
	add := func(token string) {
		if "" == token {
			return
		}
		if _, ok := seen[token]; ok {
			return
		}
		seen[token] = struct{}{}
		results = append(results, token)
	}

	for len(s) > 0 {
		s = strings.TrimLeft(s, " \t\r\n")
		if "" == s {
			break
		}
		if strings.HasPrefix(s, "[[") {
			end := strings.Index(s[2:], "]]")
			if end >= 0 {
				add(s[2 : 2+end])
				s = s[2+end+2:]
				continue
			}
		}
		end := strings.IndexAny(s, " \t\r\n")
		if end < 0 {
			add(s)
			break
		}
		add(s[:end])
		s = s[end:]
	}
	return results
}
