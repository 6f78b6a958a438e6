// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package doi - extraction and normalisation of digital object identifiers
package doi

import (
	"regexp"
	"strings"

	"github.com/bitmark-inc/pubconnector/fault"
)

var (
	doiPattern    = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`)
	suffixPattern = regexp.MustCompile(`(?i)[/.]?(full\.pdf|pdf|full|abstract|meta)$`)
)

// resolver prefixes, longest first
var resolverPrefixes = []string{
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"https://doi.org/",
	"http://doi.org/",
	"doi:",
}

// Extract - find every DOI in free text
//
// trailing file or landing page suffixes are removed and duplicates
// (compared case-insensitively) dropped, first occurrence order is kept
func Extract(text string) []string {
	matches := doiPattern.FindAllString(text, -1)
	results := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		m = suffixPattern.ReplaceAllString(m, "")
		k := strings.ToLower(m)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		results = append(results, m)
	}
	return results
}

// First - the first DOI found in the text
func First(text string) (string, error) {
	dois := Extract(text)
	if 0 == len(dois) {
		return "", fault.ErrInvalidDOI
	}
	return dois[0], nil
}

// Clean - strip resolver prefixes and surrounding space, case is kept
func Clean(s string) string {
	s = strings.TrimSpace(s)
	for {
		stripped := false
		lower := strings.ToLower(s)
		for _, prefix := range resolverPrefixes {
			if strings.HasPrefix(lower, prefix) {
				s = strings.TrimSpace(s[len(prefix):])
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}

// Normalise - comparison form of a DOI
func Normalise(s string) string {
	return strings.ToLower(Clean(s))
}

// Equal - compare two DOIs in any supported form
func Equal(a string, b string) bool {
	na := Normalise(a)
	return "" != na && na == Normalise(b)
}
