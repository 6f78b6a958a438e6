// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crossref

import (
	"strings"
	"unicode"
)

// Similarity - Dice coefficient of the character bigrams of two
// normalised titles, in the range 0..1
//
// a title truncated with an ellipsis is compared against the same
// length prefix of the other
func Similarity(a string, b string) float64 {
	a, truncated := normaliseTitle(a)
	b, _ = normaliseTitle(b)
	if ra, rb := []rune(a), []rune(b); truncated && len(rb) > len(ra) {
		b = strings.TrimSpace(string(rb[:len(ra)]))
	}
	if a == b {
		if "" == a {
			return 0
		}
		return 1
	}

	x := bigrams(a)
	y := bigrams(b)
	if 0 == len(x) || 0 == len(y) {
		return 0
	}

	total := 0
	for _, n := range x {
		total += n
	}
	for _, n := range y {
		total += n
	}

	common := 0
	for k, n := range x {
		m := y[k]
		if m < n {
			n = m
		}
		common += n
	}
	return 2 * float64(common) / float64(total)
}

// lower case letters and digits separated by single spaces
func normaliseTitle(s string) (string, bool) {
	s = strings.TrimSpace(s)
	truncated := false
	for _, suffix := range []string{"…", "..."} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			truncated = true
		}
	}

	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, " "), truncated
}

func bigrams(s string) map[string]int {
	r := []rune(s)
	m := make(map[string]int)
	for i := 0; i+1 < len(r); i += 1 {
		m[string(r[i:i+2])] += 1
	}
	return m
}
