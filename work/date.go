// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package work

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date - a calendar date, the zero value means unknown
type Date struct {
	time.Time
}

// NewDate - construct a date, UTC midnight
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf - the calendar date of an instant, in UTC
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate - accept "YYYY-MM-DD", "YYYY-MM" or "YYYY"
//
// missing month or day default to the first
func ParseDate(s string) (Date, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) > 3 || "" == parts[0] {
		return Date{}, false
	}
	n := [3]int{0, 1, 1}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if nil != err {
			return Date{}, false
		}
		n[i] = v
	}
	return DateFromParts(n[0], n[1], n[2])
}

// DateFromParts - validated construction from numeric parts
func DateFromParts(year int, month int, day int) (Date, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, false
	}
	d := NewDate(year, time.Month(month), day)
	if d.Day() != day {
		return Date{}, false
	}
	return d, true
}

// String - ISO date or empty
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON - ISO date or null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON - ISO date or null
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); nil != err {
		return err
	}
	if "" == s {
		*d = Date{}
		return nil
	}
	parsed, ok := ParseDate(s)
	if !ok {
		t, err := time.Parse(time.RFC3339, s)
		if nil != err {
			return err
		}
		parsed = DateOf(t)
	}
	*d = parsed
	return nil
}
