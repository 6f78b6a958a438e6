// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package document

import (
	"regexp"
	"strings"

	"github.com/bitmark-inc/pubconnector/fault"
)

type step struct {
	negate  bool
	op      string
	suffix  []string
	param   string
	pattern *regexp.Regexp
}

// Filter - a compiled expression
type Filter struct {
	steps []step
	get   string
}

// Compile - parse a filter expression
func Compile(expression string) (*Filter, error) {
	s := strings.TrimSpace(expression)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") || len(s) < 2 {
		return nil, fault.ErrInvalidFilter
	}
	s = s[1 : len(s)-1]

	f := &Filter{}
	for len(s) > 0 {
		open := strings.IndexByte(s, '[')
		if open <= 0 {
			return nil, fault.ErrInvalidFilter
		}
		end := strings.IndexByte(s[open:], ']')
		if end < 0 {
			return nil, fault.ErrInvalidFilter
		}
		operator := s[:open]
		param := s[open+1 : open+end]
		s = s[open+end+1:]

		st := step{param: param}
		if strings.HasPrefix(operator, "!") {
			st.negate = true
			operator = operator[1:]
		}
		parts := strings.Split(operator, ":")
		st.op = parts[0]
		st.suffix = parts[1:]

		if "" != f.get {
			return nil, fault.ErrInvalidFilter // get must be last
		}

		switch st.op {
		case "tag", "has":
		case "field":
			if 1 != len(st.suffix) {
				return nil, fault.ErrInvalidFilter
			}
		case "search":
			if len(st.suffix) < 1 || len(st.suffix) > 2 {
				return nil, fault.ErrInvalidFilter
			}
			if 2 == len(st.suffix) {
				if "regexp" != st.suffix[1] {
					return nil, fault.ErrInvalidFilter
				}
				re, err := regexp.Compile(param)
				if nil != err {
					return nil, fault.ErrInvalidFilter
				}
				st.pattern = re
			}
		case "get":
			if st.negate {
				return nil, fault.ErrInvalidFilter
			}
			f.get = param
			continue
		default:
			return nil, fault.ErrInvalidFilter
		}
		f.steps = append(f.steps, st)
	}
	return f, nil
}

// Match - test one entity against all steps
func (f *Filter) Match(e *Entity) bool {
	for _, st := range f.steps {
		if st.match(e) == st.negate {
			return false
		}
	}
	return true
}

// Apply - titles of matching entities or, with get[], their field values
//
// entities are processed in the order given
func (f *Filter) Apply(entities []*Entity) []string {
	results := []string{}
	for _, e := range entities {
		if !f.Match(e) {
			continue
		}
		if "" == f.get {
			results = append(results, e.Title)
		} else if v := e.Field(f.get); "" != v {
			results = append(results, v)
		}
	}
	return results
}

func (st step) match(e *Entity) bool {
	switch st.op {
	case "tag":
		return e.HasTag(st.param)
	case "has":
		return e.HasField(st.param)
	case "field":
		return e.Field(st.suffix[0]) == st.param
	case "search":
		value := e.Field(st.suffix[0])
		if nil != st.pattern {
			return st.pattern.MatchString(value)
		}
		return strings.Contains(strings.ToLower(value), strings.ToLower(st.param))
	}
	return false
}
