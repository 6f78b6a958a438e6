// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package crossref - DOI resolution from bibliographic metadata
package crossref

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/doi"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/fetch"
	"github.com/bitmark-inc/pubconnector/work"
)

// fixed settings
const (
	Name              = "crossref"
	DefaultHost       = "https://api.crossref.org"
	DefaultRows       = 5
	DefaultSimilarity = 0.8
)

// Configuration - source specific settings
type Configuration struct {
	Host       string
	Rows       int
	Similarity float64 // minimum accepted title similarity
}

// Match - the best candidate for a title search
type Match struct {
	DOI        string  `json:"doi"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

// Client - Crossref lookups through a rate limited fetch client
type Client struct {
	client     *fetch.Client
	host       string
	rows       int
	similarity float64
	log        *logger.L
}

type author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	ORCID  string `json:"ORCID"`
}

type dateParts struct {
	DateParts [][]int `json:"date-parts"`
}

type item struct {
	DOI             string     `json:"DOI"`
	Title           []string   `json:"title"`
	ContainerTitle  []string   `json:"container-title"`
	Author          []author   `json:"author"`
	Published       *dateParts `json:"published"`
	PublishedPrint  *dateParts `json:"published-print"`
	PublishedOnline *dateParts `json:"published-online"`
	Issued          *dateParts `json:"issued"`
}

type searchReply struct {
	Message struct {
		Items []item `json:"items"`
	} `json:"message"`
}

type workReply struct {
	Message item `json:"message"`
}

// New - create a client
func New(conf Configuration, client *fetch.Client) *Client {
	host := strings.TrimRight(conf.Host, "/")
	if "" == host {
		host = DefaultHost
	}
	rows := conf.Rows
	if rows <= 0 {
		rows = DefaultRows
	}
	similarity := conf.Similarity
	if similarity <= 0 || similarity > 1 {
		similarity = DefaultSimilarity
	}
	return &Client{
		client:     client,
		host:       host,
		rows:       rows,
		similarity: similarity,
		log:        logger.New(Name),
	}
}

// FindDOI - search by title, author and publisher strings
//
// found is false when no candidate reaches the similarity threshold
func (c *Client) FindDOI(ctx context.Context, title string, authors string, publisher string) (Match, bool, error) {
	title = strings.TrimSpace(title)
	if "" == title {
		return Match{}, false, fault.ErrMissingTitle
	}

	query := url.Values{}
	query.Set("query.bibliographic", strings.TrimSpace(title+" "+publisher))
	if a := strings.TrimSpace(authors); "" != a {
		query.Set("query.author", a)
	}
	query.Set("rows", fmt.Sprint(c.rows))

	var reply searchReply
	found, err := c.client.GetJSON(ctx, c.host+"/works?"+query.Encode(), &reply)
	if nil != err || !found {
		return Match{}, false, err
	}

	best := Match{}
	for _, it := range reply.Message.Items {
		if 0 == len(it.Title) || "" == it.DOI {
			continue
		}
		s := Similarity(title, it.Title[0])
		if s > best.Similarity {
			best = Match{DOI: doi.Clean(it.DOI), Title: it.Title[0], Similarity: s}
		}
	}
	if best.Similarity < c.similarity {
		c.log.Debugf("no match for: %q  best: %.2f", title, best.Similarity)
		return best, false, nil
	}
	return best, true, nil
}

// WorkByDOI - metadata of a single DOI
func (c *Client) WorkByDOI(ctx context.Context, d string) (work.Work, bool, error) {
	d = doi.Clean(d)
	if "" == d {
		return work.Work{}, false, fault.ErrInvalidDOI
	}

	var reply workReply
	found, err := c.client.GetJSON(ctx, c.host+"/works/"+url.PathEscape(d), &reply)
	if nil != err || !found {
		return work.Work{}, false, err
	}
	return reply.Message.work(), true, nil
}

func (it item) work() work.Work {
	w := work.Work{}
	w.SetDOI(it.DOI)
	if len(it.Title) > 0 {
		w.Title = it.Title[0]
	}
	if len(it.ContainerTitle) > 0 {
		w.ContainerTitle = it.ContainerTitle[0]
	}
	for _, a := range it.Author {
		author := work.Author{Given: a.Given, Family: a.Family}
		if "" != a.ORCID {
			author.Identifiers = map[string]string{
				"orcid": strings.TrimPrefix(strings.TrimPrefix(a.ORCID, "https://orcid.org/"), "http://orcid.org/"),
			}
		}
		w.Authors = append(w.Authors, author)
	}
	for _, p := range []*dateParts{it.Published, it.PublishedPrint, it.PublishedOnline, it.Issued} {
		if d, ok := p.date(); ok {
			w.PublicationDate = d
			break
		}
	}
	return w
}

func (p *dateParts) date() (work.Date, bool) {
	if nil == p || 0 == len(p.DateParts) || 0 == len(p.DateParts[0]) {
		return work.Date{}, false
	}
	n := [3]int{0, 1, 1}
	copy(n[:], p.DateParts[0])
	return work.DateFromParts(n[0], n[1], n[2])
}
