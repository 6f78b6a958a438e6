// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/background"
	"github.com/bitmark-inc/pubconnector/counter"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/quota"
)

// defaults
const (
	DefaultInterval   = 100 * time.Millisecond
	DefaultMaxRetries = 3
	DefaultBackoff    = time.Second
	DefaultTimeout    = 30 * time.Second

	queueSize = 100
)

// Configuration - per source settings
type Configuration struct {
	Source     string        // name charged in the quota tracker
	Interval   time.Duration // minimum time between two requests
	MaxRetries int           // retries after an HTTP 429
	Backoff    time.Duration // first retry delay, doubled each retry
	UserAgent  string
	DailyLimit func() int // current daily limit, nil or <= 0 is unlimited
}

// Client - serialised requests to one source
type Client struct {
	conf       Configuration
	http       *http.Client
	limiter    *rate.Limiter
	quota      *quota.Tracker
	tasks      chan *task
	done       chan struct{}
	closeOnce  sync.Once
	background *background.T
	attempts   counter.Counter
	log        *logger.L
}

type task struct {
	ctx    context.Context
	url    string
	header http.Header
	reply  chan response
}

type response struct {
	body  []byte
	found bool
	err   error
}

// New - create a client and start its worker
//
// tracker may be nil to disable quota accounting
func New(conf Configuration, tracker *quota.Tracker, httpClient *http.Client) *Client {
	if conf.Interval <= 0 {
		conf.Interval = DefaultInterval
	}
	if conf.MaxRetries < 0 {
		conf.MaxRetries = 0
	}
	if conf.Backoff <= 0 {
		conf.Backoff = DefaultBackoff
	}
	if nil == httpClient {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	c := &Client{
		conf:    conf,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Every(conf.Interval), 1),
		quota:   tracker,
		tasks:   make(chan *task, queueSize),
		done:    make(chan struct{}),
		log:     logger.New("fetch"),
	}
	c.background = background.Start(background.Processes{c}, nil)
	return c
}

// Close - stop the worker, queued requests fail with fault.ErrQueueClosed
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.background.Stop()
	})
}

// Source - name of the source
func (c *Client) Source() string {
	return c.conf.Source
}

// Attempts - number of HTTP requests actually sent
func (c *Client) Attempts() uint64 {
	return c.attempts.Uint64()
}

// Get - queue a GET request and wait for its result
//
// found is false for HTTP 404
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, bool, error) {
	t := &task{
		ctx:    ctx,
		url:    url,
		header: header,
		reply:  make(chan response, 1),
	}

	select {
	case <-c.done:
		return nil, false, fault.ErrQueueClosed
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case c.tasks <- t:
	}

	select {
	case <-c.done:
		return nil, false, fault.ErrQueueClosed
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-t.reply:
		return r.body, r.found, r.err
	}
}

// GetJSON - queue a GET request and decode the JSON response
func (c *Client) GetJSON(ctx context.Context, url string, result interface{}) (bool, error) {
	header := http.Header{}
	header.Set("Accept", "application/json")

	body, found, err := c.Get(ctx, url, header)
	if nil != err || !found {
		return found, err
	}
	if err := json.Unmarshal(body, result); nil != err {
		c.log.Errorf("%s: %s: decode error: %s", c.conf.Source, url, err)
		return false, fmt.Errorf("%s: %w", c.conf.Source, fault.ErrJSONParseFail)
	}
	return true, nil
}

// Run - the single worker, processes one task at a time in arrival order
func (c *Client) Run(args interface{}, shutdown <-chan struct{}) {
	c.log.Debugf("%s: worker starting…", c.conf.Source)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case t := <-c.tasks:
			if nil != t.ctx.Err() {
				t.reply <- response{err: t.ctx.Err()}
				continue loop
			}
			body, found, err := c.execute(t)
			t.reply <- response{body: body, found: found, err: err}
		}
	}
	c.log.Debugf("%s: worker stopped", c.conf.Source)
}

func (c *Client) execute(t *task) ([]byte, bool, error) {
	for attempt := 0; ; attempt += 1 {
		if err := limit(t.ctx, c.limiter); nil != err {
			return nil, false, err
		}

		if nil != c.quota {
			dailyLimit := 0
			if nil != c.conf.DailyLimit {
				dailyLimit = c.conf.DailyLimit()
			}
			if _, err := c.quota.Increment(c.conf.Source, dailyLimit); nil != err {
				return nil, false, err
			}
		}

		c.attempts.Increment()
		status, body, err := c.do(t)
		if nil != err {
			return nil, false, err
		}

		switch {
		case status >= 200 && status < 300:
			return body, true, nil

		case http.StatusNotFound == status:
			c.log.Debugf("%s: not found: %s", c.conf.Source, t.url)
			return nil, false, nil

		case http.StatusTooManyRequests == status:
			if attempt >= c.conf.MaxRetries {
				c.log.Errorf("%s: rate limited after %d attempts: %s", c.conf.Source, attempt+1, t.url)
				return nil, false, newStatusError(status, body)
			}
			delay := c.conf.Backoff * time.Duration(1<<uint(attempt))
			c.log.Warnf("%s: rate limited, retry %d in %s", c.conf.Source, attempt+1, delay)
			if err := sleep(t.ctx, delay); nil != err {
				return nil, false, err
			}

		default:
			c.log.Errorf("%s: %s: status: %d", c.conf.Source, t.url, status)
			return nil, false, newStatusError(status, body)
		}
	}
}

func (c *Client) do(t *task) (int, []byte, error) {
	request, err := http.NewRequest(http.MethodGet, t.url, nil)
	if nil != err {
		return 0, nil, err
	}
	request = request.WithContext(t.ctx)
	for k, values := range t.header {
		for _, v := range values {
			request.Header.Add(k, v)
		}
	}
	if "" != c.conf.UserAgent {
		request.Header.Set("User-Agent", c.conf.UserAgent)
	}

	c.log.Tracef("%s: GET %s", c.conf.Source, t.url)

	resp, err := c.http.Do(request)
	if nil != err {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if nil != err {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
