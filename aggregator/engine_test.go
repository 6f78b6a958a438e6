// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aggregator_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/aggregator"
	"github.com/bitmark-inc/pubconnector/cache"
	"github.com/bitmark-inc/pubconnector/connector"
	"github.com/bitmark-inc/pubconnector/connector/mocks"
	"github.com/bitmark-inc/pubconnector/document"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/fixtures"
	"github.com/bitmark-inc/pubconnector/messagebus"
	"github.com/bitmark-inc/pubconnector/reading"
	"github.com/bitmark-inc/pubconnector/storage"
	"github.com/bitmark-inc/pubconnector/work"
)

func setup(t *testing.T) (*reading.ReadSet, *fixtures.Clock) {
	fixtures.SetupTestLogger()
	err := storage.InitialiseInMemory()
	assert.Nil(t, err, "storage initialise")

	clock := fixtures.NewClock()
	store := cache.New(storage.Pool.Reading, cache.NoExpiry)
	store.SetClock(clock.Now)
	return reading.New(store), clock
}

func teardown() {
	storage.Finalise()
	fixtures.TeardownTestLogger()
}

func newMock(ctrl *gomock.Controller, name string, platform string, field string, enabled bool) *mocks.MockConnector {
	m := mocks.NewMockConnector(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	m.EXPECT().Platform().Return(platform).AnyTimes()
	m.EXPECT().IdentityField().Return(field).AnyTimes()
	m.EXPECT().IsEnabled().Return(enabled).AnyTimes()
	return m
}

func expectPrepare(m *mocks.MockConnector) {
	m.EXPECT().Prepare().Return(nil).Times(1)
	m.EXPECT().ClearExpired().Return(0, nil).Times(1)
}

func TestRefreshAllIsPartialFailureTolerant(t *testing.T) {
	read, clock := setup(t)
	defer teardown()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := document.NewMemory()
	a := newMock(ctrl, "orcid", "ORCID", "orcid", true)
	b := newMock(ctrl, "openalex", "OpenAlex", "openalex", true)
	off := newMock(ctrl, "scholar", "Google Scholar", "google-scholar", false)

	expectPrepare(a)
	b.EXPECT().Prepare().Return(errors.New("prepare failed")).Times(1)
	b.EXPECT().ClearExpired().Return(0, errors.New("sweep failed")).Times(1)

	a.EXPECT().Targets(docs).Return([]connector.Target{
		{Entity: "Ada", Identity: "a1"},
		{Entity: "Bob", Identity: "a2"},
	}, nil)
	b.EXPECT().Targets(docs).Return([]connector.Target{
		{Entity: "Ada", Identity: "b1"},
		{Entity: "Cy", Identity: "b2"},
	}, nil)

	gomock.InOrder(
		a.EXPECT().PopulateCache(gomock.Any(), "a1").Return(nil, fault.ErrUpstreamStatus),
		b.EXPECT().PopulateCache(gomock.Any(), "b1").Return([]work.Work{}, nil),
		a.EXPECT().PopulateCache(gomock.Any(), "a2").Return([]work.Work{}, nil),
		b.EXPECT().PopulateCache(gomock.Any(), "b2").Return([]work.Work{}, nil),
	)

	e := aggregator.New([]connector.Connector{a, off, b}, docs, read)
	e.SetClock(clock.Now)

	assert.True(t, e.RefreshAll(context.Background()), "refresh ran")

	p := e.Progress()
	assert.False(t, p.Running, "finished")
	assert.Equal(t, 3, p.Total, "entities")
	assert.Equal(t, 3, p.Current, "all processed")
	assert.Equal(t, 1, p.Failures, "one failure")
	assert.Equal(t, fixtures.Now, p.Finished, "finish time")
}

func TestRefreshStopsSourceOnQuota(t *testing.T) {
	read, _ := setup(t)
	defer teardown()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := document.NewMemory()
	a := newMock(ctrl, "orcid", "ORCID", "orcid", true)
	expectPrepare(a)
	a.EXPECT().Targets(docs).Return([]connector.Target{
		{Entity: "Ada", Identity: "a1"},
		{Entity: "Bob", Identity: "a2"},
		{Entity: "Cy", Identity: "a3"},
	}, nil)
	a.EXPECT().PopulateCache(gomock.Any(), "a1").Return(nil, fault.ErrQuotaExceeded).Times(1)

	e := aggregator.New([]connector.Connector{a}, docs, read)
	assert.True(t, e.RefreshAll(context.Background()), "refresh ran")

	p := e.Progress()
	assert.Equal(t, 3, p.Current, "every entity visited")
	assert.Equal(t, 1, p.Failures, "only one request attempted")
}

func TestRefreshSingleFlight(t *testing.T) {
	read, _ := setup(t)
	defer teardown()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := document.NewMemory()
	a := newMock(ctrl, "orcid", "ORCID", "orcid", true)
	expectPrepare(a)
	a.EXPECT().Targets(docs).Return([]connector.Target{{Entity: "Ada", Identity: "a1"}}, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	a.EXPECT().PopulateCache(gomock.Any(), "a1").DoAndReturn(
		func(ctx context.Context, identity string) ([]work.Work, error) {
			close(started)
			<-release
			return []work.Work{}, nil
		}).Times(1)

	e := aggregator.New([]connector.Connector{a}, docs, read)

	assert.True(t, e.StartRefresh(context.Background()), "first start")
	<-started

	assert.True(t, e.Progress().Running, "running")
	assert.False(t, e.RefreshAll(context.Background()), "overlapping refresh refused")
	assert.False(t, e.StartRefresh(context.Background()), "overlapping start refused")

	close(release)
	e.Wait()

	p := e.Progress()
	assert.False(t, p.Running, "finished")
	assert.Equal(t, 1, p.Current, "one entity")
}

func TestRefreshAnnouncesProgress(t *testing.T) {
	read, _ := setup(t)
	defer teardown()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := messagebus.Bus.Broadcast.Chan(20)
	defer messagebus.Bus.Broadcast.Release(queue)

	docs := document.NewMemory()
	a := newMock(ctrl, "orcid", "ORCID", "orcid", true)
	expectPrepare(a)
	a.EXPECT().Targets(docs).Return([]connector.Target{{Entity: "Ada", Identity: "a1"}}, nil)
	a.EXPECT().PopulateCache(gomock.Any(), "a1").Return([]work.Work{}, nil)

	e := aggregator.New([]connector.Connector{a}, docs, read)
	assert.True(t, e.RefreshAll(context.Background()), "refresh ran")

	commands := []string{}
	var last aggregator.Progress
	for len(queue) > 0 {
		m := <-queue
		commands = append(commands, m.Command)
		assert.Nil(t, json.Unmarshal(m.Parameters[0], &last), "decode progress")
	}
	assert.Equal(t, []string{"progress", "progress", "refreshed"}, commands, "bus commands")
	assert.False(t, last.Running, "final state")
	assert.Equal(t, 1, last.Total, "total")
}

func TestRefreshCancelled(t *testing.T) {
	read, _ := setup(t)
	defer teardown()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := document.NewMemory()
	a := newMock(ctrl, "orcid", "ORCID", "orcid", true)
	expectPrepare(a)
	a.EXPECT().Targets(docs).Return([]connector.Target{{Entity: "Ada", Identity: "a1"}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := aggregator.New([]connector.Connector{a}, docs, read)
	assert.True(t, e.RefreshAll(ctx), "refresh ran")
	assert.Equal(t, 0, e.Progress().Current, "nothing processed")
	assert.False(t, e.Progress().Running, "not left running")
}
