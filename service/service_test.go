// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pubconnector/configuration"
	"github.com/bitmark-inc/pubconnector/document"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/fixtures"
	"github.com/bitmark-inc/pubconnector/flags"
	"github.com/bitmark-inc/pubconnector/service"
	"github.com/bitmark-inc/pubconnector/storage"
)

func testConfiguration() *configuration.Configuration {
	return &configuration.Configuration{
		Cache: configuration.CacheType{
			TTL: "24h",
		},
		Sources: configuration.SourcesType{
			OpenAlex: configuration.SourceType{
				PageDelay: "10ms",
			},
		},
	}
}

func TestNotInitialised(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	_, err := service.New(testConfiguration(), flags.New(nil), document.NewMemory())
	assert.Equal(t, fault.ErrNotInitialised, err, "storage required")
}

func TestNew(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()
	assert.Nil(t, storage.InitialiseInMemory(), "storage initialise")
	defer storage.Finalise()

	f := flags.New(map[string]string{
		"orcid.daily_limit": "7",
	})
	s, err := service.New(testConfiguration(), f, document.NewMemory())
	if !assert.Nil(t, err, "new") {
		return
	}
	defer s.Close()

	names := []string{}
	for _, st := range s.Stores() {
		names = append(names, st.Namespace())
	}
	assert.Equal(t, []string{"authoring", "citationwatch", "openalex", "opencitations", "orcid", "reading", "scholar"}, names, "namespaces")

	reading, err := s.Store("reading")
	assert.Nil(t, err, "reading store")
	assert.Equal(t, time.Duration(0), reading.TTL(), "reading never expires")

	orcidStore, err := s.Store("orcid")
	assert.Nil(t, err, "orcid store")
	assert.Equal(t, 24*time.Hour, orcidStore.TTL(), "configured ttl")

	_, err = s.Store("nothing")
	assert.Equal(t, fault.ErrInvalidNamespace, err, "unknown namespace")

	connectors := []string{}
	for _, c := range s.Engine.Connectors() {
		connectors = append(connectors, c.Name())
	}
	assert.Equal(t, []string{"orcid", "openalex", "scholar", "citationwatch"}, connectors, "engine order")

	quotas, err := s.Quotas()
	assert.Nil(t, err, "quotas")
	assert.Equal(t, []service.Quota{
		{Source: "crossref", Count: 0, Limit: 0},
		{Source: "openalex", Count: 0, Limit: 10000},
		{Source: "opencitations", Count: 0, Limit: 0},
		{Source: "orcid", Count: 0, Limit: 7},
	}, quotas, "quota table")
}
