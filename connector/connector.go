// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package connector - the contract every publication source implements
package connector

import (
	"context"

	"github.com/bitmark-inc/pubconnector/document"
	"github.com/bitmark-inc/pubconnector/work"
)

// Target - one identity to refresh, and the entity it came from
type Target struct {
	Entity   string
	Identity string
}

// Connector - one external publication source
type Connector interface {
	// Name - cache namespace and quota source name
	Name() string

	// Platform - label attached to works from this source
	Platform() string

	// IsEnabled - feature flag with a source specific default
	IsEnabled() bool

	// IdentityField - entity field holding this source's identities
	IdentityField() string

	// ExtractIdentity - canonical identity from a token, URL or filter
	ExtractIdentity(raw string) (string, error)

	// Targets - identities tracked through the document store
	Targets(docs document.Store) ([]Target, error)

	// Prepare - called once before each refresh pass
	Prepare() error

	// PopulateCache - cached works, fetching and storing them if absent
	PopulateCache(ctx context.Context, identity string) ([]work.Work, error)

	// RecentWorks - cached works published in the last days, with a DOI
	RecentWorks(days int) ([]work.Work, error)

	// FindIdentitiesByDOI - identities whose cached works include the DOI
	FindIdentitiesByDOI(doi string) ([]string, error)

	// ClearExpired - remove expired cache entries
	ClearExpired() (int, error)
}
