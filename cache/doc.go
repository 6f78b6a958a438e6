// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache maintains the namespaced TTL data store
//
//  ***** Data Structure *****
//
//  Namespace        Key                              Item                         TTL
//  |___ orcid         orcid id                         []work.Work                  cache.ttl
//  |                  __orcid_daily_request_count      quota.Counter                never
//  |___ openalex      author id (a123)                 []work.Work                  cache.ttl
//  |                  ["id", openalex id]              openalex work record         cache.ttl
//  |                  ["doi", doi]                     openalex work record         cache.ttl
//  |                  ["cites", doi]                   []work.Work                  cache.ttl
//  |___ opencitations ["citations", doi]               []opencitations.Citation     cache.ttl
//  |___ citationwatch watched paper doi                []work.Work                  cache.ttl
//  |___ scholar       scholar user id                  scholar profile              cache.ttl
//  |                  __scholar_pending_status         []string                     never
//  |___ authoring     __schedule_last_run              string                       never
//  |___ reading       read-literature                  reading set                  never
//
//  ***** Persistence *****
//
//  each entry is stored as JSON {"item": ..., "timestamp": ...} under its
//  packed key in the LevelDB pool of the namespace, a decoded copy is
//  held in memory for a short time to avoid repeated decoding
//
//  ***** Expiry *****
//
//  an entry is absent once now >= timestamp + TTL; reserved keys (the
//  "__" prefix) are bookkeeping and never expire; expired entries are
//  removed physically by RemoveExpired, which the sweeper background
//  process calls periodically for every store
package cache
