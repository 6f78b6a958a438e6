// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fetch - rate limited HTTP client for one upstream source
//
// every request for a source goes through a FIFO queue drained by a
// single background worker, so requests never overlap. Before each
// attempt the worker waits for the minimum interval and charges the
// daily quota. HTTP 429 is retried with exponential backoff, 404 is
// "not found" and any other failure status is returned as a *StatusError.
package fetch
