// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - durable key/value pools on LevelDB
//
// every cache namespace is a pool that occupies a single byte key
// prefix within one database, so iterating a namespace is a range
// scan over that prefix.
package storage
