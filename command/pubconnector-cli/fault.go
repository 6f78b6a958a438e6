// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/pubconnector/fault"
)

// common errors - keep in alphabetic order
var (
	ErrRecordsNotAnArray  = fault.InvalidError("records file must hold a JSON array")
	ErrRequiredConfigFile = fault.InvalidError("configuration file is required")
	ErrRequiredDOI        = fault.InvalidError("DOI is required")
	ErrRequiredDOIOrEntry = fault.InvalidError("exactly one of DOI or entry is required")
	ErrRequiredFileName   = fault.InvalidError("file name is required")
	ErrRequiredIdentity   = fault.InvalidError("identity is required")
	ErrRequiredNamespace  = fault.InvalidError("namespace is required")
)
