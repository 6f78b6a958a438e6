// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - the Lua file shared by pubconnectord and
// pubconnector-cli
//
// the file must return a table; Lua libraries are available so values
// can come from os.getenv or from other files. The flags table is also
// read on its own whenever the file changes.
package configuration
