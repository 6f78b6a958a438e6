// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - in-process fan out of engine events
//
// senders never block: a listener that is not keeping up loses
// messages and the loss is counted
package messagebus
