// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error values shared by every component
//
// each value belongs to one class (exists, invalid, limit, not found,
// process) so callers can branch on the class with errors.As or the
// IsErrXXX helpers even after the value has been wrapped with %w
package fault
