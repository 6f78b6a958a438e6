// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LimitError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised   = ExistsError("already initialised")
	ErrCacheEntryCorrupt    = ProcessError("cache entry is corrupt")
	ErrCacheKeyCorrupt      = ProcessError("cache key is corrupt")
	ErrConfigurationMissing = NotFoundError("configuration file is not found")
	ErrEmptyCacheKey        = InvalidError("cache key is empty")
	ErrEntityNotFound       = NotFoundError("entity not found")
	ErrInvalidConfiguration = InvalidError("configuration must return a table")
	ErrInvalidDOI           = InvalidError("invalid DOI")
	ErrInvalidDays          = InvalidError("days must be positive")
	ErrInvalidDuration      = InvalidError("invalid duration")
	ErrInvalidFilter        = InvalidError("invalid filter expression")
	ErrInvalidIdentity      = InvalidError("invalid identity")
	ErrInvalidIPAddress     = InvalidError("invalid IP address")
	ErrInvalidNamespace     = InvalidError("invalid namespace")
	ErrInvalidPortNumber    = InvalidError("invalid port number")
	ErrInvalidPrivateKey    = InvalidError("invalid private key")
	ErrInvalidPublicKey     = InvalidError("invalid public key")
	ErrInvalidScheduleTime  = InvalidError("invalid schedule time")
	ErrInvalidStructPointer = InvalidError("invalid struct pointer")
	ErrJSONParseFail        = ProcessError("parse to json failed")
	ErrKeyFileAlreadyExists = ExistsError("key file already exists")
	ErrMissingIdentity      = InvalidError("identity is missing")
	ErrMissingKeyPair       = InvalidError("both public and private key are required")
	ErrMissingTitle         = InvalidError("title is missing")
	ErrNotInitialised       = NotFoundError("not initialised")
	ErrQueueClosed          = ProcessError("request queue is closed")
	ErrQuotaExceeded        = LimitError("daily quota exceeded")
	ErrRateLimited          = LimitError("upstream rate limited")
	ErrRefreshInProgress    = ExistsError("refresh already in progress")
	ErrTruncatedToken       = ProcessError("truncated token")
	ErrUpstreamStatus       = ProcessError("upstream returned error status")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LimitError) Error() string    { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool   { var x ExistsError; return errors.As(e, &x) }
func IsErrInvalid(e error) bool  { var x InvalidError; return errors.As(e, &x) }
func IsErrLimit(e error) bool    { var x LimitError; return errors.As(e, &x) }
func IsErrNotFound(e error) bool { var x NotFoundError; return errors.As(e, &x) }
func IsErrProcess(e error) bool  { var x ProcessError; return errors.As(e, &x) }
