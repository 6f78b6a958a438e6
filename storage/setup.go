// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/fault"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	ORCID         *PoolHandle `prefix:"O" namespace:"orcid"`
	OpenAlex      *PoolHandle `prefix:"A" namespace:"openalex"`
	OpenCitations *PoolHandle `prefix:"C" namespace:"opencitations"`
	Scholar       *PoolHandle `prefix:"S" namespace:"scholar"`
	CitationWatch *PoolHandle `prefix:"W" namespace:"citationwatch"`
	Authoring     *PoolHandle `prefix:"U" namespace:"authoring"`
	Reading       *PoolHandle `prefix:"R" namespace:"reading"`
}

// Pool - the set of exported pools
var Pool pools

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// holds the database handle
var poolData struct {
	sync.RWMutex
	database   *leveldb.DB
	namespaces map[string]*PoolHandle
}

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Initialise - open up the database connection
//
// this must be called before any pool is accessed
func Initialise(database string, readOnly bool) error {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.database {
		return fault.ErrAlreadyInitialised
	}

	db, err := leveldb.OpenFile(database, &ldb_opt.Options{
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	})
	if nil != err {
		return err
	}
	return setup(db, readOnly)
}

// InitialiseInMemory - open a volatile database, used by tests and dry runs
func InitialiseInMemory() error {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.database {
		return fault.ErrAlreadyInitialised
	}

	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return err
	}
	return setup(db, ReadWrite)
}

// must be called with the lock held
func setup(db *leveldb.DB, readOnly bool) error {
	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	version, err := getVersion(db)
	if nil != err {
		return err
	}

	switch {
	case version > currentDBVersion:
		logger.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return fmt.Errorf("database version: %d > current version: %d", version, currentDBVersion)
	case 0 == version && !readOnly:
		err = putVersion(db, currentDBVersion)
		if nil != err {
			return err
		}
	}

	// this will be a struct type
	poolType := reflect.TypeOf(Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&Pool).Elem()

	namespaces := make(map[string]*PoolHandle)

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}
		namespace := fieldInfo.Tag.Get("namespace")
		if "" == namespace {
			return fmt.Errorf("pool: %v has no namespace", fieldInfo)
		}

		p := newPoolHandle(db, prefixTag[0], namespace)
		namespaces[namespace] = p
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	poolData.database = db
	poolData.namespaces = namespaces

	ok = true // prevent db close
	return nil
}

// Finalise - close the database connection
func Finalise() {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.database {
		poolData.database.Close()
		poolData.database = nil
	}
	poolData.namespaces = nil
	Pool = pools{}
}

// ByNamespace - find the pool for a cache namespace name
func ByNamespace(namespace string) (*PoolHandle, error) {
	poolData.RLock()
	defer poolData.RUnlock()

	if nil == poolData.database {
		return nil, fault.ErrNotInitialised
	}
	p, ok := poolData.namespaces[namespace]
	if !ok {
		return nil, fault.ErrInvalidNamespace
	}
	return p, nil
}

// Namespaces - names of all pools
func Namespaces() []string {
	poolType := reflect.TypeOf(Pool)
	names := make([]string, 0, poolType.NumField())
	for i := 0; i < poolType.NumField(); i += 1 {
		names = append(names, poolType.Field(i).Tag.Get("namespace"))
	}
	return names
}

// return:
//   database version
//   error
func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}
	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))
	return db.Put(versionKey, currentVersion, nil)
}
