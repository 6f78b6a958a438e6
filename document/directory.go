// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package document

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/fault"
)

// Directory - entities stored one JSON file each in a directory
//
// the directory is rescanned on every query so edits by the host are
// seen immediately
type Directory struct {
	path string
	log  *logger.L
}

// NewDirectory - open a directory of *.json entity files
func NewDirectory(path string) (*Directory, error) {
	info, err := os.Stat(path)
	if nil != err {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fault.ErrInvalidNamespace
	}
	return &Directory{
		path: path,
		log:  logger.New("document"),
	}, nil
}

// Filter - evaluate an expression in title order
func (d *Directory) Filter(expression string) ([]string, error) {
	f, err := Compile(expression)
	if nil != err {
		return nil, err
	}
	entities, err := d.load()
	if nil != err {
		return nil, err
	}
	return f.Apply(entities), nil
}

// Get - fetch an entity by title
func (d *Directory) Get(title string) (*Entity, error) {
	entities, err := d.load()
	if nil != err {
		return nil, err
	}
	for _, e := range entities {
		if e.Title == title {
			return e, nil
		}
	}
	return nil, fault.ErrEntityNotFound
}

// Save - write an entity file
func (d *Directory) Save(e *Entity) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if nil != err {
		return err
	}
	name := filepath.Join(d.path, fileName(e.Title))
	return ioutil.WriteFile(name, data, 0600)
}

func (d *Directory) load() ([]*Entity, error) {
	names, err := filepath.Glob(filepath.Join(d.path, "*.json"))
	if nil != err {
		return nil, err
	}

	entities := make([]*Entity, 0, len(names))
	for _, name := range names {
		data, err := ioutil.ReadFile(name)
		if nil != err {
			return nil, err
		}
		var e Entity
		if err := json.Unmarshal(data, &e); nil != err {
			d.log.Warnf("skip undecodable entity file: %q  error: %s", name, err)
			continue
		}
		if "" == e.Title {
			e.Title = strings.TrimSuffix(filepath.Base(name), ".json")
		}
		entities = append(entities, &e)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].Title < entities[j].Title })
	return entities, nil
}

// a file system safe name for a title
func fileName(title string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return r.Replace(title) + ".json"
}
