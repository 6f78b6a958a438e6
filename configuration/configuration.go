// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/fetch"
	"github.com/bitmark-inc/pubconnector/publish"
	"github.com/bitmark-inc/pubconnector/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultDatabaseName     = "pubconnector.leveldb"
	defaultDocuments        = "documents"

	defaultLogDirectory = "log"
	defaultLogFile      = "pubconnector.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultTTL           = "24h"
	defaultSweepInterval = "1h"
	defaultCheckInterval = "1m"
	defaultTimeout       = "30s"
)

// DatabaseType - location of the LevelDB files
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// CacheType - lifetimes of cached items
type CacheType struct {
	TTL           string `gluamapper:"ttl" json:"ttl"`
	SweepInterval string `gluamapper:"sweep_interval" json:"sweep_interval"`
}

// SourceType - how to reach one upstream API
//
// zero values select the defaults of each source
type SourceType struct {
	Host       string  `gluamapper:"host" json:"host"`
	Interval   string  `gluamapper:"interval" json:"interval"`
	Retries    int     `gluamapper:"retries" json:"retries"`
	Backoff    string  `gluamapper:"backoff" json:"backoff"`
	Timeout    string  `gluamapper:"timeout" json:"timeout"`
	PageDelay  string  `gluamapper:"page_delay" json:"page_delay"`
	PerPage    int     `gluamapper:"per_page" json:"per_page"`
	MaxPages   int     `gluamapper:"max_pages" json:"max_pages"`
	Rows       int     `gluamapper:"rows" json:"rows"`
	Similarity float64 `gluamapper:"similarity" json:"similarity"`
	UserAgent  string  `gluamapper:"user_agent" json:"user_agent"`
}

// SourcesType - every upstream API
type SourcesType struct {
	ORCID         SourceType `gluamapper:"orcid" json:"orcid"`
	OpenAlex      SourceType `gluamapper:"openalex" json:"openalex"`
	OpenCitations SourceType `gluamapper:"opencitations" json:"opencitations"`
	Crossref      SourceType `gluamapper:"crossref" json:"crossref"`
}

// ScheduleType - the daily refresh trigger
type ScheduleType struct {
	CheckInterval string `gluamapper:"check_interval" json:"check_interval"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string                `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                `gluamapper:"pidfile" json:"pidfile"`
	Database      DatabaseType          `gluamapper:"database" json:"database"`
	Documents     string                `gluamapper:"documents" json:"documents"`
	Cache         CacheType             `gluamapper:"cache" json:"cache"`
	Sources       SourcesType           `gluamapper:"sources" json:"sources"`
	Schedule      ScheduleType          `gluamapper:"schedule" json:"schedule"`
	Publish       publish.Configuration `gluamapper:"publish" json:"publish"`
	Flags         map[string]string     `gluamapper:"flags" json:"flags"`
	Logging       logger.Configuration  `gluamapper:"logging" json:"logging"`

	// absolute name of the file read
	FileName string `gluamapper:"-" json:"-"`
}

// Load - read, decode and verify the configuration
func Load(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}
	if !util.EnsureFileExists(configurationFileName) {
		return nil, fmt.Errorf("%q: %w", configurationFileName, fault.ErrConfigurationMissing)
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabaseName,
		},
		Documents: defaultDocuments,

		Cache: CacheType{
			TTL:           defaultTTL,
			SweepInterval: defaultSweepInterval,
		},

		Schedule: ScheduleType{
			CheckInterval: defaultCheckInterval,
		},

		Flags: map[string]string{},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}
	options.FileName = configurationFileName

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// every duration must parse
	for _, d := range []string{
		options.Cache.TTL,
		options.Cache.SweepInterval,
		options.Schedule.CheckInterval,
	} {
		if _, err := parseDuration(d, 0); nil != err {
			return nil, err
		}
	}
	for _, s := range options.sources() {
		if _, err := s.Fetch("", nil); nil != err {
			return nil, err
		}
		if _, err := s.HTTPTimeout(); nil != err {
			return nil, err
		}
		if _, err := s.Delay(); nil != err {
			return nil, err
		}
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Documents,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Publish.PublicKey,
		&options.Publish.PrivateKey,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// database name must be a plain file name
	switch filepath.Dir(options.Database.Name) {
	case "", ".":
		options.Database.Name = util.EnsureAbsolute(options.Database.Directory, options.Database.Name)
	default:
		return nil, fmt.Errorf("files: %q is not plain name", options.Database.Name)
	}
	if "" != filepath.Dir(options.Logging.File) && "." != filepath.Dir(options.Logging.File) {
		return nil, fmt.Errorf("files: %q is not plain name", options.Logging.File)
	}

	// create directories if they do not already exist
	for _, d := range []string{
		options.Database.Directory,
		options.Documents,
		options.Logging.Directory,
	} {
		if err := os.MkdirAll(d, 0700); nil != err {
			return nil, err
		}
	}

	return options, nil
}

func (c *Configuration) sources() []SourceType {
	return []SourceType{
		c.Sources.ORCID,
		c.Sources.OpenAlex,
		c.Sources.OpenCitations,
		c.Sources.Crossref,
	}
}

// TTL - lifetime of cached source data
func (c *Configuration) TTL() time.Duration {
	d, _ := parseDuration(c.Cache.TTL, 0)
	return d
}

// SweepInterval - time between expiry sweeps
func (c *Configuration) SweepInterval() time.Duration {
	d, _ := parseDuration(c.Cache.SweepInterval, 0)
	return d
}

// CheckInterval - time between schedule checks
func (c *Configuration) CheckInterval() time.Duration {
	d, _ := parseDuration(c.Schedule.CheckInterval, 0)
	return d
}

// Fetch - client settings for one source
func (s SourceType) Fetch(name string, dailyLimit func() int) (fetch.Configuration, error) {
	interval, err := parseDuration(s.Interval, fetch.DefaultInterval)
	if nil != err {
		return fetch.Configuration{}, err
	}
	backoff, err := parseDuration(s.Backoff, fetch.DefaultBackoff)
	if nil != err {
		return fetch.Configuration{}, err
	}
	retries := s.Retries
	if retries <= 0 {
		retries = fetch.DefaultMaxRetries
	}
	return fetch.Configuration{
		Source:     name,
		Interval:   interval,
		MaxRetries: retries,
		Backoff:    backoff,
		UserAgent:  s.UserAgent,
		DailyLimit: dailyLimit,
	}, nil
}

// HTTPTimeout - limit on a single request
func (s SourceType) HTTPTimeout() (time.Duration, error) {
	d, err := parseDuration(s.Timeout, 0)
	if nil != err || 0 != d {
		return d, err
	}
	return parseDuration(defaultTimeout, 0)
}

// Delay - pause between pages, zero selects the source default
func (s SourceType) Delay() (time.Duration, error) {
	return parseDuration(s.PageDelay, 0)
}

// empty text gives the default
func parseDuration(s string, defaultValue time.Duration) (time.Duration, error) {
	if "" == s {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(s)
	if nil != err {
		return 0, fmt.Errorf("duration: %q: %w", s, fault.ErrInvalidDuration)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration: %q: %w", s, fault.ErrInvalidDuration)
	}
	return d, nil
}
