// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pubconnector/configuration"
	"github.com/bitmark-inc/pubconnector/service"
)

type metadata struct {
	file    string
	config  *configuration.Configuration
	service *service.Service
	finish  func()
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "pubconnector-cli"
	app.Usage = "inspect and drive the publication cache"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "config, c",
			Value:  "",
			Usage:  "*pubconnectord configuration `FILE`",
			EnvVar: "PUBCONNECTOR_CONFIG",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "refresh",
			Usage:     "refresh every tracked identity of every enabled source",
			ArgsUsage: " ",
			Action:    runRefresh,
		},
		{
			Name:      "latest",
			Usage:     "recent works that are neither read nor catalogued",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "days, d",
					Value: defaultDays,
					Usage: " look back `DAYS`",
				},
			},
			Action: runLatest,
		},
		{
			Name:      "authors",
			Usage:     "tracked identities and colleagues that authored a DOI",
			ArgsUsage: "\n   (+ = select one)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "doi, d",
					Value: "",
					Usage: "+publication `DOI`",
				},
				cli.StringFlag{
					Name:  "entry, e",
					Value: "",
					Usage: "+bibliography entry `TITLE`",
				},
			},
			Action: runAuthors,
		},
		{
			Name:      "read",
			Usage:     "mark DOIs as read, without DOIs list the read set",
			ArgsUsage: "[DOI...]",
			Flags: []cli.Flag{
				cli.StringSliceFlag{
					Name:  "doi, d",
					Usage: " publication `DOI` (repeatable)",
				},
			},
			Action: runRead,
		},
		{
			Name:      "clear-read",
			Usage:     "empty the read set",
			ArgsUsage: " ",
			Action:    runClearRead,
		},
		{
			Name:      "quota",
			Usage:     "requests made today against each daily limit",
			ArgsUsage: " ",
			Action:    runQuota,
		},
		{
			Name:      "prune",
			Usage:     "remove expired entries from every namespace",
			ArgsUsage: " ",
			Action:    runPrune,
		},
		{
			Name:      "pending",
			Usage:     "Google Scholar identities waiting for an ingest",
			ArgsUsage: " ",
			Action:    runPending,
		},
		{
			Name:      "ingest",
			Usage:     "resolve and cache scraped Google Scholar records",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "identity, i",
					Value: "",
					Usage: "*Google Scholar `ID` or profile URL",
				},
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*JSON array of records `FILE`",
				},
			},
			Action: runIngest,
		},
		{
			Name:      "references",
			Usage:     "works referenced by a DOI (OpenAlex)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "doi, d",
					Value: "",
					Usage: "*publication `DOI`",
				},
			},
			Action: runReferences,
		},
		{
			Name:      "cites",
			Usage:     "works citing a DOI (OpenAlex)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "doi, d",
					Value: "",
					Usage: "*publication `DOI`",
				},
			},
			Action: runCites,
		},
		{
			Name:      "citations",
			Usage:     "citations of a DOI (OpenCitations)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "doi, d",
					Value: "",
					Usage: "*publication `DOI`",
				},
			},
			Action: runCitations,
		},
		{
			Name:      "dump",
			Usage:     "every entry of one cache namespace",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "namespace, n",
					Value: "",
					Usage: "*cache `NAMESPACE`",
				},
			},
			Action: runDump,
		},
		{
			Name:      "version",
			Usage:     "display pubconnector-cli version",
			ArgsUsage: " ",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		switch command {
		case "", "version", "help", "h":
			return nil
		}

		file, err := checkConfigFile(c.GlobalString("config"))
		if nil != err {
			return err
		}

		if verbose {
			fmt.Fprintf(e, "reading config file: %s\n", file)
		}

		conf, s, finish, err := open(file)
		if nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			file:    file,
			config:  conf,
			service: s,
			finish:  finish,
			verbose: verbose,
			e:       e,
			w:       w,
		}

		return nil
	}

	// release the database
	app.After = func(c *cli.Context) error {
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok {
			return nil
		}
		if c.GlobalBool("verbose") {
			fmt.Fprintf(m.e, "closing database: %s\n", m.config.Database.Name)
		}
		m.finish()
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
