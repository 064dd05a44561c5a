// Package main is the cpurec command-line tool: classify, segment, dump,
// train, and watch a corpus directory.
//
// classify.go implements the "classify" command, reporting a single
// file's architecture guess.
//
// segment.go implements the "segment" command, printing the full
// sliding-window segmentation for a file.
//
// train.go implements the "train" command, which (re)builds the
// trained-model cache from a corpus directory, and "dump", which writes
// the diagnostic per-architecture n-gram listing.
//
// watch.go implements the "watch" command, which retrains and rewrites
// the cache whenever the corpus directory changes.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// appFlagsMap centralizes CLI flags used across commands the way
// keycraft's cmd/keycraft/main.go does, so each command selects only the
// flags it needs via flagsSlice.
var appFlagsMap = map[string]cli.Flag{
	"config": &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"cfg"},
		Usage:   "YAML configuration file",
	},
	"corpus": &cli.StringFlag{
		Name:    "corpus",
		Aliases: []string{"c"},
		Usage:   "corpus directory to train from",
	},
	"cache": &cli.StringFlag{
		Name:    "cache",
		Usage:   "trained-model cache file",
	},
	"verbose": &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "enable debug logging",
	},
}

func flagsSlice(keys ...string) []cli.Flag {
	flags := make([]cli.Flag, 0, len(keys))
	for _, k := range keys {
		if f, ok := appFlagsMap[k]; ok {
			flags = append(flags, f)
		}
	}
	return flags
}

var log = logrus.StandardLogger()

func main() {
	app := &cli.App{
		Name:  "cpurec",
		Usage: "statistical CPU instruction-set classifier",
		Commands: []*cli.Command{
			classifyCommand,
			segmentCommand,
			trainCommand,
			dumpCommand,
			watchCommand,
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				log.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
