package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cpurec/cpurec/cpurec"
	"github.com/cpurec/cpurec/internal/report"
)

var classifyCommand = &cli.Command{
	Name:      "classify",
	Aliases:   []string{"c"},
	Usage:     "Guess the CPU architecture of a binary file",
	Flags:     flagsSlice("config", "corpus", "cache", "verbose"),
	ArgsUsage: "<file>",
	Action:    classifyAction,
}

func classifyAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("need exactly 1 file")
	}

	cfg, err := loadConfigFromFlags(c)
	if err != nil {
		return err
	}
	h, err := cpurec.OpenWithConfig(cfg, log)
	if err != nil {
		return err
	}

	buf, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}

	rep := h.Report(buf, nil)
	report.Render(os.Stdout, rep)
	return nil
}
