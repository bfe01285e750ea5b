// Command semfilter is a structured, type-aware analogue of grep: it
// reads lines from standard input, splits each into tokens, evaluates a
// typed boolean query against those tokens, and writes matching lines to
// standard output unchanged. See SPEC_FULL.md for the full design.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chis/semfilter/internal/config"
	"github.com/chis/semfilter/internal/datadef"
	"github.com/chis/semfilter/internal/filter"
	"github.com/chis/semfilter/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log := logging.Default()

	fs := flag.NewFlagSet("semfilter", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	tokenSep := fs.String("token-sep", "", "regex used to split each line into tokens (default: a single space)")
	dataDef := fs.String("data-def", "", "TYPE|FORMAT[,TYPE|FORMAT...] (accepted but unused by the evaluator)")
	configPath := fs.String("config", "", "optional YAML file providing defaults for --token-sep and --data-def")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [--token-sep PATTERN] [--data-def DEF] [--config PATH] EXPR\n", fs.Name())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}
	expr := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("loading config: %v", err)
		return 1
	}

	sep := cfg.TokenSepOr(" ")
	if *tokenSep != "" {
		sep = *tokenSep
	}

	defRaw := cfg.DataDefOr("")
	if *dataDef != "" {
		defRaw = *dataDef
	}
	if entries, err := datadef.Parse(defRaw); err != nil {
		log.Warn("ignoring malformed --data-def: %v", err)
	} else if len(entries) > 0 {
		log.Debug("parsed %d --data-def entries (unused by the evaluator)", len(entries))
	}

	if err := filter.Run(os.Stdin, os.Stdout, expr, sep, log); err != nil {
		log.Error("%v", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
