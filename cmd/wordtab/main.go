// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command wordtab counts the words of a text corpus into a wordtab.Table,
// reusing the table saved by a previous run when the corpus is unchanged,
// and reports a few lookups against it.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bpowers/wordtab"
	"github.com/bpowers/wordtab/ingest"
	"github.com/bpowers/wordtab/internal/config"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "wordtab: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := pflag.NewFlagSet("wordtab", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: wordtab [flags] [corpus]\n\n")
		flags.PrintDefaults()
	}
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 1 {
		flags.Usage()
		return fmt.Errorf("expected at most one corpus, got %d arguments", flags.NArg())
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(flags, configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	if flags.NArg() == 1 {
		cfg.Corpus = flags.Arg(0)
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	growth, err := cfg.GrowthPolicy()
	if err != nil {
		return err
	}
	t, err := wordtab.New(cfg.InitialCapacity,
		wordtab.WithLogger(logger),
		wordtab.WithGrowthPolicy(growth),
	)
	if err != nil {
		return fmt.Errorf("wordtab.New: %w", err)
	}

	start := time.Now()
	result, err := ingest.Process(t, cfg.Corpus, cfg.Checksum,
		ingest.WithTablePath(cfg.Table),
		ingest.WithLogger(logger),
		ingest.WithStrictLoad(cfg.StrictLoad),
	)
	if err != nil {
		return fmt.Errorf("ingest.Process: %w", err)
	}
	logger.Info("corpus processed", "path", result.Path, "checksum", result.Checksum, "elapsed", time.Since(start))

	report(stdout, t, cfg.Queries)
	return nil
}

// report prints the table's stats, its tracked entries and the counts of
// queries, each with the time the lookup took.
func report(w io.Writer, t *wordtab.Table, queries []string) {
	stats := t.Stats()
	fmt.Fprintf(w, "Detected word count: %d, hash_table size: %d\n", stats.Count, stats.Capacity)

	for _, tracked := range []struct {
		name string
		get  func() (wordtab.Entry, error)
	}{
		{"First", t.First},
		{"Last", t.Last},
	} {
		start := time.Now()
		e, err := tracked.get()
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s inserted: none (%s)\n", tracked.name, err)
			continue
		}
		fmt.Fprintf(w, "%s inserted: %s -> %d in %s\n", tracked.name, e.Key, e.Value, elapsed)
	}

	for _, word := range queries {
		start := time.Now()
		n, err := t.Get(word)
		elapsed := time.Since(start)
		if errors.Is(err, wordtab.ErrKeyNotFound) {
			fmt.Fprintf(w, "Count of '%s': not found in %s\n", word, elapsed)
			continue
		}
		fmt.Fprintf(w, "Count of '%s': %d in %s\n", word, n, elapsed)
	}
}
