// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ingest

import (
	"bufio"
	"fmt"

	"github.com/bpowers/wordtab"
	"github.com/bpowers/wordtab/internal/seqread"
)

// Path is the route Process took to fill the table.
type Path uint8

const (
	// Rebuilt means the corpus was tokenized and counted.
	Rebuilt Path = iota
	// CacheHit means the saved table was loaded instead.
	CacheHit
)

func (p Path) String() string {
	switch p {
	case Rebuilt:
		return "rebuilt"
	case CacheHit:
		return "cache-hit"
	default:
		return fmt.Sprintf("Path(%d)", uint8(p))
	}
}

// Result describes what Process did.
type Result struct {
	Path Path
	// Checksum is the corpus digest, now recorded in the checksum file.
	Checksum string
	// Tokens, Words and Skipped are zero on a cache hit.  Skipped counts
	// words too long to store (see Counts).
	Tokens  int
	Words   int
	Skipped int
	// Load is the outcome of loading the saved table.  It is only
	// meaningful if the recorded checksum matched (LoadAttempted).
	Load          wordtab.LoadResult
	LoadAttempted bool
}

// Process fills t with the word counts of the corpus at corpusPath.
//
// If checksumPath records the corpus's current MD5 and the saved table
// loads, t holds the loaded table.  Otherwise t is emptied, restored to
// the capacity it had when Process was called, and rebuilt from the
// corpus; it is then saved, and the corpus's MD5 is written to
// checksumPath.
// The checksum is only written after the table is saved.
func Process(t *wordtab.Table, corpusPath, checksumPath string, opts ...Option) (Result, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	logger := options.logger

	sum, err := Checksum(corpusPath)
	if err != nil {
		return Result{}, fmt.Errorf("Checksum: %w", err)
	}
	result := Result{Checksum: sum}
	// a failed Load can leave t at the saved file's capacity
	capacity := t.Stats().Capacity

	recorded, err := ReadChecksum(checksumPath)
	if err != nil {
		// an unreadable record is the same as no record: rebuild
		logger.Warn("can't read checksum file", "path", checksumPath, "err", err)
		recorded = ""
	}

	if recorded == sum {
		result.Load = t.Load(options.tablePath)
		result.LoadAttempted = true
		if usable(result.Load, options.strict) {
			logger.Info("corpus unchanged; using saved table",
				"table", options.tablePath, "load", result.Load.Status, "count", t.Len())
			result.Path = CacheHit
			return result, nil
		}
		logger.Info("saved table unusable; rebuilding",
			"table", options.tablePath, "load", result.Load.Status, "err", result.Load.Err)
	} else {
		logger.Info("corpus changed; rebuilding", "checksum", sum, "recorded", recorded)
	}

	if err := t.ResetTo(capacity); err != nil {
		return result, fmt.Errorf("ResetTo: %w", err)
	}
	f, err := seqread.Open(corpusPath)
	if err != nil {
		return result, err
	}
	counts, err := CountWords(bufio.NewReaderSize(f, 1<<16), t)
	_ = f.Close()
	result.Tokens, result.Words, result.Skipped = counts.Tokens, counts.Words, counts.Skipped
	if err != nil {
		return result, fmt.Errorf("CountWords: %w", err)
	}
	result.Path = Rebuilt
	if counts.Skipped > 0 {
		logger.Warn("skipped words too long to store", "skipped", counts.Skipped, "max-len", wordtab.MaxKeyLen)
	}

	if err := t.Save(options.tablePath); err != nil {
		return result, fmt.Errorf("Save: %w", err)
	}
	if err := WriteChecksum(checksumPath, sum); err != nil {
		return result, fmt.Errorf("WriteChecksum: %w", err)
	}
	logger.Info("table rebuilt", "tokens", result.Tokens, "words", result.Words, "skipped", result.Skipped, "count", t.Len())
	return result, nil
}

func usable(r wordtab.LoadResult, strict bool) bool {
	if strict {
		return r.Status == wordtab.LoadComplete
	}
	return r.Loaded()
}
