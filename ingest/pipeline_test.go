// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ingest

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/wordtab"
)

const taleOfTwoCities = `It was the best of times, it was the worst of times.
Mr. Lorry and Miss Manette travelled from London to Dover; at Dover, the
mail-coach stopped.  LONDON!`

type pipelineFixture struct {
	dir      string
	corpus   string
	checksum string
	table    string
}

func newFixture(t *testing.T, corpus string) pipelineFixture {
	dir := t.TempDir()
	return pipelineFixture{
		dir:      dir,
		corpus:   writeFile(t, dir, "corpus.txt", corpus),
		checksum: filepath.Join(dir, "checksum.txt"),
		table:    filepath.Join(dir, "hash_table.dat"),
	}
}

func (f pipelineFixture) process(t *testing.T, opts ...Option) (*wordtab.Table, Result, error) {
	tbl, err := wordtab.New(16)
	require.NoError(t, err)
	opts = append([]Option{WithTablePath(f.table)}, opts...)
	result, err := Process(tbl, f.corpus, f.checksum, opts...)
	return tbl, result, err
}

func requireCount(t *testing.T, tbl *wordtab.Table, word string, expected int32) {
	t.Helper()
	v, err := tbl.Get(word)
	require.NoError(t, err, "word %q", word)
	require.Equal(t, expected, v, "word %q", word)
}

func TestProcessGating(t *testing.T) {
	f := newFixture(t, taleOfTwoCities)
	sum, err := Checksum(f.corpus)
	require.NoError(t, err)

	tbl, result, err := f.process(t)
	require.NoError(t, err)
	require.Equal(t, Rebuilt, result.Path)
	require.False(t, result.LoadAttempted)
	require.Equal(t, sum, result.Checksum)
	require.Equal(t, 28, result.Tokens)
	require.Equal(t, 29, result.Words)
	require.Zero(t, result.Skipped)
	requireCount(t, tbl, "london", 2)
	requireCount(t, tbl, "dover", 2)
	requireCount(t, tbl, "manette", 1)

	recorded, err := ReadChecksum(f.checksum)
	require.NoError(t, err)
	require.Equal(t, sum, recorded)

	// unchanged corpus: nothing is tokenized
	cached, result, err := f.process(t)
	require.NoError(t, err)
	require.Equal(t, CacheHit, result.Path)
	require.True(t, result.LoadAttempted)
	require.Equal(t, wordtab.LoadComplete, result.Load.Status)
	require.Zero(t, result.Tokens)
	require.Zero(t, result.Words)
	require.Equal(t, tbl.Stats(), cached.Stats())
	tbl.Range(func(e wordtab.Entry) bool {
		requireCount(t, cached, e.Key, e.Value)
		return true
	})
	first, err := cached.First()
	require.NoError(t, err)
	require.Equal(t, "it", first.Key)

	// a modified corpus invalidates the saved table
	writeFile(t, f.dir, "corpus.txt", "London London London")
	rebuilt, result, err := f.process(t)
	require.NoError(t, err)
	require.Equal(t, Rebuilt, result.Path)
	require.False(t, result.LoadAttempted)
	require.Equal(t, 3, result.Tokens)
	require.Equal(t, 1, rebuilt.Len())
	requireCount(t, rebuilt, "london", 3)

	recorded, err = ReadChecksum(f.checksum)
	require.NoError(t, err)
	require.Equal(t, result.Checksum, recorded)
	require.NotEqual(t, sum, recorded)
}

func TestProcessResetsStaleContents(t *testing.T) {
	f := newFixture(t, "Hello, World! hello")
	tbl, err := wordtab.New(8)
	require.NoError(t, err)
	require.NoError(t, tbl.Insert("stale", 99))

	result, err := Process(tbl, f.corpus, f.checksum, WithTablePath(f.table))
	require.NoError(t, err)
	require.Equal(t, Rebuilt, result.Path)

	_, err = tbl.Get("stale")
	require.True(t, errors.Is(err, wordtab.ErrKeyNotFound))
	requireCount(t, tbl, "hello", 2)
	requireCount(t, tbl, "world", 1)
	require.Equal(t, 2, tbl.Len())
}

func TestProcessMissingTable(t *testing.T) {
	f := newFixture(t, taleOfTwoCities)
	_, _, err := f.process(t)
	require.NoError(t, err)
	require.NoError(t, os.Remove(f.table))

	tbl, result, err := f.process(t)
	require.NoError(t, err)
	require.Equal(t, Rebuilt, result.Path)
	require.True(t, result.LoadAttempted)
	require.Equal(t, wordtab.LoadMissing, result.Load.Status)
	requireCount(t, tbl, "london", 2)

	_, err = os.Stat(f.table)
	require.NoError(t, err)
}

func truncateTable(t *testing.T, path string) {
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, contents[:len(contents)-1], 0644))
}

func TestProcessPartialTable(t *testing.T) {
	f := newFixture(t, taleOfTwoCities)
	_, _, err := f.process(t)
	require.NoError(t, err)
	truncateTable(t, f.table)

	// by default a partially read table is still used
	_, result, err := f.process(t)
	require.NoError(t, err)
	require.Equal(t, CacheHit, result.Path)
	require.Equal(t, wordtab.LoadPartial, result.Load.Status)
	require.True(t, errors.Is(result.Load.Err, wordtab.ErrCorruptData))
}

func TestProcessStrictLoad(t *testing.T) {
	f := newFixture(t, taleOfTwoCities)
	_, _, err := f.process(t)
	require.NoError(t, err)
	truncateTable(t, f.table)

	tbl, result, err := f.process(t, WithStrictLoad(true))
	require.NoError(t, err)
	require.Equal(t, Rebuilt, result.Path)
	require.Equal(t, wordtab.LoadPartial, result.Load.Status)
	requireCount(t, tbl, "london", 2)

	// the rebuild rewrote the table in full
	_, result, err = f.process(t, WithStrictLoad(true))
	require.NoError(t, err)
	require.Equal(t, CacheHit, result.Path)
	require.Equal(t, wordtab.LoadComplete, result.Load.Status)
}

func TestProcessMissingCorpus(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, os.Remove(f.corpus))

	_, _, err := f.process(t)
	require.Error(t, err)
	require.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = os.Stat(f.checksum)
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestProcessSaveFailureKeepsChecksumUnset(t *testing.T) {
	f := newFixture(t, taleOfTwoCities)
	f.table = filepath.Join(f.dir, "missing", "hash_table.dat")

	_, result, err := f.process(t)
	require.Error(t, err)
	require.Equal(t, Rebuilt, result.Path)

	recorded, err := ReadChecksum(f.checksum)
	require.NoError(t, err)
	require.Equal(t, "", recorded)
}

func TestProcessLogs(t *testing.T) {
	f := newFixture(t, taleOfTwoCities)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, _, err := f.process(t, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "corpus changed; rebuilding")
	assert.Contains(t, buf.String(), "table rebuilt")

	buf.Reset()
	_, _, err = f.process(t, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "corpus unchanged; using saved table")
}

func TestPathString(t *testing.T) {
	assert.Equal(t, "rebuilt", Rebuilt.String())
	assert.Equal(t, "cache-hit", CacheHit.String())
	assert.Equal(t, "Path(7)", Path(7).String())
}

func TestProcessWhitespaceFreeCorpus(t *testing.T) {
	f := newFixture(t, strings.Repeat("dover,", 200000))

	tbl, result, err := f.process(t)
	require.NoError(t, err)
	require.Equal(t, Rebuilt, result.Path)
	require.Equal(t, 1, result.Tokens)
	require.Equal(t, 200000, result.Words)
	require.Equal(t, 1, tbl.Len())
	requireCount(t, tbl, "dover", 200000)

	_, result, err = f.process(t)
	require.NoError(t, err)
	require.Equal(t, CacheHit, result.Path)
}

func TestProcessStrictRebuildKeepsStartingCapacity(t *testing.T) {
	f := newFixture(t, taleOfTwoCities)
	big, err := wordtab.New(64)
	require.NoError(t, err)
	_, err = Process(big, f.corpus, f.checksum, WithTablePath(f.table))
	require.NoError(t, err)
	truncateTable(t, f.table)

	tbl, err := wordtab.New(8, wordtab.WithGrowthPolicy(wordtab.Multiplicative(2)))
	require.NoError(t, err)
	result, err := Process(tbl, f.corpus, f.checksum, WithTablePath(f.table), WithStrictLoad(true))
	require.NoError(t, err)
	require.Equal(t, Rebuilt, result.Path)
	require.Equal(t, wordtab.LoadPartial, result.Load.Status)

	// 21 distinct words grow 8 -> 16 -> 32; the stale file's 64 slots
	// play no part
	require.Equal(t, wordtab.Stats{Count: 21, Capacity: 32}, tbl.Stats())
}

func TestProcessReportsSkippedWords(t *testing.T) {
	long := strings.Repeat("x", wordtab.MaxKeyLen+1)
	f := newFixture(t, "London "+long+" Dover "+long+"!")
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	tbl, result, err := f.process(t, WithLogger(logger))
	require.NoError(t, err)
	require.Equal(t, 4, result.Tokens)
	require.Equal(t, 2, result.Words)
	require.Equal(t, 2, result.Skipped)
	require.Equal(t, 2, tbl.Len())
	assert.Contains(t, buf.String(), "skipped words too long to store")
	assert.Contains(t, buf.String(), "skipped=2")
}
