// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/wordtab"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "tale.txt")
	require.NoError(t, os.WriteFile(corpus, []byte("London to Dover. Dover, then London; LONDON!"), 0644))

	args := []string{
		"--checksum", filepath.Join(dir, "checksum.txt"),
		"--table", filepath.Join(dir, "hash_table.dat"),
		"--initial-capacity", "3",
		"--log-level", "debug",
		corpus,
	}

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(args, &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "Detected word count: 4, hash_table size: 2003\n")
	assert.Contains(t, out, "First inserted: london -> 3 in ")
	assert.Contains(t, out, "Last inserted: then -> 1 in ")
	assert.Contains(t, out, "Count of 'london': 3 in ")
	assert.Contains(t, out, "Count of 'dover': 2 in ")
	assert.Contains(t, out, "Count of 'manette': not found in ")
	assert.Contains(t, stderr.String(), "path=rebuilt")
	assert.Contains(t, stderr.String(), "table resized")

	stdout.Reset()
	stderr.Reset()
	require.NoError(t, run(args, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Count of 'london': 3 in ")
	assert.Contains(t, stderr.String(), "path=cache-hit")
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	err := run([]string{"--checksum", filepath.Join(dir, "c.txt"), filepath.Join(dir, "missing.txt")}, &stdout, &stderr)
	require.Error(t, err)

	err = run([]string{"a.txt", "b.txt"}, &stdout, &stderr)
	require.Error(t, err)

	err = run([]string{"--initial-capacity", "-3"}, &stdout, &stderr)
	require.Error(t, err)

	err = run([]string{"--help"}, &stdout, &stderr)
	require.True(t, errors.Is(err, pflag.ErrHelp))
}

func TestReportEmptyTable(t *testing.T) {
	tbl, err := wordtab.New(3)
	require.NoError(t, err)

	var out bytes.Buffer
	report(&out, tbl, []string{"dover"})
	assert.Contains(t, out.String(), "Detected word count: 0, hash_table size: 3\n")
	assert.Contains(t, out.String(), "First inserted: none (no tracked entry)\n")
	assert.Contains(t, out.String(), "Last inserted: none (no tracked entry)\n")
	assert.Contains(t, out.String(), "Count of 'dover': not found in ")
}
