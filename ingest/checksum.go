// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/bpowers/wordtab/internal/seqread"
)

// Checksum returns the lower-case hex MD5 of the file at path.
func Checksum(path string) (string, error) {
	f, err := seqread.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("io.Copy(%q): %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ReadChecksum returns the digest recorded at path: the first
// whitespace-delimited token in the file.  A missing file records nothing
// and yields "".
func ReadChecksum(path string) (string, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("os.ReadFile: %w", err)
	}
	fields := strings.Fields(string(contents))
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

// WriteChecksum records sum at path, replacing anything already there.
func WriteChecksum(path, sum string) error {
	if err := os.WriteFile(path, []byte(sum+"\n"), 0644); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}
	return nil
}
