// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package seqread opens files that are going to be read once, front to back.
package seqread

import (
	"fmt"
	"os"
)

// Open opens path for reading and tells the kernel we will read it
// sequentially, so it can read ahead aggressively.  The advice is
// best-effort: failing to apply it is not an error.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	_ = adviseSequential(f)
	return f, nil
}
