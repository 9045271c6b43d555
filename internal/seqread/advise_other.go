// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build !linux

package seqread

import (
	"os"
)

func adviseSequential(*os.File) error {
	return nil
}
