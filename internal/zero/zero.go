// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package zero provides functions to zero slices in place.
package zero

// Slice sets every element of s to its zero value without changing len or cap.
func Slice[T any](s []T) {
	var z T
	for i := range s {
		s[i] = z
	}
}
