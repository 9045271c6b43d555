// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bytesutil

// IsAlnum reports whether c is an ASCII letter or digit.
func IsAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// AlnumLen returns the length of the run of ASCII letters and digits at
// the start of s.
func AlnumLen(s []byte) int {
	n := 0
	for n < len(s) && IsAlnum(s[n]) {
		n++
	}
	return n
}

// LowerASCII lower-cases the ASCII letters in b in place.  Other bytes,
// including those of multi-byte UTF-8 sequences, are left alone.
func LowerASCII(b []byte) {
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
}
