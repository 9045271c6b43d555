// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package tablefile reads and writes the on-disk form of an open-addressed
// word table: a fixed header followed by every slot of the table, empty or
// not, in index order.
//
// A table file looks like:
//
//	┌───────────────────┐
//	│ file header       │
//	├───────────────────┤
//	│ slot 0            │
//	│ slot 1            │
//	│ ...               │
//	│ slot capacity-1   │
//	└───────────────────┘
//
// The header is four native-endian int32s:
//
//	 0    1    2    3    4    5    6    7
//	+----+----+----+----+----+----+----+----+
//	| capacity          | count             |
//	+----+----+----+----+----+----+----+----+
//	| first index       | last index        |
//	+----+----+----+----+----+----+----+----+
//
// and each slot is variable length:
//
//	+----+----+----+----+----+----+----+----+----+
//	| key length        | key...            |occ |
//	+----+----+----+----+----+----+----+----+----+
//	       ... key ...  | value             |
//
// that is, a 4-byte key length, that many key bytes, a 4-byte value and a
// single occupied byte (1 or 0).  Empty slots have a zero key length.
// There is no magic number or version: files are only ever read back by the
// program that wrote them.
package tablefile
