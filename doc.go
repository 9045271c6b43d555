// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package wordtab is an open-addressed hash table from string keys to
// int32 counters that remembers which keys were inserted first and last,
// and that can be saved to and restored from a single binary file.
//
// Collisions are resolved by linear probing.  When a new key arrives and
// every slot is full the table grows according to its GrowthPolicy and
// rehashes every entry.  Removal is tombstone-free: the removed slot is
// cleared and the rest of its probe cluster is shifted back, so lookups can
// stop at the first empty slot.
//
// First and Last are best-effort.  Removing the tracked entry leaves the
// tracker unset (ErrEmpty) even when other keys remain, and a resize moves
// Last to whichever entry was rehashed last in slot order.
//
// A Table is not safe for concurrent use.
package wordtab
