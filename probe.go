// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package wordtab

import (
	"github.com/bpowers/wordtab/internal/bitset"
	"github.com/bpowers/wordtab/internal/unsafestring"
)

// homeIn returns the slot key hashes to in a table of n slots.
func (t *Table) homeIn(key string, n int) int {
	return int(t.hasher(unsafestring.ToBytes(key)) % uint64(n))
}

// lookup probes for key starting at its home slot.  It returns the slot
// holding key (found == true), or else the first empty slot on key's probe
// path, or -1 if every slot was visited without finding either.
func (t *Table) lookup(key string) (idx int, found bool) {
	n := len(t.slots)
	i := t.homeIn(key, n)
	for probes := 0; probes < n; probes++ {
		if !t.occupied.IsSet(i) {
			return i, false
		}
		if t.slots[i].key == key {
			return i, true
		}
		i = (i + 1) % n
	}
	return -1, false
}

// probeEmpty returns the first slot not set in occupied, starting from
// key's home, or -1 if there is none.  Used when rehashing, where keys are
// known to be unique.
func (t *Table) probeEmpty(key string, occupied *bitset.Bitset) int {
	n := occupied.Len()
	i := t.homeIn(key, n)
	for probes := 0; probes < n; probes++ {
		if !occupied.IsSet(i) {
			return i
		}
		i = (i + 1) % n
	}
	return -1
}

// backshift closes the hole left at slot hole by moving later members of
// the same probe cluster back, so that no key is separated from its home
// slot by an empty slot.  Trackers follow the entries they point at.
func (t *Table) backshift(hole int) {
	n := len(t.slots)
	j := hole
	for probes := 1; probes < n; probes++ {
		j = (j + 1) % n
		if !t.occupied.IsSet(j) {
			return
		}
		home := t.homeIn(t.slots[j].key, n)
		if cyclicallyWithin(hole, home, j) {
			// j is still reachable from its home without crossing the hole
			continue
		}
		t.slots[hole] = t.slots[j]
		t.occupied.Set(hole)
		if t.first == j {
			t.first = hole
		}
		if t.last == j {
			t.last = hole
		}
		t.clearSlot(j)
		hole = j
	}
}

// cyclicallyWithin reports whether x lies in the half-open ring interval (lo, hi].
func cyclicallyWithin(lo, x, hi int) bool {
	if lo <= hi {
		return lo < x && x <= hi
	}
	return lo < x || x <= hi
}
