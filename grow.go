// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package wordtab

import (
	"fmt"
	"math"

	"github.com/bpowers/wordtab/internal/bitset"
)

// DefaultGrowth adds 2000 slots each time the table fills.  Additive growth
// costs O(n²) total rehash work over n inserts; use Multiplicative for
// large inputs.
const DefaultGrowth = Additive(2000)

// GrowthPolicy returns the capacity to grow to from a full table of
// capacity slots.  Results not larger than capacity are treated as
// capacity+1.
type GrowthPolicy interface {
	Next(capacity int) int
}

// Additive grows by a fixed number of slots.
type Additive int

func (a Additive) Next(capacity int) int {
	return capacity + int(a)
}

func (a Additive) String() string {
	return fmt.Sprintf("additive(+%d)", int(a))
}

// Multiplicative grows by a constant factor.
type Multiplicative float64

func (m Multiplicative) Next(capacity int) int {
	next := math.Ceil(float64(capacity) * float64(m))
	if next > MaxCapacity+1 || math.IsNaN(next) {
		return MaxCapacity + 1
	}
	return int(next)
}

func (m Multiplicative) String() string {
	return fmt.Sprintf("multiplicative(x%g)", float64(m))
}

// grow moves every entry into a larger slot array.  Entries are rehashed in
// old slot order, so afterwards last points at whichever entry was moved
// last, not necessarily the most recently inserted one.
func (t *Table) grow() error {
	oldCap := len(t.slots)
	newCap := t.growth.Next(oldCap)
	if newCap <= oldCap {
		newCap = oldCap + 1
	}
	if newCap > MaxCapacity {
		return fmt.Errorf("%w: can't grow past %d slots", ErrOverflow, MaxCapacity)
	}

	moved, err := t.rehash(newCap)
	if err != nil {
		return err
	}
	t.last = moved

	t.logger.Info("table resized", "from", oldCap, "to", newCap, "count", t.count)
	return nil
}

// rehash re-places every entry into a fresh array of capacity slots, in
// old slot order.  Trackers follow their entries.  It returns the new
// index of the entry placed last, or -1 if the table is empty.
func (t *Table) rehash(capacity int) (int, error) {
	slots := make([]slot, capacity)
	occupied := bitset.New(capacity)
	first, last, moved := -1, -1, -1
	for i, s := range t.slots {
		if !t.occupied.IsSet(i) {
			continue
		}
		j := t.probeEmpty(s.key, occupied)
		if j < 0 {
			return -1, ErrOverflow
		}
		slots[j] = s
		occupied.Set(j)
		if i == t.first {
			first = j
		}
		if i == t.last {
			last = j
		}
		moved = j
	}

	t.slots = slots
	t.occupied = occupied
	t.first = first
	t.last = last
	return moved, nil
}
