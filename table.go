// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package wordtab

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bpowers/wordtab/internal/bitset"
	"github.com/bpowers/wordtab/internal/tablefile"
	"github.com/bpowers/wordtab/internal/zero"
)

const (
	// MaxKeyLen is the longest key that can be stored (and persisted).
	MaxKeyLen = tablefile.MaxKeyLen
	// MaxCapacity is the largest number of slots a table can grow to.
	MaxCapacity = tablefile.MaxCapacity
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrOverflow    = errors.New("table overflow: no empty slot")
	ErrEmpty       = errors.New("no tracked entry")
	ErrEmptyKey    = errors.New("empty key not supported")
	ErrKeyTooLong  = fmt.Errorf("keys are limited to %d bytes", MaxKeyLen)

	// ErrCorruptData is reported (through LoadResult.Err) when a table
	// file is truncated or malformed.
	ErrCorruptData = tablefile.ErrCorrupt
)

type slot struct {
	key   string
	value int32
}

// Entry is a key and its counter.
type Entry struct {
	Key   string
	Value int32
}

// Stats summarizes table occupancy.
type Stats struct {
	Count    int
	Capacity int
}

// Table is an open-addressed hash table from strings to int32 counters.
type Table struct {
	slots    []slot
	occupied *bitset.Bitset
	count    int
	// first and last are slot indices, -1 when not tracked
	first int
	last  int

	hasher func([]byte) uint64
	growth GrowthPolicy
	logger *slog.Logger
}

// New returns an empty table with capacity slots.
func New(capacity int, opts ...Option) (*Table, error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, fmt.Errorf("capacity %d out of range (1..%d)", capacity, MaxCapacity)
	}
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Table{
		slots:    make([]slot, capacity),
		occupied: bitset.New(capacity),
		first:    -1,
		last:     -1,
		hasher:   options.hasher,
		growth:   options.growth,
		logger:   options.logger,
	}, nil
}

// Insert sets key to value.  Overwriting an existing key leaves its slot
// and the first/last trackers alone; a new key becomes the last inserted
// (and the first, if nothing is tracked as first).
func (t *Table) Insert(key string, value int32) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	if len(key) > MaxKeyLen {
		return ErrKeyTooLong
	}

	idx, found := t.lookup(key)
	if found {
		t.slots[idx].value = value
		return nil
	}

	if t.count == len(t.slots) {
		if err := t.grow(); err != nil {
			return fmt.Errorf("grow: %w", err)
		}
		idx, _ = t.lookup(key)
	}
	if idx < 0 {
		return ErrOverflow
	}

	t.slots[idx] = slot{key: key, value: value}
	t.occupied.Set(idx)
	t.count++
	if t.first == -1 {
		t.first = idx
	}
	t.last = idx

	return nil
}

// Get returns the counter stored under key.
func (t *Table) Get(key string) (int32, error) {
	idx, found := t.lookup(key)
	if !found {
		return 0, ErrKeyNotFound
	}
	return t.slots[idx].value, nil
}

// Remove deletes key.  If key was tracked as first or last, that tracker
// is cleared rather than moved to a neighbor.
func (t *Table) Remove(key string) error {
	idx, found := t.lookup(key)
	if !found {
		return ErrKeyNotFound
	}

	t.clearSlot(idx)
	t.count--
	if idx == t.first {
		t.first = -1
	}
	if idx == t.last {
		t.last = -1
	}
	t.backshift(idx)

	return nil
}

// First returns the earliest inserted entry still tracked.
func (t *Table) First() (Entry, error) {
	return t.entryAt(t.first)
}

// Last returns the most recently inserted entry still tracked.
func (t *Table) Last() (Entry, error) {
	return t.entryAt(t.last)
}

func (t *Table) entryAt(idx int) (Entry, error) {
	if idx < 0 || !t.occupied.IsSet(idx) {
		return Entry{}, ErrEmpty
	}
	s := t.slots[idx]
	return Entry{Key: s.key, Value: s.value}, nil
}

func (t *Table) Stats() Stats {
	return Stats{
		Count:    t.count,
		Capacity: len(t.slots),
	}
}

// Len returns the number of stored keys.
func (t *Table) Len() int {
	return t.count
}

// Range calls fn for each entry in slot order until fn returns false.
func (t *Table) Range(fn func(Entry) bool) {
	for i, s := range t.slots {
		if !t.occupied.IsSet(i) {
			continue
		}
		if !fn(Entry{Key: s.key, Value: s.value}) {
			return
		}
	}
}

// Reset empties the table, keeping its current capacity.
func (t *Table) Reset() {
	zero.Slice(t.slots)
	t.occupied.Reset()
	t.count = 0
	t.first = -1
	t.last = -1
}

// ResetTo empties the table and sets its capacity to capacity slots.
func (t *Table) ResetTo(capacity int) error {
	if capacity <= 0 || capacity > MaxCapacity {
		return fmt.Errorf("capacity %d out of range (1..%d)", capacity, MaxCapacity)
	}
	if capacity == len(t.slots) {
		t.Reset()
		return nil
	}
	t.slots = make([]slot, capacity)
	t.occupied = bitset.New(capacity)
	t.count = 0
	t.first = -1
	t.last = -1
	return nil
}

func (t *Table) clearSlot(idx int) {
	t.slots[idx] = slot{}
	t.occupied.Clear(idx)
}
