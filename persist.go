// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package wordtab

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bpowers/wordtab/internal/bitset"
	"github.com/bpowers/wordtab/internal/seqread"
	"github.com/bpowers/wordtab/internal/tablefile"
)

// LoadStatus says how much of a table file Load was able to use.
type LoadStatus uint8

const (
	// LoadMissing means the file doesn't exist or couldn't be opened.
	LoadMissing LoadStatus = iota
	// LoadRejected means the header was unreadable; the table is unchanged.
	LoadRejected
	// LoadPartial means the header was fine but the body was truncated or
	// malformed.  Slots decoded before the problem were kept.
	LoadPartial
	// LoadComplete means every slot was read back.
	LoadComplete
)

func (s LoadStatus) String() string {
	switch s {
	case LoadMissing:
		return "missing"
	case LoadRejected:
		return "rejected"
	case LoadPartial:
		return "partial"
	case LoadComplete:
		return "complete"
	default:
		return fmt.Sprintf("LoadStatus(%d)", uint8(s))
	}
}

// LoadResult is the outcome of Load.
type LoadResult struct {
	Status LoadStatus
	// Slots is the number of slots decoded from the file.
	Slots int
	// Err is nil for LoadComplete.  For LoadRejected and LoadPartial it
	// wraps ErrCorruptData; for LoadMissing it is the open error.
	Err error
}

// Loaded reports whether the table now holds the file's contents, in full
// or in part.  Callers that need the whole table must check for
// LoadComplete instead.
func (r LoadResult) Loaded() bool {
	return r.Status == LoadPartial || r.Status == LoadComplete
}

func (t *Table) header() tablefile.FileHeader {
	return tablefile.FileHeader{
		Capacity: int32(len(t.slots)),
		Count:    int32(t.count),
		First:    int32(t.first),
		Last:     int32(t.last),
	}
}

// Save writes the whole table, empty slots included, to path.  The file is
// written next to path and renamed into place once complete.
func (t *Table) Save(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("filepath.Abs: %w", err)
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "wordtab.*.tmp")
	if err != nil {
		return fmt.Errorf("CreateTemp failed (may need permissions for dir %q containing table): %w", dir, err)
	}
	tmpPath := f.Name()
	ok := false
	defer func() {
		if !ok {
			_ = f.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	w, err := tablefile.NewWriter(f, t.header())
	if err != nil {
		return fmt.Errorf("tablefile.NewWriter: %w", err)
	}
	for i, s := range t.slots {
		if err := w.WriteSlot(s.key, s.value, t.occupied.IsSet(i)); err != nil {
			return fmt.Errorf("WriteSlot(%d): %w", i, err)
		}
	}
	if err := w.Finish(); err != nil {
		return fmt.Errorf("tablefile.Finish: %w", err)
	}

	if err = f.Sync(); err != nil {
		return fmt.Errorf("f.Sync: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("f.Close: %w", err)
	}
	if err = os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("os.Chmod(0644): %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}
	ok = true

	t.logger.Info("table saved", "path", path, "count", t.count, "capacity", len(t.slots))
	return nil
}

// Load replaces the table's contents with the table stored at path.
//
// A truncated or malformed body still replaces the table (LoadPartial):
// the slots read before the problem are kept, count is recomputed from
// them, and trackers pointing at slots that were not recovered are unset.
// Only a missing file or an unreadable header leaves the table untouched.
func (t *Table) Load(path string) LoadResult {
	f, err := seqread.Open(path)
	if err != nil {
		return LoadResult{Status: LoadMissing, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	r, err := tablefile.NewReader(f)
	if err != nil {
		t.logger.Warn("table file rejected", "path", path, "err", err)
		return LoadResult{Status: LoadRejected, Err: err}
	}

	h := r.Header()
	capacity := int(h.Capacity)
	slots := make([]slot, capacity)
	occupied := bitset.New(capacity)

	result := LoadResult{Status: LoadComplete}
	for {
		s, err := r.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			result.Status = LoadPartial
			result.Err = err
			break
		}
		if s.Occupied {
			slots[s.Index] = slot{key: s.Key, value: s.Value}
			occupied.Set(s.Index)
		}
		result.Slots++
	}

	t.slots = slots
	t.occupied = occupied
	t.count = occupied.Count()
	t.first = int(h.First)
	t.last = int(h.Last)

	// the header has to agree with what we actually decoded
	if result.Status == LoadComplete && t.count != int(h.Count) {
		result.Status = LoadPartial
		result.Err = fmt.Errorf("%w: header count %d, but %d occupied slots", ErrCorruptData, h.Count, t.count)
	}
	for _, tracker := range []*int{&t.first, &t.last} {
		if *tracker >= 0 && !occupied.IsSet(*tracker) {
			*tracker = -1
			if result.Status == LoadComplete {
				result.Status = LoadPartial
				result.Err = fmt.Errorf("%w: tracked slot is empty", ErrCorruptData)
			}
		}
	}

	if result.Status == LoadPartial {
		// holes where slots were lost can cut keys off from their home
		// slot, so re-place what survived
		if _, err := t.rehash(capacity); err != nil {
			result.Err = fmt.Errorf("%w (rehash: %v)", result.Err, err)
		}
		t.logger.Warn("table file corrupt; keeping slots read so far",
			"path", path, "slots", result.Slots, "capacity", capacity, "count", t.count, "err", result.Err)
	} else {
		t.logger.Info("table loaded", "path", path, "count", t.count, "capacity", capacity)
	}
	return result
}
