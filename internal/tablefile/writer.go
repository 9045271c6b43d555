// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tablefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const (
	defaultBufferSize = 4 * 1024 * 1024
)

type nopWriter struct{}

func (nopWriter) Write([]byte) (int, error) {
	return 0, io.EOF
}

// Writer streams a table out slot by slot.  Exactly Capacity slots must be
// written before Finish.
type Writer struct {
	w        *bufio.Writer
	h        FileHeader
	written  int32
	finished bool
}

func NewWriter(f io.Writer, h FileHeader) (*Writer, error) {
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}
	w := &Writer{
		w: bufio.NewWriterSize(f, defaultBufferSize),
		h: h,
	}

	if _, err := w.h.WriteTo(w.w); err != nil {
		return nil, fmt.Errorf("fileHeader.WriteTo: %w", err)
	}

	// try to expose errors when writing to the backing file early
	if err := w.w.Flush(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}

	return w, nil
}

// WriteSlot appends the next slot.  Empty slots should pass an empty key
// and a zero value.
func (w *Writer) WriteSlot(key string, value int32, occupied bool) error {
	if w.finished {
		return errors.New("write after Finish")
	}
	if w.written >= w.h.Capacity {
		return fmt.Errorf("slot %d beyond capacity %d", w.written, w.h.Capacity)
	}
	if len(key) > MaxKeyLen {
		return fmt.Errorf("key %q too long", key)
	}
	if occupied && len(key) == 0 {
		return fmt.Errorf("slot %d: empty key not supported", w.written)
	}

	var buf [4]byte
	byteOrder.PutUint32(buf[:], uint32(len(key)))
	if _, err := w.w.Write(buf[:]); err != nil {
		return fmt.Errorf("bufio.Write 1: %w", err)
	}
	if _, err := w.w.WriteString(key); err != nil {
		return fmt.Errorf("bufio.Write 2: %w", err)
	}
	byteOrder.PutUint32(buf[:], uint32(value))
	if _, err := w.w.Write(buf[:]); err != nil {
		return fmt.Errorf("bufio.Write 3: %w", err)
	}
	var occ byte
	if occupied {
		occ = 1
	}
	if err := w.w.WriteByte(occ); err != nil {
		return fmt.Errorf("bufio.Write 4: %w", err)
	}

	w.written++
	return nil
}

// Finish flushes buffered slots.  It fails if fewer slots than the header's
// capacity were written, since the file would not load back completely.
func (w *Writer) Finish() error {
	if w.finished {
		// nothing to do - already cleaned up
		return nil
	}
	w.finished = true

	defer func() {
		w.w.Reset(nopWriter{})
	}()

	if w.written != w.h.Capacity {
		return fmt.Errorf("wrote %d slots, header promises %d", w.written, w.h.Capacity)
	}

	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("bufio.Flush: %w", err)
	}

	return nil
}
