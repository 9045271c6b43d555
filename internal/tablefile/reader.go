// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tablefile

import (
	"bufio"
	"fmt"
	"io"
)

// Slot is a single decoded table slot.
type Slot struct {
	Index    int
	Key      string
	Value    int32
	Occupied bool
}

// Reader decodes a table file sequentially.
type Reader struct {
	r    *bufio.Reader
	h    FileHeader
	next int32
}

// NewReader reads and validates the file header.  Any failure here wraps
// ErrCorrupt.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, defaultBufferSize)

	var headerBuf [fileHeaderSize]byte
	if _, err := io.ReadFull(br, headerBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrCorrupt, err)
	}

	var h FileHeader
	if err := h.UnmarshalBytes(headerBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("%w: bad header: %v", ErrCorrupt, err)
	}

	return &Reader{
		r: br,
		h: h,
	}, nil
}

func (r *Reader) Header() FileHeader {
	return r.h
}

// Next decodes the next slot.  It returns io.EOF (unwrapped) once all
// Capacity slots have been read, and an error wrapping ErrCorrupt if the
// slot is truncated or malformed.  Reading stops being useful after the
// first ErrCorrupt.
func (r *Reader) Next() (Slot, error) {
	i := r.next
	if i >= r.h.Capacity {
		return Slot{}, io.EOF
	}

	var buf [4]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return Slot{}, fmt.Errorf("%w: slot %d: reading key length: %v", ErrCorrupt, i, err)
	}
	keyLen := int32(byteOrder.Uint32(buf[:]))
	if keyLen < 0 || keyLen > MaxKeyLen {
		return Slot{}, fmt.Errorf("%w: slot %d: invalid key length %d", ErrCorrupt, i, keyLen)
	}

	var key string
	if keyLen > 0 {
		keyBuf := make([]byte, keyLen)
		if _, err := io.ReadFull(r.r, keyBuf); err != nil {
			return Slot{}, fmt.Errorf("%w: slot %d: reading key: %v", ErrCorrupt, i, err)
		}
		key = string(keyBuf)
	}

	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return Slot{}, fmt.Errorf("%w: slot %d: reading value: %v", ErrCorrupt, i, err)
	}
	value := int32(byteOrder.Uint32(buf[:]))

	occ, err := r.r.ReadByte()
	if err != nil {
		return Slot{}, fmt.Errorf("%w: slot %d: reading occupied flag: %v", ErrCorrupt, i, err)
	}
	occupied := occ == 1
	if occupied && keyLen == 0 {
		return Slot{}, fmt.Errorf("%w: slot %d: occupied slot with empty key", ErrCorrupt, i)
	}

	r.next++
	return Slot{
		Index:    int(i),
		Key:      key,
		Value:    value,
		Occupied: occupied,
	}, nil
}
