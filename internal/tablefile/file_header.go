// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tablefile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	fileHeaderSize = 4 * 4 // capacity + count + first index + last index

	// MaxKeyLen is the longest key a slot may hold.
	MaxKeyLen = 1000
	// MaxCapacity bounds the slot count accepted from a file header, so a
	// garbage header can't make us allocate an enormous table.
	MaxCapacity = 1 << 26
)

var (
	// ErrCorrupt is returned when a table file can't be decoded.
	ErrCorrupt = errors.New("corrupt table file")

	byteOrder = binary.NativeEndian
)

// FileHeader describes the table stored in the rest of the file.  First
// and Last are slot indices, or -1 when not tracked.
type FileHeader struct {
	Capacity int32
	Count    int32
	First    int32
	Last     int32
}

// Validate checks that the header describes a table we are willing to load.
func (h *FileHeader) Validate() error {
	if h.Capacity <= 0 || h.Capacity > MaxCapacity {
		return fmt.Errorf("capacity %d out of range (1..%d)", h.Capacity, MaxCapacity)
	}
	if h.Count < 0 || h.Count > h.Capacity {
		return fmt.Errorf("count %d out of range (0..%d)", h.Count, h.Capacity)
	}
	if h.First < -1 || h.First >= h.Capacity {
		return fmt.Errorf("first index %d out of range", h.First)
	}
	if h.Last < -1 || h.Last >= h.Capacity {
		return fmt.Errorf("last index %d out of range", h.Last)
	}
	return nil
}

func (h *FileHeader) MarshalTo(b []byte) error {
	if len(b) < fileHeaderSize {
		return fmt.Errorf("header buffer too short: %d < %d", len(b), fileHeaderSize)
	}
	byteOrder.PutUint32(b[0:4], uint32(h.Capacity))
	byteOrder.PutUint32(b[4:8], uint32(h.Count))
	byteOrder.PutUint32(b[8:12], uint32(h.First))
	byteOrder.PutUint32(b[12:16], uint32(h.Last))
	return nil
}

func (h *FileHeader) WriteTo(w io.Writer) (n int64, err error) {
	var headerBuf [fileHeaderSize]byte
	if err = h.MarshalTo(headerBuf[:]); err != nil {
		return 0, err
	}
	if _, err = w.Write(headerBuf[:]); err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}
	return int64(fileHeaderSize), nil
}

// UnmarshalBytes decodes a header.  It does not validate it.
func (h *FileHeader) UnmarshalBytes(headerBytes []byte) error {
	if len(headerBytes) < fileHeaderSize {
		return fmt.Errorf("headerBytes too short: %d < %d", len(headerBytes), fileHeaderSize)
	}

	h.Capacity = int32(byteOrder.Uint32(headerBytes[0:4]))
	h.Count = int32(byteOrder.Uint32(headerBytes[4:8]))
	h.First = int32(byteOrder.Uint32(headerBytes[8:12]))
	h.Last = int32(byteOrder.Uint32(headerBytes[12:16]))

	return nil
}
