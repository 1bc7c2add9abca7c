// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package sliceedit extends the functionalities of rsc.io/edit to
// implement efficient buffered editing of content specification text.
// Edits are queued against the original slice and applied in one pass,
// so offsets passed to Delete always refer to the original data.
package sliceedit

import (
	"bytes"

	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given byte slice.
type Buffer struct {
	ed    *edit.Buffer
	buf   []byte
	edits int
}

// NewBuffer returns a new buffer to accumulate changes to an initial data slice.
// The returned buffer maintains a reference to the data, so the caller must ensure
// the data is not modified until after the Buffer is done being used.
func NewBuffer(buf []byte) *Buffer {
	return &Buffer{
		buf: buf,
		ed:  edit.NewBuffer(buf),
	}
}

// NewBufferString is like NewBuffer but takes a string.
func NewBufferString(s string) *Buffer {
	return NewBuffer([]byte(s))
}

// FindAll finds all non-overlapping instances of item in buf.
func FindAll(buf []byte, item string) []int {
	found := []int{}

	if len(item) == 0 {
		return found
	}

	realOffset := 0

	for {
		i := bytes.Index(buf, []byte(item))
		if i == -1 {
			return found
		}
		found = append(found, i+realOffset)
		buf = buf[i+len(item):]
		realOffset = realOffset + i + len(item)
	}
}

// Delete queues the deletion of the original bytes in [start, end).
// Overlapping edits make Bytes panic, as in rsc.io/edit.
func (b *Buffer) Delete(start, end int) {
	b.ed.Delete(start, end)
	b.edits++
}

// DeleteAllString deletes every instance of s.
func (b *Buffer) DeleteAllString(s string) {
	hits := FindAll(b.buf, s)
	for _, hit := range hits {
		b.Delete(hit, hit+len(s))
	}
}

// Modified reports whether any edit has been queued.
func (b *Buffer) Modified() bool {
	return b.edits > 0
}

// Bytes returns a new byte slice containing the original data
// with the queued edits applied.
func (b *Buffer) Bytes() []byte {
	if b.edits == 0 {
		return bytes.Clone(b.buf)
	}
	return b.ed.Bytes()
}

// String returns a string containing the original data
// with the queued edits applied.
func (b *Buffer) String() string {
	if b.edits == 0 {
		return string(b.buf)
	}
	return b.ed.String()
}
