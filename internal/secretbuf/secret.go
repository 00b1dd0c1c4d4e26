// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package secretbuf holds owned byte containers for sensitive material —
// the master passphrase, the derived key, decrypted JSON, record
// passwords — and guarantees the backing memory is zeroed before it is
// released to the allocator.
package secretbuf

import "crypto/subtle"

// Bytes is an owned, erasure-guaranteeing byte buffer.
type Bytes struct {
	data []byte
}

// NewBytes takes ownership of b. Callers must not retain or mutate b
// after calling NewBytes; use Clone if an independent copy is needed.
func NewBytes(b []byte) *Bytes {
	return &Bytes{data: b}
}

// Bytes returns the buffer's contents. The returned slice aliases the
// buffer's internal storage and becomes invalid after Release.
func (b *Bytes) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Len reports the buffer's length.
func (b *Bytes) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Clone returns an independent Bytes with the same contents and its own
// erasure contract.
func (b *Bytes) Clone() *Bytes {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return &Bytes{data: cp}
}

// Release zeroes the buffer's backing storage. It is safe to call
// multiple times and on a nil receiver.
func (b *Bytes) Release() {
	if b == nil {
		return
	}
	zero(b.data)
	b.data = nil
}

// String is an owned, erasure-guaranteeing UTF-8 text buffer.
type String struct {
	data []byte
}

// NewString copies s into a new buffer. Release zeroes that copy; the
// string s itself is immutable and is not erased.
func NewString(s string) *String {
	return &String{data: []byte(s)}
}

// Bytes returns the buffer's UTF-8 bytes. The returned slice aliases the
// buffer's internal storage and becomes invalid after Release.
func (s *String) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.data
}

// String materializes the buffer's contents as a string. The caller is
// responsible for not retaining the result past Release if erasure
// matters for that copy too; Go strings are immutable and cannot be
// zeroed in place.
func (s *String) String() string {
	if s == nil {
		return ""
	}
	return string(s.data)
}

// Clone returns an independent String with the same contents.
func (s *String) Clone() *String {
	if s == nil {
		return nil
	}
	cp := make([]byte, len(s.data))
	copy(cp, s.data)
	return &String{data: cp}
}

// Release zeroes the buffer's backing storage.
func (s *String) Release() {
	if s == nil {
		return
	}
	zero(s.data)
	s.data = nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeEqual reports whether two secret buffers hold identical
// bytes, without leaking timing information about the first differing
// byte.
func ConstantTimeEqual(a, b *Bytes) bool {
	if a.Len() != b.Len() {
		return false
	}
	return subtle.ConstantTimeCompare(a.Bytes(), b.Bytes()) == 1
}
