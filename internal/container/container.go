// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package container parses and emits the vault's binary on-disk framing:
//
//	version(4) | log2_n(1) | r(4) | p(4) | salt(32) | iv(16) | mac(64) | ciphertext(>=16)
//
// Header is exactly 125 bytes before the ciphertext. All fields are
// fixed-size and there are no separators or trailing bytes.
package container

import (
	"encoding/binary"
	"errors"
	"io"
)

// CurrentVersion is the only container version this implementation
// accepts.
const CurrentVersion uint32 = 2

const (
	saltSize = 32
	ivSize   = 16
	macSize  = 64

	// HeaderSize is the number of bytes preceding the ciphertext.
	HeaderSize = 4 + 1 + 4 + 4 + saltSize + ivSize + macSize // 125
)

// ErrWrongVersion is returned when the version field is not CurrentVersion.
var ErrWrongVersion = errors.New("container: wrong version")

// Header holds every container field except the ciphertext.
type Header struct {
	Version uint32
	Log2N   uint8
	R       uint32
	P       uint32
	Salt    [saltSize]byte
	IV      [ivSize]byte
	MACTag  [macSize]byte
}

// Container is a fully parsed (or about-to-be-emitted) vault file.
type Container struct {
	Header
	Ciphertext []byte
}

// fieldReader consolidates short-read handling: every fixed-size header
// field is read through this one helper so a file truncated anywhere in
// the header produces the same unified io error.
type fieldReader struct {
	r   io.Reader
	err error
}

func (f *fieldReader) read(buf []byte) {
	if f.err != nil {
		return
	}
	_, err := io.ReadFull(f.r, buf)
	if err != nil {
		f.err = ErrUnexpectedEOF
	}
}

// ErrUnexpectedEOF is the detail surfaced for any short read of a header
// field, deliberately not distinguishing an empty file from a mid-header
// truncation. The ciphertext is whatever follows the header, so a
// truncated ciphertext is not detected here.
var ErrUnexpectedEOF = errors.New("unexpected eof")

// Parse reads a complete container from r. The version field is checked
// first and, if wrong, ErrWrongVersion is returned immediately without
// reading the remainder. Ordering this ahead of corruption/decryption/JSON
// failures is the caller's job (see Store.Open); this function only
// reports parse-level failures.
func Parse(r io.Reader) (*Container, error) {
	fr := &fieldReader{r: r}

	var c Container

	var versionBuf [4]byte
	fr.read(versionBuf[:])
	if fr.err != nil {
		return nil, fr.err
	}
	c.Version = binary.BigEndian.Uint32(versionBuf[:])
	if c.Version != CurrentVersion {
		return nil, ErrWrongVersion
	}

	var log2NBuf [1]byte
	fr.read(log2NBuf[:])
	c.Log2N = log2NBuf[0]

	var rBuf, pBuf [4]byte
	fr.read(rBuf[:])
	c.R = binary.BigEndian.Uint32(rBuf[:])
	fr.read(pBuf[:])
	c.P = binary.BigEndian.Uint32(pBuf[:])

	fr.read(c.Salt[:])
	fr.read(c.IV[:])
	fr.read(c.MACTag[:])
	if fr.err != nil {
		return nil, fr.err
	}

	// The ciphertext is whatever remains after the fixed-size header; its
	// length (must be a positive multiple of 16) is validated by the
	// cipher layer as a DecryptionError, not here — this codec only
	// frames bytes, it doesn't know about block sizes.
	ciphertext, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrUnexpectedEOF
	}
	c.Ciphertext = ciphertext

	return &c, nil
}

// Emit writes the container's fields in their fixed on-disk order.
func Emit(w io.Writer, c *Container) error {
	var versionBuf [4]byte
	binary.BigEndian.PutUint32(versionBuf[:], c.Version)
	if _, err := w.Write(versionBuf[:]); err != nil {
		return err
	}

	if _, err := w.Write([]byte{c.Log2N}); err != nil {
		return err
	}

	var rBuf, pBuf [4]byte
	binary.BigEndian.PutUint32(rBuf[:], c.R)
	if _, err := w.Write(rBuf[:]); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(pBuf[:], c.P)
	if _, err := w.Write(pBuf[:]); err != nil {
		return err
	}

	if _, err := w.Write(c.Salt[:]); err != nil {
		return err
	}
	if _, err := w.Write(c.IV[:]); err != nil {
		return err
	}
	if _, err := w.Write(c.MACTag[:]); err != nil {
		return err
	}
	if _, err := w.Write(c.Ciphertext); err != nil {
		return err
	}
	return nil
}
