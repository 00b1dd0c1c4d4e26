// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package passvault implements an encrypted local password vault: a
// binary on-disk container format, the key-derivation and
// authenticated-encryption pipeline that produces and consumes it, and
// the in-memory Store that holds the decrypted record list. The
// command-line surface (cmd/passvault) is an external collaborator
// built on top of this package; it is never where vault semantics live.
package passvault

import (
	"bytes"
	"fmt"
	"io"

	"github.com/kgiusti/passvault/internal/aescbc"
	"github.com/kgiusti/passvault/internal/authcode"
	"github.com/kgiusti/passvault/internal/container"
	"github.com/kgiusti/passvault/internal/kdf"
	"github.com/kgiusti/passvault/internal/rng"
	"github.com/kgiusti/passvault/internal/secretbuf"
)

// Store is the in-memory, unlocked vault: the derived key, the KDF
// parameters and salt it was derived with, and the current record list.
// A Store is not safe for concurrent use from multiple goroutines; the
// caller must arrange its own mutual exclusion.
type Store struct {
	key     *secretbuf.Bytes // 32 bytes, derived from the master passphrase
	params  kdf.Params
	salt    [kdf.SaltSize]byte
	records []Record
}

// Create draws a fresh salt, derives a key from masterPassphrase with the
// default KDF parameters (12, 8, 1), and returns a Store with an empty
// record list.
func Create(masterPassphrase string) (*Store, error) {
	salt, err := rng.New(kdf.SaltSize)
	if err != nil {
		return nil, ioErrorf("generating salt", err)
	}

	params := kdf.DefaultParams()
	key, err := kdf.Derive([]byte(masterPassphrase), salt, params)
	if err != nil {
		return nil, err
	}

	s := &Store{
		key:     secretbuf.NewBytes(key),
		params:  params,
		records: []Record{},
	}
	copy(s.salt[:], salt)
	return s, nil
}

// Open parses bytes as a vault container, derives the key from the
// embedded salt and KDF parameters, verifies the MAC, decrypts the
// ciphertext, and parses the resulting JSON into a record list.
//
// Verification happens in this exact order and MUST NOT be reordered:
// version -> KDF parameter validity -> MAC -> decrypt -> JSON parse. The
// first failing check determines the returned error.
func Open(masterPassphrase string, data []byte) (*Store, error) {
	c, err := container.Parse(bytes.NewReader(data))
	if err != nil {
		return openParseError(err)
	}

	params := kdf.Params{Log2N: c.Log2N, R: c.R, P: c.P}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	key, err := kdf.Derive([]byte(masterPassphrase), c.Salt[:], params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	if !authcode.Verify(key, c.Version, c.Log2N, c.R, c.P, c.IV[:], c.Salt[:], c.Ciphertext, c.MACTag[:]) {
		return nil, ErrCorruption
	}

	plaintext, err := aescbc.Decrypt(key, c.IV[:], c.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	secretPlaintext := secretbuf.NewBytes(plaintext)
	defer secretPlaintext.Release()

	records, err := decodeRecords(secretPlaintext.Bytes())
	if err != nil {
		return nil, err
	}

	s := &Store{
		key:     secretbuf.NewBytes(key),
		params:  params,
		records: records,
	}
	copy(s.salt[:], c.Salt[:])
	return s, nil
}

func openParseError(err error) (*Store, error) {
	if err == container.ErrWrongVersion {
		return nil, ErrWrongVersion
	}
	if err == container.ErrUnexpectedEOF {
		return nil, unexpectedEOF()
	}
	return nil, ioErrorf("parsing container", err)
}

// List returns the record list in insertion order. The returned slice
// aliases the Store's internal storage; callers must not mutate it.
func (s *Store) List() []Record {
	return s.records
}

// Get returns the first record whose name equals name under Unicode
// case-insensitive comparison, or false if none matches. The search is
// linear and returns a by-value clone independent of the Store's copy.
func (s *Store) Get(name string) (Record, bool) {
	for _, r := range s.records {
		if namesEqual(r.Name, name) {
			return r, true
		}
	}
	return Record{}, false
}

// Has reports whether a record with the given name exists.
func (s *Store) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Add appends record to the list. Fails with ErrAppExists if a record
// with the same case-insensitive name is already present.
func (s *Store) Add(record Record) error {
	if s.Has(record.Name) {
		return ErrAppExists
	}
	s.records = append(s.records, record)
	return nil
}

// Delete removes and returns the record matched by Get's rule. Fails
// with ErrNoSuchApp if no record matches.
func (s *Store) Delete(name string) (Record, error) {
	for i, r := range s.records {
		if namesEqual(r.Name, name) {
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			return r, nil
		}
	}
	return Record{}, ErrNoSuchApp
}

// Rekey re-derives the store's key from newPassphrase, reusing the
// existing salt and KDF parameters. The record list is unaffected; the
// on-disk container is only rewritten on the next Sync.
func (s *Store) Rekey(newPassphrase string) error {
	key, err := kdf.Derive([]byte(newPassphrase), s.salt[:], s.params)
	if err != nil {
		return err
	}
	old := s.key
	s.key = secretbuf.NewBytes(key)
	old.Release()
	return nil
}

// Sync truncates file to zero length and writes a complete, freshly
// encrypted container: a new IV, the current record list re-encoded as
// JSON, AES-256-CBC encryption, the HMAC-SHA-512 tag, and the header
// fields in their on-disk order. It does not attempt a crash-safe
// rewrite (no temp-file-and-rename); a failure between truncate and the
// final flush leaves the file in an undefined state.
func (s *Store) Sync(file interface {
	io.Writer
	io.Seeker
	Truncate(size int64) error
	Sync() error
}) error {
	plaintext, err := encodeRecords(s.records)
	if err != nil {
		return err
	}
	secretPlaintext := secretbuf.NewBytes(plaintext)
	defer secretPlaintext.Release()

	iv, err := rng.New(aescbc.IVSize)
	if err != nil {
		return ioErrorf("generating iv", err)
	}

	ciphertext, err := aescbc.Encrypt(s.key.Bytes(), iv, secretPlaintext.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncryption, err)
	}

	var ivArr [aescbc.IVSize]byte
	copy(ivArr[:], iv)

	tag := authcode.Tag(s.key.Bytes(), container.CurrentVersion, s.params.Log2N, s.params.R, s.params.P, iv, s.salt[:], ciphertext)

	c := &container.Container{
		Header: container.Header{
			Version: container.CurrentVersion,
			Log2N:   s.params.Log2N,
			R:       s.params.R,
			P:       s.params.P,
			IV:      ivArr,
		},
		Ciphertext: ciphertext,
	}
	copy(c.Salt[:], s.salt[:])
	copy(c.MACTag[:], tag)

	if err := file.Truncate(0); err != nil {
		return ioErrorf("truncating file", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return ioErrorf("seeking file", err)
	}
	if err := container.Emit(file, c); err != nil {
		return ioErrorf("writing container", err)
	}
	if err := file.Sync(); err != nil {
		return ioErrorf("flushing file", err)
	}
	return nil
}

// Close zeroes the Store's derived key and releases its record list.
// Callers should call Close when done with a Store; there is no
// automatic finalizer, since Go provides no deterministic destructors,
// so erasure here is best-effort. Record passwords held as plain Go
// strings cannot be zeroed in place; that is a limitation of the host
// language's string type, not of this method.
func (s *Store) Close() {
	s.key.Release()
	s.records = nil
}
