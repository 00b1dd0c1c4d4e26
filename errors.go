// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package passvault

import (
	"errors"
	"fmt"
)

// Sentinel errors for the vault's error taxonomy. Callers must compare
// against these with errors.Is, never by matching error strings.
var (
	// ErrWrongVersion is returned when a container's version field is not 2.
	ErrWrongVersion = errors.New("passvault: wrong container version")

	// ErrCorruption is returned when MAC verification fails on Open.
	ErrCorruption = errors.New("passvault: MAC verification failed")

	// ErrDecryption is returned when the cipher layer rejects the
	// ciphertext (bad padding, wrong length).
	ErrDecryption = errors.New("passvault: decryption failed")

	// ErrEncryption is returned when the cipher layer fails to encrypt.
	ErrEncryption = errors.New("passvault: encryption failed")

	// ErrInvalidJSON is returned when the decrypted plaintext does not
	// parse against the record schema, or when re-encoding the current
	// record list fails.
	ErrInvalidJSON = errors.New("passvault: invalid record JSON")

	// ErrAppExists is returned by Add when a record with the same
	// case-insensitive name already exists.
	ErrAppExists = errors.New("passvault: record already exists")

	// ErrNoSuchApp is returned by Delete when no record matches the name.
	ErrNoSuchApp = errors.New("passvault: no such record")

	// ErrInvalidParameters is returned when KDF cost parameters are out
	// of range.
	ErrInvalidParameters = errors.New("passvault: invalid KDF parameters")
)

// IoError wraps any OS or stream error encountered while reading or
// writing a container, including short reads ("unexpected eof").
type IoError struct {
	Detail string
	Err    error
}

func (e *IoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("passvault: io: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("passvault: io: %s", e.Detail)
}

func (e *IoError) Unwrap() error { return e.Err }

// errIo is the sentinel target for errors.Is(err, passvault.ErrIo).
var errIo = errors.New("passvault: io error")

// ErrIo is matched by errors.Is against any *IoError, regardless of detail.
var ErrIo = errIo

func (e *IoError) Is(target error) bool { return target == errIo }

func ioErrorf(detail string, err error) error {
	return &IoError{Detail: detail, Err: err}
}

func unexpectedEOF() error {
	return &IoError{Detail: "unexpected eof"}
}
