// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package kdf derives a fixed-length symmetric key from a passphrase
// using scrypt.
package kdf

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// KeySize is the length in bytes of the derived key.
const KeySize = 32

// SaltSize is the length in bytes of the scrypt salt.
const SaltSize = 32

// MaxLog2N is the largest cost exponent this implementation will accept.
// scrypt's memory cost grows as 2^log2N * r * 128 bytes; above this bound
// a single derivation can exhaust memory on modest hardware.
const MaxLog2N = 20

// ErrInvalidParameters is returned when cost parameters are out of range.
var ErrInvalidParameters = errors.New("kdf: invalid parameters")

// Params are the scrypt cost parameters (log2_n, r, p).
type Params struct {
	Log2N uint8
	R     uint32
	P     uint32
}

// DefaultParams are the cost parameters used for newly created vaults.
func DefaultParams() Params {
	return Params{Log2N: 12, R: 8, P: 1}
}

// Validate checks that the parameters are in range, without deriving a
// key. Used by Store.Open before it attempts derivation.
func (p Params) Validate() error {
	if p.Log2N == 0 || p.Log2N > MaxLog2N {
		return fmt.Errorf("%w: log2_n=%d out of range (1..%d)", ErrInvalidParameters, p.Log2N, MaxLog2N)
	}
	if p.R == 0 {
		return fmt.Errorf("%w: r must be positive", ErrInvalidParameters)
	}
	if p.P == 0 {
		return fmt.Errorf("%w: p must be positive", ErrInvalidParameters)
	}
	return nil
}

// Derive runs scrypt(passphrase, salt, 2^log2N, r, p, KeySize).
func Derive(passphrase []byte, salt []byte, params Params) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrInvalidParameters, SaltSize, len(salt))
	}

	n := uint64(1) << params.Log2N
	key, err := scrypt.Key(passphrase, salt, int(n), int(params.R), int(params.P), KeySize)
	if err != nil {
		return nil, fmt.Errorf("kdf: scrypt: %w", err)
	}
	return key, nil
}
