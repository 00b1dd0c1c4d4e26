// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package aescbc implements AES-256-CBC with PKCS#7 padding under a
// caller-supplied 16-byte IV. Every decryption failure, whether bad
// padding or a ciphertext of the wrong length, wraps the single
// ErrDecrypt sentinel.
package aescbc

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

// KeySize is the required key length for AES-256.
const KeySize = 32

// IVSize is the AES block size, and therefore the IV length.
const IVSize = aes.BlockSize // 16

// ErrDecrypt is returned when ciphertext is malformed: wrong length,
// truncated, or bearing invalid padding.
var ErrDecrypt = errors.New("aescbc: decryption failed")

// ErrEncrypt is returned when encryption cannot proceed (bad key/IV
// length). With correct inputs this is unreachable.
var ErrEncrypt = errors.New("aescbc: encryption failed")

// Encrypt pads plaintext with PKCS#7 to a multiple of the block size and
// encrypts it under key/iv. The returned ciphertext length is always a
// multiple of 16.
func Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes", ErrEncrypt, KeySize)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes", ErrEncrypt, IVSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypt, err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt decrypts ciphertext under key/iv and strips PKCS#7 padding.
// Fails with ErrDecrypt if the ciphertext length is not a multiple of
// the block size, if it is empty, or if the padding is invalid.
func Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes", ErrDecrypt, KeySize)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes", ErrDecrypt, IVSize)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d", ErrDecrypt, len(ciphertext), aes.BlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	return pkcs7Unpad(padded, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(append([]byte(nil), data...), padding...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	if n == 0 || n%blockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padded length %d", ErrDecrypt, n)
	}

	padLen := int(data[n-1])
	if padLen == 0 || padLen > blockSize || padLen > n {
		return nil, fmt.Errorf("%w: invalid padding length", ErrDecrypt)
	}

	// Validate every padding byte without leaking which byte first
	// mismatched: accumulate a mismatch bitmask rather than returning
	// on the first bad byte.
	var mismatch byte
	for i := n - padLen; i < n; i++ {
		mismatch |= data[i] ^ byte(padLen)
	}
	if mismatch != 0 {
		return nil, fmt.Errorf("%w: invalid padding bytes", ErrDecrypt)
	}

	return data[:n-padLen], nil
}
