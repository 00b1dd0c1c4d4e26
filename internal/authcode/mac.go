// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package authcode computes and verifies the HMAC-SHA-512 tag binding a
// container's header fields and ciphertext together.
package authcode

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
)

// Size is the length in bytes of a tag.
const Size = sha512.Size // 64

// Tag computes HMAC-SHA-512 over the concatenation, in order, of:
// version (4 bytes BE), log2N (1 byte), r (4 bytes BE), p (4 bytes BE),
// iv (16 bytes), salt (32 bytes), ciphertext. This order is load-bearing:
// existing vaults will not verify under any other ordering.
func Tag(key []byte, version uint32, log2N uint8, r, p uint32, iv, salt, ciphertext []byte) []byte {
	mac := hmac.New(sha512.New, key)
	writeHeader(mac, version, log2N, r, p, iv, salt)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

// Verify reports whether tag matches the HMAC computed over the given
// fields, using a constant-time comparison over the full tag length. It
// never short-circuits on the first differing byte.
func Verify(key []byte, version uint32, log2N uint8, r, p uint32, iv, salt, ciphertext, tag []byte) bool {
	expected := Tag(key, version, log2N, r, p, iv, salt, ciphertext)
	return hmac.Equal(expected, tag)
}

func writeHeader(w interface{ Write([]byte) (int, error) }, version uint32, log2N uint8, r, p uint32, iv, salt []byte) {
	var u32 [4]byte

	binary.BigEndian.PutUint32(u32[:], version)
	w.Write(u32[:])

	w.Write([]byte{log2N})

	binary.BigEndian.PutUint32(u32[:], r)
	w.Write(u32[:])

	binary.BigEndian.PutUint32(u32[:], p)
	w.Write(u32[:])

	w.Write(iv)
	w.Write(salt)
}
