// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package passvault

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/cases"
)

// caseFold performs full Unicode case folding for record-name
// comparison. ASCII case insensitivity is the minimum guarantee callers
// can rely on; folding gives correct behavior for non-ASCII names too,
// e.g. equating "Straße" with "STRASSE".
var caseFold = cases.Fold()

func namesEqual(a, b string) bool {
	return caseFold.String(a) == caseFold.String(b)
}

// Record is one saved credential.
type Record struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// recordDocument is the plaintext JSON shape stored inside the
// container: {"passwords":[ {record}, ... ]}. Field order within each
// record is not significant on read; array order is, and is preserved.
type recordDocument struct {
	Passwords []Record `json:"passwords"`
}

// encodeRecords serializes records into the plaintext JSON document.
func encodeRecords(records []Record) ([]byte, error) {
	doc := recordDocument{Passwords: records}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return b, nil
}

// decodeRecords parses the plaintext JSON document into a record list.
// Unknown top-level or per-record fields are tolerated.
func decodeRecords(plaintext []byte) ([]Record, error) {
	var doc recordDocument
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return doc.Passwords, nil
}
