// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cli

import (
	"fmt"
	"os"

	"github.com/kgiusti/passvault"
)

// vaultFilePerm restricts the vault file to the owner; it never holds
// anything readable by other local users.
const vaultFilePerm = 0o600

// openExisting reads path and opens it as a vault under passphrase. It
// never creates the file.
func openExisting(path, passphrase string) (*passvault.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vault file: %w", err)
	}
	return passvault.Open(passphrase, data)
}

// syncTo writes store's current state to path, creating the file with
// vaultFilePerm if it does not already exist.
func syncTo(store *passvault.Store, path string) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, vaultFilePerm)
	if err != nil {
		return fmt.Errorf("opening vault file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return store.Sync(f)
}
