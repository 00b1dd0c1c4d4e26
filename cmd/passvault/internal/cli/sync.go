// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// syncCmd re-encrypts the vault in place under a fresh IV and
// ciphertext, without changing the passphrase, salt, or any record.
// Useful simply to confirm the on-disk file still opens under the
// current passphrase, or to force a rewrite after an external tool
// modified the file.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Re-encrypt the vault in place with a fresh IV",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := loadConfig()
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		masterPassphrase, err := readPassphrase("Master passphrase: ")
		if err != nil {
			return err
		}
		store, err := openExisting(vaultPath, masterPassphrase)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := syncTo(store, vaultPath); err != nil {
			return err
		}

		slog.Info("synced vault", "path", vaultPath)
		return nil
	},
}
