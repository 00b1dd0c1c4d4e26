// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var rekeyCmd = &cobra.Command{
	Use:   "rekey",
	Short: "Change the vault's master passphrase",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := loadConfig()
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		currentPassphrase, err := readPassphrase("Current master passphrase: ")
		if err != nil {
			return err
		}
		store, err := openExisting(vaultPath, currentPassphrase)
		if err != nil {
			return err
		}
		defer store.Close()

		newPassphrase, err := readPassphrase("New master passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm new passphrase: ")
		if err != nil {
			return err
		}
		if newPassphrase != confirm {
			return fmt.Errorf("passphrases did not match")
		}

		if err := store.Rekey(newPassphrase); err != nil {
			return err
		}

		if err := syncTo(store, vaultPath); err != nil {
			return err
		}

		slog.Info("rekeyed vault", "path", vaultPath)
		return nil
	},
}
