// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kgiusti/passvault"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new, empty vault",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := loadConfig()
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(vaultPath); err == nil {
			return fmt.Errorf("%s already exists; refusing to overwrite", vaultPath)
		}

		passphrase, err := readPassphrase("Master passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases did not match")
		}

		store, err := passvault.Create(passphrase)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := syncTo(store, vaultPath); err != nil {
			return err
		}

		slog.Info("created vault", "path", vaultPath)
		return nil
	},
}
