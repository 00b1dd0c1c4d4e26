// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Remove a record from the vault",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := loadConfig()
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		masterPassphrase, err := readPassphrase("Master passphrase: ")
		if err != nil {
			return err
		}
		store, err := openExisting(vaultPath, masterPassphrase)
		if err != nil {
			return err
		}
		defer store.Close()

		if _, err := store.Delete(name); err != nil {
			return err
		}

		if err := syncTo(store, vaultPath); err != nil {
			return err
		}

		slog.Info("deleted record", "name", name)
		return nil
	},
}
