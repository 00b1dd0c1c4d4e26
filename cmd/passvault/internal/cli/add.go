// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kgiusti/passvault"
)

var addUsername string

var addCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a new record to the vault",
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

		recordPassword, err := readPassphrase("Password for " + name + ": ")
		if err != nil {
			return err
		}

		now := time.Now().Unix()
		record := passvault.Record{
			Name:      name,
			Username:  addUsername,
			Password:  recordPassword,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.Add(record); err != nil {
			return err
		}

		if err := syncTo(store, vaultPath); err != nil {
			return err
		}

		slog.Info("added record", "name", name)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addUsername, "username", "", "Username associated with this record")
}
