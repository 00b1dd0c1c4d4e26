// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kgiusti/passvault"
)

var getCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Print one record's stored password",
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

		record, ok := store.Get(name)
		if !ok {
			return fmt.Errorf("%w: %s", passvault.ErrNoSuchApp, name)
		}

		fmt.Println(record.Password)
		return nil
	},
}
