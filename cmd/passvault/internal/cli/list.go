// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listShowUsernames bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the names of every record in the vault",
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

		for _, r := range store.List() {
			if listShowUsernames {
				fmt.Printf("%s\t%s\n", r.Name, r.Username)
				continue
			}
			fmt.Println(r.Name)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listShowUsernames, "usernames", false, "Also print each record's username")
}
