// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"

	"github.com/kgiusti/passvault"
)

var logLevel slog.LevelVar

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:   "passvault",
	Short: "A local encrypted password vault",
	Long: `passvault manages a single encrypted file holding your saved
credentials. Every subcommand makes at most one change; those that
write (create, add, delete, rekey, sync) write the whole file back
out, while get and list only read it. There is no background process
and no partial-update format.
`,
}

// Execute adds all child commands to the root command and runs it. This
// is called by main.main(). It only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().String("vault", "", "Path to the vault file")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (YAML/TOML/JSON)")
	rootCmd.PersistentFlags().Bool("debug", false, "Print debug logging")

	_ = viper.BindPFlag("vault", rootCmd.PersistentFlags().Lookup("vault"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	cobra.OnInitialize(func() {
		if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			_ = viper.ReadInConfig()
		}
		if viper.GetBool("debug") {
			logLevel.Set(slog.LevelDebug)
		}
	})

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(rekeyCmd)
	rootCmd.AddCommand(syncCmd)
}

// exitCodeFor maps the core's error taxonomy onto distinct process exit
// codes, so scripts driving this CLI can distinguish "wrong passphrase"
// from "no such record" from a plain I/O failure without scraping stderr.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, passvault.ErrWrongVersion):
		return 10
	case errors.Is(err, passvault.ErrCorruption):
		return 11
	case errors.Is(err, passvault.ErrDecryption):
		return 12
	case errors.Is(err, passvault.ErrInvalidJSON):
		return 13
	case errors.Is(err, passvault.ErrAppExists):
		return 20
	case errors.Is(err, passvault.ErrNoSuchApp):
		return 21
	case errors.Is(err, passvault.ErrInvalidParameters):
		return 22
	case errors.Is(err, passvault.ErrIo):
		return 30
	default:
		return 1
	}
}
