// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// LogConfig controls the devlog handler installed in root.go's init.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// VaultConfig holds the settings common to every subcommand: where the
// vault file lives and how verbosely to log. Values come from a config
// file (--config) and command-line flags, a flag taking priority over the
// config file; environment variables are not read.
type VaultConfig struct {
	Vault string    `mapstructure:"vault"`
	Log   LogConfig `mapstructure:"log"`
}

var vaultPath string

// loadConfig binds the persistent flags into viper and decodes the
// result into a VaultConfig. It is called from each subcommand's
// PreRunE, mirroring the server's own config-before-execution split.
func loadConfig() (*VaultConfig, error) {
	if !viper.IsSet("vault") {
		return nil, errors.New("missing required path to the vault file (--vault)")
	}

	var cfg VaultConfig
	if err := mapstructure.Decode(viper.AllSettings(), &cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Vault == "" {
		cfg.Vault = viper.GetString("vault")
	}
	vaultPath = cfg.Vault

	if lvl, ok := parseLogLevel(cfg.Log.Level); ok {
		logLevel.Set(lvl)
	}
	return &cfg, nil
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// readPassphrase reads a passphrase without echoing it to the terminal.
// If stdin is not a terminal (piped input, a test harness), it falls back
// to reading one whitespace-delimited word from a single line; a line
// holding more than one word, or an empty line, is rejected with an error.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return string(b), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return line, nil
}
