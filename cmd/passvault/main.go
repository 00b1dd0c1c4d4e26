// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Command passvault is a local encrypted password vault.
package main

import "github.com/kgiusti/passvault/cmd/passvault/internal/cli"

func main() {
	cli.Execute()
}
