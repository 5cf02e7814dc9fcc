// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the Lingua CLI.
package main

import (
	"lingua/cli/cmd"
)

func main() {
	cmd.Execute()
}
