// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package main

import (
	"fmt"
	"os"

	"github.com/ferrodyne/atecctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
