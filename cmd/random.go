// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Ferrodyne Controls

package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrodyne/atecctl/pkg/atecc"
)

var (
	randomLength int
	randomMin    uint64
	randomMax    uint64
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Read hardware random numbers",
	Long: `Pull entropy from the device's hardware random number generator.

By default prints --length random bytes as hex. With --min and --max it
instead prints one integer from the inclusive range, derived from the
hardware entropy by modular reduction (slightly biased toward the low end
for ranges that do not divide 2^64).`,
	RunE: runRandom,
}

func init() {
	randomCmd.Flags().IntVarP(&randomLength, "length", "n", 16, fmt.Sprintf("Number of random bytes (1..%d)", atecc.MaxRandomLen))
	randomCmd.Flags().Uint64Var(&randomMin, "min", 0, "Lower bound of integer range (requires --max)")
	randomCmd.Flags().Uint64Var(&randomMax, "max", 0, "Upper bound of integer range, inclusive")
	rootCmd.AddCommand(randomCmd)
}

func runRandom(cmd *cobra.Command, args []string) error {
	rangeMode := cmd.Flags().Changed("min") || cmd.Flags().Changed("max")

	return withSession(func(s *atecc.Session) error {
		if rangeMode {
			value, err := s.RandomInRange(randomMin, randomMax)
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		}

		data, err := s.Random(randomLength)
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(data))
		return nil
	})
}
