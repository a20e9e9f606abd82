// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Ferrodyne Controls

package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ferrodyne/atecctl/pkg/atecc"
)

var serialNumberCmd = &cobra.Command{
	Use:   "serial-number",
	Short: "Print the 9-byte device serial number",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *atecc.Session) error {
			sn, err := s.SerialNumber()
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(sn))
			return nil
		})
	},
}

var lockStatusCmd = &cobra.Command{
	Use:   "lock-status",
	Short: "Report whether the config and data zones are locked",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *atecc.Session) error {
			state, err := s.LockStatus()
			if err != nil {
				return err
			}
			fmt.Println(state)
			return nil
		})
	},
}

var slotConfigCmd = &cobra.Command{
	Use:   "slot-config <slot>",
	Short: "Print the configuration word of a key slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("slot must be a number: %w", err)
		}
		return withSession(func(s *atecc.Session) error {
			cfg, err := s.SlotConfig(slot)
			if err != nil {
				return err
			}
			fmt.Printf("slot %2d: %s\n", slot, hex.EncodeToString(cfg))
			return nil
		})
	},
}

var configZoneCmd = &cobra.Command{
	Use:   "config-zone",
	Short: "Dump the full 128-byte configuration zone",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *atecc.Session) error {
			zone, err := s.ConfigZone()
			if err != nil {
				return err
			}
			for off := 0; off < len(zone); off += 16 {
				fmt.Printf("%04X: % X\n", off, zone[off:off+16])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(serialNumberCmd)
	rootCmd.AddCommand(lockStatusCmd)
	rootCmd.AddCommand(slotConfigCmd)
	rootCmd.AddCommand(configZoneCmd)
}
