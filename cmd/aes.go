// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Ferrodyne Controls

package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrodyne/atecctl/pkg/atecc"
)

var aesSlot uint8

var aesCmd = &cobra.Command{
	Use:   "aes",
	Short: "AES-128 with a key held in the device",
	Long: `Run single AES-128 blocks through a key slot on the device.

The key never leaves the secure element; the host sends a 16-byte block and
receives the transformed block. Blocks are given and printed as 32 hex
digits. This is the raw ECB primitive; chaining modes are the caller's
responsibility.`,
}

var aesEncryptCmd = &cobra.Command{
	Use:   "encrypt <block-hex>",
	Short: "Encrypt one 16-byte block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAes(args[0], func(s *atecc.Session, block []byte) ([]byte, error) {
			return s.AESEncrypt(aesSlot, block)
		})
	},
}

var aesDecryptCmd = &cobra.Command{
	Use:   "decrypt <block-hex>",
	Short: "Decrypt one 16-byte block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAes(args[0], func(s *atecc.Session, block []byte) ([]byte, error) {
			return s.AESDecrypt(aesSlot, block)
		})
	},
}

func init() {
	aesCmd.PersistentFlags().Uint8VarP(&aesSlot, "slot", "s", 0, fmt.Sprintf("Key slot holding the AES key (0..%d)", atecc.SlotCount-1))
	aesCmd.AddCommand(aesEncryptCmd)
	aesCmd.AddCommand(aesDecryptCmd)
	rootCmd.AddCommand(aesCmd)
}

func runAes(blockHex string, op func(s *atecc.Session, block []byte) ([]byte, error)) error {
	block, err := hex.DecodeString(blockHex)
	if err != nil {
		return fmt.Errorf("block must be hex: %w", err)
	}
	if len(block) != atecc.AESBlockSize {
		return fmt.Errorf("block must be %d bytes (%d hex digits), got %d bytes",
			atecc.AESBlockSize, 2*atecc.AESBlockSize, len(block))
	}

	return withSession(func(s *atecc.Session) error {
		out, err := op(s, block)
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(out))
		return nil
	})
}
