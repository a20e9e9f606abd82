// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Ferrodyne Controls

package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ferrodyne/atecctl/pkg/atecc"
)

var sha256File string

var sha256Cmd = &cobra.Command{
	Use:   "sha256 [message]",
	Short: "Compute a SHA-256 digest on the device",
	Long: `Stream a message through the device's SHA-256 engine and print the digest.

The message is taken from the argument, from --file, or from stdin when
neither is given. The hash runs entirely on the secure element; the host
only frames the blocks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSha256,
}

func init() {
	sha256Cmd.Flags().StringVarP(&sha256File, "file", "f", "", "Hash the contents of a file")
	rootCmd.AddCommand(sha256Cmd)
}

func runSha256(cmd *cobra.Command, args []string) error {
	var message []byte
	switch {
	case len(args) == 1 && sha256File != "":
		return fmt.Errorf("give a message argument or --file, not both")
	case len(args) == 1:
		message = []byte(args[0])
	case sha256File != "":
		data, err := os.ReadFile(sha256File)
		if err != nil {
			return err
		}
		message = data
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		message = data
	}

	return withSession(func(s *atecc.Session) error {
		digest, err := s.SHA256(message)
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(digest))
		return nil
	})
}
