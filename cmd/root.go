// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Ferrodyne Controls

package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Direct I2C connection flags
	i2cDevice  string
	i2cAddress uint8

	// Serial adapter flags
	portName string
	baudRate int

	// WebSocket bridge flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	configPath string
	verbose    bool

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "atecctl",
	Short: "ATECC608 secure element tool",
	Long: `Atecctl - A CLI tool for driving an ATECC608 secure element.

Provides commands for hardware random numbers, device-side SHA-256 and AES,
and configuration-zone inspection (serial number, lock state, slot settings).

Connection modes:
  I2C:       --device /dev/i2c-1 [--address 96] (default)
  Serial:    --port /dev/ttyUSB0 [--baud 115200] (USB adapter board)
  WebSocket: --url ws://host/path [--username user] (remote bridge agent)

For WebSocket authentication, the password is read from the ATECCTL_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell
history.`,
	Version:       "0.4.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()

		return applyConfigFile(cmd)
	},
}

func init() {
	// Direct I2C connection flags
	rootCmd.PersistentFlags().StringVarP(&i2cDevice, "device", "d", "", "I2C character device (default /dev/i2c-1)")
	rootCmd.PersistentFlags().Uint8VarP(&i2cAddress, "address", "a", 0x60, "7-bit I2C address of the device")

	// Serial adapter flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port of a USB-to-I2C adapter")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket bridge flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket bridge URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/atecctl/atecctl.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
