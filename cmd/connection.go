// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Ferrodyne Controls

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/ferrodyne/atecctl/pkg/atecc"
	"github.com/ferrodyne/atecctl/pkg/i2cbus"
	"github.com/ferrodyne/atecctl/pkg/kitbus"
	"github.com/ferrodyne/atecctl/pkg/wsbridge"
)

// OpenBus opens a bus to the device based on the connection flags. Exactly
// one transport is chosen: WebSocket bridge, serial adapter, or direct I2C
// (the default when nothing else is given).
func OpenBus() (atecc.Bus, string, error) {
	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, "", err
			}
		}

		bus, err := wsbridge.Dial(wsURL, wsbridge.Options{
			Username:      wsUsername,
			Password:      password,
			SkipTLSVerify: wsNoSSLVerify,
		})
		if err != nil {
			return nil, "", err
		}
		return bus, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	if portName != "" {
		bus, err := kitbus.Open(portName, baudRate)
		if err != nil {
			return nil, "", err
		}
		return bus, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	device := i2cDevice
	if device == "" {
		device = i2cbus.DefaultDevice
	}
	bus, err := i2cbus.Open(device, i2cAddress)
	if err != nil {
		return nil, "", err
	}
	return bus, fmt.Sprintf("I2C: %s @ 0x%02X", device, i2cAddress), nil
}

// GetPassword retrieves password from environment or prompts user
func GetPassword() (string, error) {
	// First check environment variable
	if pw := os.Getenv("ATECCTL_PASSWORD"); pw != "" {
		return pw, nil
	}

	// Prompt user for password (hide input)
	fmt.Fprint(os.Stderr, "Password: ")

	// Read password without echo
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr) // newline after password
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr) // newline after password
	return string(passwordBytes), nil
}

// withSession opens a bus, wakes the device, runs fn, and puts the device
// back to sleep before the bus closes.
func withSession(fn func(s *atecc.Session) error) error {
	bus, info, err := OpenBus()
	if err != nil {
		return err
	}

	s := atecc.New(bus, atecc.WithLogger(logger))
	defer s.Close()
	logger.Debug().Str("connection", info).Msg("bus open")

	if err := s.Wake(); err != nil {
		return fmt.Errorf("waking device: %w", err)
	}
	defer s.Sleep()

	return fn(s)
}
