// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

// Package kitbus provides an atecc.Bus through a USB-to-I2C adapter board
// speaking a line-oriented ASCII protocol over a serial port. Each bus write
// becomes "w:<hex>\n" and each read "r:<count>\n"; the adapter answers "ok",
// "nak" or the hex bytes it read. A "nak" reply maps to atecc.ErrNak.
package kitbus

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"go.bug.st/serial"

	"github.com/ferrodyne/atecctl/pkg/atecc"
)

// DefaultBaudRate matches the adapter firmware's fixed configuration.
const DefaultBaudRate = 115200

// Bus is an open adapter connection.
type Bus struct {
	conn io.ReadWriteCloser
	r    *bufio.Reader
}

// Open connects to the adapter on the named serial port, 8N1.
func Open(portName string, baudRate int) (*Bus, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", portName, err)
	}
	return newBus(port), nil
}

func newBus(conn io.ReadWriteCloser) *Bus {
	return &Bus{conn: conn, r: bufio.NewReader(conn)}
}

// Write forwards p to the device through the adapter.
func (b *Bus) Write(p []byte) error {
	if _, err := fmt.Fprintf(b.conn, "w:%s\n", hex.EncodeToString(p)); err != nil {
		return fmt.Errorf("adapter write: %w", err)
	}
	line, err := b.readLine()
	if err != nil {
		return err
	}
	switch line {
	case "ok":
		return nil
	case "nak":
		return fmt.Errorf("adapter: %w", atecc.ErrNak)
	default:
		return fmt.Errorf("adapter write reply %q", line)
	}
}

// Read asks the adapter for len(p) bytes from the device.
func (b *Bus) Read(p []byte) error {
	if _, err := fmt.Fprintf(b.conn, "r:%d\n", len(p)); err != nil {
		return fmt.Errorf("adapter write: %w", err)
	}
	line, err := b.readLine()
	if err != nil {
		return err
	}
	if line == "nak" {
		return fmt.Errorf("adapter: %w", atecc.ErrNak)
	}
	data, err := hex.DecodeString(line)
	if err != nil {
		return fmt.Errorf("adapter read reply %q: %w", line, err)
	}
	if len(data) != len(p) {
		return fmt.Errorf("adapter returned %d bytes, want %d", len(data), len(p))
	}
	copy(p, data)
	return nil
}

// Close closes the serial port.
func (b *Bus) Close() error {
	return b.conn.Close()
}

func (b *Bus) readLine() (string, error) {
	line, err := b.r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("adapter read: %w", err)
	}
	return strings.TrimSpace(line), nil
}
