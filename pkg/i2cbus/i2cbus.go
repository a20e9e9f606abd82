// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

// Package i2cbus provides an atecc.Bus over the Linux i2c-dev interface.
// Each Write and Read is issued as a single combined I2C_RDWR transaction so
// the device sees one addressed start/stop pair per call. A slave NAK, which
// the kernel reports as EREMOTEIO or EIO, is translated to atecc.ErrNak so
// the session layer can treat it as the device being busy or asleep.
package i2cbus

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ferrodyne/atecctl/pkg/atecc"
)

const (
	// DefaultDevice is the Raspberry Pi's primary user I2C bus.
	DefaultDevice = "/dev/i2c-1"
	// DefaultAddress is the factory 7-bit address of the secure element.
	DefaultAddress = 0x60
)

// ioctl request and message flags from linux/i2c-dev.h and linux/i2c.h.
const (
	i2cRdwr = 0x0707
	i2cMRd  = 0x0001
)

type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	_     uint16
	buf   unsafe.Pointer
}

type rdwrIoctlData struct {
	msgs  unsafe.Pointer
	nmsgs uint32
}

// Bus is an open handle to one device on one i2c-dev adapter.
type Bus struct {
	file *os.File
	addr uint16
}

// Open opens the i2c-dev character device and binds the bus to the given
// 7-bit slave address.
func Open(device string, addr uint8) (*Bus, error) {
	file, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", device, err)
	}
	return &Bus{file: file, addr: uint16(addr)}, nil
}

// Write sends p in one addressed write transaction.
func (b *Bus) Write(p []byte) error {
	return b.transfer(0, p)
}

// Read fills p from one addressed read transaction.
func (b *Bus) Read(p []byte) error {
	return b.transfer(i2cMRd, p)
}

// Close releases the character device.
func (b *Bus) Close() error {
	return b.file.Close()
}

func (b *Bus) transfer(flags uint16, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	msg := i2cMsg{
		addr:  b.addr,
		flags: flags,
		len:   uint16(len(p)),
		buf:   unsafe.Pointer(&p[0]),
	}
	data := rdwrIoctlData{
		msgs:  unsafe.Pointer(&msg),
		nmsgs: 1,
	}

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, b.file.Fd(), i2cRdwr, uintptr(unsafe.Pointer(&data)))
	switch errno {
	case 0:
		return nil
	case unix.EREMOTEIO, unix.EIO:
		return fmt.Errorf("address 0x%02X: %w", b.addr, atecc.ErrNak)
	default:
		return fmt.Errorf("i2c transfer at 0x%02X: %w", b.addr, errno)
	}
}
