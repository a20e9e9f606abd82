// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

// Package atecc implements the command/response protocol of ATECC608-series
// secure elements: frame building and parsing, the CRC-16 checksum, the
// wake/sleep power handshake, and the command operations built on top of
// them (random generation, streaming SHA-256, AES block cipher, and
// configuration-zone introspection).
//
// The package performs no bus I/O of its own; a Bus implementation carries
// the device address and moves raw bytes. See pkg/i2cbus, pkg/kitbus and
// pkg/wsbridge for the supported transports.
package atecc

import "time"

// Word-address marker bytes. Every bus write is preceded by one of these to
// select the transaction's semantic channel.
const (
	WordAddrStatus  = 0x00
	WordAddrSleep   = 0x01
	WordAddrCommand = 0x03
)

// wakeToken is the dummy byte written to generate the wake pulse.
const wakeToken = 0x00

// Command opcodes
const (
	OpRead   = 0x02
	OpWrite  = 0x03
	OpRandom = 0x1B
	OpSHA    = 0x47
	OpAES    = 0x51
)

// Device status codes carried by status-only responses
const (
	StatusSuccess         = 0x00
	StatusMiscompare      = 0x01
	StatusParseError      = 0x03
	StatusECCFault        = 0x05
	StatusSelfTestError   = 0x07
	StatusHealthTestError = 0x08
	StatusExecutionError  = 0x0F
	StatusAfterWake       = 0x11
	StatusWatchdogExpire  = 0xEE
	StatusCRCError        = 0xFF
)

// Frame size limits
const (
	MaxCommandSize  = 128
	MaxResponseSize = 128

	// cmdOverhead is the fixed part of a command frame:
	// length + opcode + param1 + param2 (2) + CRC (2).
	cmdOverhead = 7

	// MinResponseSize is the status-only response: count + status + CRC.
	MinResponseSize = 4
)

// CRC-16 configuration (CryptoAuth variant: zero seed, LSB-first bit order)
const crcPolynomial = 0x8005

// SHA command phases (param1 of OpSHA)
const (
	shaStart  = 0x00
	shaUpdate = 0x01
	shaEnd    = 0x02
)

// AES command modes (param1 of OpAES)
const (
	aesModeEncrypt = 0x00
	aesModeDecrypt = 0x01
)

// Data sizes
const (
	SerialNumberSize = 9
	RandomSize       = 32
	MaxRandomLen     = 31
	DigestSize       = 32
	ShaBlockSize     = 64
	AESBlockSize     = 16
	ConfigBlockSize  = 4
	ConfigBlockCount = 32
	ConfigZoneSize   = ConfigBlockSize * ConfigBlockCount
	SlotCount        = 16

	aesResponseSize = 1 + AESBlockSize + 2
	shaResponseSize = 1 + DigestSize + 2
)

// Config zone word addresses
const (
	serialWordAddr0 = 0x0000
	serialWordAddr1 = 0x0002
	serialWordAddr2 = 0x0003
	lockWordAddr    = 0x0015
)

// zoneConfig selects the configuration zone in param1 of OpRead.
const zoneConfig = 0x00

// Lock byte values
const (
	lockByteLocked = 0x00
	lockByteOpen   = 0x55
)

// Settle delays between issuing a command and reading its response. These
// reflect the device's internal processing time and must not be shortened
// or skipped.
const (
	DelayWake     = 10 * time.Millisecond
	DelaySleep    = 500 * time.Microsecond
	DelayRead     = 5 * time.Millisecond
	DelayReadSlot = 20 * time.Millisecond
	DelayReadLock = 23 * time.Millisecond
	DelayRandom   = 50 * time.Millisecond
	DelaySHA      = 5 * time.Millisecond
	DelayAES      = 5 * time.Millisecond
)
