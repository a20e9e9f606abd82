// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package atecc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a caller-supplied length, range, or payload
	// the device would reject.
	ErrInvalidArgument = errors.New("atecc: invalid argument")

	// ErrEmptyResponse is returned when the device answers with a success
	// status but no data where data was expected.
	ErrEmptyResponse = errors.New("atecc: device returned no data")

	// ErrNotAwake is returned when a command is issued outside the Awake
	// state. Callers must Wake() the session first.
	ErrNotAwake = errors.New("atecc: device is not awake")

	// ErrNak marks a transient bus-level NAK. Bus implementations return it
	// (possibly wrapped) when the device does not acknowledge its address;
	// the dispatcher tolerates one per command while the device is busy.
	ErrNak = errors.New("atecc: device NAK")
)

// BusError wraps a transport-level I/O failure other than a tolerated NAK.
type BusError struct {
	Op  string
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("atecc: bus %s failed: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error { return e.Err }

// WakeError reports a wake acknowledgement that does not match the
// documented pattern (count 0x04, status 0x11).
type WakeError struct {
	Response []byte
}

func (e *WakeError) Error() string {
	return fmt.Sprintf("atecc: unexpected wake response % X", e.Response)
}

// MalformedResponseError reports a count byte below the minimal status
// length or beyond the bytes actually read off the bus.
type MalformedResponseError struct {
	Count int
	Have  int
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("atecc: malformed response: count=%d with %d bytes read", e.Count, e.Have)
}

// ShortResponseError reports a response carrying fewer data bytes than the
// operation requires.
type ShortResponseError struct {
	Want int
	Got  int
}

func (e *ShortResponseError) Error() string {
	return fmt.Sprintf("atecc: short response: expected %d data bytes, got %d", e.Want, e.Got)
}

// ChecksumError reports a response whose trailing checksum disagrees with
// the CRC computed over the received bytes.
type ChecksumError struct {
	Want uint16
	Got  uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("atecc: response CRC mismatch: expected 0x%04X, got 0x%04X", e.Want, e.Got)
}

// StatusError reports a status-only response carrying a nonzero device
// status code.
type StatusError struct {
	Code byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("atecc: device status %s (0x%02X)", statusName(e.Code), e.Code)
}

// LengthError reports a response whose count byte deviates from the exact
// size the operation mandates.
type LengthError struct {
	Want int
	Got  int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("atecc: unexpected response length: expected count %d, got %d", e.Want, e.Got)
}

// PayloadSizeError reports a command payload exceeding the device's maximum
// command size.
type PayloadSizeError struct {
	Size int
	Max  int
}

func (e *PayloadSizeError) Error() string {
	return fmt.Sprintf("atecc: payload too large: %d bytes (max %d)", e.Size, e.Max)
}

// LockStateError reports lock bytes that match none of the documented
// patterns, which usually indicates a read or wiring problem.
type LockStateError struct {
	Config byte
	Data   byte
}

func (e *LockStateError) Error() string {
	return fmt.Sprintf("atecc: unrecognized lock bytes: config=0x%02X data=0x%02X", e.Config, e.Data)
}

// statusName returns a human-readable name for a device status code.
func statusName(code byte) string {
	switch code {
	case StatusSuccess:
		return "success"
	case StatusMiscompare:
		return "checkmac/verify miscompare"
	case StatusParseError:
		return "parse error"
	case StatusECCFault:
		return "ECC fault"
	case StatusSelfTestError:
		return "self test error"
	case StatusHealthTestError:
		return "health test error"
	case StatusExecutionError:
		return "execution error"
	case StatusAfterWake:
		return "after wake"
	case StatusWatchdogExpire:
		return "watchdog about to expire"
	case StatusCRCError:
		return "communication error"
	default:
		return "unknown status"
	}
}
