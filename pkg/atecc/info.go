// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package atecc

import (
	"fmt"
	"time"
)

// SerialNumber reads the 9-byte device serial number from the three
// documented configuration-zone words (4 + 4 + 1 bytes).
func (s *Session) SerialNumber() ([]byte, error) {
	sn := make([]byte, 0, SerialNumberSize)

	first, err := s.readConfigWord(serialWordAddr0, DelayRead)
	if err != nil {
		return nil, fmt.Errorf("serial number word 0: %w", err)
	}
	sn = append(sn, first...)

	second, err := s.readConfigWord(serialWordAddr1, DelayRead)
	if err != nil {
		return nil, fmt.Errorf("serial number word 2: %w", err)
	}
	sn = append(sn, second...)

	third, err := s.readConfigWord(serialWordAddr2, DelayRead)
	if err != nil {
		return nil, fmt.Errorf("serial number word 3: %w", err)
	}
	sn = append(sn, third[0])

	return sn, nil
}

// SlotConfig reads the 4-byte configuration word for a key slot (0..15).
func (s *Session) SlotConfig(slot int) ([]byte, error) {
	if slot < 0 || slot >= SlotCount {
		return nil, fmt.Errorf("%w: slot %d (valid 0..%d)", ErrInvalidArgument, slot, SlotCount-1)
	}
	return s.readConfigWord(uint16(slot), DelayReadSlot)
}

// ConfigZone reads the full 128-byte configuration region in address order,
// one checksum-validated 4-byte block at a time.
func (s *Session) ConfigZone() ([]byte, error) {
	zone := make([]byte, 0, ConfigZoneSize)
	for block := 0; block < ConfigBlockCount; block++ {
		data, err := s.readConfigWord(uint16(block), DelayReadSlot)
		if err != nil {
			return nil, fmt.Errorf("config block %d: %w", block, err)
		}
		zone = append(zone, data...)
	}
	return zone, nil
}

// LockState classifies the two lock bytes of the configuration zone.
type LockState int

const (
	LockStateLocked LockState = iota
	LockStateUnlocked
	LockStatePartiallyLocked
)

func (l LockState) String() string {
	switch l {
	case LockStateLocked:
		return "locked"
	case LockStateUnlocked:
		return "unlocked"
	case LockStatePartiallyLocked:
		return "partially locked (config locked, data open)"
	default:
		return "unknown"
	}
}

// LockStatus reads the lock bytes at word address 0x15. Byte 0 is the config
// lock, byte 1 the data lock. Any pairing other than the three documented
// patterns is reported as a LockStateError rather than a best guess, since
// it usually means a read problem.
func (s *Session) LockStatus() (LockState, error) {
	data, err := s.readConfigWord(lockWordAddr, DelayReadLock)
	if err != nil {
		return 0, err
	}
	cfg, dat := data[0], data[1]
	switch {
	case cfg == lockByteLocked && dat == lockByteLocked:
		return LockStateLocked, nil
	case cfg == lockByteOpen && dat == lockByteOpen:
		return LockStateUnlocked, nil
	case cfg == lockByteLocked && dat == lockByteOpen:
		return LockStatePartiallyLocked, nil
	default:
		return 0, &LockStateError{Config: cfg, Data: dat}
	}
}

// readConfigWord reads one 4-byte word of the configuration zone.
func (s *Session) readConfigWord(addr uint16, settle time.Duration) ([]byte, error) {
	return s.Execute(OpRead, zoneConfig, addr, nil, ConfigBlockSize, settle)
}
