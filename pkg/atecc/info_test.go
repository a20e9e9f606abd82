// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package atecc

import (
	"bytes"
	"errors"
	"testing"
)

func TestSerialNumber(t *testing.T) {
	d := newDeviceBus(t)
	// Words 0x00, 0x02 and 0x03 of the config zone hold the serial number
	// (4 + 4 + 1 bytes).
	copy(d.config[0:4], []byte{0x01, 0x23, 0x45, 0x67})
	copy(d.config[8:12], []byte{0x89, 0xAB, 0xCD, 0xEF})
	d.config[12] = 0xEE
	s := wakeSession(t, d)

	sn, err := s.SerialNumber()
	if err != nil {
		t.Fatalf("SerialNumber failed: %v", err)
	}
	want := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF, 0xEE}
	if !bytes.Equal(sn, want) {
		t.Errorf("serial number % X, want % X", sn, want)
	}
	if len(sn) != SerialNumberSize {
		t.Errorf("serial number length %d, want %d", len(sn), SerialNumberSize)
	}
}

func TestSlotConfig(t *testing.T) {
	d := newDeviceBus(t)
	copy(d.config[3*ConfigBlockSize:], []byte{0xDE, 0xAD, 0xBE, 0xEF})
	s := wakeSession(t, d)

	cfg, err := s.SlotConfig(3)
	if err != nil {
		t.Fatalf("SlotConfig failed: %v", err)
	}
	if !bytes.Equal(cfg, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Errorf("slot config % X, want DE AD BE EF", cfg)
	}
}

func TestSlotConfig_RangeValidation(t *testing.T) {
	s := wakeSession(t, newDeviceBus(t))

	for _, slot := range []int{-1, SlotCount, 100} {
		if _, err := s.SlotConfig(slot); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("SlotConfig(%d): expected ErrInvalidArgument, got %v", slot, err)
		}
	}
}

func TestConfigZone(t *testing.T) {
	d := newDeviceBus(t)
	for i := range d.config {
		d.config[i] = byte(255 - i)
	}
	s := wakeSession(t, d)

	zone, err := s.ConfigZone()
	if err != nil {
		t.Fatalf("ConfigZone failed: %v", err)
	}
	if len(zone) != ConfigZoneSize {
		t.Fatalf("zone length %d, want %d", len(zone), ConfigZoneSize)
	}
	if !bytes.Equal(zone, d.config[:]) {
		t.Error("zone contents do not match the device configuration")
	}
}

func TestLockStatus(t *testing.T) {
	tests := []struct {
		name string
		cfg  byte
		dat  byte
		want LockState
	}{
		{name: "locked", cfg: 0x00, dat: 0x00, want: LockStateLocked},
		{name: "unlocked", cfg: 0x55, dat: 0x55, want: LockStateUnlocked},
		{name: "partially locked", cfg: 0x00, dat: 0x55, want: LockStatePartiallyLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeviceBus(t)
			off := int(lockWordAddr) * ConfigBlockSize
			d.config[off] = tt.cfg
			d.config[off+1] = tt.dat
			s := wakeSession(t, d)

			got, err := s.LockStatus()
			if err != nil {
				t.Fatalf("LockStatus failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("lock state %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLockStatus_UnrecognizedBytes(t *testing.T) {
	d := newDeviceBus(t)
	off := int(lockWordAddr) * ConfigBlockSize
	d.config[off] = 0x12
	d.config[off+1] = 0x34
	s := wakeSession(t, d)

	_, err := s.LockStatus()
	var lerr *LockStateError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected LockStateError, got %v", err)
	}
	if lerr.Config != 0x12 || lerr.Data != 0x34 {
		t.Errorf("LockStateError{%02X, %02X}, want {12, 34}", lerr.Config, lerr.Data)
	}
}
