// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package atecc

import "testing"

func TestCalculateCRC_Empty(t *testing.T) {
	if crc := CalculateCRC(nil); crc != 0 {
		t.Errorf("CRC of empty data should be 0, got 0x%04X", crc)
	}
}

func TestCalculateCRC_WakeAcknowledgement(t *testing.T) {
	// The documented wake acknowledgement is 04 11 33 43: count and status
	// followed by their little-endian CRC.
	crc := CalculateCRC([]byte{0x04, 0x11})
	if crc != 0x4333 {
		t.Errorf("CRC mismatch: expected 0x4333, got 0x%04X", crc)
	}
}

func TestCalculateCRC_Deterministic(t *testing.T) {
	data := []byte{0x07, 0x1B, 0x00, 0x00, 0x00}
	crc1 := CalculateCRC(data)
	crc2 := CalculateCRC(data)
	if crc1 != crc2 {
		t.Errorf("CRC should be deterministic: 0x%04X != 0x%04X", crc1, crc2)
	}
}

func TestCalculateCRC_SingleBitSensitivity(t *testing.T) {
	data := []byte{0x23, 0xA7, 0x00, 0x5F, 0x10, 0xFF, 0x42, 0x01}
	reference := CalculateCRC(data)

	for i := range data {
		for bit := 0; bit < 8; bit++ {
			mutated := make([]byte, len(data))
			copy(mutated, data)
			mutated[i] ^= 1 << bit

			if crc := CalculateCRC(mutated); crc == reference {
				t.Errorf("flipping byte %d bit %d left CRC unchanged (0x%04X)", i, bit, crc)
			}
		}
	}
}

func TestAppendCheckRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "status frame", data: []byte{0x04, 0x00}},
		{name: "read response", data: []byte{0x07, 0xC0, 0x00, 0x55, 0x00}},
		{name: "single byte", data: []byte{0x05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := appendCRC(append([]byte(nil), tt.data...))
			if err := checkCRC(frame); err != nil {
				t.Errorf("frame built by appendCRC failed validation: %v", err)
			}

			frame[len(frame)-2] ^= 0x01
			if err := checkCRC(frame); err == nil {
				t.Error("corrupted checksum byte passed validation")
			}
		})
	}
}
