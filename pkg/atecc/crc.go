// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package atecc

// CalculateCRC computes the CRC-16 used by ATECC command and response frames
// (polynomial 0x8005, zero seed, bits processed LSB-first per byte). The two
// checksum bytes on the wire are the little-endian serialization of the
// returned value.
func CalculateCRC(data []byte) uint16 {
	var crc uint16
	for _, d := range data {
		for mask := byte(0x01); mask != 0; mask <<= 1 {
			var dataBit uint16
			if d&mask != 0 {
				dataBit = 1
			}
			crcBit := crc >> 15
			crc <<= 1
			if dataBit != crcBit {
				crc ^= crcPolynomial
			}
		}
	}
	return crc
}

// appendCRC appends the little-endian CRC of frame to frame.
func appendCRC(frame []byte) []byte {
	crc := CalculateCRC(frame)
	return append(frame, byte(crc), byte(crc>>8))
}

// checkCRC validates the trailing two checksum bytes of a complete frame.
func checkCRC(frame []byte) error {
	n := len(frame)
	want := CalculateCRC(frame[:n-2])
	got := uint16(frame[n-2]) | uint16(frame[n-1])<<8
	if want != got {
		return &ChecksumError{Want: want, Got: got}
	}
	return nil
}
