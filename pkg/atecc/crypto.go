// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package atecc

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Random asks the device's RNG for n bytes, 1..MaxRandomLen. The full
// 32-byte response is read and checksum-validated; the requested prefix is
// returned.
func (s *Session) Random(n int) ([]byte, error) {
	if n < 1 || n > MaxRandomLen {
		return nil, fmt.Errorf("%w: random length %d (valid 1..%d)", ErrInvalidArgument, n, MaxRandomLen)
	}
	data, err := s.Execute(OpRandom, 0x00, 0x0000, nil, RandomSize, DelayRandom)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, data)
	return out, nil
}

// RandomInRange maps one 32-byte random response onto [min, max] inclusive.
// The first eight response bytes are taken as a big-endian unsigned value
// and reduced modulo the span. The reduction skews toward the low end of the
// range whenever the span does not divide 2^64 evenly; callers needing a
// uniform distribution must account for that.
func (s *Session) RandomInRange(min, max uint64) (uint64, error) {
	if min > max {
		return 0, fmt.Errorf("%w: empty range [%d, %d]", ErrInvalidArgument, min, max)
	}
	data, err := s.Execute(OpRandom, 0x00, 0x0000, nil, RandomSize, DelayRandom)
	if err != nil {
		return 0, err
	}
	value := binary.BigEndian.Uint64(data[:8])
	span := max - min + 1
	if span == 0 {
		// Full uint64 range, no reduction needed.
		return value, nil
	}
	return min + value%span, nil
}

// SHA256 computes a digest on the device with the streaming SHA command:
// one Start, an Update per full 64-byte block, then End carrying the 0..63
// remaining bytes with their count in param2. The intermediate phases are
// write-and-settle only; the single 35-byte digest frame after End is the
// one response read back, and a checksum failure there is fatal to the
// whole hash.
func (s *Session) SHA256(message []byte) ([]byte, error) {
	if err := s.send(OpSHA, shaStart, 0x0000, nil); err != nil {
		return nil, err
	}
	time.Sleep(DelaySHA)

	rest := message
	for len(rest) >= ShaBlockSize {
		if err := s.send(OpSHA, shaUpdate, 0x0000, rest[:ShaBlockSize]); err != nil {
			return nil, err
		}
		time.Sleep(DelaySHA)
		rest = rest[ShaBlockSize:]
	}

	if err := s.send(OpSHA, shaEnd, uint16(len(rest)), rest); err != nil {
		return nil, err
	}
	time.Sleep(DelaySHA)

	raw, err := s.receive(shaResponseSize)
	if err != nil {
		return nil, err
	}
	digest, err := ParseExactResponse(raw, shaResponseSize)
	if err != nil {
		s.noteParseError(OpSHA, err)
		return nil, err
	}
	return digest, nil
}

// AESEncrypt runs one 16-byte plaintext block through the key in the given
// slot and returns the ciphertext block.
func (s *Session) AESEncrypt(slot byte, block []byte) ([]byte, error) {
	return s.aesBlock(aesModeEncrypt, slot, block)
}

// AESDecrypt is the inverse of AESEncrypt for the same key slot.
func (s *Session) AESDecrypt(slot byte, block []byte) ([]byte, error) {
	return s.aesBlock(aesModeDecrypt, slot, block)
}

// aesBlock issues one AES command. The response must be exactly 19 bytes
// (count + block + checksum); any other count is a LengthError.
func (s *Session) aesBlock(mode, slot byte, block []byte) ([]byte, error) {
	if len(block) != AESBlockSize {
		return nil, fmt.Errorf("%w: AES block must be %d bytes, got %d", ErrInvalidArgument, AESBlockSize, len(block))
	}
	if int(slot) >= SlotCount {
		return nil, fmt.Errorf("%w: key slot %d (valid 0..%d)", ErrInvalidArgument, slot, SlotCount-1)
	}
	if err := s.send(OpAES, mode, uint16(slot), block); err != nil {
		return nil, err
	}
	time.Sleep(DelayAES)

	raw, err := s.receive(aesResponseSize)
	if err != nil {
		return nil, err
	}
	out, err := ParseExactResponse(raw, aesResponseSize)
	if err != nil {
		s.noteParseError(OpAES, err)
		return nil, err
	}
	return out, nil
}
