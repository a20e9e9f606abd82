// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package atecc

import (
	"crypto/aes"
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"testing"
)

// deviceBus emulates enough of an ATECC608 to exercise the protocol layer:
// it parses command frames arriving on Write and queues framed responses for
// the following Read, backed by reference implementations of the device's
// SHA-256 and AES engines.
type deviceBus struct {
	t *testing.T

	awake   bool
	pending []byte

	config    [ConfigZoneSize]byte
	randomSrc [RandomSize]byte
	keys      map[byte][]byte

	sha        hash.Hash
	shaUpdates int

	// Fault injection
	nakWrites       int  // NAK the next n command writes (the frame still lands)
	corruptNextCRC  bool // flip a checksum byte in the next data response
	shrinkNextFrame bool // misreport the count byte of the next data response

	sleeps int
	closed bool
}

func newDeviceBus(t *testing.T) *deviceBus {
	return &deviceBus{t: t, keys: map[byte][]byte{}}
}

func (d *deviceBus) Write(p []byte) error {
	if len(p) == 0 {
		d.t.Fatal("empty bus write")
	}
	if !d.awake {
		if len(p) == 1 && p[0] == wakeToken {
			d.awake = true
			d.pending = []byte{MinResponseSize, StatusAfterWake, 0x33, 0x43}
		}
		// An asleep device never ACKs its address.
		return ErrNak
	}
	switch p[0] {
	case WordAddrSleep:
		d.awake = false
		d.sleeps++
		return nil
	case WordAddrCommand:
		return d.handleCommand(p[1:])
	default:
		d.t.Fatalf("unexpected word address 0x%02X", p[0])
		return nil
	}
}

func (d *deviceBus) Read(p []byte) error {
	if d.pending == nil {
		return ErrNak
	}
	n := copy(p, d.pending)
	for i := n; i < len(p); i++ {
		p[i] = 0xFF // idle bus
	}
	d.pending = nil
	return nil
}

func (d *deviceBus) Close() error {
	d.closed = true
	return nil
}

func (d *deviceBus) handleCommand(frame []byte) error {
	if len(frame) < cmdOverhead || int(frame[0]) != len(frame) {
		d.t.Fatalf("bad command frame length: % X", frame)
	}
	if err := checkCRC(frame); err != nil {
		d.t.Fatalf("command frame CRC invalid: %v", err)
	}

	opcode := frame[1]
	param1 := frame[2]
	param2 := binary.LittleEndian.Uint16(frame[3:5])
	payload := frame[5 : len(frame)-2]

	switch opcode {
	case OpRead:
		off := int(param2) * ConfigBlockSize
		if param1 != zoneConfig || off+ConfigBlockSize > len(d.config) {
			d.queueStatus(StatusParseError)
			break
		}
		d.queueData(d.config[off : off+ConfigBlockSize])
	case OpRandom:
		d.queueData(d.randomSrc[:])
	case OpSHA:
		d.handleSHA(param1, param2, payload)
	case OpAES:
		d.handleAES(param1, param2, payload)
	default:
		d.queueStatus(StatusParseError)
	}

	if d.nakWrites > 0 {
		d.nakWrites--
		return ErrNak
	}
	return nil
}

func (d *deviceBus) handleSHA(phase byte, param2 uint16, payload []byte) {
	switch phase {
	case shaStart:
		d.sha = sha256.New()
		d.shaUpdates = 0
		d.queueStatus(StatusSuccess)
	case shaUpdate:
		if len(payload) != ShaBlockSize {
			d.t.Fatalf("SHA update carried %d bytes, want %d", len(payload), ShaBlockSize)
		}
		d.sha.Write(payload)
		d.shaUpdates++
		d.queueStatus(StatusSuccess)
	case shaEnd:
		if int(param2) != len(payload) {
			d.t.Fatalf("SHA end param2=%d disagrees with %d payload bytes", param2, len(payload))
		}
		d.sha.Write(payload)
		d.queueData(d.sha.Sum(nil))
	default:
		d.queueStatus(StatusParseError)
	}
}

func (d *deviceBus) handleAES(mode byte, param2 uint16, payload []byte) {
	key, ok := d.keys[byte(param2)]
	if !ok {
		d.queueStatus(StatusExecutionError)
		return
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		d.t.Fatalf("emulator AES key: %v", err)
	}
	out := make([]byte, AESBlockSize)
	switch mode {
	case aesModeEncrypt:
		block.Encrypt(out, payload)
	case aesModeDecrypt:
		block.Decrypt(out, payload)
	default:
		d.queueStatus(StatusParseError)
		return
	}
	d.queueData(out)
}

func (d *deviceBus) queueData(data []byte) {
	frame := make([]byte, 0, len(data)+3)
	frame = append(frame, byte(len(data)+3))
	frame = append(frame, data...)
	frame = appendCRC(frame)
	if d.corruptNextCRC {
		frame[len(frame)-1] ^= 0xFF
		d.corruptNextCRC = false
	}
	if d.shrinkNextFrame {
		frame[0]--
		d.shrinkNextFrame = false
	}
	d.pending = frame
}

func (d *deviceBus) queueStatus(code byte) {
	d.pending = appendCRC([]byte{MinResponseSize, code})
}

// wakeSession creates a session over the emulator and wakes it.
func wakeSession(t *testing.T, d *deviceBus) *Session {
	t.Helper()
	s := New(d)
	if err := s.Wake(); err != nil {
		t.Fatalf("Wake failed: %v", err)
	}
	return s
}
