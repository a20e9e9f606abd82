// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package atecc

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// stubBus returns scripted results, for injecting transport failures.
type stubBus struct {
	writeErr error
	readErr  error
	readResp []byte
	writes   [][]byte
}

func (b *stubBus) Write(p []byte) error {
	b.writes = append(b.writes, append([]byte(nil), p...))
	return b.writeErr
}

func (b *stubBus) Read(p []byte) error {
	if b.readErr != nil {
		return b.readErr
	}
	copy(p, b.readResp)
	return nil
}

func (b *stubBus) Close() error { return nil }

func TestSessionWake(t *testing.T) {
	d := newDeviceBus(t)
	s := New(d)

	if s.State() != StateUnpowered {
		t.Fatalf("initial state %s, want unpowered", s.State())
	}
	if err := s.Wake(); err != nil {
		t.Fatalf("Wake failed: %v", err)
	}
	if s.State() != StateAwake {
		t.Errorf("state %s after wake, want awake", s.State())
	}
}

func TestSessionWake_BadAcknowledgement(t *testing.T) {
	tests := []struct {
		name string
		resp []byte
	}{
		{name: "error status", resp: []byte{0x04, 0xFF, 0x00, 0x00}},
		{name: "wrong count", resp: []byte{0x07, 0x11, 0x00, 0x00}},
		{name: "all zero", resp: []byte{0x00, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&stubBus{readResp: tt.resp})
			err := s.Wake()
			var werr *WakeError
			if !errors.As(err, &werr) {
				t.Fatalf("expected WakeError, got %v", err)
			}
			if !bytes.Equal(werr.Response, tt.resp) {
				t.Errorf("WakeError response % X, want % X", werr.Response, tt.resp)
			}
			if s.State() != StateUnpowered {
				t.Errorf("state %s after failed wake, want unpowered", s.State())
			}
		})
	}
}

func TestSessionWake_ReadFailure(t *testing.T) {
	s := New(&stubBus{readErr: fmt.Errorf("wire fell off")})
	err := s.Wake()
	var berr *BusError
	if !errors.As(err, &berr) {
		t.Fatalf("expected BusError, got %v", err)
	}
	if berr.Op != "wake read" {
		t.Errorf("BusError op %q, want \"wake read\"", berr.Op)
	}
}

func TestSessionExecute_RequiresAwake(t *testing.T) {
	s := New(newDeviceBus(t))
	_, err := s.Execute(OpRandom, 0, 0, nil, RandomSize, 0)
	if !errors.Is(err, ErrNotAwake) {
		t.Errorf("expected ErrNotAwake, got %v", err)
	}
}

func TestSessionExecute_WordAddressPrefix(t *testing.T) {
	d := newDeviceBus(t)
	s := wakeSession(t, d)

	if _, err := s.Random(8); err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	// The emulator validates the command frame itself; reaching here means
	// the word-address prefix and framing were accepted.
	if got := s.Stats().Commands; got != 1 {
		t.Errorf("command count %d, want 1", got)
	}
}

func TestSessionExecute_NakTolerated(t *testing.T) {
	d := newDeviceBus(t)
	s := wakeSession(t, d)
	d.nakWrites = 1

	if _, err := s.Random(8); err != nil {
		t.Fatalf("Random should survive one transient NAK: %v", err)
	}
	if got := s.Stats().Naks; got != 1 {
		t.Errorf("NAK count %d, want 1", got)
	}
}

func TestSessionExecute_BusErrorOnRead(t *testing.T) {
	b := &stubBus{readResp: []byte{0x04, 0x11, 0x33, 0x43}}
	s := New(b)
	if err := s.Wake(); err != nil {
		t.Fatalf("Wake failed: %v", err)
	}

	b.readErr = fmt.Errorf("bus lockup")
	_, err := s.Execute(OpRandom, 0, 0, nil, RandomSize, 0)
	var berr *BusError
	if !errors.As(err, &berr) {
		t.Fatalf("expected BusError, got %v", err)
	}
	if berr.Op != "response read" {
		t.Errorf("BusError op %q, want \"response read\"", berr.Op)
	}
}

func TestSessionExecute_ChecksumCounted(t *testing.T) {
	d := newDeviceBus(t)
	s := wakeSession(t, d)
	d.corruptNextCRC = true

	_, err := s.Random(8)
	var cerr *ChecksumError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ChecksumError, got %v", err)
	}
	if got := s.Stats().CRCFailures; got != 1 {
		t.Errorf("CRC failure count %d, want 1", got)
	}
}

func TestSessionSleep(t *testing.T) {
	d := newDeviceBus(t)
	s := wakeSession(t, d)

	s.Sleep()
	if s.State() != StateAsleep {
		t.Errorf("state %s after sleep, want asleep", s.State())
	}
	if d.sleeps != 1 {
		t.Errorf("sleep writes %d, want 1", d.sleeps)
	}

	// Commands after sleep require a fresh wake.
	if _, err := s.Random(8); !errors.Is(err, ErrNotAwake) {
		t.Errorf("expected ErrNotAwake after sleep, got %v", err)
	}
}

func TestSessionSleep_FailureNonFatal(t *testing.T) {
	b := &stubBus{readResp: []byte{0x04, 0x11, 0x33, 0x43}}
	s := New(b)
	if err := s.Wake(); err != nil {
		t.Fatalf("Wake failed: %v", err)
	}

	b.writeErr = fmt.Errorf("device already gone")
	s.Sleep()
	if s.State() != StateAsleep {
		t.Errorf("state %s after failed sleep write, want asleep", s.State())
	}
}

func TestSessionClose(t *testing.T) {
	d := newDeviceBus(t)
	s := New(d)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !d.closed {
		t.Error("Close did not release the bus")
	}
}
