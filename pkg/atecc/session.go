// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package atecc

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Bus is a byte-level link to the device. Implementations carry the fixed
// 7-bit device address; Write and Read each perform one addressed bus
// transaction, and Read must fill p completely. A transient NAK from the
// device is reported as ErrNak (possibly wrapped).
type Bus interface {
	Write(p []byte) error
	Read(p []byte) error
	Close() error
}

// State is the device power state tracked by a Session.
type State int

const (
	StateUnpowered State = iota
	StateAwake
	StateAsleep
)

func (s State) String() string {
	switch s {
	case StateUnpowered:
		return "unpowered"
	case StateAwake:
		return "awake"
	case StateAsleep:
		return "asleep"
	default:
		return "unknown"
	}
}

// Stats counts bus transactions since the session was created.
type Stats struct {
	Commands    uint64 // command frames written
	Naks        uint64 // transient NAKs tolerated
	CRCFailures uint64 // responses rejected for checksum mismatch
}

// Session drives a single secure element over a Bus. It owns the bus handle
// for its lifetime and performs no internal locking; callers sharing a
// Session across goroutines must serialize externally, and no two commands
// may be in flight at once.
//
// Commands may only be issued in the Awake state; call Wake first. There is
// no automatic re-wake after a failure, and the device's own watchdog drops
// it back to sleep on its own schedule.
type Session struct {
	bus   Bus
	state State
	log   zerolog.Logger
	stats Stats
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger. Without it the session is silent.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// New creates a Session over the given bus. The session starts Unpowered.
func New(bus Bus, opts ...Option) *Session {
	s := &Session{
		bus:   bus,
		state: StateUnpowered,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the tracked power state.
func (s *Session) State() State { return s.state }

// Stats returns the transaction counters.
func (s *Session) Stats() Stats { return s.stats }

// Close releases the underlying bus handle.
func (s *Session) Close() error { return s.bus.Close() }

// Wake issues the bus-level wake token, waits the wake settle interval, and
// verifies the documented acknowledgement (count 0x04, status 0x11). Any
// mismatch is a WakeError and the session stays Unpowered. The wake write
// itself is expected to NAK while the device is still asleep.
func (s *Session) Wake() error {
	if err := s.bus.Write([]byte{wakeToken}); err != nil && !errors.Is(err, ErrNak) {
		return &BusError{Op: "wake write", Err: err}
	}
	time.Sleep(DelayWake)

	resp := make([]byte, MinResponseSize)
	if err := s.bus.Read(resp); err != nil {
		return &BusError{Op: "wake read", Err: err}
	}
	if resp[0] != MinResponseSize || resp[1] != StatusAfterWake {
		return &WakeError{Response: resp}
	}
	s.state = StateAwake
	s.log.Debug().Hex("response", resp).Msg("device awake")
	return nil
}

// Sleep writes the sleep word address and waits the sleep settle interval.
// The device may already be unresponsive, so failures are logged rather than
// returned; the session is considered Asleep either way.
func (s *Session) Sleep() {
	if err := s.bus.Write([]byte{WordAddrSleep}); err != nil {
		s.log.Warn().Err(err).Msg("sleep write failed")
	}
	time.Sleep(DelaySleep)
	s.state = StateAsleep
	s.log.Debug().Msg("device asleep")
}

// Execute runs one framed command transaction: build the frame, write it
// (tolerating a transient NAK from a busy device), wait the operation's
// settle delay, then read and parse a checksummed response carrying at least
// wantLen data bytes. Once the command is written the response is always
// read, so the device does not carry corrupted state into the next command.
func (s *Session) Execute(opcode, param1 byte, param2 uint16, payload []byte, wantLen int, settle time.Duration) ([]byte, error) {
	if err := s.send(opcode, param1, param2, payload); err != nil {
		return nil, err
	}
	time.Sleep(settle)

	raw, err := s.receive(wantLen + 3)
	if err != nil {
		return nil, err
	}
	data, err := ParseResponse(raw, wantLen, true)
	if err != nil {
		s.noteParseError(opcode, err)
		return nil, err
	}
	return data, nil
}

// send frames a command and writes it behind the command word address.
func (s *Session) send(opcode, param1 byte, param2 uint16, payload []byte) error {
	if s.state != StateAwake {
		return fmt.Errorf("%w (state %s)", ErrNotAwake, s.state)
	}
	frame, err := BuildCommand(opcode, param1, param2, payload)
	if err != nil {
		return err
	}

	msg := make([]byte, 0, len(frame)+1)
	msg = append(msg, WordAddrCommand)
	msg = append(msg, frame...)

	s.stats.Commands++
	if err := s.bus.Write(msg); err != nil {
		if errors.Is(err, ErrNak) {
			// The device legitimately NAKs while busy with the previous
			// command; the settle delay gives it time to catch up.
			s.stats.Naks++
			s.log.Debug().Uint8("opcode", opcode).Msg("command write NAKed")
			return nil
		}
		return &BusError{Op: "command write", Err: err}
	}
	return nil
}

// receive reads a raw response of the given total size (count byte plus data
// plus checksum), capped at the device's maximum response size.
func (s *Session) receive(total int) ([]byte, error) {
	if total > MaxResponseSize {
		total = MaxResponseSize
	}
	raw := make([]byte, total)
	if err := s.bus.Read(raw); err != nil {
		return nil, &BusError{Op: "response read", Err: err}
	}
	return raw, nil
}

func (s *Session) noteParseError(opcode byte, err error) {
	var cerr *ChecksumError
	if errors.As(err, &cerr) {
		s.stats.CRCFailures++
		s.log.Debug().
			Uint8("opcode", opcode).
			Uint16("expected", cerr.Want).
			Uint16("got", cerr.Got).
			Msg("response CRC mismatch")
	}
}
