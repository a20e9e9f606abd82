// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

// Package wsbridge provides an atecc.Bus tunnelled over a WebSocket to a
// remote bridge agent that holds the physical bus. Each Write or Read becomes
// one CBOR-encoded request/reply pair carried in a binary message, so a
// workstation can drive a device attached to a gateway in the field.
package wsbridge

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"

	"github.com/ferrodyne/atecctl/pkg/atecc"
)

// Request is one bus operation forwarded to the bridge agent.
type Request struct {
	Op    string `cbor:"1,keyasint"`
	Data  []byte `cbor:"2,keyasint,omitempty"`
	Count int    `cbor:"3,keyasint,omitempty"`
}

// Reply is the agent's answer. Exactly one of Data, Nak or Err is meaningful.
type Reply struct {
	Data []byte `cbor:"1,keyasint,omitempty"`
	Nak  bool   `cbor:"2,keyasint,omitempty"`
	Err  string `cbor:"3,keyasint,omitempty"`
}

// Bus operation names on the wire.
const (
	OpWrite = "write"
	OpRead  = "read"
)

// Options configures the bridge connection.
type Options struct {
	Username      string
	Password      string
	SkipTLSVerify bool
}

// Bus is a connected bridge session.
type Bus struct {
	conn *websocket.Conn
}

// Dial connects to the bridge agent at a ws:// or wss:// URL.
func Dial(rawURL string, opts Options) (*Bus, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing bridge URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: opts.SkipTLSVerify,
		}
	}

	headers := http.Header{}
	if opts.Username != "" && opts.Password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(opts.Username + ":" + opts.Password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	conn, _, err := dialer.Dial(u.String(), headers)
	if err != nil {
		return nil, fmt.Errorf("connecting to bridge %s: %w", u.Host, err)
	}
	return &Bus{conn: conn}, nil
}

// Write forwards p to the remote bus.
func (b *Bus) Write(p []byte) error {
	_, err := b.roundTrip(Request{Op: OpWrite, Data: p})
	return err
}

// Read asks the remote bus for len(p) bytes.
func (b *Bus) Read(p []byte) error {
	data, err := b.roundTrip(Request{Op: OpRead, Count: len(p)})
	if err != nil {
		return err
	}
	if len(data) != len(p) {
		return fmt.Errorf("bridge returned %d bytes, want %d", len(data), len(p))
	}
	copy(p, data)
	return nil
}

// Close closes the WebSocket.
func (b *Bus) Close() error {
	return b.conn.Close()
}

func (b *Bus) roundTrip(req Request) ([]byte, error) {
	payload, err := cbor.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding bridge request: %w", err)
	}
	if err := b.conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
		return nil, fmt.Errorf("bridge write: %w", err)
	}

	for {
		messageType, raw, err := b.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("bridge read: %w", err)
		}
		// The agent may interleave text keepalives; only binary frames
		// carry replies.
		if messageType != websocket.BinaryMessage {
			continue
		}

		var reply Reply
		if err := cbor.Unmarshal(raw, &reply); err != nil {
			return nil, fmt.Errorf("decoding bridge reply: %w", err)
		}
		switch {
		case reply.Nak:
			return nil, fmt.Errorf("bridge: %w", atecc.ErrNak)
		case reply.Err != "":
			return nil, fmt.Errorf("bridge agent: %s", reply.Err)
		default:
			return reply.Data, nil
		}
	}
}
