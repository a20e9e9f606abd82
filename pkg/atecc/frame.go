// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package atecc

// BuildCommand assembles a command frame for the given opcode and parameters.
// payload may be nil. The returned frame is
//
//	[len][opcode][param1][param2_lo][param2_hi][payload...][crc_lo][crc_hi]
//
// where len counts every byte of the frame including itself, and the CRC
// covers everything before it. The word-address marker is not part of the
// frame; the dispatcher prepends it when writing to the bus.
func BuildCommand(opcode, param1 byte, param2 uint16, payload []byte) ([]byte, error) {
	if len(payload) > MaxCommandSize-cmdOverhead {
		return nil, &PayloadSizeError{Size: len(payload), Max: MaxCommandSize - cmdOverhead}
	}
	frame := make([]byte, 0, cmdOverhead+len(payload))
	frame = append(frame, byte(cmdOverhead+len(payload)), opcode, param1, byte(param2), byte(param2>>8))
	frame = append(frame, payload...)
	return appendCRC(frame), nil
}

// ParseResponse validates a raw response frame and returns its data bytes.
// wantLen is the minimum number of data bytes the caller expects. A count of
// exactly MinResponseSize marks a status-only response: success with no data
// yields ErrEmptyResponse, any other code a StatusError. When withCRC is set
// the trailing two bytes are checked against the CRC of everything before
// them.
func ParseResponse(raw []byte, wantLen int, withCRC bool) ([]byte, error) {
	if len(raw) < 2 {
		return nil, &MalformedResponseError{Count: rawCount(raw), Have: len(raw)}
	}
	count := int(raw[0])
	if count < MinResponseSize {
		return nil, &MalformedResponseError{Count: count, Have: len(raw)}
	}
	if count == MinResponseSize {
		if status := raw[1]; status != StatusSuccess {
			return nil, &StatusError{Code: status}
		}
		return nil, ErrEmptyResponse
	}
	if count > len(raw) {
		return nil, &MalformedResponseError{Count: count, Have: len(raw)}
	}
	available := count - 1
	if withCRC {
		available = count - 3
	}
	if available < wantLen {
		return nil, &ShortResponseError{Want: wantLen, Got: available}
	}
	if withCRC {
		if err := checkCRC(raw[:count]); err != nil {
			return nil, err
		}
	}
	return raw[1 : 1+wantLen], nil
}

// ParseExactResponse validates a response frame whose count byte must match
// wantCount exactly, returning its data bytes. Used for operations with a
// fixed response size, such as AES blocks and SHA digests, where any other
// count means the exchange went wrong. Status-only responses still surface
// as StatusError so device-reported failures stay diagnosable.
func ParseExactResponse(raw []byte, wantCount int) ([]byte, error) {
	if len(raw) < 2 {
		return nil, &MalformedResponseError{Count: rawCount(raw), Have: len(raw)}
	}
	count := int(raw[0])
	if count < MinResponseSize {
		return nil, &MalformedResponseError{Count: count, Have: len(raw)}
	}
	if count == MinResponseSize {
		if status := raw[1]; status != StatusSuccess {
			return nil, &StatusError{Code: status}
		}
		return nil, ErrEmptyResponse
	}
	if count != wantCount || count > len(raw) {
		return nil, &LengthError{Want: wantCount, Got: count}
	}
	if err := checkCRC(raw[:count]); err != nil {
		return nil, err
	}
	return raw[1 : count-2], nil
}

func rawCount(raw []byte) int {
	if len(raw) == 0 {
		return 0
	}
	return int(raw[0])
}
