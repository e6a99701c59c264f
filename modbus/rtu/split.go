// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package rtu

import (
	"github.com/ffutop/modbus-codec/modbus"
	"github.com/ffutop/modbus-codec/modbus/crc"
)

// Frame is one CRC-valid ADU found in a byte stream. Bytes aliases the scanned data.
type Frame struct {
	Offset    int
	Bytes     []byte
	Direction Direction
}

// Split walks an RTU byte stream and returns every frame whose CRC verifies.
// At each offset the exception, request and response lengths are tried in that order;
// when none of them verifies the byte is skipped and counted as noise.
//
// Write single requests and their echo are indistinguishable, such frames are reported as requests.
func Split(data []byte) (frames []Frame, noise int) {
	for off := 0; off < len(data); {
		if frame, ok := match(data[off:]); ok {
			frame.Offset = off
			frames = append(frames, frame)
			off += len(frame.Bytes)
			continue
		}
		noise++
		off++
	}
	return frames, noise
}

func match(rest []byte) (Frame, bool) {
	if len(rest) < MinSize {
		return Frame{}, false
	}
	if modbus.IsException(rest) {
		return candidate(rest, ExceptionSize, DirectionException)
	}
	if n, err := CalculateRequestLength(rest[1], rest); err == nil {
		if f, ok := candidate(rest, n, DirectionRequest); ok {
			return f, true
		}
	}
	if n, err := CalculateResponseLength(rest[1], rest); err == nil {
		if f, ok := candidate(rest, n, DirectionResponse); ok {
			return f, true
		}
	}
	return Frame{}, false
}

func candidate(rest []byte, n int, dir Direction) (Frame, bool) {
	if n > len(rest) || !crc.Verify(rest[:n]) {
		return Frame{}, false
	}
	return Frame{Bytes: rest[:n:n], Direction: dir}, true
}
