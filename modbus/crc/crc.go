// Copyright (c) 2014 Quoc-Viet Nguyen. All rights reserved.
// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package crc implements the CRC-16/MODBUS frame check sequence used by RTU framing.
package crc

import (
	"github.com/sigurn/crc16"
)

// Size is the number of check bytes appended to an RTU frame.
const Size = 2

var table = crc16.MakeTable(crc16.CRC16_MODBUS)

// CRC is a running CRC-16/MODBUS. Call Reset before the first PushBytes.
type CRC struct {
	state uint16
}

// Reset restores the initial value 0xFFFF.
func (crc *CRC) Reset() *CRC {
	crc.state = crc16.Init(table)
	return crc
}

// PushBytes feeds bs into the checksum.
func (crc *CRC) PushBytes(bs []byte) *CRC {
	crc.state = crc16.Update(crc.state, bs, table)
	return crc
}

// Value returns the checksum of all bytes pushed since the last Reset.
func (crc *CRC) Value() uint16 {
	return crc16.Complete(crc.state, table)
}

// Checksum computes the CRC of data in one call.
func Checksum(data []byte) uint16 {
	return crc16.Checksum(data, table)
}

// Append returns frame followed by its CRC, low byte first.
func Append(frame []byte) []byte {
	sum := Checksum(frame)
	return append(frame, byte(sum), byte(sum>>8))
}

// Received returns the little-endian checksum stored in the last two bytes of frame.
// frame must be at least Size bytes long.
func Received(frame []byte) uint16 {
	n := len(frame)
	return uint16(frame[n-1])<<8 | uint16(frame[n-2])
}

// Verify reports whether the trailing two bytes of frame match the CRC of the bytes before them.
func Verify(frame []byte) bool {
	if len(frame) < Size {
		return false
	}
	return Received(frame) == Checksum(frame[:len(frame)-Size])
}
