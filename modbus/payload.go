// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

import (
	"encoding/binary"
	"fmt"
)

// Single coil wire values.
const (
	CoilOn  uint16 = 0xFF00
	CoilOff uint16 = 0x0000
)

const addressSpace = 1 << 16

// ByteCount returns the number of payload bytes needed to carry count values of kind.
func ByteCount(kind PayloadKind, count uint16) int {
	switch kind {
	case PayloadCoil:
		return (int(count) + 7) / 8
	case PayloadRegister:
		return int(count) * 2
	default:
		return 0
	}
}

// violation is a failed range or consistency check, before the frame header is attached.
type violation struct {
	kind   error
	detail string
}

func (v *violation) frameError(slaveID byte, fc FunctionCode) *FrameError {
	return headerErr(v.kind, slaveID, byte(fc), "%s", v.detail)
}

func checkCount(layout Layout, count uint16) *violation {
	if layout.Type == FunctionWriteSingle {
		if count != 1 {
			return &violation{ErrIllegalDataValue, fmt.Sprintf("single write count %d, want 1", count)}
		}
		return nil
	}
	limit := layout.MaxCount()
	if count < 1 || count > limit {
		return &violation{ErrIllegalDataValue, fmt.Sprintf("%s count %d outside [1, %d]", layout.Kind, count, limit)}
	}
	return nil
}

func checkAddress(address, count uint16) *violation {
	if int(address)+int(count) > addressSpace {
		return &violation{ErrIllegalDataAddress, fmt.Sprintf("address %d + count %d exceeds address space", address, count)}
	}
	return nil
}

// checkValues validates that values holds want cells of the layout's payload kind.
func checkValues(layout Layout, want int, values []Cell) *violation {
	if len(values) != want {
		return &violation{ErrIllegalDataValue, fmt.Sprintf("got %d values, want %d", len(values), want)}
	}
	for i, v := range values {
		if (layout.Kind == PayloadCoil) != v.IsCoil() {
			return &violation{ErrIllegalDataValue, fmt.Sprintf("value %d is not a %s", i, layout.Kind)}
		}
	}
	return nil
}

// checkFields runs the count, address and value checks in that order.
func checkFields(layout Layout, address, count uint16, values []Cell, wantValues int) *violation {
	if v := checkCount(layout, count); v != nil {
		return v
	}
	if v := checkAddress(address, count); v != nil {
		return v
	}
	return checkValues(layout, wantValues, values)
}

// packCoils packs coil cells LSB-first. Padding bits in the last byte are zero.
func packCoils(values []Cell) []byte {
	out := make([]byte, (len(values)+7)/8)
	for i, v := range values {
		if v.coil {
			out[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return out
}

// unpackCoils returns exactly count coils from LSB-first packed data.
func unpackCoils(data []byte, count int) []Cell {
	cells := make([]Cell, count)
	for i := range cells {
		cells[i] = CoilCell(data[i/8]&(1<<(uint(i)%8)) != 0)
	}
	return cells
}

func packRegisters(values []Cell) []byte {
	out := make([]byte, len(values)*2)
	for i, v := range values {
		binary.BigEndian.PutUint16(out[i*2:], v.register)
	}
	return out
}

func unpackRegisters(data []byte, count int) []Cell {
	cells := make([]Cell, count)
	for i := range cells {
		cells[i] = RegisterCell(binary.BigEndian.Uint16(data[i*2:]))
	}
	return cells
}

func packValues(kind PayloadKind, values []Cell) []byte {
	if kind == PayloadCoil {
		return packCoils(values)
	}
	return packRegisters(values)
}

func unpackValues(kind PayloadKind, data []byte, count int) []Cell {
	if kind == PayloadCoil {
		return unpackCoils(data, count)
	}
	return unpackRegisters(data, count)
}

// singleValue returns the two wire bytes of a write single value.
func singleValue(v Cell) uint16 {
	if v.IsCoil() {
		if v.coil {
			return CoilOn
		}
		return CoilOff
	}
	return v.register
}

// decodeSingleValue interprets a write single value word.
func decodeSingleValue(kind PayloadKind, word uint16) (Cell, bool) {
	if kind != PayloadCoil {
		return RegisterCell(word), true
	}
	switch word {
	case CoilOn:
		return CoilCell(true), true
	case CoilOff:
		return CoilCell(false), true
	}
	return Cell{}, false
}
