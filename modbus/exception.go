// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

import (
	"fmt"

	"github.com/ffutop/modbus-codec/modbus/crc"
)

const exceptionSize = 3

// ExceptionFrame is a slave's refusal of a request.
// The function code is kept without the error bit, the exception code as received.
type ExceptionFrame struct {
	slaveID      byte
	functionCode byte
	code         byte
}

// NewException builds an exception frame from its components.
func NewException(code ExceptionCode, slaveID byte, fc FunctionCode) ExceptionFrame {
	return ExceptionFrame{slaveID: slaveID, functionCode: byte(fc) &^ ErrorBit, code: byte(code)}
}

// IsException reports whether raw carries the error bit in its function code byte.
func IsException(raw []byte) bool {
	return len(raw) >= 2 && raw[1]&ErrorBit != 0
}

// DecodeException parses an exception ADU. With withCRC the buffer ends in the CRC trailer.
func DecodeException(raw []byte, withCRC bool) (ExceptionFrame, error) {
	want := exceptionSize
	if withCRC {
		want += crc.Size
	}
	if len(raw) != want {
		return ExceptionFrame{}, frameErr(ErrMalformedFrame, "exception length %d, want %d", len(raw), want)
	}
	if raw[1]&ErrorBit == 0 {
		return ExceptionFrame{}, headerErr(ErrNotAnException, raw[0], raw[1], "error bit not set")
	}
	if withCRC && !crc.Verify(raw) {
		return ExceptionFrame{}, headerErr(ErrCRC, raw[0], raw[1], "received 0x%04X, computed 0x%04X", crc.Received(raw), crc.Checksum(raw[:exceptionSize]))
	}
	return ExceptionFrame{slaveID: raw[0], functionCode: raw[1] &^ ErrorBit, code: raw[2]}, nil
}

// EncodeException is the function form of ExceptionFrame.Encode.
func EncodeException(e ExceptionFrame, withCRC bool) []byte {
	return e.Encode(withCRC)
}

// Encode returns [slave, fc|0x80, code], followed by the CRC when withCRC is set.
func (e ExceptionFrame) Encode(withCRC bool) []byte {
	raw := []byte{e.slaveID, e.functionCode | ErrorBit, e.code}
	if withCRC {
		raw = crc.Append(raw)
	}
	return raw
}

func (e ExceptionFrame) SlaveID() byte { return e.slaveID }

// FunctionCode returns the function the exception answers, Undefined if it is not supported.
func (e ExceptionFrame) FunctionCode() FunctionCode { return FunctionCodeFromByte(e.functionCode) }

// RawFunctionCode returns the function code byte without the error bit.
func (e ExceptionFrame) RawFunctionCode() byte { return e.functionCode }

func (e ExceptionFrame) Code() ExceptionCode { return ExceptionCodeFromByte(e.code) }

// RawCode returns the exception code byte as received.
func (e ExceptionFrame) RawCode() byte { return e.code }

func (e ExceptionFrame) String() string {
	return fmt.Sprintf("exception slave=%d function=0x%02X code=0x%02X (%s)", e.slaveID, e.functionCode, e.code, ExceptionCodeFromByte(e.code))
}

// Error lets an exception reply be returned as an error by callers that treat it as one.
func (e ExceptionFrame) Error() string {
	return fmt.Sprintf("modbus: exception '%v' (%s), function '%v'", e.code, ExceptionCodeFromByte(e.code), e.functionCode)
}
