// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

import (
	"errors"
	"fmt"
)

// Error kinds. Every decode or construction failure wraps exactly one of these.
var (
	ErrMalformedFrame     = errors.New("modbus: malformed frame")
	ErrIllegalFunction    = errors.New("modbus: illegal function")
	ErrIllegalDataAddress = errors.New("modbus: illegal data address")
	ErrIllegalDataValue   = errors.New("modbus: illegal data value")
	ErrCRC                = errors.New("modbus: crc mismatch")
	ErrTypeMismatch       = errors.New("modbus: cell type mismatch")
	ErrNotAnException     = errors.New("modbus: not an exception frame")
)

// FrameError describes why a buffer or a set of fields could not become a frame.
// SlaveID and FunctionCode are only meaningful when HasHeader is true.
type FrameError struct {
	Kind         error
	SlaveID      byte
	FunctionCode byte
	HasHeader    bool
	Detail       string
}

func (e *FrameError) Error() string {
	msg := e.Kind.Error()
	if e.HasHeader {
		msg = fmt.Sprintf("%s (slave %d, function 0x%02X)", msg, e.SlaveID, e.FunctionCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *FrameError) Unwrap() error {
	return e.Kind
}

// Exception returns the exception frame a slave replies with for this failure.
// Only illegal function, address and value failures with a known header have one.
func (e *FrameError) Exception() (ExceptionFrame, bool) {
	if !e.HasHeader {
		return ExceptionFrame{}, false
	}
	var code ExceptionCode
	switch e.Kind {
	case ErrIllegalFunction:
		code = ExceptionCodeIllegalFunction
	case ErrIllegalDataAddress:
		code = ExceptionCodeIllegalDataAddress
	case ErrIllegalDataValue:
		code = ExceptionCodeIllegalDataValue
	default:
		return ExceptionFrame{}, false
	}
	return ExceptionFrame{slaveID: e.SlaveID, functionCode: e.FunctionCode &^ ErrorBit, code: byte(code)}, true
}

func frameErr(kind error, format string, args ...any) *FrameError {
	return &FrameError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func headerErr(kind error, slaveID, fc byte, format string, args ...any) *FrameError {
	return &FrameError{
		Kind:         kind,
		SlaveID:      slaveID,
		FunctionCode: fc,
		HasHeader:    true,
		Detail:       fmt.Sprintf(format, args...),
	}
}
