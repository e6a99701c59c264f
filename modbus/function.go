// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

import "fmt"

// FunctionCode identifies the operation a frame performs.
type FunctionCode byte

// Function Codes
const (
	FuncCodeUndefined FunctionCode = 0x00

	FuncCodeReadCoils            FunctionCode = 0x01
	FuncCodeReadDiscreteInputs   FunctionCode = 0x02
	FuncCodeReadHoldingRegisters FunctionCode = 0x03
	FuncCodeReadInputRegisters   FunctionCode = 0x04

	FuncCodeWriteSingleCoil        FunctionCode = 0x05
	FuncCodeWriteSingleRegister    FunctionCode = 0x06
	FuncCodeWriteMultipleCoils     FunctionCode = 0x0F
	FuncCodeWriteMultipleRegisters FunctionCode = 0x10
)

// ErrorBit is set in the function code byte of an exception reply.
const ErrorBit = 0x80

// PayloadKind is the type of value a function carries.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadRegister
	PayloadCoil
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadRegister:
		return "register"
	case PayloadCoil:
		return "coil"
	default:
		return "none"
	}
}

// FunctionType groups function codes that share a wire layout.
type FunctionType int

const (
	FunctionUndefined FunctionType = iota
	FunctionRead
	FunctionWriteSingle
	FunctionWriteMultiple
)

// Table is the Modbus data table a function addresses.
type Table int

const (
	TableNone Table = iota
	TableCoils
	TableDiscreteInputs
	TableHoldingRegisters
	TableInputRegisters
)

func (t Table) String() string {
	switch t {
	case TableCoils:
		return "coils"
	case TableDiscreteInputs:
		return "discrete inputs"
	case TableHoldingRegisters:
		return "holding registers"
	case TableInputRegisters:
		return "input registers"
	default:
		return "none"
	}
}

// Layout describes which fields a function code carries and how its values are encoded.
type Layout struct {
	Kind  PayloadKind
	Type  FunctionType
	Table Table
}

// IsMultiValue reports whether the function carries a count of values rather than exactly one.
func (l Layout) IsMultiValue() bool {
	return l.Type == FunctionRead || l.Type == FunctionWriteMultiple
}

// MaxCount is the largest value count the function accepts.
func (l Layout) MaxCount() uint16 {
	switch {
	case l.Type == FunctionWriteSingle:
		return 1
	case l.Kind == PayloadCoil:
		return MaxCoilCount
	case l.Kind == PayloadRegister:
		return MaxRegisterCount
	default:
		return 0
	}
}

// Quantity limits per frame.
const (
	MaxCoilCount     = 2000
	MaxRegisterCount = 125
)

var layouts = map[FunctionCode]Layout{
	FuncCodeReadCoils:              {PayloadCoil, FunctionRead, TableCoils},
	FuncCodeReadDiscreteInputs:     {PayloadCoil, FunctionRead, TableDiscreteInputs},
	FuncCodeReadHoldingRegisters:   {PayloadRegister, FunctionRead, TableHoldingRegisters},
	FuncCodeReadInputRegisters:     {PayloadRegister, FunctionRead, TableInputRegisters},
	FuncCodeWriteSingleCoil:        {PayloadCoil, FunctionWriteSingle, TableCoils},
	FuncCodeWriteSingleRegister:    {PayloadRegister, FunctionWriteSingle, TableHoldingRegisters},
	FuncCodeWriteMultipleCoils:     {PayloadCoil, FunctionWriteMultiple, TableCoils},
	FuncCodeWriteMultipleRegisters: {PayloadRegister, FunctionWriteMultiple, TableHoldingRegisters},
}

var functionNames = map[FunctionCode]string{
	FuncCodeReadCoils:              "Read Coils",
	FuncCodeReadDiscreteInputs:     "Read Discrete Inputs",
	FuncCodeReadHoldingRegisters:   "Read Holding Registers",
	FuncCodeReadInputRegisters:     "Read Input Registers",
	FuncCodeWriteSingleCoil:        "Write Single Coil",
	FuncCodeWriteSingleRegister:    "Write Single Register",
	FuncCodeWriteMultipleCoils:     "Write Multiple Coils",
	FuncCodeWriteMultipleRegisters: "Write Multiple Registers",
}

// FunctionCodeFromByte maps a wire byte to a known function code. Unknown values,
// including bytes with the error bit set, map to FuncCodeUndefined.
func FunctionCodeFromByte(b byte) FunctionCode {
	fc := FunctionCode(b)
	if _, ok := layouts[fc]; !ok {
		return FuncCodeUndefined
	}
	return fc
}

// RegistersPerFunction returns the layout of fc. Undefined codes get PayloadNone.
func RegistersPerFunction(fc FunctionCode) Layout {
	return layouts[fc]
}

// IsDefined reports whether fc is one of the supported function codes.
func (fc FunctionCode) IsDefined() bool {
	_, ok := layouts[fc]
	return ok
}

func (fc FunctionCode) String() string {
	if s, ok := functionNames[fc]; ok {
		return s
	}
	return "Undefined"
}

// GoString renders the code with its wire value, e.g. "Read Coils (0x01)".
func (fc FunctionCode) GoString() string {
	return fmt.Sprintf("%s (0x%02X)", fc.String(), byte(fc))
}
