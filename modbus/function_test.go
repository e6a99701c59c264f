// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

import "testing"

func TestFunctionCodeFromByte(t *testing.T) {
	tests := []struct {
		b    byte
		want FunctionCode
	}{
		{0x01, FuncCodeReadCoils},
		{0x04, FuncCodeReadInputRegisters},
		{0x0F, FuncCodeWriteMultipleCoils},
		{0x10, FuncCodeWriteMultipleRegisters},
		{0x00, FuncCodeUndefined},
		{0x07, FuncCodeUndefined},
		{0x16, FuncCodeUndefined},
		{0x83, FuncCodeUndefined},
	}
	for _, tt := range tests {
		if got := FunctionCodeFromByte(tt.b); got != tt.want {
			t.Errorf("FunctionCodeFromByte(0x%02X) = %v, want %v", tt.b, got, tt.want)
		}
	}
	if s := FunctionCodeFromByte(0x42).String(); s != "Undefined" {
		t.Errorf("undefined String() = %q", s)
	}
	if s := FuncCodeReadHoldingRegisters.String(); s != "Read Holding Registers" {
		t.Errorf("String() = %q", s)
	}
}

func TestRegistersPerFunction(t *testing.T) {
	tests := []struct {
		name  string
		fc    FunctionCode
		want  Layout
		multi bool
	}{
		{"ReadCoils", FuncCodeReadCoils, Layout{PayloadCoil, FunctionRead, TableCoils}, true},
		{"ReadDiscreteInputs", FuncCodeReadDiscreteInputs, Layout{PayloadCoil, FunctionRead, TableDiscreteInputs}, true},
		{"ReadHoldingRegisters", FuncCodeReadHoldingRegisters, Layout{PayloadRegister, FunctionRead, TableHoldingRegisters}, true},
		{"ReadInputRegisters", FuncCodeReadInputRegisters, Layout{PayloadRegister, FunctionRead, TableInputRegisters}, true},
		{"WriteSingleCoil", FuncCodeWriteSingleCoil, Layout{PayloadCoil, FunctionWriteSingle, TableCoils}, false},
		{"WriteSingleRegister", FuncCodeWriteSingleRegister, Layout{PayloadRegister, FunctionWriteSingle, TableHoldingRegisters}, false},
		{"WriteMultipleCoils", FuncCodeWriteMultipleCoils, Layout{PayloadCoil, FunctionWriteMultiple, TableCoils}, true},
		{"WriteMultipleRegisters", FuncCodeWriteMultipleRegisters, Layout{PayloadRegister, FunctionWriteMultiple, TableHoldingRegisters}, true},
		{"Undefined", FuncCodeUndefined, Layout{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RegistersPerFunction(tt.fc)
			if got != tt.want {
				t.Errorf("RegistersPerFunction() = %+v, want %+v", got, tt.want)
			}
			if got.IsMultiValue() != tt.multi {
				t.Errorf("IsMultiValue() = %v, want %v", got.IsMultiValue(), tt.multi)
			}
		})
	}
}

func TestExceptionCodeFromByte(t *testing.T) {
	tests := []struct {
		b        byte
		want     ExceptionCode
		standard bool
		text     string
	}{
		{0x01, ExceptionCodeIllegalFunction, true, "Illegal Function"},
		{0x08, ExceptionCodeMemoryParityError, true, "Memory Parity Error"},
		{0x0A, ExceptionCodeGatewayPathUnavailable, true, "Gateway Path Unavailable"},
		{0x0B, ExceptionCodeGatewayTargetDeviceFailedToRespond, true, "Gateway Target Device Failed To Respond"},
		{0x09, ExceptionCodeUndefined, false, "Undefined"},
		{0x00, ExceptionCodeUndefined, false, "Undefined"},
		{0xFF, ExceptionCodeUndefined, false, "Undefined"},
	}
	for _, tt := range tests {
		got := ExceptionCodeFromByte(tt.b)
		if got != tt.want {
			t.Errorf("ExceptionCodeFromByte(0x%02X) = %v, want %v", tt.b, got, tt.want)
		}
		if got.IsStandard() != tt.standard {
			t.Errorf("0x%02X IsStandard() = %v", tt.b, got.IsStandard())
		}
		if got.String() != tt.text {
			t.Errorf("0x%02X String() = %q, want %q", tt.b, got.String(), tt.text)
		}
	}
}
