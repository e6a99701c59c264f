// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ffutop/modbus-codec/modbus/crc"
)

func TestNewExceptionEncode(t *testing.T) {
	e := NewException(ExceptionCodeIllegalFunction, 1, FuncCodeReadHoldingRegisters)
	if got, want := e.Encode(false), []byte{0x01, 0x83, 0x01}; !bytes.Equal(got, want) {
		t.Errorf("Encode(false) = % X, want % X", got, want)
	}
	withCRC := e.Encode(true)
	if len(withCRC) != 5 || !crc.Verify(withCRC) {
		t.Errorf("Encode(true) = % X, want valid 5 byte frame", withCRC)
	}
	if !bytes.Equal(EncodeException(e, true), withCRC) {
		t.Error("EncodeException differs from Encode")
	}
}

func TestDecodeException(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		slave    byte
		function FunctionCode
		code     ExceptionCode
	}{
		{"ReadCoils", []byte{0x0A, 0x81, 0x02}, 0x0A, FuncCodeReadCoils, ExceptionCodeIllegalDataAddress},
		{"ReadDiscreteInputs", []byte{0x0A, 0x82, 0x02}, 0x0A, FuncCodeReadDiscreteInputs, ExceptionCodeIllegalDataAddress},
		{"GatewayTarget", []byte{0x11, 0x90, 0x0B}, 0x11, FuncCodeWriteMultipleRegisters, ExceptionCodeGatewayTargetDeviceFailedToRespond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := DecodeException(tt.raw, false)
			if err != nil {
				t.Fatalf("DecodeException() error = %v", err)
			}
			if e.SlaveID() != tt.slave || e.FunctionCode() != tt.function || e.Code() != tt.code {
				t.Errorf("DecodeException() = %v", e)
			}
			if !bytes.Equal(e.Encode(false), tt.raw) {
				t.Errorf("Encode() = % X, want % X", e.Encode(false), tt.raw)
			}

			framed := crc.Append(append([]byte(nil), tt.raw...))
			e2, err := DecodeException(framed, true)
			if err != nil {
				t.Fatalf("DecodeException(crc) error = %v", err)
			}
			if e2 != e {
				t.Errorf("crc decode = %v, want %v", e2, e)
			}
		})
	}
}

func TestDecodeExceptionKeepsRawBytes(t *testing.T) {
	raw := []byte{0x01, 0xC7, 0x2A}
	e, err := DecodeException(raw, false)
	if err != nil {
		t.Fatalf("DecodeException() error = %v", err)
	}
	if e.FunctionCode() != FuncCodeUndefined || e.Code() != ExceptionCodeUndefined {
		t.Errorf("unknown codes should map to Undefined: %v", e)
	}
	if e.RawFunctionCode() != 0x47 || e.RawCode() != 0x2A {
		t.Errorf("raw codes = 0x%02X 0x%02X", e.RawFunctionCode(), e.RawCode())
	}
	if !bytes.Equal(e.Encode(false), raw) {
		t.Errorf("Encode() = % X, want % X", e.Encode(false), raw)
	}
}

func TestDecodeExceptionErrors(t *testing.T) {
	valid := crc.Append([]byte{0x01, 0x83, 0x02})
	corrupt := append([]byte(nil), valid...)
	corrupt[4] ^= 0x01

	tests := []struct {
		name    string
		raw     []byte
		withCRC bool
		want    error
	}{
		{"Empty", nil, false, ErrMalformedFrame},
		{"Short", []byte{0x01, 0x83}, false, ErrMalformedFrame},
		{"Long", []byte{0x01, 0x83, 0x02, 0x00}, false, ErrMalformedFrame},
		{"MissingCRC", []byte{0x01, 0x83, 0x02}, true, ErrMalformedFrame},
		{"NoErrorBit", []byte{0x01, 0x03, 0x02}, false, ErrNotAnException},
		{"BadCRC", corrupt, true, ErrCRC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeException(tt.raw, tt.withCRC)
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeException() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIsException(t *testing.T) {
	if !IsException([]byte{0x01, 0x83, 0x02}) {
		t.Error("IsException() = false for 0x83")
	}
	if IsException([]byte{0x01, 0x03, 0x02}) {
		t.Error("IsException() = true for 0x03")
	}
	if IsException([]byte{0x01}) {
		t.Error("IsException() = true for short buffer")
	}
}

func TestExceptionAsError(t *testing.T) {
	var err error = NewException(ExceptionCodeSlaveDeviceBusy, 3, FuncCodeReadCoils)
	var e ExceptionFrame
	if !errors.As(err, &e) || e.Code() != ExceptionCodeSlaveDeviceBusy {
		t.Errorf("errors.As() = %v", e)
	}
}
