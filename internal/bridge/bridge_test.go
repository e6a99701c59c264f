// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package bridge

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ffutop/modbus-codec/modbus"
)

var tcpReadHolding = []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x06, 0x11, 0x03, 0x00, 0x6B, 0x00, 0x03}

func TestTCPToRTU(t *testing.T) {
	adu, rtuRaw, err := TCPToRTU(tcpReadHolding)
	if err != nil {
		t.Fatalf("TCPToRTU() error = %v", err)
	}
	want := []byte{0x11, 0x03, 0x00, 0x6B, 0x00, 0x03, 0x76, 0x87}
	if !bytes.Equal(rtuRaw, want) {
		t.Errorf("TCPToRTU() = % X, want % X", rtuRaw, want)
	}
	if adu.TransactionID != 1 || adu.SlaveID != 0x11 {
		t.Errorf("TCPToRTU() adu = %+v", adu)
	}
}

func TestTCPToRTURejects(t *testing.T) {
	if _, _, err := TCPToRTU([]byte{0x00, 0x01}); err == nil {
		t.Error("TCPToRTU() of a short frame error = nil")
	}

	countZero := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x06, 0x11, 0x03, 0x00, 0x6B, 0x00, 0x00}
	adu, _, err := TCPToRTU(countZero)
	if !errors.Is(err, modbus.ErrIllegalDataValue) {
		t.Fatalf("TCPToRTU() error = %v, want ErrIllegalDataValue", err)
	}
	reply, ok := ExceptionReply(adu, err)
	if !ok {
		t.Fatal("ExceptionReply() = false")
	}
	want := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x03, 0x11, 0x83, 0x03}
	if !bytes.Equal(reply, want) {
		t.Errorf("ExceptionReply() = % X, want % X", reply, want)
	}

	if _, ok := ExceptionReply(adu, errors.New("other")); ok {
		t.Error("ExceptionReply() for a plain error = true")
	}
}

func TestRTUToTCP(t *testing.T) {
	adu, _, err := TCPToRTU(tcpReadHolding)
	if err != nil {
		t.Fatalf("TCPToRTU() error = %v", err)
	}
	gatewayFailure := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x03, 0x11, 0x83, 0x0B}

	tests := []struct {
		name string
		rtu  []byte
		want []byte
	}{
		{
			"Response",
			[]byte{0x11, 0x03, 0x06, 0xAE, 0x41, 0x56, 0x52, 0x43, 0x40, 0x49, 0xAD},
			[]byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x09, 0x11, 0x03, 0x06, 0xAE, 0x41, 0x56, 0x52, 0x43, 0x40},
		},
		{
			"Exception",
			modbus.NewException(modbus.ExceptionCodeIllegalDataAddress, 0x11, modbus.FuncCodeReadHoldingRegisters).Encode(true),
			[]byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x03, 0x11, 0x83, 0x02},
		},
		{"BadCRC", []byte{0x11, 0x03, 0x06, 0xAE, 0x41, 0x56, 0x52, 0x43, 0x40, 0x49, 0xAE}, gatewayFailure},
		{"WrongSlave", []byte{0x01, 0x04, 0x02, 0x00, 0x0A, 0x39, 0x37}, gatewayFailure},
		{"WrongFunction", []byte{0x11, 0x04, 0x02, 0x00, 0x0A, 0xF8, 0xF4}, gatewayFailure},
		{"Empty", nil, gatewayFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RTUToTCP(adu, tt.rtu)
			if err != nil {
				t.Fatalf("RTUToTCP() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("RTUToTCP() = % X, want % X", got, tt.want)
			}
		})
	}
}
