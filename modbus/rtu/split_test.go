// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package rtu

import (
	"bytes"
	"testing"

	"github.com/ffutop/modbus-codec/modbus"
)

func TestSplit(t *testing.T) {
	var stream []byte
	stream = append(stream, 0x00, 0xFF)
	stream = append(stream, 0x11, 0x03, 0x00, 0x6B, 0x00, 0x03, 0x76, 0x87)
	stream = append(stream, 0x11, 0x03, 0x06, 0xAE, 0x41, 0x56, 0x52, 0x43, 0x40, 0x49, 0xAD)
	stream = append(stream, modbus.NewException(modbus.ExceptionCodeIllegalDataAddress, 0x11, modbus.FuncCodeReadHoldingRegisters).Encode(true)...)
	stream = append(stream, 0x11, 0x10, 0x00, 0x01, 0x00, 0x02, 0x04, 0x00, 0x0A, 0x01, 0x02, 0xC6, 0xF0)
	stream = append(stream, 0x11, 0x10, 0x00, 0x01, 0x00, 0x02, 0x12, 0x98)
	stream = append(stream, 0xAA)

	want := []struct {
		offset int
		length int
		dir    Direction
	}{
		{2, 8, DirectionRequest},
		{10, 11, DirectionResponse},
		{21, 5, DirectionException},
		{26, 13, DirectionRequest},
		{39, 8, DirectionResponse},
	}

	frames, noise := Split(stream)
	if noise != 3 {
		t.Errorf("noise = %d, want 3", noise)
	}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(frames), len(want))
	}
	for i, w := range want {
		f := frames[i]
		if f.Offset != w.offset || len(f.Bytes) != w.length || f.Direction != w.dir {
			t.Errorf("frame %d = offset %d len %d %v, want offset %d len %d %v",
				i, f.Offset, len(f.Bytes), f.Direction, w.offset, w.length, w.dir)
		}
		if !bytes.Equal(f.Bytes, stream[w.offset:w.offset+w.length]) {
			t.Errorf("frame %d bytes = % X", i, f.Bytes)
		}
	}
}

func TestSplitDecodes(t *testing.T) {
	stream := []byte{0x11, 0x06, 0x00, 0x01, 0x00, 0x03, 0x9A, 0x9B, 0x11, 0x04, 0x02, 0x00, 0x0A, 0xF8, 0xF4}
	frames, noise := Split(stream)
	if noise != 0 || len(frames) != 2 {
		t.Fatalf("Split() = %d frames, %d noise", len(frames), noise)
	}
	if _, err := modbus.DecodeRequest(frames[0].Bytes, true); err != nil {
		t.Errorf("request frame error = %v", err)
	}
	resp, err := modbus.DecodeResponse(frames[1].Bytes, true)
	if err != nil {
		t.Fatalf("response frame error = %v", err)
	}
	if v, _ := resp.Value(0); v != modbus.RegisterCell(10) {
		t.Errorf("response value = %v", v)
	}
}

func TestSplitNoise(t *testing.T) {
	frames, noise := Split([]byte{0x01, 0x02, 0x03})
	if len(frames) != 0 || noise != 3 {
		t.Errorf("Split() = %v, %d", frames, noise)
	}
	frames, noise = Split(nil)
	if len(frames) != 0 || noise != 0 {
		t.Errorf("Split(nil) = %v, %d", frames, noise)
	}
}
