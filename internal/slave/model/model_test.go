// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package model

import (
	"errors"
	"testing"

	"github.com/ffutop/modbus-codec/modbus"
)

func TestNewDataModelSize(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, FullSize},
		{-1, FullSize},
		{FullSize + 1, FullSize},
		{100, 100},
	}
	for _, tt := range tests {
		if got := NewDataModel(tt.size).Size(); got != tt.want {
			t.Errorf("NewDataModel(%d).Size() = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestReadWrite(t *testing.T) {
	m := NewDataModel(FullSize)
	tests := []struct {
		name    string
		table   modbus.Table
		address uint16
		values  []modbus.Cell
	}{
		{"Coils", modbus.TableCoils, 0x13, modbus.CoilCells(true, false, true)},
		{"DiscreteInputs", modbus.TableDiscreteInputs, 0, modbus.CoilCells(false, true)},
		{"HoldingRegisters", modbus.TableHoldingRegisters, 0xFFFE, modbus.RegisterCells(1, 2)},
		{"InputRegisters", modbus.TableInputRegisters, 8, modbus.RegisterCells(0xFFFF)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.Write(tt.table, tt.address, tt.values); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			got, err := m.Read(tt.table, tt.address, uint16(len(tt.values)))
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if len(got) != len(tt.values) {
				t.Fatalf("Read() returned %d cells, want %d", len(got), len(tt.values))
			}
			for i := range got {
				if got[i] != tt.values[i] {
					t.Errorf("cell %d = %v, want %v", i, got[i], tt.values[i])
				}
			}
		})
	}
}

func TestWriteErrors(t *testing.T) {
	m := NewDataModel(10)

	if err := m.Write(modbus.TableHoldingRegisters, 9, modbus.RegisterCells(1, 2)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Write() past the end error = %v, want ErrOutOfRange", err)
	}
	if _, err := m.Read(modbus.TableCoils, 5, 6); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Read() past the end error = %v, want ErrOutOfRange", err)
	}
	if err := m.Write(modbus.TableCoils, 0, modbus.RegisterCells(1)); !errors.Is(err, modbus.ErrTypeMismatch) {
		t.Errorf("Write() of a register into coils error = %v, want ErrTypeMismatch", err)
	}
	if err := m.Write(modbus.TableNone, 0, modbus.RegisterCells(1)); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("Write() to TableNone error = %v, want ErrUnknownTable", err)
	}

	// a rejected write leaves the table untouched
	if err := m.Write(modbus.TableHoldingRegisters, 0, []modbus.Cell{modbus.RegisterCell(7), modbus.CoilCell(true)}); err == nil {
		t.Fatal("Write() of mixed cells error = nil")
	}
	got, _ := m.Read(modbus.TableHoldingRegisters, 0, 1)
	if v, _ := got[0].Register(); v != 0 {
		t.Errorf("holding register 0 = %d after a rejected write, want 0", v)
	}
}
