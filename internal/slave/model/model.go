// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package model

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ffutop/modbus-codec/modbus"
)

// FullSize covers the whole 16-bit address space.
const FullSize = 65536

var (
	ErrOutOfRange   = errors.New("model: address out of range")
	ErrUnknownTable = errors.New("model: unknown table")
)

// DataModel holds the four Modbus tables in memory.
// Bit tables hold coil cells, word tables hold register cells.
type DataModel struct {
	mu   sync.RWMutex
	size int

	coils            []bool
	discreteInputs   []bool
	holdingRegisters []uint16
	inputRegisters   []uint16
}

// NewDataModel creates a zeroed model whose tables span addresses [0, size).
// A size outside 1..FullSize selects FullSize.
func NewDataModel(size int) *DataModel {
	if size <= 0 || size > FullSize {
		size = FullSize
	}
	return &DataModel{
		size:             size,
		coils:            make([]bool, size),
		discreteInputs:   make([]bool, size),
		holdingRegisters: make([]uint16, size),
		inputRegisters:   make([]uint16, size),
	}
}

// Size returns the number of addresses each table holds.
func (m *DataModel) Size() int { return m.size }

// Read returns count cells of table starting at address.
func (m *DataModel) Read(table modbus.Table, address, count uint16) ([]modbus.Cell, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.validateRange(address, int(count)); err != nil {
		return nil, err
	}
	start, end := int(address), int(address)+int(count)
	switch table {
	case modbus.TableCoils:
		return modbus.CoilCells(m.coils[start:end]...), nil
	case modbus.TableDiscreteInputs:
		return modbus.CoilCells(m.discreteInputs[start:end]...), nil
	case modbus.TableHoldingRegisters:
		return modbus.RegisterCells(m.holdingRegisters[start:end]...), nil
	case modbus.TableInputRegisters:
		return modbus.RegisterCells(m.inputRegisters[start:end]...), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
}

// Write stores values into table starting at address. Every value must match
// the table's cell kind; nothing is written unless all of them do.
func (m *DataModel) Write(table modbus.Table, address uint16, values []modbus.Cell) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.validateRange(address, len(values)); err != nil {
		return err
	}
	switch table {
	case modbus.TableCoils:
		return writeBits(m.coils[address:], values)
	case modbus.TableDiscreteInputs:
		return writeBits(m.discreteInputs[address:], values)
	case modbus.TableHoldingRegisters:
		return writeWords(m.holdingRegisters[address:], values)
	case modbus.TableInputRegisters:
		return writeWords(m.inputRegisters[address:], values)
	}
	return fmt.Errorf("%w: %s", ErrUnknownTable, table)
}

func writeBits(dst []bool, values []modbus.Cell) error {
	bits := make([]bool, len(values))
	for i, v := range values {
		b, err := v.Coil()
		if err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
		bits[i] = b
	}
	copy(dst, bits)
	return nil
}

func writeWords(dst []uint16, values []modbus.Cell) error {
	words := make([]uint16, len(values))
	for i, v := range values {
		w, err := v.Register()
		if err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
		words[i] = w
	}
	copy(dst, words)
	return nil
}

func (m *DataModel) validateRange(address uint16, count int) error {
	if int(address)+count > m.size {
		return fmt.Errorf("%w: %d+%d exceeds %d", ErrOutOfRange, address, count, m.size)
	}
	return nil
}
