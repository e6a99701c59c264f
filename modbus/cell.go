// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

import (
	"strconv"
	"strings"
)

type cellKind uint8

const (
	cellRegister cellKind = iota
	cellCoil
)

// Cell is the value at a single Modbus address: either a 16-bit register or a coil.
// The zero value is a register holding 0. Cells are comparable with ==.
type Cell struct {
	kind     cellKind
	register uint16
	coil     bool
}

// RegisterCell returns a register cell holding v.
func RegisterCell(v uint16) Cell {
	return Cell{kind: cellRegister, register: v}
}

// CoilCell returns a coil cell holding v.
func CoilCell(v bool) Cell {
	return Cell{kind: cellCoil, coil: v}
}

// IsRegister reports whether c holds a register.
func (c Cell) IsRegister() bool {
	return c.kind == cellRegister
}

// IsCoil reports whether c holds a coil.
func (c Cell) IsCoil() bool {
	return c.kind == cellCoil
}

// Register returns the register value, or ErrTypeMismatch if c is a coil.
func (c Cell) Register() (uint16, error) {
	if c.kind != cellRegister {
		return 0, ErrTypeMismatch
	}
	return c.register, nil
}

// Coil returns the coil value, or ErrTypeMismatch if c is a register.
func (c Cell) Coil() (bool, error) {
	if c.kind != cellCoil {
		return false, ErrTypeMismatch
	}
	return c.coil, nil
}

func (c Cell) String() string {
	if c.kind == cellCoil {
		return strconv.FormatBool(c.coil)
	}
	return strconv.FormatUint(uint64(c.register), 10)
}

// RegisterCells wraps each value in a register cell.
func RegisterCells(vs ...uint16) []Cell {
	cells := make([]Cell, len(vs))
	for i, v := range vs {
		cells[i] = RegisterCell(v)
	}
	return cells
}

// CoilCells wraps each value in a coil cell.
func CoilCells(vs ...bool) []Cell {
	cells := make([]Cell, len(vs))
	for i, v := range vs {
		cells[i] = CoilCell(v)
	}
	return cells
}

func cloneCells(cells []Cell) []Cell {
	if len(cells) == 0 {
		return nil
	}
	out := make([]Cell, len(cells))
	copy(out, cells)
	return out
}

func equalCells(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cellAt(cells []Cell, i int) (Cell, bool) {
	if i < 0 || i >= len(cells) {
		return Cell{}, false
	}
	return cells[i], true
}

func formatCells(cells []Cell) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	b.WriteByte(']')
	return b.String()
}
