// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package capture decodes Modbus frames found in packet captures and raw RTU dumps.
package capture

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ffutop/modbus-codec/modbus"
	"github.com/ffutop/modbus-codec/modbus/rtu"
)

// Record is one decoded frame, shaped for text or YAML output.
type Record struct {
	Offset        int       `yaml:"offset"`
	Time          time.Time `yaml:"time,omitempty"`
	Stream        string    `yaml:"stream,omitempty"`
	TransactionID uint16    `yaml:"transaction_id,omitempty"`
	Direction     string    `yaml:"direction"`
	SlaveID       byte      `yaml:"slave_id"`
	Function      string    `yaml:"function"`
	Address       uint16    `yaml:"address,omitempty"`
	Count         uint16    `yaml:"count,omitempty"`
	Values        []string  `yaml:"values,omitempty,flow"`
	Exception     string    `yaml:"exception,omitempty"`
	Error         string    `yaml:"error,omitempty"`
	Raw           string    `yaml:"raw"`

	summary string
}

// NewRecord decodes raw as a frame sent in direction dir. Exceptions are detected from the
// error bit whatever dir says. Decode failures are kept in the Error field.
func NewRecord(raw []byte, dir rtu.Direction, withCRC bool) Record {
	rec := Record{Raw: hex.EncodeToString(raw)}
	if len(raw) >= 2 {
		rec.SlaveID = raw[0]
		rec.Function = fmt.Sprintf("0x%02X", raw[1]&^modbus.ErrorBit)
	}
	if modbus.IsException(raw) {
		dir = rtu.DirectionException
	}
	rec.Direction = dir.String()

	switch dir {
	case rtu.DirectionException:
		e, err := modbus.DecodeException(raw, withCRC)
		if err != nil {
			rec.Error = err.Error()
			return rec
		}
		rec.Function = e.FunctionCode().String()
		rec.Exception = e.Code().String()
		rec.summary = e.String()
	case rtu.DirectionRequest:
		req, err := modbus.DecodeRequest(raw, withCRC)
		if err != nil {
			rec.Error = err.Error()
			return rec
		}
		rec.Function = req.FunctionCode().String()
		rec.Address, rec.Count = req.Address(), req.Count()
		rec.Values = cellStrings(req.Values())
		rec.summary = req.String()
	case rtu.DirectionResponse:
		resp, err := modbus.DecodeResponse(raw, withCRC)
		if err != nil {
			rec.Error = err.Error()
			return rec
		}
		rec.Function = resp.FunctionCode().String()
		rec.Address, rec.Count = resp.Address(), resp.Count()
		rec.Values = cellStrings(resp.Values())
		rec.summary = resp.String()
	default:
		rec.Error = "unknown frame direction"
	}
	return rec
}

func (r Record) String() string {
	prefix := fmt.Sprintf("@%d", r.Offset)
	if r.Stream != "" {
		prefix = fmt.Sprintf("%s tid=%d", r.Stream, r.TransactionID)
	}
	if r.Error != "" {
		return fmt.Sprintf("%s %s error: %s [%s]", prefix, r.Direction, r.Error, r.Raw)
	}
	return fmt.Sprintf("%s %s", prefix, r.summary)
}

func cellStrings(cells []modbus.Cell) []string {
	if len(cells) == 0 {
		return nil
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}
	return out
}
