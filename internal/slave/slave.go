// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package slave answers Modbus request ADUs from an in-memory data model.
package slave

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ffutop/modbus-codec/internal/slave/model"
	"github.com/ffutop/modbus-codec/modbus"
	"github.com/ffutop/modbus-codec/modbus/crc"
)

// BroadcastID addresses every slave on the line. Broadcast writes are applied
// but never answered.
const BroadcastID = 0

// Slave implements the Modbus slave side of the protocol on top of a DataModel.
type Slave struct {
	id    byte
	model *model.DataModel
}

// New creates a Slave answering to unit id.
func New(id byte, m *model.DataModel) *Slave {
	return &Slave{id: id, model: m}
}

// ID returns the unit id the slave answers to.
func (s *Slave) ID() byte { return s.id }

// Handle decodes one request ADU and returns the reply ADU, framed the same way.
// A nil reply with a nil error means the frame was addressed elsewhere or was a
// broadcast. Frames the slave cannot attribute (bad CRC, truncated) return an
// error and no reply, like a device staying silent on the line.
func (s *Slave) Handle(raw []byte, withCRC bool) ([]byte, error) {
	req, err := modbus.DecodeRequest(raw, withCRC)
	if err != nil {
		var fe *modbus.FrameError
		if !errors.As(err, &fe) {
			return nil, err
		}
		exc, ok := fe.Exception()
		if !ok {
			return nil, err
		}
		// An unsupported function is reported before the CRC is looked at;
		// a corrupted frame must still go unanswered.
		if withCRC && !crc.Verify(raw) {
			return nil, &modbus.FrameError{
				Kind:         modbus.ErrCRC,
				SlaveID:      fe.SlaveID,
				FunctionCode: fe.FunctionCode,
				HasHeader:    true,
				Detail:       fmt.Sprintf("received 0x%04X, computed 0x%04X", crc.Received(raw), crc.Checksum(raw[:len(raw)-crc.Size])),
			}
		}
		if !s.addressed(exc.SlaveID()) {
			return nil, nil
		}
		slog.Debug("Request rejected", "slave", s.id, "err", err)
		return s.reply(exc.SlaveID(), exc.Encode(withCRC)), nil
	}
	if !s.addressed(req.SlaveID()) {
		return nil, nil
	}

	resp, err := s.Process(req)
	if err != nil {
		var exc modbus.ExceptionFrame
		if errors.As(err, &exc) {
			slog.Debug("Request failed on data model", "slave", s.id, "request", req, "err", err)
			return s.reply(req.SlaveID(), exc.Encode(withCRC)), nil
		}
		return nil, err
	}
	return s.reply(req.SlaveID(), resp.Encode(withCRC)), nil
}

// Process executes a decoded request against the data model. Failures the
// master should hear about come back as a modbus.ExceptionFrame error.
func (s *Slave) Process(req modbus.Request) (modbus.Response, error) {
	layout := req.Layout()
	var values []modbus.Cell
	var err error

	switch layout.Type {
	case modbus.FunctionRead:
		values, err = s.model.Read(layout.Table, req.Address(), req.Count())
	case modbus.FunctionWriteSingle, modbus.FunctionWriteMultiple:
		err = s.model.Write(layout.Table, req.Address(), req.Values())
	default:
		return modbus.Response{}, modbus.NewException(modbus.ExceptionCodeIllegalFunction, req.SlaveID(), req.FunctionCode())
	}
	if err != nil {
		code := modbus.ExceptionCodeSlaveDeviceFailure
		if errors.Is(err, model.ErrOutOfRange) {
			code = modbus.ExceptionCodeIllegalDataAddress
		}
		return modbus.Response{}, fmt.Errorf("%w: %w", modbus.NewException(code, req.SlaveID(), req.FunctionCode()), err)
	}
	return modbus.ResponseFor(req, values)
}

func (s *Slave) addressed(id byte) bool {
	return id == s.id || id == BroadcastID
}

func (s *Slave) reply(id byte, frame []byte) []byte {
	if id == BroadcastID {
		return nil
	}
	return frame
}
