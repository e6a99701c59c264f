// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

import (
	"encoding/binary"
	"fmt"

	"github.com/ffutop/modbus-codec/modbus/crc"
)

const (
	requestFixedSize      = 6
	requestMultHeaderSize = 7
)

// Request is a master-to-slave frame. Values are set only for write functions.
type Request struct {
	slaveID      byte
	functionCode FunctionCode
	address      uint16
	count        uint16
	values       []Cell
}

// NewRequest builds a request from its fields, validating them the way DecodeRequest does.
// Reads take no values, single writes take count 1 and one value, multiple writes take count values.
func NewRequest(slaveID byte, fc FunctionCode, address, count uint16, values []Cell) (Request, error) {
	if !fc.IsDefined() {
		return Request{}, headerErr(ErrIllegalFunction, slaveID, byte(fc), "unsupported function code")
	}
	layout := RegistersPerFunction(fc)
	if v := checkFields(layout, address, count, values, requestValueCount(layout, count)); v != nil {
		return Request{}, v.frameError(slaveID, fc)
	}
	return Request{
		slaveID:      slaveID,
		functionCode: fc,
		address:      address,
		count:        count,
		values:       cloneCells(values),
	}, nil
}

func requestValueCount(layout Layout, count uint16) int {
	switch layout.Type {
	case FunctionWriteSingle:
		return 1
	case FunctionWriteMultiple:
		return int(count)
	}
	return 0
}

// DecodeRequest parses a request ADU. With withCRC the buffer ends in the CRC trailer.
// The returned request shares no memory with raw.
func DecodeRequest(raw []byte, withCRC bool) (Request, error) {
	if len(raw) < 2 {
		return Request{}, frameErr(ErrMalformedFrame, "request length %d, need at least 2", len(raw))
	}
	slaveID, fcByte := raw[0], raw[1]
	fc := FunctionCodeFromByte(fcByte)
	if fc == FuncCodeUndefined {
		return Request{}, headerErr(ErrIllegalFunction, slaveID, fcByte, "unsupported function code")
	}
	layout := RegistersPerFunction(fc)

	trailer := 0
	if withCRC {
		trailer = crc.Size
	}
	// The byte count is only trusted once the CRC holds.
	want := requestFixedSize + trailer
	if layout.Type == FunctionWriteMultiple {
		if len(raw) < requestMultHeaderSize+trailer {
			return Request{}, headerErr(ErrMalformedFrame, slaveID, fcByte, "request length %d, need %d byte header", len(raw), requestMultHeaderSize+trailer)
		}
	} else if len(raw) != want {
		return Request{}, headerErr(ErrMalformedFrame, slaveID, fcByte, "request length %d, want %d", len(raw), want)
	}
	if withCRC && !crc.Verify(raw) {
		return Request{}, headerErr(ErrCRC, slaveID, fcByte, "received 0x%04X, computed 0x%04X", crc.Received(raw), crc.Checksum(raw[:len(raw)-crc.Size]))
	}
	if layout.Type == FunctionWriteMultiple {
		if want = requestMultHeaderSize + int(raw[6]) + trailer; len(raw) != want {
			return Request{}, headerErr(ErrMalformedFrame, slaveID, fcByte, "request length %d, want %d", len(raw), want)
		}
	}

	address := binary.BigEndian.Uint16(raw[2:])
	switch layout.Type {
	case FunctionRead:
		count := binary.BigEndian.Uint16(raw[4:])
		if v := checkFields(layout, address, count, nil, 0); v != nil {
			return Request{}, v.frameError(slaveID, fc)
		}
		return Request{slaveID: slaveID, functionCode: fc, address: address, count: count}, nil

	case FunctionWriteSingle:
		word := binary.BigEndian.Uint16(raw[4:])
		value, ok := decodeSingleValue(layout.Kind, word)
		if !ok {
			return Request{}, headerErr(ErrIllegalDataValue, slaveID, fcByte, "coil value 0x%04X, want 0xFF00 or 0x0000", word)
		}
		if v := checkAddress(address, 1); v != nil {
			return Request{}, v.frameError(slaveID, fc)
		}
		return Request{slaveID: slaveID, functionCode: fc, address: address, count: 1, values: []Cell{value}}, nil

	default:
		count := binary.BigEndian.Uint16(raw[4:])
		byteCount := int(raw[6])
		if expected := ByteCount(layout.Kind, count); byteCount != expected {
			return Request{}, headerErr(ErrMalformedFrame, slaveID, fcByte, "byte count %d, want %d for %d values", byteCount, expected, count)
		}
		if v := checkFields(layout, address, count, nil, 0); v != nil {
			return Request{}, v.frameError(slaveID, fc)
		}
		values := unpackValues(layout.Kind, raw[requestMultHeaderSize:requestMultHeaderSize+byteCount], int(count))
		return Request{slaveID: slaveID, functionCode: fc, address: address, count: count, values: values}, nil
	}
}

// EncodeRequest is the function form of Request.Encode.
func EncodeRequest(r Request, withCRC bool) []byte {
	return r.Encode(withCRC)
}

// Encode serializes the request, followed by the CRC when withCRC is set.
func (r Request) Encode(withCRC bool) []byte {
	layout := RegistersPerFunction(r.functionCode)
	raw := make([]byte, requestFixedSize, requestFixedSize+1+ByteCount(layout.Kind, r.count)+crc.Size)
	raw[0] = r.slaveID
	raw[1] = byte(r.functionCode)
	binary.BigEndian.PutUint16(raw[2:], r.address)
	switch layout.Type {
	case FunctionWriteSingle:
		binary.BigEndian.PutUint16(raw[4:], singleValue(r.values[0]))
	case FunctionWriteMultiple:
		binary.BigEndian.PutUint16(raw[4:], r.count)
		payload := packValues(layout.Kind, r.values)
		raw = append(raw, byte(len(payload)))
		raw = append(raw, payload...)
	default:
		binary.BigEndian.PutUint16(raw[4:], r.count)
	}
	if withCRC {
		raw = crc.Append(raw)
	}
	return raw
}

// SlaveID returns the unit id in the frame header.
func (r Request) SlaveID() byte { return r.slaveID }

// FunctionCode returns the function the frame carries.
func (r Request) FunctionCode() FunctionCode { return r.functionCode }

// Address returns the first address covered.
func (r Request) Address() uint16 { return r.address }

// Count returns the number of addresses covered.
func (r Request) Count() uint16 { return r.count }

// Layout returns the payload layout of the function code.
func (r Request) Layout() Layout { return RegistersPerFunction(r.functionCode) }

// Values returns a copy of the carried values.
func (r Request) Values() []Cell { return cloneCells(r.values) }

// Value returns the i-th carried value, or false when i is out of range.
func (r Request) Value(i int) (Cell, bool) { return cellAt(r.values, i) }

// Equal reports whether both requests encode to the same frame.
func (r Request) Equal(o Request) bool {
	return r.slaveID == o.slaveID &&
		r.functionCode == o.functionCode &&
		r.address == o.address &&
		r.count == o.count &&
		equalCells(r.values, o.values)
}

func (r Request) String() string {
	s := fmt.Sprintf("request slave=%d function=%s address=%d count=%d", r.slaveID, r.functionCode, r.address, r.count)
	if len(r.values) > 0 {
		s += " values=" + formatCells(r.values)
	}
	return s
}
