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
	responseReadHeaderSize = 3
	responseWriteSize      = 6
)

// Response is a slave-to-master reply.
//
// Read responses carry count values; the address is not on the wire, so a decoded read
// response has address 0 until Bind fills it in. Write single responses echo the address
// and the value written. Write multiple responses echo address and count without values.
type Response struct {
	slaveID      byte
	functionCode FunctionCode
	address      uint16
	count        uint16
	values       []Cell
}

// NewResponse builds a response from its fields, validating them the way DecodeResponse does.
func NewResponse(slaveID byte, fc FunctionCode, address, count uint16, values []Cell) (Response, error) {
	if !fc.IsDefined() {
		return Response{}, headerErr(ErrIllegalFunction, slaveID, byte(fc), "unsupported function code")
	}
	layout := RegistersPerFunction(fc)
	if v := checkFields(layout, address, count, values, responseValueCount(layout, count)); v != nil {
		return Response{}, v.frameError(slaveID, fc)
	}
	return Response{
		slaveID:      slaveID,
		functionCode: fc,
		address:      address,
		count:        count,
		values:       cloneCells(values),
	}, nil
}

func responseValueCount(layout Layout, count uint16) int {
	switch layout.Type {
	case FunctionRead:
		return int(count)
	case FunctionWriteSingle:
		return 1
	}
	return 0
}

// ResponseFor composes the reply a slave sends for req. Read requests take values
// for the requested range; writes echo the request and ignore values.
func ResponseFor(req Request, values []Cell) (Response, error) {
	switch req.Layout().Type {
	case FunctionRead:
		return NewResponse(req.slaveID, req.functionCode, req.address, req.count, values)
	case FunctionWriteSingle:
		return NewResponse(req.slaveID, req.functionCode, req.address, 1, req.values)
	default:
		return NewResponse(req.slaveID, req.functionCode, req.address, req.count, nil)
	}
}

// DecodeResponse parses a response ADU. With withCRC the buffer ends in the CRC trailer.
// Exception replies are not responses; check IsException first.
func DecodeResponse(raw []byte, withCRC bool) (Response, error) {
	if len(raw) < 2 {
		return Response{}, frameErr(ErrMalformedFrame, "response length %d, need at least 2", len(raw))
	}
	slaveID, fcByte := raw[0], raw[1]
	fc := FunctionCodeFromByte(fcByte)
	if fc == FuncCodeUndefined {
		return Response{}, headerErr(ErrIllegalFunction, slaveID, fcByte, "unsupported function code")
	}
	layout := RegistersPerFunction(fc)

	trailer := 0
	if withCRC {
		trailer = crc.Size
	}
	// The byte count is only trusted once the CRC holds.
	want := responseWriteSize + trailer
	if layout.Type == FunctionRead {
		if len(raw) < responseReadHeaderSize+trailer {
			return Response{}, headerErr(ErrMalformedFrame, slaveID, fcByte, "response length %d, need %d byte header", len(raw), responseReadHeaderSize+trailer)
		}
	} else if len(raw) != want {
		return Response{}, headerErr(ErrMalformedFrame, slaveID, fcByte, "response length %d, want %d", len(raw), want)
	}
	if withCRC && !crc.Verify(raw) {
		return Response{}, headerErr(ErrCRC, slaveID, fcByte, "received 0x%04X, computed 0x%04X", crc.Received(raw), crc.Checksum(raw[:len(raw)-crc.Size]))
	}
	if layout.Type == FunctionRead {
		if want = responseReadHeaderSize + int(raw[2]) + trailer; len(raw) != want {
			return Response{}, headerErr(ErrMalformedFrame, slaveID, fcByte, "response length %d, want %d", len(raw), want)
		}
	}

	switch layout.Type {
	case FunctionRead:
		byteCount := int(raw[2])
		var count int
		if layout.Kind == PayloadRegister {
			if byteCount%2 != 0 {
				return Response{}, headerErr(ErrMalformedFrame, slaveID, fcByte, "odd register byte count %d", byteCount)
			}
			count = byteCount / 2
		} else {
			count = byteCount * 8
		}
		if v := checkCount(layout, uint16(count)); v != nil {
			return Response{}, v.frameError(slaveID, fc)
		}
		values := unpackValues(layout.Kind, raw[responseReadHeaderSize:responseReadHeaderSize+byteCount], count)
		return Response{slaveID: slaveID, functionCode: fc, count: uint16(count), values: values}, nil

	case FunctionWriteSingle:
		address := binary.BigEndian.Uint16(raw[2:])
		word := binary.BigEndian.Uint16(raw[4:])
		value, ok := decodeSingleValue(layout.Kind, word)
		if !ok {
			return Response{}, headerErr(ErrIllegalDataValue, slaveID, fcByte, "coil value 0x%04X, want 0xFF00 or 0x0000", word)
		}
		if v := checkAddress(address, 1); v != nil {
			return Response{}, v.frameError(slaveID, fc)
		}
		return Response{slaveID: slaveID, functionCode: fc, address: address, count: 1, values: []Cell{value}}, nil

	default:
		address := binary.BigEndian.Uint16(raw[2:])
		count := binary.BigEndian.Uint16(raw[4:])
		if v := checkFields(layout, address, count, nil, 0); v != nil {
			return Response{}, v.frameError(slaveID, fc)
		}
		return Response{slaveID: slaveID, functionCode: fc, address: address, count: count}, nil
	}
}

// EncodeResponse is the function form of Response.Encode.
func EncodeResponse(r Response, withCRC bool) []byte {
	return r.Encode(withCRC)
}

// Encode serializes the response, followed by the CRC when withCRC is set.
// Coil padding bits are zero.
func (r Response) Encode(withCRC bool) []byte {
	layout := RegistersPerFunction(r.functionCode)
	var raw []byte
	switch layout.Type {
	case FunctionRead:
		payload := packValues(layout.Kind, r.values)
		raw = make([]byte, 0, responseReadHeaderSize+len(payload)+crc.Size)
		raw = append(raw, r.slaveID, byte(r.functionCode), byte(len(payload)))
		raw = append(raw, payload...)
	case FunctionWriteSingle:
		raw = make([]byte, responseWriteSize, responseWriteSize+crc.Size)
		raw[0] = r.slaveID
		raw[1] = byte(r.functionCode)
		binary.BigEndian.PutUint16(raw[2:], r.address)
		binary.BigEndian.PutUint16(raw[4:], singleValue(r.values[0]))
	default:
		raw = make([]byte, responseWriteSize, responseWriteSize+crc.Size)
		raw[0] = r.slaveID
		raw[1] = byte(r.functionCode)
		binary.BigEndian.PutUint16(raw[2:], r.address)
		binary.BigEndian.PutUint16(raw[4:], r.count)
	}
	if withCRC {
		raw = crc.Append(raw)
	}
	return raw
}

// Bind checks that r answers req and returns r with the request's address.
// Coil read responses are trimmed from whole bytes down to the requested count.
func (r Response) Bind(req Request) (Response, error) {
	if r.slaveID != req.slaveID || r.functionCode != req.functionCode {
		return Response{}, headerErr(ErrMalformedFrame, r.slaveID, byte(r.functionCode),
			"response does not answer slave %d function 0x%02X", req.slaveID, byte(req.functionCode))
	}
	layout := RegistersPerFunction(r.functionCode)
	bound := r
	switch layout.Type {
	case FunctionRead:
		if r.count < req.count || ByteCount(layout.Kind, r.count) != ByteCount(layout.Kind, req.count) {
			return Response{}, headerErr(ErrMalformedFrame, r.slaveID, byte(r.functionCode),
				"response carries %d values, request asked for %d", r.count, req.count)
		}
		bound.address = req.address
		bound.count = req.count
		bound.values = cloneCells(r.values[:req.count])
	case FunctionWriteSingle:
		if r.address != req.address {
			return Response{}, headerErr(ErrMalformedFrame, r.slaveID, byte(r.functionCode),
				"response address %d, request address %d", r.address, req.address)
		}
	default:
		if r.address != req.address || r.count != req.count {
			return Response{}, headerErr(ErrMalformedFrame, r.slaveID, byte(r.functionCode),
				"response echoes %d@%d, request wrote %d@%d", r.count, r.address, req.count, req.address)
		}
	}
	return bound, nil
}

// SlaveID returns the unit id in the frame header.
func (r Response) SlaveID() byte { return r.slaveID }

// FunctionCode returns the function the frame carries.
func (r Response) FunctionCode() FunctionCode { return r.functionCode }

// Address returns the first address covered.
func (r Response) Address() uint16 { return r.address }

// Count returns the number of addresses covered.
func (r Response) Count() uint16 { return r.count }

// Layout returns the payload layout of the function code.
func (r Response) Layout() Layout { return RegistersPerFunction(r.functionCode) }

// Values returns a copy of the carried values.
func (r Response) Values() []Cell { return cloneCells(r.values) }

// Value returns the i-th carried value, or false when i is out of range.
func (r Response) Value(i int) (Cell, bool) { return cellAt(r.values, i) }

// Equal reports whether both responses carry the same fields.
func (r Response) Equal(o Response) bool {
	return r.slaveID == o.slaveID &&
		r.functionCode == o.functionCode &&
		r.address == o.address &&
		r.count == o.count &&
		equalCells(r.values, o.values)
}

func (r Response) String() string {
	s := fmt.Sprintf("response slave=%d function=%s address=%d count=%d", r.slaveID, r.functionCode, r.address, r.count)
	if len(r.values) > 0 {
		s += " values=" + formatCells(r.values)
	}
	return s
}
