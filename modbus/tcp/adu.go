// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package tcp

import (
	"encoding/binary"
	"fmt"

	"github.com/ffutop/modbus-codec/modbus"
)

const (
	tcpHeaderSize = 7
	tcpMinSize    = 8
	tcpMaxSize    = 260
)

// ApplicationDataUnit is a Modbus/TCP frame: the MBAP header followed by the PDU.
// Length counts the unit id and the PDU.
type ApplicationDataUnit struct {
	TransactionID uint16
	ProtocolID    uint16
	Length        uint16
	SlaveID       byte
	Pdu           modbus.ProtocolDataUnit
}

// Decode parses exactly one MBAP frame. The PDU data is copied out of raw.
func Decode(raw []byte) (adu *ApplicationDataUnit, err error) {
	if len(raw) < tcpMinSize {
		err = fmt.Errorf("modbus: request length '%v' does not meet minimum '%v'", len(raw), tcpMinSize)
		return
	}
	if len(raw) > tcpMaxSize {
		err = fmt.Errorf("modbus: request length '%v' must not be bigger than '%v'", len(raw), tcpMaxSize)
		return
	}
	adu = &ApplicationDataUnit{}
	adu.TransactionID = binary.BigEndian.Uint16(raw[0:])
	adu.ProtocolID = binary.BigEndian.Uint16(raw[2:])
	adu.Length = binary.BigEndian.Uint16(raw[4:])
	if adu.ProtocolID != 0 {
		return nil, fmt.Errorf("modbus: invalid protocol id '%v'", adu.ProtocolID)
	}
	if int(adu.Length) != len(raw)-tcpHeaderSize+1 {
		return nil, fmt.Errorf("modbus: length in header '%v' does not match frame length '%v'", adu.Length, len(raw)-tcpHeaderSize+1)
	}
	adu.SlaveID = raw[6]
	adu.Pdu.FunctionCode = raw[7]
	adu.Pdu.Data = append([]byte(nil), raw[8:]...)
	return
}

// Encode serializes the frame. The Length field is recomputed from the PDU.
func (adu *ApplicationDataUnit) Encode() (raw []byte, err error) {
	length := len(adu.Pdu.Data) + tcpMinSize
	if length > tcpMaxSize {
		err = fmt.Errorf("modbus: length of data '%v' must not be bigger than '%v'", length, tcpMaxSize)
		return
	}
	adu.Length = uint16(length - tcpHeaderSize + 1)
	raw = make([]byte, length)

	binary.BigEndian.PutUint16(raw[0:], adu.TransactionID)
	binary.BigEndian.PutUint16(raw[2:], adu.ProtocolID)
	binary.BigEndian.PutUint16(raw[4:], adu.Length)
	raw[6] = adu.SlaveID
	raw[7] = adu.Pdu.FunctionCode
	copy(raw[8:], adu.Pdu.Data)

	return
}

// Verify checks that resp answers req.
func (req *ApplicationDataUnit) Verify(resp *ApplicationDataUnit) (err error) {
	// Transaction ID must match
	if resp.TransactionID != req.TransactionID {
		err = fmt.Errorf("modbus: response transaction id '%v' does not match request '%v'", resp.TransactionID, req.TransactionID)
		return
	}
	if resp.SlaveID != req.SlaveID {
		err = fmt.Errorf("modbus: response unit id '%v' does not match request '%v'", resp.SlaveID, req.SlaveID)
		return
	}
	if resp.Pdu.FunctionCode&^modbus.ErrorBit != req.Pdu.FunctionCode {
		err = fmt.Errorf("modbus: response function code '%v' does not match request '%v'", resp.Pdu.FunctionCode, req.Pdu.FunctionCode)
		return
	}
	return
}

// Frame returns the serial-style ADU [slave][fc][data] without CRC, the form the codec decodes.
func (adu *ApplicationDataUnit) Frame() []byte {
	return modbus.JoinFrame(adu.SlaveID, adu.Pdu)
}

// FromFrame wraps a codec ADU without CRC into an MBAP frame.
func FromFrame(transactionID uint16, frame []byte) (*ApplicationDataUnit, error) {
	slaveID, pdu, err := modbus.SplitFrame(frame)
	if err != nil {
		return nil, err
	}
	adu := &ApplicationDataUnit{
		TransactionID: transactionID,
		SlaveID:       slaveID,
		Pdu:           modbus.ProtocolDataUnit{FunctionCode: pdu.FunctionCode, Data: append([]byte(nil), pdu.Data...)},
	}
	adu.Length = uint16(len(pdu.Data) + 2)
	return adu, nil
}

// Split cuts a stream holding back-to-back MBAP frames using each header's Length field.
// A trailing partial frame is returned in rest.
func Split(stream []byte) (frames [][]byte, rest []byte, err error) {
	for len(stream) >= tcpHeaderSize-1 {
		length := int(binary.BigEndian.Uint16(stream[4:]))
		total := tcpHeaderSize - 1 + length
		if total < tcpMinSize || total > tcpMaxSize {
			return frames, stream, fmt.Errorf("modbus: invalid frame length '%v'", total)
		}
		if len(stream) < total {
			break
		}
		frames = append(frames, stream[:total:total])
		stream = stream[total:]
	}
	return frames, stream, nil
}
