// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

// ProtocolDataUnit is the function code and data shared by every framing.
type ProtocolDataUnit struct {
	FunctionCode byte
	Data         []byte
}

// SplitFrame cuts an ADU without CRC into slave id and PDU. The PDU data aliases frame.
func SplitFrame(frame []byte) (byte, ProtocolDataUnit, error) {
	if len(frame) < 2 {
		return 0, ProtocolDataUnit{}, frameErr(ErrMalformedFrame, "frame length %d, need at least 2", len(frame))
	}
	return frame[0], ProtocolDataUnit{FunctionCode: frame[1], Data: frame[2:]}, nil
}

// JoinFrame builds an ADU without CRC from slave id and PDU.
func JoinFrame(slaveID byte, pdu ProtocolDataUnit) []byte {
	frame := make([]byte, 2+len(pdu.Data))
	frame[0] = slaveID
	frame[1] = pdu.FunctionCode
	copy(frame[2:], pdu.Data)
	return frame
}
