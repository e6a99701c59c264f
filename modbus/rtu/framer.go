// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package rtu

import (
	"fmt"

	"github.com/ffutop/modbus-codec/modbus"
)

type InvalidLengthError struct {
	Length byte
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid length received: %d", e.Length)
}

// CalculateRequestLength returns the expected total length of the Request RTU ADU based on the header.
func CalculateRequestLength(funcCode byte, header []byte) (int, error) {
	layout := modbus.RegistersPerFunction(modbus.FunctionCodeFromByte(funcCode))
	switch layout.Type {
	case modbus.FunctionRead, modbus.FunctionWriteSingle:
		// [SlaveID, Func, Addr(2), Quant/Val(2), CRC(2)]
		return requestFixedSize, nil
	case modbus.FunctionWriteMultiple:
		// [SlaveID, Func, Addr(2), Quant(2), ByteCount(1), Data(N), CRC(2)]
		if len(header) < requestHeaderSize {
			return 0, fmt.Errorf("need %d bytes to determine length for 0x%02X, got %d", requestHeaderSize, funcCode, len(header))
		}
		length := requestHeaderSize + int(header[6]) + 2
		if length > MaxSize {
			return 0, &InvalidLengthError{Length: header[6]}
		}
		return length, nil
	default:
		return 0, fmt.Errorf("unsupported function code: 0x%02X", funcCode)
	}
}

// CalculateResponseLength returns the expected total length of the Response RTU ADU based on the header.
// Exception replies are always ExceptionSize bytes.
func CalculateResponseLength(funcCode byte, header []byte) (int, error) {
	if funcCode&modbus.ErrorBit != 0 {
		return ExceptionSize, nil
	}
	layout := modbus.RegistersPerFunction(modbus.FunctionCodeFromByte(funcCode))
	switch layout.Type {
	case modbus.FunctionRead:
		// [SlaveID, Func, ByteCount(1), Data(N), CRC(2)]
		if len(header) < responseHeadSize {
			return 0, fmt.Errorf("need %d bytes to determine length for 0x%02X, got %d", responseHeadSize, funcCode, len(header))
		}
		if header[2] == 0 || int(header[2]) > MaxSize-5 {
			return 0, &InvalidLengthError{Length: header[2]}
		}
		return responseHeadSize + int(header[2]) + 2, nil
	case modbus.FunctionWriteSingle, modbus.FunctionWriteMultiple:
		return responseWriteSize, nil
	default:
		return 0, fmt.Errorf("unsupported function code: 0x%02X", funcCode)
	}
}
