// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

// ExceptionCode is the reason a slave rejected a request.
type ExceptionCode byte

// Exception Codes
const (
	ExceptionCodeUndefined                          ExceptionCode = 0x00
	ExceptionCodeIllegalFunction                    ExceptionCode = 0x01
	ExceptionCodeIllegalDataAddress                 ExceptionCode = 0x02
	ExceptionCodeIllegalDataValue                   ExceptionCode = 0x03
	ExceptionCodeSlaveDeviceFailure                 ExceptionCode = 0x04
	ExceptionCodeAcknowledge                        ExceptionCode = 0x05
	ExceptionCodeSlaveDeviceBusy                    ExceptionCode = 0x06
	ExceptionCodeNegativeAcknowledge                ExceptionCode = 0x07
	ExceptionCodeMemoryParityError                  ExceptionCode = 0x08
	ExceptionCodeGatewayPathUnavailable             ExceptionCode = 0x0A
	ExceptionCodeGatewayTargetDeviceFailedToRespond ExceptionCode = 0x0B
)

var exceptionNames = map[ExceptionCode]string{
	ExceptionCodeIllegalFunction:                    "Illegal Function",
	ExceptionCodeIllegalDataAddress:                 "Illegal Data Address",
	ExceptionCodeIllegalDataValue:                   "Illegal Data Value",
	ExceptionCodeSlaveDeviceFailure:                 "Slave Device Failure",
	ExceptionCodeAcknowledge:                        "Acknowledge",
	ExceptionCodeSlaveDeviceBusy:                    "Slave Device Busy",
	ExceptionCodeNegativeAcknowledge:                "Negative Acknowledge",
	ExceptionCodeMemoryParityError:                  "Memory Parity Error",
	ExceptionCodeGatewayPathUnavailable:             "Gateway Path Unavailable",
	ExceptionCodeGatewayTargetDeviceFailedToRespond: "Gateway Target Device Failed To Respond",
}

// ExceptionCodeFromByte maps a wire byte to a known exception code, or ExceptionCodeUndefined.
func ExceptionCodeFromByte(b byte) ExceptionCode {
	code := ExceptionCode(b)
	if _, ok := exceptionNames[code]; !ok {
		return ExceptionCodeUndefined
	}
	return code
}

// IsStandard reports whether e is one of the codes defined by the Modbus application protocol.
func (e ExceptionCode) IsStandard() bool {
	_, ok := exceptionNames[e]
	return ok
}

func (e ExceptionCode) String() string {
	if s, ok := exceptionNames[e]; ok {
		return s
	}
	return "Undefined"
}
