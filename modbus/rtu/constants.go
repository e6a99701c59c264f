// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package rtu

const (
	MinSize = 4
	MaxSize = 256

	ExceptionSize = 5

	requestFixedSize  = 8
	requestHeaderSize = 7
	responseWriteSize = 8
	responseHeadSize  = 3
)

// Direction tells which side of a transaction a frame was sent by.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionRequest
	DirectionResponse
	DirectionException
)

func (d Direction) String() string {
	switch d {
	case DirectionRequest:
		return "request"
	case DirectionResponse:
		return "response"
	case DirectionException:
		return "exception"
	default:
		return "unknown"
	}
}
