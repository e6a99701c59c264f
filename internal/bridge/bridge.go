// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package bridge converts frames between Modbus/TCP and Modbus RTU framing,
// validating every frame with the codec on the way through.
package bridge

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ffutop/modbus-codec/modbus"
	"github.com/ffutop/modbus-codec/modbus/tcp"
)

// TCPToRTU decodes an MBAP request, checks it with the codec and returns the RTU frame
// (with CRC) to send downstream. The decoded MBAP frame is returned for RTUToTCP.
func TCPToRTU(raw []byte) (*tcp.ApplicationDataUnit, []byte, error) {
	adu, err := tcp.Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode TCP request: %w", err)
	}
	req, err := modbus.DecodeRequest(adu.Frame(), false)
	if err != nil {
		return adu, nil, fmt.Errorf("failed to validate TCP request: %w", err)
	}
	rtuRaw := req.Encode(true)
	slog.Debug("TCP request bridged", "tid", adu.TransactionID, "request", req.String(), "rtu", hex.EncodeToString(rtuRaw))
	return adu, rtuRaw, nil
}

// RTUToTCP validates an RTU reply to req and wraps it into an MBAP frame with the request's
// transaction id. A reply that fails CRC, decoding or does not answer req is replaced with a
// Gateway Target Device Failed To Respond exception.
func RTUToTCP(req *tcp.ApplicationDataUnit, raw []byte) ([]byte, error) {
	frame, err := checkReply(req, raw)
	if err != nil {
		slog.Error("RTU reply rejected, preparing exception response", "err", err, "tid", req.TransactionID)
		frame = modbus.NewException(modbus.ExceptionCodeGatewayTargetDeviceFailedToRespond, req.SlaveID,
			modbus.FunctionCode(req.Pdu.FunctionCode)).Encode(false)
	}
	resp, err := tcp.FromFrame(req.TransactionID, frame)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap RTU reply: %w", err)
	}
	resp.ProtocolID = req.ProtocolID
	tcpRaw, err := resp.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode TCP response: %w", err)
	}
	slog.Debug("TCP response encoded", "tid", req.TransactionID, "response", hex.EncodeToString(tcpRaw))
	return tcpRaw, nil
}

// checkReply returns the reply without its CRC once it decodes and answers req.
func checkReply(req *tcp.ApplicationDataUnit, raw []byte) ([]byte, error) {
	var slaveID, fc byte
	if modbus.IsException(raw) {
		e, err := modbus.DecodeException(raw, true)
		if err != nil {
			return nil, err
		}
		slaveID, fc = e.SlaveID(), e.RawFunctionCode()
	} else {
		resp, err := modbus.DecodeResponse(raw, true)
		if err != nil {
			return nil, err
		}
		slaveID, fc = resp.SlaveID(), byte(resp.FunctionCode())
	}
	if slaveID != req.SlaveID {
		return nil, fmt.Errorf("reply from slave %d, request to slave %d", slaveID, req.SlaveID)
	}
	if fc != req.Pdu.FunctionCode {
		return nil, fmt.Errorf("reply function 0x%02X, request function 0x%02X", fc, req.Pdu.FunctionCode)
	}
	return raw[:len(raw)-2], nil
}

// ExceptionReply builds the MBAP exception a server sends back when TCPToRTU rejected req.
// It reports false when the failure has no exception equivalent.
func ExceptionReply(req *tcp.ApplicationDataUnit, err error) ([]byte, bool) {
	var fe *modbus.FrameError
	if req == nil || !errors.As(err, &fe) {
		return nil, false
	}
	e, ok := fe.Exception()
	if !ok {
		return nil, false
	}
	resp, ferr := tcp.FromFrame(req.TransactionID, e.Encode(false))
	if ferr != nil {
		return nil, false
	}
	raw, ferr := resp.Encode()
	if ferr != nil {
		return nil, false
	}
	return raw, true
}
