// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ffutop/modbus-codec/internal/capture"
	"github.com/ffutop/modbus-codec/modbus"
	"github.com/ffutop/modbus-codec/modbus/rtu"
)

type decodeFlags struct {
	as string
}

func newDecodeCmd(a *app) *cobra.Command {
	flags := &decodeFlags{}

	cmd := &cobra.Command{
		Use:   "decode <hex>...",
		Short: "Decode a single Modbus frame",
		Long: `Decode one ADU given as hex. Exceptions are recognised by the error bit;
other frames are decoded as a request first and as a response if that fails,
unless --as names the direction.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := parseHex(args)
			if err != nil {
				return err
			}
			rec, err := decodeFrame(raw, flags.as, a.cfg.Codec.CRC)
			if err != nil {
				return err
			}
			if err := emit(cmd.OutOrStdout(), a.cfg, rec, rec.String()); err != nil {
				return err
			}
			if rec.Error != "" {
				return errors.New(rec.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.as, "as", "auto", "Frame direction (auto, request, response, exception)")

	return cmd
}

func decodeFrame(raw []byte, as string, withCRC bool) (capture.Record, error) {
	switch as {
	case "request":
		return capture.NewRecord(raw, rtu.DirectionRequest, withCRC), nil
	case "response":
		return capture.NewRecord(raw, rtu.DirectionResponse, withCRC), nil
	case "exception":
		return capture.NewRecord(raw, rtu.DirectionException, withCRC), nil
	case "auto":
	default:
		return capture.Record{}, fmt.Errorf("invalid --as %q", as)
	}

	if modbus.IsException(raw) {
		return capture.NewRecord(raw, rtu.DirectionException, withCRC), nil
	}
	rec := capture.NewRecord(raw, rtu.DirectionRequest, withCRC)
	if rec.Error == "" {
		return rec, nil
	}
	if resp := capture.NewRecord(raw, rtu.DirectionResponse, withCRC); resp.Error == "" {
		return resp, nil
	}
	return rec, nil
}
