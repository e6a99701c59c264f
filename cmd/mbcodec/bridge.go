// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ffutop/modbus-codec/internal/bridge"
	"github.com/ffutop/modbus-codec/modbus/tcp"
)

type bridgeFlags struct {
	request string
}

func newBridgeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Convert frames between Modbus/TCP and RTU framing",
	}
	cmd.AddCommand(newTCPToRTUCmd(a))
	cmd.AddCommand(newRTUToTCPCmd(a))
	return cmd
}

func newTCPToRTUCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tcp2rtu <hex>...",
		Short: "Turn a Modbus/TCP request into the RTU frame sent downstream",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := parseHex(args)
			if err != nil {
				return err
			}
			adu, rtuRaw, err := bridge.TCPToRTU(raw)
			if err != nil {
				if reply, ok := bridge.ExceptionReply(adu, err); ok {
					slog.Warn("Request rejected, exception reply printed", "err", err)
					out := encoded{Frame: "exception reply", Hex: formatHex(reply)}
					if eerr := emit(cmd.OutOrStdout(), a.cfg, out, out.Hex); eerr != nil {
						return eerr
					}
				}
				return err
			}
			out := encoded{Frame: fmt.Sprintf("tid=%d slave=%d", adu.TransactionID, adu.SlaveID), Hex: formatHex(rtuRaw)}
			return emit(cmd.OutOrStdout(), a.cfg, out, out.Hex)
		},
	}
}

func newRTUToTCPCmd(a *app) *cobra.Command {
	flags := &bridgeFlags{}
	cmd := &cobra.Command{
		Use:   "rtu2tcp --request <tcp hex> <rtu hex>...",
		Short: "Wrap an RTU reply into the Modbus/TCP response for a request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqRaw, err := parseHex([]string{flags.request})
			if err != nil {
				return err
			}
			req, err := tcp.Decode(reqRaw)
			if err != nil {
				return fmt.Errorf("failed to decode TCP request: %w", err)
			}
			raw, err := parseHex(args)
			if err != nil {
				return err
			}
			tcpRaw, err := bridge.RTUToTCP(req, raw)
			if err != nil {
				return err
			}
			out := encoded{Frame: fmt.Sprintf("tid=%d slave=%d", req.TransactionID, req.SlaveID), Hex: formatHex(tcpRaw)}
			return emit(cmd.OutOrStdout(), a.cfg, out, out.Hex)
		},
	}
	cmd.Flags().StringVar(&flags.request, "request", "", "The Modbus/TCP request the reply answers, as hex")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}
