// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ffutop/modbus-codec/internal/capture"
	"github.com/ffutop/modbus-codec/internal/config"
)

func newPcapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pcap <file>",
		Short: "Decode Modbus/TCP frames from a packet capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := capture.NewFilter(a.cfg.Capture.SlaveIDs)
			if err != nil {
				return fmt.Errorf("invalid slave ids: %w", err)
			}
			records, err := capture.ReadPCAP(args[0], a.cfg.Capture.Port, filter)
			if err != nil {
				return err
			}
			if a.cfg.Codec.Output == config.OutputYAML {
				return emit(cmd.OutOrStdout(), a.cfg, records, "")
			}
			return printRecords(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().IntP("port", "p", 502, "Modbus/TCP server port")
	cmd.Flags().String("slave-ids", "", "Only keep frames for these slave ids, e.g. \"1,2,5-10\"")
	return cmd
}
