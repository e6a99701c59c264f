// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ffutop/modbus-codec/internal/capture"
	"github.com/ffutop/modbus-codec/internal/config"
)

func newScanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Decode every RTU frame in a raw serial dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := capture.NewFilter(a.cfg.Capture.SlaveIDs)
			if err != nil {
				return fmt.Errorf("invalid slave ids: %w", err)
			}
			result, err := capture.ScanFile(args[0], filter)
			if err != nil {
				return err
			}
			if a.cfg.Codec.Output == config.OutputYAML {
				return emit(cmd.OutOrStdout(), a.cfg, result, "")
			}
			if err := printRecords(cmd.OutOrStdout(), result.Records); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d frames, %d noise bytes\n", len(result.Records), result.Noise)
			return err
		},
	}
	cmd.Flags().String("slave-ids", "", "Only keep frames for these slave ids, e.g. \"1,2,5-10\"")
	return cmd
}

func printRecords(w io.Writer, records []capture.Record) error {
	for _, rec := range records {
		if _, err := fmt.Fprintln(w, rec.String()); err != nil {
			return err
		}
	}
	return nil
}
