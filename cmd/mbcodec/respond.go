// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ffutop/modbus-codec/internal/slave"
	"github.com/ffutop/modbus-codec/internal/slave/model"
	"github.com/ffutop/modbus-codec/modbus"
)

type respondFlags struct {
	slaveID uint8
	size    int
	sets    []string
}

var tableNames = map[string]modbus.Table{
	"coils":    modbus.TableCoils,
	"discrete": modbus.TableDiscreteInputs,
	"holding":  modbus.TableHoldingRegisters,
	"input":    modbus.TableInputRegisters,
}

func newRespondCmd(a *app) *cobra.Command {
	flags := &respondFlags{}

	cmd := &cobra.Command{
		Use:   "respond <hex>...",
		Short: "Answer a request frame from an in-memory slave",
		Long: `Decode a request, run it against a zeroed in-memory data model and print
the reply a slave would send. Seed the model with --set, e.g.
--set holding:0x6B=0xAE41,0x5652 or --set coils:0=1,0,1.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := parseHex(args)
			if err != nil {
				return err
			}
			m := model.NewDataModel(flags.size)
			for _, set := range flags.sets {
				if err := seedModel(m, set); err != nil {
					return err
				}
			}

			reply, err := slave.New(flags.slaveID, m).Handle(raw, a.cfg.Codec.CRC)
			if err != nil {
				return fmt.Errorf("failed to handle request: %w", err)
			}
			if reply == nil {
				out := encoded{Frame: "no reply"}
				return emit(cmd.OutOrStdout(), a.cfg, out, out.Frame)
			}
			as := "response"
			if modbus.IsException(reply) {
				as = "exception"
			}
			rec, err := decodeFrame(reply, as, a.cfg.Codec.CRC)
			if err != nil {
				return err
			}
			out := encoded{Frame: rec.String(), Hex: formatHex(reply)}
			return emit(cmd.OutOrStdout(), a.cfg, out, out.Hex)
		},
	}

	cmd.Flags().Uint8VarP(&flags.slaveID, "slave", "s", 1, "Unit id the slave answers to")
	cmd.Flags().IntVar(&flags.size, "size", model.FullSize, "Addresses per table")
	cmd.Flags().StringArrayVar(&flags.sets, "set", nil, "Seed values as table:address=v1,v2 (tables: coils, discrete, holding, input)")

	return cmd
}

// seedModel applies one table:address=values assignment to m.
func seedModel(m *model.DataModel, set string) error {
	target, list, ok := strings.Cut(set, "=")
	if !ok {
		return fmt.Errorf("invalid --set %q, want table:address=values", set)
	}
	name, addr, ok := strings.Cut(target, ":")
	if !ok {
		return fmt.Errorf("invalid --set %q, want table:address=values", set)
	}
	table, ok := tableNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown table %q", name)
	}
	address, err := strconv.ParseUint(strings.TrimSpace(addr), 0, 16)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}

	kind := modbus.PayloadRegister
	if table == modbus.TableCoils || table == modbus.TableDiscreteInputs {
		kind = modbus.PayloadCoil
	}
	values, err := parseValues(kind, list)
	if err != nil {
		return err
	}
	if err := m.Write(table, uint16(address), values); err != nil {
		return fmt.Errorf("failed to seed %s: %w", table, err)
	}
	return nil
}
