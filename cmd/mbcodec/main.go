// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ffutop/modbus-codec/internal/config"
)

// app carries what every subcommand needs once flags and the config file are loaded.
type app struct {
	configFile string
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "mbcodec",
		Short: "Decode, encode and bridge Modbus frames",
		Long: `mbcodec decodes and encodes Modbus RTU and Modbus/TCP frames, converts
between the two framings and extracts frames from raw serial dumps and packet captures.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.configFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			setupLogger(cfg.Log)
			slog.Debug("Configuration loaded", "command", cmd.Name(), "crc", cfg.Codec.CRC, "output", cfg.Codec.Output)
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "Configuration file path")
	pf.StringP("log-level", "v", "info", "Log verbosity level (debug, info, warn, error)")
	pf.StringP("log-file", "L", "", "Log file name ('-' for logging to STDERR only)")
	pf.Bool("crc", false, "Frames carry the RTU CRC trailer")
	pf.StringP("output", "o", config.OutputText, "Output format (text, yaml)")

	rootCmd.AddCommand(newDecodeCmd(a))
	rootCmd.AddCommand(newEncodeCmd(a))
	rootCmd.AddCommand(newBridgeCmd(a))
	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newPcapCmd(a))
	rootCmd.AddCommand(newRespondCmd(a))

	return rootCmd
}

func setupLogger(cfg config.LogConfig) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.File != "" && cfg.File != "-" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file, falling back to stderr: %v\n", err)
			handler = slog.NewTextHandler(os.Stderr, opts)
		} else {
			handler = slog.NewTextHandler(f, opts)
		}
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
