// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ffutop/modbus-codec/internal/config"
)

// parseHex accepts bytes written as "11 03 00 6B", "11:03:00:6b" or "0x1103006b".
func parseHex(args []string) ([]byte, error) {
	s := strings.Join(args, "")
	s = strings.NewReplacer(" ", "", ":", "", "-", "", "\t", "").Replace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hex input: %w", err)
	}
	return raw, nil
}

// formatHex renders bytes the way parseHex reads them back, e.g. "11 03 00 6B".
func formatHex(raw []byte) string {
	return strings.ToUpper(fmt.Sprintf("% x", raw))
}

// emit writes v as YAML or text as configured.
func emit(w io.Writer, cfg *config.Config, v any, text string) error {
	if cfg.Codec.Output == config.OutputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
