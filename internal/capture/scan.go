// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package capture

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/ffutop/modbus-codec/modbus/rtu"
)

// ScanResult holds the frames found in a raw RTU dump.
type ScanResult struct {
	Records []Record `yaml:"records"`
	Noise   int      `yaml:"noise"`
}

// ScanFile maps a raw RTU byte dump read-only and decodes every CRC-valid frame in it.
func ScanFile(path string, filter *Filter) (*ScanResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat dump: %w", err)
	}
	if info.Size() == 0 {
		return &ScanResult{}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap dump: %w", err)
	}
	defer func() {
		if err := m.Unmap(); err != nil {
			slog.Error("Failed to unmap dump", "path", path, "err", err)
		}
	}()

	slog.Debug("Scanning RTU dump", "path", path, "size", len(m))
	return Scan(m, filter), nil
}

// Scan decodes every CRC-valid frame in data. Records share no memory with data.
func Scan(data []byte, filter *Filter) *ScanResult {
	frames, noise := rtu.Split(data)
	result := &ScanResult{Noise: noise}
	for _, frame := range frames {
		if !filter.Allow(frame.Bytes[0]) {
			continue
		}
		rec := NewRecord(frame.Bytes, frame.Direction, true)
		rec.Offset = frame.Offset
		result.Records = append(result.Records, rec)
	}
	slog.Debug("RTU dump scanned", "frames", len(frames), "kept", len(result.Records), "noise", noise)
	return result
}
