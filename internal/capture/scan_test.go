// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package capture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// A read holding registers exchange with one byte of line noise between the frames.
var rtuDump = []byte{
	0x11, 0x03, 0x00, 0x6B, 0x00, 0x03, 0x76, 0x87,
	0x00,
	0x11, 0x03, 0x06, 0xAE, 0x41, 0x56, 0x52, 0x43, 0x40, 0x49, 0xAD,
	0x01, 0x83, 0x02, 0xC0, 0xF1,
}

func TestScan(t *testing.T) {
	result := Scan(rtuDump, nil)
	if result.Noise != 1 {
		t.Errorf("Noise = %d, want 1", result.Noise)
	}
	if len(result.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(result.Records))
	}

	req := result.Records[0]
	if req.Direction != "request" || req.Offset != 0 || req.Address != 0x6B || req.Count != 3 || req.Error != "" {
		t.Errorf("request record = %+v", req)
	}
	resp := result.Records[1]
	if resp.Direction != "response" || resp.Offset != 9 || resp.Count != 3 {
		t.Errorf("response record = %+v", resp)
	}
	if strings.Join(resp.Values, ",") != "44609,22098,17216" {
		t.Errorf("response values = %v", resp.Values)
	}
	exc := result.Records[2]
	if exc.Direction != "exception" || exc.SlaveID != 1 || exc.Exception != "Illegal Data Address" {
		t.Errorf("exception record = %+v", exc)
	}
	if !strings.HasPrefix(req.String(), "@0 request slave=17") {
		t.Errorf("String() = %q", req.String())
	}
}

func TestScanFilter(t *testing.T) {
	f, err := NewFilter("1")
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}
	result := Scan(rtuDump, f)
	if len(result.Records) != 1 || result.Records[0].SlaveID != 1 {
		t.Errorf("filtered records = %+v", result.Records)
	}
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.bin")
	if err := os.WriteFile(path, rtuDump, 0644); err != nil {
		t.Fatalf("failed to write dump: %v", err)
	}

	result, err := ScanFile(path, nil)
	if err != nil {
		t.Fatalf("ScanFile() error = %v", err)
	}
	if len(result.Records) != 3 || result.Noise != 1 {
		t.Fatalf("ScanFile() = %d records, %d noise", len(result.Records), result.Noise)
	}

	out, err := yaml.Marshal(result)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	var back ScanResult
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if len(back.Records) != 3 || back.Records[2].Exception != "Illegal Data Address" || back.Records[0].Raw != "1103006b00037687" {
		t.Errorf("yaml round trip = %+v", back)
	}

	empty := filepath.Join(dir, "empty.bin")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatalf("failed to write dump: %v", err)
	}
	if result, err := ScanFile(empty, nil); err != nil || len(result.Records) != 0 {
		t.Errorf("ScanFile(empty) = %+v, %v", result, err)
	}

	if _, err := ScanFile(filepath.Join(dir, "absent.bin"), nil); err == nil {
		t.Error("ScanFile(absent) error = nil")
	}
}
