// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package capture

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/ffutop/modbus-codec/modbus/rtu"
	"github.com/ffutop/modbus-codec/modbus/tcp"
)

// ReadPCAP extracts Modbus/TCP frames exchanged with a server on port from a pcap file.
// Segments are reassembled per TCP stream before MBAP frames are cut out.
func ReadPCAP(path string, port int, filter *Filter) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pcap file: %w", err)
	}
	defer f.Close()

	reader, err := pcapgo.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcap header: %w", err)
	}

	var records []Record
	streams := make(map[string][]byte)
	packetSource := gopacket.NewPacketSource(reader, reader.LinkType())

	for packet := range packetSource.Packets() {
		tcpLayer := packet.Layer(layers.LayerTypeTCP)
		if tcpLayer == nil {
			continue
		}
		seg, _ := tcpLayer.(*layers.TCP)
		if int(seg.SrcPort) != port && int(seg.DstPort) != port {
			continue
		}
		if len(seg.Payload) == 0 {
			continue
		}

		key := streamKey(packet.NetworkLayer(), seg)
		buf := append(streams[key], seg.Payload...)

		frames, rest, err := tcp.Split(buf)
		if err != nil {
			slog.Warn("Dropping unframeable stream data", "stream", key, "bytes", len(rest), "err", err)
			rest = nil
		}
		streams[key] = append([]byte(nil), rest...)

		dir := rtu.DirectionResponse
		if int(seg.DstPort) == port {
			dir = rtu.DirectionRequest
		}
		for _, raw := range frames {
			if rec, ok := mbapRecord(raw, dir, key, packet); ok {
				records = append(records, rec)
			}
		}
	}

	var kept []Record
	for _, rec := range records {
		if filter.Allow(rec.SlaveID) {
			kept = append(kept, rec)
		}
	}
	slog.Debug("PCAP read", "path", path, "frames", len(records), "kept", len(kept))
	return kept, nil
}

func mbapRecord(raw []byte, dir rtu.Direction, key string, packet gopacket.Packet) (Record, bool) {
	adu, err := tcp.Decode(raw)
	if err != nil {
		slog.Warn("Skipping invalid MBAP frame", "stream", key, "err", err)
		return Record{}, false
	}
	rec := NewRecord(adu.Frame(), dir, false)
	rec.Stream = key
	rec.TransactionID = adu.TransactionID
	rec.Time = packet.Metadata().Timestamp
	return rec, true
}

func streamKey(netLayer gopacket.NetworkLayer, seg *layers.TCP) string {
	if netLayer == nil {
		return fmt.Sprintf("%d->%d", uint16(seg.SrcPort), uint16(seg.DstPort))
	}
	flow := netLayer.NetworkFlow()
	return fmt.Sprintf("%s:%d->%s:%d", flow.Src(), uint16(seg.SrcPort), flow.Dst(), uint16(seg.DstPort))
}
