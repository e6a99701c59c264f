// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package capture

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter keeps records addressed to a set of slave ids. A nil Filter keeps everything.
type Filter struct {
	ids map[byte]struct{}
}

// NewFilter builds a Filter from slave id rules such as "1,2,5-10". Empty rules give nil.
func NewFilter(rules string) (*Filter, error) {
	ids, err := ParseSlaveIDs(rules)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	f := &Filter{ids: make(map[byte]struct{}, len(ids))}
	for _, id := range ids {
		f.ids[id] = struct{}{}
	}
	return f, nil
}

// Allow reports whether frames for id pass the filter.
func (f *Filter) Allow(id byte) bool {
	if f == nil {
		return true
	}
	_, ok := f.ids[id]
	return ok
}

// ParseSlaveIDs parses a string of slave IDs (e.g. "1,2,5-10") into a slice of bytes.
func ParseSlaveIDs(input string) ([]byte, error) {
	var ids []byte
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		start, end, isRange := strings.Cut(part, "-")
		if !isRange {
			end = start
		}
		first, err := parseSlaveID(start)
		if err != nil {
			return nil, err
		}
		last, err := parseSlaveID(end)
		if err != nil {
			return nil, err
		}
		if first > last {
			return nil, fmt.Errorf("start of range %d is greater than end %d", first, last)
		}
		for i := first; i <= last; i++ {
			ids = append(ids, byte(i))
		}
	}
	return ids, nil
}

func parseSlaveID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid id: %w", err)
	}
	if id < 0 || id > 255 {
		return 0, fmt.Errorf("id out of range: %d", id)
	}
	return id, nil
}
