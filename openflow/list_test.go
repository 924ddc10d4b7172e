/*
 * Cherry - An OpenFlow Controller
 *
 * Copyright (C) 2015 Samjung Data Service, Inc. All rights reserved.
 * Kitae Kim <superkkt@sds.co.kr>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package openflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestSplitList(t *testing.T) {
	item8 := []byte{0x00, 0x00, 0x00, 0x08, 0x01, 0x02, 0x03, 0x04}
	item16 := []byte{0x00, 0x01, 0x00, 0x10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	samples := []struct {
		name     string
		data     []byte
		expected [][]byte
		err      error
	}{
		{"empty", nil, [][]byte{}, nil},
		{"single", item8, [][]byte{item8}, nil},
		{"mixed sizes", append(append([]byte{}, item16...), item8...), [][]byte{item16, item8}, nil},
		{"leftover shorter than an item", append(append([]byte{}, item8...), 0x00, 0x00, 0x00), nil, ErrMalformedLength},
		{"declared length below minimum", []byte{0x00, 0x00, 0x00, 0x04, 0, 0, 0, 0}, nil, ErrMalformedLength},
		{"declared length past the end", []byte{0x00, 0x00, 0x00, 0x10, 0, 0, 0, 0}, nil, ErrMalformedLength},
		{"zero declared length", []byte{0x00, 0x00, 0x00, 0x00, 0, 0, 0, 0}, nil, ErrMalformedLength},
	}

	for _, v := range samples {
		items, err := SplitList(v.data, 2, 8)
		if errors.Cause(err) != v.err {
			t.Fatalf("%v: unexpected error: expected=%v, actual=%v", v.name, v.err, err)
		}
		if err != nil {
			continue
		}
		if diff := cmp.Diff(v.expected, items); diff != "" {
			t.Fatalf("%v: unexpected items (-expected +actual):\n%v", v.name, diff)
		}
	}
}

func TestSplitArray(t *testing.T) {
	items, err := SplitArray([]byte{1, 2, 3, 4, 5, 6}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([][]byte{{1, 2, 3}, {4, 5, 6}}, items); diff != "" {
		t.Fatalf("unexpected entries (-expected +actual):\n%v", diff)
	}

	if _, err := SplitArray([]byte{1, 2, 3, 4, 5}, 3); errors.Cause(err) != ErrMalformedLength {
		t.Fatalf("unexpected error: expected=%v, actual=%v", ErrMalformedLength, err)
	}
}

func TestQueues(t *testing.T) {
	queues := []PacketQueue{
		{ID: 1, Properties: []QueueProperty{{Type: OFPQT_MIN_RATE, Rate: 500}}},
		{ID: 2, Properties: []QueueProperty{{Type: OFPQT_NONE}, {Type: 0xffff, Data: []byte{1, 2, 3, 4}}}},
	}
	data, err := MarshalQueues(queues)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 8 + 16 for the first queue and 8 + 8 + 12 for the second.
	if len(data) != 52 {
		t.Fatalf("unexpected length: expected=52, actual=%v", len(data))
	}

	decoded, err := UnmarshalQueues(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(queues, decoded); diff != "" {
		t.Fatalf("unexpected queues (-expected +actual):\n%v", diff)
	}

	// Shorten the declared length of the first queue so its property overruns it.
	data[5] = 20
	if _, err := UnmarshalQueues(data); err == nil {
		t.Fatalf("expected an error for an inconsistent queue length")
	}
}
