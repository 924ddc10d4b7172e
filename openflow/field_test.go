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
	"bytes"
	"net"
	"testing"

	"github.com/pkg/errors"
)

func TestDecoderFields(t *testing.T) {
	data := []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
		0x00, 0x00,
		0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
		10, 0, 0, 1,
		'o', 'f', 0x00, 0x00,
	}
	d := NewDecoder(data)
	if v := d.Uint8(); v != 0x01 {
		t.Fatalf("unexpected uint8: expected=0x01, actual=%#x", v)
	}
	if v := d.Uint16(); v != 0x0203 {
		t.Fatalf("unexpected uint16: expected=0x0203, actual=%#x", v)
	}
	if v := d.Uint32(); v != 0x04050607 {
		t.Fatalf("unexpected uint32: expected=0x04050607, actual=%#x", v)
	}
	if v := d.Uint64(); v != 0x08090a0b0c0d0e0f {
		t.Fatalf("unexpected uint64: expected=0x08090a0b0c0d0e0f, actual=%#x", v)
	}
	d.Skip(2)
	if v := d.MAC(); v.String() != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("unexpected MAC: expected=aa:bb:cc:dd:ee:ff, actual=%v", v)
	}
	if v := d.IPv4(); !v.Equal(net.IPv4(10, 0, 0, 1)) {
		t.Fatalf("unexpected IPv4: expected=10.0.0.1, actual=%v", v)
	}
	if v := d.String(4); v != "of" {
		t.Fatalf("unexpected string: expected=of, actual=%q", v)
	}
	if err := d.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecoderTruncated(t *testing.T) {
	d := NewDecoder([]byte{0x01, 0x02, 0x03})
	if v := d.Uint32(); v != 0 {
		t.Fatalf("unexpected value after a short read: %#x", v)
	}
	// Reads after the first failure keep returning zero values.
	if v := d.Uint8(); v != 0 {
		t.Fatalf("unexpected value after a short read: %#x", v)
	}
	if err := d.Finish(); errors.Cause(err) != ErrTruncatedInput {
		t.Fatalf("unexpected error: expected=%v, actual=%v", ErrTruncatedInput, err)
	}
}

func TestDecoderTrailing(t *testing.T) {
	d := NewDecoder([]byte{0x01, 0x02, 0x03})
	d.Uint16()
	if err := d.Finish(); errors.Cause(err) != ErrTrailingData {
		t.Fatalf("unexpected error: expected=%v, actual=%v", ErrTrailingData, err)
	}
}

func TestEncoderFields(t *testing.T) {
	e := NewEncoder(0)
	e.Uint8(0x01)
	e.Uint16(0x0203)
	e.Uint32(0x04050607)
	e.Uint64(0x08090a0b0c0d0e0f)
	e.Pad(2)
	e.MAC(nil)
	e.IPv4(net.ParseIP("192.168.0.1"))
	e.String("of", 4)

	expected := []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
		0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		192, 168, 0, 1,
		'o', 'f', 0x00, 0x00,
	}
	v, err := e.Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(v, expected) {
		t.Fatalf("unexpected encoding: expected=%v, actual=%v", expected, v)
	}
}

func TestEncoderOutOfRange(t *testing.T) {
	samples := []struct {
		name string
		fill func(e *Encoder)
	}{
		{"length", func(e *Encoder) { e.Length(0x10000) }},
		{"negative length", func(e *Encoder) { e.Length(-1) }},
		{"short MAC", func(e *Encoder) { e.MAC(net.HardwareAddr{1, 2, 3}) }},
		{"IPv6 as IPv4", func(e *Encoder) { e.IPv4(net.ParseIP("2001:db8::1")) }},
		{"long string", func(e *Encoder) { e.String("openflow", 4) }},
	}

	for _, v := range samples {
		e := NewEncoder(0)
		v.fill(e)
		e.Uint32(1)
		if _, err := e.Bytes(); errors.Cause(err) != ErrFieldOutOfRange {
			t.Fatalf("%v: unexpected error: expected=%v, actual=%v", v.name, ErrFieldOutOfRange, err)
		}
	}
}
