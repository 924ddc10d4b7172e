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
	"encoding/binary"
	"net"
	"strings"

	"github.com/pkg/errors"
)

// Decoder reads network byte order fields from a byte slice. The first short
// read is remembered; every read after it returns a zero value.
type Decoder struct {
	data []byte
	err  error
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

func (r *Decoder) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data) < n {
		r.err = errors.Wrapf(ErrTruncatedInput, "need %v bytes, have %v", n, len(r.data))
		r.data = nil
		return nil
	}

	v := r.data[:n]
	r.data = r.data[n:]

	return v
}

func (r *Decoder) Uint8() uint8 {
	v := r.take(1)
	if v == nil {
		return 0
	}

	return v[0]
}

func (r *Decoder) Uint16() uint16 {
	v := r.take(2)
	if v == nil {
		return 0
	}

	return binary.BigEndian.Uint16(v)
}

func (r *Decoder) Uint32() uint32 {
	v := r.take(4)
	if v == nil {
		return 0
	}

	return binary.BigEndian.Uint32(v)
}

func (r *Decoder) Uint64() uint64 {
	v := r.take(8)
	if v == nil {
		return 0
	}

	return binary.BigEndian.Uint64(v)
}

// Skip discards n bytes of padding.
func (r *Decoder) Skip(n int) {
	r.take(n)
}

// Bytes returns a copy of the next n bytes.
func (r *Decoder) Bytes(n int) []byte {
	v := r.take(n)
	if len(v) == 0 {
		return nil
	}

	p := make([]byte, len(v))
	copy(p, v)

	return p
}

func (r *Decoder) MAC() net.HardwareAddr {
	v := r.take(6)
	if v == nil {
		return net.HardwareAddr{0, 0, 0, 0, 0, 0}
	}

	mac := make(net.HardwareAddr, 6)
	copy(mac, v)

	return mac
}

func (r *Decoder) IPv4() net.IP {
	v := r.take(4)
	if v == nil {
		return net.IPv4zero.To4()
	}

	return net.IPv4(v[0], v[1], v[2], v[3]).To4()
}

func (r *Decoder) IPv6() net.IP {
	v := r.take(16)
	if v == nil {
		return net.IPv6zero
	}

	ip := make(net.IP, 16)
	copy(ip, v)

	return ip
}

// String reads a NUL padded fixed-size character array.
func (r *Decoder) String(n int) string {
	v := r.take(n)
	if v == nil {
		return ""
	}

	return strings.TrimRight(string(v), "\x00")
}

// Rest returns a copy of the remaining bytes and consumes them.
func (r *Decoder) Rest() []byte {
	return r.Bytes(r.Len())
}

// Len returns the number of unread bytes.
func (r *Decoder) Len() int {
	return len(r.data)
}

func (r *Decoder) Err() error {
	return r.err
}

// Fail records err unless an earlier failure is already recorded. Every read
// after it returns a zero value.
func (r *Decoder) Fail(err error) {
	if r.err == nil {
		r.err = err
		r.data = nil
	}
}

// Finish returns the first read error, or ErrTrailingData if unread bytes remain.
func (r *Decoder) Finish() error {
	if r.err != nil {
		return r.err
	}
	if len(r.data) > 0 {
		return errors.Wrapf(ErrTrailingData, "%v unread bytes", len(r.data))
	}

	return nil
}

// Encoder appends network byte order fields to a buffer. The first failure
// is remembered and returned by Bytes.
type Encoder struct {
	buf []byte
	err error
}

// NewEncoder returns an encoder whose buffer is preallocated for size bytes.
func NewEncoder(size int) *Encoder {
	return &Encoder{buf: make([]byte, 0, size)}
}

func (r *Encoder) Uint8(v uint8) {
	r.buf = append(r.buf, v)
}

func (r *Encoder) Uint16(v uint16) {
	r.buf = append(r.buf, byte(v>>8), byte(v))
}

func (r *Encoder) Uint32(v uint32) {
	r.buf = append(r.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (r *Encoder) Uint64(v uint64) {
	r.Uint32(uint32(v >> 32))
	r.Uint32(uint32(v))
}

// Pad appends n zero bytes.
func (r *Encoder) Pad(n int) {
	for i := 0; i < n; i++ {
		r.buf = append(r.buf, 0)
	}
}

// Raw appends v as is.
func (r *Encoder) Raw(v []byte) {
	r.buf = append(r.buf, v...)
}

// Length appends n as a 16-bit length field.
func (r *Encoder) Length(n int) {
	if n < 0 || n > 0xFFFF {
		r.Fail(errors.Wrapf(ErrFieldOutOfRange, "length %v does not fit in 16 bits", n))
	}
	r.Uint16(uint16(n))
}

// MAC appends a 6-byte hardware address. A nil address is written as zeros.
func (r *Encoder) MAC(mac net.HardwareAddr) {
	if mac == nil {
		r.Pad(6)
		return
	}
	if len(mac) != 6 {
		r.Fail(errors.Wrapf(ErrFieldOutOfRange, "invalid MAC address length: %v", len(mac)))
		r.Pad(6)
		return
	}
	r.Raw(mac)
}

// IPv4 appends a 4-byte address. A nil address is written as zeros.
func (r *Encoder) IPv4(ip net.IP) {
	if ip == nil {
		r.Pad(4)
		return
	}
	v := ip.To4()
	if v == nil {
		r.Fail(errors.Wrapf(ErrFieldOutOfRange, "not an IPv4 address: %v", ip))
		r.Pad(4)
		return
	}
	r.Raw(v)
}

// IPv6 appends a 16-byte address. A nil address is written as zeros.
func (r *Encoder) IPv6(ip net.IP) {
	if ip == nil {
		r.Pad(16)
		return
	}
	v := ip.To16()
	if v == nil {
		r.Fail(errors.Wrapf(ErrFieldOutOfRange, "not an IPv6 address: %v", ip))
		r.Pad(16)
		return
	}
	r.Raw(v)
}

// String appends s as a NUL padded character array of n bytes.
func (r *Encoder) String(s string, n int) {
	if len(s) > n {
		r.Fail(errors.Wrapf(ErrFieldOutOfRange, "string %q is longer than %v bytes", s, n))
		s = s[:n]
	}
	r.Raw([]byte(s))
	r.Pad(n - len(s))
}

// Fail records err unless an earlier failure is already recorded.
func (r *Encoder) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Encoder) Len() int {
	return len(r.buf)
}

func (r *Encoder) Bytes() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}

	return r.buf, nil
}
