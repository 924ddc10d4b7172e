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
	"testing"

	"github.com/pkg/errors"
)

const (
	testVersion   = 0x7e
	testTypeHello = 0
	testTypeError = 1
)

type testHello struct {
	BaseOpaque
}

func (r *testHello) MarshalBinary() ([]byte, error) {
	return r.MarshalAs(testVersion, testTypeHello)
}

func (r *testHello) UnmarshalBinary(data []byte) error {
	return r.UnmarshalAs(data, testVersion, testTypeHello)
}

type testError struct {
	BaseError
}

func (r *testError) MarshalBinary() ([]byte, error) {
	return r.MarshalAs(testVersion, testTypeError)
}

func (r *testError) UnmarshalBinary(data []byte) error {
	return r.UnmarshalAs(data, testVersion, testTypeError)
}

func init() {
	RegisterParser(testVersion, func(data []byte) (Message, error) {
		header, _, err := DecodeHeader(data)
		if err != nil {
			return nil, err
		}

		var msg Message
		switch header.Type {
		case testTypeHello:
			msg = new(testHello)
		case testTypeError:
			msg = new(testError)
		default:
			return nil, errors.Wrapf(ErrUnknownMessageType, "type %v", header.Type)
		}
		if err := msg.UnmarshalBinary(data); err != nil {
			return nil, err
		}

		return msg, nil
	})
}

func TestEncodeHello(t *testing.T) {
	v, err := Encode(new(testHello), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []byte{testVersion, testTypeHello, 0x00, 0x08, 0x00, 0x00, 0x00, 0x2a}
	if !bytes.Equal(v, expected) {
		t.Fatalf("unexpected encoding: expected=%v, actual=%v", expected, v)
	}
}

func TestDecodeDispatch(t *testing.T) {
	e := &testError{}
	e.Class = 1
	e.Code = 2
	e.Data = []byte("bad request")
	data, err := Encode(e, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, ok := msg.(*testError)
	if !ok {
		t.Fatalf("unexpected message type: %T", msg)
	}
	if decoded.TransactionID() != 7 || decoded.Class != 1 || decoded.Code != 2 || string(decoded.Data) != "bad request" {
		t.Fatalf("unexpected message: %v", Dump(decoded))
	}
	if decoded.Header().Length != uint16(len(data)) {
		t.Fatalf("unexpected header length: expected=%v, actual=%v", len(data), decoded.Header().Length)
	}
}

func TestDecodeErrors(t *testing.T) {
	samples := []struct {
		name string
		data []byte
		err  error
	}{
		{"short header", []byte{testVersion, 0x00, 0x00}, ErrTruncatedInput},
		{"unknown version", []byte{0x55, 0x00, 0x00, 0x08, 0, 0, 0, 1}, ErrUnsupportedVersion},
		{"unknown type", []byte{testVersion, 0x63, 0x00, 0x08, 0, 0, 0, 1}, ErrUnknownMessageType},
		{"length below header", []byte{testVersion, 0x00, 0x00, 0x04, 0, 0, 0, 1}, ErrMalformedLength},
		{"buffer shorter than length", []byte{testVersion, 0x00, 0x00, 0x0a, 0, 0, 0, 1, 0xff}, ErrTruncatedInput},
		{"buffer longer than length", []byte{testVersion, 0x00, 0x00, 0x08, 0, 0, 0, 1, 0xff}, ErrTrailingData},
		{"error body too short", []byte{testVersion, testTypeError, 0x00, 0x0a, 0, 0, 0, 1, 0x00, 0x01}, ErrTruncatedInput},
	}

	for _, v := range samples {
		msg, err := Decode(v.data)
		if errors.Cause(err) != v.err {
			t.Fatalf("%v: unexpected error: expected=%v, actual=%v", v.name, v.err, err)
		}
		if msg != nil {
			t.Fatalf("%v: unexpected message on failure: %v", v.name, Dump(msg))
		}
	}
}

func TestDecodeTruncatedPrefixes(t *testing.T) {
	e := &testError{}
	e.Class = 3
	e.Code = 4
	e.Data = []byte{1, 2, 3, 4, 5, 6, 7, 8}
	data, err := Encode(e, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < len(data); i++ {
		if _, err := Decode(data[:i]); errors.Cause(err) != ErrTruncatedInput {
			t.Fatalf("prefix of %v bytes: unexpected error: expected=%v, actual=%v", i, ErrTruncatedInput, err)
		}
	}
}

func TestEqualIgnoresXID(t *testing.T) {
	a := &testHello{}
	a.Data = []byte{1, 2, 3}
	a.SetTransactionID(1)
	b := &testHello{}
	b.Data = []byte{1, 2, 3}
	b.SetTransactionID(2)
	if !Equal(a, b) {
		t.Fatalf("messages differing only in xid are not equal")
	}

	b.Data = []byte{1, 2, 4}
	if Equal(a, b) {
		t.Fatalf("messages with different data are equal")
	}
}

func TestEncodeTooLong(t *testing.T) {
	h := &testHello{}
	h.Data = make([]byte, 0xFFFF)
	if _, err := h.MarshalBinary(); errors.Cause(err) != ErrFieldOutOfRange {
		t.Fatalf("unexpected error: expected=%v, actual=%v", ErrFieldOutOfRange, err)
	}
}
