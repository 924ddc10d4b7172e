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
	"encoding"

	"github.com/pkg/errors"
)

// Message is implemented by every concrete OpenFlow message of every dialect.
type Message interface {
	// Header returns the header sealed by the last MarshalBinary or read by the last UnmarshalBinary.
	Header() Header
	TransactionID() uint32
	SetTransactionID(xid uint32)
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// BaseMessage holds the header of a message. It is embedded by every message
// variant, which supplies the version and type constants on each call.
type BaseMessage struct {
	header Header
}

func (r *BaseMessage) Header() Header {
	return r.header
}

func (r *BaseMessage) TransactionID() uint32 {
	return r.header.XID
}

func (r *BaseMessage) SetTransactionID(xid uint32) {
	r.header.XID = xid
}

// Marshal seals the header with the total length of payload and returns the
// encoded message.
func (r *BaseMessage) Marshal(version, msgType uint8, payload []byte) ([]byte, error) {
	length := HeaderLength + len(payload)
	if length > 0xFFFF {
		return nil, errors.Wrapf(ErrFieldOutOfRange, "message length %v exceeds 65535 bytes", length)
	}
	r.header.Version = version
	r.header.Type = msgType
	r.header.Length = uint16(length)

	v := make([]byte, length)
	header, err := r.header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	copy(v[0:HeaderLength], header)
	copy(v[HeaderLength:], payload)

	return v, nil
}

// Unmarshal validates the envelope of data against the expected version and
// type, stores its header and returns the payload that follows the header.
func (r *BaseMessage) Unmarshal(data []byte, version, msgType uint8) ([]byte, error) {
	header, _, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	if header.Length < HeaderLength {
		return nil, errors.Wrapf(ErrMalformedLength, "declared message length %v is shorter than the header", header.Length)
	}
	if len(data) < int(header.Length) {
		return nil, errors.Wrapf(ErrTruncatedInput, "declared message length %v, have %v bytes", header.Length, len(data))
	}
	if len(data) > int(header.Length) {
		return nil, errors.Wrapf(ErrTrailingData, "declared message length %v, have %v bytes", header.Length, len(data))
	}
	if header.Version != version {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "expected version %#x, got %#x", version, header.Version)
	}
	if header.Type != msgType {
		return nil, errors.Wrapf(ErrUnknownMessageType, "expected message type %v, got %v", msgType, header.Type)
	}
	r.header = header

	return data[HeaderLength:header.Length], nil
}

// Parser decodes a complete message of a single protocol version.
type Parser func(data []byte) (Message, error)

var parsers = make(map[uint8]Parser)

// RegisterParser makes a dialect available to Decode. It is meant to be
// called from the init function of a dialect package.
func RegisterParser(version uint8, parser Parser) {
	if parser == nil {
		panic("nil message parser function")
	}
	if _, ok := parsers[version]; ok {
		panic("duplicated message parser")
	}
	parsers[version] = parser
}

// Decode decodes a complete message whose dialect is selected by the version in its header.
func Decode(data []byte) (Message, error) {
	header, _, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	parser, ok := parsers[header.Version]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %#x", header.Version)
	}

	return parser(data)
}

// Encode seals msg with xid and encodes it.
func Encode(msg Message, xid uint32) ([]byte, error) {
	msg.SetTransactionID(xid)
	return msg.MarshalBinary()
}

// Equal reports whether a and b carry the same version, type and payload.
// Transaction IDs are not compared.
func Equal(a, b Message) bool {
	x, err := a.MarshalBinary()
	if err != nil {
		return false
	}
	y, err := b.MarshalBinary()
	if err != nil {
		return false
	}

	return bytes.Equal(x[0:4], y[0:4]) && bytes.Equal(x[HeaderLength:], y[HeaderLength:])
}
