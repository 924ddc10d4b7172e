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

	"github.com/pkg/errors"
)

// HeaderLength is the size of ofp_header, the envelope of every message.
const HeaderLength = 8

// Protocol versions carried in the version field of the header.
const (
	OF10_VERSION = 0x01
	OF11_VERSION = 0x02
)

type Header struct {
	Version uint8
	Type    uint8
	// Total length of the message including this header.
	Length uint16
	XID    uint32
}

func (r *Header) MarshalBinary() ([]byte, error) {
	v := make([]byte, HeaderLength)
	v[0] = r.Version
	v[1] = r.Type
	binary.BigEndian.PutUint16(v[2:4], r.Length)
	binary.BigEndian.PutUint32(v[4:8], r.XID)

	return v, nil
}

func (r *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderLength {
		return errors.Wrapf(ErrTruncatedInput, "ofp_header: need %v bytes, have %v", HeaderLength, len(data))
	}

	r.Version = data[0]
	r.Type = data[1]
	r.Length = binary.BigEndian.Uint16(data[2:4])
	r.XID = binary.BigEndian.Uint32(data[4:8])

	return nil
}

// DecodeHeader decodes the header at the beginning of data and returns the bytes following it.
func DecodeHeader(data []byte) (Header, []byte, error) {
	h := Header{}
	if err := h.UnmarshalBinary(data); err != nil {
		return Header{}, nil, err
	}

	return h, data[HeaderLength:], nil
}
