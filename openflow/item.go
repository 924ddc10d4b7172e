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
	"github.com/pkg/errors"
)

// ItemHeaderLength is the size of the type and length fields that start
// every action, instruction and other self-delimited list item.
const ItemHeaderLength = 4

// MarshalItem prefixes body with itemType and the total item length.
func MarshalItem(itemType uint16, body []byte) ([]byte, error) {
	e := NewEncoder(ItemHeaderLength + len(body))
	e.Uint16(itemType)
	e.Length(ItemHeaderLength + len(body))
	e.Raw(body)

	return e.Bytes()
}

// UnmarshalItem checks the type and the declared length of a complete item
// and returns a decoder positioned at its body.
func UnmarshalItem(data []byte, itemType uint16) (*Decoder, error) {
	d := NewDecoder(data)
	t := d.Uint16()
	length := d.Uint16()
	if err := d.Err(); err != nil {
		return nil, err
	}
	if t != itemType {
		return nil, errors.Wrapf(ErrUnknownMessageType, "expected item type %v, got %v", itemType, t)
	}
	if int(length) != len(data) {
		return nil, errors.Wrapf(ErrMalformedLength, "item type %v declares %v bytes, have %v", t, length, len(data))
	}

	return d, nil
}

// ItemType returns the type field of a self-delimited list item.
func ItemType(data []byte) (uint16, error) {
	d := NewDecoder(data)
	t := d.Uint16()

	return t, d.Err()
}
