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

// SplitList cuts data into back-to-back items, each of which declares its own
// total length as a 16-bit field at lengthOffset. The items must consume data
// exactly: leftovers shorter than minLength, declared lengths shorter than
// minLength and declared lengths running past the end of data are all
// ErrMalformedLength.
func SplitList(data []byte, lengthOffset, minLength int) ([][]byte, error) {
	if minLength < lengthOffset+2 {
		panic("minimum item length does not cover its length field")
	}

	items := make([][]byte, 0)
	for len(data) > 0 {
		if len(data) < minLength {
			return nil, errors.Wrapf(ErrMalformedLength, "%v leftover bytes are shorter than an item (%v bytes)", len(data), minLength)
		}
		length := int(binary.BigEndian.Uint16(data[lengthOffset : lengthOffset+2]))
		if length < minLength {
			return nil, errors.Wrapf(ErrMalformedLength, "declared item length %v is shorter than %v bytes", length, minLength)
		}
		if length > len(data) {
			return nil, errors.Wrapf(ErrMalformedLength, "declared item length %v exceeds the remaining %v bytes", length, len(data))
		}
		items = append(items, data[:length])
		data = data[length:]
	}

	return items, nil
}

// SplitArray cuts data into entries of the same fixed size.
func SplitArray(data []byte, size int) ([][]byte, error) {
	if size <= 0 {
		panic("non-positive array entry size")
	}
	if len(data)%size != 0 {
		return nil, errors.Wrapf(ErrMalformedLength, "%v bytes are not a multiple of the entry size %v", len(data), size)
	}

	entries := make([][]byte, 0, len(data)/size)
	for i := 0; i < len(data); i += size {
		entries = append(entries, data[i:i+size])
	}

	return entries, nil
}
