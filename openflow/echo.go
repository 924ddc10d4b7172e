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

// BaseOpaque is a message whose body is an uninterpreted blob, such as
// HELLO, ECHO_REQUEST and ECHO_REPLY.
type BaseOpaque struct {
	BaseMessage
	Data []byte
}

func (r *BaseOpaque) MarshalAs(version, msgType uint8) ([]byte, error) {
	return r.Marshal(version, msgType, r.Data)
}

func (r *BaseOpaque) UnmarshalAs(data []byte, version, msgType uint8) error {
	payload, err := r.Unmarshal(data, version, msgType)
	if err != nil {
		return err
	}
	r.Data = nil
	if len(payload) > 0 {
		r.Data = make([]byte, len(payload))
		copy(r.Data, payload)
	}

	return nil
}

// BaseEmpty is a message that does not contain a body beyond the header.
type BaseEmpty struct {
	BaseMessage
}

func (r *BaseEmpty) MarshalAs(version, msgType uint8) ([]byte, error) {
	return r.Marshal(version, msgType, nil)
}

func (r *BaseEmpty) UnmarshalAs(data []byte, version, msgType uint8) error {
	payload, err := r.Unmarshal(data, version, msgType)
	if err != nil {
		return err
	}
	if len(payload) > 0 {
		return errors.Wrapf(ErrTrailingData, "%v bytes after a header-only message", len(payload))
	}

	return nil
}

// BaseError is an ERROR message. Its layout is shared by every dialect.
type BaseError struct {
	BaseMessage
	// Error type
	Class uint16
	Code  uint16
	// At least the first 64 bytes of the failed request, or an ASCII text
	// for a HELLO_FAILED error.
	Data []byte
}

func (r *BaseError) MarshalAs(version, msgType uint8) ([]byte, error) {
	e := NewEncoder(4 + len(r.Data))
	e.Uint16(r.Class)
	e.Uint16(r.Code)
	e.Raw(r.Data)
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(version, msgType, payload)
}

func (r *BaseError) UnmarshalAs(data []byte, version, msgType uint8) error {
	payload, err := r.Unmarshal(data, version, msgType)
	if err != nil {
		return err
	}

	d := NewDecoder(payload)
	r.Class = d.Uint16()
	r.Code = d.Uint16()
	r.Data = d.Rest()

	return errors.Wrap(d.Finish(), "ofp_error_msg")
}

// BaseVendor is a message whose body is a vendor ID followed by vendor
// defined data.
type BaseVendor struct {
	BaseMessage
	Vendor uint32
	Data   []byte
}

func (r *BaseVendor) MarshalAs(version, msgType uint8) ([]byte, error) {
	e := NewEncoder(4 + len(r.Data))
	e.Uint32(r.Vendor)
	e.Raw(r.Data)
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(version, msgType, payload)
}

func (r *BaseVendor) UnmarshalAs(data []byte, version, msgType uint8) error {
	payload, err := r.Unmarshal(data, version, msgType)
	if err != nil {
		return err
	}

	d := NewDecoder(payload)
	r.Vendor = d.Uint32()
	r.Data = d.Rest()

	return errors.Wrap(d.Finish(), "ofp_vendor_header")
}
