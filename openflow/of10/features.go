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

package of10

import (
	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/pkg/errors"
)

type FeaturesRequest struct {
	openflow.BaseEmpty
}

func NewFeaturesRequest(xid uint32) *FeaturesRequest {
	v := new(FeaturesRequest)
	v.SetTransactionID(xid)
	return v
}

func (r *FeaturesRequest) MarshalBinary() ([]byte, error) {
	return r.MarshalAs(Version, OFPT_FEATURES_REQUEST)
}

func (r *FeaturesRequest) UnmarshalBinary(data []byte) error {
	return r.UnmarshalAs(data, Version, OFPT_FEATURES_REQUEST)
}

// FeaturesReply is ofp_switch_features.
type FeaturesReply struct {
	openflow.BaseMessage
	DPID       uint64
	NumBuffers uint32
	NumTables  uint8
	// Bitmap of OFPC_* flags
	Capabilities uint32
	// Bitmap of supported (1 << OFPAT_*) actions
	Actions uint32
	Ports   []Port
}

func (r *FeaturesReply) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(24 + len(r.Ports)*PortLength)
	e.Uint64(r.DPID)
	e.Uint32(r.NumBuffers)
	e.Uint8(r.NumTables)
	e.Pad(3)
	e.Uint32(r.Capabilities)
	e.Uint32(r.Actions)
	for i := range r.Ports {
		r.Ports[i].encode(e)
	}
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, OFPT_FEATURES_REPLY, payload)
}

func (r *FeaturesReply) UnmarshalBinary(data []byte) error {
	payload, err := r.Unmarshal(data, Version, OFPT_FEATURES_REPLY)
	if err != nil {
		return err
	}

	d := openflow.NewDecoder(payload)
	r.DPID = d.Uint64()
	r.NumBuffers = d.Uint32()
	r.NumTables = d.Uint8()
	d.Skip(3)
	r.Capabilities = d.Uint32()
	r.Actions = d.Uint32()
	if err := d.Err(); err != nil {
		return errors.Wrap(err, "ofp_switch_features")
	}

	entries, err := openflow.SplitArray(d.Rest(), PortLength)
	if err != nil {
		return errors.Wrap(err, "ofp_switch_features ports")
	}
	r.Ports = make([]Port, len(entries))
	for i, v := range entries {
		if err := r.Ports[i].UnmarshalBinary(v); err != nil {
			return err
		}
	}

	return nil
}
