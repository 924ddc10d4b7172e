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

package of11

import (
	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/pkg/errors"
)

// PacketIn carries a packet received by the datapath and sent to the controller.
type PacketIn struct {
	openflow.BaseMessage
	// ID assigned by datapath
	BufferID uint32
	// Port on which frame was received
	InPort uint32
	// Physical port on which frame was received
	InPhyPort uint32
	// Full length of frame
	TotalLength uint16
	// One of OFPR_*
	Reason uint8
	// ID of the table that was looked up
	TableID uint8
	Data    []byte
}

func (r *PacketIn) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(16 + len(r.Data))
	e.Uint32(r.BufferID)
	e.Uint32(r.InPort)
	e.Uint32(r.InPhyPort)
	e.Uint16(r.TotalLength)
	e.Uint8(r.Reason)
	e.Uint8(r.TableID)
	e.Raw(r.Data)
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, OFPT_PACKET_IN, payload)
}

func (r *PacketIn) UnmarshalBinary(data []byte) error {
	payload, err := r.Unmarshal(data, Version, OFPT_PACKET_IN)
	if err != nil {
		return err
	}

	d := openflow.NewDecoder(payload)
	r.BufferID = d.Uint32()
	r.InPort = d.Uint32()
	r.InPhyPort = d.Uint32()
	r.TotalLength = d.Uint16()
	r.Reason = d.Uint8()
	r.TableID = d.Uint8()
	r.Data = d.Rest()

	return errors.Wrap(d.Finish(), "ofp_packet_in")
}

// PacketOut sends a packet out of the datapath. Data is used only when
// BufferID is OFP_NO_BUFFER.
type PacketOut struct {
	openflow.BaseMessage
	BufferID uint32
	// Packet's input port or OFPP_CONTROLLER
	InPort  uint32
	Actions ActionList
	Data    []byte
}

func NewPacketOut(xid uint32) *PacketOut {
	v := &PacketOut{
		BufferID: OFP_NO_BUFFER,
		InPort:   OFPP_CONTROLLER,
	}
	v.SetTransactionID(xid)
	return v
}

func (r *PacketOut) MarshalBinary() ([]byte, error) {
	actions, err := r.Actions.MarshalBinary()
	if err != nil {
		return nil, err
	}

	e := openflow.NewEncoder(16 + len(actions) + len(r.Data))
	e.Uint32(r.BufferID)
	e.Uint32(r.InPort)
	e.Length(len(actions))
	e.Pad(6)
	e.Raw(actions)
	e.Raw(r.Data)
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, OFPT_PACKET_OUT, payload)
}

func (r *PacketOut) UnmarshalBinary(data []byte) error {
	payload, err := r.Unmarshal(data, Version, OFPT_PACKET_OUT)
	if err != nil {
		return err
	}

	d := openflow.NewDecoder(payload)
	r.BufferID = d.Uint32()
	r.InPort = d.Uint32()
	length := int(d.Uint16())
	d.Skip(6)
	if err := d.Err(); err != nil {
		return errors.Wrap(err, "ofp_packet_out")
	}
	if length > d.Len() {
		return errors.Wrapf(openflow.ErrMalformedLength, "ofp_packet_out: actions_len %v exceeds the remaining %v bytes", length, d.Len())
	}
	r.Actions, err = UnmarshalActions(d.Bytes(length))
	if err != nil {
		return err
	}
	r.Data = d.Rest()

	return errors.Wrap(d.Finish(), "ofp_packet_out")
}
