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

// flowModLength is the size of the fixed part of ofp_flow_mod, excluding the header.
const flowModLength = MatchLength + 24

type FlowMod struct {
	openflow.BaseMessage
	Match  Match
	Cookie uint64
	// One of OFPFC_*
	Command uint16
	// Idle time before discarding (seconds)
	IdleTimeout uint16
	// Max time before discarding (seconds)
	HardTimeout uint16
	Priority    uint16
	// Buffered packet to apply to, or OFP_NO_BUFFER
	BufferID uint32
	// For OFPFC_DELETE* commands, require matching entries to include this as an output port.
	OutPort uint16
	// Bitmap of OFPFF_* flags
	Flags   uint16
	Actions ActionList
}

func NewFlowMod(xid uint32, cmd uint16) *FlowMod {
	v := &FlowMod{
		Match:    *NewMatch(),
		Command:  cmd,
		BufferID: OFP_NO_BUFFER,
		OutPort:  OFPP_NONE,
	}
	v.SetTransactionID(xid)
	return v
}

func (r *FlowMod) MarshalBinary() ([]byte, error) {
	actions, err := r.Actions.MarshalBinary()
	if err != nil {
		return nil, err
	}

	e := openflow.NewEncoder(flowModLength + len(actions))
	r.Match.encode(e)
	e.Uint64(r.Cookie)
	e.Uint16(r.Command)
	e.Uint16(r.IdleTimeout)
	e.Uint16(r.HardTimeout)
	e.Uint16(r.Priority)
	e.Uint32(r.BufferID)
	e.Uint16(r.OutPort)
	e.Uint16(r.Flags)
	e.Raw(actions)
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, OFPT_FLOW_MOD, payload)
}

func (r *FlowMod) UnmarshalBinary(data []byte) error {
	payload, err := r.Unmarshal(data, Version, OFPT_FLOW_MOD)
	if err != nil {
		return err
	}

	d := openflow.NewDecoder(payload)
	r.Match.decode(d)
	r.Cookie = d.Uint64()
	r.Command = d.Uint16()
	r.IdleTimeout = d.Uint16()
	r.HardTimeout = d.Uint16()
	r.Priority = d.Uint16()
	r.BufferID = d.Uint32()
	r.OutPort = d.Uint16()
	r.Flags = d.Uint16()
	if err := d.Err(); err != nil {
		return errors.Wrap(err, "ofp_flow_mod")
	}
	// The action list takes the rest of the message.
	r.Actions, err = UnmarshalActions(d.Rest())

	return err
}

// FlowRemoved reports a flow entry removed from the flow table.
type FlowRemoved struct {
	openflow.BaseMessage
	Match  Match
	Cookie uint64
	// Priority level of flow entry.
	Priority uint16
	// One of OFPRR_*
	Reason uint8
	// Time flow was alive in seconds.
	DurationSec uint32
	// Time flow was alive in nanoseconds beyond DurationSec.
	DurationNanoSec uint32
	IdleTimeout     uint16
	PacketCount     uint64
	ByteCount       uint64
}

func (r *FlowRemoved) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(MatchLength + 40)
	r.Match.encode(e)
	e.Uint64(r.Cookie)
	e.Uint16(r.Priority)
	e.Uint8(r.Reason)
	e.Pad(1)
	e.Uint32(r.DurationSec)
	e.Uint32(r.DurationNanoSec)
	e.Uint16(r.IdleTimeout)
	e.Pad(2)
	e.Uint64(r.PacketCount)
	e.Uint64(r.ByteCount)
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, OFPT_FLOW_REMOVED, payload)
}

func (r *FlowRemoved) UnmarshalBinary(data []byte) error {
	payload, err := r.Unmarshal(data, Version, OFPT_FLOW_REMOVED)
	if err != nil {
		return err
	}

	d := openflow.NewDecoder(payload)
	r.Match.decode(d)
	r.Cookie = d.Uint64()
	r.Priority = d.Uint16()
	r.Reason = d.Uint8()
	d.Skip(1)
	r.DurationSec = d.Uint32()
	r.DurationNanoSec = d.Uint32()
	r.IdleTimeout = d.Uint16()
	d.Skip(2)
	r.PacketCount = d.Uint64()
	r.ByteCount = d.Uint64()

	return errors.Wrap(d.Finish(), "ofp_flow_removed")
}
