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
	"net"

	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/pkg/errors"
)

// PortLength is the size of ofp_port.
const PortLength = 64

// Port is ofp_port, the description of a port.
type Port struct {
	Number uint32
	MAC    net.HardwareAddr
	Name   string
	// Bitmap of OFPPC_* flags
	Config uint32
	// Bitmap of OFPPS_* flags
	State uint32
	//
	//  Bitmaps of OFPPF_* that describe features. All bits zeroed if unsupported or unavailable.
	//
	Current, Advertised, Supported, Peer uint32
	// Current and maximum port bitrate in kbps
	CurrentSpeed, MaxSpeed uint32
}

func (r *Port) IsPortDown() bool {
	return r.Config&OFPPC_PORT_DOWN != 0
}

func (r *Port) IsLinkDown() bool {
	return r.State&OFPPS_LINK_DOWN != 0
}

func (r *Port) encode(e *openflow.Encoder) {
	e.Uint32(r.Number)
	e.Pad(4)
	e.MAC(r.MAC)
	e.Pad(2)
	e.String(r.Name, MAX_PORT_NAME)
	e.Uint32(r.Config)
	e.Uint32(r.State)
	e.Uint32(r.Current)
	e.Uint32(r.Advertised)
	e.Uint32(r.Supported)
	e.Uint32(r.Peer)
	e.Uint32(r.CurrentSpeed)
	e.Uint32(r.MaxSpeed)
}

func (r *Port) decode(d *openflow.Decoder) {
	r.Number = d.Uint32()
	d.Skip(4)
	r.MAC = d.MAC()
	d.Skip(2)
	r.Name = d.String(MAX_PORT_NAME)
	r.Config = d.Uint32()
	r.State = d.Uint32()
	r.Current = d.Uint32()
	r.Advertised = d.Uint32()
	r.Supported = d.Uint32()
	r.Peer = d.Uint32()
	r.CurrentSpeed = d.Uint32()
	r.MaxSpeed = d.Uint32()
}

func (r *Port) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(PortLength)
	r.encode(e)

	return e.Bytes()
}

func (r *Port) UnmarshalBinary(data []byte) error {
	d := openflow.NewDecoder(data)
	r.decode(d)

	return errors.Wrap(d.Finish(), "ofp_port")
}

// PortMod modifies the behavior of a port.
type PortMod struct {
	openflow.BaseMessage
	Number uint32
	// Must be the MAC address of the port reported in its description.
	MAC    net.HardwareAddr
	Config uint32
	// Bitmap of OFPPC_* flags to be changed.
	Mask uint32
	// Bitmap of OFPPF_* flags. Zero all bits to prevent any action taking place.
	Advertise uint32
}

func (r *PortMod) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(32)
	e.Uint32(r.Number)
	e.Pad(4)
	e.MAC(r.MAC)
	e.Pad(2)
	e.Uint32(r.Config)
	e.Uint32(r.Mask)
	e.Uint32(r.Advertise)
	e.Pad(4)
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, OFPT_PORT_MOD, payload)
}

func (r *PortMod) UnmarshalBinary(data []byte) error {
	payload, err := r.Unmarshal(data, Version, OFPT_PORT_MOD)
	if err != nil {
		return err
	}

	d := openflow.NewDecoder(payload)
	r.Number = d.Uint32()
	d.Skip(4)
	r.MAC = d.MAC()
	d.Skip(2)
	r.Config = d.Uint32()
	r.Mask = d.Uint32()
	r.Advertise = d.Uint32()
	d.Skip(4)

	return errors.Wrap(d.Finish(), "ofp_port_mod")
}

// PortStatus reports a port that was added, removed or modified.
type PortStatus struct {
	openflow.BaseMessage
	// One of OFPPR_*
	Reason uint8
	Desc   Port
}

func (r *PortStatus) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(8 + PortLength)
	e.Uint8(r.Reason)
	e.Pad(7)
	r.Desc.encode(e)
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, OFPT_PORT_STATUS, payload)
}

func (r *PortStatus) UnmarshalBinary(data []byte) error {
	payload, err := r.Unmarshal(data, Version, OFPT_PORT_STATUS)
	if err != nil {
		return err
	}

	d := openflow.NewDecoder(payload)
	r.Reason = d.Uint8()
	d.Skip(7)
	r.Desc.decode(d)

	return errors.Wrap(d.Finish(), "ofp_port_status")
}
