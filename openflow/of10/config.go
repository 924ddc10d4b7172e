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

type GetConfigRequest struct {
	openflow.BaseEmpty
}

func NewGetConfigRequest(xid uint32) *GetConfigRequest {
	v := new(GetConfigRequest)
	v.SetTransactionID(xid)
	return v
}

func (r *GetConfigRequest) MarshalBinary() ([]byte, error) {
	return r.MarshalAs(Version, OFPT_GET_CONFIG_REQUEST)
}

func (r *GetConfigRequest) UnmarshalBinary(data []byte) error {
	return r.UnmarshalAs(data, Version, OFPT_GET_CONFIG_REQUEST)
}

// SwitchConfig is ofp_switch_config, the body of GET_CONFIG_REPLY and SET_CONFIG.
type SwitchConfig struct {
	// Bitmap of OFPC_FRAG_* flags
	Flags uint16
	// Max bytes of new flow that datapath should send to the controller.
	MissSendLength uint16
}

func (r *SwitchConfig) payload() ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Uint16(r.Flags)
	e.Uint16(r.MissSendLength)

	return e.Bytes()
}

func (r *SwitchConfig) parse(payload []byte) error {
	d := openflow.NewDecoder(payload)
	r.Flags = d.Uint16()
	r.MissSendLength = d.Uint16()

	return errors.Wrap(d.Finish(), "ofp_switch_config")
}

type GetConfigReply struct {
	openflow.BaseMessage
	SwitchConfig
}

func (r *GetConfigReply) MarshalBinary() ([]byte, error) {
	payload, err := r.payload()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, OFPT_GET_CONFIG_REPLY, payload)
}

func (r *GetConfigReply) UnmarshalBinary(data []byte) error {
	payload, err := r.Unmarshal(data, Version, OFPT_GET_CONFIG_REPLY)
	if err != nil {
		return err
	}

	return r.parse(payload)
}

type SetConfig struct {
	openflow.BaseMessage
	SwitchConfig
}

func NewSetConfig(xid uint32) *SetConfig {
	v := &SetConfig{
		SwitchConfig: SwitchConfig{
			Flags:          OFPC_FRAG_NORMAL,
			MissSendLength: 0xffff,
		},
	}
	v.SetTransactionID(xid)
	return v
}

func (r *SetConfig) MarshalBinary() ([]byte, error) {
	payload, err := r.payload()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, OFPT_SET_CONFIG, payload)
}

func (r *SetConfig) UnmarshalBinary(data []byte) error {
	payload, err := r.Unmarshal(data, Version, OFPT_SET_CONFIG)
	if err != nil {
		return err
	}

	return r.parse(payload)
}
