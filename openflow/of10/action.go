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
	"encoding"
	"net"

	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/pkg/errors"
)

// Action is an ofp_action_* structure. Its encoding starts with the action
// type and the total action length.
type Action interface {
	Type() uint16
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

var actions = map[uint16]func() Action{
	OFPAT_OUTPUT:       func() Action { return new(ActionOutput) },
	OFPAT_SET_VLAN_VID: func() Action { return new(ActionSetVLANVID) },
	OFPAT_SET_VLAN_PCP: func() Action { return new(ActionSetVLANPCP) },
	OFPAT_STRIP_VLAN:   func() Action { return new(ActionStripVLAN) },
	OFPAT_SET_DL_SRC:   func() Action { return new(ActionSetDLSrc) },
	OFPAT_SET_DL_DST:   func() Action { return new(ActionSetDLDst) },
	OFPAT_SET_NW_SRC:   func() Action { return new(ActionSetNWSrc) },
	OFPAT_SET_NW_DST:   func() Action { return new(ActionSetNWDst) },
	OFPAT_SET_NW_TOS:   func() Action { return new(ActionSetNWTOS) },
	OFPAT_SET_TP_SRC:   func() Action { return new(ActionSetTPSrc) },
	OFPAT_SET_TP_DST:   func() Action { return new(ActionSetTPDst) },
	OFPAT_ENQUEUE:      func() Action { return new(ActionEnqueue) },
	OFPAT_VENDOR:       func() Action { return new(ActionVendor) },
}

// ActionList is an ordered sequence of actions encoded back to back.
type ActionList []Action

func (r ActionList) MarshalBinary() ([]byte, error) {
	v := make([]byte, 0)
	for _, act := range r {
		a, err := act.MarshalBinary()
		if err != nil {
			return nil, err
		}
		v = append(v, a...)
	}

	return v, nil
}

// UnmarshalActions decodes actions that must consume data exactly.
func UnmarshalActions(data []byte) (ActionList, error) {
	items, err := openflow.SplitList(data, 2, 8)
	if err != nil {
		return nil, errors.Wrap(err, "action list")
	}

	result := make(ActionList, 0, len(items))
	for _, v := range items {
		t, err := openflow.ItemType(v)
		if err != nil {
			return nil, err
		}
		newAction, ok := actions[t]
		if !ok {
			return nil, errors.Wrapf(openflow.ErrUnknownMessageType, "action type %v", t)
		}
		act := newAction()
		if err := act.UnmarshalBinary(v); err != nil {
			return nil, err
		}
		result = append(result, act)
	}

	return result, nil
}

// ActionOutput sends packets out of Port. MaxLen is the number of bytes to
// send to the controller when Port is OFPP_CONTROLLER.
type ActionOutput struct {
	Port   uint16
	MaxLen uint16
}

func NewActionOutput(port uint16) *ActionOutput {
	return &ActionOutput{
		Port:   port,
		MaxLen: 0xffff,
	}
}

func (r *ActionOutput) Type() uint16 {
	return OFPAT_OUTPUT
}

func (r *ActionOutput) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Uint16(r.Port)
	e.Uint16(r.MaxLen)
	return marshalAction(r.Type(), e)
}

func (r *ActionOutput) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	r.Port = d.Uint16()
	r.MaxLen = d.Uint16()

	return errors.Wrap(d.Finish(), "ofp_action_output")
}

type ActionSetVLANVID struct {
	VLANID uint16
}

func (r *ActionSetVLANVID) Type() uint16 {
	return OFPAT_SET_VLAN_VID
}

func (r *ActionSetVLANVID) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Uint16(r.VLANID)
	e.Pad(2)
	return marshalAction(r.Type(), e)
}

func (r *ActionSetVLANVID) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	r.VLANID = d.Uint16()
	d.Skip(2)

	return errors.Wrap(d.Finish(), "ofp_action_vlan_vid")
}

type ActionSetVLANPCP struct {
	Priority uint8
}

func (r *ActionSetVLANPCP) Type() uint16 {
	return OFPAT_SET_VLAN_PCP
}

func (r *ActionSetVLANPCP) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Uint8(r.Priority)
	e.Pad(3)
	return marshalAction(r.Type(), e)
}

func (r *ActionSetVLANPCP) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	r.Priority = d.Uint8()
	d.Skip(3)

	return errors.Wrap(d.Finish(), "ofp_action_vlan_pcp")
}

type ActionStripVLAN struct{}

func (r *ActionStripVLAN) Type() uint16 {
	return OFPAT_STRIP_VLAN
}

func (r *ActionStripVLAN) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Pad(4)
	return marshalAction(r.Type(), e)
}

func (r *ActionStripVLAN) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	d.Skip(4)

	return errors.Wrap(d.Finish(), "ofp_action_header")
}

type actionDLAddr struct {
	MAC net.HardwareAddr
}

func (r *actionDLAddr) marshal(t uint16) ([]byte, error) {
	e := openflow.NewEncoder(12)
	e.MAC(r.MAC)
	e.Pad(6)
	return marshalAction(t, e)
}

func (r *actionDLAddr) unmarshal(data []byte, t uint16) error {
	d, err := openflow.UnmarshalItem(data, t)
	if err != nil {
		return err
	}
	r.MAC = d.MAC()
	d.Skip(6)

	return errors.Wrap(d.Finish(), "ofp_action_dl_addr")
}

type ActionSetDLSrc struct {
	actionDLAddr
}

func NewActionSetDLSrc(mac net.HardwareAddr) *ActionSetDLSrc {
	return &ActionSetDLSrc{actionDLAddr{MAC: mac}}
}

func (r *ActionSetDLSrc) Type() uint16 {
	return OFPAT_SET_DL_SRC
}

func (r *ActionSetDLSrc) MarshalBinary() ([]byte, error) {
	return r.marshal(r.Type())
}

func (r *ActionSetDLSrc) UnmarshalBinary(data []byte) error {
	return r.unmarshal(data, r.Type())
}

type ActionSetDLDst struct {
	actionDLAddr
}

func NewActionSetDLDst(mac net.HardwareAddr) *ActionSetDLDst {
	return &ActionSetDLDst{actionDLAddr{MAC: mac}}
}

func (r *ActionSetDLDst) Type() uint16 {
	return OFPAT_SET_DL_DST
}

func (r *ActionSetDLDst) MarshalBinary() ([]byte, error) {
	return r.marshal(r.Type())
}

func (r *ActionSetDLDst) UnmarshalBinary(data []byte) error {
	return r.unmarshal(data, r.Type())
}

type actionNWAddr struct {
	IP net.IP
}

func (r *actionNWAddr) marshal(t uint16) ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.IPv4(r.IP)
	return marshalAction(t, e)
}

func (r *actionNWAddr) unmarshal(data []byte, t uint16) error {
	d, err := openflow.UnmarshalItem(data, t)
	if err != nil {
		return err
	}
	r.IP = d.IPv4()

	return errors.Wrap(d.Finish(), "ofp_action_nw_addr")
}

type ActionSetNWSrc struct {
	actionNWAddr
}

func NewActionSetNWSrc(ip net.IP) *ActionSetNWSrc {
	return &ActionSetNWSrc{actionNWAddr{IP: ip}}
}

func (r *ActionSetNWSrc) Type() uint16 {
	return OFPAT_SET_NW_SRC
}

func (r *ActionSetNWSrc) MarshalBinary() ([]byte, error) {
	return r.marshal(r.Type())
}

func (r *ActionSetNWSrc) UnmarshalBinary(data []byte) error {
	return r.unmarshal(data, r.Type())
}

type ActionSetNWDst struct {
	actionNWAddr
}

func NewActionSetNWDst(ip net.IP) *ActionSetNWDst {
	return &ActionSetNWDst{actionNWAddr{IP: ip}}
}

func (r *ActionSetNWDst) Type() uint16 {
	return OFPAT_SET_NW_DST
}

func (r *ActionSetNWDst) MarshalBinary() ([]byte, error) {
	return r.marshal(r.Type())
}

func (r *ActionSetNWDst) UnmarshalBinary(data []byte) error {
	return r.unmarshal(data, r.Type())
}

type ActionSetNWTOS struct {
	TOS uint8
}

func (r *ActionSetNWTOS) Type() uint16 {
	return OFPAT_SET_NW_TOS
}

func (r *ActionSetNWTOS) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Uint8(r.TOS)
	e.Pad(3)
	return marshalAction(r.Type(), e)
}

func (r *ActionSetNWTOS) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	r.TOS = d.Uint8()
	d.Skip(3)

	return errors.Wrap(d.Finish(), "ofp_action_nw_tos")
}

type actionTPPort struct {
	Port uint16
}

func (r *actionTPPort) marshal(t uint16) ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Uint16(r.Port)
	e.Pad(2)
	return marshalAction(t, e)
}

func (r *actionTPPort) unmarshal(data []byte, t uint16) error {
	d, err := openflow.UnmarshalItem(data, t)
	if err != nil {
		return err
	}
	r.Port = d.Uint16()
	d.Skip(2)

	return errors.Wrap(d.Finish(), "ofp_action_tp_port")
}

type ActionSetTPSrc struct {
	actionTPPort
}

func NewActionSetTPSrc(port uint16) *ActionSetTPSrc {
	return &ActionSetTPSrc{actionTPPort{Port: port}}
}

func (r *ActionSetTPSrc) Type() uint16 {
	return OFPAT_SET_TP_SRC
}

func (r *ActionSetTPSrc) MarshalBinary() ([]byte, error) {
	return r.marshal(r.Type())
}

func (r *ActionSetTPSrc) UnmarshalBinary(data []byte) error {
	return r.unmarshal(data, r.Type())
}

type ActionSetTPDst struct {
	actionTPPort
}

func NewActionSetTPDst(port uint16) *ActionSetTPDst {
	return &ActionSetTPDst{actionTPPort{Port: port}}
}

func (r *ActionSetTPDst) Type() uint16 {
	return OFPAT_SET_TP_DST
}

func (r *ActionSetTPDst) MarshalBinary() ([]byte, error) {
	return r.marshal(r.Type())
}

func (r *ActionSetTPDst) UnmarshalBinary(data []byte) error {
	return r.unmarshal(data, r.Type())
}

// ActionEnqueue sends packets to QueueID attached to Port.
type ActionEnqueue struct {
	Port    uint16
	QueueID uint32
}

func (r *ActionEnqueue) Type() uint16 {
	return OFPAT_ENQUEUE
}

func (r *ActionEnqueue) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(12)
	e.Uint16(r.Port)
	e.Pad(6)
	e.Uint32(r.QueueID)
	return marshalAction(r.Type(), e)
}

func (r *ActionEnqueue) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	r.Port = d.Uint16()
	d.Skip(6)
	r.QueueID = d.Uint32()

	return errors.Wrap(d.Finish(), "ofp_action_enqueue")
}

// ActionVendor carries vendor defined data. The length of Data should keep
// the action a multiple of 8 bytes long.
type ActionVendor struct {
	Vendor uint32
	Data   []byte
}

func (r *ActionVendor) Type() uint16 {
	return OFPAT_VENDOR
}

func (r *ActionVendor) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(4 + len(r.Data))
	e.Uint32(r.Vendor)
	e.Raw(r.Data)
	return marshalAction(r.Type(), e)
}

func (r *ActionVendor) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	r.Vendor = d.Uint32()
	r.Data = d.Rest()

	return errors.Wrap(d.Finish(), "ofp_action_vendor_header")
}

func marshalAction(t uint16, body *openflow.Encoder) ([]byte, error) {
	v, err := body.Bytes()
	if err != nil {
		return nil, err
	}

	return openflow.MarshalItem(t, v)
}
