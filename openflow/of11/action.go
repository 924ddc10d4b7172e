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
	OFPAT_OUTPUT:         func() Action { return new(ActionOutput) },
	OFPAT_SET_VLAN_VID:   func() Action { return new(ActionSetVLANVID) },
	OFPAT_SET_VLAN_PCP:   func() Action { return new(ActionSetVLANPCP) },
	OFPAT_SET_DL_SRC:     func() Action { return new(ActionSetDLSrc) },
	OFPAT_SET_DL_DST:     func() Action { return new(ActionSetDLDst) },
	OFPAT_SET_NW_SRC:     func() Action { return new(ActionSetNWSrc) },
	OFPAT_SET_NW_DST:     func() Action { return new(ActionSetNWDst) },
	OFPAT_SET_NW_TOS:     func() Action { return new(ActionSetNWTOS) },
	OFPAT_SET_NW_ECN:     func() Action { return new(ActionSetNWECN) },
	OFPAT_SET_TP_SRC:     func() Action { return new(ActionSetTPSrc) },
	OFPAT_SET_TP_DST:     func() Action { return new(ActionSetTPDst) },
	OFPAT_COPY_TTL_OUT:   func() Action { return new(ActionCopyTTLOut) },
	OFPAT_COPY_TTL_IN:    func() Action { return new(ActionCopyTTLIn) },
	OFPAT_SET_MPLS_LABEL: func() Action { return new(ActionSetMPLSLabel) },
	OFPAT_SET_MPLS_TC:    func() Action { return new(ActionSetMPLSTC) },
	OFPAT_SET_MPLS_TTL:   func() Action { return new(ActionSetMPLSTTL) },
	OFPAT_DEC_MPLS_TTL:   func() Action { return new(ActionDecMPLSTTL) },
	OFPAT_PUSH_VLAN:      func() Action { return new(ActionPushVLAN) },
	OFPAT_POP_VLAN:       func() Action { return new(ActionPopVLAN) },
	OFPAT_PUSH_MPLS:      func() Action { return new(ActionPushMPLS) },
	OFPAT_POP_MPLS:       func() Action { return new(ActionPopMPLS) },
	OFPAT_SET_QUEUE:      func() Action { return new(ActionSetQueue) },
	OFPAT_GROUP:          func() Action { return new(ActionGroup) },
	OFPAT_SET_NW_TTL:     func() Action { return new(ActionSetNWTTL) },
	OFPAT_DEC_NW_TTL:     func() Action { return new(ActionDecNWTTL) },
	OFPAT_EXPERIMENTER:   func() Action { return new(ActionExperimenter) },
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

func marshalAction(t uint16, body *openflow.Encoder) ([]byte, error) {
	v, err := body.Bytes()
	if err != nil {
		return nil, err
	}

	return openflow.MarshalItem(t, v)
}

// ActionOutput sends packets out of Port. MaxLen is the number of bytes to
// send to the controller when Port is OFPP_CONTROLLER.
type ActionOutput struct {
	Port   uint32
	MaxLen uint16
}

func NewActionOutput(port uint32) *ActionOutput {
	return &ActionOutput{
		Port:   port,
		MaxLen: 0xffff,
	}
}

func (r *ActionOutput) Type() uint16 {
	return OFPAT_OUTPUT
}

func (r *ActionOutput) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(12)
	e.Uint32(r.Port)
	e.Uint16(r.MaxLen)
	e.Pad(6)
	return marshalAction(r.Type(), e)
}

func (r *ActionOutput) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	r.Port = d.Uint32()
	r.MaxLen = d.Uint16()
	d.Skip(6)

	return errors.Wrap(d.Finish(), "ofp_action_output")
}

// action16 is an action whose body is a 16-bit value and 2 bytes of padding.
type action16 struct {
	value uint16
}

func (r *action16) marshal(t uint16) ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Uint16(r.value)
	e.Pad(2)
	return marshalAction(t, e)
}

func (r *action16) unmarshal(data []byte, t uint16) error {
	d, err := openflow.UnmarshalItem(data, t)
	if err != nil {
		return err
	}
	r.value = d.Uint16()
	d.Skip(2)

	return errors.Wrapf(d.Finish(), "action type %v", t)
}

// action8 is an action whose body is an 8-bit value and 3 bytes of padding.
type action8 struct {
	value uint8
}

func (r *action8) marshal(t uint16) ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Uint8(r.value)
	e.Pad(3)
	return marshalAction(t, e)
}

func (r *action8) unmarshal(data []byte, t uint16) error {
	d, err := openflow.UnmarshalItem(data, t)
	if err != nil {
		return err
	}
	r.value = d.Uint8()
	d.Skip(3)

	return errors.Wrapf(d.Finish(), "action type %v", t)
}

// action32 is an action whose body is a single 32-bit value.
type action32 struct {
	value uint32
}

func (r *action32) marshal(t uint16) ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Uint32(r.value)
	return marshalAction(t, e)
}

func (r *action32) unmarshal(data []byte, t uint16) error {
	d, err := openflow.UnmarshalItem(data, t)
	if err != nil {
		return err
	}
	r.value = d.Uint32()

	return errors.Wrapf(d.Finish(), "action type %v", t)
}

// actionEmpty is an action without arguments.
type actionEmpty struct{}

func (r *actionEmpty) marshal(t uint16) ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Pad(4)
	return marshalAction(t, e)
}

func (r *actionEmpty) unmarshal(data []byte, t uint16) error {
	d, err := openflow.UnmarshalItem(data, t)
	if err != nil {
		return err
	}
	d.Skip(4)

	return errors.Wrapf(d.Finish(), "action type %v", t)
}

type ActionSetVLANVID struct {
	VLANID uint16
}

func (r *ActionSetVLANVID) Type() uint16 {
	return OFPAT_SET_VLAN_VID
}

func (r *ActionSetVLANVID) MarshalBinary() ([]byte, error) {
	return (&action16{r.VLANID}).marshal(r.Type())
}

func (r *ActionSetVLANVID) UnmarshalBinary(data []byte) error {
	v := action16{}
	err := v.unmarshal(data, r.Type())
	r.VLANID = v.value
	return err
}

type ActionSetVLANPCP struct {
	Priority uint8
}

func (r *ActionSetVLANPCP) Type() uint16 {
	return OFPAT_SET_VLAN_PCP
}

func (r *ActionSetVLANPCP) MarshalBinary() ([]byte, error) {
	return (&action8{r.Priority}).marshal(r.Type())
}

func (r *ActionSetVLANPCP) UnmarshalBinary(data []byte) error {
	v := action8{}
	err := v.unmarshal(data, r.Type())
	r.Priority = v.value
	return err
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
	return (&action8{r.TOS}).marshal(r.Type())
}

func (r *ActionSetNWTOS) UnmarshalBinary(data []byte) error {
	v := action8{}
	err := v.unmarshal(data, r.Type())
	r.TOS = v.value
	return err
}

type ActionSetNWECN struct {
	ECN uint8
}

func (r *ActionSetNWECN) Type() uint16 {
	return OFPAT_SET_NW_ECN
}

func (r *ActionSetNWECN) MarshalBinary() ([]byte, error) {
	return (&action8{r.ECN}).marshal(r.Type())
}

func (r *ActionSetNWECN) UnmarshalBinary(data []byte) error {
	v := action8{}
	err := v.unmarshal(data, r.Type())
	r.ECN = v.value
	return err
}

type ActionSetTPSrc struct {
	Port uint16
}

func (r *ActionSetTPSrc) Type() uint16 {
	return OFPAT_SET_TP_SRC
}

func (r *ActionSetTPSrc) MarshalBinary() ([]byte, error) {
	return (&action16{r.Port}).marshal(r.Type())
}

func (r *ActionSetTPSrc) UnmarshalBinary(data []byte) error {
	v := action16{}
	err := v.unmarshal(data, r.Type())
	r.Port = v.value
	return err
}

type ActionSetTPDst struct {
	Port uint16
}

func (r *ActionSetTPDst) Type() uint16 {
	return OFPAT_SET_TP_DST
}

func (r *ActionSetTPDst) MarshalBinary() ([]byte, error) {
	return (&action16{r.Port}).marshal(r.Type())
}

func (r *ActionSetTPDst) UnmarshalBinary(data []byte) error {
	v := action16{}
	err := v.unmarshal(data, r.Type())
	r.Port = v.value
	return err
}

type ActionCopyTTLOut struct{}

func (r *ActionCopyTTLOut) Type() uint16 {
	return OFPAT_COPY_TTL_OUT
}

func (r *ActionCopyTTLOut) MarshalBinary() ([]byte, error) {
	return (&actionEmpty{}).marshal(r.Type())
}

func (r *ActionCopyTTLOut) UnmarshalBinary(data []byte) error {
	return (&actionEmpty{}).unmarshal(data, r.Type())
}

type ActionCopyTTLIn struct{}

func (r *ActionCopyTTLIn) Type() uint16 {
	return OFPAT_COPY_TTL_IN
}

func (r *ActionCopyTTLIn) MarshalBinary() ([]byte, error) {
	return (&actionEmpty{}).marshal(r.Type())
}

func (r *ActionCopyTTLIn) UnmarshalBinary(data []byte) error {
	return (&actionEmpty{}).unmarshal(data, r.Type())
}

type ActionSetMPLSLabel struct {
	Label uint32
}

func (r *ActionSetMPLSLabel) Type() uint16 {
	return OFPAT_SET_MPLS_LABEL
}

func (r *ActionSetMPLSLabel) MarshalBinary() ([]byte, error) {
	return (&action32{r.Label}).marshal(r.Type())
}

func (r *ActionSetMPLSLabel) UnmarshalBinary(data []byte) error {
	v := action32{}
	err := v.unmarshal(data, r.Type())
	r.Label = v.value
	return err
}

type ActionSetMPLSTC struct {
	TC uint8
}

func (r *ActionSetMPLSTC) Type() uint16 {
	return OFPAT_SET_MPLS_TC
}

func (r *ActionSetMPLSTC) MarshalBinary() ([]byte, error) {
	return (&action8{r.TC}).marshal(r.Type())
}

func (r *ActionSetMPLSTC) UnmarshalBinary(data []byte) error {
	v := action8{}
	err := v.unmarshal(data, r.Type())
	r.TC = v.value
	return err
}

type ActionSetMPLSTTL struct {
	TTL uint8
}

func (r *ActionSetMPLSTTL) Type() uint16 {
	return OFPAT_SET_MPLS_TTL
}

func (r *ActionSetMPLSTTL) MarshalBinary() ([]byte, error) {
	return (&action8{r.TTL}).marshal(r.Type())
}

func (r *ActionSetMPLSTTL) UnmarshalBinary(data []byte) error {
	v := action8{}
	err := v.unmarshal(data, r.Type())
	r.TTL = v.value
	return err
}

type ActionDecMPLSTTL struct{}

func (r *ActionDecMPLSTTL) Type() uint16 {
	return OFPAT_DEC_MPLS_TTL
}

func (r *ActionDecMPLSTTL) MarshalBinary() ([]byte, error) {
	return (&actionEmpty{}).marshal(r.Type())
}

func (r *ActionDecMPLSTTL) UnmarshalBinary(data []byte) error {
	return (&actionEmpty{}).unmarshal(data, r.Type())
}

type ActionPushVLAN struct {
	EtherType uint16
}

func (r *ActionPushVLAN) Type() uint16 {
	return OFPAT_PUSH_VLAN
}

func (r *ActionPushVLAN) MarshalBinary() ([]byte, error) {
	return (&action16{r.EtherType}).marshal(r.Type())
}

func (r *ActionPushVLAN) UnmarshalBinary(data []byte) error {
	v := action16{}
	err := v.unmarshal(data, r.Type())
	r.EtherType = v.value
	return err
}

type ActionPopVLAN struct{}

func (r *ActionPopVLAN) Type() uint16 {
	return OFPAT_POP_VLAN
}

func (r *ActionPopVLAN) MarshalBinary() ([]byte, error) {
	return (&actionEmpty{}).marshal(r.Type())
}

func (r *ActionPopVLAN) UnmarshalBinary(data []byte) error {
	return (&actionEmpty{}).unmarshal(data, r.Type())
}

type ActionPushMPLS struct {
	EtherType uint16
}

func (r *ActionPushMPLS) Type() uint16 {
	return OFPAT_PUSH_MPLS
}

func (r *ActionPushMPLS) MarshalBinary() ([]byte, error) {
	return (&action16{r.EtherType}).marshal(r.Type())
}

func (r *ActionPushMPLS) UnmarshalBinary(data []byte) error {
	v := action16{}
	err := v.unmarshal(data, r.Type())
	r.EtherType = v.value
	return err
}

// ActionPopMPLS pops the outer MPLS tag. EtherType is the type of the payload.
type ActionPopMPLS struct {
	EtherType uint16
}

func (r *ActionPopMPLS) Type() uint16 {
	return OFPAT_POP_MPLS
}

func (r *ActionPopMPLS) MarshalBinary() ([]byte, error) {
	return (&action16{r.EtherType}).marshal(r.Type())
}

func (r *ActionPopMPLS) UnmarshalBinary(data []byte) error {
	v := action16{}
	err := v.unmarshal(data, r.Type())
	r.EtherType = v.value
	return err
}

type ActionSetQueue struct {
	QueueID uint32
}

func (r *ActionSetQueue) Type() uint16 {
	return OFPAT_SET_QUEUE
}

func (r *ActionSetQueue) MarshalBinary() ([]byte, error) {
	return (&action32{r.QueueID}).marshal(r.Type())
}

func (r *ActionSetQueue) UnmarshalBinary(data []byte) error {
	v := action32{}
	err := v.unmarshal(data, r.Type())
	r.QueueID = v.value
	return err
}

type ActionGroup struct {
	GroupID uint32
}

func (r *ActionGroup) Type() uint16 {
	return OFPAT_GROUP
}

func (r *ActionGroup) MarshalBinary() ([]byte, error) {
	return (&action32{r.GroupID}).marshal(r.Type())
}

func (r *ActionGroup) UnmarshalBinary(data []byte) error {
	v := action32{}
	err := v.unmarshal(data, r.Type())
	r.GroupID = v.value
	return err
}

type ActionSetNWTTL struct {
	TTL uint8
}

func (r *ActionSetNWTTL) Type() uint16 {
	return OFPAT_SET_NW_TTL
}

func (r *ActionSetNWTTL) MarshalBinary() ([]byte, error) {
	return (&action8{r.TTL}).marshal(r.Type())
}

func (r *ActionSetNWTTL) UnmarshalBinary(data []byte) error {
	v := action8{}
	err := v.unmarshal(data, r.Type())
	r.TTL = v.value
	return err
}

type ActionDecNWTTL struct{}

func (r *ActionDecNWTTL) Type() uint16 {
	return OFPAT_DEC_NW_TTL
}

func (r *ActionDecNWTTL) MarshalBinary() ([]byte, error) {
	return (&actionEmpty{}).marshal(r.Type())
}

func (r *ActionDecNWTTL) UnmarshalBinary(data []byte) error {
	return (&actionEmpty{}).unmarshal(data, r.Type())
}

// ActionExperimenter carries experimenter defined data. The length of Data
// should keep the action a multiple of 8 bytes long.
type ActionExperimenter struct {
	Experimenter uint32
	Data         []byte
}

func (r *ActionExperimenter) Type() uint16 {
	return OFPAT_EXPERIMENTER
}

func (r *ActionExperimenter) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(4 + len(r.Data))
	e.Uint32(r.Experimenter)
	e.Raw(r.Data)
	return marshalAction(r.Type(), e)
}

func (r *ActionExperimenter) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	r.Experimenter = d.Uint32()
	r.Data = d.Rest()

	return errors.Wrap(d.Finish(), "ofp_action_experimenter_header")
}
