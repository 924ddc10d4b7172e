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

// MatchLength is the size of ofp_match of the standard match type.
const MatchLength = 88

// Match is the standard ofp_match. A field without an explicit mask is
// meaningful only when its bit in Wildcards is cleared. The address and
// metadata masks ignore the bits that are set to 1.
type Match struct {
	InPort       uint32
	Wildcards    uint32
	DLSrc        net.HardwareAddr
	DLSrcMask    net.HardwareAddr
	DLDst        net.HardwareAddr
	DLDstMask    net.HardwareAddr
	DLVLAN       uint16
	DLVLANPCP    uint8
	DLType       uint16
	NWTOS        uint8
	NWProto      uint8
	NWSrc        net.IP
	NWSrcMask    net.IP
	NWDst        net.IP
	NWDstMask    net.IP
	TPSrc        uint16
	TPDst        uint16
	MPLSLabel    uint32
	MPLSTC       uint8
	Metadata     uint64
	MetadataMask uint64
}

var (
	allMAC  = net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	allIPv4 = net.IPv4(255, 255, 255, 255).To4()
)

// NewMatch returns a Match whose fields are all wildcarded.
func NewMatch() *Match {
	return &Match{
		Wildcards:    OFPFW_ALL,
		DLSrcMask:    allMAC,
		DLDstMask:    allMAC,
		NWSrcMask:    allIPv4,
		NWDstMask:    allIPv4,
		MetadataMask: 0xffffffffffffffff,
	}
}

func (r *Match) SetInPort(port uint32) {
	r.InPort = port
	r.Wildcards &^= OFPFW_IN_PORT
}

// SetDLSrc matches the Ethernet source address exactly.
func (r *Match) SetDLSrc(mac net.HardwareAddr) {
	r.DLSrc = mac
	r.DLSrcMask = net.HardwareAddr{0, 0, 0, 0, 0, 0}
}

// SetDLDst matches the Ethernet destination address exactly.
func (r *Match) SetDLDst(mac net.HardwareAddr) {
	r.DLDst = mac
	r.DLDstMask = net.HardwareAddr{0, 0, 0, 0, 0, 0}
}

func (r *Match) SetDLVLAN(vid uint16) {
	r.DLVLAN = vid
	r.Wildcards &^= OFPFW_DL_VLAN
}

func (r *Match) SetDLVLANPCP(pcp uint8) {
	r.DLVLANPCP = pcp
	r.Wildcards &^= OFPFW_DL_VLAN_PCP
}

func (r *Match) SetDLType(etherType uint16) {
	r.DLType = etherType
	r.Wildcards &^= OFPFW_DL_TYPE
}

func (r *Match) SetNWTOS(tos uint8) {
	r.NWTOS = tos
	r.Wildcards &^= OFPFW_NW_TOS
}

func (r *Match) SetNWProto(proto uint8) {
	r.NWProto = proto
	r.Wildcards &^= OFPFW_NW_PROTO
}

// SetNWSrc matches the IPv4 source address against ip.
func (r *Match) SetNWSrc(ip *net.IPNet) {
	r.NWSrc = ip.IP
	r.NWSrcMask = invertMask(ip.Mask)
}

// SetNWDst matches the IPv4 destination address against ip.
func (r *Match) SetNWDst(ip *net.IPNet) {
	r.NWDst = ip.IP
	r.NWDstMask = invertMask(ip.Mask)
}

func (r *Match) SetTPSrc(port uint16) {
	r.TPSrc = port
	r.Wildcards &^= OFPFW_TP_SRC
}

func (r *Match) SetTPDst(port uint16) {
	r.TPDst = port
	r.Wildcards &^= OFPFW_TP_DST
}

func (r *Match) SetMPLSLabel(label uint32) {
	r.MPLSLabel = label
	r.Wildcards &^= OFPFW_MPLS_LABEL
}

func (r *Match) SetMPLSTC(tc uint8) {
	r.MPLSTC = tc
	r.Wildcards &^= OFPFW_MPLS_TC
}

// SetMetadata matches the metadata bits that are cleared in mask.
func (r *Match) SetMetadata(metadata, mask uint64) {
	r.Metadata = metadata
	r.MetadataMask = mask
}

func invertMask(mask net.IPMask) net.IP {
	if mask == nil {
		return net.IPv4zero.To4()
	}
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	v := make(net.IP, net.IPv4len)
	for i := range v {
		v[i] = ^mask[i]
	}

	return v
}

func maskedMAC(mac, mask net.HardwareAddr) net.HardwareAddr {
	if len(mask) != 6 {
		return mac
	}
	v := make(net.HardwareAddr, 6)
	if len(mac) != 6 {
		// Let the encoder report it unless every bit is ignored.
		if string(mask) == string(allMAC) {
			return v
		}
		return mac
	}
	for i := range v {
		v[i] = mac[i] &^ mask[i]
	}

	return v
}

func maskedIPv4(ip, mask net.IP) net.IP {
	m := mask.To4()
	if m == nil {
		return ip
	}
	if ip == nil {
		return nil
	}
	v := ip.To4()
	if v == nil {
		return ip
	}
	result := make(net.IP, net.IPv4len)
	for i := range result {
		result[i] = v[i] &^ m[i]
	}

	return result
}

// encode writes the canonical form of the match: values of wildcarded
// fields and masked out bits are written as zero.
func (r *Match) encode(e *openflow.Encoder) {
	w := r.Wildcards
	wild := func(bit uint32) bool {
		return w&bit != 0
	}

	e.Uint16(OFPMT_STANDARD)
	e.Uint16(MatchLength)
	if wild(OFPFW_IN_PORT) {
		e.Uint32(0)
	} else {
		e.Uint32(r.InPort)
	}
	e.Uint32(w)
	e.MAC(maskedMAC(r.DLSrc, r.DLSrcMask))
	e.MAC(r.DLSrcMask)
	e.MAC(maskedMAC(r.DLDst, r.DLDstMask))
	e.MAC(r.DLDstMask)
	if wild(OFPFW_DL_VLAN) {
		e.Uint16(0)
	} else {
		e.Uint16(r.DLVLAN)
	}
	if wild(OFPFW_DL_VLAN_PCP) {
		e.Uint8(0)
	} else {
		e.Uint8(r.DLVLANPCP)
	}
	e.Pad(1)
	if wild(OFPFW_DL_TYPE) {
		e.Uint16(0)
	} else {
		e.Uint16(r.DLType)
	}
	if wild(OFPFW_NW_TOS) {
		e.Uint8(0)
	} else {
		e.Uint8(r.NWTOS)
	}
	if wild(OFPFW_NW_PROTO) {
		e.Uint8(0)
	} else {
		e.Uint8(r.NWProto)
	}
	e.IPv4(maskedIPv4(r.NWSrc, r.NWSrcMask))
	e.IPv4(r.NWSrcMask)
	e.IPv4(maskedIPv4(r.NWDst, r.NWDstMask))
	e.IPv4(r.NWDstMask)
	if wild(OFPFW_TP_SRC) {
		e.Uint16(0)
	} else {
		e.Uint16(r.TPSrc)
	}
	if wild(OFPFW_TP_DST) {
		e.Uint16(0)
	} else {
		e.Uint16(r.TPDst)
	}
	if wild(OFPFW_MPLS_LABEL) {
		e.Uint32(0)
	} else {
		e.Uint32(r.MPLSLabel)
	}
	if wild(OFPFW_MPLS_TC) {
		e.Uint8(0)
	} else {
		e.Uint8(r.MPLSTC)
	}
	e.Pad(3)
	e.Uint64(r.Metadata &^ r.MetadataMask)
	e.Uint64(r.MetadataMask)
}

func (r *Match) decode(d *openflow.Decoder) {
	matchType := d.Uint16()
	length := d.Uint16()
	r.InPort = d.Uint32()
	r.Wildcards = d.Uint32()
	r.DLSrc = d.MAC()
	r.DLSrcMask = d.MAC()
	r.DLDst = d.MAC()
	r.DLDstMask = d.MAC()
	r.DLVLAN = d.Uint16()
	r.DLVLANPCP = d.Uint8()
	d.Skip(1)
	r.DLType = d.Uint16()
	r.NWTOS = d.Uint8()
	r.NWProto = d.Uint8()
	r.NWSrc = d.IPv4()
	r.NWSrcMask = d.IPv4()
	r.NWDst = d.IPv4()
	r.NWDstMask = d.IPv4()
	r.TPSrc = d.Uint16()
	r.TPDst = d.Uint16()
	r.MPLSLabel = d.Uint32()
	r.MPLSTC = d.Uint8()
	d.Skip(3)
	r.Metadata = d.Uint64()
	r.MetadataMask = d.Uint64()
	if d.Err() != nil {
		return
	}
	if matchType != OFPMT_STANDARD {
		d.Fail(errors.Wrapf(openflow.ErrUnknownMessageType, "match type %v", matchType))
		return
	}
	if length != MatchLength {
		d.Fail(errors.Wrapf(openflow.ErrMalformedLength, "standard match declares %v bytes", length))
	}
}

func (r *Match) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(MatchLength)
	r.encode(e)

	return e.Bytes()
}

func (r *Match) UnmarshalBinary(data []byte) error {
	d := openflow.NewDecoder(data)
	r.decode(d)

	return errors.Wrap(d.Finish(), "ofp_match")
}

// Equal reports whether r and m select the same packets: both have the same
// wildcards and masks and agree on every field that is not ignored.
func (r *Match) Equal(m *Match) bool {
	x, err := r.MarshalBinary()
	if err != nil {
		return false
	}
	y, err := m.MarshalBinary()
	if err != nil {
		return false
	}

	return string(x) == string(y)
}
