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
	"net"

	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/pkg/errors"
)

// MatchLength is the size of ofp_match.
const MatchLength = 40

// Match is ofp_match. A field is meaningful only when its bit in Wildcards
// is cleared. The IP address wildcards are counts of ignored low-order bits.
type Match struct {
	Wildcards uint32
	InPort    uint16
	DLSrc     net.HardwareAddr
	DLDst     net.HardwareAddr
	DLVLAN    uint16
	DLVLANPCP uint8
	DLType    uint16
	NWTOS     uint8
	NWProto   uint8
	NWSrc     net.IP
	NWDst     net.IP
	TPSrc     uint16
	TPDst     uint16
}

// NewMatch returns a Match whose fields are all wildcarded.
func NewMatch() *Match {
	return &Match{
		Wildcards: OFPFW_ALL,
	}
}

func (r *Match) SetInPort(port uint16) {
	r.InPort = port
	r.Wildcards &^= OFPFW_IN_PORT
}

func (r *Match) SetDLSrc(mac net.HardwareAddr) {
	r.DLSrc = mac
	r.Wildcards &^= OFPFW_DL_SRC
}

func (r *Match) SetDLDst(mac net.HardwareAddr) {
	r.DLDst = mac
	r.Wildcards &^= OFPFW_DL_DST
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
	r.Wildcards = r.Wildcards&^OFPFW_NW_SRC_MASK | uint32(ignoredBits(ip.Mask))<<OFPFW_NW_SRC_SHIFT
}

// SetNWDst matches the IPv4 destination address against ip.
func (r *Match) SetNWDst(ip *net.IPNet) {
	r.NWDst = ip.IP
	r.Wildcards = r.Wildcards&^OFPFW_NW_DST_MASK | uint32(ignoredBits(ip.Mask))<<OFPFW_NW_DST_SHIFT
}

func (r *Match) SetTPSrc(port uint16) {
	r.TPSrc = port
	r.Wildcards &^= OFPFW_TP_SRC
}

func (r *Match) SetTPDst(port uint16) {
	r.TPDst = port
	r.Wildcards &^= OFPFW_TP_DST
}

func ignoredBits(mask net.IPMask) int {
	if mask == nil {
		return 0
	}
	ones, bits := mask.Size()
	if bits == 0 {
		// Non-canonical mask
		return 32
	}

	return 32 - ones
}

// NWSrcWildcardBits returns the number of ignored low-order bits of the source address.
func (r *Match) NWSrcWildcardBits() int {
	return int(r.Wildcards&OFPFW_NW_SRC_MASK) >> OFPFW_NW_SRC_SHIFT
}

// NWDstWildcardBits returns the number of ignored low-order bits of the destination address.
func (r *Match) NWDstWildcardBits() int {
	return int(r.Wildcards&OFPFW_NW_DST_MASK) >> OFPFW_NW_DST_SHIFT
}

func maskIPv4(ip net.IP, ignored int) net.IP {
	if ip == nil || ignored >= 32 {
		return nil
	}
	v := ip.To4()
	if v == nil {
		// Let the encoder report it.
		return ip
	}

	return v.Mask(net.CIDRMask(32-ignored, 32))
}

// encode writes the canonical form of the match: values of wildcarded
// fields and ignored address bits are written as zero.
func (r *Match) encode(e *openflow.Encoder) {
	w := r.Wildcards
	wild := func(bit uint32) bool {
		return w&bit != 0
	}

	e.Uint32(w)
	if wild(OFPFW_IN_PORT) {
		e.Uint16(0)
	} else {
		e.Uint16(r.InPort)
	}
	if wild(OFPFW_DL_SRC) {
		e.MAC(nil)
	} else {
		e.MAC(r.DLSrc)
	}
	if wild(OFPFW_DL_DST) {
		e.MAC(nil)
	} else {
		e.MAC(r.DLDst)
	}
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
	e.Pad(2)
	e.IPv4(maskIPv4(r.NWSrc, r.NWSrcWildcardBits()))
	e.IPv4(maskIPv4(r.NWDst, r.NWDstWildcardBits()))
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
}

func (r *Match) decode(d *openflow.Decoder) {
	r.Wildcards = d.Uint32()
	r.InPort = d.Uint16()
	r.DLSrc = d.MAC()
	r.DLDst = d.MAC()
	r.DLVLAN = d.Uint16()
	r.DLVLANPCP = d.Uint8()
	d.Skip(1)
	r.DLType = d.Uint16()
	r.NWTOS = d.Uint8()
	r.NWProto = d.Uint8()
	d.Skip(2)
	r.NWSrc = d.IPv4()
	r.NWDst = d.IPv4()
	r.TPSrc = d.Uint16()
	r.TPDst = d.Uint16()
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
// wildcards and agree on every field that is not wildcarded.
func (r *Match) Equal(m *Match) bool {
	x, err := r.normalized().MarshalBinary()
	if err != nil {
		return false
	}
	y, err := m.normalized().MarshalBinary()
	if err != nil {
		return false
	}

	return string(x) == string(y)
}

// normalized returns a copy of the match whose address wildcard counts are
// clamped to 32. Any count of 32 or more ignores the whole address.
func (r *Match) normalized() *Match {
	c := *r
	if c.NWSrcWildcardBits() > 32 {
		c.Wildcards = c.Wildcards&^OFPFW_NW_SRC_MASK | OFPFW_NW_SRC_ALL
	}
	if c.NWDstWildcardBits() > 32 {
		c.Wildcards = c.Wildcards&^OFPFW_NW_DST_MASK | OFPFW_NW_DST_ALL
	}

	return &c
}
