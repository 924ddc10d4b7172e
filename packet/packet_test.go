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

package packet

import (
	"net"
	"testing"

	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/floodlight/oftest-sub001/openflow/of10"
	"github.com/floodlight/oftest-sub001/openflow/of11"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gopacket/gopacket/layers"
	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	tagged := NewTemplate()
	tagged.VLANTagged = true
	tagged.VLANID = 100
	tagged.VLANPCP = 5
	tagged.NWTOS = 0xa3

	samples := []struct {
		name     string
		build    func(Template) ([]byte, error)
		template Template
		expected Fields
	}{
		{
			name:     "tcp",
			build:    Template.TCP,
			template: NewTemplate(),
			expected: Fields{
				DLSrc: NewTemplate().DLSrc, DLDst: NewTemplate().DLDst, DLType: 0x0800,
				HasNetwork: true, NWSrc: net.IPv4(192, 168, 0, 1).To4(), NWDst: net.IPv4(192, 168, 0, 2).To4(), NWProto: 6,
				HasTransport: true, TPSrc: 1234, TPDst: 80,
			},
		},
		{
			name:     "tagged udp",
			build:    Template.UDP,
			template: tagged,
			expected: Fields{
				DLSrc: NewTemplate().DLSrc, DLDst: NewTemplate().DLDst, DLType: 0x0800,
				Tagged: true, VLANID: 100, VLANPCP: 5,
				HasNetwork: true, NWSrc: net.IPv4(192, 168, 0, 1).To4(), NWDst: net.IPv4(192, 168, 0, 2).To4(), NWTOS: 0xa0, NWProto: 17,
				HasTransport: true, TPSrc: 1234, TPDst: 80,
			},
		},
		{
			name:     "icmp",
			build:    Template.ICMP,
			template: NewTemplate(),
			expected: Fields{
				DLSrc: NewTemplate().DLSrc, DLDst: NewTemplate().DLDst, DLType: 0x0800,
				HasNetwork: true, NWSrc: net.IPv4(192, 168, 0, 1).To4(), NWDst: net.IPv4(192, 168, 0, 2).To4(), NWProto: 1,
				HasTransport: true, TPSrc: 8, TPDst: 0,
			},
		},
		{
			name:     "arp",
			build:    Template.ARP,
			template: NewTemplate(),
			expected: Fields{
				DLSrc: NewTemplate().DLSrc, DLDst: NewTemplate().DLDst, DLType: 0x0806,
				HasNetwork: true, NWSrc: net.IPv4(192, 168, 0, 1).To4(), NWDst: net.IPv4(192, 168, 0, 2).To4(), NWProto: 1,
			},
		},
	}

	for _, v := range samples {
		frame, err := v.build(v.template)
		if err != nil {
			t.Fatalf("%v: failed to build a frame: %v", v.name, err)
		}
		if len(frame) != v.template.Length {
			t.Fatalf("%v: unexpected frame length: expected=%v, actual=%v", v.name, v.template.Length, len(frame))
		}
		fields, err := Parse(frame)
		if err != nil {
			t.Fatalf("%v: failed to parse the frame: %v", v.name, err)
		}
		if diff := cmp.Diff(v.expected, *fields, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("%v: unexpected fields (-expected +actual):\n%v", v.name, diff)
		}
	}
}

func TestParseTruncated(t *testing.T) {
	if _, err := Parse([]byte{0x00, 0x01, 0x02}); errors.Cause(err) != openflow.ErrTruncatedInput {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrTruncatedInput, err)
	}
}

func TestFlowMatch10(t *testing.T) {
	frame, err := NewTemplate().TCP()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	match, err := FlowMatch10(frame, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := of10.NewMatch()
	expected.SetInPort(3)
	expected.SetDLSrc(NewTemplate().DLSrc)
	expected.SetDLDst(NewTemplate().DLDst)
	expected.SetDLVLAN(of10.OFP_VLAN_NONE)
	expected.SetDLType(0x0800)
	expected.SetNWTOS(0)
	expected.SetNWProto(6)
	expected.SetNWSrc(&net.IPNet{IP: net.IPv4(192, 168, 0, 1), Mask: net.CIDRMask(32, 32)})
	expected.SetNWDst(&net.IPNet{IP: net.IPv4(192, 168, 0, 2), Mask: net.CIDRMask(32, 32)})
	expected.SetTPSrc(1234)
	expected.SetTPDst(80)
	if !match.Equal(expected) {
		t.Fatalf("unexpected match: expected=%v, actual=%v", spew.Sdump(expected), spew.Sdump(match))
	}
	if match.Wildcards&of10.OFPFW_DL_VLAN_PCP == 0 {
		t.Fatalf("vlan pcp of an untagged frame is not wildcarded")
	}

	// A different source port must not match.
	other := NewTemplate()
	other.TPSrc = 4321
	frame, err = other.TCP()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m, _ := FlowMatch10(frame, 3); m.Equal(expected) {
		t.Fatalf("different source ports produce equal matches")
	}
}

func TestFlowMatch11(t *testing.T) {
	template := NewTemplate()
	template.VLANTagged = true
	template.VLANID = 7
	frame, err := template.UDP()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	match, err := FlowMatch11(frame, 0x10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	samples := []struct {
		name     string
		expected interface{}
		actual   interface{}
	}{
		{"in_port", uint32(0x10), match.InPort},
		{"dl_vlan", uint16(7), match.DLVLAN},
		{"dl_type", uint16(layers.EthernetTypeIPv4), match.DLType},
		{"nw_proto", uint8(layers.IPProtocolUDP), match.NWProto},
		{"tp_dst", uint16(80), match.TPDst},
		{"nw_src_mask", net.IP{0, 0, 0, 0}, match.NWSrcMask},
		{"dl_src_mask", net.HardwareAddr{0, 0, 0, 0, 0, 0}, match.DLSrcMask},
	}
	for _, v := range samples {
		if diff := cmp.Diff(v.expected, v.actual); diff != "" {
			t.Fatalf("unexpected %v (-expected +actual):\n%v", v.name, diff)
		}
	}
	if match.Wildcards&(of11.OFPFW_MPLS_LABEL|of11.OFPFW_MPLS_TC) != of11.OFPFW_MPLS_LABEL|of11.OFPFW_MPLS_TC {
		t.Fatalf("unexpected MPLS wildcards: %#x", match.Wildcards)
	}

	// Round trip through the wire form keeps the match.
	data, err := match.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded := of11.Match{}
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decoded.Equal(match) {
		t.Fatalf("unexpected match: expected=%v, actual=%v", spew.Sdump(match), spew.Sdump(decoded))
	}
}
