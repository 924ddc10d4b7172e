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

	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/floodlight/oftest-sub001/openflow/of10"
	"github.com/floodlight/oftest-sub001/openflow/of11"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/pkg/errors"
)

// Fields are the header values of a frame that OpenFlow 1.0 and 1.1 can match on.
type Fields struct {
	DLSrc, DLDst net.HardwareAddr
	DLType       uint16
	// VLAN values are meaningful only if Tagged is true.
	Tagged  bool
	VLANID  uint16
	VLANPCP uint8
	// Network fields are meaningful only if HasNetwork is true. For ARP,
	// NWProto is the lower byte of the opcode and the addresses are the
	// sender and target protocol addresses.
	HasNetwork   bool
	NWSrc, NWDst net.IP
	NWTOS        uint8
	NWProto      uint8
	// Transport fields are meaningful only if HasTransport is true. For
	// ICMP, TPSrc is the type and TPDst is the code.
	HasTransport bool
	TPSrc, TPDst uint16
}

// Parse extracts the matchable fields of an Ethernet frame.
func Parse(frame []byte) (*Fields, error) {
	p := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.Default)
	eth, ok := p.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
	if !ok {
		if e := p.ErrorLayer(); e != nil {
			return nil, errors.Wrapf(openflow.ErrTruncatedInput, "ethernet frame: %v", e.Error())
		}
		return nil, errors.Wrap(openflow.ErrTruncatedInput, "ethernet frame")
	}

	f := &Fields{
		DLSrc:  eth.SrcMAC,
		DLDst:  eth.DstMAC,
		DLType: uint16(eth.EthernetType),
	}
	if tag, ok := p.Layer(layers.LayerTypeDot1Q).(*layers.Dot1Q); ok {
		f.Tagged = true
		f.VLANID = tag.VLANIdentifier
		f.VLANPCP = tag.Priority
		f.DLType = uint16(tag.Type)
	}

	switch l := p.NetworkLayer().(type) {
	case *layers.IPv4:
		f.HasNetwork = true
		f.NWSrc = l.SrcIP.To4()
		f.NWDst = l.DstIP.To4()
		// Only the DSCP bits are matched.
		f.NWTOS = l.TOS & 0xfc
		f.NWProto = uint8(l.Protocol)
	}
	if arp, ok := p.Layer(layers.LayerTypeARP).(*layers.ARP); ok {
		f.HasNetwork = true
		f.NWSrc = net.IP(arp.SourceProtAddress).To4()
		f.NWDst = net.IP(arp.DstProtAddress).To4()
		f.NWProto = uint8(arp.Operation)
	}

	switch l := p.TransportLayer().(type) {
	case *layers.TCP:
		f.HasTransport = true
		f.TPSrc, f.TPDst = uint16(l.SrcPort), uint16(l.DstPort)
	case *layers.UDP:
		f.HasTransport = true
		f.TPSrc, f.TPDst = uint16(l.SrcPort), uint16(l.DstPort)
	}
	if icmp, ok := p.Layer(layers.LayerTypeICMPv4).(*layers.ICMPv4); ok {
		f.HasTransport = true
		f.TPSrc = uint16(icmp.TypeCode.Type())
		f.TPDst = uint16(icmp.TypeCode.Code())
	}

	return f, nil
}

func host(ip net.IP) *net.IPNet {
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(32, 32)}
}

// FlowMatch10 returns the OpenFlow 1.0 match that selects frame received on
// inPort exactly. Fields the frame does not carry stay wildcarded.
func FlowMatch10(frame []byte, inPort uint16) (*of10.Match, error) {
	f, err := Parse(frame)
	if err != nil {
		return nil, err
	}

	m := of10.NewMatch()
	m.SetInPort(inPort)
	m.SetDLSrc(f.DLSrc)
	m.SetDLDst(f.DLDst)
	m.SetDLType(f.DLType)
	if f.Tagged {
		m.SetDLVLAN(f.VLANID)
		m.SetDLVLANPCP(f.VLANPCP)
	} else {
		m.SetDLVLAN(of10.OFP_VLAN_NONE)
	}
	if f.HasNetwork {
		m.SetNWSrc(host(f.NWSrc))
		m.SetNWDst(host(f.NWDst))
		m.SetNWProto(f.NWProto)
		if f.DLType == uint16(layers.EthernetTypeIPv4) {
			m.SetNWTOS(f.NWTOS)
		}
	}
	if f.HasTransport {
		m.SetTPSrc(f.TPSrc)
		m.SetTPDst(f.TPDst)
	}

	return m, nil
}

// FlowMatch11 is FlowMatch10 for the OpenFlow 1.1 standard match.
func FlowMatch11(frame []byte, inPort uint32) (*of11.Match, error) {
	f, err := Parse(frame)
	if err != nil {
		return nil, err
	}

	m := of11.NewMatch()
	m.SetInPort(inPort)
	m.SetDLSrc(f.DLSrc)
	m.SetDLDst(f.DLDst)
	m.SetDLType(f.DLType)
	if f.Tagged {
		m.SetDLVLAN(f.VLANID)
		m.SetDLVLANPCP(f.VLANPCP)
	} else {
		m.SetDLVLAN(of11.OFPVID_NONE)
	}
	if f.HasNetwork {
		m.SetNWSrc(host(f.NWSrc))
		m.SetNWDst(host(f.NWDst))
		m.SetNWProto(f.NWProto)
		if f.DLType == uint16(layers.EthernetTypeIPv4) {
			m.SetNWTOS(f.NWTOS)
		}
	}
	if f.HasTransport {
		m.SetTPSrc(f.TPSrc)
		m.SetTPDst(f.TPDst)
	}

	return m, nil
}
