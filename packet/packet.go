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

// Package packet builds synthetic Ethernet frames for test traffic and
// derives the flow match that selects a frame exactly.
package packet

import (
	"net"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/pkg/errors"
)

// Template describes a synthetic frame. NewTemplate fills in the defaults.
type Template struct {
	DLDst net.HardwareAddr
	DLSrc net.HardwareAddr
	// An 802.1Q header is inserted if VLANTagged is true.
	VLANTagged bool
	VLANID     uint16
	VLANPCP    uint8
	NWSrc      net.IP
	NWDst      net.IP
	NWTOS      uint8
	TTL        uint8
	TPSrc      uint16
	TPDst      uint16
	ICMPType   uint8
	ICMPCode   uint8
	// ARP operation, one of layers.ARPRequest and layers.ARPReply.
	ARPOp uint16
	// Total length of the frame. Shorter frames are padded with zeros.
	Length int
}

func NewTemplate() Template {
	return Template{
		DLDst:    net.HardwareAddr{0x00, 0x01, 0x02, 0x03, 0x04, 0x05},
		DLSrc:    net.HardwareAddr{0x00, 0x06, 0x07, 0x08, 0x09, 0x0a},
		NWSrc:    net.IPv4(192, 168, 0, 1).To4(),
		NWDst:    net.IPv4(192, 168, 0, 2).To4(),
		TTL:      64,
		TPSrc:    1234,
		TPDst:    80,
		ICMPType: uint8(layers.ICMPv4TypeEchoRequest),
		ARPOp:    layers.ARPRequest,
		Length:   100,
	}
}

func (r Template) link(etherType layers.EthernetType) []gopacket.SerializableLayer {
	eth := &layers.Ethernet{
		SrcMAC:       r.DLSrc,
		DstMAC:       r.DLDst,
		EthernetType: etherType,
	}
	if !r.VLANTagged {
		return []gopacket.SerializableLayer{eth}
	}

	eth.EthernetType = layers.EthernetTypeDot1Q
	return []gopacket.SerializableLayer{
		eth,
		&layers.Dot1Q{
			Priority:       r.VLANPCP,
			VLANIdentifier: r.VLANID,
			Type:           etherType,
		},
	}
}

func (r Template) ipv4(proto layers.IPProtocol) *layers.IPv4 {
	return &layers.IPv4{
		Version:  4,
		TOS:      r.NWTOS,
		TTL:      r.TTL,
		Protocol: proto,
		SrcIP:    r.NWSrc,
		DstIP:    r.NWDst,
	}
}

// serialize encodes stack with fixed lengths and checksums. Frames shorter
// than r.Length are padded with zeros after the last layer.
func (r Template) serialize(stack ...gopacket.SerializableLayer) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, stack...); err != nil {
		return nil, errors.Wrap(err, "serializing frame")
	}

	frame := buf.Bytes()
	if pad := r.Length - len(frame); pad > 0 {
		frame = append(frame, make([]byte, pad)...)
	}

	return frame, nil
}

// TCP returns an Ethernet/IPv4/TCP frame.
func (r Template) TCP() ([]byte, error) {
	ip := r.ipv4(layers.IPProtocolTCP)
	tcp := &layers.TCP{
		SrcPort: layers.TCPPort(r.TPSrc),
		DstPort: layers.TCPPort(r.TPDst),
		Window:  8192,
	}
	if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, err
	}

	return r.serialize(append(r.link(layers.EthernetTypeIPv4), ip, tcp)...)
}

// UDP returns an Ethernet/IPv4/UDP frame.
func (r Template) UDP() ([]byte, error) {
	ip := r.ipv4(layers.IPProtocolUDP)
	udp := &layers.UDP{
		SrcPort: layers.UDPPort(r.TPSrc),
		DstPort: layers.UDPPort(r.TPDst),
	}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, err
	}

	return r.serialize(append(r.link(layers.EthernetTypeIPv4), ip, udp)...)
}

// ICMP returns an Ethernet/IPv4/ICMP frame.
func (r Template) ICMP() ([]byte, error) {
	icmp := &layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(r.ICMPType, r.ICMPCode),
	}

	return r.serialize(append(r.link(layers.EthernetTypeIPv4), r.ipv4(layers.IPProtocolICMPv4), icmp)...)
}

// ARP returns an Ethernet/ARP frame asking for or announcing NWDst on behalf of NWSrc.
func (r Template) ARP() ([]byte, error) {
	src := r.NWSrc.To4()
	dst := r.NWDst.To4()
	if src == nil || dst == nil {
		return nil, errors.New("ARP needs IPv4 addresses")
	}

	target := net.HardwareAddr{0, 0, 0, 0, 0, 0}
	if r.ARPOp == layers.ARPReply {
		target = r.DLDst
	}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         r.ARPOp,
		SourceHwAddress:   r.DLSrc,
		SourceProtAddress: src,
		DstHwAddress:      target,
		DstProtAddress:    dst,
	}

	return r.serialize(append(r.link(layers.EthernetTypeARP), arp)...)
}
