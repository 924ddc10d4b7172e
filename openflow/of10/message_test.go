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
	"bytes"
	"encoding/binary"
	"net"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/pkg/errors"
)

func sampleMatch() Match {
	m := NewMatch()
	m.SetInPort(1)
	m.SetDLSrc(net.HardwareAddr{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})
	m.SetDLType(0x0800)
	m.SetNWProto(6)
	m.SetNWDst(&net.IPNet{IP: net.IPv4(10, 0, 0, 0).To4(), Mask: net.CIDRMask(24, 32)})
	m.SetTPDst(80)
	return *m
}

func samplePort(n uint16) Port {
	return Port{
		Number:     n,
		MAC:        net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, byte(n)},
		Name:       "eth" + string(rune('0'+n)),
		Config:     OFPPC_NO_FLOOD,
		State:      OFPPS_STP_FORWARD,
		Current:    OFPPF_1GB_FD | OFPPF_COPPER,
		Advertised: OFPPF_1GB_FD,
		Supported:  OFPPF_1GB_FD | OFPPF_100MB_FD,
	}
}

func sampleMessages() []openflow.Message {
	hello := NewHello(1)
	echo := NewEchoRequest(2)
	echo.Data = []byte("ping")
	reply := NewEchoReply(3)
	reply.Data = []byte("pong")
	errMsg := &Error{}
	errMsg.Class = OFPET_BAD_REQUEST
	errMsg.Code = 1
	errMsg.Data = []byte{0x01, 0x0e, 0x00, 0x48}
	vendor := &Vendor{}
	vendor.Vendor = 0x2320
	vendor.Data = []byte{1, 2, 3, 4, 5, 6, 7, 8}

	features := &FeaturesReply{
		DPID:         0x0000000000000001,
		NumBuffers:   256,
		NumTables:    2,
		Capabilities: OFPC_FLOW_STATS | OFPC_TABLE_STATS | OFPC_PORT_STATS,
		Actions:      1<<OFPAT_OUTPUT | 1<<OFPAT_SET_DL_SRC,
		Ports:        []Port{samplePort(1), samplePort(2)},
	}
	getConfig := &GetConfigReply{SwitchConfig: SwitchConfig{Flags: OFPC_FRAG_DROP, MissSendLength: 128}}
	setConfig := NewSetConfig(4)

	packetIn := &PacketIn{BufferID: OFP_NO_BUFFER, TotalLength: 4, InPort: 3, Reason: OFPR_ACTION, Data: []byte{0xde, 0xad, 0xbe, 0xef}}
	removed := &FlowRemoved{Match: sampleMatch(), Cookie: 7, Priority: 100, Reason: OFPRR_DELETE, DurationSec: 10, IdleTimeout: 5, PacketCount: 9, ByteCount: 900}
	status := &PortStatus{Reason: OFPPR_MODIFY, Desc: samplePort(3)}

	packetOut := NewPacketOut(5)
	packetOut.Actions = ActionList{NewActionOutput(OFPP_FLOOD)}
	packetOut.Data = []byte{0xca, 0xfe}

	flowMod := NewFlowMod(6, OFPFC_ADD)
	flowMod.Match = sampleMatch()
	flowMod.Priority = 1000
	flowMod.Flags = OFPFF_SEND_FLOW_REM
	flowMod.Actions = ActionList{
		&ActionSetVLANVID{VLANID: 10},
		&ActionSetVLANPCP{Priority: 3},
		&ActionStripVLAN{},
		NewActionSetDLSrc(net.HardwareAddr{1, 2, 3, 4, 5, 6}),
		NewActionSetDLDst(net.HardwareAddr{6, 5, 4, 3, 2, 1}),
		NewActionSetNWSrc(net.IPv4(192, 168, 0, 1)),
		NewActionSetNWDst(net.IPv4(192, 168, 0, 2)),
		&ActionSetNWTOS{TOS: 0x20},
		NewActionSetTPSrc(1000),
		NewActionSetTPDst(2000),
		&ActionEnqueue{Port: 2, QueueID: 1},
		&ActionVendor{Vendor: 0x2320, Data: []byte{0, 0, 0, 0}},
		NewActionOutput(2),
	}
	portMod := &PortMod{Number: 1, MAC: net.HardwareAddr{0, 0, 0, 0, 0, 1}, Config: OFPPC_PORT_DOWN, Mask: OFPPC_PORT_DOWN}

	flowStats := &FlowStatsReply{Flows: []FlowStats{
		{TableID: 0, Match: sampleMatch(), Priority: 1, Actions: ActionList{NewActionOutput(1)}},
	}}
	desc := &DescStatsReply{Manufacturer: "Nicira", Hardware: "Open vSwitch", Software: "1.4.0", SerialNumber: "None", Datapath: "br0"}
	aggregate := &AggregateStatsReply{PacketCount: 10, ByteCount: 1000, FlowCount: 2}
	table := &TableStatsReply{Tables: []TableStats{{TableID: 0, Name: "classifier", Wildcards: OFPFW_ALL, MaxEntries: 1000000, ActiveCount: 2, LookupCount: 30, MatchedCount: 20}}}
	portStats := &PortStatsReply{Ports: []PortStats{{PortNumber: 1, RxPackets: 1, TxPackets: 2, RxBytes: 3, TxBytes: 4, Collisions: 12}}}
	queueStats := &QueueStatsReply{Queues: []QueueStats{{PortNumber: 1, QueueID: 2, TxBytes: 3, TxPackets: 4, TxErrors: 5}}}
	vendorReq := &VendorStatsRequest{}
	vendorReq.Vendor = 0x2320
	vendorReq.Data = []byte{0, 0, 0, 1}
	vendorReply := &VendorStatsReply{}
	vendorReply.Vendor = 0x2320
	vendorReply.Flags = OFPSF_REPLY_MORE

	queueReply := &QueueGetConfigReply{Port: 1, Queues: []openflow.PacketQueue{
		{ID: 1, Properties: []openflow.QueueProperty{{Type: openflow.OFPQT_MIN_RATE, Rate: 100}}},
	}}

	return []openflow.Message{
		hello, echo, reply, errMsg, vendor,
		NewFeaturesRequest(7), features,
		NewGetConfigRequest(8), getConfig, setConfig,
		packetIn, removed, status, packetOut, flowMod, portMod,
		NewDescStatsRequest(9), desc,
		NewFlowStatsRequest(10), flowStats,
		NewAggregateStatsRequest(11), aggregate,
		NewTableStatsRequest(12), table,
		NewPortStatsRequest(13, OFPP_NONE), portStats,
		NewQueueStatsRequest(14), queueStats,
		vendorReq, vendorReply,
		NewBarrierRequest(15), &BarrierReply{},
		NewQueueGetConfigRequest(16, 1), queueReply,
	}
}

func TestRoundTrip(t *testing.T) {
	for _, msg := range sampleMessages() {
		data, err := openflow.Encode(msg, 0xcafe)
		if err != nil {
			t.Fatalf("failed to encode %T: %v", msg, err)
		}
		if length := binary.BigEndian.Uint16(data[2:4]); int(length) != len(data) {
			t.Fatalf("unexpected length of %T: expected=%v, actual=%v", msg, len(data), length)
		}
		if data[0] != Version {
			t.Fatalf("unexpected version of %T: %#x", msg, data[0])
		}

		decoded, err := openflow.Decode(data)
		if err != nil {
			t.Fatalf("failed to decode %T: %v", msg, err)
		}
		if !openflow.Equal(msg, decoded) {
			t.Fatalf("unexpected decoded message: expected=%v, actual=%v", spew.Sdump(msg), spew.Sdump(decoded))
		}
		if decoded.TransactionID() != 0xcafe {
			t.Fatalf("unexpected xid of %T: %v", msg, decoded.TransactionID())
		}
	}
}

func TestTruncation(t *testing.T) {
	for _, msg := range sampleMessages() {
		data, err := openflow.Encode(msg, 1)
		if err != nil {
			t.Fatalf("failed to encode %T: %v", msg, err)
		}

		for i := 0; i < len(data); i++ {
			decoded, err := openflow.Decode(data[:i])
			cause := errors.Cause(err)
			if cause != openflow.ErrTruncatedInput && cause != openflow.ErrMalformedLength {
				t.Fatalf("%T truncated to %v bytes: unexpected error: %v", msg, i, err)
			}
			if decoded != nil {
				t.Fatalf("%T truncated to %v bytes: unexpected message: %v", msg, i, openflow.Dump(decoded))
			}
		}
	}
}

func TestFlowModOutputAction(t *testing.T) {
	flowMod := NewFlowMod(1, OFPFC_ADD)
	flowMod.Actions = ActionList{NewActionOutput(3)}

	data, err := flowMod.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg, err := openflow.Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, ok := msg.(*FlowMod)
	if !ok {
		t.Fatalf("unexpected message type: %T", msg)
	}

	expected := openflow.HeaderLength + flowModLength + 8
	if int(decoded.Header().Length) != expected {
		t.Fatalf("unexpected length: expected=%v, actual=%v", expected, decoded.Header().Length)
	}
	if len(decoded.Actions) != 1 {
		t.Fatalf("unexpected number of actions: expected=1, actual=%v", len(decoded.Actions))
	}
	output, ok := decoded.Actions[0].(*ActionOutput)
	if !ok {
		t.Fatalf("unexpected action type: %T", decoded.Actions[0])
	}
	if output.Port != 3 {
		t.Fatalf("unexpected output port: expected=3, actual=%v", output.Port)
	}
}

func TestFeaturesReplyTruncated(t *testing.T) {
	features := &FeaturesReply{DPID: 1, Ports: []Port{samplePort(1), samplePort(2)}}
	data, err := features.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != openflow.HeaderLength+24+2*PortLength {
		t.Fatalf("unexpected length: %v", len(data))
	}

	msg, err := openflow.Decode(data[:len(data)-1])
	if errors.Cause(err) != openflow.ErrTruncatedInput {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrTruncatedInput, err)
	}
	if msg != nil {
		t.Fatalf("unexpected message: %v", openflow.Dump(msg))
	}

	// A header that agrees with the shortened buffer leaves a fractional port.
	binary.BigEndian.PutUint16(data[2:4], uint16(len(data)-1))
	if _, err := openflow.Decode(data[:len(data)-1]); errors.Cause(err) != openflow.ErrMalformedLength {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrMalformedLength, err)
	}
}

func TestMatchWildcardEquality(t *testing.T) {
	a := NewMatch()
	a.SetDLType(0x0800)
	a.NWSrc = net.IPv4(10, 0, 0, 1)
	b := NewMatch()
	b.SetDLType(0x0800)
	b.NWSrc = net.IPv4(192, 168, 1, 1)
	if !a.Equal(b) {
		t.Fatalf("matches differing only in a wildcarded nw_src are not equal")
	}

	// Exact in one and wildcarded in the other.
	a.SetNWSrc(&net.IPNet{IP: net.IPv4(10, 0, 0, 1), Mask: net.CIDRMask(32, 32)})
	if a.Equal(b) {
		t.Fatalf("exact nw_src equals a wildcarded nw_src")
	}

	// Only the ignored low-order bits differ.
	b.SetNWSrc(&net.IPNet{IP: net.IPv4(10, 0, 0, 200), Mask: net.CIDRMask(24, 32)})
	a.SetNWSrc(&net.IPNet{IP: net.IPv4(10, 0, 0, 1), Mask: net.CIDRMask(24, 32)})
	if !a.Equal(b) {
		t.Fatalf("matches differing only in ignored address bits are not equal")
	}
	b.SetNWSrc(&net.IPNet{IP: net.IPv4(10, 0, 1, 200), Mask: net.CIDRMask(24, 32)})
	if a.Equal(b) {
		t.Fatalf("matches differing in the network part are equal")
	}

	// A count of 63 from OFPFW_ALL and 32 from a /0 mask both ignore the whole address.
	all := NewMatch()
	all.NWSrc = net.IPv4(1, 2, 3, 4)
	all.NWDst = net.IPv4(1, 2, 3, 4)
	zero := NewMatch()
	zero.SetNWSrc(&net.IPNet{IP: net.IPv4(5, 6, 7, 8), Mask: net.CIDRMask(0, 32)})
	zero.SetNWDst(&net.IPNet{IP: net.IPv4(5, 6, 7, 8), Mask: net.CIDRMask(0, 32)})
	if all.NWSrcWildcardBits() == zero.NWSrcWildcardBits() {
		t.Fatalf("unexpected nw_src wildcard bits: both are %v", all.NWSrcWildcardBits())
	}
	if !all.Equal(zero) || !zero.Equal(all) {
		t.Fatalf("fully wildcarded addresses are not equal: %#x vs %#x", all.Wildcards, zero.Wildcards)
	}
	// The wire form keeps the original count.
	data, err := all.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded := Match{}
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Wildcards != OFPFW_ALL {
		t.Fatalf("unexpected wildcards: expected=%#x, actual=%#x", uint32(OFPFW_ALL), decoded.Wildcards)
	}
}

func TestMatchLength(t *testing.T) {
	m := sampleMatch()
	data, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != MatchLength {
		t.Fatalf("unexpected length: expected=%v, actual=%v", MatchLength, len(data))
	}

	decoded := Match{}
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decoded.Equal(&m) {
		t.Fatalf("unexpected match: expected=%v, actual=%v", spew.Sdump(m), spew.Sdump(decoded))
	}
	if decoded.NWDstWildcardBits() != 8 {
		t.Fatalf("unexpected nw_dst wildcard bits: expected=8, actual=%v", decoded.NWDstWildcardBits())
	}
	if err := decoded.UnmarshalBinary(data[:MatchLength-1]); errors.Cause(err) != openflow.ErrTruncatedInput {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrTruncatedInput, err)
	}
}

func TestFlowStatsReplyEntries(t *testing.T) {
	reply := &FlowStatsReply{Flows: []FlowStats{
		{TableID: 0, Match: *NewMatch(), Priority: 1},
		{TableID: 0, Match: sampleMatch(), Priority: 2, Actions: ActionList{NewActionOutput(1)}},
		{TableID: 1, Match: sampleMatch(), Priority: 3, Actions: ActionList{
			NewActionSetDLDst(net.HardwareAddr{1, 2, 3, 4, 5, 6}),
			&ActionEnqueue{Port: 1, QueueID: 7},
			NewActionOutput(OFPP_CONTROLLER),
		}},
	}}
	data, err := openflow.Encode(reply, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The entries start after the header and the stats type and flags.
	body := data[openflow.HeaderLength+4:]
	expected := []int{flowStatsLength, flowStatsLength + 8, flowStatsLength + 16 + 16 + 8}
	for i, length := range expected {
		if declared := int(binary.BigEndian.Uint16(body[0:2])); declared != length {
			t.Fatalf("unexpected length of entry %v: expected=%v, actual=%v", i, length, declared)
		}
		body = body[length:]
	}
	if len(body) != 0 {
		t.Fatalf("unexpected leftover: %v bytes", len(body))
	}

	msg, err := openflow.Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded := msg.(*FlowStatsReply)
	if len(decoded.Flows) != 3 {
		t.Fatalf("unexpected number of entries: expected=3, actual=%v", len(decoded.Flows))
	}
	for i, v := range decoded.Flows {
		if len(v.Actions) != len(reply.Flows[i].Actions) {
			t.Fatalf("unexpected number of actions in entry %v: expected=%v, actual=%v", i, len(reply.Flows[i].Actions), len(v.Actions))
		}
		if v.Priority != reply.Flows[i].Priority {
			t.Fatalf("unexpected priority of entry %v: expected=%v, actual=%v", i, reply.Flows[i].Priority, v.Priority)
		}
	}
}

func TestUnknownTypes(t *testing.T) {
	samples := []struct {
		name string
		data []byte
	}{
		{"message type", []byte{Version, 0x63, 0x00, 0x08, 0x00, 0x00, 0x00, 0x01}},
		{"stats request type", []byte{Version, OFPT_STATS_REQUEST, 0x00, 0x0c, 0x00, 0x00, 0x00, 0x01, 0x00, 0x63, 0x00, 0x00}},
		{"stats reply type", []byte{Version, OFPT_STATS_REPLY, 0x00, 0x0c, 0x00, 0x00, 0x00, 0x01, 0x00, 0x63, 0x00, 0x00}},
	}

	for _, v := range samples {
		msg, err := openflow.Decode(v.data)
		if errors.Cause(err) != openflow.ErrUnknownMessageType {
			t.Fatalf("%v: unexpected error: expected=%v, actual=%v", v.name, openflow.ErrUnknownMessageType, err)
		}
		if msg != nil {
			t.Fatalf("%v: unexpected message: %v", v.name, openflow.Dump(msg))
		}
	}
}

func TestUnknownAction(t *testing.T) {
	// Type 0x63 is not an OpenFlow 1.0 action.
	if _, err := UnmarshalActions([]byte{0x00, 0x63, 0x00, 0x08, 0, 0, 0, 0}); errors.Cause(err) != openflow.ErrUnknownMessageType {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrUnknownMessageType, err)
	}
}

func TestActionListRoundTrip(t *testing.T) {
	actions := ActionList{
		NewActionSetNWSrc(net.IPv4(1, 2, 3, 4)),
		NewActionOutput(1),
		&ActionStripVLAN{},
		NewActionOutput(2),
	}
	data, err := actions.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := UnmarshalActions(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded, err := decoded.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, encoded) {
		t.Fatalf("unexpected action list: expected=%v, actual=%v", spew.Sdump(actions), spew.Sdump(decoded))
	}
	for i, v := range decoded {
		if v.Type() != actions[i].Type() {
			t.Fatalf("unexpected type of action %v: expected=%v, actual=%v", i, actions[i].Type(), v.Type())
		}
	}

	// An action declaring more bytes than the list holds.
	data[len(data)-5] = 0x10
	if _, err := UnmarshalActions(data); errors.Cause(err) != openflow.ErrMalformedLength {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrMalformedLength, err)
	}
}

func TestPacketOutActionsLength(t *testing.T) {
	packetOut := NewPacketOut(1)
	packetOut.Actions = ActionList{NewActionOutput(1)}
	data, err := packetOut.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// actions_len is at offset 6 of the body.
	binary.BigEndian.PutUint16(data[openflow.HeaderLength+6:], 64)
	if _, err := openflow.Decode(data); errors.Cause(err) != openflow.ErrMalformedLength {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrMalformedLength, err)
	}
}

func TestTrailingData(t *testing.T) {
	data, err := NewBarrierRequest(1).MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data = append(data, 0x00, 0x00)
	binary.BigEndian.PutUint16(data[2:4], uint16(len(data)))
	if _, err := openflow.Decode(data); errors.Cause(err) != openflow.ErrTrailingData {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrTrailingData, err)
	}
}

func TestStatsMore(t *testing.T) {
	reply := &PortStatsReply{}
	if reply.More() {
		t.Fatalf("unexpected more flag")
	}
	reply.Flags = OFPSF_REPLY_MORE
	data, err := reply.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg, err := openflow.Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !msg.(*PortStatsReply).More() {
		t.Fatalf("more flag is lost")
	}
}

func TestPortState(t *testing.T) {
	p := samplePort(1)
	if p.IsPortDown() || p.IsLinkDown() {
		t.Fatalf("unexpected port state: %v", spew.Sdump(p))
	}
	p.Config |= OFPPC_PORT_DOWN
	p.State |= OFPPS_LINK_DOWN
	if !p.IsPortDown() || !p.IsLinkDown() {
		t.Fatalf("unexpected port state: %v", spew.Sdump(p))
	}
}

func TestDumpFlowMod(t *testing.T) {
	msg := NewFlowMod(1, OFPFC_ADD)
	msg.Match = sampleMatch()
	msg.Actions = ActionList{
		NewActionOutput(3),
		NewActionSetDLDst(net.HardwareAddr{0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f}),
	}

	dump := openflow.Dump(msg)
	samples := []string{
		"(*of10.FlowMod)(",
		"Match: (of10.Match)",
		"Actions: (of10.ActionList) (len=2)",
		// Items of the list are nested one level below the list itself.
		"\n        (*of10.ActionOutput)(",
		"\n        (*of10.ActionSetDLDst)(",
	}
	for _, v := range samples {
		if !strings.Contains(dump, v) {
			t.Fatalf("missing %q in the dump:\n%v", v, dump)
		}
	}
	output := strings.Index(dump, "(*of10.ActionOutput)")
	setDLDst := strings.Index(dump, "(*of10.ActionSetDLDst)")
	if output > setDLDst {
		t.Fatalf("unexpected action order in the dump:\n%v", dump)
	}
}
