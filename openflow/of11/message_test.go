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
	"bytes"
	"encoding/binary"
	"net"
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
	m.SetNWProto(17)
	m.SetNWDst(&net.IPNet{IP: net.IPv4(10, 0, 0, 0).To4(), Mask: net.CIDRMask(24, 32)})
	m.SetTPDst(53)
	m.SetMetadata(0xabcd, 0xff00)
	return *m
}

func samplePort(n uint32) Port {
	return Port{
		Number:       n,
		MAC:          net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, byte(n)},
		Name:         "eth" + string(rune('0'+n)),
		Config:       OFPPC_NO_PACKET_IN,
		State:        OFPPS_LIVE,
		Current:      OFPPF_10GB_FD | OFPPF_FIBER,
		Advertised:   OFPPF_10GB_FD,
		Supported:    OFPPF_10GB_FD | OFPPF_1GB_FD,
		CurrentSpeed: 10000000,
		MaxSpeed:     10000000,
	}
}

func sampleMessages() []openflow.Message {
	hello := NewHello(1)
	echo := NewEchoRequest(2)
	echo.Data = []byte("ping")
	reply := NewEchoReply(3)
	reply.Data = []byte("pong")
	errMsg := &Error{}
	errMsg.Class = OFPET_BAD_INSTRUCTION
	errMsg.Code = 2
	errMsg.Data = []byte{0x02, 0x0e, 0x00, 0x98}
	experimenter := &Experimenter{Experimenter: 0x2320, Data: []byte{1, 2, 3, 4}}

	features := &FeaturesReply{
		DPID:         0x0000000000000002,
		NumBuffers:   256,
		NumTables:    4,
		Capabilities: OFPC_FLOW_STATS | OFPC_GROUP_STATS | OFPC_QUEUE_STATS,
		Ports:        []Port{samplePort(1), samplePort(2)},
	}
	getConfig := &GetConfigReply{SwitchConfig: SwitchConfig{Flags: OFPC_FRAG_REASM | OFPC_INVALID_TTL_TO_CONTROLLER, MissSendLength: 128}}
	setConfig := NewSetConfig(4)

	packetIn := &PacketIn{BufferID: 7, InPort: 3, InPhyPort: 3, TotalLength: 4, Reason: OFPR_NO_MATCH, TableID: 1, Data: []byte{0xde, 0xad, 0xbe, 0xef}}
	removed := &FlowRemoved{Cookie: 7, Priority: 100, Reason: OFPRR_GROUP_DELETE, TableID: 2, DurationSec: 10, IdleTimeout: 5, PacketCount: 9, ByteCount: 900, Match: sampleMatch()}
	status := &PortStatus{Reason: OFPPR_ADD, Desc: samplePort(3)}

	packetOut := NewPacketOut(5)
	packetOut.Actions = ActionList{&ActionPopVLAN{}, NewActionOutput(OFPP_FLOOD)}
	packetOut.Data = []byte{0xca, 0xfe}

	flowMod := NewFlowMod(6, OFPFC_ADD)
	flowMod.TableID = 1
	flowMod.Match = sampleMatch()
	flowMod.Priority = 1000
	flowMod.Flags = OFPFF_SEND_FLOW_REM | OFPFF_CHECK_OVERLAP
	flowMod.Instructions = InstructionList{
		&WriteMetadata{Metadata: 0x10, MetadataMask: 0xff},
		NewApplyActions(
			&ActionSetVLANVID{VLANID: 10},
			&ActionSetVLANPCP{Priority: 3},
			NewActionSetDLSrc(net.HardwareAddr{1, 2, 3, 4, 5, 6}),
			NewActionSetDLDst(net.HardwareAddr{6, 5, 4, 3, 2, 1}),
			NewActionSetNWSrc(net.IPv4(192, 168, 0, 1)),
			NewActionSetNWDst(net.IPv4(192, 168, 0, 2)),
			&ActionSetNWTOS{TOS: 0x20},
			&ActionSetNWECN{ECN: 1},
			&ActionSetTPSrc{Port: 1000},
			&ActionSetTPDst{Port: 2000},
			&ActionCopyTTLOut{},
			&ActionCopyTTLIn{},
			&ActionSetMPLSLabel{Label: 100},
			&ActionSetMPLSTC{TC: 2},
			&ActionSetMPLSTTL{TTL: 64},
			&ActionDecMPLSTTL{},
			&ActionPushVLAN{EtherType: 0x8100},
			&ActionPushMPLS{EtherType: 0x8847},
			&ActionPopMPLS{EtherType: 0x0800},
			&ActionSetNWTTL{TTL: 32},
			&ActionDecNWTTL{},
			&ActionExperimenter{Experimenter: 0x2320},
		),
		NewWriteActions(&ActionSetQueue{QueueID: 1}, &ActionGroup{GroupID: 5}, NewActionOutput(2)),
		&ClearActions{},
		&GotoTable{TableID: 2},
	}
	portMod := &PortMod{Number: 1, MAC: net.HardwareAddr{0, 0, 0, 0, 0, 1}, Config: OFPPC_PORT_DOWN, Mask: OFPPC_PORT_DOWN, Advertise: OFPPF_10GB_FD}
	tableMod := NewTableMod(7, 1, OFPTC_TABLE_MISS_CONTINUE)

	flowStats := &FlowStatsReply{Flows: []FlowStats{
		{TableID: 1, Match: sampleMatch(), Priority: 1, Instructions: InstructionList{NewApplyActions(NewActionOutput(1))}},
	}}
	desc := &DescStatsReply{Manufacturer: "Nicira", Hardware: "Open vSwitch", Software: "1.4.0", SerialNumber: "None", Datapath: "br0"}
	aggregate := &AggregateStatsReply{PacketCount: 10, ByteCount: 1000, FlowCount: 2}
	table := &TableStatsReply{Tables: []TableStats{{TableID: 0, Name: "classifier", Wildcards: OFPFW_ALL, Instructions: 1<<OFPIT_APPLY_ACTIONS | 1<<OFPIT_GOTO_TABLE, MaxEntries: 1000000, ActiveCount: 2, LookupCount: 30, MatchedCount: 20}}}
	portStats := &PortStatsReply{Ports: []PortStats{{PortNumber: 1, RxPackets: 1, TxPackets: 2, RxBytes: 3, TxBytes: 4, Collisions: 12}}}
	queueStats := &QueueStatsReply{Queues: []QueueStats{{PortNumber: 1, QueueID: 2, TxBytes: 3, TxPackets: 4, TxErrors: 5}}}
	experimenterReq := &ExperimenterStatsRequest{}
	experimenterReq.Experimenter = 0x2320
	experimenterReq.Data = []byte{0, 0, 0, 1}
	experimenterReply := &ExperimenterStatsReply{}
	experimenterReply.Experimenter = 0x2320
	experimenterReply.Flags = OFPSF_REPLY_MORE

	queueReply := &QueueGetConfigReply{Port: 1, Queues: []openflow.PacketQueue{
		{ID: 1, Properties: []openflow.QueueProperty{{Type: openflow.OFPQT_MIN_RATE, Rate: 500}}},
		{ID: 2},
	}}

	return []openflow.Message{
		hello, echo, reply, errMsg, experimenter,
		NewFeaturesRequest(7), features,
		NewGetConfigRequest(8), getConfig, setConfig,
		packetIn, removed, status, packetOut, flowMod, portMod, tableMod,
		NewDescStatsRequest(9), desc,
		NewFlowStatsRequest(10), flowStats,
		NewAggregateStatsRequest(11), aggregate,
		NewTableStatsRequest(12), table,
		NewPortStatsRequest(13, OFPP_ANY), portStats,
		NewQueueStatsRequest(14), queueStats,
		experimenterReq, experimenterReply,
		NewBarrierRequest(15), &BarrierReply{},
		NewQueueGetConfigRequest(16, OFPP_ANY), queueReply,
	}
}

func TestRoundTrip(t *testing.T) {
	for _, msg := range sampleMessages() {
		data, err := openflow.Encode(msg, 0xbeef)
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

func TestFlowModInstructions(t *testing.T) {
	flowMod := NewFlowMod(1, OFPFC_ADD)
	flowMod.Instructions = InstructionList{
		NewApplyActions(NewActionOutput(3)),
		&GotoTable{TableID: 1},
	}

	data, err := flowMod.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// apply actions: 8 byte header and a 16 byte output action, goto table: 8 bytes.
	expected := openflow.HeaderLength + flowModLength + 24 + 8
	if len(data) != expected {
		t.Fatalf("unexpected length: expected=%v, actual=%v", expected, len(data))
	}

	msg, err := openflow.Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded := msg.(*FlowMod)
	if len(decoded.Instructions) != 2 {
		t.Fatalf("unexpected number of instructions: expected=2, actual=%v", len(decoded.Instructions))
	}
	apply, ok := decoded.Instructions[0].(*ApplyActions)
	if !ok {
		t.Fatalf("unexpected instruction type: %T", decoded.Instructions[0])
	}
	if len(apply.Actions) != 1 {
		t.Fatalf("unexpected number of actions: expected=1, actual=%v", len(apply.Actions))
	}
	if output := apply.Actions[0].(*ActionOutput); output.Port != 3 {
		t.Fatalf("unexpected output port: expected=3, actual=%v", output.Port)
	}
	if next, ok := decoded.Instructions[1].(*GotoTable); !ok || next.TableID != 1 {
		t.Fatalf("unexpected instruction: %v", spew.Sdump(decoded.Instructions[1]))
	}
}

func TestMatchMaskEquality(t *testing.T) {
	a := NewMatch()
	a.SetDLType(0x0800)
	a.NWSrc = net.IPv4(10, 0, 0, 1)
	b := NewMatch()
	b.SetDLType(0x0800)
	b.NWSrc = net.IPv4(172, 16, 0, 1)
	if !a.Equal(b) {
		t.Fatalf("matches differing only in a fully masked nw_src are not equal")
	}

	a.SetNWSrc(&net.IPNet{IP: net.IPv4(10, 0, 0, 1), Mask: net.CIDRMask(16, 32)})
	b.SetNWSrc(&net.IPNet{IP: net.IPv4(10, 0, 99, 99), Mask: net.CIDRMask(16, 32)})
	if !a.Equal(b) {
		t.Fatalf("matches differing only in ignored address bits are not equal")
	}
	b.SetNWSrc(&net.IPNet{IP: net.IPv4(10, 1, 0, 1), Mask: net.CIDRMask(16, 32)})
	if a.Equal(b) {
		t.Fatalf("matches differing in the network part are equal")
	}

	c := NewMatch()
	c.SetMetadata(0x1234, 0x00ff)
	d := NewMatch()
	d.SetMetadata(0x12ff, 0x00ff)
	if !c.Equal(d) {
		t.Fatalf("matches differing only in ignored metadata bits are not equal")
	}
	d.SetMetadata(0x13ff, 0x00ff)
	if c.Equal(d) {
		t.Fatalf("matches differing in significant metadata bits are equal")
	}
}

func TestMatchHeader(t *testing.T) {
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

	samples := []struct {
		offset int
		value  uint16
		err    error
	}{
		{0, 1, openflow.ErrUnknownMessageType},
		{2, 80, openflow.ErrMalformedLength},
	}
	for _, v := range samples {
		corrupted := append([]byte(nil), data...)
		binary.BigEndian.PutUint16(corrupted[v.offset:], v.value)
		if err := decoded.UnmarshalBinary(corrupted); errors.Cause(err) != v.err {
			t.Fatalf("unexpected error: expected=%v, actual=%v", v.err, err)
		}
	}
}

func TestUnknownTypes(t *testing.T) {
	samples := []struct {
		name string
		data []byte
	}{
		{"group mod", []byte{Version, OFPT_GROUP_MOD, 0x00, 0x08, 0x00, 0x00, 0x00, 0x01}},
		{"message type", []byte{Version, 0x63, 0x00, 0x08, 0x00, 0x00, 0x00, 0x01}},
		{"group stats", []byte{Version, OFPT_STATS_REQUEST, 0x00, 0x10, 0x00, 0x00, 0x00, 0x01, 0x00, OFPST_GROUP, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"stats reply type", []byte{Version, OFPT_STATS_REPLY, 0x00, 0x10, 0x00, 0x00, 0x00, 0x01, 0x00, 0x63, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
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

	if _, err := UnmarshalInstructions([]byte{0x00, 0x63, 0x00, 0x08, 0, 0, 0, 0}); errors.Cause(err) != openflow.ErrUnknownMessageType {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrUnknownMessageType, err)
	}
	if _, err := UnmarshalActions([]byte{0x00, 0x63, 0x00, 0x08, 0, 0, 0, 0}); errors.Cause(err) != openflow.ErrUnknownMessageType {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrUnknownMessageType, err)
	}
}

func TestInstructionListLength(t *testing.T) {
	instructions := InstructionList{
		NewWriteActions(NewActionOutput(1), NewActionOutput(2)),
		&GotoTable{TableID: 3},
	}
	data, err := instructions.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := UnmarshalInstructions(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded, err := decoded.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, encoded) {
		t.Fatalf("unexpected instruction list: expected=%v, actual=%v", spew.Sdump(instructions), spew.Sdump(decoded))
	}

	// The goto table instruction claims more bytes than are left.
	binary.BigEndian.PutUint16(data[len(data)-6:], 16)
	if _, err := UnmarshalInstructions(data); errors.Cause(err) != openflow.ErrMalformedLength {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrMalformedLength, err)
	}
	// A declared length shorter than the minimal instruction.
	binary.BigEndian.PutUint16(data[2:], 4)
	if _, err := UnmarshalInstructions(data); errors.Cause(err) != openflow.ErrMalformedLength {
		t.Fatalf("unexpected error: expected=%v, actual=%v", openflow.ErrMalformedLength, err)
	}
}

func TestTableMod(t *testing.T) {
	data, err := NewTableMod(1, OFPTT_ALL, OFPTC_TABLE_MISS_DROP).MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != openflow.HeaderLength+8 {
		t.Fatalf("unexpected length: expected=%v, actual=%v", openflow.HeaderLength+8, len(data))
	}
	msg, err := openflow.Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded := msg.(*TableMod)
	if decoded.TableID != OFPTT_ALL || decoded.Config != OFPTC_TABLE_MISS_DROP {
		t.Fatalf("unexpected table mod: %v", spew.Sdump(decoded))
	}
}

func TestPortLayout(t *testing.T) {
	status := &PortStatus{Reason: OFPPR_DELETE, Desc: samplePort(4)}
	data, err := status.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != openflow.HeaderLength+8+PortLength {
		t.Fatalf("unexpected length: expected=%v, actual=%v", openflow.HeaderLength+8+PortLength, len(data))
	}
	// Port numbers are 32 bits wide.
	body := data[openflow.HeaderLength+8:]
	if n := binary.BigEndian.Uint32(body[0:4]); n != 4 {
		t.Fatalf("unexpected port number: expected=4, actual=%v", n)
	}
	if !bytes.Equal(body[8:14], samplePort(4).MAC) {
		t.Fatalf("unexpected hardware address: %v", net.HardwareAddr(body[8:14]))
	}
}
