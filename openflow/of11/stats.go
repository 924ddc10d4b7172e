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
	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/pkg/errors"
)

// StatsHeader is the common part of STATS_REQUEST and STATS_REPLY messages.
type StatsHeader struct {
	openflow.BaseMessage
	// Bitmap of OFPSF_* flags
	Flags uint16
}

// More reports whether more replies of the same transaction follow this one.
func (r *StatsHeader) More() bool {
	return r.Flags&OFPSF_REPLY_MORE != 0
}

func (r *StatsHeader) marshalStats(msgType uint8, statsType uint16, body []byte) ([]byte, error) {
	e := openflow.NewEncoder(8 + len(body))
	e.Uint16(statsType)
	e.Uint16(r.Flags)
	e.Pad(4)
	e.Raw(body)
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, msgType, payload)
}

// unmarshalStats validates the envelope and the stats type of data and returns
// a decoder positioned at the type specific body.
func (r *StatsHeader) unmarshalStats(data []byte, msgType uint8, statsType uint16) (*openflow.Decoder, error) {
	payload, err := r.Unmarshal(data, Version, msgType)
	if err != nil {
		return nil, err
	}

	d := openflow.NewDecoder(payload)
	t := d.Uint16()
	r.Flags = d.Uint16()
	d.Skip(4)
	if err := d.Err(); err != nil {
		return nil, errors.Wrap(err, "ofp_stats_msg")
	}
	if t != statsType {
		return nil, errors.Wrapf(openflow.ErrUnknownMessageType, "expected stats type %v, got %v", statsType, t)
	}

	return d, nil
}

type DescStatsRequest struct {
	StatsHeader
}

func NewDescStatsRequest(xid uint32) *DescStatsRequest {
	v := new(DescStatsRequest)
	v.SetTransactionID(xid)
	return v
}

func (r *DescStatsRequest) MarshalBinary() ([]byte, error) {
	return r.marshalStats(OFPT_STATS_REQUEST, OFPST_DESC, nil)
}

func (r *DescStatsRequest) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REQUEST, OFPST_DESC)
	if err != nil {
		return err
	}

	return errors.Wrap(d.Finish(), "desc stats request")
}

// DescStatsReply is ofp_desc_stats, the description of the switch.
type DescStatsReply struct {
	StatsHeader
	Manufacturer string
	Hardware     string
	Software     string
	SerialNumber string
	Datapath     string
}

func (r *DescStatsReply) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(4*DESC_STR_LEN + SERIAL_NUM_LEN)
	e.String(r.Manufacturer, DESC_STR_LEN)
	e.String(r.Hardware, DESC_STR_LEN)
	e.String(r.Software, DESC_STR_LEN)
	e.String(r.SerialNumber, SERIAL_NUM_LEN)
	e.String(r.Datapath, DESC_STR_LEN)
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.marshalStats(OFPT_STATS_REPLY, OFPST_DESC, body)
}

func (r *DescStatsReply) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REPLY, OFPST_DESC)
	if err != nil {
		return err
	}
	r.Manufacturer = d.String(DESC_STR_LEN)
	r.Hardware = d.String(DESC_STR_LEN)
	r.Software = d.String(DESC_STR_LEN)
	r.SerialNumber = d.String(SERIAL_NUM_LEN)
	r.Datapath = d.String(DESC_STR_LEN)

	return errors.Wrap(d.Finish(), "ofp_desc_stats")
}

// FlowSelector is ofp_flow_stats_request, the body shared by the flow and
// aggregate stats requests.
type FlowSelector struct {
	// ID of table to read, or OFPTT_ALL for all tables.
	TableID uint8
	// Require matching entries to include this as an output port. OFPP_ANY means no restriction.
	OutPort uint32
	// Require matching entries to include this as an output group. OFPG_ANY means no restriction.
	OutGroup   uint32
	Cookie     uint64
	CookieMask uint64
	Match      Match
}

func newFlowSelector() FlowSelector {
	return FlowSelector{
		TableID:  OFPTT_ALL,
		OutPort:  OFPP_ANY,
		OutGroup: OFPG_ANY,
		Match:    *NewMatch(),
	}
}

func (r *FlowSelector) encode() ([]byte, error) {
	e := openflow.NewEncoder(32 + MatchLength)
	e.Uint8(r.TableID)
	e.Pad(3)
	e.Uint32(r.OutPort)
	e.Uint32(r.OutGroup)
	e.Pad(4)
	e.Uint64(r.Cookie)
	e.Uint64(r.CookieMask)
	r.Match.encode(e)

	return e.Bytes()
}

func (r *FlowSelector) decode(d *openflow.Decoder) error {
	r.TableID = d.Uint8()
	d.Skip(3)
	r.OutPort = d.Uint32()
	r.OutGroup = d.Uint32()
	d.Skip(4)
	r.Cookie = d.Uint64()
	r.CookieMask = d.Uint64()
	r.Match.decode(d)

	return errors.Wrap(d.Finish(), "ofp_flow_stats_request")
}

type FlowStatsRequest struct {
	StatsHeader
	FlowSelector
}

func NewFlowStatsRequest(xid uint32) *FlowStatsRequest {
	v := &FlowStatsRequest{
		FlowSelector: newFlowSelector(),
	}
	v.SetTransactionID(xid)
	return v
}

func (r *FlowStatsRequest) MarshalBinary() ([]byte, error) {
	body, err := r.encode()
	if err != nil {
		return nil, err
	}

	return r.marshalStats(OFPT_STATS_REQUEST, OFPST_FLOW, body)
}

func (r *FlowStatsRequest) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REQUEST, OFPST_FLOW)
	if err != nil {
		return err
	}

	return r.decode(d)
}

// flowStatsLength is the size of the fixed part of ofp_flow_stats.
const flowStatsLength = 48 + MatchLength

// FlowStats is ofp_flow_stats. Every entry declares its own length, which
// covers its instruction list.
type FlowStats struct {
	TableID         uint8
	DurationSec     uint32
	DurationNanoSec uint32
	Priority        uint16
	IdleTimeout     uint16
	HardTimeout     uint16
	Cookie          uint64
	PacketCount     uint64
	ByteCount       uint64
	Match           Match
	Instructions    InstructionList
}

func (r *FlowStats) MarshalBinary() ([]byte, error) {
	instructions, err := r.Instructions.MarshalBinary()
	if err != nil {
		return nil, err
	}

	e := openflow.NewEncoder(flowStatsLength + len(instructions))
	e.Length(flowStatsLength + len(instructions))
	e.Uint8(r.TableID)
	e.Pad(1)
	e.Uint32(r.DurationSec)
	e.Uint32(r.DurationNanoSec)
	e.Uint16(r.Priority)
	e.Uint16(r.IdleTimeout)
	e.Uint16(r.HardTimeout)
	e.Pad(6)
	e.Uint64(r.Cookie)
	e.Uint64(r.PacketCount)
	e.Uint64(r.ByteCount)
	r.Match.encode(e)
	e.Raw(instructions)

	return e.Bytes()
}

// UnmarshalBinary decodes a single entry whose declared length equals len(data).
func (r *FlowStats) UnmarshalBinary(data []byte) error {
	d := openflow.NewDecoder(data)
	length := d.Uint16()
	r.TableID = d.Uint8()
	d.Skip(1)
	r.DurationSec = d.Uint32()
	r.DurationNanoSec = d.Uint32()
	r.Priority = d.Uint16()
	r.IdleTimeout = d.Uint16()
	r.HardTimeout = d.Uint16()
	d.Skip(6)
	r.Cookie = d.Uint64()
	r.PacketCount = d.Uint64()
	r.ByteCount = d.Uint64()
	r.Match.decode(d)
	if err := d.Err(); err != nil {
		return errors.Wrap(err, "ofp_flow_stats")
	}
	if int(length) != len(data) {
		return errors.Wrapf(openflow.ErrMalformedLength, "ofp_flow_stats declares %v bytes, have %v", length, len(data))
	}

	var err error
	r.Instructions, err = UnmarshalInstructions(d.Rest())

	return err
}

type FlowStatsReply struct {
	StatsHeader
	Flows []FlowStats
}

func (r *FlowStatsReply) MarshalBinary() ([]byte, error) {
	body := make([]byte, 0)
	for i := range r.Flows {
		v, err := r.Flows[i].MarshalBinary()
		if err != nil {
			return nil, err
		}
		body = append(body, v...)
	}

	return r.marshalStats(OFPT_STATS_REPLY, OFPST_FLOW, body)
}

func (r *FlowStatsReply) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REPLY, OFPST_FLOW)
	if err != nil {
		return err
	}

	entries, err := openflow.SplitList(d.Rest(), 0, flowStatsLength)
	if err != nil {
		return errors.Wrap(err, "flow stats entries")
	}
	r.Flows = make([]FlowStats, len(entries))
	for i, v := range entries {
		if err := r.Flows[i].UnmarshalBinary(v); err != nil {
			return err
		}
	}

	return nil
}

type AggregateStatsRequest struct {
	StatsHeader
	FlowSelector
}

func NewAggregateStatsRequest(xid uint32) *AggregateStatsRequest {
	v := &AggregateStatsRequest{
		FlowSelector: newFlowSelector(),
	}
	v.SetTransactionID(xid)
	return v
}

func (r *AggregateStatsRequest) MarshalBinary() ([]byte, error) {
	body, err := r.encode()
	if err != nil {
		return nil, err
	}

	return r.marshalStats(OFPT_STATS_REQUEST, OFPST_AGGREGATE, body)
}

func (r *AggregateStatsRequest) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REQUEST, OFPST_AGGREGATE)
	if err != nil {
		return err
	}

	return r.decode(d)
}

type AggregateStatsReply struct {
	StatsHeader
	PacketCount uint64
	ByteCount   uint64
	FlowCount   uint32
}

func (r *AggregateStatsReply) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(24)
	e.Uint64(r.PacketCount)
	e.Uint64(r.ByteCount)
	e.Uint32(r.FlowCount)
	e.Pad(4)
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.marshalStats(OFPT_STATS_REPLY, OFPST_AGGREGATE, body)
}

func (r *AggregateStatsReply) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REPLY, OFPST_AGGREGATE)
	if err != nil {
		return err
	}
	r.PacketCount = d.Uint64()
	r.ByteCount = d.Uint64()
	r.FlowCount = d.Uint32()
	d.Skip(4)

	return errors.Wrap(d.Finish(), "ofp_aggregate_stats_reply")
}

type TableStatsRequest struct {
	StatsHeader
}

func NewTableStatsRequest(xid uint32) *TableStatsRequest {
	v := new(TableStatsRequest)
	v.SetTransactionID(xid)
	return v
}

func (r *TableStatsRequest) MarshalBinary() ([]byte, error) {
	return r.marshalStats(OFPT_STATS_REQUEST, OFPST_TABLE, nil)
}

func (r *TableStatsRequest) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REQUEST, OFPST_TABLE)
	if err != nil {
		return err
	}

	return errors.Wrap(d.Finish(), "table stats request")
}

// tableStatsLength is the size of ofp_table_stats.
const tableStatsLength = 88

type TableStats struct {
	TableID uint8
	Name    string
	// Bitmap of OFPFW_* wildcards that are supported by the table.
	Wildcards uint32
	// Bitmap of OFPFMF_* that indicate the fields the table can match on.
	Match uint32
	// Bitmap of OFPIT_* values supported.
	Instructions uint32
	// Bitmaps of OFPAT_* that are supported by the table with OFPIT_WRITE_ACTIONS and OFPIT_APPLY_ACTIONS.
	WriteActions, ApplyActions uint32
	// Bitmap of OFPTC_* values
	Config       uint32
	MaxEntries   uint32
	ActiveCount  uint32
	LookupCount  uint64
	MatchedCount uint64
}

type TableStatsReply struct {
	StatsHeader
	Tables []TableStats
}

func (r *TableStatsReply) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(len(r.Tables) * tableStatsLength)
	for _, v := range r.Tables {
		e.Uint8(v.TableID)
		e.Pad(7)
		e.String(v.Name, MAX_TABLE_NAME)
		e.Uint32(v.Wildcards)
		e.Uint32(v.Match)
		e.Uint32(v.Instructions)
		e.Uint32(v.WriteActions)
		e.Uint32(v.ApplyActions)
		e.Uint32(v.Config)
		e.Uint32(v.MaxEntries)
		e.Uint32(v.ActiveCount)
		e.Uint64(v.LookupCount)
		e.Uint64(v.MatchedCount)
	}
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.marshalStats(OFPT_STATS_REPLY, OFPST_TABLE, body)
}

func (r *TableStatsReply) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REPLY, OFPST_TABLE)
	if err != nil {
		return err
	}

	entries, err := openflow.SplitArray(d.Rest(), tableStatsLength)
	if err != nil {
		return errors.Wrap(err, "table stats entries")
	}
	r.Tables = make([]TableStats, len(entries))
	for i, v := range entries {
		s := &r.Tables[i]
		t := openflow.NewDecoder(v)
		s.TableID = t.Uint8()
		t.Skip(7)
		s.Name = t.String(MAX_TABLE_NAME)
		s.Wildcards = t.Uint32()
		s.Match = t.Uint32()
		s.Instructions = t.Uint32()
		s.WriteActions = t.Uint32()
		s.ApplyActions = t.Uint32()
		s.Config = t.Uint32()
		s.MaxEntries = t.Uint32()
		s.ActiveCount = t.Uint32()
		s.LookupCount = t.Uint64()
		s.MatchedCount = t.Uint64()
		if err := t.Finish(); err != nil {
			return errors.Wrap(err, "ofp_table_stats")
		}
	}

	return nil
}

// PortStatsRequest asks for the counters of PortNumber, or of all ports if
// it is OFPP_ANY.
type PortStatsRequest struct {
	StatsHeader
	PortNumber uint32
}

func NewPortStatsRequest(xid uint32, port uint32) *PortStatsRequest {
	v := &PortStatsRequest{
		PortNumber: port,
	}
	v.SetTransactionID(xid)
	return v
}

func (r *PortStatsRequest) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(8)
	e.Uint32(r.PortNumber)
	e.Pad(4)
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.marshalStats(OFPT_STATS_REQUEST, OFPST_PORT, body)
}

func (r *PortStatsRequest) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REQUEST, OFPST_PORT)
	if err != nil {
		return err
	}
	r.PortNumber = d.Uint32()
	d.Skip(4)

	return errors.Wrap(d.Finish(), "ofp_port_stats_request")
}

// portStatsLength is the size of ofp_port_stats.
const portStatsLength = 104

type PortStats struct {
	PortNumber uint32
	RxPackets  uint64
	TxPackets  uint64
	RxBytes    uint64
	TxBytes    uint64
	RxDropped  uint64
	TxDropped  uint64
	RxErrors   uint64
	TxErrors   uint64
	RxFrameErr uint64
	RxOverErr  uint64
	RxCRCErr   uint64
	Collisions uint64
}

type PortStatsReply struct {
	StatsHeader
	Ports []PortStats
}

func (r *PortStatsReply) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(len(r.Ports) * portStatsLength)
	for _, v := range r.Ports {
		e.Uint32(v.PortNumber)
		e.Pad(4)
		for _, c := range []uint64{v.RxPackets, v.TxPackets, v.RxBytes, v.TxBytes, v.RxDropped, v.TxDropped,
			v.RxErrors, v.TxErrors, v.RxFrameErr, v.RxOverErr, v.RxCRCErr, v.Collisions} {
			e.Uint64(c)
		}
	}
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.marshalStats(OFPT_STATS_REPLY, OFPST_PORT, body)
}

func (r *PortStatsReply) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REPLY, OFPST_PORT)
	if err != nil {
		return err
	}

	entries, err := openflow.SplitArray(d.Rest(), portStatsLength)
	if err != nil {
		return errors.Wrap(err, "port stats entries")
	}
	r.Ports = make([]PortStats, len(entries))
	for i, v := range entries {
		p := &r.Ports[i]
		t := openflow.NewDecoder(v)
		p.PortNumber = t.Uint32()
		t.Skip(4)
		for _, c := range []*uint64{&p.RxPackets, &p.TxPackets, &p.RxBytes, &p.TxBytes, &p.RxDropped, &p.TxDropped,
			&p.RxErrors, &p.TxErrors, &p.RxFrameErr, &p.RxOverErr, &p.RxCRCErr, &p.Collisions} {
			*c = t.Uint64()
		}
		if err := t.Finish(); err != nil {
			return errors.Wrap(err, "ofp_port_stats")
		}
	}

	return nil
}

// QueueStatsRequest asks for the counters of QueueID (or OFPQ_ALL) on
// PortNumber (or OFPP_ANY).
type QueueStatsRequest struct {
	StatsHeader
	PortNumber uint32
	QueueID    uint32
}

func NewQueueStatsRequest(xid uint32) *QueueStatsRequest {
	v := &QueueStatsRequest{
		PortNumber: OFPP_ANY,
		QueueID:    OFPQ_ALL,
	}
	v.SetTransactionID(xid)
	return v
}

func (r *QueueStatsRequest) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(8)
	e.Uint32(r.PortNumber)
	e.Uint32(r.QueueID)
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.marshalStats(OFPT_STATS_REQUEST, OFPST_QUEUE, body)
}

func (r *QueueStatsRequest) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REQUEST, OFPST_QUEUE)
	if err != nil {
		return err
	}
	r.PortNumber = d.Uint32()
	r.QueueID = d.Uint32()

	return errors.Wrap(d.Finish(), "ofp_queue_stats_request")
}

// queueStatsLength is the size of ofp_queue_stats.
const queueStatsLength = 32

type QueueStats struct {
	PortNumber uint32
	QueueID    uint32
	TxBytes    uint64
	TxPackets  uint64
	TxErrors   uint64
}

type QueueStatsReply struct {
	StatsHeader
	Queues []QueueStats
}

func (r *QueueStatsReply) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(len(r.Queues) * queueStatsLength)
	for _, v := range r.Queues {
		e.Uint32(v.PortNumber)
		e.Uint32(v.QueueID)
		e.Uint64(v.TxBytes)
		e.Uint64(v.TxPackets)
		e.Uint64(v.TxErrors)
	}
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.marshalStats(OFPT_STATS_REPLY, OFPST_QUEUE, body)
}

func (r *QueueStatsReply) UnmarshalBinary(data []byte) error {
	d, err := r.unmarshalStats(data, OFPT_STATS_REPLY, OFPST_QUEUE)
	if err != nil {
		return err
	}

	entries, err := openflow.SplitArray(d.Rest(), queueStatsLength)
	if err != nil {
		return errors.Wrap(err, "queue stats entries")
	}
	r.Queues = make([]QueueStats, len(entries))
	for i, v := range entries {
		t := openflow.NewDecoder(v)
		r.Queues[i].PortNumber = t.Uint32()
		r.Queues[i].QueueID = t.Uint32()
		r.Queues[i].TxBytes = t.Uint64()
		r.Queues[i].TxPackets = t.Uint64()
		r.Queues[i].TxErrors = t.Uint64()
		if err := t.Finish(); err != nil {
			return errors.Wrap(err, "ofp_queue_stats")
		}
	}

	return nil
}

// ExperimenterStats is an experimenter defined stats body starting with an
// experimenter ID.
type ExperimenterStats struct {
	StatsHeader
	Experimenter uint32
	Data         []byte
}

func (r *ExperimenterStats) marshalExperimenter(msgType uint8) ([]byte, error) {
	e := openflow.NewEncoder(8 + len(r.Data))
	e.Uint32(r.Experimenter)
	e.Pad(4)
	e.Raw(r.Data)
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.marshalStats(msgType, OFPST_EXPERIMENTER, body)
}

func (r *ExperimenterStats) unmarshalExperimenter(data []byte, msgType uint8) error {
	d, err := r.unmarshalStats(data, msgType, OFPST_EXPERIMENTER)
	if err != nil {
		return err
	}
	r.Experimenter = d.Uint32()
	d.Skip(4)
	r.Data = d.Rest()

	return errors.Wrap(d.Finish(), "ofp_experimenter_stats_header")
}

type ExperimenterStatsRequest struct {
	ExperimenterStats
}

func (r *ExperimenterStatsRequest) MarshalBinary() ([]byte, error) {
	return r.marshalExperimenter(OFPT_STATS_REQUEST)
}

func (r *ExperimenterStatsRequest) UnmarshalBinary(data []byte) error {
	return r.unmarshalExperimenter(data, OFPT_STATS_REQUEST)
}

type ExperimenterStatsReply struct {
	ExperimenterStats
}

func (r *ExperimenterStatsReply) MarshalBinary() ([]byte, error) {
	return r.marshalExperimenter(OFPT_STATS_REPLY)
}

func (r *ExperimenterStatsReply) UnmarshalBinary(data []byte) error {
	return r.unmarshalExperimenter(data, OFPT_STATS_REPLY)
}
