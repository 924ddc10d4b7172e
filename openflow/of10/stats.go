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
	e := openflow.NewEncoder(4 + len(body))
	e.Uint16(statsType)
	e.Uint16(r.Flags)
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

// FlowStatsRequest selects flow entries by Match, TableID (0xff for all
// tables) and OutPort (OFPP_NONE for any port).
type FlowStatsRequest struct {
	StatsHeader
	Match   Match
	TableID uint8
	OutPort uint16
}

func NewFlowStatsRequest(xid uint32) *FlowStatsRequest {
	v := &FlowStatsRequest{
		Match:   *NewMatch(),
		TableID: 0xff,
		OutPort: OFPP_NONE,
	}
	v.SetTransactionID(xid)
	return v
}

func encodeFlowStatsRequest(m *Match, tableID uint8, outPort uint16) ([]byte, error) {
	e := openflow.NewEncoder(MatchLength + 4)
	m.encode(e)
	e.Uint8(tableID)
	e.Pad(1)
	e.Uint16(outPort)

	return e.Bytes()
}

func (r *FlowStatsRequest) MarshalBinary() ([]byte, error) {
	body, err := encodeFlowStatsRequest(&r.Match, r.TableID, r.OutPort)
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
	r.Match.decode(d)
	r.TableID = d.Uint8()
	d.Skip(1)
	r.OutPort = d.Uint16()

	return errors.Wrap(d.Finish(), "ofp_flow_stats_request")
}

// flowStatsLength is the size of the fixed part of ofp_flow_stats.
const flowStatsLength = 48 + MatchLength

// FlowStats is ofp_flow_stats. Every entry declares its own length, which
// covers its action list.
type FlowStats struct {
	TableID         uint8
	Match           Match
	DurationSec     uint32
	DurationNanoSec uint32
	Priority        uint16
	IdleTimeout     uint16
	HardTimeout     uint16
	Cookie          uint64
	PacketCount     uint64
	ByteCount       uint64
	Actions         ActionList
}

func (r *FlowStats) MarshalBinary() ([]byte, error) {
	actions, err := r.Actions.MarshalBinary()
	if err != nil {
		return nil, err
	}

	e := openflow.NewEncoder(flowStatsLength + len(actions))
	e.Length(flowStatsLength + len(actions))
	e.Uint8(r.TableID)
	e.Pad(1)
	r.Match.encode(e)
	e.Uint32(r.DurationSec)
	e.Uint32(r.DurationNanoSec)
	e.Uint16(r.Priority)
	e.Uint16(r.IdleTimeout)
	e.Uint16(r.HardTimeout)
	e.Pad(6)
	e.Uint64(r.Cookie)
	e.Uint64(r.PacketCount)
	e.Uint64(r.ByteCount)
	e.Raw(actions)

	return e.Bytes()
}

// UnmarshalBinary decodes a single entry whose declared length equals len(data).
func (r *FlowStats) UnmarshalBinary(data []byte) error {
	d := openflow.NewDecoder(data)
	length := d.Uint16()
	r.TableID = d.Uint8()
	d.Skip(1)
	r.Match.decode(d)
	r.DurationSec = d.Uint32()
	r.DurationNanoSec = d.Uint32()
	r.Priority = d.Uint16()
	r.IdleTimeout = d.Uint16()
	r.HardTimeout = d.Uint16()
	d.Skip(6)
	r.Cookie = d.Uint64()
	r.PacketCount = d.Uint64()
	r.ByteCount = d.Uint64()
	if err := d.Err(); err != nil {
		return errors.Wrap(err, "ofp_flow_stats")
	}
	if int(length) != len(data) {
		return errors.Wrapf(openflow.ErrMalformedLength, "ofp_flow_stats declares %v bytes, have %v", length, len(data))
	}

	var err error
	r.Actions, err = UnmarshalActions(d.Rest())

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

// AggregateStatsRequest has the same body as FlowStatsRequest.
type AggregateStatsRequest struct {
	StatsHeader
	Match   Match
	TableID uint8
	OutPort uint16
}

func NewAggregateStatsRequest(xid uint32) *AggregateStatsRequest {
	v := &AggregateStatsRequest{
		Match:   *NewMatch(),
		TableID: 0xff,
		OutPort: OFPP_NONE,
	}
	v.SetTransactionID(xid)
	return v
}

func (r *AggregateStatsRequest) MarshalBinary() ([]byte, error) {
	body, err := encodeFlowStatsRequest(&r.Match, r.TableID, r.OutPort)
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
	r.Match.decode(d)
	r.TableID = d.Uint8()
	d.Skip(1)
	r.OutPort = d.Uint16()

	return errors.Wrap(d.Finish(), "ofp_aggregate_stats_request")
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
const tableStatsLength = 64

type TableStats struct {
	TableID uint8
	Name    string
	// Bitmap of OFPFW_* wildcards that are supported by the table.
	Wildcards    uint32
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
		e.Pad(3)
		e.String(v.Name, MAX_TABLE_NAME)
		e.Uint32(v.Wildcards)
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
		t := openflow.NewDecoder(v)
		r.Tables[i].TableID = t.Uint8()
		t.Skip(3)
		r.Tables[i].Name = t.String(MAX_TABLE_NAME)
		r.Tables[i].Wildcards = t.Uint32()
		r.Tables[i].MaxEntries = t.Uint32()
		r.Tables[i].ActiveCount = t.Uint32()
		r.Tables[i].LookupCount = t.Uint64()
		r.Tables[i].MatchedCount = t.Uint64()
		if err := t.Finish(); err != nil {
			return errors.Wrap(err, "ofp_table_stats")
		}
	}

	return nil
}

// PortStatsRequest asks for the counters of PortNumber, or of all ports if
// it is OFPP_NONE.
type PortStatsRequest struct {
	StatsHeader
	PortNumber uint16
}

func NewPortStatsRequest(xid uint32, port uint16) *PortStatsRequest {
	v := &PortStatsRequest{
		PortNumber: port,
	}
	v.SetTransactionID(xid)
	return v
}

func (r *PortStatsRequest) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(8)
	e.Uint16(r.PortNumber)
	e.Pad(6)
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
	r.PortNumber = d.Uint16()
	d.Skip(6)

	return errors.Wrap(d.Finish(), "ofp_port_stats_request")
}

// portStatsLength is the size of ofp_port_stats.
const portStatsLength = 104

type PortStats struct {
	PortNumber uint16
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
		e.Uint16(v.PortNumber)
		e.Pad(6)
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
		p.PortNumber = t.Uint16()
		t.Skip(6)
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
// PortNumber (or OFPP_ALL).
type QueueStatsRequest struct {
	StatsHeader
	PortNumber uint16
	QueueID    uint32
}

func NewQueueStatsRequest(xid uint32) *QueueStatsRequest {
	v := &QueueStatsRequest{
		PortNumber: OFPP_ALL,
		QueueID:    OFPQ_ALL,
	}
	v.SetTransactionID(xid)
	return v
}

func (r *QueueStatsRequest) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(8)
	e.Uint16(r.PortNumber)
	e.Pad(2)
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
	r.PortNumber = d.Uint16()
	d.Skip(2)
	r.QueueID = d.Uint32()

	return errors.Wrap(d.Finish(), "ofp_queue_stats_request")
}

// queueStatsLength is the size of ofp_queue_stats.
const queueStatsLength = 32

type QueueStats struct {
	PortNumber uint16
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
		e.Uint16(v.PortNumber)
		e.Pad(2)
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
		r.Queues[i].PortNumber = t.Uint16()
		t.Skip(2)
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

// VendorStats is a vendor defined stats body starting with a vendor ID.
type VendorStats struct {
	StatsHeader
	Vendor uint32
	Data   []byte
}

func (r *VendorStats) marshalVendor(msgType uint8) ([]byte, error) {
	e := openflow.NewEncoder(4 + len(r.Data))
	e.Uint32(r.Vendor)
	e.Raw(r.Data)
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.marshalStats(msgType, OFPST_VENDOR, body)
}

func (r *VendorStats) unmarshalVendor(data []byte, msgType uint8) error {
	d, err := r.unmarshalStats(data, msgType, OFPST_VENDOR)
	if err != nil {
		return err
	}
	r.Vendor = d.Uint32()
	r.Data = d.Rest()

	return errors.Wrap(d.Finish(), "vendor stats")
}

type VendorStatsRequest struct {
	VendorStats
}

func (r *VendorStatsRequest) MarshalBinary() ([]byte, error) {
	return r.marshalVendor(OFPT_STATS_REQUEST)
}

func (r *VendorStatsRequest) UnmarshalBinary(data []byte) error {
	return r.unmarshalVendor(data, OFPT_STATS_REQUEST)
}

type VendorStatsReply struct {
	VendorStats
}

func (r *VendorStatsReply) MarshalBinary() ([]byte, error) {
	return r.marshalVendor(OFPT_STATS_REPLY)
}

func (r *VendorStatsReply) UnmarshalBinary(data []byte) error {
	return r.unmarshalVendor(data, OFPT_STATS_REPLY)
}
