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

var messages = map[uint8]func() openflow.Message{
	OFPT_HELLO:                    func() openflow.Message { return new(Hello) },
	OFPT_ERROR:                    func() openflow.Message { return new(Error) },
	OFPT_ECHO_REQUEST:             func() openflow.Message { return new(EchoRequest) },
	OFPT_ECHO_REPLY:               func() openflow.Message { return new(EchoReply) },
	OFPT_VENDOR:                   func() openflow.Message { return new(Vendor) },
	OFPT_FEATURES_REQUEST:         func() openflow.Message { return new(FeaturesRequest) },
	OFPT_FEATURES_REPLY:           func() openflow.Message { return new(FeaturesReply) },
	OFPT_GET_CONFIG_REQUEST:       func() openflow.Message { return new(GetConfigRequest) },
	OFPT_GET_CONFIG_REPLY:         func() openflow.Message { return new(GetConfigReply) },
	OFPT_SET_CONFIG:               func() openflow.Message { return new(SetConfig) },
	OFPT_PACKET_IN:                func() openflow.Message { return new(PacketIn) },
	OFPT_FLOW_REMOVED:             func() openflow.Message { return new(FlowRemoved) },
	OFPT_PORT_STATUS:              func() openflow.Message { return new(PortStatus) },
	OFPT_PACKET_OUT:               func() openflow.Message { return new(PacketOut) },
	OFPT_FLOW_MOD:                 func() openflow.Message { return new(FlowMod) },
	OFPT_PORT_MOD:                 func() openflow.Message { return new(PortMod) },
	OFPT_BARRIER_REQUEST:          func() openflow.Message { return new(BarrierRequest) },
	OFPT_BARRIER_REPLY:            func() openflow.Message { return new(BarrierReply) },
	OFPT_QUEUE_GET_CONFIG_REQUEST: func() openflow.Message { return new(QueueGetConfigRequest) },
	OFPT_QUEUE_GET_CONFIG_REPLY:   func() openflow.Message { return new(QueueGetConfigReply) },
}

var statsRequests = map[uint16]func() openflow.Message{
	OFPST_DESC:      func() openflow.Message { return new(DescStatsRequest) },
	OFPST_FLOW:      func() openflow.Message { return new(FlowStatsRequest) },
	OFPST_AGGREGATE: func() openflow.Message { return new(AggregateStatsRequest) },
	OFPST_TABLE:     func() openflow.Message { return new(TableStatsRequest) },
	OFPST_PORT:      func() openflow.Message { return new(PortStatsRequest) },
	OFPST_QUEUE:     func() openflow.Message { return new(QueueStatsRequest) },
	OFPST_VENDOR:    func() openflow.Message { return new(VendorStatsRequest) },
}

var statsReplies = map[uint16]func() openflow.Message{
	OFPST_DESC:      func() openflow.Message { return new(DescStatsReply) },
	OFPST_FLOW:      func() openflow.Message { return new(FlowStatsReply) },
	OFPST_AGGREGATE: func() openflow.Message { return new(AggregateStatsReply) },
	OFPST_TABLE:     func() openflow.Message { return new(TableStatsReply) },
	OFPST_PORT:      func() openflow.Message { return new(PortStatsReply) },
	OFPST_QUEUE:     func() openflow.Message { return new(QueueStatsReply) },
	OFPST_VENDOR:    func() openflow.Message { return new(VendorStatsReply) },
}

func init() {
	openflow.RegisterParser(Version, ParseMessage)
}

// ParseMessage decodes a complete OpenFlow 1.0 message into its concrete type.
func ParseMessage(data []byte) (openflow.Message, error) {
	header, payload, err := openflow.DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	var newMessage func() openflow.Message
	var ok bool
	switch header.Type {
	case OFPT_STATS_REQUEST, OFPT_STATS_REPLY:
		d := openflow.NewDecoder(payload)
		statsType := d.Uint16()
		if err := d.Err(); err != nil {
			return nil, errors.Wrap(err, "stats type")
		}
		if header.Type == OFPT_STATS_REQUEST {
			newMessage, ok = statsRequests[statsType]
		} else {
			newMessage, ok = statsReplies[statsType]
		}
		if !ok {
			return nil, errors.Wrapf(openflow.ErrUnknownMessageType, "OpenFlow 1.0 stats type %v", statsType)
		}
	default:
		newMessage, ok = messages[header.Type]
		if !ok {
			return nil, errors.Wrapf(openflow.ErrUnknownMessageType, "OpenFlow 1.0 message type %v", header.Type)
		}
	}

	msg := newMessage()
	if err := msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	return msg, nil
}
