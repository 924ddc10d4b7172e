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

// QueueGetConfigRequest asks for the queues attached to Port.
type QueueGetConfigRequest struct {
	openflow.BaseMessage
	Port uint16
}

func NewQueueGetConfigRequest(xid uint32, port uint16) *QueueGetConfigRequest {
	v := &QueueGetConfigRequest{
		Port: port,
	}
	v.SetTransactionID(xid)
	return v
}

func (r *QueueGetConfigRequest) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(4)
	e.Uint16(r.Port)
	e.Pad(2)
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, OFPT_QUEUE_GET_CONFIG_REQUEST, payload)
}

func (r *QueueGetConfigRequest) UnmarshalBinary(data []byte) error {
	payload, err := r.Unmarshal(data, Version, OFPT_QUEUE_GET_CONFIG_REQUEST)
	if err != nil {
		return err
	}

	d := openflow.NewDecoder(payload)
	r.Port = d.Uint16()
	d.Skip(2)

	return errors.Wrap(d.Finish(), "ofp_queue_get_config_request")
}

type QueueGetConfigReply struct {
	openflow.BaseMessage
	Port   uint16
	Queues []openflow.PacketQueue
}

func (r *QueueGetConfigReply) MarshalBinary() ([]byte, error) {
	queues, err := openflow.MarshalQueues(r.Queues)
	if err != nil {
		return nil, err
	}

	e := openflow.NewEncoder(8 + len(queues))
	e.Uint16(r.Port)
	e.Pad(6)
	e.Raw(queues)
	payload, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return r.Marshal(Version, OFPT_QUEUE_GET_CONFIG_REPLY, payload)
}

func (r *QueueGetConfigReply) UnmarshalBinary(data []byte) error {
	payload, err := r.Unmarshal(data, Version, OFPT_QUEUE_GET_CONFIG_REPLY)
	if err != nil {
		return err
	}

	d := openflow.NewDecoder(payload)
	r.Port = d.Uint16()
	d.Skip(6)
	if err := d.Err(); err != nil {
		return errors.Wrap(err, "ofp_queue_get_config_reply")
	}
	r.Queues, err = openflow.UnmarshalQueues(d.Rest())

	return err
}
