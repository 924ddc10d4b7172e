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

package openflow

import (
	"github.com/pkg/errors"
)

// Queue property types.
const (
	OFPQT_NONE     uint16 = 0
	OFPQT_MIN_RATE uint16 = 1
)

const (
	queueLength         = 8
	queuePropertyLength = 8
	minRatePropLength   = 16
)

// QueueProperty is a property of a packet queue. Rate is meaningful only for
// OFPQT_MIN_RATE, in 1/10 of a percent; Data holds the body of any other type.
type QueueProperty struct {
	Type uint16
	Rate uint16
	Data []byte
}

func (r *QueueProperty) MarshalBinary() ([]byte, error) {
	var body []byte
	switch r.Type {
	case OFPQT_NONE:
	case OFPQT_MIN_RATE:
		body = make([]byte, 8)
		body[0] = uint8(r.Rate >> 8)
		body[1] = uint8(r.Rate)
	default:
		body = r.Data
	}

	e := NewEncoder(queuePropertyLength + len(body))
	e.Uint16(r.Type)
	e.Length(queuePropertyLength + len(body))
	e.Pad(4)
	e.Raw(body)

	return e.Bytes()
}

func (r *QueueProperty) UnmarshalBinary(data []byte) error {
	d := NewDecoder(data)
	r.Type = d.Uint16()
	d.Skip(2) // length, already checked by SplitList
	d.Skip(4)
	r.Rate = 0
	r.Data = nil

	switch r.Type {
	case OFPQT_NONE:
	case OFPQT_MIN_RATE:
		r.Rate = d.Uint16()
		d.Skip(6)
	default:
		r.Data = d.Rest()
	}

	return errors.Wrapf(d.Finish(), "queue property %v", r.Type)
}

// PacketQueue is the configuration of a single queue attached to a port.
type PacketQueue struct {
	ID         uint32
	Properties []QueueProperty
}

func (r *PacketQueue) MarshalBinary() ([]byte, error) {
	props := make([]byte, 0)
	for i := range r.Properties {
		v, err := r.Properties[i].MarshalBinary()
		if err != nil {
			return nil, err
		}
		props = append(props, v...)
	}

	e := NewEncoder(queueLength + len(props))
	e.Uint32(r.ID)
	e.Length(queueLength + len(props))
	e.Pad(2)
	e.Raw(props)

	return e.Bytes()
}

func (r *PacketQueue) UnmarshalBinary(data []byte) error {
	d := NewDecoder(data)
	r.ID = d.Uint32()
	d.Skip(2) // length, already checked by SplitList
	d.Skip(2)
	if err := d.Err(); err != nil {
		return errors.Wrap(err, "ofp_packet_queue")
	}

	items, err := SplitList(d.Rest(), 2, queuePropertyLength)
	if err != nil {
		return errors.Wrapf(err, "properties of queue %v", r.ID)
	}
	r.Properties = make([]QueueProperty, len(items))
	for i, v := range items {
		if err := r.Properties[i].UnmarshalBinary(v); err != nil {
			return err
		}
	}

	return nil
}

// MarshalQueues encodes queues back to back.
func MarshalQueues(queues []PacketQueue) ([]byte, error) {
	v := make([]byte, 0)
	for i := range queues {
		q, err := queues[i].MarshalBinary()
		if err != nil {
			return nil, err
		}
		v = append(v, q...)
	}

	return v, nil
}

// UnmarshalQueues decodes a list of packet queues that must consume data exactly.
func UnmarshalQueues(data []byte) ([]PacketQueue, error) {
	items, err := SplitList(data, 4, queueLength)
	if err != nil {
		return nil, errors.Wrap(err, "packet queues")
	}

	queues := make([]PacketQueue, len(items))
	for i, v := range items {
		if err := queues[i].UnmarshalBinary(v); err != nil {
			return nil, err
		}
	}

	return queues, nil
}
