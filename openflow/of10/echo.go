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
)

type Hello struct {
	openflow.BaseOpaque
}

func NewHello(xid uint32) *Hello {
	v := new(Hello)
	v.SetTransactionID(xid)
	return v
}

func (r *Hello) MarshalBinary() ([]byte, error) {
	return r.MarshalAs(Version, OFPT_HELLO)
}

func (r *Hello) UnmarshalBinary(data []byte) error {
	return r.UnmarshalAs(data, Version, OFPT_HELLO)
}

type EchoRequest struct {
	openflow.BaseOpaque
}

func NewEchoRequest(xid uint32) *EchoRequest {
	v := new(EchoRequest)
	v.SetTransactionID(xid)
	return v
}

func (r *EchoRequest) MarshalBinary() ([]byte, error) {
	return r.MarshalAs(Version, OFPT_ECHO_REQUEST)
}

func (r *EchoRequest) UnmarshalBinary(data []byte) error {
	return r.UnmarshalAs(data, Version, OFPT_ECHO_REQUEST)
}

type EchoReply struct {
	openflow.BaseOpaque
}

func NewEchoReply(xid uint32) *EchoReply {
	v := new(EchoReply)
	v.SetTransactionID(xid)
	return v
}

func (r *EchoReply) MarshalBinary() ([]byte, error) {
	return r.MarshalAs(Version, OFPT_ECHO_REPLY)
}

func (r *EchoReply) UnmarshalBinary(data []byte) error {
	return r.UnmarshalAs(data, Version, OFPT_ECHO_REPLY)
}

// Error reports a problem. Class is one of OFPET_* and Code depends on it.
type Error struct {
	openflow.BaseError
}

func (r *Error) MarshalBinary() ([]byte, error) {
	return r.MarshalAs(Version, OFPT_ERROR)
}

func (r *Error) UnmarshalBinary(data []byte) error {
	return r.UnmarshalAs(data, Version, OFPT_ERROR)
}

type Vendor struct {
	openflow.BaseVendor
}

func (r *Vendor) MarshalBinary() ([]byte, error) {
	return r.MarshalAs(Version, OFPT_VENDOR)
}

func (r *Vendor) UnmarshalBinary(data []byte) error {
	return r.UnmarshalAs(data, Version, OFPT_VENDOR)
}

type BarrierRequest struct {
	openflow.BaseEmpty
}

func NewBarrierRequest(xid uint32) *BarrierRequest {
	v := new(BarrierRequest)
	v.SetTransactionID(xid)
	return v
}

func (r *BarrierRequest) MarshalBinary() ([]byte, error) {
	return r.MarshalAs(Version, OFPT_BARRIER_REQUEST)
}

func (r *BarrierRequest) UnmarshalBinary(data []byte) error {
	return r.UnmarshalAs(data, Version, OFPT_BARRIER_REQUEST)
}

type BarrierReply struct {
	openflow.BaseEmpty
}

func (r *BarrierReply) MarshalBinary() ([]byte, error) {
	return r.MarshalAs(Version, OFPT_BARRIER_REPLY)
}

func (r *BarrierReply) UnmarshalBinary(data []byte) error {
	return r.UnmarshalAs(data, Version, OFPT_BARRIER_REPLY)
}
