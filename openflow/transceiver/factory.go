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

package transceiver

import (
	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/floodlight/oftest-sub001/openflow/of10"
	"github.com/floodlight/oftest-sub001/openflow/of11"
)

// factory builds the control messages the transceiver exchanges on its own.
type factory struct {
	helloType       uint8
	echoRequestType uint8
	echoReplyType   uint8
	newHello        func(xid uint32) openflow.Message
	newEchoRequest  func(xid uint32, data []byte) openflow.Message
	newEchoReply    func(xid uint32, data []byte) openflow.Message
	newHelloFailed  func(xid uint32, reason string) openflow.Message
}

var factories = map[uint8]factory{
	of10.Version: {
		helloType:       of10.OFPT_HELLO,
		echoRequestType: of10.OFPT_ECHO_REQUEST,
		echoReplyType:   of10.OFPT_ECHO_REPLY,
		newHello: func(xid uint32) openflow.Message {
			return of10.NewHello(xid)
		},
		newEchoRequest: func(xid uint32, data []byte) openflow.Message {
			v := of10.NewEchoRequest(xid)
			v.Data = data
			return v
		},
		newEchoReply: func(xid uint32, data []byte) openflow.Message {
			v := of10.NewEchoReply(xid)
			v.Data = data
			return v
		},
		newHelloFailed: func(xid uint32, reason string) openflow.Message {
			v := new(of10.Error)
			v.SetTransactionID(xid)
			v.Class = of10.OFPET_HELLO_FAILED
			v.Code = of10.OFPHFC_INCOMPATIBLE
			v.Data = []byte(reason)
			return v
		},
	},
	of11.Version: {
		helloType:       of11.OFPT_HELLO,
		echoRequestType: of11.OFPT_ECHO_REQUEST,
		echoReplyType:   of11.OFPT_ECHO_REPLY,
		newHello: func(xid uint32) openflow.Message {
			return of11.NewHello(xid)
		},
		newEchoRequest: func(xid uint32, data []byte) openflow.Message {
			v := of11.NewEchoRequest(xid)
			v.Data = data
			return v
		},
		newEchoReply: func(xid uint32, data []byte) openflow.Message {
			v := of11.NewEchoReply(xid)
			v.Data = data
			return v
		},
		newHelloFailed: func(xid uint32, reason string) openflow.Message {
			v := new(of11.Error)
			v.SetTransactionID(xid)
			v.Class = of11.OFPET_HELLO_FAILED
			v.Code = of11.OFPHFC_INCOMPATIBLE
			v.Data = []byte(reason)
			return v
		},
	},
}

// SupportedVersions returns the protocol versions this package can speak, lowest first.
func SupportedVersions() []uint8 {
	return []uint8{of10.Version, of11.Version}
}
