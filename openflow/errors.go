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

// Error is a codec failure. Every codec error only spoils the message being
// decoded or encoded, never the connection that carried it.
type Error string

func (r Error) Error() string {
	return string(r)
}

// Temporary always returns true: a transport may drop the offending message
// and keep reading.
func (r Error) Temporary() bool {
	return true
}

const (
	// ErrTruncatedInput means fewer bytes are available than a fixed-size field or structure requires.
	ErrTruncatedInput = Error("truncated input")
	// ErrMalformedLength means a declared length is inconsistent with the bytes available.
	ErrMalformedLength = Error("malformed length")
	// ErrTrailingData means bytes remain after every expected field has been decoded.
	ErrTrailingData = Error("trailing data")
	// ErrFieldOutOfRange means a value does not fit the wire width of its field.
	ErrFieldOutOfRange = Error("field out of range")
	// ErrUnknownMessageType means no variant is registered for a message, stats, action or instruction type.
	ErrUnknownMessageType = Error("unknown message type")
	// ErrUnsupportedVersion means no parser is registered for the protocol version.
	ErrUnsupportedVersion = Error("unsupported protocol version")
)
