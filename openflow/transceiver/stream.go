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
	"bufio"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"

	"github.com/floodlight/oftest-sub001/openflow"

	"github.com/pkg/errors"
)

// maxPacketSize is the largest message the 16-bit length field can describe.
const maxPacketSize = 0xFFFF

// Stream is a buffered I/O channel that carries length framed OpenFlow messages.
type Stream struct {
	// Underlying socket.
	channel io.ReadWriteCloser

	reader struct {
		mutex sync.Mutex
		// NOTE:
		// rd needs locking, otherwise Peek()'s result slice can be
		// corrupted by subsequent ReadN() calls because the result slice
		// is just a pointer to the reader's internal buffer.
		rd        *bufio.Reader
		timeout   time.Duration
		timestamp time.Time
	}

	writer struct {
		mutex     sync.Mutex
		timeout   time.Duration
		timestamp time.Time
	}
}

type deadline interface {
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

// NewStream returns a new buffered I/O channel on top of channel. The buffer
// always holds at least one message of the maximum size.
func NewStream(channel io.ReadWriteCloser, bufSize int) *Stream {
	if channel == nil {
		panic("nil channel")
	}
	if bufSize < maxPacketSize {
		bufSize = maxPacketSize
	}

	c := new(Stream)
	c.channel = channel
	c.reader.rd = bufio.NewReaderSize(channel, bufSize)

	return c
}

// RemoteAddr returns the peer address, or nil if the channel is not a socket.
func (r *Stream) RemoteAddr() net.Addr {
	v, ok := r.channel.(interface {
		RemoteAddr() net.Addr
	})
	if !ok {
		return nil
	}

	return v.RemoteAddr()
}

// SetReadTimeout sets read timeout of the underlying socket if it implements deadline interface.
func (r *Stream) SetReadTimeout(t time.Duration) {
	r.reader.mutex.Lock()
	defer r.reader.mutex.Unlock()

	r.reader.timeout = t
	logger.Debugf("set read timeout to %v", t)
}

// SetWriteTimeout sets write timeout of the underlying socket if it implements deadline interface.
func (r *Stream) SetWriteTimeout(t time.Duration) {
	r.writer.mutex.Lock()
	defer r.writer.mutex.Unlock()

	r.writer.timeout = t
	logger.Debugf("set write timeout to %v", t)
}

// NOTE: The caller should lock the reader mutex before calling this function.
func (r *Stream) setReadDeadline() {
	d, ok := r.channel.(deadline)
	if !ok {
		return
	}

	if r.reader.timeout > 0 {
		d.SetReadDeadline(time.Now().Add(r.reader.timeout))
	} else {
		d.SetReadDeadline(time.Time{})
	}
}

// NOTE: The caller should lock the writer mutex before calling this function.
func (r *Stream) setWriteDeadline() {
	d, ok := r.channel.(deadline)
	if !ok {
		return
	}

	if r.writer.timeout > 0 {
		d.SetWriteDeadline(time.Now().Add(r.writer.timeout))
	} else {
		d.SetWriteDeadline(time.Time{})
	}
}

// Peek returns a copy of the next n bytes without consuming them.
func (r *Stream) Peek(n int) ([]byte, error) {
	r.reader.mutex.Lock()
	defer r.reader.mutex.Unlock()

	if n <= 0 {
		return []byte{}, nil
	}

	r.setReadDeadline()
	v, err := r.reader.rd.Peek(n)
	if err != nil {
		return nil, err
	}

	// Deep copy of the peek result because v is a pointer to reader's internal
	// buffer that may be corrupted by subsequent other read calls.
	p := make([]byte, len(v))
	copy(p, v)

	return p, nil
}

// ReadN reads exactly n bytes. If fewer bytes arrive before the timeout, the
// buffered bytes stay in the stream and an error is returned.
func (r *Stream) ReadN(n int) ([]byte, error) {
	r.reader.mutex.Lock()
	defer r.reader.mutex.Unlock()

	r.setReadDeadline()
	// Wait until we have n-bytes data in the reader or timeout.
	if _, err := r.reader.rd.Peek(n); err != nil {
		return nil, err
	}

	p := make([]byte, n)
	if _, err := io.ReadFull(r.reader.rd, p); err != nil {
		return nil, err
	}
	r.reader.timestamp = time.Now()

	return p, nil
}

// ReadPacket reads the next message framed by the length field of its header.
// A length shorter than the header makes the rest of the stream unframeable.
func (r *Stream) ReadPacket() ([]byte, error) {
	header, err := r.Peek(openflow.HeaderLength)
	if err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint16(header[2:4])
	if length < openflow.HeaderLength {
		return nil, errors.Wrapf(openflow.ErrMalformedLength, "declared message length %v is shorter than the header", length)
	}

	return r.ReadN(int(length))
}

// LastRead returns the timestamp of the last successful read operation except Peek().
func (r *Stream) LastRead() time.Time {
	r.reader.mutex.Lock()
	defer r.reader.mutex.Unlock()

	return r.reader.timestamp
}

func (r *Stream) Write(p []byte) (n int, err error) {
	r.writer.mutex.Lock()
	defer r.writer.mutex.Unlock()

	r.setWriteDeadline()
	n, err = r.channel.Write(p)
	if err != nil {
		return n, err
	}
	r.writer.timestamp = time.Now()

	return n, nil
}

// LastWrite returns the timestamp of the last successful write operation.
func (r *Stream) LastWrite() time.Time {
	r.writer.mutex.Lock()
	defer r.writer.mutex.Unlock()

	return r.writer.timestamp
}

func (r *Stream) Close() error {
	return r.channel.Close()
}
