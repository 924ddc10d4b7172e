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
	"context"
	"encoding/binary"
	"sort"
	"sync/atomic"
	"time"

	"github.com/floodlight/oftest-sub001/openflow"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var (
	logger = logging.MustGetLogger("transceiver")
)

const (
	// Maximum time to wait for the HELLO message of a switch.
	negotiationTimeout = 30 * time.Second
	// Unanswered echo requests tolerated before the switch is considered dead.
	maxPendingEcho = 2
)

// Config tunes a Transceiver. Zero values select the defaults.
type Config struct {
	// Protocol versions accepted during the negotiation. Empty means SupportedVersions().
	Versions []uint8
	// Allowed idle time before we send an echo request to a switch.
	EchoInterval time.Duration
	// Read timeout of the socket. Write timeout is twice of it. It should be less than EchoInterval.
	ReadTimeout time.Duration
	// Maximum number of transactions waiting for replies.
	MaxPending int
	// Maximum number of unsolicited messages kept for Poll.
	QueueSize int
}

func (r Config) withDefaults() Config {
	if len(r.Versions) == 0 {
		r.Versions = SupportedVersions()
	}
	if r.EchoInterval <= 0 {
		r.EchoInterval = 10 * time.Second
	}
	if r.ReadTimeout <= 0 {
		r.ReadTimeout = 1 * time.Second
	}
	if r.MaxPending <= 0 {
		r.MaxPending = 256
	}
	if r.QueueSize <= 0 {
		r.QueueSize = 4096
	}

	return r
}

// Transceiver is the controller side of a switch connection. It negotiates
// the protocol version, answers echo requests, keeps the connection alive,
// matches replies to requests and queues every other message for Poll.
type Transceiver struct {
	stream   *Stream
	config   Config
	versions []uint8
	// Negotiated protocol version. Zero until the negotiation is done.
	version     uint32
	negotiated  chan struct{}
	xid         uint32
	pending     *pendingTable
	unsolicited *messageQueue
	pingCounter uint
}

func NewTransceiver(stream *Stream, config Config) *Transceiver {
	if stream == nil {
		panic("stream is nil")
	}

	config = config.withDefaults()
	versions := make([]uint8, 0, len(config.Versions))
	for _, v := range config.Versions {
		if _, ok := factories[v]; !ok {
			logger.Warningf("ignoring unsupported OpenFlow version %#x", v)
			continue
		}
		versions = append(versions, v)
	}
	if len(versions) == 0 {
		panic("no supported OpenFlow version is accepted")
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

	return &Transceiver{
		stream:      stream,
		config:      config,
		versions:    versions,
		negotiated:  make(chan struct{}),
		pending:     newPendingTable(config.MaxPending),
		unsolicited: newMessageQueue(config.QueueSize),
	}
}

// Version returns the negotiated protocol version.
func (r *Transceiver) Version() (negotiated bool, version uint8) {
	v := atomic.LoadUint32(&r.version)
	if v == 0 {
		// Not yet negotiated
		return false, 0
	}

	return true, uint8(v)
}

// Negotiated is closed once the protocol version has been agreed on.
func (r *Transceiver) Negotiated() <-chan struct{} {
	return r.negotiated
}

// NextXID returns a fresh transaction ID. Zero is never returned since
// switches use it for asynchronous messages.
func (r *Transceiver) NextXID() uint32 {
	for {
		if v := atomic.AddUint32(&r.xid, 1); v != 0 {
			return v
		}
	}
}

func (r *Transceiver) highest() factory {
	return factories[r.versions[len(r.versions)-1]]
}

func (r *Transceiver) accepts(version uint8) bool {
	for _, v := range r.versions {
		if v == version {
			return true
		}
	}

	return false
}

func isTimeout(err error) bool {
	type Timeout interface {
		Timeout() bool
	}

	if v, ok := errors.Cause(err).(Timeout); ok {
		return v.Timeout()
	}

	return false
}

func isTemporaryErr(err error) bool {
	e, ok := errors.Cause(err).(interface {
		Temporary() bool
	})
	return ok && e.Temporary()
}

// Run serves the connection until ctx is canceled or the switch disconnects.
// Every waiting Transact and Poll call fails with ErrClosed when it returns.
func (r *Transceiver) Run(ctx context.Context) error {
	defer logger.Info("transceiver is closed")
	defer r.unsolicited.close()
	defer r.pending.close()

	r.stream.SetReadTimeout(r.config.ReadTimeout)
	r.stream.SetWriteTimeout(r.config.ReadTimeout * 2)

	if err := r.write(r.highest().newHello(r.NextXID())); err != nil {
		return errors.Wrap(err, "failed to send HELLO message")
	}

	readerCtx, cancelReader := context.WithCancel(ctx)
	defer cancelReader()
	reader := r.runReader(readerCtx)

	// Negotiate the protocol version
	if err := r.negotiate(ctx, reader); err != nil {
		return errors.Wrap(err, "failed to negotiate the protocol version")
	}

	// Infinite loop
	for {
		select {
		case <-ctx.Done():
			logger.Info("context done")
			return nil
		case packet, ok := <-reader:
			if !ok {
				logger.Info("the reader channel is closed")
				return nil
			}
			if err := r.dispatch(packet); err != nil {
				if !isTemporaryErr(err) {
					return err
				}
				// Ignore the temporary error. Just log the error and keep go on.
				logger.Errorf("failed to dispatch the packet: %v", err)
			}
		}
	}
}

func (r *Transceiver) negotiate(ctx context.Context, reader <-chan []byte) error {
	select {
	case <-ctx.Done():
		return errors.New("context done")
	case <-time.After(negotiationTimeout):
		return errors.New("inactive for too long")
	case packet, ok := <-reader:
		if !ok {
			return errors.New("the reader channel is closed")
		}
		// The first message should be HELLO whose type is the same in every version.
		if packet[1] != r.highest().helloType {
			return errors.New("missing HELLO message")
		}

		version := packet[0]
		if highest := r.versions[len(r.versions)-1]; version > highest {
			version = highest
		}
		if !r.accepts(version) {
			reason := "no common OpenFlow version"
			if err := r.write(r.highest().newHelloFailed(binary.BigEndian.Uint32(packet[4:8]), reason)); err != nil {
				logger.Errorf("failed to send HELLO_FAILED error: %v", err)
			}
			return errors.Wrapf(openflow.ErrUnsupportedVersion, "switch version %#x", packet[0])
		}

		atomic.StoreUint32(&r.version, uint32(version))
		close(r.negotiated)
		logger.Infof("negotiated to OpenFlow version %#x", version)

		return nil
	}
}

func (r *Transceiver) runReader(ctx context.Context) <-chan []byte {
	c := make(chan []byte, 64)
	go func() {
		// The channel c will be closed when this goroutine returns in order to notice the connection has been closed.
		defer close(c)
		defer logger.Info("transceiver reader is closed")

		lastActivated := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			packet, err := r.stream.ReadPacket()
			if err != nil {
				if !isTimeout(err) {
					logger.Errorf("failed to read the next packet: %v", err)
					return
				}
				// Timeout occurs. Send a ping request if necessary.
				if time.Since(lastActivated) > r.config.EchoInterval {
					if err := r.sendEchoRequest(); err != nil {
						logger.Errorf("failed to send an echo request: %v", err)
						return
					}
					lastActivated = time.Now()
				}
				continue
			}
			lastActivated = time.Now()

			handled, err := r.handleEcho(packet)
			if err != nil {
				logger.Errorf("failed to handle the echo request or response: %v", err)
				return
			}
			if handled {
				continue
			}

			select {
			case c <- packet:
			case <-ctx.Done():
				return
			}
		}
	}()

	return c
}

func (r *Transceiver) sendEchoRequest() error {
	if r.pingCounter >= maxPendingEcho {
		return errors.New("device does not respond to our echo request")
	}

	f := r.highest()
	if ok, v := r.Version(); ok {
		f = factories[v]
	}
	// We use current timestamp to check network latency between our controller and a switch.
	timestamp := make([]byte, 8)
	binary.BigEndian.PutUint64(timestamp, uint64(time.Now().UnixNano()))
	if err := r.write(f.newEchoRequest(r.NextXID(), timestamp)); err != nil {
		return errors.Wrap(err, "failed to send ECHO_REQUEST message")
	}
	r.pingCounter++

	return nil
}

// handleEcho answers echo requests and consumes the replies to our keep-alive
// requests. Replies to echo requests sent by Transact are left to dispatch.
func (r *Transceiver) handleEcho(packet []byte) (handled bool, err error) {
	header, payload, err := openflow.DecodeHeader(packet)
	if err != nil {
		return false, err
	}
	f, ok := factories[header.Version]
	if !ok {
		return false, nil
	}

	switch header.Type {
	case f.echoRequestType:
		logger.Debug("received an ECHO_REQUEST packet")
		if err := r.write(f.newEchoReply(header.XID, payload)); err != nil {
			return true, errors.Wrap(err, "failed to send ECHO_REPLY message")
		}
		return true, nil
	case f.echoReplyType:
		if r.pending.contains(header.XID) {
			return false, nil
		}
		r.pingCounter = 0
		if len(payload) == 8 {
			sent := time.Unix(0, int64(binary.BigEndian.Uint64(payload)))
			logger.Debugf("transceiver latency: %v", time.Since(sent))
		}
		return true, nil
	default:
		return false, nil
	}
}

func (r *Transceiver) dispatch(packet []byte) error {
	if _, v := r.Version(); packet[0] != v {
		return errors.Wrapf(openflow.ErrUnsupportedVersion, "mis-matched OpenFlow version: negotiated=%v, packet=%v", v, packet[0])
	}

	msg, err := openflow.Decode(packet)
	if err != nil {
		return errors.Wrapf(err, "failed to decode the packet (type=%v)", packet[1])
	}
	if r.pending.deliver(msg) {
		return nil
	}
	if msg.Header().Type == r.highest().helloType {
		logger.Debug("ignoring the duplicated HELLO message")
		return nil
	}
	r.unsolicited.push(msg)

	return nil
}

func (r *Transceiver) write(msg openflow.Message) error {
	packet, err := msg.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := r.stream.Write(packet); err != nil {
		return err
	}

	return nil
}

func (r *Transceiver) prepare(msg openflow.Message) (uint32, error) {
	if ok, v := r.Version(); ok {
		packet, err := msg.MarshalBinary()
		if err != nil {
			return 0, err
		}
		if packet[0] != v {
			return 0, errors.Wrapf(openflow.ErrUnsupportedVersion, "message version %#x on a %#x connection", packet[0], v)
		}
	}
	if msg.TransactionID() == 0 {
		msg.SetTransactionID(r.NextXID())
	}

	return msg.TransactionID(), nil
}

// Send writes msg to the switch, assigning a fresh transaction ID if it has
// none, and returns the transaction ID it was sent with.
func (r *Transceiver) Send(msg openflow.Message) (xid uint32, err error) {
	xid, err = r.prepare(msg)
	if err != nil {
		return 0, err
	}
	if err := r.write(msg); err != nil {
		return 0, err
	}

	return xid, nil
}

// Transact sends msg and waits for its replies. Stats replies flagged with
// more replies are collected until the last one arrives.
func (r *Transceiver) Transact(ctx context.Context, msg openflow.Message) ([]openflow.Message, error) {
	xid, err := r.prepare(msg)
	if err != nil {
		return nil, err
	}

	tx := r.pending.add(xid)
	if err := r.write(msg); err != nil {
		r.pending.remove(xid)
		return nil, err
	}

	select {
	case <-ctx.Done():
		r.pending.remove(xid)
		return nil, ctx.Err()
	case <-tx.done:
		return tx.result()
	}
}

// Poll returns the oldest unsolicited message of msgType, waiting for one if necessary.
func (r *Transceiver) Poll(ctx context.Context, msgType uint8) (openflow.Message, error) {
	return r.unsolicited.poll(ctx, func(msg openflow.Message) bool {
		return msg.Header().Type == msgType
	})
}

// PollAny returns the oldest unsolicited message, waiting for one if necessary.
func (r *Transceiver) PollAny(ctx context.Context) (openflow.Message, error) {
	return r.unsolicited.poll(ctx, func(openflow.Message) bool { return true })
}

func (r *Transceiver) Close() error {
	return r.stream.Close()
}
