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
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/floodlight/oftest-sub001/openflow"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

var (
	// ErrClosed is returned to waiters when the connection goes away.
	ErrClosed = errors.New("transceiver is closed")
	// ErrEvicted is returned to a transaction pushed out of a full pending table.
	ErrEvicted = errors.New("pending transaction is evicted")
)

// transaction collects the replies sharing the transaction ID of a request.
type transaction struct {
	mutex   sync.Mutex
	replies []openflow.Message
	err     error
	done    chan struct{}
	once    sync.Once
}

func newTransaction() *transaction {
	return &transaction{done: make(chan struct{})}
}

// add appends msg and reports whether the transaction is complete. A stats
// reply flagged with more replies keeps the transaction open.
func (r *transaction) add(msg openflow.Message) bool {
	r.mutex.Lock()
	r.replies = append(r.replies, msg)
	r.mutex.Unlock()

	if v, ok := msg.(interface{ More() bool }); ok && v.More() {
		return false
	}
	r.finish(nil)

	return true
}

func (r *transaction) finish(err error) {
	r.once.Do(func() {
		r.mutex.Lock()
		r.err = err
		r.mutex.Unlock()
		close(r.done)
	})
}

func (r *transaction) result() ([]openflow.Message, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	return r.replies, nil
}

// pendingTable maps transaction IDs to the transactions waiting for replies.
// The oldest transaction is evicted when the table is full.
type pendingTable struct {
	cache  *lru.Cache
	closed int32
}

func newPendingTable(size int) *pendingTable {
	t := new(pendingTable)
	c, err := lru.NewWithEvict(size, func(key, value interface{}) {
		err := ErrEvicted
		if atomic.LoadInt32(&t.closed) == 1 {
			err = ErrClosed
		}
		// No-op for a transaction that is already complete.
		value.(*transaction).finish(err)
	})
	if err != nil {
		panic(fmt.Sprintf("failed to init a LRU transaction table: %v", err))
	}
	t.cache = c

	return t
}

func (r *pendingTable) add(xid uint32) *transaction {
	tx := newTransaction()
	if atomic.LoadInt32(&r.closed) == 1 {
		tx.finish(ErrClosed)
		return tx
	}
	// Add replaces the value of an existing key without calling the eviction callback.
	if v, ok := r.cache.Peek(xid); ok {
		logger.Warningf("transaction ID %v is reused: the earlier transaction is evicted", xid)
		v.(*transaction).finish(ErrEvicted)
	}
	if evicted := r.cache.Add(xid, tx); evicted {
		logger.Warning("transaction table is full: the oldest transaction is evicted")
	}

	return tx
}

// deliver hands msg to the transaction waiting for its ID. It returns false if nobody waits.
func (r *pendingTable) deliver(msg openflow.Message) bool {
	xid := msg.TransactionID()
	v, ok := r.cache.Peek(xid)
	if !ok {
		return false
	}
	if v.(*transaction).add(msg) {
		r.cache.Remove(xid)
	}

	return true
}

func (r *pendingTable) contains(xid uint32) bool {
	return r.cache.Contains(xid)
}

func (r *pendingTable) remove(xid uint32) {
	r.cache.Remove(xid)
}

// close fails every pending transaction with ErrClosed.
func (r *pendingTable) close() {
	atomic.StoreInt32(&r.closed, 1)
	r.cache.Purge()
}

// messageQueue holds unsolicited messages until they are polled.
type messageQueue struct {
	mutex    sync.Mutex
	messages []openflow.Message
	limit    int
	closed   bool
	// notify is closed and replaced whenever the queue changes.
	notify chan struct{}
}

func newMessageQueue(limit int) *messageQueue {
	return &messageQueue{
		limit:  limit,
		notify: make(chan struct{}),
	}
}

func (r *messageQueue) push(msg openflow.Message) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}
	if len(r.messages) >= r.limit {
		logger.Warningf("message queue is full: dropping the oldest message (type=%v)", r.messages[0].Header().Type)
		r.messages = r.messages[1:]
	}
	r.messages = append(r.messages, msg)
	close(r.notify)
	r.notify = make(chan struct{})
}

// poll removes and returns the oldest message accepted by match, waiting for
// one to arrive if necessary.
func (r *messageQueue) poll(ctx context.Context, match func(openflow.Message) bool) (openflow.Message, error) {
	for {
		r.mutex.Lock()
		for i, v := range r.messages {
			if !match(v) {
				continue
			}
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			r.mutex.Unlock()
			return v, nil
		}
		if r.closed {
			r.mutex.Unlock()
			return nil, ErrClosed
		}
		notify := r.notify
		r.mutex.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-notify:
		}
	}
}

func (r *messageQueue) close() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	close(r.notify)
}
