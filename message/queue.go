// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package message

import (
	"sync"
)

// DefaultCapacity is the queue bound used when none is configured.
const DefaultCapacity = 256

// Queue is a bounded FIFO of messages for one instance.
//
// Push never blocks: when the queue is full the oldest message is dropped
// and Dropped increments. Queue is safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	buf     []Message // ring buffer, len(buf) == capacity
	head    int       // index of the oldest message
	n       int       // number of queued messages
	dropped uint64
}

// NewQueue creates a queue holding at most capacity messages.
// A capacity below 1 selects DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Queue{buf: make([]Message, capacity)}
}

// Push enqueues msg. It reports false when an older message had to be
// dropped to make room.
func (q *Queue) Push(msg Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	capacity := len(q.buf)
	if q.n == capacity {
		q.buf[q.head] = Message{}
		q.head = (q.head + 1) % capacity
		q.n--
		q.dropped++
		q.buf[(q.head+q.n)%capacity] = msg
		q.n++
		return false
	}
	q.buf[(q.head+q.n)%capacity] = msg
	q.n++
	return true
}

// Drain removes and returns every queued message in send order.
// It returns nil when the queue is empty.
func (q *Queue) Drain() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.n == 0 {
		return nil
	}
	out := make([]Message, q.n)
	capacity := len(q.buf)
	for i := range q.n {
		idx := (q.head + i) % capacity
		out[i] = q.buf[idx]
		q.buf[idx] = Message{}
	}
	q.head = 0
	q.n = 0
	return out
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Cap returns the queue bound.
func (q *Queue) Cap() int {
	return len(q.buf)
}

// Dropped returns how many messages were discarded because the queue was full.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
