// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package message carries type-erased messages from UI code to an embedded
// engine instance.
//
// A [Message] is a tag plus an opaque payload. The delivery path never looks
// inside the payload; the receiving renderer recovers it with [As] or a type
// switch on [Message.Payload].
//
// A [Queue] is the per-instance delivery path. It is bounded: when full, the
// oldest message is dropped and a counter incremented, so senders on the UI
// thread never block. Staleness absorbs backpressure.
//
//	q := message.NewQueue(4)
//	q.Push(message.Of(SetSpeed(2)))
//	for _, msg := range q.Drain() {
//	    if speed, ok := message.As[SetSpeed](msg); ok {
//	        ...
//	    }
//	}
package message
