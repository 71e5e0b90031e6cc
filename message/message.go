// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package message

import (
	"fmt"
	"reflect"
)

// Message is an opaque, tagged payload addressed to one engine instance.
type Message struct {
	// Tag names the payload kind. Of sets it to the payload's Go type name.
	Tag string

	// Payload is the message body. It is never inspected in transit.
	Payload any
}

// New creates a message with an explicit tag.
func New(tag string, payload any) Message {
	return Message{Tag: tag, Payload: payload}
}

// Of creates a message tagged with the Go type name of payload.
func Of[T any](payload T) Message {
	return Message{Tag: TagOf[T](), Payload: payload}
}

// TagOf returns the tag Of uses for payloads of type T.
func TagOf[T any]() string {
	return reflect.TypeFor[T]().String()
}

// As recovers a payload of type T.
// It reports false when the payload holds a different type.
func As[T any](msg Message) (T, bool) {
	v, ok := msg.Payload.(T)
	return v, ok
}

// String implements fmt.Stringer.
func (m Message) String() string {
	if m.Tag == "" {
		return fmt.Sprintf("Message(%T)", m.Payload)
	}
	return "Message(" + m.Tag + ")"
}

// SignalTag is the tag of messages built by Signal.
const SignalTag = "signal"

// SignalUpdate reports a changed UI property to the engine.
// Components forward reactive properties this way, one message per change.
type SignalUpdate struct {
	Name  string
	Value any
}

// Signal creates a SignalUpdate message.
func Signal(name string, value any) Message {
	return Message{Tag: SignalTag, Payload: SignalUpdate{Name: name, Value: value}}
}

// AsSignal returns the SignalUpdate carried by msg, if any.
func AsSignal(msg Message) (SignalUpdate, bool) {
	if msg.Tag != SignalTag {
		return SignalUpdate{}, false
	}
	return As[SignalUpdate](msg)
}
