// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package component

import (
	"reflect"

	"github.com/gogpu/viewhost"
	"github.com/gogpu/viewhost/instance"
	"github.com/gogpu/viewhost/message"
)

// Sender posts messages to one identity without holding a reference.
// The zero value is not usable; get one from NewSender or Component.Sender.
type Sender struct {
	m        *instance.Manager
	identity string
}

// NewSender returns a Sender bound to identity.
func NewSender(m *instance.Manager, identity string) Sender {
	return Sender{m: m, identity: identity}
}

// Identity returns the identity messages are sent to.
func (s Sender) Identity() string {
	return s.identity
}

// Send posts payload tagged with its dynamic Go type name.
func (s Sender) Send(payload any) error {
	tag := ""
	if payload != nil {
		tag = reflect.TypeOf(payload).String()
	}
	return s.SendMessage(message.New(tag, payload))
}

// SendMessage posts msg as is.
func (s Sender) SendMessage(msg message.Message) error {
	if err := s.m.Send(s.identity, msg); err != nil {
		viewhost.Logger().Debug("component: send failed", "identity", s.identity, "msg", msg.String(), "err", err)
		return err
	}
	return nil
}

// SendSignal forwards a changed UI property as a SignalUpdate.
func (s Sender) SendSignal(name string, value any) error {
	return s.SendMessage(message.Signal(name, value))
}
