// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

// Package mailbox is the hand off between input handlers and the tick loop.
// Posting only sets a bit, so it is safe from any goroutine and never blocks.
package mailbox

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
	"sync/atomic"
)

var ErrUnknownEvent = errors.New("unknown event")

// Event is a single user action.  Events are bit flags so that several
// different pending events fit in one word.
type Event uint32

const (
	StartLogging Event = 1 << iota
	StopLogging
	ToggleLogging
	ResetGraph
	NextUnit
	NextInterval

	// None is returned by Take when nothing is pending.
	None Event = 0
)

var eventNames = map[Event]string{
	StartLogging:  "start_logging",
	StopLogging:   "stop_logging",
	ToggleLogging: "toggle_logging",
	ResetGraph:    "reset_graph",
	NextUnit:      "next_unit",
	NextInterval:  "next_interval",
}

// ParseEvent converts the configuration name of an event.
func ParseEvent(s string) (Event, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for e, name := range eventNames {
		if name == s {
			return e, nil
		}
	}
	return None, fmt.Errorf("%w: '%s'", ErrUnknownEvent, s)
}

func (e Event) String() string {
	if e == None {
		return "none"
	}

	var names []string
	for rest := e; rest != 0; rest &= rest - 1 {
		bit := Event(1) << bits.TrailingZeros32(uint32(rest))
		name, ok := eventNames[bit]
		if !ok {
			name = fmt.Sprintf("0x%x", uint32(bit))
		}
		names = append(names, name)
	}
	return strings.Join(names, "|")
}

func (e Event) MarshalText() ([]byte, error) {
	if _, ok := eventNames[e]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEvent, uint32(e))
	}
	return []byte(eventNames[e]), nil
}

func (e *Event) UnmarshalText(b []byte) error {
	got, err := ParseEvent(string(b))
	if err != nil {
		return err
	}
	*e = got
	return nil
}

// Mailbox holds the set of pending events.  The zero value is empty and
// ready to use.  Posting an event that is already pending is a no-op, the
// same as a second button edge before the loop has looked.
type Mailbox struct {
	pending atomic.Uint32
}

// Post marks the events as pending.
func (m *Mailbox) Post(e Event) {
	for {
		old := m.pending.Load()
		if old&uint32(e) == uint32(e) {
			return
		}
		if m.pending.CompareAndSwap(old, old|uint32(e)) {
			return
		}
	}
}

// Pending reports the events waiting without clearing them.
func (m *Mailbox) Pending() Event {
	return Event(m.pending.Load())
}

// Take removes and returns the lowest pending event, or None.
func (m *Mailbox) Take() Event {
	for {
		old := m.pending.Load()
		if old == 0 {
			return None
		}
		bit := old & -old
		if m.pending.CompareAndSwap(old, old&^bit) {
			return Event(bit)
		}
	}
}

// Drain removes and returns every pending event.
func (m *Mailbox) Drain() Event {
	return Event(m.pending.Swap(0))
}
