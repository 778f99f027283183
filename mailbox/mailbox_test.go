// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package mailbox

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		description string
		in          string
		expect      Event
		expectErr   error
	}{
		{
			description: "start",
			in:          "start_logging",
			expect:      StartLogging,
		}, {
			description: "mixed case and spaces",
			in:          " Next_Unit ",
			expect:      NextUnit,
		}, {
			description: "unknown",
			in:          "launch",
			expectErr:   ErrUnknownEvent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert := assert.New(t)

			got, err := ParseEvent(tc.in)

			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				assert.Equal(None, got)
				return
			}

			assert.NoError(err)
			assert.Equal(tc.expect, got)
		})
	}
}

func TestEventText(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	for e := range eventNames {
		b, err := e.MarshalText()
		require.NoError(err)

		var got Event
		require.NoError(got.UnmarshalText(b))
		assert.Equal(e, got)
	}

	_, err := (StartLogging | ResetGraph).MarshalText()
	assert.ErrorIs(err, ErrUnknownEvent)

	assert.Equal("none", None.String())
	assert.Equal("start_logging|reset_graph", (StartLogging | ResetGraph).String())
}

func TestTakeLowestFirst(t *testing.T) {
	assert := assert.New(t)

	var m Mailbox
	assert.Equal(None, m.Take())

	m.Post(NextUnit)
	m.Post(StartLogging)
	m.Post(NextUnit)

	assert.Equal(StartLogging|NextUnit, m.Pending())
	assert.Equal(StartLogging, m.Take())
	assert.Equal(NextUnit, m.Take())
	assert.Equal(None, m.Take())
}

func TestDrain(t *testing.T) {
	assert := assert.New(t)

	var m Mailbox
	m.Post(ResetGraph | NextInterval)

	assert.Equal(ResetGraph|NextInterval, m.Drain())
	assert.Equal(None, m.Pending())
}

func TestConcurrentPosts(t *testing.T) {
	var m Mailbox
	var wg sync.WaitGroup

	events := []Event{StartLogging, StopLogging, ToggleLogging, ResetGraph, NextUnit, NextInterval}
	for _, e := range events {
		wg.Add(1)
		go func(e Event) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				m.Post(e)
			}
		}(e)
	}
	wg.Wait()

	var got Event
	for e := m.Take(); e != None; e = m.Take() {
		got |= e
	}
	assert.Equal(t, StartLogging|StopLogging|ToggleLogging|ResetGraph|NextUnit|NextInterval, got)
}
