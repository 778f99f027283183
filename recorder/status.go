// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package recorder

import (
	"github.com/schmidtw/thermologger/graph"
	"github.com/schmidtw/thermologger/units"
)

// Status is what a display needs to draw everything but the graph.
type Status struct {
	Logging  bool              `json:"logging"`
	File     string            `json:"file,omitempty"`
	Fault    string            `json:"fault,omitempty"`
	Unit     units.Unit        `json:"unit"`
	Interval string            `json:"interval"`
	Ticks    uint64            `json:"ticks"`
	Ambient  units.Temperature `json:"ambient"`

	// Latest holds the most recent value of every channel in Celsius.
	Latest []units.Temperature `json:"latest"`

	// Display holds the same values formatted in the display unit.
	Display []string `json:"display"`
}

// Status copies the current state.
func (r *Recorder) Status() Status {
	r.m.Lock()
	s := Status{
		Unit:     r.unit,
		Interval: r.cfg.Intervals[r.interval].String(),
		Ticks:    r.ticks,
		Ambient:  r.ambient,
		Latest:   append([]units.Temperature(nil), r.latest...),
		Display:  make([]string, len(r.latest)),
	}
	openErr := r.openErr
	r.m.Unlock()

	for i, t := range s.Latest {
		s.Display[i] = t.Format(s.Unit)
	}

	if openErr != nil {
		s.Fault = openErr.Error()
	}
	if r.log != nil {
		s.Logging = r.log.IsOpen()
		s.File = r.log.Name()
		if err := r.log.Fault(); err != nil {
			s.Fault = err.Error()
		}
	}

	return s
}

// Snapshot copies the graph.
func (r *Recorder) Snapshot() graph.Snapshot {
	r.m.Lock()
	defer r.m.Unlock()

	return r.graph.Snapshot()
}
