// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package graph

import "github.com/schmidtw/thermologger/units"

// Snapshot is a copy of a Store that can be handed to a renderer.
type Snapshot struct {
	Unit       units.Unit `json:"unit"`
	Count      int        `json:"count"`
	Visible    int        `json:"visible"`
	Scale      int        `json:"scale"`
	AxisMin    int        `json:"axis_min"`
	AxisMax    int        `json:"axis_max"`
	AxisDigits int        `json:"axis_digits"`

	// Labels holds the axis label for each row boundary, bottom first.
	Labels []int `json:"labels"`

	// Series holds the points of each channel, newest first.
	Series [][]units.Temperature `json:"series"`

	// Offsets holds how far above the axis bottom each point of Series is
	// drawn, or -1 for a gap.
	Offsets [][]int `json:"offsets"`
}

// Snapshot copies the store's contents.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Unit:       s.unit,
		Count:      s.count,
		Visible:    s.Visible(),
		Scale:      s.scale,
		AxisMin:    s.axisMin,
		AxisMax:    s.axisMax,
		AxisDigits: s.axisDigits,
		Labels:     make([]int, s.rows+1),
		Series:     make([][]units.Temperature, s.channels),
		Offsets:    make([][]int, s.channels),
	}

	for i := range snap.Labels {
		snap.Labels[i] = s.AxisLabel(i)
	}

	for c := range snap.Series {
		series := make([]units.Temperature, s.count)
		offsets := make([]int, s.count)
		for i := range series {
			series[i] = s.slots[s.index(c, i)]
			offsets[i] = s.Offset(series[i])
		}
		snap.Series[c] = series
		snap.Offsets[c] = offsets
	}

	return snap
}
