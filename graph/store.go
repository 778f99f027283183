// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"errors"
	"fmt"

	"github.com/schmidtw/thermologger/units"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrChannelCount     = errors.New("channel count mismatch")
)

const (
	DefaultCapacity = 100
	DefaultRows     = 4

	// minSpan is the smallest axis span in degrees.
	minSpan = 4

	// pointsPerDigit is how many points an extra axis label digit hides.
	pointsPerDigit = 5
)

// Config provides the graph configuration options.
type Config struct {
	// Capacity is the number of points kept per channel.
	Capacity int

	// Rows is the number of vertical label intervals.
	Rows int

	// Unit is the display unit the axis is computed in.
	Unit units.Unit
}

// Store is a fixed capacity history of every channel plus the axis derived
// from it.  A Store is not safe for concurrent use; the owner must copy it
// out with Snapshot while holding its own lock.
type Store struct {
	channels int
	capacity int
	rows     int
	unit     units.Unit

	// slots is channel major: channel c, slot i lives at c*capacity+i.
	slots []units.Temperature
	head  int
	count int

	scale      int
	axisMin    int
	axisMax    int
	axisDigits int
}

// New makes an empty store for the given number of channels.
func New(channels int, cfg Config) (*Store, error) {
	if cfg.Capacity == 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Rows == 0 {
		cfg.Rows = DefaultRows
	}
	if channels < 1 || cfg.Capacity < 1 || cfg.Rows < 1 {
		return nil, fmt.Errorf("%w: channels=%d capacity=%d rows=%d",
			ErrInvalidParameter, channels, cfg.Capacity, cfg.Rows)
	}

	s := Store{
		channels: channels,
		capacity: cfg.Capacity,
		rows:     cfg.Rows,
		unit:     cfg.Unit,
		slots:    make([]units.Temperature, channels*cfg.Capacity),
	}
	s.Reset()

	return &s, nil
}

// Reset forgets every point and the axis.
func (s *Store) Reset() {
	for i := range s.slots {
		s.slots[i] = units.Invalid
	}
	s.head = 0
	s.count = 0
	s.scale = 1
	s.axisMin = 0
	s.axisMax = 0
	s.axisDigits = 2
}

// Ingest stores one value per channel as the newest point.  Invalid values
// are kept as gaps.
func (s *Store) Ingest(temps []units.Temperature) error {
	if len(temps) != s.channels {
		return fmt.Errorf("%w: got %d want %d", ErrChannelCount, len(temps), s.channels)
	}

	s.head--
	if s.head < 0 {
		s.head = s.capacity - 1
	}
	if s.count < s.capacity {
		s.count++
	}

	for c, t := range temps {
		s.slots[s.index(c, 0)] = t
	}

	return nil
}

// Rescale recomputes the axis from the valid points in the store.
func (s *Store) Rescale() {
	lo, hi, ok := s.bounds()
	if !ok {
		s.scale = 1
		s.axisMin = 0
		s.axisMax = 0
		s.axisDigits = 2
		return
	}

	// Labels are whole degrees, so the bottom of the axis is too.
	s.axisMin = floorDiv(lo, 10) * 10
	s.axisMax = hi
	if s.axisMax-s.axisMin < minSpan*10 {
		s.axisMax = s.axisMin + minSpan*10
	}

	step := s.rows * 10
	s.scale = (s.axisMax - s.axisMin + step - 1) / step
	if s.scale < 1 {
		s.scale = 1
	}

	bottom := s.AxisLabel(0)
	top := s.AxisLabel(s.rows)
	s.axisDigits = clamp(max(numlength(bottom), numlength(top)), 2, 4)
}

// SetUnit changes the display unit and rescales.
func (s *Store) SetUnit(u units.Unit) {
	s.unit = u
	s.Rescale()
}

// PointAt returns the value of channel offset points before the newest one,
// or units.Invalid when there is no such point.
func (s *Store) PointAt(channel, offset int) units.Temperature {
	if channel < 0 || channel >= s.channels || offset < 0 || offset >= s.count {
		return units.Invalid
	}
	return s.slots[s.index(channel, offset)]
}

// AxisLabel is the whole degree value printed beside label row interval,
// counting up from the bottom of the axis.
func (s *Store) AxisLabel(interval int) int {
	return s.axisMin/10 + s.scale*interval
}

// Offset is how far above the bottom of the axis t is drawn, in tenths of a
// degree divided by the scale.  Invalid values return -1.
func (s *Store) Offset(t units.Temperature) int {
	if !t.Valid() {
		return -1
	}
	return (t.In(s.unit) - s.axisMin) / s.scale
}

// Visible is the number of points that fit beside axis labels of the
// current width.
func (s *Store) Visible() int {
	n := s.capacity - (s.axisDigits-2)*pointsPerDigit
	return clamp(n, 0, s.count)
}

func (s *Store) Channels() int    { return s.channels }
func (s *Store) Capacity() int    { return s.capacity }
func (s *Store) Rows() int        { return s.rows }
func (s *Store) Count() int       { return s.count }
func (s *Store) Head() int        { return s.head }
func (s *Store) Scale() int       { return s.scale }
func (s *Store) AxisMin() int     { return s.axisMin }
func (s *Store) AxisMax() int     { return s.axisMax }
func (s *Store) AxisDigits() int  { return s.axisDigits }
func (s *Store) Unit() units.Unit { return s.unit }

func (s *Store) index(channel, offset int) int {
	return channel*s.capacity + (s.head+offset)%s.capacity
}

// bounds finds the smallest and largest valid value in the display unit.
func (s *Store) bounds() (lo, hi int, ok bool) {
	for c := 0; c < s.channels; c++ {
		for i := 0; i < s.count; i++ {
			t := s.slots[s.index(c, i)]
			if !t.Valid() {
				continue
			}
			v := t.In(s.unit)
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	return lo, hi, ok
}

// numlength is the number of characters needed to print n.
func numlength(n int) int {
	switch {
	case n > 999 || n < -99:
		return 4
	case n > 99 || n < -9:
		return 3
	case n > 9 || n < 0:
		return 2
	}
	return 1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
