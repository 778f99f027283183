// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package thermocouple

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/schmidtw/thermologger/units"
)

var (
	ErrInvalidTable = errors.New("invalid calibration table")
	ErrUnknownType  = errors.New("unknown thermocouple type")
)

// Point is one calibration sample: the thermocouple output in microvolts with
// the reference junction held at 0C, and the matching hot end temperature.
type Point struct {
	Temperature units.Temperature
	Microvolts  int32
}

// Table maps compensated voltage to temperature.  A Table never changes after
// it is built, so it is safe to share.
type Table struct {
	name   string
	points []Point
}

// NewTable validates and copies the points.  Both columns must be strictly
// increasing.
func NewTable(name string, points []Point) (*Table, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: %s needs at least 2 points", ErrInvalidTable, name)
	}

	for i, p := range points {
		if !p.Temperature.Valid() {
			return nil, fmt.Errorf("%w: %s point %d has an invalid temperature", ErrInvalidTable, name, i)
		}
		if i == 0 {
			continue
		}
		prev := points[i-1]
		if p.Temperature <= prev.Temperature || p.Microvolts <= prev.Microvolts {
			return nil, fmt.Errorf("%w: %s point %d is not strictly increasing", ErrInvalidTable, name, i)
		}
	}

	t := Table{
		name:   name,
		points: make([]Point, len(points)),
	}
	copy(t.points, points)

	return &t, nil
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Len() int {
	return len(t.points)
}

// Point returns the i-th calibration point.
func (t *Table) Point(i int) Point {
	return t.points[i]
}

// Temperature looks up the temperature for a compensated voltage.  Voltages
// outside the table, including the end points' neighbours, yield
// units.Invalid; the end points themselves are inside.
func (t *Table) Temperature(uv int32) units.Temperature {
	i := sort.Search(len(t.points), func(i int) bool {
		return t.points[i].Microvolts >= uv
	})

	switch {
	case i == len(t.points):
		return units.Invalid
	case t.points[i].Microvolts == uv:
		return t.points[i].Temperature
	case i == 0:
		return units.Invalid
	}

	lo, hi := t.points[i-1], t.points[i]
	v := lerp(int64(uv),
		int64(lo.Microvolts), int64(hi.Microvolts),
		int64(lo.Temperature), int64(hi.Temperature))

	return units.Tenths(v)
}

// Microvolts is the reverse lookup, used to turn the reference junction
// temperature into the voltage it hides from the measurement.
func (t *Table) Microvolts(temp units.Temperature) (int32, bool) {
	if !temp.Valid() {
		return 0, false
	}

	i := sort.Search(len(t.points), func(i int) bool {
		return t.points[i].Temperature >= temp
	})

	switch {
	case i == len(t.points):
		return 0, false
	case t.points[i].Temperature == temp:
		return t.points[i].Microvolts, true
	case i == 0:
		return 0, false
	}

	lo, hi := t.points[i-1], t.points[i]
	v := lerp(int64(temp),
		int64(lo.Temperature), int64(hi.Temperature),
		int64(lo.Microvolts), int64(hi.Microvolts))

	return int32(v), true
}

// lerp interpolates y for x in [x0, x1], rounding to the nearest integer.
// Callers guarantee x0 <= x <= x1, x0 < x1 and y0 < y1.
func lerp(x, x0, x1, y0, y1 int64) int64 {
	num := (x - x0) * (y1 - y0)
	den := x1 - x0
	return y0 + (2*num+den)/(2*den)
}

var tables = map[string]*Table{}

func register(t *Table) *Table {
	tables[strings.ToUpper(t.name)] = t
	return t
}

// Lookup finds a built in table by thermocouple type letter.
func Lookup(name string) (*Table, error) {
	t, ok := tables[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		known := make([]string, 0, len(tables))
		for k := range tables {
			known = append(known, k)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("%w: '%s' valid: %s", ErrUnknownType, name, strings.Join(known, ", "))
	}
	return t, nil
}

func mustTable(name string, points []Point) *Table {
	t, err := NewTable(name, points)
	if err != nil {
		panic(err)
	}
	return t
}
