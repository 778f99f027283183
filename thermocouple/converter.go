// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package thermocouple

import (
	"fmt"
	"math"

	"github.com/schmidtw/thermologger/units"
)

// InvalidVoltage is the raw reading reported for a disconnected or saturated
// channel.
const InvalidVoltage int32 = math.MinInt32

// Config selects the calibration table.
type Config struct {
	// Type is the thermocouple type letter, e.g. "K".
	Type string
}

// Converter turns raw channel voltages into compensated temperatures.
type Converter struct {
	table *Table
}

// New builds a Converter for the configured thermocouple type.
func New(cfg Config) (*Converter, error) {
	t, err := Lookup(cfg.Type)
	if err != nil {
		return nil, err
	}
	return NewConverter(t)
}

func NewConverter(t *Table) (*Converter, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInvalidTable)
	}
	return &Converter{table: t}, nil
}

func (c *Converter) Table() *Table {
	return c.table
}

// Convert compensates uv for the reference junction at ambient and looks up
// the hot end temperature.  Anything that cannot be converted is
// units.Invalid.
func (c *Converter) Convert(uv int32, ambient units.Temperature) units.Temperature {
	if uv == InvalidVoltage {
		return units.Invalid
	}

	offset, ok := c.table.Microvolts(ambient)
	if !ok {
		return units.Invalid
	}

	comp := int64(uv) + int64(offset)
	if comp <= math.MinInt32 || comp > math.MaxInt32 {
		return units.Invalid
	}

	return c.table.Temperature(int32(comp))
}

// ConvertAll converts every channel against the same ambient reading, reusing
// out when it has the capacity.
func (c *Converter) ConvertAll(uvs []int32, ambient units.Temperature, out []units.Temperature) []units.Temperature {
	out = out[:0]
	for _, uv := range uvs {
		out = append(out, c.Convert(uv, ambient))
	}
	return out
}
