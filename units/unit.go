// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package units

import (
	"fmt"
	"strings"
)

// Unit is the scale a temperature is displayed and recorded in.  Stored values
// are always Celsius; the unit only applies when a value leaves the device.
type Unit int

const (
	Celsius Unit = iota
	Fahrenheit
	Kelvin
)

var unitNames = []struct {
	unit  Unit
	short string
	long  string
}{
	{unit: Celsius, short: "C", long: "celsius"},
	{unit: Fahrenheit, short: "F", long: "fahrenheit"},
	{unit: Kelvin, short: "K", long: "kelvin"},
}

// ParseUnit accepts either the single letter or the full name of the unit.
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	known := make([]string, 0, len(unitNames))
	for _, n := range unitNames {
		if s == strings.ToLower(n.short) || s == n.long {
			return n.unit, nil
		}
		known = append(known, n.long)
	}

	return Celsius, fmt.Errorf("%w: '%s' valid: %s", ErrInvalidUnit, s, strings.Join(known, ", "))
}

// Next returns the unit that follows u when the user cycles through them.
func (u Unit) Next() Unit {
	return Unit((int(u) + 1) % len(unitNames))
}

// String returns the single letter symbol used in headers and labels.
func (u Unit) String() string {
	for _, n := range unitNames {
		if n.unit == u {
			return n.short
		}
	}
	return "?"
}

func (u Unit) MarshalText() ([]byte, error) {
	for _, n := range unitNames {
		if n.unit == u {
			return []byte(n.long), nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidUnit, int(u))
}

func (u *Unit) UnmarshalText(b []byte) error {
	v, err := ParseUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
