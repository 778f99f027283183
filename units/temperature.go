// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Temperature is a Celsius temperature stored as fixed point tenths of a degree.
type Temperature int16

const (
	// Invalid marks a reading that is out of range or unavailable.  It is
	// never a real temperature and must not be used in arithmetic.
	Invalid Temperature = math.MinInt16

	// Placeholder is the text rendered in place of an Invalid value.
	Placeholder = "----"

	// MinTemperature and MaxTemperature bound the representable values.
	MinTemperature Temperature = math.MinInt16 + 1
	MaxTemperature Temperature = math.MaxInt16
)

// Tenths builds a Temperature from tenths of a degree Celsius, returning
// Invalid when the value does not fit.
func Tenths(v int64) Temperature {
	if v < int64(MinTemperature) || v > int64(MaxTemperature) {
		return Invalid
	}
	return Temperature(v)
}

// FromCelsius rounds a floating point Celsius value to the nearest tenth.
func FromCelsius(c float64) Temperature {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return Invalid
	}
	return Tenths(int64(math.Round(c * 10)))
}

// ParseTemperature reads values such as "25.3C", "-40F" or "300K".
func ParseTemperature(s string) (Temperature, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Invalid, fmt.Errorf("%w: '%s'", ErrInvalidTemperature, s)
	}

	u, err := ParseUnit(s[len(s)-1:])
	if err != nil {
		return Invalid, err
	}

	n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s[:len(s)-1]), "°"), 64)
	if err != nil {
		return Invalid, fmt.Errorf("%w: '%s' %v", ErrInvalidTemperature, s, err)
	}

	switch u {
	case Fahrenheit:
		n = (n - 32) * 5 / 9
	case Kelvin:
		n -= 273.15
	}

	t := FromCelsius(n)
	if !t.Valid() {
		return Invalid, fmt.Errorf("%w: '%s' out of range", ErrInvalidTemperature, s)
	}
	return t, nil
}

// Valid reports whether t holds a real temperature.
func (t Temperature) Valid() bool {
	return t != Invalid
}

// Celsius returns the value in degrees Celsius, or NaN when invalid.
func (t Temperature) Celsius() float64 {
	if !t.Valid() {
		return math.NaN()
	}
	return float64(t) / 10
}

// In returns the value in tenths of a degree of unit u.  The result for an
// Invalid temperature is meaningless; check Valid first.
func (t Temperature) In(u Unit) int {
	c := int(t)
	switch u {
	case Fahrenheit:
		return divRound(c*9, 5) + 320
	case Kelvin:
		return divRound(c*10+27315, 10)
	}
	return c
}

// Format renders the value with one decimal in unit u, e.g. "-0.5".
func (t Temperature) Format(u Unit) string {
	if !t.Valid() {
		return Placeholder
	}

	v := t.In(u)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%d", sign, v/10, v%10)
}

// String returns the temperature formatted in Celsius.
func (t Temperature) String() string {
	if !t.Valid() {
		return Placeholder
	}
	return t.Format(Celsius) + "C"
}

// divRound divides rounding half away from zero.
func divRound(n, d int) int {
	if (n < 0) != (d < 0) {
		return (n - d/2) / d
	}
	return (n + d/2) / d
}

// UnmarshalText reads a value with a unit suffix, see ParseTemperature.
func (t *Temperature) UnmarshalText(b []byte) error {
	v, err := ParseTemperature(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalJSON writes degrees Celsius, or null when invalid.
func (t Temperature) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return []byte("null"), nil
	}
	return []byte(t.Format(Celsius)), nil
}
