// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package thermocouple

import (
	"fmt"
	"math"
	"testing"

	"github.com/schmidtw/thermologger/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceK is the ITS-90 type K polynomial, E(t) in millivolts.
func referenceK(t float64) float64 {
	if t < 0 {
		c := []float64{
			0.0,
			0.394501280250e-01, 0.236223735980e-04, -0.328589067840e-06,
			-0.499048287770e-08, -0.675090591730e-10, -0.574103274280e-12,
			-0.310888728940e-14, -0.104516093650e-16, -0.198892668780e-19,
			-0.163226974860e-22,
		}
		return poly(c, t)
	}

	c := []float64{
		-0.176004136860e-01,
		0.389212049750e-01, 0.185587700320e-04, -0.994575928740e-07,
		0.318409457190e-09, -0.560728448890e-12, 0.560750590590e-15,
		-0.320207200030e-18, 0.971511471520e-22, -0.121047212750e-25,
	}
	a0, a1, a2 := 0.118597600000e+00, -0.118343200000e-03, 0.126968600000e+03
	return poly(c, t) + a0*math.Exp(a1*(t-a2)*(t-a2))
}

func poly(c []float64, t float64) float64 {
	var sum, p float64 = 0, 1
	for _, k := range c {
		sum += k * p
		p *= t
	}
	return sum
}

func TestTypeKAgainstReference(t *testing.T) {
	// Worst case interpolation error in tenths; the curve bends hardest at
	// the cold end of the table.
	bands := []struct {
		from, to  int
		tolerance int
	}{
		{from: -2700, to: -2001, tolerance: 20},
		{from: -2000, to: -1, tolerance: 3},
		{from: 0, to: 13700, tolerance: 1},
	}

	for _, b := range bands {
		t.Run(fmt.Sprintf("%d..%d", b.from, b.to), func(t *testing.T) {
			for t10 := b.from; t10 <= b.to; t10++ {
				uv := int32(math.Round(referenceK(float64(t10)/10) * 1000))
				got := TypeK.Temperature(uv)
				if !got.Valid() {
					t.Fatalf("%d uV (%d) was out of range", uv, t10)
				}
				if d := int(got) - t10; d > b.tolerance || d < -b.tolerance {
					t.Fatalf("%d uV: got %d want %d +/- %d", uv, got, t10, b.tolerance)
				}
			}
		})
	}
}

func TestConvert(t *testing.T) {
	tbl, err := NewTable("small", small)
	require.NoError(t, err)
	c, err := NewConverter(tbl)
	require.NoError(t, err)

	tests := []struct {
		description string
		uv          int32
		ambient     units.Temperature
		expect      units.Temperature
	}{
		{
			description: "midpoint with the junction at zero",
			uv:          125,
			ambient:     0,
			expect:      50,
		}, {
			description: "junction offset is added before the lookup",
			uv:          0,
			ambient:     50,
			expect:      50,
		}, {
			description: "negative junction",
			uv:          200,
			ambient:     -50,
			expect:      40,
		}, {
			description: "invalid raw reading",
			uv:          InvalidVoltage,
			ambient:     0,
			expect:      units.Invalid,
		}, {
			description: "invalid ambient",
			uv:          125,
			ambient:     units.Invalid,
			expect:      units.Invalid,
		}, {
			description: "ambient outside the table",
			uv:          125,
			ambient:     200,
			expect:      units.Invalid,
		}, {
			description: "compensated voltage outside the table",
			uv:          200,
			ambient:     50,
			expect:      units.Invalid,
		}, {
			description: "huge raw reading does not wrap",
			uv:          math.MaxInt32,
			ambient:     100,
			expect:      units.Invalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expect, c.Convert(tc.uv, tc.ambient))
		})
	}
}

func TestConvertTypeKColdJunction(t *testing.T) {
	c, err := New(Config{Type: "K"})
	require.NoError(t, err)

	tests := []struct {
		ambient units.Temperature
		hot     units.Temperature
	}{
		{ambient: 250, hot: 1000},
		{ambient: -100, hot: 500},
		{ambient: 300, hot: -500},
		{ambient: 220, hot: 2000},
	}

	for _, tc := range tests {
		t.Run(tc.hot.String()+"@"+tc.ambient.String(), func(t *testing.T) {
			raw := referenceK(tc.hot.Celsius()) - referenceK(tc.ambient.Celsius())
			uv := int32(math.Round(raw * 1000))

			got := c.Convert(uv, tc.ambient)
			assert.InDelta(t, int(tc.hot), int(got), 1)
		})
	}
}

func TestConvertAll(t *testing.T) {
	tbl, err := NewTable("small", small)
	require.NoError(t, err)
	c, err := NewConverter(tbl)
	require.NoError(t, err)

	buf := make([]units.Temperature, 0, 4)
	got := c.ConvertAll([]int32{125, InvalidVoltage, -100, 9999}, 0, buf)

	assert.Equal(t, []units.Temperature{50, units.Invalid, -50, units.Invalid}, got)
	assert.Same(t, c.Table(), tbl)
}

func TestNewConverterErrors(t *testing.T) {
	_, err := NewConverter(nil)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = New(Config{Type: "nope"})
	assert.ErrorIs(t, err, ErrUnknownType)
}
