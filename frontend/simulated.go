// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package frontend

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/schmidtw/thermologger/thermocouple"
	"github.com/schmidtw/thermologger/units"
)

// SimulatedConfig describes the synthetic probes.
type SimulatedConfig struct {
	// Targets are the temperatures each channel swings around, e.g. "150C".
	Targets []units.Temperature

	// Swing is how far either side of the target a channel goes, in degrees C.
	Swing float64

	// Period is the number of samples for one full swing.
	Period int

	// Ambient is the cold junction temperature.
	Ambient units.Temperature

	// Open lists channels with no probe attached.
	Open []int
}

// Simulated produces probe voltages without any hardware attached.
type Simulated struct {
	m       sync.Mutex
	cfg     SimulatedConfig
	table   *thermocouple.Table
	open    map[int]bool
	n       int
	closed  bool
	ambient units.Temperature
}

// NewSimulated makes a simulator for the given number of channels.
func NewSimulated(channels int, cfg SimulatedConfig, table *thermocouple.Table) (*Simulated, error) {
	if table == nil {
		return nil, thermocouple.ErrInvalidTable
	}
	if cfg.Period < 1 {
		cfg.Period = 120
	}
	if len(cfg.Targets) == 0 {
		for i := 0; i < channels; i++ {
			cfg.Targets = append(cfg.Targets, units.Tenths(int64(200+250*i)))
		}
	}
	if len(cfg.Targets) != channels {
		return nil, fmt.Errorf("%w: %d targets for %d channels", ErrUnknownChannel, len(cfg.Targets), channels)
	}

	open := make(map[int]bool, len(cfg.Open))
	for _, c := range cfg.Open {
		if c < 0 || c >= channels {
			return nil, fmt.Errorf("%w: %d", ErrUnknownChannel, c)
		}
		open[c] = true
	}

	return &Simulated{
		cfg:     cfg,
		table:   table,
		open:    open,
		ambient: cfg.Ambient,
	}, nil
}

// Sample returns the next point of every channel's swing.
func (s *Simulated) Sample(ctx context.Context) (Frame, error) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.closed {
		return Invalid(len(s.cfg.Targets)), ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Invalid(len(s.cfg.Targets)), err
	}

	phase := 2 * math.Pi * float64(s.n) / float64(s.cfg.Period)
	s.n++

	frame := Frame{
		Channels: make([]Reading, len(s.cfg.Targets)),
		Ambient:  s.ambient,
	}

	ref, ok := s.table.Microvolts(s.ambient)
	if !ok {
		frame.Ambient = units.Invalid
		return frame, nil
	}

	for i, target := range s.cfg.Targets {
		if s.open[i] {
			continue
		}

		// Each channel lags the one before it by a quarter swing.
		hot := target.Celsius() + s.cfg.Swing*math.Sin(phase-float64(i)*math.Pi/2)

		uv, ok := s.table.Microvolts(units.FromCelsius(hot))
		if !ok {
			continue
		}
		frame.Channels[i] = Reading{
			Microvolts: uv - ref,
			Valid:      true,
		}
	}

	return frame, nil
}

func (s *Simulated) Close() error {
	s.m.Lock()
	defer s.m.Unlock()

	s.closed = true
	return nil
}
