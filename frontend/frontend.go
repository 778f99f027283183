// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

// Package frontend reads the thermocouple channels and the cold junction.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/schmidtw/thermologger/thermocouple"
	"github.com/schmidtw/thermologger/units"
)

var (
	ErrUnknownKind    = errors.New("unknown front end kind")
	ErrUnknownChannel = errors.New("unknown channel")
	ErrClosed         = errors.New("front end closed")
)

const (
	KindSimulated = "simulated"
	KindADS1115   = "ads1115"

	DefaultChannels = 4
)

// Reading is the raw voltage of one channel.  Valid is false when the channel
// is open or the converter saturated.
type Reading struct {
	Microvolts int32
	Valid      bool
}

// Frame is everything sampled in one tick.
type Frame struct {
	Channels []Reading

	// Ambient is the cold junction temperature, or units.Invalid.
	Ambient units.Temperature
}

// Invalid makes a frame where nothing could be read.
func Invalid(channels int) Frame {
	return Frame{
		Channels: make([]Reading, channels),
		Ambient:  units.Invalid,
	}
}

// Source produces one Frame per call.
type Source interface {
	Sample(ctx context.Context) (Frame, error)
	Close() error
}

// Config provides the front end configuration options.
type Config struct {
	// Kind is either "simulated" or "ads1115".
	Kind string

	// Channels is the number of thermocouple channels.
	Channels int

	ADS1115   ADS1115Config
	Simulated SimulatedConfig
}

// New creates the front end selected by the configuration.  The table is used
// by the simulator to turn temperatures into voltages.
func New(cfg Config, table *thermocouple.Table) (Source, error) {
	if cfg.Channels < 1 {
		cfg.Channels = DefaultChannels
	}

	switch strings.ToLower(cfg.Kind) {
	case "", KindSimulated:
		return NewSimulated(cfg.Channels, cfg.Simulated, table)
	case KindADS1115:
		return NewADS1115(cfg.Channels, cfg.ADS1115)
	}

	return nil, fmt.Errorf("%w: '%s'", ErrUnknownKind, cfg.Kind)
}
