// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package frontend

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/schmidtw/thermologger/units"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

// ADS1115Config describes the converter board.
type ADS1115Config struct {
	// Bus is the I2C bus name, empty for the first one found.
	Bus string

	ADCAddress     uint16
	AmbientAddress uint16

	// Inputs maps each thermocouple channel to an ads1x15 channel number.
	// Numbers 0-3 are single ended, 4-7 are the differential pairs.
	Inputs []int

	// FullScale is the programmable gain range.
	FullScale physic.ElectricPotential

	// DataRate is the conversion rate.
	DataRate physic.Frequency
}

type adcPin interface {
	Read() (analog.Sample, error)
}

type ambientSensor interface {
	SenseTemp() (physic.Temperature, error)
}

type adcWrapper interface {
	Open(string) error
	Close() error
	Connect(ADS1115Config) ([]adcPin, ambientSensor, error)
}

// ADS1115 samples thermocouple amplifiers through an ADS1115 and reads the
// cold junction from an MCP9808 on the same bus.
type ADS1115 struct {
	m         sync.Mutex
	cfg       ADS1115Config
	ioWrapper adcWrapper
	pins      []adcPin
	ambient   ambientSensor
}

// NewADS1115 opens the bus and connects both devices.
func NewADS1115(channels int, cfg ADS1115Config) (*ADS1115, error) {
	return newADS1115(channels, cfg, &hwWrapper{})
}

func newADS1115(channels int, cfg ADS1115Config, w adcWrapper) (*ADS1115, error) {
	if cfg.ADCAddress == 0 {
		cfg.ADCAddress = 0x48
	}
	if cfg.AmbientAddress == 0 {
		cfg.AmbientAddress = 0x18
	}
	if cfg.FullScale == 0 {
		cfg.FullScale = 256 * physic.MilliVolt
	}
	if cfg.DataRate == 0 {
		cfg.DataRate = 8 * physic.Hertz
	}
	if len(cfg.Inputs) == 0 {
		for i := 0; i < channels; i++ {
			cfg.Inputs = append(cfg.Inputs, i)
		}
	}
	if len(cfg.Inputs) != channels {
		return nil, fmt.Errorf("%w: %d inputs for %d channels", ErrUnknownChannel, len(cfg.Inputs), channels)
	}
	for _, in := range cfg.Inputs {
		if in < 0 || in > 7 {
			return nil, fmt.Errorf("%w: %d", ErrUnknownChannel, in)
		}
	}

	if err := w.Open(cfg.Bus); err != nil {
		return nil, err
	}

	pins, ambient, err := w.Connect(cfg)
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	return &ADS1115{
		cfg:       cfg,
		ioWrapper: w,
		pins:      pins,
		ambient:   ambient,
	}, nil
}

// Sample reads every channel and the cold junction.  A channel that fails to
// read or reads at either end of the converter's range is reported invalid.
func (a *ADS1115) Sample(ctx context.Context) (Frame, error) {
	a.m.Lock()
	defer a.m.Unlock()

	if a.pins == nil {
		return Invalid(len(a.cfg.Inputs)), ErrClosed
	}

	frame := Frame{
		Channels: make([]Reading, len(a.pins)),
		Ambient:  units.Invalid,
	}

	for i, p := range a.pins {
		if err := ctx.Err(); err != nil {
			return frame, err
		}

		s, err := p.Read()
		if err != nil || s.Raw >= math.MaxInt16 || s.Raw <= math.MinInt16 {
			continue
		}
		frame.Channels[i] = Reading{
			Microvolts: int32(s.V / physic.MicroVolt),
			Valid:      true,
		}
	}

	t, err := a.ambient.SenseTemp()
	if err == nil {
		frame.Ambient = units.FromCelsius(t.Celsius())
	}

	return frame, nil
}

// Close releases the devices and the bus.
func (a *ADS1115) Close() error {
	a.m.Lock()
	defer a.m.Unlock()

	if a.pins == nil {
		return nil
	}
	a.pins = nil
	a.ambient = nil

	return a.ioWrapper.Close()
}
