// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package frontend

import (
	"errors"
	"sync"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/devices/v3/mcp9808"
	"periph.io/x/host/v3"
)

var errAlreadyOpen = errors.New("already open")

type hwWrapper struct {
	m       sync.Mutex
	bus     i2c.BusCloser
	adc     *ads1x15.Dev
	ambient *mcp9808.Dev
	pins    []ads1x15.PinADC
}

func (h *hwWrapper) Open(name string) (err error) {
	h.m.Lock()
	defer h.m.Unlock()

	if h.bus != nil {
		return errAlreadyOpen
	}

	if _, err = host.Init(); err != nil {
		return err
	}

	h.bus, err = i2creg.Open(name)
	return err
}

func (h *hwWrapper) Close() (err error) {
	h.m.Lock()
	defer h.m.Unlock()

	for _, p := range h.pins {
		err = multierr.Append(err, p.Halt())
	}
	h.pins = nil

	if h.adc != nil {
		err = multierr.Append(err, h.adc.Halt())
		h.adc = nil
	}
	if h.ambient != nil {
		err = multierr.Append(err, h.ambient.Halt())
		h.ambient = nil
	}
	if h.bus != nil {
		err = multierr.Append(err, h.bus.Close())
		h.bus = nil
	}

	return err
}

func (h *hwWrapper) Connect(cfg ADS1115Config) ([]adcPin, ambientSensor, error) {
	h.m.Lock()
	defer h.m.Unlock()

	if h.bus == nil {
		return nil, nil, errors.New("invalid state")
	}

	adc, err := ads1x15.NewADS1115(h.bus, &ads1x15.Opts{I2cAddress: cfg.ADCAddress})
	if err != nil {
		return nil, nil, err
	}
	h.adc = adc

	pins := make([]adcPin, 0, len(cfg.Inputs))
	for _, in := range cfg.Inputs {
		p, err := adc.PinForChannel(ads1x15.Channel(in), cfg.FullScale, cfg.DataRate, ads1x15.BestQuality)
		if err != nil {
			return nil, nil, err
		}
		h.pins = append(h.pins, p)
		pins = append(pins, p)
	}

	opts := mcp9808.DefaultOpts
	opts.Addr = int(cfg.AmbientAddress)
	h.ambient, err = mcp9808.New(h.bus, &opts)
	if err != nil {
		return nil, nil, err
	}

	return pins, h.ambient, nil
}
