// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package frontend

import (
	"github.com/stretchr/testify/mock"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

type mockWrapper struct {
	mock.Mock
}

func (m *mockWrapper) Open(bus string) error {
	a := m.Called(bus)
	return a.Error(0)
}

func (m *mockWrapper) Close() error {
	a := m.Called()
	return a.Error(0)
}

func (m *mockWrapper) Connect(cfg ADS1115Config) ([]adcPin, ambientSensor, error) {
	a := m.Called(cfg)
	var amb ambientSensor
	if v := a.Get(1); v != nil {
		amb = v.(ambientSensor)
	}
	return a.Get(0).([]adcPin), amb, a.Error(2)
}

type mockPin struct {
	mock.Mock
}

func (m *mockPin) Read() (analog.Sample, error) {
	a := m.Called()
	return a.Get(0).(analog.Sample), a.Error(1)
}

type mockAmbient struct {
	mock.Mock
}

func (m *mockAmbient) SenseTemp() (physic.Temperature, error) {
	a := m.Called()
	return a.Get(0).(physic.Temperature), a.Error(1)
}
