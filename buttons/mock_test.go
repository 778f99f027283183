// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package buttons

import (
	"sync"

	"github.com/stretchr/testify/mock"
	"periph.io/x/conn/v3/gpio"
)

type mockWrapper struct {
	mock.Mock
}

func (m *mockWrapper) Init() error {
	a := m.Called()
	return a.Error(0)
}

func (m *mockWrapper) ByName(name string) inputPin {
	a := m.Called(name)
	if p := a.Get(0); p != nil {
		return p.(inputPin)
	}
	return nil
}

// fakePin is a pin the test can press.
type fakePin struct {
	m     sync.Mutex
	level gpio.Level
	pull  gpio.Pull
	inErr error
}

func (p *fakePin) In(pull gpio.Pull, edge gpio.Edge) error {
	p.m.Lock()
	defer p.m.Unlock()

	p.pull = pull
	return p.inErr
}

func (p *fakePin) Read() gpio.Level {
	p.m.Lock()
	defer p.m.Unlock()

	return p.level
}

func (p *fakePin) Set(l gpio.Level) {
	p.m.Lock()
	defer p.m.Unlock()

	p.level = l
}
