// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

// Package echo mirrors the log output to a serial console.
package echo

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

const DefaultBaud = 115200

type Config struct {
	// Port is the serial device, e.g. /dev/ttyUSB0.  Empty disables the echo.
	Port string
	Baud int

	// CRLF ends lines with a carriage return as well.
	CRLF bool
}

// PortFactory opens a serial port.
type PortFactory func(path string, mode *serial.Mode) (io.WriteCloser, error)

func openSerial(path string, mode *serial.Mode) (io.WriteCloser, error) {
	return serial.Open(path, mode)
}

// Port is an open echo port.  A nil *Port discards everything.
type Port struct {
	m    sync.Mutex
	name string
	port io.WriteCloser
	crlf bool
}

// Open opens the configured port.  When no port is configured it returns
// nil and no error.
func Open(cfg Config) (*Port, error) {
	return OpenWith(cfg, openSerial)
}

// OpenWith opens the port using f.
func OpenWith(cfg Config, f PortFactory) (*Port, error) {
	if cfg.Port == "" {
		return nil, nil
	}
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}

	p, err := f(cfg.Port, &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
	}

	return &Port{
		name: cfg.Port,
		port: p,
		crlf: cfg.CRLF,
	}, nil
}

func (p *Port) Write(b []byte) (int, error) {
	if p == nil {
		return len(b), nil
	}

	p.m.Lock()
	defer p.m.Unlock()

	if p.port == nil {
		return 0, io.ErrClosedPipe
	}

	out := b
	if p.crlf {
		out = bytes.ReplaceAll(b, []byte("\n"), []byte("\r\n"))
	}
	if _, err := p.port.Write(out); err != nil {
		return 0, err
	}

	return len(b), nil
}

func (p *Port) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

func (p *Port) Close() error {
	if p == nil {
		return nil
	}

	p.m.Lock()
	defer p.m.Unlock()

	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil

	return err
}
