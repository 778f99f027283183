// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package buttons

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/schmidtw/thermologger/mailbox"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

var (
	errSampleRateTooFast = errors.New("sample rate too fast")
	errAlreadyStarted    = errors.New("already started")
	errUnknownPin        = errors.New("unknown pin")
)

const (
	defaultSampleRate   = 100 * physic.Hertz
	defaultDebounceTime = 20 * time.Millisecond
)

// Button is one input pin and the event it posts when pressed.
type Button struct {
	// Pin is the gpioreg name of the pin, e.g. "GPIO17".
	Pin string

	Event mailbox.Event

	// ActiveHigh buttons read high when pressed.  The default is a button to
	// ground with the pull up enabled.
	ActiveHigh bool

	// Held marks a button that may already be down at boot, like the one that
	// powered the device on.  It is ignored until it has been released once.
	Held bool
}

type Config struct {
	SampleRate   physic.Frequency
	DebounceTime time.Duration
	Buttons      []Button
}

// Poster receives the events.  *mailbox.Mailbox is the usual one.
type Poster interface {
	Post(mailbox.Event)
}

type Option interface {
	apply(b *Buttons)
}

type Buttons struct {
	m         sync.Mutex
	config    Config
	box       Poster
	clock     clock.Clock
	logger    *zap.Logger
	cancel    context.CancelFunc
	ioWrapper pinWrapper
	pins      []inputPin
	wg        sync.WaitGroup
}

type inputPin interface {
	In(gpio.Pull, gpio.Edge) error
	Read() gpio.Level
}

type pinWrapper interface {
	Init() error
	ByName(string) inputPin
}

type state struct {
	pressed     bool
	armed       bool
	ignoreUntil time.Time
}

func New(c Config, box Poster, opts ...Option) (*Buttons, error) {
	if c.SampleRate == 0 {
		c.SampleRate = defaultSampleRate
	}
	if c.DebounceTime == 0 {
		c.DebounceTime = defaultDebounceTime
	}
	if c.SampleRate > physic.Hertz*10000 {
		return nil, errSampleRateTooFast
	}

	b := Buttons{
		config:    c,
		box:       box,
		clock:     clock.New(),
		logger:    zap.NewNop(),
		ioWrapper: &hwWrapper{},
	}

	for _, opt := range opts {
		opt.apply(&b)
	}

	return &b, nil
}

func (b *Buttons) Start(ctx context.Context) error {
	b.m.Lock()
	defer b.m.Unlock()

	if b.cancel != nil {
		return errAlreadyStarted
	}

	if err := b.ioWrapper.Init(); err != nil {
		return err
	}

	pins := make([]inputPin, 0, len(b.config.Buttons))
	for _, btn := range b.config.Buttons {
		p := b.ioWrapper.ByName(btn.Pin)
		if p == nil {
			return fmt.Errorf("%w: '%s'", errUnknownPin, btn.Pin)
		}

		pull := gpio.PullUp
		if btn.ActiveHigh {
			pull = gpio.PullDown
		}
		if err := p.In(pull, gpio.NoEdge); err != nil {
			return fmt.Errorf("pin '%s': %w", btn.Pin, err)
		}
		pins = append(pins, p)
	}
	b.pins = pins

	states := b.initial()

	ctx, b.cancel = context.WithCancel(context.Background())
	b.wg.Add(1)
	go b.loop(ctx, states)

	b.logger.Info("buttons started", zap.Int("count", len(pins)))

	return nil
}

func (b *Buttons) Stop(ctx context.Context) {
	b.m.Lock()
	defer b.m.Unlock()

	if b.cancel != nil {
		b.cancel()
		b.wg.Wait()
		b.cancel = nil
	}
}

func (b *Buttons) loop(ctx context.Context, states []state) {
	defer b.wg.Done()

	ticker := b.clock.Ticker(b.config.SampleRate.Period())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.poll(states)
		case <-ctx.Done():
			return
		}
	}
}

func (b *Buttons) initial() []state {
	states := make([]state, len(b.pins))
	for i, btn := range b.config.Buttons {
		states[i].armed = true
		if btn.Held && b.pressed(i) {
			states[i].pressed = true
			states[i].armed = false
		}
	}
	return states
}

func (b *Buttons) pressed(i int) bool {
	return (b.pins[i].Read() == gpio.High) == b.config.Buttons[i].ActiveHigh
}

func (b *Buttons) poll(states []state) {
	now := b.clock.Now()

	for i := range b.pins {
		s := &states[i]

		pressed := b.pressed(i)
		if pressed == s.pressed || now.Before(s.ignoreUntil) {
			continue
		}

		s.pressed = pressed
		s.ignoreUntil = now.Add(b.config.DebounceTime)

		if !pressed {
			s.armed = true
			continue
		}
		if s.armed {
			b.box.Post(b.config.Buttons[i].Event)
		}
	}
}

// UseClock provides a way to set the clock used.  This is used for testing.
func UseClock(c clock.Clock) Option {
	return &clockOption{clk: c}
}

type clockOption struct {
	clk clock.Clock
}

func (c clockOption) apply(b *Buttons) {
	b.clock = c.clk
}

// UseLogger sets the zap logger.
func UseLogger(z *zap.Logger) Option {
	return &loggerOption{z: z}
}

type loggerOption struct {
	z *zap.Logger
}

func (o loggerOption) apply(b *Buttons) {
	if o.z != nil {
		b.logger = o.z
	}
}
