// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

// Package recorder runs the sample loop: every tick the channels are read,
// converted, added to the graph and appended to the log file, in that order.
package recorder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/schmidtw/thermologger/frontend"
	"github.com/schmidtw/thermologger/graph"
	"github.com/schmidtw/thermologger/mailbox"
	"github.com/schmidtw/thermologger/thermocouple"
	"github.com/schmidtw/thermologger/units"
	"go.uber.org/zap"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	errAlreadyStarted   = errors.New("already started")
)

const defaultEventPoll = 50 * time.Millisecond

// DefaultIntervals are the sample intervals the interval button steps through.
var DefaultIntervals = []time.Duration{
	time.Second,
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
	time.Minute,
}

// Log is the storage side of the recorder.  *datalog.Logger is one.
type Log interface {
	Open(baseName string, unit units.Unit) (string, error)
	AppendRow(elapsed time.Duration, temps []units.Temperature) error
	Flush(force bool) error
	Close() error
	IsOpen() bool
	Name() string
	Fault() error
}

type Config struct {
	// Intervals are the selectable sample intervals.  The first is used at
	// boot.
	Intervals []time.Duration

	// EventPoll is how often pending button events are looked at between
	// samples.
	EventPoll time.Duration

	// BaseName is the log file name prefix, empty for the logger's default.
	BaseName string

	// AutoStart opens a log file as soon as the loop runs.
	AutoStart bool

	// Unit is the display unit at boot.
	Unit units.Unit
}

// Parts are the pieces the recorder drives.  Log and Mailbox are optional.
type Parts struct {
	Source    frontend.Source
	Converter *thermocouple.Converter
	Graph     *graph.Store
	Log       Log
	Mailbox   *mailbox.Mailbox
}

type Option interface {
	apply(r *Recorder)
}

type Recorder struct {
	m        sync.Mutex
	cfg      Config
	channels int
	source   frontend.Source
	conv     *thermocouple.Converter
	graph    *graph.Store
	log      Log
	box      *mailbox.Mailbox
	clock    clock.Clock
	logger   *zap.Logger
	metrics  *Metrics

	unit           units.Unit
	interval       int
	intervalChange bool
	openedAt       time.Time
	openErr        error
	latest         []units.Temperature
	ambient        units.Temperature
	ticks          uint64

	uvs []int32

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg Config, p Parts, opts ...Option) (*Recorder, error) {
	if p.Source == nil || p.Converter == nil || p.Graph == nil {
		return nil, ErrInvalidParameter
	}
	if len(cfg.Intervals) == 0 {
		cfg.Intervals = DefaultIntervals
	}
	for _, d := range cfg.Intervals {
		if d <= 0 {
			return nil, ErrInvalidParameter
		}
	}
	if cfg.EventPoll <= 0 {
		cfg.EventPoll = defaultEventPoll
	}
	if p.Mailbox == nil {
		p.Mailbox = new(mailbox.Mailbox)
	}

	channels := p.Graph.Channels()

	r := Recorder{
		cfg:      cfg,
		channels: channels,
		source:   p.Source,
		conv:     p.Converter,
		graph:    p.Graph,
		log:      p.Log,
		box:      p.Mailbox,
		clock:    clock.New(),
		logger:   zap.NewNop(),
		unit:     cfg.Unit,
		latest:   invalid(channels),
		ambient:  units.Invalid,
		uvs:      make([]int32, channels),
	}

	for _, opt := range opts {
		opt.apply(&r)
	}

	r.graph.SetUnit(r.unit)

	return &r, nil
}

// Mailbox is where input handlers post events for the recorder.
func (r *Recorder) Mailbox() *mailbox.Mailbox {
	return r.box
}

// Interval is the current sample interval.
func (r *Recorder) Interval() time.Duration {
	r.m.Lock()
	defer r.m.Unlock()

	return r.cfg.Intervals[r.interval]
}

// Tick handles pending events and then takes one sample.  Only the context
// being canceled is returned as an error; everything else is absorbed so the
// loop keeps going.
func (r *Recorder) Tick(ctx context.Context) error {
	r.HandleEvents()

	frame, err := r.source.Sample(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Warn("sampling failed", zap.Error(err))
		r.metrics.sampleError()
		frame = frontend.Invalid(r.channels)
	}

	temps := r.convert(frame)

	r.m.Lock()
	if err := r.graph.Ingest(temps); err != nil {
		r.logger.Error("graph ingest failed", zap.Error(err))
	}
	r.graph.Rescale()
	r.latest = temps
	r.ambient = frame.Ambient
	r.ticks++
	openedAt := r.openedAt
	r.m.Unlock()

	r.metrics.tick(temps)

	if r.log != nil && r.log.IsOpen() {
		elapsed := r.clock.Since(openedAt)
		if err := r.log.AppendRow(elapsed, temps); err != nil {
			r.logger.Debug("row not written", zap.Error(err))
		}
		if err := r.log.Flush(false); err != nil {
			r.logger.Debug("flush failed", zap.Error(err))
		}
	}

	return nil
}

func (r *Recorder) convert(frame frontend.Frame) []units.Temperature {
	temps := invalid(r.channels)

	// Without the cold junction no channel can be compensated.
	if !frame.Ambient.Valid() || len(frame.Channels) != r.channels {
		return temps
	}

	for i, rd := range frame.Channels {
		r.uvs[i] = thermocouple.InvalidVoltage
		if rd.Valid {
			r.uvs[i] = rd.Microvolts
		}
	}

	return r.conv.ConvertAll(r.uvs, frame.Ambient, temps)
}

// HandleEvents acts on every pending event, lowest first.
func (r *Recorder) HandleEvents() {
	for e := r.box.Take(); e != mailbox.None; e = r.box.Take() {
		r.logger.Debug("event", zap.Stringer("event", e))

		switch e {
		case mailbox.StartLogging:
			r.startLogging()
		case mailbox.StopLogging:
			r.stopLogging()
		case mailbox.ToggleLogging:
			if r.log != nil && r.log.IsOpen() {
				r.stopLogging()
			} else {
				r.startLogging()
			}
		case mailbox.ResetGraph:
			r.m.Lock()
			r.graph.Reset()
			r.m.Unlock()
		case mailbox.NextUnit:
			r.m.Lock()
			r.unit = r.unit.Next()
			r.graph.SetUnit(r.unit)
			r.m.Unlock()
		case mailbox.NextInterval:
			r.m.Lock()
			r.interval = (r.interval + 1) % len(r.cfg.Intervals)
			r.intervalChange = true
			r.m.Unlock()
		}
	}
}

func (r *Recorder) startLogging() {
	if r.log == nil {
		r.logger.Info("logging is disabled")
		return
	}

	r.m.Lock()
	unit := r.unit
	r.m.Unlock()

	name, err := r.log.Open(r.cfg.BaseName, unit)

	r.m.Lock()
	defer r.m.Unlock()

	r.openErr = err
	if err != nil {
		r.logger.Error("logging not started", zap.Error(err))
		return
	}

	// A new session starts with an empty graph.
	r.graph.Reset()
	r.openedAt = r.clock.Now()

	r.logger.Info("logging started", zap.String("file", name))
}

func (r *Recorder) stopLogging() {
	if r.log == nil {
		return
	}
	if err := r.log.Close(); err != nil {
		r.logger.Warn("closing the log file failed", zap.Error(err))
	}
}

// Run samples at the current interval until the context is canceled, then
// closes the log file.
func (r *Recorder) Run(ctx context.Context) {
	if r.cfg.AutoStart {
		r.box.Post(mailbox.StartLogging)
	}

	sample := r.clock.Ticker(r.Interval())
	defer sample.Stop()

	events := r.clock.Ticker(r.cfg.EventPoll)
	defer events.Stop()

	defer r.stopLogging()
	defer r.dropEvents()

	for {
		select {
		case <-ctx.Done():
			return
		case <-events.C:
			r.HandleEvents()
		case <-sample.C:
			if err := r.Tick(ctx); err != nil {
				return
			}
		}

		if d, ok := r.takeIntervalChange(); ok {
			sample.Reset(d)
			r.logger.Info("sample interval changed", zap.Duration("interval", d))
		}
	}
}

// dropEvents discards events nobody handled so a restart does not act on them.
func (r *Recorder) dropEvents() {
	if e := r.box.Drain(); e != mailbox.None {
		r.logger.Info("events dropped at stop", zap.Stringer("events", e))
	}
}

func (r *Recorder) takeIntervalChange() (time.Duration, bool) {
	r.m.Lock()
	defer r.m.Unlock()

	if !r.intervalChange {
		return 0, false
	}
	r.intervalChange = false
	return r.cfg.Intervals[r.interval], true
}

// Start runs the loop in the background.
func (r *Recorder) Start(ctx context.Context) error {
	r.m.Lock()
	defer r.m.Unlock()

	if r.cancel != nil {
		return errAlreadyStarted
	}

	ctx, r.cancel = context.WithCancel(context.Background())
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.Run(ctx)
	}()

	return nil
}

// Stop ends the loop started by Start and waits for the log to close.
func (r *Recorder) Stop(ctx context.Context) error {
	r.m.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.m.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func invalid(n int) []units.Temperature {
	temps := make([]units.Temperature, n)
	for i := range temps {
		temps[i] = units.Invalid
	}
	return temps
}

// UseClock provides a way to set the clock used.  This is used for testing.
func UseClock(c clock.Clock) Option {
	return &clockOption{clk: c}
}

type clockOption struct {
	clk clock.Clock
}

func (c clockOption) apply(r *Recorder) {
	r.clock = c.clk
}

// UseLogger sets the zap logger.
func UseLogger(z *zap.Logger) Option {
	return &loggerOption{z: z}
}

type loggerOption struct {
	z *zap.Logger
}

func (o loggerOption) apply(r *Recorder) {
	if o.z != nil {
		r.logger = o.z
	}
}

// UseMetrics records the recorder's activity in m.
func UseMetrics(m *Metrics) Option {
	return &metricsOption{m: m}
}

type metricsOption struct {
	m *Metrics
}

func (o metricsOption) apply(r *Recorder) {
	r.metrics = o.m
}
