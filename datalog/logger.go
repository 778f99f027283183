// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package datalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/schmidtw/thermologger/units"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	DefaultPrefix       = "LD"
	DefaultExtension    = ".CSV"
	DefaultDigits       = 4
	DefaultSyncInterval = time.Second
	DefaultTimeLabel    = "time (s)"
	DefaultChannelLabel = "temp_%d"
)

// Config provides the data logger configuration options.
type Config struct {
	// Enabled turns logging to the card on.  When off the device still samples
	// and graphs.
	Enabled bool

	// Dir is the mount point of the card.
	Dir string

	Prefix       string
	Extension    string
	Digits       int
	SyncInterval time.Duration
	TimeLabel    string
	ChannelLabel string
	Placeholder  string
}

type Option interface {
	apply(l *Logger)
}

// Logger owns at most one open log file.  All methods are safe to call from
// multiple goroutines, but the file is only ever written while holding the
// lock so rows are never interleaved.
type Logger struct {
	m        sync.Mutex
	cfg      Config
	channels int
	medium   Medium
	clock    clock.Clock
	logger   *zap.Logger
	metrics  *Metrics
	mirror   io.Writer

	fs       afero.Fs
	file     afero.File
	name     string
	unit     units.Unit
	offset   int64
	stale    bool
	lastSync time.Time
	fault    error
}

// New makes a logger for the given number of channels that writes to the
// medium.
func New(channels int, medium Medium, cfg Config, opts ...Option) (*Logger, error) {
	if channels < 1 || medium == nil {
		return nil, fmt.Errorf("%w: channels=%d", ErrChannelCount, channels)
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if cfg.Digits < 1 {
		cfg.Digits = DefaultDigits
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = DefaultSyncInterval
	}
	if cfg.TimeLabel == "" {
		cfg.TimeLabel = DefaultTimeLabel
	}
	if cfg.ChannelLabel == "" {
		cfg.ChannelLabel = DefaultChannelLabel
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = units.Placeholder
	}
	if err := validBase(cfg.Prefix, cfg.Digits); err != nil {
		return nil, err
	}

	l := Logger{
		cfg:      cfg,
		channels: channels,
		medium:   medium,
		clock:    clock.New(),
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt.apply(&l)
	}

	return &l, nil
}

// Open creates the next unused file for baseName and writes the header.  An
// empty baseName uses the configured prefix.  If a file is already open it is
// flushed and closed first.  The name of the new file is returned.
func (l *Logger) Open(baseName string, unit units.Unit) (string, error) {
	l.m.Lock()
	defer l.m.Unlock()

	if l.file != nil {
		if err := l.close(); err != nil {
			l.logger.Warn("closing the previous log file failed",
				zap.String("file", l.name), zap.Error(err))
		}
	}

	if baseName == "" {
		baseName = l.cfg.Prefix
	}
	if err := validBase(baseName, l.cfg.Digits); err != nil {
		return "", err
	}

	fs, err := l.medium.Mount()
	if err != nil {
		l.metrics.fault("mount")
		return "", fmt.Errorf("%w: %w", ErrMount, err)
	}

	for i := 0; i < suffixes(l.cfg.Digits); i++ {
		name := fileName(baseName, l.cfg.Digits, i, l.cfg.Extension)

		if exists, _ := afero.Exists(fs, name); exists {
			continue
		}

		f, err := fs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			l.metrics.fault("create")
			return "", fmt.Errorf("%w: %s: %w", ErrCreate, name, err)
		}

		if err := l.start(fs, f, name, unit); err != nil {
			l.metrics.fault("header")
			return "", err
		}

		l.logger.Info("log file opened", zap.String("file", name))
		l.metrics.opened()
		return name, nil
	}

	l.metrics.fault("namespace")
	return "", fmt.Errorf("%w: %s", ErrNameSpaceExhausted, baseName)
}

// start writes the header to a freshly created file and adopts it.  On
// failure the file is closed and removed.
func (l *Logger) start(fs afero.Fs, f afero.File, name string, unit units.Unit) error {
	hdr := l.header(unit)

	_, err := io.WriteString(f, hdr)
	if err == nil {
		err = f.Sync()
	}
	if err != nil {
		err = multierr.Combine(err, f.Close(), fs.Remove(name))
		return fmt.Errorf("%w: %s: %w", ErrHeader, name, err)
	}

	l.fs = fs
	l.file = f
	l.name = name
	l.unit = unit
	l.offset = int64(len(hdr))
	l.stale = false
	l.lastSync = l.clock.Now()
	l.fault = nil

	l.mirrorWrite([]byte("Logging to: " + name + "\n"))
	l.mirrorWrite([]byte(hdr))

	return nil
}

// AppendRow writes one line for the temperatures recorded elapsed after the
// file was opened.  A failed write latches the fault but the logger stays
// open so the next row is tried again.
func (l *Logger) AppendRow(elapsed time.Duration, temps []units.Temperature) error {
	l.m.Lock()
	defer l.m.Unlock()

	if l.file == nil {
		return ErrNotOpen
	}
	if len(temps) != l.channels {
		return fmt.Errorf("%w: got %d want %d", ErrChannelCount, len(temps), l.channels)
	}

	line := l.row(elapsed, temps, l.unit)

	n, err := l.file.Write(line)
	if err == nil && n != len(line) {
		err = io.ErrShortWrite
	}
	if err != nil {
		// Drop whatever part of the row made it out.
		if n > 0 {
			err = multierr.Combine(err, l.rewind())
		}
		err = fmt.Errorf("%w: %s: %w", ErrWrite, l.name, err)
		l.latch(err, "write")
		return err
	}

	l.offset += int64(n)
	if l.stale {
		// Cut off what is left of an earlier partial row.
		l.stale = l.file.Truncate(l.offset) != nil
	}
	l.metrics.row()
	l.mirrorWrite(line)

	return nil
}

// rewind moves back to the end of the last whole row.  If the partial row
// cannot be cut off it is overwritten by the next row and trimmed then.
func (l *Logger) rewind() error {
	terr := l.file.Truncate(l.offset)
	l.stale = terr != nil

	_, serr := l.file.Seek(l.offset, io.SeekStart)

	return multierr.Combine(terr, serr)
}

// Flush syncs the file to the card if force is set or the sync interval has
// passed since the last successful sync.
func (l *Logger) Flush(force bool) error {
	l.m.Lock()
	defer l.m.Unlock()

	if l.file == nil {
		return ErrNotOpen
	}

	return l.flush(force)
}

func (l *Logger) flush(force bool) error {
	now := l.clock.Now()
	if !force && now.Sub(l.lastSync) < l.cfg.SyncInterval {
		return nil
	}

	if err := l.file.Sync(); err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrSync, l.name, err)
		l.latch(err, "sync")
		return err
	}

	if now.After(l.lastSync) {
		l.lastSync = now
	}
	l.metrics.synced()

	return nil
}

// Close flushes and releases the open file.  Closing a closed logger does
// nothing.
func (l *Logger) Close() error {
	l.m.Lock()
	defer l.m.Unlock()

	if l.file == nil {
		return nil
	}

	return l.close()
}

func (l *Logger) close() error {
	err := multierr.Combine(l.flush(true), l.file.Close())

	l.logger.Info("log file closed", zap.String("file", l.name), zap.Error(err))

	l.fs = nil
	l.file = nil
	l.offset = 0
	l.metrics.closed()

	return err
}

// IsOpen reports if a file is open.
func (l *Logger) IsOpen() bool {
	l.m.Lock()
	defer l.m.Unlock()

	return l.file != nil
}

// Name is the name of the open file, or of the last file that was open.
func (l *Logger) Name() string {
	l.m.Lock()
	defer l.m.Unlock()

	return l.name
}

// Fault is the latched storage fault of the current file, if any.
func (l *Logger) Fault() error {
	l.m.Lock()
	defer l.m.Unlock()

	return l.fault
}

func (l *Logger) latch(err error, kind string) {
	if l.fault == nil {
		l.logger.Error("storage fault", zap.String("file", l.name), zap.Error(err))
	}
	l.fault = err
	l.metrics.fault(kind)
}

func (l *Logger) mirrorWrite(b []byte) {
	if l.mirror == nil {
		return
	}
	if _, err := l.mirror.Write(b); err != nil {
		l.logger.Debug("mirror write failed", zap.Error(err))
	}
}

// UseClock provides a way to set the clock used.  This is used for testing.
func UseClock(c clock.Clock) Option {
	return &clockOption{clk: c}
}

type clockOption struct {
	clk clock.Clock
}

func (c clockOption) apply(l *Logger) {
	l.clock = c.clk
}

// UseLogger sets the zap logger.
func UseLogger(z *zap.Logger) Option {
	return &loggerOption{z: z}
}

type loggerOption struct {
	z *zap.Logger
}

func (o loggerOption) apply(l *Logger) {
	if o.z != nil {
		l.logger = o.z
	}
}

// UseMetrics records the logger's activity in m.
func UseMetrics(m *Metrics) Option {
	return &metricsOption{m: m}
}

type metricsOption struct {
	m *Metrics
}

func (o metricsOption) apply(l *Logger) {
	l.metrics = o.m
}

// Mirror copies the header and every row written to w as well.  Mirror
// failures are ignored.
func Mirror(w io.Writer) Option {
	return &mirrorOption{w: w}
}

type mirrorOption struct {
	w io.Writer
}

func (o mirrorOption) apply(l *Logger) {
	l.mirror = o.w
}
