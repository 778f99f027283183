// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/schmidtw/thermologger/buttons"
	"github.com/schmidtw/thermologger/datalog"
	"github.com/schmidtw/thermologger/echo"
	"github.com/schmidtw/thermologger/frontend"
	"github.com/schmidtw/thermologger/graph"
	"github.com/schmidtw/thermologger/httpserver"
	"github.com/schmidtw/thermologger/recorder"
	"github.com/schmidtw/thermologger/thermocouple"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func components() fx.Option {
	return fx.Options(
		fx.Provide(
			provideRegistry,
			provideConverter,
			provideGraph,
			provideSource,
			provideEcho,
			provideLog,
			provideRecorder,
		),
		fx.Invoke(
			startButtons,
			startStatusServer,
		),
	)
}

func provideRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	err := reg.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	if err == nil {
		err = reg.Register(prometheus.NewGoCollector())
	}

	return reg, err
}

func provideConverter(cfg Config) (*thermocouple.Converter, error) {
	return thermocouple.New(cfg.Thermocouple)
}

func provideGraph(cfg Config) (*graph.Store, error) {
	channels := cfg.Frontend.Channels
	if channels < 1 {
		channels = frontend.DefaultChannels
	}
	return graph.New(channels, cfg.Graph)
}

func provideSource(lc fx.Lifecycle, cfg Config, conv *thermocouple.Converter, store *graph.Store) (frontend.Source, error) {
	fcfg := cfg.Frontend
	fcfg.Channels = store.Channels()

	src, err := frontend.New(fcfg, conv.Table())
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return src.Close()
		},
	})

	return src, nil
}

func provideEcho(lc fx.Lifecycle, cfg Config, log *zap.Logger) (*echo.Port, error) {
	port, err := echo.Open(cfg.Echo)
	if err != nil {
		return nil, err
	}
	if port != nil {
		log.Info("echoing to serial port", zap.String("port", port.Name()))
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return port.Close()
			},
		})
	}

	return port, nil
}

func provideLog(cfg Config, store *graph.Store, port *echo.Port, reg *prometheus.Registry, log *zap.Logger) (recorder.Log, error) {
	if !cfg.Storage.Enabled {
		log.Info("logging to storage is disabled")
		return nil, nil
	}

	m, err := datalog.NewMetrics(reg, cfg.Metrics.Namespace)
	if err != nil {
		return nil, err
	}

	opts := []datalog.Option{
		datalog.UseLogger(log.Named("datalog")),
		datalog.UseMetrics(m),
	}
	if port != nil {
		opts = append(opts, datalog.Mirror(port))
	}

	l, err := datalog.New(store.Channels(), datalog.Dir(cfg.Storage.Dir), cfg.Storage, opts...)
	if err != nil {
		return nil, err
	}

	return l, nil
}

type recorderIn struct {
	fx.In

	LC        fx.Lifecycle
	Config    Config
	Source    frontend.Source
	Converter *thermocouple.Converter
	Graph     *graph.Store
	Log       recorder.Log
	Registry  *prometheus.Registry
	Logger    *zap.Logger
}

func provideRecorder(in recorderIn) (*recorder.Recorder, error) {
	m, err := recorder.NewMetrics(in.Registry, in.Config.Metrics.Namespace)
	if err != nil {
		return nil, err
	}

	rcfg := in.Config.Recorder
	rcfg.Unit = in.Config.Graph.Unit

	rec, err := recorder.New(rcfg,
		recorder.Parts{
			Source:    in.Source,
			Converter: in.Converter,
			Graph:     in.Graph,
			Log:       in.Log,
		},
		recorder.UseLogger(in.Logger.Named("recorder")),
		recorder.UseMetrics(m),
	)
	if err != nil {
		return nil, err
	}

	in.LC.Append(fx.Hook{
		OnStart: rec.Start,
		OnStop:  rec.Stop,
	})

	return rec, nil
}

func startButtons(lc fx.Lifecycle, cfg Config, rec *recorder.Recorder, log *zap.Logger) error {
	if len(cfg.Buttons.Buttons) == 0 {
		return nil
	}

	b, err := buttons.New(cfg.Buttons, rec.Mailbox(), buttons.UseLogger(log.Named("buttons")))
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: b.Start,
		OnStop: func(ctx context.Context) error {
			b.Stop(ctx)
			return nil
		},
	})

	return nil
}

func startStatusServer(lc fx.Lifecycle, cfg Config, rec *recorder.Recorder, reg *prometheus.Registry, log *zap.Logger) error {
	if cfg.Servers.Status.Address == "" {
		return nil
	}

	routes := httpserver.Routes(rec, reg, log.Named("status"))
	_, err := httpserver.New(lc, routes, cfg.Servers.Status, log)

	return err
}
