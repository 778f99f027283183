// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/goschtalt/casemapper"
	"github.com/goschtalt/goschtalt"
	"github.com/mitchellh/mapstructure"
	"github.com/schmidtw/thermologger/buttons"
	"github.com/schmidtw/thermologger/datalog"
	"github.com/schmidtw/thermologger/echo"
	"github.com/schmidtw/thermologger/frontend"
	"github.com/schmidtw/thermologger/graph"
	"github.com/schmidtw/thermologger/httpserver"
	"github.com/schmidtw/thermologger/recorder"
	"github.com/schmidtw/thermologger/thermocouple"
	"github.com/schmidtw/thermologger/units"
	"github.com/spf13/afero"
	"github.com/xmidt-org/sallust"

	_ "github.com/goschtalt/yaml-decoder"
	_ "github.com/goschtalt/yaml-encoder"
)

// Config is the whole configuration of the device.
type Config struct {
	Logger       sallust.Config
	Metrics      Metrics
	Thermocouple thermocouple.Config
	Graph        graph.Config
	Storage      datalog.Config
	Recorder     recorder.Config
	Frontend     frontend.Config
	Buttons      buttons.Config
	Echo         echo.Config
	Servers      Servers
}

type Metrics struct {
	Namespace string
}

type Servers struct {
	Status httpserver.Config
}

var defaultConfig = Config{
	Logger: sallust.Config{
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	},
	Metrics: Metrics{
		Namespace: applicationName,
	},
	Thermocouple: thermocouple.Config{
		Type: "K",
	},
	Graph: graph.Config{
		Capacity: graph.DefaultCapacity,
		Rows:     graph.DefaultRows,
		Unit:     units.Celsius,
	},
	Storage: datalog.Config{
		Enabled:      true,
		Dir:          "/media/sd",
		Prefix:       datalog.DefaultPrefix,
		Extension:    datalog.DefaultExtension,
		Digits:       datalog.DefaultDigits,
		SyncInterval: datalog.DefaultSyncInterval,
		TimeLabel:    datalog.DefaultTimeLabel,
		ChannelLabel: datalog.DefaultChannelLabel,
		Placeholder:  units.Placeholder,
	},
	Recorder: recorder.Config{
		Intervals: recorder.DefaultIntervals,
		EventPoll: 50 * time.Millisecond,
	},
	Frontend: frontend.Config{
		Kind:     frontend.KindSimulated,
		Channels: frontend.DefaultChannels,
		Simulated: frontend.SimulatedConfig{
			Swing:   5,
			Period:  120,
			Ambient: units.FromCelsius(22),
		},
	},
	Servers: Servers{
		Status: httpserver.Config{
			Address:           ":9090",
			ReadHeaderTimeout: 5 * time.Second,
		},
	},
}

// setter is implemented by the periph physic types.
type setter interface {
	Set(string) error
}

// setterHook decodes strings like "100Hz" or "256mV" into any type whose
// pointer has a Set(string) method.
func setterHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	ptr := reflect.New(to)
	s, ok := ptr.Interface().(setter)
	if !ok {
		return data, nil
	}
	if err := s.Set(data.(string)); err != nil {
		return nil, err
	}

	return ptr.Elem().Interface(), nil
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
		setterHook,
	)
}

// configFiles turns the files and directories named on the command line into
// goschtalt options.  Relative paths are relative to the working directory.
func configFiles(afs afero.Fs, paths []string) ([]goschtalt.Option, error) {
	iofs := afero.NewIOFS(afs)

	opts := make([]goschtalt.Option, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		name := strings.TrimPrefix(filepath.ToSlash(abs), "/")

		isDir, err := afero.IsDir(afs, name)
		if err != nil {
			return nil, err
		}

		if isDir {
			opts = append(opts, goschtalt.AddTree(iofs, name))
			continue
		}
		opts = append(opts, goschtalt.AddFile(iofs, name))
	}

	return opts, nil
}

// newConfig merges the built in defaults with the files.
func newConfig(afs afero.Fs, files []string) (*goschtalt.Config, error) {
	opts := []goschtalt.Option{
		goschtalt.AutoCompile(),
		goschtalt.AddValue("built-in", goschtalt.Root, defaultConfig, goschtalt.AsDefault()),
		goschtalt.DefaultUnmarshalOptions(
			casemapper.ConfigStoredAs("two_words"),
			goschtalt.DecodeHook(decodeHooks()),
		),
		goschtalt.DefaultValueOptions(
			casemapper.ConfigStoredAs("two_words"),
		),
	}

	more, err := configFiles(afs, files)
	if err != nil {
		return nil, err
	}

	return goschtalt.New(append(opts, more...)...)
}

// unmarshal reads the part of the configuration at key.
func unmarshal[T any](gs *goschtalt.Config, key string) (T, error) {
	var v T
	err := gs.Unmarshal(key, &v)
	return v, err
}
