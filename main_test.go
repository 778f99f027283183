// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/goschtalt/goschtalt"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"

	"github.com/schmidtw/thermologger/datalog"
	"github.com/schmidtw/thermologger/frontend"
	"github.com/schmidtw/thermologger/graph"
	"github.com/schmidtw/thermologger/units"
)

func TestSetterHook(t *testing.T) {
	tests := []struct {
		description string
		to          any
		data        any
		expect      any
		expectErr   bool
	}{
		{
			description: "frequency",
			to:          physic.Frequency(0),
			data:        "100Hz",
			expect:      100 * physic.Hertz,
		}, {
			description: "potential",
			to:          physic.ElectricPotential(0),
			data:        "256mV",
			expect:      256 * physic.MilliVolt,
		}, {
			description: "not a string",
			to:          physic.Frequency(0),
			data:        12,
			expect:      12,
		}, {
			description: "no setter",
			to:          0,
			data:        "12",
			expect:      "12",
		}, {
			description: "bad value",
			to:          physic.Frequency(0),
			data:        "fast",
			expectErr:   true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert := assert.New(t)

			got, err := setterHook(reflect.TypeOf(tc.data), reflect.TypeOf(tc.to), tc.data)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, got)
		})
	}
}

func memFs(t *testing.T, files map[string]string) afero.Fs {
	mem := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(mem, name, []byte(body), 0644))
	}
	return afero.NewBasePathFs(mem, "/")
}

func TestConfigFiles(t *testing.T) {
	afs := memFs(t, map[string]string{
		"/etc/thermologger/a.yml": "metrics:\n  namespace: a\n",
		"/etc/extra.yml":          "metrics:\n  namespace: b\n",
	})

	tests := []struct {
		description string
		paths       []string
		expect      int
		expectErr   bool
	}{
		{
			description: "nothing",
		}, {
			description: "a directory and a file",
			paths:       []string{"/etc/thermologger", "/etc/extra.yml"},
			expect:      2,
		}, {
			description: "missing",
			paths:       []string{"/etc/missing.yml"},
			expectErr:   true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert := assert.New(t)

			opts, err := configFiles(afs, tc.paths)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Len(opts, tc.expect)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	gs, err := newConfig(memFs(t, nil), nil)
	require.NoError(err)

	cfg, err := unmarshal[Config](gs, goschtalt.Root)
	require.NoError(err)

	assert.Equal(frontend.KindSimulated, cfg.Frontend.Kind)
	assert.Equal(frontend.DefaultChannels, cfg.Frontend.Channels)
	assert.Equal(graph.DefaultCapacity, cfg.Graph.Capacity)
	assert.Equal(datalog.DefaultSyncInterval, cfg.Storage.SyncInterval)
	assert.True(cfg.Storage.Enabled)
	assert.Equal(":9090", cfg.Servers.Status.Address)
}

func TestFileOverridesDefaults(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	afs := memFs(t, map[string]string{
		"/etc/thermologger/local.yml": `
storage:
  dir: /mnt/usb
  sync_interval: 5s
frontend:
  kind: ads1115
  simulated:
    ambient: 77F
`,
	})

	gs, err := newConfig(afs, []string{"/etc/thermologger"})
	require.NoError(err)

	cfg, err := unmarshal[Config](gs, goschtalt.Root)
	require.NoError(err)

	assert.Equal("/mnt/usb", cfg.Storage.Dir)
	assert.Equal(5*time.Second, cfg.Storage.SyncInterval)
	assert.Equal(datalog.DefaultPrefix, cfg.Storage.Prefix)
	assert.Equal(frontend.KindADS1115, cfg.Frontend.Kind)
	assert.Equal(units.Temperature(250), cfg.Frontend.Simulated.Ambient)
}

func TestSetupShow(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	cli, gs, err := setup([]string{"-s"}, memFs(t, nil), &out)

	assert.ErrorIs(err, errShown)
	assert.Nil(cli)
	assert.Nil(gs)
	assert.Contains(out.String(), "storage")
}

func TestSetup(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	cli, gs, err := setup([]string{"-d"}, memFs(t, nil), &out)

	assert.NoError(err)
	assert.NotNil(gs)
	if assert.NotNil(cli) {
		assert.True(cli.Dev)
	}
	assert.Empty(out.String())
}

func TestProvideLogDisabled(t *testing.T) {
	assert := assert.New(t)

	cfg := defaultConfig
	cfg.Storage.Enabled = false

	store, err := graph.New(2, cfg.Graph)
	assert.NoError(err)

	l, err := provideLog(cfg, store, nil, nil, zap.NewNop())
	assert.NoError(err)
	assert.Nil(l)
}

func TestProvideGraphDefaultsChannels(t *testing.T) {
	assert := assert.New(t)

	cfg := defaultConfig
	cfg.Frontend.Channels = 0

	store, err := provideGraph(cfg)
	assert.NoError(err)
	if assert.NotNil(store) {
		assert.Equal(frontend.DefaultChannels, store.Channels())
	}
}
