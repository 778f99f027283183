// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/schmidtw/thermologger/graph"
	"github.com/schmidtw/thermologger/mailbox"
	"github.com/schmidtw/thermologger/recorder"
	"github.com/schmidtw/thermologger/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	box mailbox.Mailbox
}

func (f *fakeSource) Status() recorder.Status {
	return recorder.Status{
		Logging:  true,
		File:     "LD0003.CSV",
		Unit:     units.Celsius,
		Interval: "1s",
		Ticks:    7,
		Ambient:  units.Invalid,
		Latest:   []units.Temperature{253},
		Display:  []string{"25.3"},
	}
}

func (f *fakeSource) Snapshot() graph.Snapshot {
	return graph.Snapshot{
		Unit:   units.Fahrenheit,
		Count:  1,
		Scale:  1,
		Labels: []int{77},
		Series: [][]units.Temperature{{250}},
	}
}

func (f *fakeSource) Mailbox() *mailbox.Mailbox {
	return &f.box
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		description string
		method      string
		path        string
		status      int
		body        string
		contains    string
		event       mailbox.Event
	}{
		{
			description: "status",
			method:      http.MethodGet,
			path:        "/status",
			status:      http.StatusOK,
			body: `{"logging":true,"file":"LD0003.CSV","unit":"celsius","interval":"1s",
				"ticks":7,"ambient":null,"latest":[25.3],"display":["25.3"]}`,
		}, {
			description: "graph",
			method:      http.MethodGet,
			path:        "/graph",
			status:      http.StatusOK,
			body: `{"unit":"fahrenheit","count":1,"visible":0,"scale":1,"axis_min":0,
				"axis_max":0,"axis_digits":0,"labels":[77],"series":[[25.0]]}`,
		}, {
			description: "press a button",
			method:      http.MethodPost,
			path:        "/events/next_unit",
			status:      http.StatusAccepted,
			event:       mailbox.NextUnit,
		}, {
			description: "unknown button",
			method:      http.MethodPost,
			path:        "/events/self_destruct",
			status:      http.StatusNotFound,
			contains:    "unknown event",
		}, {
			description: "status is read only",
			method:      http.MethodPost,
			path:        "/status",
			status:      http.StatusMethodNotAllowed,
		}, {
			description: "metrics",
			method:      http.MethodGet,
			path:        "/metrics",
			status:      http.StatusOK,
			contains:    "test_counter 1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			reg := prometheus.NewRegistry()
			c := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter", Help: "test"})
			require.NoError(reg.Register(c))
			c.Inc()

			src := new(fakeSource)
			h := Routes(src, reg, zaptest.NewLogger(t))

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(tc.status, rec.Code)
			if tc.body != "" {
				assert.JSONEq(tc.body, rec.Body.String())
				assert.Equal("application/json", rec.Header().Get("Content-Type"))
			}
			if tc.contains != "" {
				assert.Contains(rec.Body.String(), tc.contains)
			}
			assert.Equal(tc.event, src.box.Drain())
		})
	}
}

func TestServerPathAndHeaders(t *testing.T) {
	tests := []struct {
		description string
		path        string
		get         string
		expect      int
	}{
		{
			description: "root",
			get:         "/status",
			expect:      http.StatusOK,
		}, {
			description: "prefixed",
			path:        "/api",
			get:         "/api/status",
			expect:      http.StatusOK,
		}, {
			description: "prefix with slashes",
			path:        "api/",
			get:         "/api/status",
			expect:      http.StatusOK,
		}, {
			description: "outside the prefix",
			path:        "/api",
			get:         "/status",
			expect:      http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			cfg := Config{
				Path:    tc.path,
				Headers: http.Header{"X-Device": []string{"thermologger"}},
			}

			srv, err := cfg.Server(Routes(new(fakeSource), nil, nil))
			require.NoError(err)
			assert.Nil(srv.TLSConfig)
			assert.Equal(DefaultReadHeaderTimeout, srv.ReadHeaderTimeout)

			ts := httptest.NewServer(srv.Handler)
			defer ts.Close()

			resp, err := http.Get(ts.URL + tc.get)
			require.NoError(err)
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			assert.Equal(tc.expect, resp.StatusCode)
			if tc.expect == http.StatusOK {
				assert.Equal("thermologger", resp.Header.Get("X-Device"))
			}
		})
	}
}

func TestLifecycle(t *testing.T) {
	require := require.New(t)

	lc := fxtest.NewLifecycle(t)
	srv, err := New(lc, Routes(new(fakeSource), nil, nil), Config{Address: "127.0.0.1:0"}, zaptest.NewLogger(t))
	require.NoError(err)
	require.NotNil(srv)

	require.NoError(lc.Start(context.Background()))
	require.NoError(lc.Stop(context.Background()))
}

func TestStatusFaultOmitted(t *testing.T) {
	rec := httptest.NewRecorder()
	Routes(new(fakeSource), nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.False(t, strings.Contains(rec.Body.String(), "fault"))
}
