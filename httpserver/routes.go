// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schmidtw/thermologger/graph"
	"github.com/schmidtw/thermologger/mailbox"
	"github.com/schmidtw/thermologger/recorder"
	"go.uber.org/zap"
)

// Source is the recorder as seen by the status routes.
type Source interface {
	Status() recorder.Status
	Snapshot() graph.Snapshot
	Mailbox() *mailbox.Mailbox
}

// Routes serves the recorder status, the graph, the metrics and a way to
// press the buttons remotely.
func Routes(src Source, g prometheus.Gatherer, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, src.Status())
	})

	mux.HandleFunc("GET /graph", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, src.Snapshot())
	})

	mux.HandleFunc("POST /events/{event}", func(w http.ResponseWriter, r *http.Request) {
		e, err := mailbox.ParseEvent(r.PathValue("event"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		src.Mailbox().Post(e)
		log.Debug("event posted", zap.Stringer("event", e))
		w.WriteHeader(http.StatusAccepted)
	})

	if g != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	}

	return mux
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("writing response failed", zap.Error(err))
	}
}
