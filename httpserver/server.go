// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/xmidt-org/arrange/arrangetls"
	"github.com/xmidt-org/httpaux"
	serveraux "github.com/xmidt-org/httpaux/server"
)

// DefaultReadHeaderTimeout bounds how long a client may take to send its
// request headers when the configuration leaves it unset.
const DefaultReadHeaderTimeout = 5 * time.Second

// Config describes the status server that exposes the logger's readings,
// graph and metrics and accepts button events over HTTP.
type Config struct {
	// Address is the host:port to listen on, e.g. ":9090".  The server is
	// not started when it is empty.
	Address string

	// Path is the prefix the /status, /graph, /events and /metrics routes
	// are served under.  Empty serves them from the root.
	Path string

	// Request and connection limits, see net/http.Server.
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// KeepAlive is the TCP keep alive period of accepted connections.
	KeepAlive time.Duration

	// Headers are added to every response, e.g. a device name.
	Headers http.Header

	// TLS switches the server to HTTPS when set.
	TLS *arrangetls.Config
}

// prefix cleans Path into "" or "/name" without a trailing slash.
func (c Config) prefix() string {
	p := strings.Trim(c.Path, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// Server builds an unstarted server for the routes in h.
func (c Config) Server(h http.Handler) (*http.Server, error) {
	headers := httpaux.NewHeader(c.Headers)
	h = serveraux.Header(headers.SetTo)(h)

	if p := c.prefix(); p != "" {
		mux := http.NewServeMux()
		mux.Handle(p+"/", http.StripPrefix(p, h))
		h = mux
	}

	rht := c.ReadHeaderTimeout
	if rht <= 0 {
		rht = DefaultReadHeaderTimeout
	}

	tlsConfig, err := c.TLS.New()
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              c.Address,
		Handler:           h,
		ReadTimeout:       c.ReadTimeout,
		ReadHeaderTimeout: rht,
		WriteTimeout:      c.WriteTimeout,
		IdleTimeout:       c.IdleTimeout,
		MaxHeaderBytes:    c.MaxHeaderBytes,
		TLSConfig:         tlsConfig,
	}, nil
}
