/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package server exposes the read-only HTTP surface spec.md §1 places
// outside the core ("HTTP/UI, CLI, deployment... are out of scope" for the
// scheduler itself) but that SPEC_FULL's ambient stack still wires in, the
// way the teacher's internal/server bundles chi routes around its services.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/friendsincode/playoutd/internal/config"
	"github.com/friendsincode/playoutd/internal/scheduler"
	"github.com/friendsincode/playoutd/internal/telemetry"
)

// Server bundles the read-only HTTP surface over a running scheduler.Service.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	scheduler  *scheduler.Service
}

// New constructs the server and wires its routes.
func New(cfg *config.Config, svc *scheduler.Service, logger zerolog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(securityHeadersMiddleware)
	router.Use(telemetry.TracingMiddleware("playoutd-server"))
	router.Use(telemetry.MetricsMiddleware)
	router.Use(middleware.Timeout(30 * time.Second))

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		router:    router,
		scheduler: svc,
	}
	s.configureRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'")

		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Handle("/metrics", telemetry.Handler())

	s.router.Get("/channels/{channelID}/upcoming", s.handleUpcoming)
	s.router.Get("/channels/{channelID}/simulate", s.handleSimulate)
}

func parseWindow(r *http.Request) (time.Time, time.Duration, error) {
	from := time.Now().UTC()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("invalid from: %w", err)
		}
		from = parsed
	}

	horizon := 24 * time.Hour
	if raw := r.URL.Query().Get("horizon_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return time.Time{}, 0, fmt.Errorf("invalid horizon_minutes: %q", raw)
		}
		horizon = time.Duration(minutes) * time.Minute
	}

	return from, horizon, nil
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")
	from, horizon, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := s.scheduler.Upcoming(r.Context(), channelID, from, horizon)
	if err != nil {
		s.logger.Error().Err(err).Str("channel_id", channelID).Msg("upcoming query failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, items)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")
	from, horizon, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := s.scheduler.Simulate(r.Context(), channelID, from, horizon)
	if err != nil {
		s.logger.Error().Err(err).Str("channel_id", channelID).Msg("simulate failed")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, items)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// HTTPServer exposes the underlying net/http server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
