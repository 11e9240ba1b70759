// Package api exposes ValkyrDB tables over HTTP: record CRUD and scans per
// table, a query endpoint for the statement language, health, and Prometheus
// metrics. Protected routes require the configured X-API-Key header.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ssargent/valkyrdb/pkg/catalog"
)

// Routes builds the router for s. Split from StartServer so tests can drive
// the handlers without a listening socket.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Metrics endpoint is unprotected for scraping.
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Post("/tables/{table}/records", s.metrics.InstrumentHandler("POST", "/api/v1/tables/{table}/records", s.handleInsert))
		r.Get("/tables/{table}/records", s.metrics.InstrumentHandler("GET", "/api/v1/tables/{table}/records", s.handleScan))
		r.Get("/tables/{table}/records/{rid}", s.metrics.InstrumentHandler("GET", "/api/v1/tables/{table}/records/{rid}", s.handleGet))
		r.Delete("/tables/{table}/records/{rid}", s.metrics.InstrumentHandler("DELETE", "/api/v1/tables/{table}/records/{rid}", s.handleDelete))

		r.Post("/query", s.metrics.InstrumentHandler("POST", "/api/v1/query", s.handleQuery))
	})

	return r
}

// StartServer starts the HTTP server over c and blocks until it exits.
func StartServer(c *catalog.Catalog, config ServerConfig, log logrus.FieldLogger) error {
	if log == nil {
		log = logrus.StandardLogger()
	}

	server := NewServer(c, config, NewMetrics(), log)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	log.WithFields(logrus.Fields{
		"addr":   addr,
		"tables": c.Tables(),
	}).Info("starting ValkyrDB REST API server")

	return http.ListenAndServe(addr, server.Routes())
}
