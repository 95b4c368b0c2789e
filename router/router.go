// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/tierboard/blob"
	"github.com/danielhkuo/tierboard/cliparse"
	"github.com/danielhkuo/tierboard/handlers"
	"github.com/danielhkuo/tierboard/imagefetch"
	"github.com/danielhkuo/tierboard/metrics"
	"github.com/danielhkuo/tierboard/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, blobs *blob.Store, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	m := metrics.New(reg)
	fetcher := imagefetch.New(cfg.AllowedImageHosts, nil)
	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(db, cfg, blobs, m)
	submissionHandler := handlers.NewSubmissionHandler(db, cfg, m)
	resultsHandler := handlers.NewResultsHandler(db, cfg, m)
	imageHandler := handlers.NewImageHandler(blobs, fetcher, m)
	exportHandler := handlers.NewExportHandler(db, cfg, blobs, fetcher)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(cfg.AdminKey, h))
	}
	limited := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RateLimit(limiter, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler(reg))

	// Catalog management (admin operations)
	mux.HandleFunc("PUT /projects/{id}", admin(catalogHandler.UpdateProject))
	mux.HandleFunc("POST /projects/{id}/items", admin(catalogHandler.AddItems))
	mux.HandleFunc("DELETE /projects/{id}/items/{itemID}", admin(catalogHandler.RemoveItem))
	mux.HandleFunc("GET /projects/{id}/submissions", admin(submissionHandler.List))

	// Catalog and results (public)
	mux.HandleFunc("GET /projects/{id}", middleware.WithLogging(catalogHandler.GetProject))
	mux.HandleFunc("GET /projects/{id}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /projects/{id}/results.xlsx", middleware.WithLogging(resultsHandler.GetWorkbook))
	mux.HandleFunc("GET /projects/{id}/results/chart.png", middleware.WithLogging(resultsHandler.GetChart))

	// Participant operations
	mux.HandleFunc("PUT /projects/{id}/submissions/me", limited(submissionHandler.Submit))
	mux.HandleFunc("GET /projects/{id}/submissions/me", middleware.WithLogging(submissionHandler.MyBoard))
	mux.HandleFunc("POST /projects/{id}/export", limited(exportHandler.ExportBoard))

	// Images
	mux.HandleFunc("GET /images/{path...}", middleware.WithLogging(imageHandler.Serve))
	mux.HandleFunc("GET /img", limited(imageHandler.Proxy))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tierboard API v1"))
	})

	return mux
}
