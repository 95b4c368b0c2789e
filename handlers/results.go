// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/tierboard/aggregate"
	"github.com/danielhkuo/tierboard/cliparse"
	"github.com/danielhkuo/tierboard/db"
	"github.com/danielhkuo/tierboard/export"
	"github.com/danielhkuo/tierboard/metrics"
	"github.com/danielhkuo/tierboard/middleware"
	"github.com/danielhkuo/tierboard/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResultsHandler struct {
	store   *db.Store
	metrics *metrics.Metrics
	cfg     cliparse.Config
}

func NewResultsHandler(conn *sql.DB, cfg cliparse.Config, m *metrics.Metrics) *ResultsHandler {
	return &ResultsHandler{store: db.NewStore(conn), metrics: m, cfg: cfg}
}

// load aggregates every submission of the project. It writes the error
// response itself and reports false when the caller should stop.
func (h *ResultsHandler) load(w http.ResponseWriter, r *http.Request) (models.ProjectResults, bool) {
	id, ok := projectID(w, r)
	if !ok {
		return models.ProjectResults{}, false
	}
	project, ok := requireProject(w, r, h.store, id)
	if !ok {
		return models.ProjectResults{}, false
	}

	start := time.Now()
	items, err := h.store.ListItems(r.Context(), id)
	if err != nil {
		slog.Error("failed to query items", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.ProjectResults{}, false
	}
	subs, err := h.store.ListSubmissions(r.Context(), id)
	if err != nil {
		slog.Error("failed to query submissions", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.ProjectResults{}, false
	}

	res := aggregate.Results(project, items, subs)
	h.metrics.ObserveAggregate(start)
	return res, true
}

// GetResults handles GET /projects/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	res, ok := h.load(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, res)
}

// GetWorkbook handles GET /projects/{id}/results.xlsx
func (h *ResultsHandler) GetWorkbook(w http.ResponseWriter, r *http.Request) {
	res, ok := h.load(w, r)
	if !ok {
		return
	}

	data, err := export.ResultsWorkbook(res)
	if err != nil {
		slog.Error("failed to build workbook", "error", err, "project_id", res.Project.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build workbook")
		return
	}

	filename := export.SanitizeFilename(titleOr(res.Project, "results") + "_results.xlsx")
	writeFile(w, xlsxContentType, filename, data)
}

// GetChart handles GET /projects/{id}/results/chart.png
func (h *ResultsHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	res, ok := h.load(w, r)
	if !ok {
		return
	}

	data, err := export.ResultsChart(res)
	if err != nil {
		slog.Error("failed to render chart", "error", err, "project_id", res.Project.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func titleOr(p models.Project, fallback string) string {
	if p.Title != "" {
		return p.Title
	}
	return fallback
}

// writeFile sends data as a download named filename
func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
