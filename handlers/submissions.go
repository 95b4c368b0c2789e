// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/tierboard/auth"
	"github.com/danielhkuo/tierboard/board"
	"github.com/danielhkuo/tierboard/cliparse"
	"github.com/danielhkuo/tierboard/db"
	"github.com/danielhkuo/tierboard/metrics"
	"github.com/danielhkuo/tierboard/middleware"
	"github.com/danielhkuo/tierboard/models"
)

const maxNameLength = 50

type SubmissionHandler struct {
	store   *db.Store
	metrics *metrics.Metrics
	cfg     cliparse.Config
}

func NewSubmissionHandler(conn *sql.DB, cfg cliparse.Config, m *metrics.Metrics) *SubmissionHandler {
	return &SubmissionHandler{store: db.NewStore(conn), metrics: m, cfg: cfg}
}

// participantID reads and validates the X-Participant-ID header
func participantID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(middleware.ParticipantHeader)
	if id == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, middleware.ParticipantHeader+" header required")
		return "", false
	}
	if err := auth.ValidateParticipantID(id); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid participant id")
		return "", false
	}
	return id, true
}

// requireProject answers 404 when the project does not exist
func requireProject(w http.ResponseWriter, r *http.Request, store *db.Store, id string) (models.Project, bool) {
	project, err := store.GetProject(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Project not found")
		return models.Project{}, false
	}
	if err != nil {
		slog.Error("failed to query project", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Project{}, false
	}
	return project, true
}

// Submit handles PUT /projects/{id}/submissions/me
// Replaces the caller's board for this project. 201 on first submission, 200 after.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	pid, ok := participantID(w, r)
	if !ok {
		return
	}

	var req models.SubmitBoardRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Board == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "board is required")
		return
	}
	if err := board.Validate(req.Board); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.ParticipantName)
	if len([]rune(name)) > maxNameLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("participant_name must be at most %d characters", maxNameLength))
		return
	}

	if _, ok := requireProject(w, r, h.store, id); !ok {
		return
	}

	created, err := h.store.UpsertSubmission(r.Context(), id, pid, name, req.Board)
	if err != nil {
		slog.Error("failed to save submission", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save board")
		return
	}

	h.metrics.Submission(created)
	slog.Info("submission saved",
		"project_id", id,
		"created", created,
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKey),
	)

	status := http.StatusOK
	message := "Board updated"
	if created {
		status = http.StatusCreated
		message = "Board submitted"
	}
	middleware.JSONResponse(w, status, models.SubmitBoardResponse{
		Created: created,
		Message: message,
	})
}

// MyBoard handles GET /projects/{id}/submissions/me
// Returns the caller's stored board reconciled against the current catalog,
// or a fresh board with every item in the default tier.
func (h *SubmissionHandler) MyBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	pid, ok := participantID(w, r)
	if !ok {
		return
	}
	if _, ok := requireProject(w, r, h.store, id); !ok {
		return
	}

	items, err := h.store.ListItems(r.Context(), id)
	if err != nil {
		slog.Error("failed to query items", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	sub, err := h.store.GetSubmission(r.Context(), id, pid)
	if errors.Is(err, db.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusOK, models.MyBoardResponse{
			State: models.StateNotStarted,
			Board: board.New(items),
		})
		return
	}
	if err != nil {
		slog.Error("failed to query submission", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	updated := sub.UpdatedAt
	middleware.JSONResponse(w, http.StatusOK, models.MyBoardResponse{
		State:           models.StateSubmitted,
		ParticipantName: sub.ParticipantName,
		Board:           board.Reconcile(sub.Board, items),
		UpdatedAt:       &updated,
	})
}

// List handles GET /projects/{id}/submissions
// Raw submissions without participant ids. Requires the admin key.
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	if _, ok := requireProject(w, r, h.store, id); !ok {
		return
	}

	subs, err := h.store.ListSubmissions(r.Context(), id)
	if err != nil {
		slog.Error("failed to query submissions", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, subs)
}
