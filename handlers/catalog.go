// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/danielhkuo/tierboard/auth"
	"github.com/danielhkuo/tierboard/blob"
	"github.com/danielhkuo/tierboard/cliparse"
	"github.com/danielhkuo/tierboard/db"
	"github.com/danielhkuo/tierboard/metrics"
	"github.com/danielhkuo/tierboard/middleware"
	"github.com/danielhkuo/tierboard/models"
)

const maxTitleLength = 200

type CatalogHandler struct {
	store   *db.Store
	blobs   *blob.Store
	metrics *metrics.Metrics
	cfg     cliparse.Config
}

func NewCatalogHandler(conn *sql.DB, cfg cliparse.Config, blobs *blob.Store, m *metrics.Metrics) *CatalogHandler {
	return &CatalogHandler{store: db.NewStore(conn), blobs: blobs, metrics: m, cfg: cfg}
}

// projectID reads and validates the {id} path segment
func projectID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if err := auth.ValidateProjectID(id); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid project id")
		return "", false
	}
	return id, true
}

// GetProject handles GET /projects/{id}
// Returns the project and its catalog in display order
func (h *CatalogHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	project, err := h.store.GetProject(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		slog.Error("failed to query project", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	items, err := h.store.ListItems(r.Context(), id)
	if err != nil {
		slog.Error("failed to query items", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProjectWithItems{
		Project: project,
		Items:   items,
	})
}

// UpdateProject handles PUT /projects/{id}
// Creates the project if needed and sets its title. Requires the admin key.
func (h *CatalogHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var req models.UpdateProjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	title := strings.TrimSpace(req.Title)
	if len(title) > maxTitleLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("title must be at most %d characters", maxTitleLength))
		return
	}

	project, err := h.store.UpsertProject(r.Context(), id, title)
	if err != nil {
		slog.Error("failed to save project", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save project")
		return
	}

	slog.Info("project saved", "project_id", id)
	middleware.JSONResponse(w, http.StatusOK, project)
}

// AddItems handles POST /projects/{id}/items
// Accepts multipart "files" plus an optional "name" override. With one
// file the override is used as is; with several, files are named
// "<name>_1", "<name>_2", ... Without an override the upload's file name
// is used. Requires the admin key.
func (h *CatalogHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Upload is too large")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one image file is required")
		return
	}
	override := strings.TrimSpace(r.FormValue("name"))

	newItems := make([]db.NewItem, 0, len(files))
	keys := make([]string, 0, len(files))
	for i, fh := range files {
		key, err := h.storeUpload(id, fh)
		if errors.Is(err, blob.ErrNotImage) {
			h.discardUploads(id, keys)
			middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("%s is not an image", fh.Filename))
			return
		}
		if err != nil {
			h.discardUploads(id, keys)
			slog.Error("failed to store upload", "error", err, "project_id", id)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store image")
			return
		}
		keys = append(keys, key)
		newItems = append(newItems, db.NewItem{
			Name:     itemName(override, fh.Filename, i, len(files)),
			ImageURL: h.blobs.URL(key),
		})
	}

	items, err := h.store.AddItems(r.Context(), id, newItems)
	if err != nil {
		h.discardUploads(id, keys)
		slog.Error("failed to insert items", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add items")
		return
	}

	h.metrics.ItemsAdded(len(items))
	slog.Info("items added", "project_id", id, "count", len(items))
	middleware.JSONResponse(w, http.StatusCreated, models.AddItemsResponse{Items: items})
}

func (h *CatalogHandler) storeUpload(projectID string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.blobs.Put(projectID, fh.Filename, f)
}

// discardUploads removes images written before an upload batch failed
func (h *CatalogHandler) discardUploads(projectID string, keys []string) {
	for _, key := range keys {
		if err := h.blobs.Remove(key); err != nil {
			slog.Warn("failed to remove orphaned upload", "error", err, "project_id", projectID, "key", key)
		}
	}
}

// itemName picks the display name for the i-th of n uploaded files
func itemName(override, filename string, i, n int) string {
	switch {
	case override == "":
		return filename
	case n == 1:
		return override
	default:
		return fmt.Sprintf("%s_%d", override, i+1)
	}
}

// RemoveItem handles DELETE /projects/{id}/items/{itemID}
// Submitted boards keep the id; results and exports skip it. Requires the admin key.
func (h *CatalogHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	itemID := r.PathValue("itemID")
	if itemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "item id is required")
		return
	}

	err := h.store.RemoveItem(r.Context(), id, itemID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete item", "error", err, "project_id", id, "item_id", itemID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove item")
		return
	}

	h.metrics.ItemRemoved()
	slog.Info("item removed", "project_id", id, "item_id", itemID)
	w.WriteHeader(http.StatusNoContent)
}
