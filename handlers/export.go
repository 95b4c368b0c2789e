// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/tierboard/blob"
	"github.com/danielhkuo/tierboard/board"
	"github.com/danielhkuo/tierboard/cliparse"
	"github.com/danielhkuo/tierboard/db"
	"github.com/danielhkuo/tierboard/export"
	"github.com/danielhkuo/tierboard/imagefetch"
	"github.com/danielhkuo/tierboard/middleware"
	"github.com/danielhkuo/tierboard/models"
)

type ExportHandler struct {
	store   *db.Store
	blobs   *blob.Store
	fetcher *imagefetch.Fetcher
	cfg     cliparse.Config
}

func NewExportHandler(conn *sql.DB, cfg cliparse.Config, blobs *blob.Store, fetcher *imagefetch.Fetcher) *ExportHandler {
	return &ExportHandler{store: db.NewStore(conn), blobs: blobs, fetcher: fetcher, cfg: cfg}
}

// ExportBoard handles POST /projects/{id}/export
// Renders the posted board as a PNG download named after the participant
// and project title.
func (h *ExportHandler) ExportBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var req models.ExportBoardRequest
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

	project, ok := requireProject(w, r, h.store, id)
	if !ok {
		return
	}
	items, err := h.store.ListItems(r.Context(), id)
	if err != nil {
		slog.Error("failed to query items", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	data, err := export.RenderBoard(r.Context(), export.BoardImage{
		Title:           project.Title,
		ParticipantName: req.ParticipantName,
		Board:           req.Board,
		Items:           items,
	}, h.loadImage)
	if err != nil {
		slog.Error("failed to render board", "error", err, "project_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export board")
		return
	}

	writeFile(w, "image/png", export.BoardFilename(req.ParticipantName, project.Title), data)
}

// loadImage reads uploaded images straight from the blob store and fetches
// anything else through the proxy allow-list.
func (h *ExportHandler) loadImage(ctx context.Context, item models.Item) (image.Image, error) {
	if key, ok := strings.CutPrefix(item.ImageURL, h.blobs.URL("")); ok {
		f, err := h.blobs.Open(key)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, err := export.DecodeImage(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		return img, nil
	}

	fetched, err := h.fetcher.Fetch(ctx, item.ImageURL)
	if err != nil {
		return nil, err
	}
	img, err := export.DecodeImage(bytes.NewReader(fetched.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", item.ImageURL, err)
	}
	return img, nil
}
