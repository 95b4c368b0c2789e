// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/tierboard/blob"
	"github.com/danielhkuo/tierboard/imagefetch"
	"github.com/danielhkuo/tierboard/metrics"
	"github.com/danielhkuo/tierboard/middleware"
)

type ImageHandler struct {
	blobs   *blob.Store
	fetcher *imagefetch.Fetcher
	metrics *metrics.Metrics
}

func NewImageHandler(blobs *blob.Store, fetcher *imagefetch.Fetcher, m *metrics.Metrics) *ImageHandler {
	return &ImageHandler{blobs: blobs, fetcher: fetcher, metrics: m}
}

// Proxy handles GET /img?url=
// Only allow-listed hosts are fetched.
func (h *ImageHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	img, err := h.fetcher.Fetch(r.Context(), r.URL.Query().Get("url"))
	switch {
	case errors.Is(err, imagefetch.ErrMissingURL):
		h.metrics.ProxyRequest(metrics.ProxyBadRequest)
		middleware.ErrorResponse(w, http.StatusBadRequest, "url is required")
		return
	case errors.Is(err, imagefetch.ErrForbiddenHost):
		h.metrics.ProxyRequest(metrics.ProxyForbidden)
		middleware.ErrorResponse(w, http.StatusForbidden, "forbidden host")
		return
	case err != nil:
		h.metrics.ProxyRequest(metrics.ProxyUpstream)
		slog.Warn("image proxy fetch failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "upstream error")
		return
	}

	h.metrics.ProxyRequest(metrics.ProxyOK)
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", imagefetch.CacheControl)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(img.Body)
}

// Serve handles GET /images/{path...}
func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("path")
	f, err := h.blobs.Open(key)
	if errors.Is(err, blob.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Image not found")
		return
	}
	if err != nil {
		slog.Error("failed to open image", "error", err, "key", key)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read image")
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		slog.Error("failed to stat image", "error", err, "key", key)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read image")
		return
	}
	w.Header().Set("Cache-Control", imagefetch.CacheControl)
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
}
