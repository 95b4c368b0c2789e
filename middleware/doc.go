// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs method, path, status and duration_ms once the handler returns.
Responses with a 5xx status are logged at error level.

# Admin Guard

Catalog management needs the shared admin key in X-Admin-Key:

	mux.HandleFunc("PUT /projects/{id}", middleware.RequireAdmin(cfg.AdminKey, h.UpdateProject))

# Rate Limiting

Per-IP token buckets (golang.org/x/time/rate) protect write endpoints:

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	mux.HandleFunc("PUT /projects/{id}/submissions/me", middleware.RateLimit(limiter, h.Submit))

Idle entries are pruned once more than 500 clients are tracked.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, X-Admin-Key, X-Participant-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.SubmitBoardRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for rate limiting and hashed into submission logs.
*/
package middleware
