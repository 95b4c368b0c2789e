// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the tier board API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, blobs, registry)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Catalog management (admin, requires X-Admin-Key):

	PUT    /projects/{id}                - Create project / set title
	POST   /projects/{id}/items          - Upload images
	DELETE /projects/{id}/items/{itemID} - Remove item
	GET    /projects/{id}/submissions    - Raw submissions

Participants (requires X-Participant-ID, rate limited writes):

	GET  /projects/{id}                  - Project and items
	GET  /projects/{id}/submissions/me   - Own board
	PUT  /projects/{id}/submissions/me   - Submit board
	POST /projects/{id}/export           - Board PNG

Results (public):

	GET /projects/{id}/results
	GET /projects/{id}/results.xlsx
	GET /projects/{id}/results/chart.png

Images:

	GET /images/{path...} - Uploaded images
	GET /img?url=         - Allow-listed image proxy

# Handler Initialization

The router builds the metrics, image fetcher and per-IP rate limiter and
hands them to the handlers along with the database and configuration.
*/
package router
