// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the tier board API.

# Handler Types

Each handler is a struct holding the stores and config it needs:

  - CatalogHandler: project title and the item catalog (uploads, removal)
  - SubmissionHandler: a participant's own board and the raw submission list
  - ResultsHandler: aggregated results as JSON, xlsx and a chart
  - ImageHandler: uploaded image serving and the allow-listed image proxy
  - ExportHandler: board PNG export

Handlers are created via constructor functions:

	catalog := handlers.NewCatalogHandler(db, cfg, blobs, m)

# Catalog

	PUT    /projects/{id}                → UpdateProject (creates the project)
	GET    /projects/{id}                → GetProject (items in sort order)
	POST   /projects/{id}/items          → AddItems (multipart "files", optional "name")
	DELETE /projects/{id}/items/{itemID} → RemoveItem

Catalog writes require the X-Admin-Key header. Uploads append after the
current highest sort order, all in one transaction.

# Submissions

	PUT /projects/{id}/submissions/me → Submit (create or overwrite)
	GET /projects/{id}/submissions/me → MyBoard (reconciled against the catalog)
	GET /projects/{id}/submissions    → List (admin)

Participant operations require the X-Participant-ID header, a UUID the
client generates once and keeps. A participant has at most one submission
per project; submitting again replaces the whole board.

# Results

	GET /projects/{id}/results           → GetResults
	GET /projects/{id}/results.xlsx      → GetWorkbook
	GET /projects/{id}/results/chart.png → GetChart

Results are folded from every submission on each request. Ids that are no
longer in the catalog are skipped.

# Images

	GET  /images/{path...}    → Serve
	GET  /img?url=            → Proxy (400 missing url, 403 host, 502 upstream)
	POST /projects/{id}/export → ExportBoard
*/
package handlers
