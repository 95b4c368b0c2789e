// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the tierboard API server.

Tierboard hosts shared tier lists. An admin uploads a catalog of images,
participants drag them into S/A/B/C/D tiers and submit, and everyone can
see who placed what where.

# Starting the Server

The server reads environment variables (optionally from a .env file) or
CLI flags:

	ADMIN_KEY=secret DATABASE_URL=tierboard.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --admin-key secret

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - ADMIN_KEY (--admin-key): Shared secret for catalog management

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - IMAGE_DIR (--image-dir): Upload directory (default: ./data/images)
  - PUBLIC_BASE_URL (--base-url): Prefix for uploaded image URLs
  - ALLOWED_IMAGE_HOSTS (--allowed-hosts): Extra hosts the image proxy may fetch
  - MAX_UPLOAD_MB (--max-upload-mb): Upload request limit (default: 10)
  - RATE_LIMIT_RPS, RATE_LIMIT_BURST: Per-IP limits on public writes

# Architecture

  - handlers: HTTP request handlers (catalog, submissions, results, images, export)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin key, rate limiting, JSON helpers
  - board: Tier board operations and the drag reconciler
  - aggregate: Per-item tier statistics
  - db: Schema and store
  - blob: Uploaded image files
  - imagefetch: Allowlisted image proxy fetches
  - export: Board PNG, results workbook and chart
  - metrics: Prometheus collectors
  - cliparse: Configuration parsing

The tierctl command (cmd/tierctl) is a terminal client that keeps the
participant identity in a local YAML file.
*/
package main
