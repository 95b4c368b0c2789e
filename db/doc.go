// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation and persistence.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).

# Tables

  - project: Title per project id
  - item: Catalog entries with a per-project sort order
  - submission: One board per participant per project, stored as JSON

# Relationships

	project 1──* item
	project 1──* submission

Removing an item does not touch submissions. Boards may keep referencing
it and readers skip unknown ids.

# Store

	store := db.NewStore(conn)
	items, err := store.ListItems(ctx, projectID)
	created, err := store.UpsertSubmission(ctx, projectID, participantID, name, b)

Lookups of missing rows return ErrNotFound.
*/
package db
