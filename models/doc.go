// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - UpdateProjectRequest: title
  - SubmitBoardRequest: participant_name, board
  - ExportBoardRequest: participant_name, board

Item uploads are multipart, not JSON (see handlers.CatalogHandler).

# Response Types

  - AddItemsResponse: items created by an upload
  - SubmitBoardResponse: created, message
  - MyBoardResponse: state, board, updated_at
  - ProjectWithItems: project plus its ordered catalog
  - ProjectResults: per-item tier breakdown
  - ErrorResponse: error, message

# Domain Types

  - Project: id and editable title
  - Item: rankable image with a sort order
  - Board: tier -> ordered item ids
  - Submission: one participant's persisted board
  - Stat: tier -> participant names for one item

# Tiers

Tier is a closed enumeration:

	TierS, TierA, TierB, TierC, TierD

Tiers holds them in rank order. DefaultTier (D) receives unplaced items.

# Participant States

	StateNotStarted → StateEditing → StateSubmitted → StateEditing → ...

There is no terminal state; a participant may resubmit indefinitely.
*/
package models
