// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package board holds the tier assignment model and the drag reducer.

A board maps each tier (S, A, B, C, D) to an ordered list of item ids.
Every id sits in at most one tier. Boards are values: every function here
returns a new board and leaves its input alone.

# Building Boards

	b := board.New(items)           // everything in D
	b = board.Reconcile(saved, items) // re-open a submission against today's catalog

# Moves

ApplyMove is the reducer behind every drag gesture:

	b = board.ApplyMove(b, board.Move{ItemID: "i1", Target: board.TierTarget(models.TierS)})
	b = board.ApplyMove(b, board.Move{ItemID: "i1", Target: board.ItemTarget("i2")})

Dropping on a card in the same tier reorders; dropping on a card in another
tier appends to the end of that tier. Unresolvable moves are no-ops.

Select and Reorder cover the tap-to-place dialog (pick a tier, then nudge
items up or down).

# Wire Format

Targets travel as strings: "tier:S" for a tier row, a bare id for a card.

	t := board.ParseTarget("tier:A")
*/
package board
