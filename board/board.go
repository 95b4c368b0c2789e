// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"errors"
	"fmt"
	"slices"

	"github.com/danielhkuo/tierboard/models"
)

var (
	ErrUnknownTier   = errors.New("unknown tier")
	ErrDuplicateItem = errors.New("item placed in more than one tier")
)

// New returns a board with every catalog item in the default tier,
// in catalog order.
func New(items []models.Item) models.Board {
	b := Empty()
	for _, it := range items {
		b[models.DefaultTier] = append(b[models.DefaultTier], it.ID)
	}
	return b
}

// Empty returns a board with all tiers present and empty.
func Empty() models.Board {
	b := make(models.Board, len(models.Tiers))
	for _, t := range models.Tiers {
		b[t] = []string{}
	}
	return b
}

// Clone returns a deep copy with every tier present.
func Clone(b models.Board) models.Board {
	out := make(models.Board, len(models.Tiers))
	for _, t := range models.Tiers {
		out[t] = slices.Clone(b[t])
		if out[t] == nil {
			out[t] = []string{}
		}
	}
	return out
}

// Normalize fills in missing tiers with empty slices.
// Unknown tier keys are dropped; call Validate first to reject them.
func Normalize(b models.Board) models.Board {
	return Clone(b)
}

// Equal reports whether two boards hold the same ids in the same order.
// A missing tier and an empty tier are equal.
func Equal(a, b models.Board) bool {
	for _, t := range models.Tiers {
		if !slices.Equal(a[t], b[t]) {
			return false
		}
	}
	return true
}

// Locate returns the tier holding itemID and its index there.
func Locate(b models.Board, itemID string) (models.Tier, int, bool) {
	for _, t := range models.Tiers {
		if i := slices.Index(b[t], itemID); i >= 0 {
			return t, i, true
		}
	}
	return "", -1, false
}

// Validate checks a board received from a client. Tier keys must be known
// and no id may sit in two different tiers. Repeats inside a single tier
// and ids missing from the catalog are tolerated.
func Validate(b models.Board) error {
	seen := make(map[string]models.Tier)
	for t, ids := range b {
		if !t.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownTier, t)
		}
		for _, id := range ids {
			if prev, ok := seen[id]; ok && prev != t {
				return fmt.Errorf("%w: %s in %s and %s", ErrDuplicateItem, id, prev, t)
			}
			seen[id] = t
		}
	}
	return nil
}

// Reconcile fits a stored board to the current catalog: ids no longer in
// the catalog are dropped, only the first occurrence of an id is kept, and
// catalog items the board never placed are appended to the default tier.
func Reconcile(b models.Board, items []models.Item) models.Board {
	known := make(map[string]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}

	out := Empty()
	placed := make(map[string]bool, len(items))
	for _, t := range models.Tiers {
		for _, id := range b[t] {
			if !known[id] || placed[id] {
				continue
			}
			placed[id] = true
			out[t] = append(out[t], id)
		}
	}

	for _, it := range items {
		if !placed[it.ID] {
			out[models.DefaultTier] = append(out[models.DefaultTier], it.ID)
		}
	}
	return out
}

// IDs returns every id on the board in tier order.
func IDs(b models.Board) []string {
	var ids []string
	for _, t := range models.Tiers {
		ids = append(ids, b[t]...)
	}
	return ids
}
