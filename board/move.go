// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"slices"
	"strings"

	"github.com/danielhkuo/tierboard/models"
)

const tierPrefix = "tier:"

// Target is where a dragged item was dropped: either a tier row or
// another item card. Tier wins when both are set.
type Target struct {
	Tier   models.Tier
	ItemID string
}

func TierTarget(t models.Tier) Target { return Target{Tier: t} }

func ItemTarget(id string) Target { return Target{ItemID: id} }

// ParseTarget decodes the wire form of a drop target: "tier:S" names a
// tier row, anything else is an item id.
func ParseTarget(s string) Target {
	if rest, ok := strings.CutPrefix(s, tierPrefix); ok {
		return TierTarget(models.Tier(rest))
	}
	return ItemTarget(s)
}

func (t Target) String() string {
	if t.Tier != "" {
		return tierPrefix + string(t.Tier)
	}
	return t.ItemID
}

// Move is a single drag gesture. From is optional and only used when it
// actually holds the item.
type Move struct {
	ItemID string
	From   models.Tier
	Target Target
}

// ApplyMove returns the board after m. The input board is never modified.
// Moves that cannot be resolved return b unchanged.
//
// Dropping on a tier appends the item to that tier. Dropping on an item
// in the same tier reorders in place; dropping on an item in another tier
// appends to the end of that tier.
func ApplyMove(b models.Board, m Move) models.Board {
	from, oldIdx, ok := source(b, m)
	if !ok {
		return b
	}
	to, ok := resolve(b, m.Target)
	if !ok {
		return b
	}

	if m.Target.Tier == "" && from == to {
		newIdx := slices.Index(b[to], m.Target.ItemID)
		if newIdx < 0 || newIdx == oldIdx {
			return b
		}
		out := Clone(b)
		out[from] = arrayMove(out[from], oldIdx, newIdx)
		return out
	}

	out := Clone(b)
	for _, t := range models.Tiers {
		out[t] = slices.DeleteFunc(out[t], func(id string) bool { return id == m.ItemID })
	}
	out[to] = append(out[to], m.ItemID)
	return out
}

// Select moves itemID to the end of tier, the tap-to-place gesture.
func Select(b models.Board, itemID string, tier models.Tier) models.Board {
	return ApplyMove(b, Move{ItemID: itemID, Target: TierTarget(tier)})
}

// Reorder moves the item at index from to index to within one tier.
// Out of range indexes leave the board unchanged.
func Reorder(b models.Board, tier models.Tier, from, to int) models.Board {
	ids := b[tier]
	if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) || from == to {
		return b
	}
	out := Clone(b)
	out[tier] = arrayMove(out[tier], from, to)
	return out
}

func source(b models.Board, m Move) (models.Tier, int, bool) {
	if m.ItemID == "" {
		return "", -1, false
	}
	if m.From.Valid() {
		if i := slices.Index(b[m.From], m.ItemID); i >= 0 {
			return m.From, i, true
		}
	}
	return Locate(b, m.ItemID)
}

func resolve(b models.Board, t Target) (models.Tier, bool) {
	if t.Tier != "" {
		return t.Tier, t.Tier.Valid()
	}
	if t.ItemID == "" {
		return "", false
	}
	tier, _, ok := Locate(b, t.ItemID)
	return tier, ok
}

// arrayMove removes the element at from and reinserts it at to.
func arrayMove(ids []string, from, to int) []string {
	id := ids[from]
	ids = slices.Delete(ids, from, from+1)
	return slices.Insert(ids, to, id)
}
