// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"slices"
	"strings"

	"github.com/danielhkuo/tierboard/models"
)

// Aggregate folds submissions into item id -> tier -> participant names.
//
// Only ids still present in items are counted; ids of deleted items are
// skipped. Items no submission placed are absent from the result. Names
// are uniqued and sorted per tier, so the result does not depend on the
// order of submissions.
func Aggregate(items []models.Item, submissions []models.Submission) map[string]models.Stat {
	stats, _ := fold(items, submissions)
	return stats
}

// Counts returns, per item id, how many submissions placed the item in
// each tier. Participants sharing a display name are counted separately.
func Counts(items []models.Item, submissions []models.Submission) map[string]models.TierCounts {
	_, counts := fold(items, submissions)
	return counts
}

func fold(items []models.Item, submissions []models.Submission) (map[string]models.Stat, map[string]models.TierCounts) {
	known := make(map[string]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}

	stats := make(map[string]models.Stat)
	counts := make(map[string]models.TierCounts)
	for _, s := range submissions {
		name := DisplayName(s.ParticipantName)
		for _, tier := range models.Tiers {
			// A submission counts once per tier even if it repeats an id
			seen := make(map[string]bool, len(s.Board[tier]))
			for _, id := range s.Board[tier] {
				if !known[id] || seen[id] {
					continue
				}
				seen[id] = true
				st, ok := stats[id]
				if !ok {
					st = EmptyStat()
					stats[id] = st
					counts[id] = EmptyCounts()
				}
				st[tier] = append(st[tier], name)
				counts[id][tier]++
			}
		}
	}

	for _, st := range stats {
		for tier, names := range st {
			slices.Sort(names)
			st[tier] = slices.Compact(names)
		}
	}
	return stats, counts
}

// Results builds the results page model: every catalog item in catalog
// order with its tier breakdown, unranked items carrying an empty Stat.
func Results(project models.Project, items []models.Item, submissions []models.Submission) models.ProjectResults {
	stats, counts := fold(items, submissions)

	out := models.ProjectResults{
		Project:         project,
		SubmissionCount: len(submissions),
		ItemCount:       len(items),
		Items:           make([]models.ItemResult, 0, len(items)),
	}
	for _, it := range items {
		st, ok := stats[it.ID]
		if !ok {
			st = EmptyStat()
		}
		c, ok := counts[it.ID]
		if !ok {
			c = EmptyCounts()
		}
		out.Items = append(out.Items, models.ItemResult{Item: it, Tiers: st, Counts: c})
	}
	return out
}

// EmptyStat returns a Stat with every tier present and empty.
func EmptyStat() models.Stat {
	st := make(models.Stat, len(models.Tiers))
	for _, t := range models.Tiers {
		st[t] = []string{}
	}
	return st
}

// DisplayName trims a participant name, falling back to a placeholder.
func DisplayName(name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return models.AnonymousName
}

// EmptyCounts returns zero counts for every tier.
func EmptyCounts() models.TierCounts {
	c := make(models.TierCounts, len(models.Tiers))
	for _, t := range models.Tiers {
		c[t] = 0
	}
	return c
}
