// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/tierboard/models"
)

func items(ids ...string) []models.Item {
	out := make([]models.Item, len(ids))
	for i, id := range ids {
		out[i] = models.Item{ID: id, Name: "image " + id, SortOrder: i + 1}
	}
	return out
}

func sub(participantID, name string, b models.Board) models.Submission {
	return models.Submission{
		ProjectID:       "p1",
		ParticipantID:   participantID,
		ParticipantName: name,
		Board:           b,
	}
}

func TestAggregate_Example(t *testing.T) {
	catalog := items("i1", "i2")
	subs := []models.Submission{
		sub("u1", "Alice", models.Board{models.TierS: {"i1"}, models.TierD: {"i2"}}),
		sub("u2", "Bob", models.Board{models.TierA: {"i1"}, models.TierD: {"i2"}}),
	}

	got := Aggregate(catalog, subs)

	want := models.Stat{
		models.TierS: {"Alice"},
		models.TierA: {"Bob"},
		models.TierB: {},
		models.TierC: {},
		models.TierD: {},
	}
	if diff := cmp.Diff(want, got["i1"]); diff != "" {
		t.Errorf("stat for i1 mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Alice", "Bob"}, got["i2"][models.TierD])
}

func TestAggregate_OrderIndependent(t *testing.T) {
	catalog := items("i1", "i2", "i3", "i4")
	subs := []models.Submission{
		sub("u1", "Alice", models.Board{models.TierS: {"i1", "i2"}, models.TierC: {"i3"}}),
		sub("u2", "Bob", models.Board{models.TierS: {"i2"}, models.TierA: {"i1"}, models.TierD: {"i3", "i4"}}),
		sub("u3", "Carol", models.Board{models.TierB: {"i4", "i1"}}),
		sub("u4", "Alice", models.Board{models.TierS: {"i1"}}),
		sub("u5", "  ", models.Board{models.TierD: {"i1"}}),
	}

	want := Aggregate(catalog, subs)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		shuffled := slices.Clone(subs)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		if diff := cmp.Diff(want, Aggregate(catalog, shuffled)); diff != "" {
			t.Fatalf("shuffle %d changed aggregate:\n%s", i, diff)
		}
	}
}

func TestAggregate_NameHandling(t *testing.T) {
	catalog := items("i1")
	subs := []models.Submission{
		// Same display name, different participants: one entry in the set.
		sub("u1", "Alice", models.Board{models.TierS: {"i1"}}),
		sub("u2", "Alice", models.Board{models.TierS: {"i1"}}),
		// A single board listing the id twice in one tier.
		sub("u3", "Bob", models.Board{models.TierA: {"i1", "i1"}}),
		sub("u4", "", models.Board{models.TierC: {"i1"}}),
		sub("u5", "  Dana ", models.Board{models.TierC: {"i1"}}),
	}

	got := Aggregate(catalog, subs)["i1"]
	assert.Equal(t, []string{"Alice"}, got[models.TierS])
	assert.Equal(t, []string{"Bob"}, got[models.TierA])
	assert.Equal(t, []string{models.AnonymousName, "Dana"}, got[models.TierC])
}

func TestAggregate_DeletedItemsSkipped(t *testing.T) {
	subs := []models.Submission{
		sub("u1", "Alice", models.Board{models.TierS: {"i1", "i2"}}),
	}

	// i2 was removed from the catalog after Alice submitted.
	got := Aggregate(items("i1"), subs)

	require.Contains(t, got, "i1")
	assert.NotContains(t, got, "i2")
}

func TestAggregate_UnrankedItemsAbsent(t *testing.T) {
	got := Aggregate(items("i1", "i2"), []models.Submission{
		sub("u1", "Alice", models.Board{models.TierS: {"i1"}}),
	})
	assert.NotContains(t, got, "i2")

	assert.Empty(t, Aggregate(items("i1"), nil))
}

func TestAggregate_UnknownTierKeysIgnored(t *testing.T) {
	got := Aggregate(items("i1"), []models.Submission{
		sub("u1", "Alice", models.Board{"Z": {"i1"}}),
	})
	assert.Empty(t, got)
}

func TestResults(t *testing.T) {
	project := models.Project{ID: "p1", Title: "Snacks"}
	catalog := items("i1", "i2")
	subs := []models.Submission{
		sub("u1", "Alice", models.Board{models.TierS: {"i1"}, models.TierD: {"gone"}}),
	}

	res := Results(project, catalog, subs)

	assert.Equal(t, 1, res.SubmissionCount)
	assert.Equal(t, 2, res.ItemCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "i1", res.Items[0].Item.ID)
	assert.Equal(t, []string{"Alice"}, res.Items[0].Tiers[models.TierS])
	assert.Equal(t, "i2", res.Items[1].Item.ID)
	assert.Equal(t, EmptyStat(), res.Items[1].Tiers)

	assert.Equal(t, 1, res.Items[0].Counts[models.TierS])
	assert.Equal(t, 0, res.Items[0].Counts[models.TierD])
	assert.Equal(t, EmptyCounts(), res.Items[1].Counts)
}

func TestCounts_CollidingNames(t *testing.T) {
	catalog := items("i1", "i2")
	subs := []models.Submission{
		sub("u1", "Alice", models.Board{models.TierS: {"i1"}}),
		sub("u2", "Alice", models.Board{models.TierS: {"i1"}}),
		sub("u3", "  ", models.Board{models.TierS: {"i1"}}),
		sub("u4", "", models.Board{models.TierS: {"i1", "i1"}, models.TierB: {"i2"}}),
	}

	stats := Aggregate(catalog, subs)
	assert.Equal(t, []string{models.AnonymousName, "Alice"}, stats["i1"][models.TierS])

	counts := Counts(catalog, subs)
	assert.Equal(t, 4, counts["i1"][models.TierS], "every submission counts, whatever its name")
	assert.Equal(t, 1, counts["i2"][models.TierB])
	assert.Equal(t, 0, counts["i2"][models.TierS])

	res := Results(models.Project{ID: "p1"}, catalog, subs)
	assert.Equal(t, 4, res.Items[0].Counts[models.TierS])
}
