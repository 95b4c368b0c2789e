// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package export turns boards and results into downloadable files.

# Board Images

RenderBoard draws a participant's board as a PNG with one coloured row per
tier. Item pictures come from an ImageLoader; cards whose picture cannot be
loaded show the item name instead. Ids that are no longer in the catalog
are skipped.

	png, err := export.RenderBoard(ctx, export.BoardImage{
		Title:           project.Title,
		ParticipantName: name,
		Board:           b,
		Items:           items,
	}, loader)
	filename := export.BoardFilename(name, project.Title)

# Results

ResultsWorkbook writes an xlsx file (excelize) with the names placed in
each tier and the per-tier counts. ResultsChart draws a stacked bar chart
(go-chart) of how each item's placements split across tiers.
*/
package export
