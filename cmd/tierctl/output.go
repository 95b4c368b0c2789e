// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/danielhkuo/tierboard/client"
	"github.com/danielhkuo/tierboard/models"
)

func resultsCommand() *cli.Command {
	return &cli.Command{
		Name:      "results",
		Usage:     "print who ranked each item where",
		ArgsUsage: "<project>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "xlsx", Usage: "also save the results workbook to this path"},
			&cli.StringFlag{Name: "chart", Usage: "also save the results chart to this path"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			projectID := c.Args().First()
			api := apiClient(c)

			res, err := api.Results(c.Context, projectID)
			if err != nil {
				return err
			}
			printResults(c.App.Writer, res)

			if path := c.String("xlsx"); path != "" {
				f, err := api.ResultsWorkbook(c.Context, projectID)
				if err != nil {
					return err
				}
				if err := saveFile(c.App.Writer, path, f); err != nil {
					return err
				}
			}
			if path := c.String("chart"); path != "" {
				f, err := api.ResultsChart(c.Context, projectID)
				if err != nil {
					return err
				}
				if err := saveFile(c.App.Writer, path, f); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "save your board as a PNG",
		ArgsUsage: "<project>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"o"}, Value: ".", Usage: "output directory"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			s, err := openSession(c, c.Args().First())
			if err != nil {
				return err
			}
			f, err := s.Export(c.Context)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			name := f.Name
			if name == "" {
				name = "tier.png"
			}
			return saveFile(c.App.Writer, filepath.Join(c.String("dir"), filepath.Base(name)), f)
		},
	}
}

func saveFile(out io.Writer, path string, f *client.File) error {
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	fmt.Fprintf(out, "Saved %s (%s)\n", path, humanize.Bytes(uint64(len(f.Data))))
	return nil
}

// printSession writes the board one tier per line, items by name.
func printSession(out io.Writer, s *client.Session) {
	title := s.Project.Title
	if title == "" {
		title = s.Project.ID
	}
	fmt.Fprintf(out, "%s [%s]", title, s.State())
	if at := s.UpdatedAt(); at != nil {
		fmt.Fprintf(out, " submitted %s", humanize.Time(*at))
	}
	fmt.Fprintln(out)

	names := make(map[string]string, len(s.Items))
	for _, it := range s.Items {
		names[it.ID] = it.Name
	}
	b := s.Board()
	for _, t := range models.Tiers {
		labels := make([]string, 0, len(b[t]))
		for i, id := range b[t] {
			labels = append(labels, fmt.Sprintf("%d.%s", i+1, names[id]))
		}
		fmt.Fprintf(out, "%s | %s\n", t, strings.Join(labels, "  "))
	}
}

func printResults(out io.Writer, res models.ProjectResults) {
	fmt.Fprintf(out, "%s: %s %s, %s %s\n",
		titleOrID(res.Project),
		humanize.Comma(int64(res.SubmissionCount)), plural(res.SubmissionCount, "submission"),
		humanize.Comma(int64(res.ItemCount)), plural(res.ItemCount, "item"))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "ITEM")
	for _, t := range models.Tiers {
		fmt.Fprintf(tw, "\t%s", t)
	}
	fmt.Fprintln(tw, "\tWHO")
	for _, r := range res.Items {
		fmt.Fprint(tw, r.Item.Name)
		for _, t := range models.Tiers {
			fmt.Fprintf(tw, "\t%d", r.Counts[t])
		}
		fmt.Fprintf(tw, "\t%s\n", who(r.Tiers))
	}
	tw.Flush()
}

func who(st models.Stat) string {
	var parts []string
	for _, t := range models.Tiers {
		if len(st[t]) > 0 {
			parts = append(parts, string(t)+": "+strings.Join(st[t], ", "))
		}
	}
	return strings.Join(parts, "; ")
}

func titleOrID(p models.Project) string {
	if p.Title != "" {
		return p.Title
	}
	return p.ID
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
