// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/danielhkuo/tierboard/client"
	"github.com/danielhkuo/tierboard/models"
)

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:   "admin",
		Usage:  "manage a project catalog (needs --admin-key)",
		Before: requireAdminKey,
		Subcommands: []*cli.Command{
			{
				Name:      "title",
				Usage:     "set the project title, creating the project if needed",
				ArgsUsage: "<project> <title>",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2); err != nil {
						return err
					}
					title := strings.Join(c.Args().Tail(), " ")
					p, err := apiClient(c).UpdateProject(c.Context, c.Args().First(), title)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Project %s titled %q\n", p.ID, p.Title)
					return nil
				},
			},
			{
				Name:      "upload",
				Usage:     "add images to the catalog",
				ArgsUsage: "<project> <file>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "item name; numbered when several files are given"},
				},
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2); err != nil {
						return err
					}
					var uploads []client.Upload
					var total int64
					for _, path := range c.Args().Tail() {
						f, err := os.Open(path)
						if err != nil {
							return err
						}
						defer f.Close()
						if st, err := f.Stat(); err == nil {
							total += st.Size()
						}
						uploads = append(uploads, client.Upload{Filename: filepath.Base(path), Body: f})
					}

					items, err := apiClient(c).AddItems(c.Context, c.Args().First(), c.String("name"), uploads)
					if err != nil {
						return err
					}
					for _, it := range items {
						fmt.Fprintf(c.App.Writer, "%s\t%s\n", it.ID, it.Name)
					}
					fmt.Fprintf(c.App.Writer, "Uploaded %d %s (%s)\n", len(items), plural(len(items), "image"), humanize.Bytes(uint64(total)))
					return nil
				},
			},
			{
				Name:      "remove",
				Usage:     "remove an item; existing boards keep working",
				ArgsUsage: "<project> <item>",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2); err != nil {
						return err
					}
					api := apiClient(c)
					p, err := api.GetProject(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					itemID, err := resolveItem(p.Items, c.Args().Get(1))
					if err != nil {
						return err
					}
					if err := api.RemoveItem(c.Context, p.Project.ID, itemID); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Removed %s\n", itemID)
					return nil
				},
			},
			{
				Name:      "submissions",
				Usage:     "list raw submissions",
				ArgsUsage: "<project>",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1); err != nil {
						return err
					}
					subs, err := apiClient(c).Submissions(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "NAME\tPLACED\tUPDATED")
					for _, s := range subs {
						placed := 0
						for _, ids := range s.Board {
							placed += len(ids)
						}
						name := s.ParticipantName
						if name == "" {
							name = models.AnonymousName
						}
						fmt.Fprintf(tw, "%s\t%d\t%s\n", name, placed, humanize.Time(s.UpdatedAt))
					}
					return tw.Flush()
				},
			},
		},
	}
}

func requireAdminKey(c *cli.Context) error {
	if c.String("admin-key") == "" {
		return errors.New("admin commands need --admin-key or TIERBOARD_ADMIN_KEY")
	}
	return nil
}
