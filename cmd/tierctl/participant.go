// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/danielhkuo/tierboard/board"
	"github.com/danielhkuo/tierboard/client"
	"github.com/danielhkuo/tierboard/models"
)

const maxNameLength = 50

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "print the local participant id and name",
		Action: func(c *cli.Context) error {
			ids, err := identityStore(c)
			if err != nil {
				return err
			}
			id, err := ids.ParticipantID()
			if err != nil {
				return err
			}
			name, err := ids.Name()
			if err != nil {
				return err
			}
			if name == "" {
				name = models.AnonymousName
			}
			fmt.Fprintf(c.App.Writer, "%s\t%s\n", id, name)
			return nil
		},
	}
}

func nameCommand() *cli.Command {
	return &cli.Command{
		Name:      "name",
		Usage:     "set the display name sent with submissions",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if utf8.RuneCountInString(name) > maxNameLength {
				return fmt.Errorf("name must be at most %d characters", maxNameLength)
			}
			ids, err := identityStore(c)
			if err != nil {
				return err
			}
			if err := ids.SetName(name); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Name set to %q\n", name)
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print your board for a project",
		ArgsUsage: "<project>",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			s, err := openSession(c, c.Args().First())
			if err != nil {
				return err
			}
			printSession(c.App.Writer, s)
			return nil
		},
	}
}

func moveCommand() *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "drop an item on a tier (tier:S) or on another item",
		ArgsUsage: "<project> <item> <target>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "tier the item is dragged from"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 3); err != nil {
				return err
			}
			return edit(c, c.Args().First(), func(s *client.Session) (bool, error) {
				itemID, err := resolveItem(s.Items, c.Args().Get(1))
				if err != nil {
					return false, err
				}
				target, err := resolveTarget(s.Items, c.Args().Get(2))
				if err != nil {
					return false, err
				}
				return s.Apply(board.Move{
					ItemID: itemID,
					From:   models.Tier(strings.ToUpper(c.String("from"))),
					Target: target,
				})
			})
		},
	}
}

func selectCommand() *cli.Command {
	return &cli.Command{
		Name:      "select",
		Usage:     "put an item at the end of a tier",
		ArgsUsage: "<project> <item> <tier>",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 3); err != nil {
				return err
			}
			return edit(c, c.Args().First(), func(s *client.Session) (bool, error) {
				itemID, err := resolveItem(s.Items, c.Args().Get(1))
				if err != nil {
					return false, err
				}
				tier, err := parseTier(c.Args().Get(2))
				if err != nil {
					return false, err
				}
				return s.Select(itemID, tier)
			})
		},
	}
}

func reorderCommand() *cli.Command {
	return &cli.Command{
		Name:      "reorder",
		Usage:     "move the item at one position of a tier to another (1-based)",
		ArgsUsage: "<project> <tier> <from> <to>",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 4); err != nil {
				return err
			}
			tier, err := parseTier(c.Args().Get(1))
			if err != nil {
				return err
			}
			from, err := strconv.Atoi(c.Args().Get(2))
			if err != nil {
				return fmt.Errorf("invalid position %q", c.Args().Get(2))
			}
			to, err := strconv.Atoi(c.Args().Get(3))
			if err != nil {
				return fmt.Errorf("invalid position %q", c.Args().Get(3))
			}
			return edit(c, c.Args().First(), func(s *client.Session) (bool, error) {
				return s.Reorder(tier, from-1, to-1)
			})
		},
	}
}

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "save your board on the server",
		ArgsUsage: "<project>",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			s, err := openSession(c, c.Args().First())
			if err != nil {
				return err
			}
			resp, err := s.Submit(c.Context)
			if err != nil {
				return fmt.Errorf("submit failed, your draft is kept: %w", err)
			}
			fmt.Fprintln(c.App.Writer, resp.Message)
			return nil
		},
	}
}

func discardCommand() *cli.Command {
	return &cli.Command{
		Name:      "discard",
		Usage:     "drop the local draft and go back to the submitted board",
		ArgsUsage: "<project>",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			s, err := openSession(c, c.Args().First())
			if err != nil {
				return err
			}
			if err := s.Discard(c.Context); err != nil {
				return err
			}
			printSession(c.App.Writer, s)
			return nil
		},
	}
}

// edit applies fn to the project's board and prints the result.
func edit(c *cli.Context, projectID string, fn func(*client.Session) (bool, error)) error {
	s, err := openSession(c, projectID)
	if err != nil {
		return err
	}
	changed, err := fn(s)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(c.App.Writer, "Board unchanged")
		return nil
	}
	printSession(c.App.Writer, s)
	return nil
}

func parseTier(s string) (models.Tier, error) {
	t := models.Tier(strings.ToUpper(strings.TrimPrefix(s, "tier:")))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q (want S, A, B, C or D)", s)
	}
	return t, nil
}

// resolveItem accepts an item id or an exact item name.
func resolveItem(items []models.Item, arg string) (string, error) {
	for _, it := range items {
		if it.ID == arg {
			return it.ID, nil
		}
	}
	var found []string
	for _, it := range items {
		if it.Name == arg {
			found = append(found, it.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no item %q in this project", arg)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%d items are named %q, use the id", len(found), arg)
	}
}

func resolveTarget(items []models.Item, arg string) (board.Target, error) {
	target := board.ParseTarget(arg)
	if target.Tier != "" {
		tier, err := parseTier(arg)
		if err != nil {
			return board.Target{}, err
		}
		return board.TierTarget(tier), nil
	}
	itemID, err := resolveItem(items, arg)
	if err != nil {
		return board.Target{}, err
	}
	return board.ItemTarget(itemID), nil
}
