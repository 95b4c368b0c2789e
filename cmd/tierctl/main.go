// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/danielhkuo/tierboard/client"
	"github.com/danielhkuo/tierboard/identity"
)

func main() {
	app := newApp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "tierctl:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "tierctl",
		Usage:  "rank images into tiers from the terminal",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:3318",
				Usage:   "tierboard server URL",
				EnvVars: []string{"TIERBOARD_URL"},
			},
			&cli.StringFlag{
				Name:    "identity",
				Usage:   "identity file (default: user config dir)",
				EnvVars: []string{"TIERBOARD_IDENTITY"},
			},
			&cli.StringFlag{
				Name:    "admin-key",
				Usage:   "admin key for catalog commands",
				EnvVars: []string{"TIERBOARD_ADMIN_KEY", "ADMIN_KEY"},
			},
		},
		Commands: []*cli.Command{
			whoamiCommand(),
			nameCommand(),
			showCommand(),
			moveCommand(),
			selectCommand(),
			reorderCommand(),
			submitCommand(),
			discardCommand(),
			resultsCommand(),
			exportCommand(),
			adminCommand(),
		},
	}
}

func apiClient(c *cli.Context) *client.Client {
	return client.New(c.String("server"), client.WithAdminKey(c.String("admin-key")))
}

func identityStore(c *cli.Context) (*identity.Store, error) {
	path := c.String("identity")
	if path == "" {
		var err error
		if path, err = identity.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return identity.Open(path), nil
}

func openSession(c *cli.Context, projectID string) (*client.Session, error) {
	ids, err := identityStore(c)
	if err != nil {
		return nil, err
	}
	return client.OpenSession(c.Context, apiClient(c), ids, projectID)
}

// requireArgs fails with the usage line when fewer than n args are given.
func requireArgs(c *cli.Context, n int) error {
	if c.NArg() < n {
		return fmt.Errorf("usage: %s %s %s", c.App.Name, c.Command.Name, c.Command.ArgsUsage)
	}
	return nil
}
