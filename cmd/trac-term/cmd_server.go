/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/trac-term/session"
)

var serverUsage = strings.TrimSpace(`
Commands in this namespace list the Trac servers in your config, and switch between them.  Switching
server starts over with an empty wiki and ticket session.
`)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Commands to pick a Trac server",
	Long:  serverUsage,
}

var serverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured servers, marking the active one",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.ServerView()
	}),
}

var serverUseCmd = &cobra.Command{
	Use:   "use NAME",
	Short: "Connect to a server and make it the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := sessionConfig()
		if err != nil {
			return err
		}

		cl, err := newClient()
		if err != nil {
			return err
		}
		defer cl.stop()

		c, err := session.Select(cfg, args[0], cl.connect)
		if err != nil {
			return err
		}

		version, err := c.API.APIVersion()
		if err != nil {
			return err
		}
		fmt.Printf("Connected to %s (%s auth, RPC API %v)\n", c.Profile.Name, c.API.AuthMode(), version)

		if err := session.SaveState(cfg.StoreDir, c.State()); err != nil {
			return err
		}
		return c.ServerView()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.AddCommand(serverListCmd)
	serverCmd.AddCommand(serverUseCmd)
}
