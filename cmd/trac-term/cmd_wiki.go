/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/trac-term/session"
)

var wikiUsage = strings.TrimSpace(`
Commands in this namespace open, browse and edit wiki pages.  The open page is written to
WIKI_WINDOW.txt in the views directory; edit it there and run 'wiki save'.
`)

var wikiCmd = &cobra.Command{
	Use:   "wiki",
	Short: "Commands to work with wiki pages",
	Long:  wikiUsage,
}

var wikiViewCmd = &cobra.Command{
	Use:   "view [PAGE]",
	Short: "Open a wiki page (default: the current page, or WikiStart)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return c.WikiView(name, 0)
	}),
}

var wikiBackCmd = &cobra.Command{
	Use:   "back",
	Short: "Go back to the previously visited page",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.WikiView("", -1)
	}),
}

var wikiForwardCmd = &cobra.Command{
	Use:   "forward",
	Short: "Go forward in the page history",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.WikiView("", 1)
	}),
}

func init() {
	rootCmd.AddCommand(wikiCmd)
	wikiCmd.AddCommand(wikiViewCmd)
	wikiCmd.AddCommand(wikiBackCmd)
	wikiCmd.AddCommand(wikiForwardCmd)
}
