/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/toothbrush/trac-term/session"
)

var wikiInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the version and author of the current page",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		info, err := c.Wiki.Info()
		if err != nil {
			return err
		}
		fmt.Println(info)
		return nil
	}),
}

var wikiDiffCmd = &cobra.Command{
	Use:   "diff [REVISION]",
	Short: "Write an earlier revision of the current page to WIKI_DIFF_WINDOW",
	Long: `
Puts an earlier revision of the current page next to it, by default the one before the last known
version.  Run 'wiki info' first to learn the latest version.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		rev := 0
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("wiki: revision %q is not a number", args[0])
			}
			rev = n
		}
		return c.WikiDiff(rev)
	}),
}

func init() {
	wikiCmd.AddCommand(wikiInfoCmd)
	wikiCmd.AddCommand(wikiDiffCmd)
}
