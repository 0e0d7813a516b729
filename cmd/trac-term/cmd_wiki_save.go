/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toothbrush/trac-term/session"
)

var WikiComment string

var wikiSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save WIKI_WINDOW as the next version of the current page",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		if err := c.WikiSave(WikiComment); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", c.Wiki.Current)
		return nil
	}),
}

var wikiCreateCmd = &cobra.Command{
	Use:   "create PAGE",
	Short: "Save WIKI_WINDOW as a new page",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.WikiCreate(args[0], WikiComment)
	}),
}

func init() {
	wikiCmd.AddCommand(wikiSaveCmd)
	wikiCmd.AddCommand(wikiCreateCmd)

	wikiSaveCmd.Flags().StringVarP(&WikiComment, "message", "m", "", "change comment (default: --default-comment)")
	wikiCreateCmd.Flags().StringVarP(&WikiComment, "message", "m", "", "change comment (default: --default-comment)")
}
