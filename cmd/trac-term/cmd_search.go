/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/trac-term/session"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search tickets, wiki pages and changesets",
	Args:  cobra.MinimumNArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.SearchView(strings.Join(args, " "))
	}),
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show recent ticket, wiki and changeset activity",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		return c.TimelineView(ctx)
	}),
}

var changesetCmd = &cobra.Command{
	Use:   "changeset REV",
	Short: "Show the diff of a changeset",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		return c.ChangesetView(ctx, args[0])
	}),
}

var OpenPreview bool

var openCmd = &cobra.Command{
	Use:   "open LINE",
	Short: "Open what a line of a list, search or timeline view refers to",
	Long: `
Hand it a line containing ':>>', e.g. 'Ticket:>> 12' or 'Wiki:>> WikiStart', or a row of the
summary ticket list, and the matching ticket, page or changeset is opened.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		return c.OpenLine(ctx, strings.Join(args, " "), OpenPreview)
	}),
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(changesetCmd)
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().BoolVar(&OpenPreview, "preview", false, "show wiki pages formatted instead of opening them for editing")
}
