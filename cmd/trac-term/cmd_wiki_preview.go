/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"github.com/spf13/cobra"
	"github.com/toothbrush/trac-term/session"
)

var previewCmd = &cobra.Command{
	Use:   "preview [PAGE]",
	Short: "Render the text being edited through the server's wiki formatter",
	Long: `
Without an argument, renders what you're editing: WIKI_WINDOW when a page is open, or
TICKET_COMMENT_WINDOW when a ticket is.  With a page name, shows the stored page instead.  The result
lands in WIKI_PREVIEW_WINDOW.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		if len(args) > 0 {
			return c.PagePreview(args[0])
		}
		return c.Preview()
	}),
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
