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

var (
	TicketComment string
	TicketType    string
)

var ticketCommentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Add TICKET_COMMENT_WINDOW as a comment on the current ticket",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketComment()
	}),
}

var ticketSetCmd = &cobra.Command{
	Use:   "set FIELD VALUE",
	Short: "Change one field of the current ticket, e.g. set priority major",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketSet(args[0], args[1])
	}),
}

var ticketDescribeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Replace the description of the current ticket with TICKET_COMMENT_WINDOW",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketDescribe()
	}),
}

var ticketSummaryCmd = &cobra.Command{
	Use:   "summary TEXT...",
	Short: "Change the summary of the current ticket",
	Args:  cobra.MinimumNArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketSummary(strings.Join(args, " "))
	}),
}

var ticketCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the current ticket",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketClose(TicketComment)
	}),
}

var ticketResolveCmd = &cobra.Command{
	Use:   "resolve RESOLUTION",
	Short: "Close the current ticket with a resolution, e.g. fixed",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketResolve(TicketComment, args[0])
	}),
}

var ticketCreateCmd = &cobra.Command{
	Use:   "create SUMMARY...",
	Short: "File a new ticket, described by TICKET_COMMENT_WINDOW",
	Args:  cobra.MinimumNArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		id, err := c.TicketCreate(strings.Join(args, " "), TicketType)
		if err != nil {
			return err
		}
		fmt.Printf("Created ticket #%d\n", id)
		return nil
	}),
}

var ticketActionCmd = &cobra.Command{
	Use:   "action NAME [OPTION...]",
	Short: "Run a workflow action on the current ticket, e.g. action resolve fixed",
	Long: `
Runs one of the actions listed under '== Action ==' in the ticket view.  Options fill in the
action's fields in order, so 'action resolve fixed' resolves as fixed and 'action reassign bob'
hands the ticket to bob.  TICKET_COMMENT_WINDOW is sent along as the comment.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketAct(strings.Join(args, " "))
	}),
}

func init() {
	ticketCmd.AddCommand(ticketCommentCmd)
	ticketCmd.AddCommand(ticketSetCmd)
	ticketCmd.AddCommand(ticketDescribeCmd)
	ticketCmd.AddCommand(ticketSummaryCmd)
	ticketCmd.AddCommand(ticketCloseCmd)
	ticketCmd.AddCommand(ticketResolveCmd)
	ticketCmd.AddCommand(ticketCreateCmd)
	ticketCmd.AddCommand(ticketActionCmd)

	ticketCloseCmd.Flags().StringVarP(&TicketComment, "message", "m", "", "comment (default: TICKET_COMMENT_WINDOW)")
	ticketResolveCmd.Flags().StringVarP(&TicketComment, "message", "m", "", "comment (default: TICKET_COMMENT_WINDOW)")
	ticketCreateCmd.Flags().StringVar(&TicketType, "type", "", "ticket type, e.g. defect")
}
