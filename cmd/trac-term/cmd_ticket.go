/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/trac-term/session"
)

var ticketUsage = strings.TrimSpace(`
Commands in this namespace list, open and change tickets.  The listing honours the sort, filters and
page you've set, and is kept between invocations.  Write comments and descriptions to
TICKET_COMMENT_WINDOW.txt in the views directory, then run the matching command.
`)

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Commands to work with tickets",
	Long:  ticketUsage,
}

var CachedList bool

var ticketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets, and the current one if any",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketView(0, CachedList)
	}),
}

var ticketViewCmd = &cobra.Command{
	Use:   "view ID",
	Short: "Open a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		id, err := ticketID(args[0])
		if err != nil {
			return err
		}
		return c.TicketView(id, true)
	}),
}

var ticketNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next page of tickets",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketPage(1)
	}),
}

var ticketPrevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Show the previous page of tickets",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketPage(-1)
	}),
}

// ticketID accepts 12 as well as #12.
func ticketID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("ticket: %q is not a ticket number", arg)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(ticketCmd)
	ticketCmd.AddCommand(ticketListCmd)
	ticketCmd.AddCommand(ticketViewCmd)
	ticketCmd.AddCommand(ticketNextCmd)
	ticketCmd.AddCommand(ticketPrevCmd)

	ticketListCmd.Flags().BoolVar(&CachedList, "cached", false, "redraw from the tickets fetched last time")
}
