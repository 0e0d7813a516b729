/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toothbrush/trac-term/session"
)

var ticketSortCmd = &cobra.Command{
	Use:       "sort order|group FIELD",
	Short:     "Change how the listing is ordered or grouped",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"order", "group"},
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketSort(args[0], args[1])
	}),
}

var ticketFilterCmd = &cobra.Command{
	Use:   "filter FIELD VALUE",
	Short: "Only list tickets whose FIELD is VALUE; use !VALUE to exclude",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketFilter(args[0], args[1])
	}),
}

var ticketUnfilterCmd = &cobra.Command{
	Use:   "unfilter [FIELD]",
	Short: "Drop the filter on FIELD, or all filters",
	Args:  cobra.MaximumNArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		field := ""
		if len(args) > 0 {
			field = args[0]
		}
		return c.TicketUnfilter(field)
	}),
}

var ticketCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count the tickets matching the filters, over all pages",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		n, err := c.Ticket.Count()
		if err != nil {
			return err
		}
		fmt.Printf("%d tickets\n", n)
		return nil
	}),
}

var ticketVocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Show the valid milestones, types, statuses and so on",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.TicketVocabulary()
	}),
}

func init() {
	ticketCmd.AddCommand(ticketSortCmd)
	ticketCmd.AddCommand(ticketFilterCmd)
	ticketCmd.AddCommand(ticketUnfilterCmd)
	ticketCmd.AddCommand(ticketCountCmd)
	ticketCmd.AddCommand(ticketVocabCmd)
}
