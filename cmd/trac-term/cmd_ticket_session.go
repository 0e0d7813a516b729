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

var ticketSessionUsage = strings.TrimSpace(`
Save the ticket listing (sort, filters, page and fetched tickets) to come back to it later.  By
default the snapshot is named after the current ticket; with --component it's named after a
component, the current ticket's when none is given.
`)

var ByComponent bool

var ticketSessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Commands to save and restore ticket sessions",
	Long:  ticketSessionUsage,
}

var ticketSessionSaveCmd = &cobra.Command{
	Use:   "save [COMPONENT]",
	Short: "Snapshot the ticket session",
	Args:  cobra.MaximumNArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		component, byComponent := componentArg(args)
		abs, err := c.SaveSession(component, byComponent)
		if err != nil {
			return err
		}
		fmt.Printf("Saved session to %s\n", abs)
		return nil
	}),
}

var ticketSessionLoadCmd = &cobra.Command{
	Use:   "load [COMPONENT]",
	Short: "Bring back a ticket session snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		return c.LoadSession(componentArg(args))
	}),
}

// Naming a component implies --component.
func componentArg(args []string) (string, bool) {
	if len(args) > 0 {
		return args[0], true
	}
	return "", ByComponent
}

func init() {
	ticketCmd.AddCommand(ticketSessionCmd)
	ticketSessionCmd.AddCommand(ticketSessionSaveCmd)
	ticketSessionCmd.AddCommand(ticketSessionLoadCmd)

	ticketSessionSaveCmd.Flags().BoolVar(&ByComponent, "component", false, "name the snapshot after a component")
	ticketSessionLoadCmd.Flags().BoolVar(&ByComponent, "component", false, "load a snapshot named after a component")
}
