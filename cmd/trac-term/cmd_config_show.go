/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.  Passwords are
not shown.
`,
	Run: func(cmd *cobra.Command, args []string) {
		// Note, you can only talk about persistent flags here.  Command-specific ones won't be
		// visible.
		fmt.Printf("Dump current config state:\n\n")

		fmt.Printf("  Config file: %s\n", ConfigActual)
		fmt.Printf("  Debug: %v\n", Debug)
		fmt.Printf("  NoColor: %v\n", NoColor)
		fmt.Printf("  WithVCR: %v\n", WithVCR)
		fmt.Println()
		fmt.Printf("  Server: %s\n", Server)
		fmt.Printf("  LocalStore: %s\n", LocalStore)
		fmt.Printf("  ViewDir: %s\n", ViewDir)
		fmt.Printf("  DefaultComment: %s\n", DefaultComment)
		fmt.Printf("  TicketClause: %s\n", TicketClause)
		fmt.Printf("  TicketStyle: %s\n", TicketStyle)
		fmt.Printf("  WikiStyle: %s\n", WikiStyle)
		fmt.Printf("  HideTracWiki: %v\n", HideTracWiki)
		fmt.Println()

		fmt.Printf("  Servers:\n")
		names := maps.Keys(ParsedConfig.Servers)
		sort.Strings(names)
		for _, name := range names {
			p := ParsedConfig.Servers[name].Normalised()
			mode := "invalid auth"
			if creds, err := p.Credentials(); err == nil {
				mode = creds.Mode.String()
			}
			fmt.Printf("    - %s: %s://%s%s (%s)\n", name, p.Scheme, p.Host, p.RPCPath, mode)
		}
	},
}

func init() {
	configCmd.AddCommand(showCmd)
}
