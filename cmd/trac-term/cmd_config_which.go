/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configWhichCmd = &cobra.Command{
	Use:   "which",
	Short: "Print the config file in use",
	Long: `
Print the YAML file the server profiles were read from.  That's --config if given, else
$TRAC_TERM_CONFIG, else ~/.config/trac-term.yaml.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trac-term config: %s\n", ConfigActual)
		if Server != "" {
			fmt.Printf("server override:  %s\n", Server)
		}
	},
}

func init() {
	configCmd.AddCommand(configWhichCmd)
}
