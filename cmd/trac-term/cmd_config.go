/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var configUsage = strings.TrimSpace(`
Inspect the trac-term configuration: the global settings, the server profiles it knows about, and
the YAML file they were read from.  Passwords are never printed.
`)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect server profiles and settings",
	Long:  configUsage,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
