/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// Version is set with -ldflags "-X main.Version=..." by release builds.
var Version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the trac-term build",
	Long: `
Print the release, the commit trac-term was built from (marked dirty when the tree had local
changes) and the Go toolchain.  Builds from a plain checkout report "devel".
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return fmt.Errorf("version: binary carries no build info")
		}
		fmt.Printf("trac-term %s (%s)\n", buildVersion(Version, info.Settings), info.GoVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// buildVersion joins the release and the vcs stamp, e.g. "v1.2.0-rev-0a1b2c3-dirty".
func buildVersion(release string, settings []debug.BuildSetting) string {
	var revision string
	dirty := false
	for _, kv := range settings {
		switch kv.Key {
		case "vcs.revision":
			revision = kv.Value
		case "vcs.modified":
			dirty = kv.Value == "true"
		}
	}

	parts := []string{}
	if release != "unknown" && release != "(devel)" && release != "" {
		parts = append(parts, release)
	}
	if revision != "" {
		if len(revision) > 12 {
			revision = revision[:12]
		}
		parts = append(parts, "rev", revision)
		if dirty {
			parts = append(parts, "dirty")
		}
	}

	if len(parts) == 0 {
		return "devel"
	}
	return strings.Join(parts, "-")
}
