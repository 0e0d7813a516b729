/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import "os"

func main() {
	if err := Execute(); err != nil {
		newLogger().Error().Err(err).Msg("trac-term failed")
		os.Exit(1)
	}
}
