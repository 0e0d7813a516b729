/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/trac-term/session"
	"github.com/toothbrush/trac-term/view"
	"golang.org/x/exp/maps"
)

// storeDir is the expanded --store.
func storeDir() (string, error) {
	if LocalStore == "" {
		return "", fmt.Errorf("cmd: no location set for the local store.  Use --store or set it in your config file")
	}
	dir, err := homedir.Expand(LocalStore)
	if err != nil {
		return "", fmt.Errorf("cmd: couldn't expand homedir: %w", err)
	}
	return dir, nil
}

func viewDir(store string) (string, error) {
	if ViewDir == "" {
		return path.Join(store, "views"), nil
	}
	dir, err := homedir.Expand(ViewDir)
	if err != nil {
		return "", fmt.Errorf("cmd: couldn't expand homedir: %w", err)
	}
	return dir, nil
}

func sessionConfig() (session.Config, error) {
	if len(ParsedConfig.Servers) == 0 {
		return session.Config{}, fmt.Errorf("cmd: no servers configured, add some under 'servers:' in %s", ConfigActual)
	}

	wikiStyle, err := view.ParseStyle(WikiStyle)
	if err != nil {
		return session.Config{}, err
	}
	ticketStyle, err := view.ParseStyle(TicketStyle)
	if err != nil {
		return session.Config{}, err
	}

	store, err := storeDir()
	if err != nil {
		return session.Config{}, err
	}
	views, err := viewDir(store)
	if err != nil {
		return session.Config{}, err
	}

	return session.Config{
		Profiles:       ParsedConfig.Servers,
		StoreDir:       store,
		DefaultComment: DefaultComment,
		TicketClause:   TicketClause,
		WikiStyle:      wikiStyle,
		TicketStyle:    ticketStyle,
		HideTracWiki:   HideTracWiki,
		Host: &view.DirHost{
			Dir:   views,
			Echo:  os.Stdout,
			Quiet: map[view.Name]bool{view.TicketComment: true},
		},
	}, nil
}

// pickServer prefers --server, then the server used last time, then the configured default, then
// the first profile by name.
func pickServer(cfg session.Config, remembered string) string {
	for _, name := range []string{Server, remembered, ParsedConfig.Server} {
		if _, ok := cfg.Profiles[name]; ok && name != "" {
			return name
		}
	}
	names := maps.Keys(cfg.Profiles)
	sort.Strings(names)
	return names[0]
}

// withSession runs fn against the restored session context and saves the state afterwards, even
// when fn fails part way: whatever it already changed on the server is reflected in the session.
func withSession(fn func(cmd *cobra.Command, args []string, c *session.Context) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := sessionConfig()
		if err != nil {
			return err
		}

		cl, err := newClient()
		if err != nil {
			return err
		}
		defer cl.stop()

		st, found, err := session.LoadState(cfg.StoreDir)
		if err != nil {
			return err
		}

		name := pickServer(cfg, st.Server)
		cl.logger.Debug().Str("server", name).Bool("state_found", found).Msg("selected server")

		c, err := session.Select(cfg, name, cl.open)
		if err != nil {
			return err
		}
		if found && !c.Restore(st) {
			cl.logger.Debug().Str("saved_server", st.Server).Str("server", name).Msg("ignoring saved state of another server")
		}

		runErr := fn(cmd, args, c)

		if err := session.SaveState(cfg.StoreDir, c.State()); err != nil {
			if runErr != nil {
				return fmt.Errorf("%w (and couldn't save state: %v)", runErr, err)
			}
			return err
		}
		return runErr
	}
}
