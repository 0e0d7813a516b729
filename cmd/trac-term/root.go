/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/trac-term/internal/termfmt"
	"github.com/toothbrush/trac-term/trac"
	"gopkg.in/yaml.v2"
)

var (
	// Store the result of binding cobra flags
	Config       string
	ConfigActual string
	Debug        bool
	NoColor      bool
	WithVCR      bool

	// Name of the server to talk to, overriding the one remembered from last time.
	Server string

	LocalStore     string
	ViewDir        string
	DefaultComment string
	TicketClause   string
	TicketStyle    string
	WikiStyle      string
	HideTracWiki   bool

	ParsedConfig YamlConfig
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "trac-term",
	Short: "Work with a Trac wiki and ticket tracker from the terminal",
	Long: `
Browse and edit Trac wiki pages and tickets without a browser.  Every view is written to a text file
in the views directory (and echoed to the terminal), so you can edit a page or a comment with
whatever editor you like, then save it back with the matching command.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("trac-term: failed to initialise config: %w", err)
		}

		termfmt.Plain = NoColor
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ~/.config/trac-term.yaml, respects TRAC_TERM_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().BoolVar(&NoColor, "no-color", false, "don't style terminal output")
	rootCmd.PersistentFlags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to record and replay responses")
	rootCmd.PersistentFlags().StringVar(&Server, "server", "", "name of the server profile to use")
	rootCmd.PersistentFlags().StringVar(&LocalStore, "store", "~/.local/share/trac-term", "location of saved state and ticket sessions")
	rootCmd.PersistentFlags().StringVar(&ViewDir, "views", "", "directory the views are written to (default: <store>/views)")
	rootCmd.PersistentFlags().StringVar(&DefaultComment, "default-comment", "", "comment used when saving a wiki page without one")
	rootCmd.PersistentFlags().StringVar(&TicketClause, "ticket-clause", "status!=closed", "clause appended to every ticket query")
	rootCmd.PersistentFlags().StringVar(&TicketStyle, "ticket-style", "full", "ticket layout: full, top, bottom, left, right or summary")
	rootCmd.PersistentFlags().StringVar(&WikiStyle, "wiki-style", "full", "wiki layout: full, top or bottom")
	rootCmd.PersistentFlags().BoolVar(&HideTracWiki, "hide-trac-wiki", true, "leave Trac's built-in pages out of the wiki index")
}

func initializeConfig(cmd *cobra.Command) error {
	if Config == "" {
		// Did the user provide an ENV?
		envConfig := os.Getenv("TRAC_TERM_CONFIG")
		if envConfig != "" {
			Config = envConfig
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = "~/.config/trac-term.yaml"
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("trac-term: unable to expand homedir: %w", err)
	}
	ConfigActual = config

	if _, err := os.Stat(ConfigActual); errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Couldn't read config file %s, does it exist?  Override with --config.\n", ConfigActual)
		return fmt.Errorf("trac-term: specified config file does not exist: %w", err)
	}

	yamlFile, err := os.ReadFile(ConfigActual)
	if err != nil {
		return fmt.Errorf("trac-term: error reading config file: %w", err)
	}

	// Bark if a user sets a key we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("trac-term: issue parsing config file: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("trac-term: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	Debug        *bool `yaml:"debug"`
	NoColor      *bool `yaml:"no-color"`
	WithVCR      *bool `yaml:"with-vcr"`
	HideTracWiki *bool `yaml:"hide-trac-wiki"`

	Server         string `yaml:"server"`
	StorePath      string `yaml:"store"`
	ViewDir        string `yaml:"views"`
	DefaultComment string `yaml:"default-comment"`
	TicketClause   string `yaml:"ticket-clause"`
	TicketStyle    string `yaml:"ticket-style"`
	WikiStyle      string `yaml:"wiki-style"`

	// Not a flag; the profiles are only ever read from the file.
	Servers map[string]trac.Profile `yaml:"servers"`
}

// Bind each cobra flag to its value from the config file, unless it was given on the command line.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("trac-term: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		switch field.Kind() {
		case reflect.Ptr:
			// YamlConfig only uses pointers for bools.
			b, ok := field.Value().(*bool)
			if !ok {
				return fmt.Errorf("trac-term: found unrecognised field: %+v", field)
			}
			if b != nil {
				if err := cmd.Flags().Set(key, fmt.Sprintf("%v", *b)); err != nil {
					return fmt.Errorf("trac-term: couldn't set %s: %w", key, err)
				}
			}

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("trac-term: found unrecognised field: %+v", field)
			}
			if s != "" {
				if err := cmd.Flags().Set(key, s); err != nil {
					return fmt.Errorf("trac-term: couldn't set %s: %w", key, err)
				}
			}

		default:
			return fmt.Errorf("trac-term: found unrecognised field: %+v", field)
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("trac-term: execution error: %w", err)
	}

	return nil
}
