// Package session holds what the user is looking at on one Trac server: the wiki page and its
// history, the ticket listing with its sort, filters and page, and the open ticket.  A Context
// bundles the sessions with the client and the view host; every operation goes through it.
package session

import (
	"fmt"

	"github.com/toothbrush/trac-term/trac"
	"github.com/toothbrush/trac-term/view"
)

// Mode is the view family that was used last.
type Mode string

const (
	ModeNone   Mode = ""
	ModeWiki   Mode = "wiki"
	ModeTicket Mode = "ticket"
)

type Config struct {
	Profiles map[string]trac.Profile

	// Root of the persisted state and ticket snapshots.
	StoreDir string

	// Used when a save is given no comment.
	DefaultComment string

	// Appended to every ticket query, e.g. "status!=closed".
	TicketClause string

	WikiStyle    view.Style
	TicketStyle  view.Style
	HideTracWiki bool

	Host view.Host
}

// DefaultComment is what a wiki save says when nobody says anything.
const DefaultComment = "trac-term update"

// Connector opens a client for a profile.
type Connector func(trac.Profile) (*trac.API, error)

type Context struct {
	Profile trac.Profile
	API     *trac.API
	Wiki    *WikiSession
	Ticket  *TicketSession
	Mode    Mode
	Store   Store
	Host    view.Host

	config Config
}

// Select activates a server.  The returned context always starts with empty sessions.
func Select(cfg Config, name string, connect Connector) (*Context, error) {
	profile, ok := cfg.Profiles[name]
	if !ok {
		return nil, invalid("unknown server %q", name)
	}
	profile.Name = name

	api, err := connect(profile)
	if err != nil {
		return nil, fmt.Errorf("session: couldn't select server %s: %w", name, err)
	}

	if cfg.DefaultComment == "" {
		cfg.DefaultComment = DefaultComment
	}

	return &Context{
		Profile: profile,
		API:     api,
		Wiki:    NewWikiSession(api, cfg.DefaultComment),
		Ticket:  NewTicketSession(api, cfg.TicketClause),
		Store:   Store{Dir: cfg.StoreDir, Server: name},
		Host:    cfg.Host,
		config:  cfg,
	}, nil
}

// State is what survives between invocations.
type State struct {
	Server string         `yaml:"server"`
	Mode   Mode           `yaml:"mode,omitempty"`
	Wiki   *WikiSession   `yaml:"wiki,omitempty"`
	Ticket *TicketSession `yaml:"ticket,omitempty"`
}

func (c *Context) State() State {
	return State{Server: c.Profile.Name, Mode: c.Mode, Wiki: c.Wiki, Ticket: c.Ticket}
}

// Restore adopts the sessions of an earlier invocation.  State saved for another server is
// ignored, so nothing leaks across a server switch.
func (c *Context) Restore(st State) bool {
	if st.Server != c.Profile.Name {
		return false
	}

	c.Mode = st.Mode
	if st.Wiki != nil {
		c.Wiki = st.Wiki.attach(c.API, c.config.DefaultComment)
	}
	if st.Ticket != nil {
		c.Ticket = st.Ticket.attach(c.API, c.config.TicketClause)
	}
	return true
}

func invalid(format string, a ...any) error {
	return &trac.ValidationError{Msg: fmt.Sprintf(format, a...)}
}
