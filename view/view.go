// Package view is the contract between the controller and whatever draws the panes.  The controller
// only ever renders a text block into a named view, or reads back what the user left there.
package view

import (
	"fmt"
	"strings"

	"github.com/toothbrush/trac-term/render"
)

// Name identifies a pane.
type Name string

const (
	Wiki            Name = "WIKI_WINDOW"
	WikiTOC         Name = "WIKITOC_WINDOW"
	WikiAttachments Name = "WIKIATT_WINDOW"
	WikiDiff        Name = "WIKI_DIFF_WINDOW"
	WikiPreview     Name = "WIKI_PREVIEW_WINDOW"

	Ticket         Name = "TICKET_WINDOW"
	TicketTOC      Name = "TICKETTOC_WINDOW"
	TicketSummary  Name = "TICKETSUMMARY_WINDOW"
	TicketComment  Name = "TICKET_COMMENT_WINDOW"
	TicketVocab    Name = "TICKET_VOCABULARY_WINDOW"
	TicketAttached Name = "TICKETATT_WINDOW"

	Search    Name = "SEARCH_WINDOW"
	Timeline  Name = "TIMELINE_WINDOW"
	Changeset Name = "CHANGESET_WINDOW"
	Server    Name = "SERVER_WINDOW"
)

type Host interface {
	// Render replaces the contents of a view.
	Render(name Name, text string) error
	// Read returns what is currently in a view; a view never rendered reads as empty.
	Read(name Name) (string, error)
}

// Style is where the panes of a mode are placed.
type Style int

const (
	StyleFull Style = iota
	StyleTop
	StyleBottom
	StyleLeft
	StyleRight
	StyleSummary
)

var styleNames = []string{"full", "top", "bottom", "left", "right", "summary"}

func (s Style) String() string {
	if int(s) < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

func ParseStyle(s string) (Style, error) {
	for i, name := range styleNames {
		if strings.EqualFold(s, name) {
			return Style(i), nil
		}
	}
	return 0, fmt.Errorf("view: unknown style %q, want one of %s", s, strings.Join(styleNames, ", "))
}

func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Layout is the set of panes a mode shows.
type Layout struct {
	Style Style
	Panes []Name

	// Ticket layouts only.
	List     render.ListMode
	ListPane Name
}

func (l Layout) Has(name Name) bool {
	for _, p := range l.Panes {
		if p == name {
			return true
		}
	}
	return false
}

// WikiLayout always pairs the page with the index; full also shows attachments.
func WikiLayout(style Style) (Layout, error) {
	switch style {
	case StyleFull:
		return Layout{Style: style, Panes: []Name{WikiTOC, Wiki, WikiAttachments}}, nil
	case StyleTop, StyleBottom:
		return Layout{Style: style, Panes: []Name{WikiTOC, Wiki}}, nil
	}
	return Layout{}, fmt.Errorf("view: style %s has no wiki layout", style)
}

// TicketLayout decides how the ticket list is drawn: a dense table for summary, a table of contents
// otherwise.
func TicketLayout(style Style) (Layout, error) {
	switch style {
	case StyleSummary:
		return Layout{
			Style:    style,
			Panes:    []Name{TicketSummary, Ticket, TicketComment},
			List:     render.Summary,
			ListPane: TicketSummary,
		}, nil
	case StyleFull, StyleTop, StyleBottom, StyleLeft, StyleRight:
		return Layout{
			Style:    style,
			Panes:    []Name{TicketTOC, Ticket, TicketComment, TicketAttached},
			List:     render.Verbose,
			ListPane: TicketTOC,
		}, nil
	}
	return Layout{}, fmt.Errorf("view: unknown style %s", style)
}
