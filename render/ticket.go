// Package render turns tracker data into the plain-text blocks shown in each view.  Lines carrying
// a "Kind:>> ref" marker can be opened again with ParseLine.
package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/toothbrush/trac-term/trac"
	"golang.org/x/exp/maps"
)

// ListMode selects how a ticket batch is laid out.
type ListMode int

const (
	// Verbose is a table of contents, one block per ticket.
	Verbose ListMode = iota
	// Summary is a dense table, one line per ticket.
	Summary
)

func (m ListMode) String() string {
	if m == Summary {
		return "summary"
	}
	return "verbose"
}

const OpenHint = "Open a line containing :>> with `trac-term open`"

var listFields = []string{"summary", "priority", "status", "component", "milestone", "type", "version", "owner"}

var headerFields = []string{"owner", "reporter", "status", "summary", "type", "priority", "component", "milestone", "version"}

const changeLogStamp = "Mon 02/01/2006 15:04"

// TicketList renders a batch.  present reports whether a ticket has a saved session; it may be nil.
func TicketList(tickets []trac.Ticket, mode ListMode, filters map[string]trac.Filter, present func(id int) bool) string {
	lines := []string{}
	if mode == Verbose {
		lines = append(lines, OpenHint)
		if len(filters) > 0 {
			lines = append(lines, "(filtered)", FilterList(filters))
		}
	}

	for _, t := range tickets {
		if mode == Summary {
			cols := []string{strconv.Itoa(t.ID)}
			for _, f := range listFields {
				cols = append(cols, truncateWords(t.Get(f), 10))
			}
			lines = append(lines, strings.Join(cols, " || "))
			continue
		}

		lines = append(lines, "", marker(KindTicket, strconv.Itoa(t.ID)))
		for _, f := range listFields {
			lines = append(lines, fmt.Sprintf("   * %s: %s", title(f), truncateWords(t.Get(f), 10)))
		}
		if present != nil && present(t.ID) {
			lines = append(lines, "   * Session: PRESENT")
		}
	}

	return strings.Join(lines, "\n")
}

// FilterList numbers the active filters, sorted by field.
func FilterList(filters map[string]trac.Filter) string {
	fields := maps.Keys(filters)
	sort.Strings(fields)

	var b strings.Builder
	for i, field := range fields {
		f := filters[field]
		kind := "include"
		if f.Exclude {
			kind = "exclude"
		}
		fmt.Fprintf(&b, "    %d. %s: %s : %s\n", i+1, field, f.Value, kind)
	}
	return b.String()
}

// Detail is everything shown in the ticket view.
type Detail struct {
	Ticket      trac.Ticket
	ChangeLog   []trac.ChangeLogEntry
	Actions     []trac.Action
	Attachments []string
	Session     bool
}

func TicketDetail(d Detail) string {
	lines := []string{"= Ticket Summary =", ""}
	lines = append(lines, fmt.Sprintf(" *%12s: %d", "Ticket ID", d.Ticket.ID))
	for _, f := range headerFields {
		lines = append(lines, fmt.Sprintf(" *%12s: %s", title(f), d.Ticket.Get(f)))
	}
	if d.Session {
		lines = append(lines, fmt.Sprintf(" *%12s: PRESENT", "Session"))
	}
	lines = append(lines, fmt.Sprintf(" *%12s: %s", "Attachments", strings.Join(d.Attachments, ", ")))

	lines = append(lines, "", "= Description: =", "", d.Ticket.Get("description"), "", "= Changelog =")
	if log := ChangeLog(d.ChangeLog); log != "" {
		lines = append(lines, log)
	}

	lines = append(lines, "", "== Action ==", "")
	for _, a := range d.Actions {
		lines = append(lines, " > "+a.Name)
	}

	return strings.Join(lines, "\n")
}

// ChangeGroup is a run of changelog entries sharing timestamp and author.
type ChangeGroup struct {
	Time    time.Time
	Author  string
	Entries []trac.ChangeLogEntry
}

func (g ChangeGroup) Heading() string {
	return fmt.Sprintf("== %s (%s) ==", g.Time.Format(changeLogStamp), g.Author)
}

// GroupChangeLog collapses consecutive entries with the same timestamp and author.  Entries without
// a new value are dropped.
func GroupChangeLog(entries []trac.ChangeLogEntry) []ChangeGroup {
	groups := []ChangeGroup{}
	for _, e := range entries {
		if e.NewValue == "" {
			continue
		}
		if n := len(groups); n > 0 && groups[n-1].Author == e.Author && groups[n-1].Time.Equal(e.Time) {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, ChangeGroup{Time: e.Time, Author: e.Author, Entries: []trac.ChangeLogEntry{e}})
	}
	return groups
}

func ChangeLog(entries []trac.ChangeLogEntry) string {
	lines := []string{}
	for _, g := range GroupChangeLog(entries) {
		lines = append(lines, "", g.Heading())
		for _, e := range g.Entries {
			switch {
			case e.Field == "comment" || e.Field == "description":
				lines = append(lines, fmt.Sprintf(" * %s:", e.Field), e.NewValue)
			case e.OldValue != "":
				lines = append(lines, fmt.Sprintf(" * '''%s''': ''%s'' > ''%s''", e.Field, e.OldValue, e.NewValue))
			default:
				lines = append(lines, fmt.Sprintf(" * '''%s''': ''%s''", e.Field, e.NewValue))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// Vocabulary lists the valid values of each enumerated attribute.
func Vocabulary(v trac.Vocabulary) string {
	lines := []string{}
	for _, field := range trac.VocabularyFields {
		values, _ := v.Values(field)
		lines = append(lines, fmt.Sprintf("%s: %s", title(field), strings.Join(values, ", ")))
	}
	return strings.Join(lines, "\n")
}

func truncateWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
