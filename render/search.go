package render

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/toothbrush/trac-term/trac"
)

// Kind is the prefix of an openable line.
type Kind string

const (
	KindTicket    Kind = "Ticket"
	KindWiki      Kind = "Wiki"
	KindChangeset Kind = "Changeset"
	KindLink      Kind = "Link"
)

const feedStamp = "2006-01-02 15:04:05"

var (
	ticketTitle    = regexp.MustCompile(`^Ticket #(\d+) (.*)$`)
	wikiTitle      = regexp.MustCompile(`^([\w\d]+) (edited by .*)$`)
	changesetTitle = regexp.MustCompile(`^Changeset \[([\w]+)\]: (.*)$`)

	markerLine  = regexp.MustCompile(`(\w+):>>\s*(\S+)`)
	summaryLine = regexp.MustCompile(`^\s*(\d+)\s*\|\|`)
)

func marker(k Kind, ref string) string {
	return string(k) + ":>> " + ref
}

// ClassifyHref picks a kind from the path of a search result.
func ClassifyHref(href string) Kind {
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	}

	switch {
	case strings.Contains(p, "/changeset/"):
		return KindChangeset
	case strings.Contains(p, "/wiki/"):
		return KindWiki
	case strings.Contains(p, "/ticket/"):
		return KindTicket
	}
	return KindLink
}

func SearchResults(query string, results []trac.SearchResult) string {
	lines := []string{"Results for " + query, "(" + OpenHint + ")", ""}
	for _, r := range results {
		ref := r.Href
		if u, err := url.Parse(r.Href); err == nil {
			ref = path.Base(u.Path)
		}
		lines = append(lines, marker(ClassifyHref(r.Href), ref), r.Excerpt, "")
	}
	return strings.Join(lines, "\n")
}

// Event is a timeline title split into what it refers to and what happened.
type Event struct {
	Kind Kind
	Ref  string
	Rest string
}

// ClassifyTitle recognises ticket, wiki and changeset feed titles.
func ClassifyTitle(title string) (Event, bool) {
	if m := ticketTitle.FindStringSubmatch(title); m != nil {
		return Event{Kind: KindTicket, Ref: m[1], Rest: m[2]}, true
	}
	if m := wikiTitle.FindStringSubmatch(title); m != nil {
		return Event{Kind: KindWiki, Ref: m[1], Rest: m[2]}, true
	}
	if m := changesetTitle.FindStringSubmatch(title); m != nil {
		return Event{Kind: KindChangeset, Ref: m[1], Rest: m[2]}, true
	}
	return Event{}, false
}

func Timeline(items []trac.FeedItem) string {
	lines := []string{OpenHint, ""}
	for _, item := range items {
		lines = append(lines, item.Updated.Format(feedStamp))
		if ev, ok := ClassifyTitle(item.Title); ok {
			lines = append(lines, marker(ev.Kind, ev.Ref), ev.Rest)
		} else {
			lines = append(lines, item.Title)
		}
		lines = append(lines, "Link: "+item.Link, "")
	}
	return strings.Join(lines, "\n")
}

// ParseLine extracts the target of an openable line: a "Kind:>> ref" marker, or the leading id of
// a summary row.
func ParseLine(line string) (Kind, string, bool) {
	if m := markerLine.FindStringSubmatch(line); m != nil {
		switch k := Kind(m[1]); k {
		case KindTicket, KindWiki, KindChangeset:
			return k, m[2], true
		}
		return "", "", false
	}
	if m := summaryLine.FindStringSubmatch(line); m != nil {
		return KindTicket, m[1], true
	}
	return "", "", false
}
