package render

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/trac-term/trac"
)

func TestClassifyHref(t *testing.T) {
	tests := []struct {
		href string
		want Kind
	}{
		{"http://trac.test/ticket/12", KindTicket},
		{"http://trac.test/wiki/WikiStart", KindWiki},
		{"http://trac.test/changeset/abc123", KindChangeset},
		{"http://trac.test/milestone/1.0", KindLink},
		{"/trac/wiki/Foo?version=2", KindWiki},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyHref(tt.href))
		})
	}
}

func TestSearchResults(t *testing.T) {
	text := SearchResults("crash", []trac.SearchResult{
		{Href: "http://trac.test/ticket/12", Excerpt: "it crashes"},
		{Href: "http://trac.test/wiki/Guide/Install", Excerpt: "install guide"},
	})

	assert.Contains(t, text, "Results for crash")
	assert.Contains(t, text, "Ticket:>> 12\nit crashes")
	assert.Contains(t, text, "Wiki:>> Install\ninstall guide")
}

func TestClassifyTitle(t *testing.T) {
	tests := []struct {
		title string
		want  Event
	}{
		{"Ticket #12 (Crash on save) closed", Event{KindTicket, "12", "(Crash on save) closed"}},
		{"WikiStart edited by alice", Event{KindWiki, "WikiStart", "edited by alice"}},
		{"Changeset [a1b2c3]: Fix the crash", Event{KindChangeset, "a1b2c3", "Fix the crash"}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			ev, ok := ClassifyTitle(tt.title)
			require.True(t, ok)
			assert.Equal(t, tt.want, ev)
		})
	}

	_, ok := ClassifyTitle("Milestone 1.0 completed")
	assert.False(t, ok)
}

func TestTimeline(t *testing.T) {
	text := Timeline([]trac.FeedItem{
		{Title: "Ticket #12 (Crash) created", Link: "http://trac.test/ticket/12", Updated: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Title: "Milestone 1.0 completed", Link: "http://trac.test/milestone/1.0"},
	})

	assert.Contains(t, text, "2024-01-02 03:04:05\nTicket:>> 12\n(Crash) created\nLink: http://trac.test/ticket/12")
	assert.Contains(t, text, "Milestone 1.0 completed\nLink: http://trac.test/milestone/1.0")
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
		ref  string
		ok   bool
	}{
		{"Ticket:>> 12", KindTicket, "12", true},
		{"  Wiki:>> WikiStart", KindWiki, "WikiStart", true},
		{"Changeset:>> a1b2c3", KindChangeset, "a1b2c3", true},
		{"7 || Crash on save || major", KindTicket, "7", true},
		{"Link:>> 1.0", "", "", false},
		{"= Ticket Summary =", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			kind, ref, ok := ParseLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.ref, ref)
		})
	}
}

func TestWikiTOC(t *testing.T) {
	pages := []string{"TracGuide", "Zebra", "WikiStart", "SandBox", "Apple", "WikiFormatting"}

	assert.Equal(t, "WikiStart\nApple\nZebra", WikiTOC(pages, true))
	assert.Equal(t, "WikiStart\nApple\nSandBox\nTracGuide\nWikiFormatting\nZebra", WikiTOC(pages, false))
}

func TestHTMLToText(t *testing.T) {
	base, err := url.Parse("https://trac.test")
	require.NoError(t, err)

	text, err := HTMLToText(`<h1>Guide</h1><p>See <a href="/wiki/Install">install</a>.</p>`, base)
	require.NoError(t, err)
	assert.Contains(t, text, "# Guide")
	assert.Contains(t, text, "[install](https://trac.test/wiki/Install)")
}

func TestServers(t *testing.T) {
	text := Servers(map[string]trac.Profile{
		"work": {Host: "trac.work", Auth: "alice:secret:realm"},
		"home": {Scheme: "https", Host: "trac.home"},
	}, "work")

	assert.Equal(t, "  home: https://trac.home (none)\n* work: http://trac.work (digest)", text)
}
