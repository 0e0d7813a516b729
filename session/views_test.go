package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/trac-term/trac"
	"github.com/toothbrush/trac-term/trac/tractest"
	"github.com/toothbrush/trac-term/view"
)

func TestNoHost(t *testing.T) {
	c, _ := newContext(t, tractest.New())
	c.Host = nil

	assert.Error(t, c.ServerView())
	assert.Error(t, c.WikiSave(""))
}

func TestServerView(t *testing.T) {
	c, host := newContext(t, tractest.New())

	require.NoError(t, c.ServerView())
	assert.Equal(t, "  other: http://trac.other (digest)\n* test: http://trac.test (none)", host[view.Server])
}

func TestSearchView(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	fake := tractest.New().Return("search.performSearch", []any{
		[]any{"http://trac.test/ticket/12", "#12: crash on start", at, "alice", "crashes when started"},
		[]any{"http://trac.test/wiki/Guide", "Guide", at, "bob", "the guide"},
		[]any{"http://elsewhere.test/page", "elsewhere", at, "carol", "somewhere else"},
	})
	c, host := newContext(t, fake)

	assert.True(t, trac.IsValidation(c.SearchView("")))
	assert.Zero(t, fake.RoundTrips)

	require.NoError(t, c.SearchView("crash"))
	out := host[view.Search]
	assert.Contains(t, out, "Results for crash")
	assert.Contains(t, out, "Ticket:>> 12\ncrashes when started")
	assert.Contains(t, out, "Wiki:>> Guide\nthe guide")
	assert.Contains(t, out, "Link:>> page\nsomewhere else")
}

func TestOpenLine(t *testing.T) {
	fake := ticketServer()
	fake.ServeWiki(map[string]string{"Guide": "guide"})
	c, host := newContext(t, fake)
	ctx := context.Background()

	err := c.OpenLine(ctx, "nothing to see", false)
	assert.True(t, trac.IsValidation(err))
	err = c.OpenLine(ctx, "Link:>> page", false)
	assert.True(t, trac.IsValidation(err))

	require.NoError(t, c.OpenLine(ctx, "Ticket:>> 7", false))
	assert.Equal(t, 7, c.Ticket.Current)
	assert.Equal(t, ModeTicket, c.Mode)

	require.NoError(t, c.OpenLine(ctx, "9 || ticket summary || major", false))
	assert.Equal(t, 9, c.Ticket.Current)
	assert.Equal(t, 1, fake.Count("ticket.query"), "opening from a list keeps the batch")

	require.NoError(t, c.OpenLine(ctx, "Wiki:>> Guide", true))
	assert.Equal(t, "guide", host[view.WikiPreview])
	assert.Empty(t, c.Wiki.Current, "preview does not open the page")

	require.NoError(t, c.OpenLine(ctx, "Wiki:>> Guide", false))
	assert.Equal(t, "Guide", c.Wiki.Current)
	assert.Equal(t, ModeWiki, c.Mode)
}

func TestTicketListingControls(t *testing.T) {
	fake := ticketServer()
	c, host := newContext(t, fake)

	require.NoError(t, c.TicketFilter("owner", "alice"))
	assert.Contains(t, host[view.TicketTOC], "(filtered)\n    1. owner: alice : include")

	require.NoError(t, c.TicketPage(1))
	assert.Equal(t, 2, c.Ticket.Page)

	require.NoError(t, c.TicketUnfilter(""))
	assert.Empty(t, c.Ticket.Filters)
	assert.Equal(t, 1, c.Ticket.Page)
	assert.NotContains(t, host[view.TicketTOC], "(filtered)")

	require.NoError(t, c.TicketSort("order", "id"))
	assert.Contains(t, lastCall(t, fake, "ticket.query").Args[0], "order=id")

	assert.True(t, trac.IsValidation(c.TicketUnfilter("owner")))
}

func TestTicketVocabularyView(t *testing.T) {
	c, host := newContext(t, ticketServer())

	require.NoError(t, c.TicketVocabulary())
	assert.Contains(t, host[view.TicketVocab], "Resolution: fixed, invalid, wontfix")
	assert.Contains(t, host[view.TicketVocab], "Severity: ")
}

func TestTicketCreateFromPane(t *testing.T) {
	fake := ticketServer()
	c, host := newContext(t, fake)

	host[view.TicketComment] = "It crashes on start."
	id, err := c.TicketCreate("Crash", "")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Empty(t, host[view.TicketComment])
	assert.Contains(t, host[view.Ticket], " *   Ticket ID: 42")

	_, err = c.TicketCreate("Crash again", "")
	assert.True(t, trac.IsValidation(err), "the description is taken from the now empty pane")
}

func TestPreviewComment(t *testing.T) {
	fake := ticketServer()
	fake.ServeWiki(map[string]string{})
	c, host := newContext(t, fake)

	require.NoError(t, c.TicketView(7, false))
	host[view.TicketComment] = "a comment"
	require.NoError(t, c.Preview())
	assert.Equal(t, "a comment", host[view.WikiPreview])
}

func TestAttachNeedsSomethingOpen(t *testing.T) {
	c, _ := newContext(t, tractest.New())

	assert.True(t, trac.IsValidation(c.Attach("file.txt", "")))
	_, err := c.Attachments()
	assert.True(t, trac.IsValidation(err))
	_, err = c.Download("file.txt", t.TempDir(), nil)
	assert.True(t, trac.IsValidation(err))
}
