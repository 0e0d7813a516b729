package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/trac-term/trac"
	"github.com/toothbrush/trac-term/trac/tractest"
	"github.com/toothbrush/trac-term/view"
)

func TestSanitise(t *testing.T) {
	assert.Equal(t, "tracexampleorg", Sanitise("trac.example.org"))
	assert.Equal(t, "core_ui", Sanitise("core_ui/../"))
	assert.Equal(t, "42", Sanitise("42"))
}

func TestSnapshotRoundTrip(t *testing.T) {
	fake := ticketServer()
	c, _ := newContext(t, fake)

	require.NoError(t, c.Ticket.AddFilter("owner", "!bob"))
	_, err := c.Ticket.List(false)
	require.NoError(t, err)
	_, err = c.Ticket.Open(7)
	require.NoError(t, err)

	assert.False(t, c.Store.Present("7"))
	abs, err := c.Store.Save("7", c.Ticket)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.Store.Dir, "test", "session.7.yaml"), abs)
	assert.True(t, c.Store.Present("7"))

	loaded, err := c.Store.Load("7")
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Current)
	assert.Equal(t, "core", loaded.Component)
	assert.Equal(t, trac.Filter{Value: "bob", Exclude: true}, loaded.Filters["owner"])
	assert.Equal(t, c.Ticket.Vocabulary, loaded.Vocabulary)
	require.Len(t, loaded.Batch, 2)
	assert.Equal(t, "ticket summary", loaded.Batch[1].Get("summary"))
	require.Len(t, loaded.Actions, 2)
	assert.Equal(t, []string{"fixed", "invalid", "wontfix"}, loaded.Actions[1].Fields[0].Options)
}

func TestSnapshotKeysAreSanitised(t *testing.T) {
	s := Store{Dir: t.TempDir(), Server: "trac.example.org"}
	ts := NewTicketSession(nil, "")

	abs, err := s.Save("web/ui", ts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir, "tracexampleorg", "session.webui.yaml"), abs)
	assert.True(t, s.Present("web ui"))

	_, err = s.Save("../", ts)
	assert.True(t, trac.IsValidation(err))
}

func TestLoadMissingSnapshot(t *testing.T) {
	s := Store{Dir: t.TempDir(), Server: "test"}
	_, err := s.Load("99")
	assert.True(t, trac.IsValidation(err))
}

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()

	_, found, err := LoadState(dir)
	require.NoError(t, err)
	assert.False(t, found)

	fake := tractest.New()
	fake.ServeWiki(map[string]string{"Guide": "text"})
	c, _ := newContext(t, fake)
	require.NoError(t, c.WikiView("Guide", 0))
	require.NoError(t, c.Ticket.SetSort("order", "id"))

	require.NoError(t, SaveState(dir, c.State()))

	st, found, err := LoadState(dir)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "test", st.Server)
	assert.Equal(t, ModeWiki, st.Mode)

	fresh, _ := newContext(t, fake)
	require.True(t, fresh.Restore(st))
	assert.Equal(t, ModeWiki, fresh.Mode)
	assert.Equal(t, "Guide", fresh.Wiki.Current)
	assert.Equal(t, "id", fresh.Ticket.Sort.Order)

	q, err := fresh.Ticket.QueryString()
	require.NoError(t, err)
	assert.Equal(t, "group=milestone&order=id&page=1&status!=closed", q, "restored sessions keep the configured clause")

	text, err := fresh.Wiki.Open("", 0)
	require.NoError(t, err, "restored sessions are connected")
	assert.Equal(t, "text", text)
}

func TestRestoreIgnoresOtherServer(t *testing.T) {
	c, _ := newContext(t, tractest.New())
	st := State{
		Server: "other",
		Mode:   ModeTicket,
		Ticket: &TicketSession{Current: 12},
	}

	assert.False(t, c.Restore(st))
	assert.Equal(t, ModeNone, c.Mode)
	assert.Zero(t, c.Ticket.Current)
}

func TestSelectStartsClean(t *testing.T) {
	fake := tractest.New()
	var connected []trac.Profile
	connect := func(p trac.Profile) (*trac.API, error) {
		connected = append(connected, p)
		return fake.API(), nil
	}
	cfg := Config{Profiles: testProfiles, StoreDir: t.TempDir(), Host: memHost{}, WikiStyle: view.StyleFull}

	_, err := Select(cfg, "nowhere", connect)
	assert.True(t, trac.IsValidation(err))
	assert.Empty(t, connected)

	c, err := Select(cfg, "other", connect)
	require.NoError(t, err)
	require.Len(t, connected, 1)
	assert.Equal(t, "other", connected[0].Name)
	assert.Equal(t, "alice:secret:myrealm", connected[0].Auth)

	assert.Equal(t, "other", c.Store.Server)
	assert.Zero(t, c.Ticket.Current)
	assert.Empty(t, c.Wiki.Visited)
	assert.Equal(t, 1, c.Ticket.Page)
	assert.Equal(t, 1, c.Wiki.Revision)
}

func TestSessionSaveAndLoad(t *testing.T) {
	fake := ticketServer()
	c, host := newContext(t, fake)

	_, err := c.SaveSession("", false)
	assert.True(t, trac.IsValidation(err), "no ticket open")
	_, err = c.SaveSession("", true)
	assert.True(t, trac.IsValidation(err), "no component either")

	require.NoError(t, c.TicketView(7, false))
	require.NoError(t, c.Ticket.SetSort("group", "owner"))

	abs, err := c.SaveSession("", true)
	require.NoError(t, err)
	assert.Equal(t, "session.core.yaml", filepath.Base(abs))

	_, err = c.SaveSession("", false)
	require.NoError(t, err)
	require.NoError(t, c.TicketView(0, true))
	assert.Contains(t, host[view.TicketTOC], "   * Session: PRESENT")
	assert.Contains(t, host[view.Ticket], "     Session: PRESENT")

	require.NoError(t, c.Ticket.SetSort("group", "milestone"))
	require.NoError(t, c.LoadSession("core", true))
	assert.Equal(t, "owner", c.Ticket.Sort.Group)
	assert.Equal(t, 7, c.Ticket.Current)

	require.NoError(t, os.Remove(abs))
	err = c.LoadSession("core", true)
	assert.True(t, trac.IsValidation(err))
}
