package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/toothbrush/trac-term/trac"
	"github.com/toothbrush/trac-term/trac/tractest"
	"github.com/toothbrush/trac-term/view"
)

type memHost map[view.Name]string

func (h memHost) Render(name view.Name, text string) error {
	h[name] = text
	return nil
}

func (h memHost) Read(name view.Name) (string, error) {
	return h[name], nil
}

var testProfiles = map[string]trac.Profile{
	"test":  {Host: "trac.test"},
	"other": {Host: "trac.other", Auth: "alice:secret:myrealm"},
}

func newContext(t *testing.T, fake *tractest.Fake) (*Context, memHost) {
	t.Helper()

	host := memHost{}
	cfg := Config{
		Profiles:     testProfiles,
		StoreDir:     t.TempDir(),
		TicketClause: "status!=closed",
		WikiStyle:    view.StyleFull,
		TicketStyle:  view.StyleFull,
		HideTracWiki: true,
		Host:         host,
	}

	c, err := Select(cfg, "test", func(trac.Profile) (*trac.API, error) { return fake.API(), nil })
	require.NoError(t, err)
	return c, host
}

var changed = time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)

// ticketServer serves tickets 7 and 9.  Ticket 7 can be left or resolved.
func ticketServer() *tractest.Fake {
	fake := tractest.New().
		Return("ticket.milestone.getAll", tractest.Strings("1.0", "2.0")).
		Return("ticket.type.getAll", tractest.Strings("defect", "task")).
		Return("ticket.status.getAll", tractest.Strings("new", "closed")).
		Return("ticket.resolution.getAll", tractest.Strings("fixed", "invalid", "wontfix")).
		Return("ticket.priority.getAll", tractest.Strings("major", "minor")).
		Return("ticket.severity.getAll", tractest.Strings()).
		Return("ticket.component.getAll", tractest.Strings("core", "docs")).
		Return("ticket.version.getAll", tractest.Strings()).
		Return("ticket.query", []any{int64(7), int64(9)}).
		Return("ticket.changeLog", []any{
			tractest.ChangeLogRow(changed, "alice", "status", "new", "assigned"),
			tractest.ChangeLogRow(changed, "alice", "comment", "", "on it"),
		}).
		Return("ticket.getActions", []any{
			tractest.ActionValue("leave"),
			tractest.ActionValue("resolve", tractest.Field("action_resolve_resolve_resolution", "fixed", "fixed", "invalid", "wontfix")),
		}).
		Return("ticket.listAttachments", []any{
			[]any{"trace.txt", "stack trace", int64(12), changed, "alice"},
		}).
		Return("ticket.getAttachment", []byte("stack trace")).
		Return("ticket.putAttachment", "core.txt").
		Return("ticket.create", int64(42))

	ticket := func(id int) any {
		return tractest.TicketValue(id, map[string]string{
			"summary":   "ticket summary",
			"component": "core",
			"priority":  "major",
			"status":    "new",
			"_ts":       "1700000000",
		})
	}

	fake.Handle("ticket.get", func(args []any) (any, error) {
		id, _ := args[0].(int)
		return ticket(id), nil
	})
	fake.Handle("ticket.update", func(args []any) (any, error) {
		id, _ := args[0].(int)
		return ticket(id), nil
	})

	return fake
}

// lastCall returns the most recent dispatch of method.
func lastCall(t *testing.T, fake *tractest.Fake, method string) tractest.Call {
	t.Helper()
	for i := len(fake.Calls) - 1; i >= 0; i-- {
		if fake.Calls[i].Method == method {
			return fake.Calls[i]
		}
	}
	t.Fatalf("%s was never called", method)
	return tractest.Call{}
}
