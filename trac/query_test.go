package trac_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/trac-term/trac"
)

func TestParseFilter(t *testing.T) {
	f, err := trac.ParseFilter("!closed")
	require.NoError(t, err)
	assert.Equal(t, trac.Filter{Value: "closed", Exclude: true}, f)
	assert.Equal(t, "!closed", f.String())

	f, err = trac.ParseFilter("alice")
	require.NoError(t, err)
	assert.False(t, f.Exclude)

	_, err = trac.ParseFilter("!")
	assert.True(t, trac.IsValidation(err))
}

func TestTicketQueryEncode(t *testing.T) {
	max := 25
	q := trac.TicketQuery{
		Order: "priority",
		Page:  2,
		Max:   &max,
		Filters: map[string]trac.Filter{
			"owner":     {Value: "alice"},
			"component": {Value: "docs", Exclude: true},
		},
		Clause: "&status!=closed",
	}

	s, err := q.Encode()
	require.NoError(t, err)
	assert.Equal(t, "max=25&order=priority&page=2&component!=docs&owner=alice&status!=closed", s)
	assert.Equal(t, 1, strings.Count(s, "status!=closed"))
}

func TestTicketQueryEncodeUnlimited(t *testing.T) {
	q := trac.TicketQuery{Clause: "status!=closed"}
	s, err := q.Encode()
	require.NoError(t, err)
	assert.Equal(t, "status!=closed", s)
}

func TestTicketQueryEscapesValues(t *testing.T) {
	q := trac.TicketQuery{
		Filters: map[string]trac.Filter{
			"owner":    {Value: "bob&status=closed"},
			"keywords": {Value: "ui|ux"},
		},
		Clause: "status!=closed",
	}

	s, err := q.Encode()
	require.NoError(t, err)
	assert.Equal(t, `keywords=ui\|ux&owner=bob\&status=closed&status!=closed`, s)
	assert.Equal(t, 2, strings.Count(s, "&")-strings.Count(s, `\&`), "three clauses")
}

func TestTicketQueryRejectsFieldNames(t *testing.T) {
	for _, field := range []string{"", "status=new&owner", "Owner", "owner "} {
		assert.True(t, trac.IsValidation(trac.ValidateField(field)), field)

		q := trac.TicketQuery{Filters: map[string]trac.Filter{field: {Value: "x"}}}
		_, err := q.Encode()
		assert.True(t, trac.IsValidation(err), field)
	}
	assert.NoError(t, trac.ValidateField("due_date"))
}

func TestVocabularyIsOneRoundTrip(t *testing.T) {
	fake := tractestVocabulary()
	api := fake.API()

	vocab, err := api.Vocabulary()
	require.NoError(t, err)

	assert.Equal(t, 1, fake.RoundTrips)
	assert.Equal(t, []string{"defect", "enhancement", "task"}, vocab.Types)
	assert.Equal(t, []string{"fixed", "invalid"}, vocab.Resolutions)

	values, ok := vocab.Values("priority")
	require.True(t, ok)
	assert.Equal(t, []string{"major", "minor"}, values)

	_, ok = vocab.Values("summary")
	assert.False(t, ok)
}

func TestGetTicketsBatched(t *testing.T) {
	fake := tractestTickets()
	api := fake.API()

	tickets, err := api.GetTickets([]int{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, 1, fake.RoundTrips)
	assert.Equal(t, "ticket 2", tickets[1].Get("summary"))
}

func TestGetTicketsFault(t *testing.T) {
	fake := tractestTickets()
	fake.Fail("ticket.get", 404, "Ticket 9 does not exist.")

	_, err := fake.API().GetTickets([]int{9})
	require.Error(t, err)
	assert.ErrorIs(t, err, trac.ErrNotFound)
}

func TestActionsDecode(t *testing.T) {
	fake := tractestTickets()
	actions, err := fake.API().Actions(1)
	require.NoError(t, err)
	require.Len(t, actions, 2)

	assert.Equal(t, "resolve", actions[1].Name)
	require.Len(t, actions[1].Fields, 1)
	assert.Equal(t, "action_resolve_resolve_resolution", actions[1].Fields[0].Name)
	assert.Equal(t, []string{"fixed", "invalid"}, actions[1].Fields[0].Options)
}

func TestSearchEmpty(t *testing.T) {
	fake := tractestTickets()
	_, err := fake.API().Search("")
	assert.True(t, trac.IsValidation(err))
	assert.Zero(t, fake.RoundTrips)
}
