package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/trac-term/trac"
)

var (
	t1 = time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)
	t2 = time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC)
)

func TestGroupChangeLog(t *testing.T) {
	entries := []trac.ChangeLogEntry{
		{Time: t1, Author: "a", Field: "status", OldValue: "old", NewValue: "new"},
		{Time: t1, Author: "a", Field: "priority", OldValue: "p1", NewValue: "p2"},
		{Time: t2, Author: "b", Field: "status", OldValue: "x", NewValue: "y"},
	}

	groups := GroupChangeLog(entries)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Entries, 2)
	assert.Len(t, groups[1].Entries, 1)

	text := ChangeLog(entries)
	assert.Equal(t, 2, strings.Count(text, "== "))
	assert.Contains(t, text, "== Tue 02/01/2024 03:04 (a) ==")
	assert.Contains(t, text, "== Wed 03/01/2024 09:30 (b) ==")
	assert.Contains(t, text, " * '''priority''': ''p1'' > ''p2''")
}

func TestGroupChangeLogSkipsEmptyValues(t *testing.T) {
	entries := []trac.ChangeLogEntry{
		{Time: t1, Author: "a", Field: "cc", OldValue: "bob", NewValue: ""},
		{Time: t1, Author: "a", Field: "comment", NewValue: "looks good"},
		{Time: t1, Author: "b", Field: "owner", NewValue: "carol"},
		{Time: t1, Author: "a", Field: "status", OldValue: "new", NewValue: "closed"},
	}

	groups := GroupChangeLog(entries)
	require.Len(t, groups, 3, "only consecutive entries collapse")
	assert.Equal(t, "comment", groups[0].Entries[0].Field)

	text := ChangeLog(entries)
	assert.NotContains(t, text, "cc")
	assert.Contains(t, text, " * comment:\nlooks good")
	assert.Contains(t, text, " * '''owner''': ''carol''")
}

func sampleBatch() []trac.Ticket {
	return []trac.Ticket{
		{ID: 7, Attributes: map[string]string{"summary": "Crash on save", "priority": "major", "status": "new"}},
		{ID: 9, Attributes: map[string]string{"summary": "one two three four five six seven eight nine ten eleven", "priority": "minor"}},
	}
}

func TestTicketListSummary(t *testing.T) {
	text := TicketList(sampleBatch(), Summary, nil, nil)
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "7 || Crash on save || major || new"))
	assert.Contains(t, lines[1], "one two three four five six seven eight nine ten...")
}

func TestTicketListVerbose(t *testing.T) {
	filters := map[string]trac.Filter{"owner": {Value: "alice"}, "component": {Value: "docs", Exclude: true}}
	present := func(id int) bool { return id == 9 }

	text := TicketList(sampleBatch(), Verbose, filters, present)
	assert.Contains(t, text, "(filtered)")
	assert.Contains(t, text, "    1. component: docs : exclude\n    2. owner: alice : include")
	assert.Contains(t, text, "Ticket:>> 7\n   * Summary: Crash on save")
	assert.Equal(t, 1, strings.Count(text, "   * Session: PRESENT"))
}

func TestTicketDetail(t *testing.T) {
	d := Detail{
		Ticket: trac.Ticket{ID: 12, Attributes: map[string]string{
			"owner": "alice", "summary": "Crash", "description": "It crashes.",
		}},
		ChangeLog:   []trac.ChangeLogEntry{{Time: t1, Author: "a", Field: "status", OldValue: "new", NewValue: "assigned"}},
		Actions:     []trac.Action{{Name: "leave"}, {Name: "resolve"}},
		Attachments: []string{"trace.txt", "core.png"},
		Session:     true,
	}

	text := TicketDetail(d)
	assert.Contains(t, text, " *   Ticket ID: 12")
	assert.Contains(t, text, " *       Owner: alice")
	assert.Contains(t, text, " *     Session: PRESENT")
	assert.Contains(t, text, " * Attachments: trace.txt, core.png")

	desc := strings.Index(text, "It crashes.")
	log := strings.Index(text, "== Tue 02/01/2024 03:04 (a) ==")
	actions := strings.Index(text, "== Action ==")
	assert.True(t, desc < log && log < actions, "header, description, changelog, actions")
	assert.True(t, strings.HasSuffix(text, " > leave\n > resolve"))
}

func TestVocabulary(t *testing.T) {
	text := Vocabulary(trac.Vocabulary{Priorities: []string{"major", "minor"}})
	assert.Contains(t, text, "Priority: major, minor")
	assert.Contains(t, text, "Milestone: ")
}
