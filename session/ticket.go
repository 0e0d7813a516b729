package session

import (
	"fmt"
	"slices"
	"strings"

	"github.com/toothbrush/trac-term/trac"
)

// Sort is the order and grouping of the ticket listing.
type Sort struct {
	Order string `yaml:"order"`
	Group string `yaml:"group"`
}

type TicketSession struct {
	Current    int                    `yaml:"current,omitempty"`
	Visited    []int                  `yaml:"visited,omitempty"`
	Sort       Sort                   `yaml:"sort"`
	Filters    map[string]trac.Filter `yaml:"filters,omitempty"`
	Page       int                    `yaml:"page"`
	Batch      []trac.Ticket          `yaml:"batch,omitempty"`
	Vocabulary trac.Vocabulary        `yaml:"vocabulary"`
	Actions    []trac.Action          `yaml:"actions,omitempty"`
	Component  string                 `yaml:"component,omitempty"`

	// Change stamp of the current ticket, sent back with workflow actions.
	Stamp string `yaml:"stamp,omitempty"`

	api    *trac.API
	clause string
}

func NewTicketSession(api *trac.API, clause string) *TicketSession {
	return &TicketSession{
		Sort:    Sort{Order: "priority", Group: "milestone"},
		Filters: map[string]trac.Filter{},
		Page:    1,
		api:     api,
		clause:  clause,
	}
}

func (ts *TicketSession) attach(api *trac.API, clause string) *TicketSession {
	cp := *ts
	cp.api = api
	cp.clause = clause
	if cp.Filters == nil {
		cp.Filters = map[string]trac.Filter{}
	}
	if cp.Page < 1 {
		cp.Page = 1
	}
	return &cp
}

func (ts *TicketSession) query() trac.TicketQuery {
	return trac.TicketQuery{
		Order:   ts.Sort.Order,
		Group:   ts.Sort.Group,
		Page:    ts.Page,
		Filters: ts.Filters,
		Clause:  ts.clause,
	}
}

// QueryString is the ticket.query argument for the current sort, filters and page.
func (ts *TicketSession) QueryString() (string, error) {
	return ts.query().Encode()
}

// SetSort changes "order" or "group".
func (ts *TicketSession) SetSort(attr string, value string) error {
	if value == "" {
		return invalid("%s was empty, no changes made", attr)
	}

	switch attr {
	case "order":
		ts.Sort.Order = value
	case "group":
		ts.Sort.Group = value
	default:
		return invalid("can only sort by order or group, not %q", attr)
	}
	return nil
}

// AddFilter constrains field to token; "!value" excludes instead.  The listing restarts at page 1.
func (ts *TicketSession) AddFilter(field string, token string) error {
	if err := trac.ValidateField(field); err != nil {
		return err
	}
	f, err := trac.ParseFilter(token)
	if err != nil {
		return err
	}

	if ts.Filters == nil {
		ts.Filters = map[string]trac.Filter{}
	}
	ts.Filters[field] = f
	ts.Page = 1
	return nil
}

func (ts *TicketSession) RemoveFilter(field string) error {
	if _, ok := ts.Filters[field]; !ok {
		return invalid("there is no filter on %s", field)
	}
	delete(ts.Filters, field)
	ts.Page = 1
	return nil
}

func (ts *TicketSession) ClearFilters() {
	ts.Filters = map[string]trac.Filter{}
	ts.Page = 1
}

// EnsureVocabulary fetches the attribute vocabularies once.
func (ts *TicketSession) EnsureVocabulary() (trac.Vocabulary, error) {
	if ts.Vocabulary.Empty() {
		v, err := ts.api.Vocabulary()
		if err != nil {
			return trac.Vocabulary{}, err
		}
		ts.Vocabulary = v
	}
	return ts.Vocabulary, nil
}

// List returns the current page of tickets.  With cached set, a non-empty batch from an earlier
// call is reused as is; otherwise one query and one batched fetch replace it.
func (ts *TicketSession) List(cached bool) ([]trac.Ticket, error) {
	if _, err := ts.EnsureVocabulary(); err != nil {
		return nil, err
	}

	if cached && len(ts.Batch) > 0 {
		return ts.Batch, nil
	}

	q, err := ts.QueryString()
	if err != nil {
		return nil, err
	}

	ids, err := ts.api.QueryTickets(q)
	if err != nil {
		return nil, err
	}

	tickets := []trac.Ticket{}
	if len(ids) > 0 {
		tickets, err = ts.api.GetTickets(ids)
		if err != nil {
			return nil, err
		}
	}

	ts.Batch = tickets
	return tickets, nil
}

// Paginate moves the listing by direction pages.  When the server rejects the new page the old
// one stays in effect.
func (ts *TicketSession) Paginate(direction int) ([]trac.Ticket, error) {
	next := ts.Page + direction
	if next < 1 {
		return nil, invalid("cannot go before page 1")
	}

	prev := ts.Page
	ts.Page = next

	tickets, err := ts.List(false)
	if err != nil {
		ts.Page = prev
		return nil, fmt.Errorf("session: cannot go beyond page %d: %w", prev, err)
	}
	return tickets, nil
}

// Count is the number of tickets matching the sort and filters, over all pages.
func (ts *TicketSession) Count() (int, error) {
	zero := 0
	q := ts.query()
	q.Page = 0
	q.Max = &zero

	qstr, err := q.Encode()
	if err != nil {
		return 0, err
	}

	ids, err := ts.api.QueryTickets(qstr)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// replace swaps a fresher copy of a ticket into the batch.
func (ts *TicketSession) replace(t trac.Ticket) {
	for i := range ts.Batch {
		if ts.Batch[i].ID == t.ID {
			ts.Batch[i] = t
			return
		}
	}
}

func (ts *TicketSession) visit(id int) {
	ts.Current = id
	if !slices.Contains(ts.Visited, id) {
		ts.Visited = append(ts.Visited, id)
	}
}

// ParseActionRequest splits "resolve fixed" into the action and its positional options.
func ParseActionRequest(request string) (string, []string, error) {
	fields := strings.Fields(request)
	if len(fields) == 0 {
		return "", nil, invalid("no action given")
	}
	return fields[0], fields[1:], nil
}
