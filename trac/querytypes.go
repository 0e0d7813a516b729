package trac

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/go-querystring/query"
	"golang.org/x/exp/maps"
)

// Filter constrains one ticket field; Exclude turns "field=value" into "field!=value".
type Filter struct {
	Value   string `yaml:"value"`
	Exclude bool   `yaml:"exclude"`
}

// ParseFilter reads the user-facing form, where a leading "!" excludes the value.
func ParseFilter(token string) (Filter, error) {
	f := Filter{Value: token}
	if strings.HasPrefix(token, "!") {
		f = Filter{Value: strings.TrimPrefix(token, "!"), Exclude: true}
	}
	if f.Value == "" {
		return Filter{}, invalid("filter value is empty")
	}
	return f, nil
}

var fieldRx = regexp.MustCompile(`^[a-z_]+$`)

// ValidateField rejects anything that is not a plain Trac field name such as "owner".
func ValidateField(field string) error {
	if field == "" {
		return invalid("filter field is empty")
	}
	if !fieldRx.MatchString(field) {
		return invalid("%q is not a ticket field name", field)
	}
	return nil
}

// In the query language "&" separates clauses and "|" separates alternatives.
var valueEscaper = strings.NewReplacer(`&`, `\&`, `|`, `\|`)

func (f Filter) String() string {
	if f.Exclude {
		return "!" + f.Value
	}
	return f.Value
}

// TicketQuery defines the argument of ticket.query, in Trac's query language:
// https://trac.edgewall.org/wiki/TracQuery#QueryLanguage
type TicketQuery struct {
	Order string `url:"order,omitempty"` // field to sort by, e.g. priority
	Group string `url:"group,omitempty"` // field to group by, e.g. milestone
	Page  int    `url:"page,omitempty"`  // 1-based page of results
	Max   *int   `url:"max,omitempty"`   // page size; 0 means unlimited

	Filters map[string]Filter `url:"-"`

	// Always-on clause appended verbatim, e.g. "status!=closed".
	Clause string `url:"-"`
}

func (q TicketQuery) Encode() (string, error) {
	v, err := query.Values(q)
	if err != nil {
		return "", fmt.Errorf("trac: couldn't encode query params: %w", err)
	}

	parts := []string{}
	if encoded := v.Encode(); encoded != "" {
		parts = append(parts, encoded)
	}

	fields := maps.Keys(q.Filters)
	sort.Strings(fields)
	for _, field := range fields {
		if err := ValidateField(field); err != nil {
			return "", err
		}
		f := q.Filters[field]
		op := "="
		if f.Exclude {
			op = "!="
		}
		parts = append(parts, field+op+valueEscaper.Replace(f.Value))
	}

	if clause := strings.Trim(q.Clause, "&"); clause != "" {
		parts = append(parts, clause)
	}

	return strings.Join(parts, "&"), nil
}

// TimelineQuery defines the parameters of the /timeline RSS feed.
type TimelineQuery struct {
	Ticket    string `url:"ticket,omitempty"`
	Changeset string `url:"changeset,omitempty"`
	Wiki      string `url:"wiki,omitempty"`
	Max       int    `url:"max,omitempty"`
	DaysBack  int    `url:"daysback,omitempty"`
	Format    string `url:"format"`
}

// DefaultTimeline is the fixed feed shape: every kind of event, 50 items over 90 days.
var DefaultTimeline = TimelineQuery{
	Ticket:    "on",
	Changeset: "on",
	Wiki:      "on",
	Max:       50,
	DaysBack:  90,
	Format:    "rss",
}
