package trac

import (
	"fmt"
	"time"
)

// Ticket as returned by ticket.get: [id, time_created, time_changed, attributes].
type Ticket struct {
	ID         int               `yaml:"id"`
	Created    time.Time         `yaml:"created"`
	Changed    time.Time         `yaml:"changed"`
	Attributes map[string]string `yaml:"attributes"`
}

func (t Ticket) Get(field string) string {
	return t.Attributes[field]
}

// ChangeLogEntry is one row of ticket.changeLog.
type ChangeLogEntry struct {
	Time      time.Time
	Author    string
	Field     string
	OldValue  string
	NewValue  string
	Permanent bool
}

// Action is one workflow transition currently available on a ticket, with the input fields it
// needs, e.g. "resolve" with a resolution field offering fixed, invalid, wontfix...
type Action struct {
	Name   string        `yaml:"name"`
	Label  string        `yaml:"label"`
	Hints  string        `yaml:"hints"`
	Fields []ActionField `yaml:"fields"`
}

type ActionField struct {
	Name    string   `yaml:"name"`
	Value   string   `yaml:"value"`
	Options []string `yaml:"options"`
}

type PageInfo struct {
	Name         string
	Version      int
	Author       string
	LastModified time.Time
	Comment      string
}

func (p PageInfo) String() string {
	return fmt.Sprintf("%s v%d, author: %s", p.Name, p.Version, p.Author)
}

type SearchResult struct {
	Href    string
	Title   string
	Date    time.Time
	Author  string
	Excerpt string
}

type TicketAttachment struct {
	Filename    string
	Description string
	Size        int
	Time        time.Time
	Author      string
}

// FeedItem is one entry of the timeline feed.
type FeedItem struct {
	Title   string
	Link    string
	Updated time.Time
}

// Vocabulary holds the valid values of the enumerated ticket attributes.
type Vocabulary struct {
	Milestones  []string `yaml:"milestones"`
	Types       []string `yaml:"types"`
	Statuses    []string `yaml:"statuses"`
	Resolutions []string `yaml:"resolutions"`
	Priorities  []string `yaml:"priorities"`
	Severities  []string `yaml:"severities"`
	Components  []string `yaml:"components"`
	Versions    []string `yaml:"versions"`
}

// VocabularyFields lists the attributes in the order the server is asked for them.
var VocabularyFields = []string{
	"milestone", "type", "status", "resolution", "priority", "severity", "component", "version",
}

func (v *Vocabulary) Empty() bool {
	return v == nil || (len(v.Milestones) == 0 && len(v.Types) == 0 && len(v.Statuses) == 0 &&
		len(v.Resolutions) == 0 && len(v.Priorities) == 0 && len(v.Severities) == 0 &&
		len(v.Components) == 0 && len(v.Versions) == 0)
}

func (v *Vocabulary) field(name string) *[]string {
	switch name {
	case "milestone":
		return &v.Milestones
	case "type":
		return &v.Types
	case "status":
		return &v.Statuses
	case "resolution":
		return &v.Resolutions
	case "priority":
		return &v.Priorities
	case "severity":
		return &v.Severities
	case "component":
		return &v.Components
	case "version":
		return &v.Versions
	}
	return nil
}

// Values returns the vocabulary for a field, and false if the field has none.
func (v *Vocabulary) Values(name string) ([]string, bool) {
	f := v.field(name)
	if f == nil {
		return nil, false
	}
	return *f, true
}
