package session

import (
	"fmt"
	"slices"
	"strings"

	"github.com/toothbrush/trac-term/render"
	"github.com/toothbrush/trac-term/trac"
)

// Open fetches a ticket with its changelog, actions and attachments, and makes it current.  id 0
// reopens the current ticket.  Nothing changes when a fetch fails.
func (ts *TicketSession) Open(id int) (render.Detail, error) {
	if id <= 0 {
		id = ts.Current
	}
	if id <= 0 {
		return render.Detail{}, invalid("no ticket selected")
	}

	t, err := ts.api.GetTicket(id)
	if err != nil {
		return render.Detail{}, err
	}

	log, err := ts.api.ChangeLog(id)
	if err != nil {
		return render.Detail{}, err
	}

	actions, err := ts.api.Actions(id)
	if err != nil {
		return render.Detail{}, err
	}

	atts, err := ts.api.ListTicketAttachments(id)
	if err != nil {
		return render.Detail{}, err
	}

	names := make([]string, 0, len(atts))
	for _, a := range atts {
		names = append(names, a.Filename)
	}

	ts.visit(id)
	ts.Component = t.Get("component")
	ts.Actions = actions
	ts.Stamp = t.Get("_ts")
	ts.replace(t)

	return render.Detail{Ticket: t, ChangeLog: log, Actions: actions, Attachments: names}, nil
}

func (ts *TicketSession) requireCurrent() error {
	if ts.Current <= 0 {
		return invalid("cannot make changes when there is no current ticket open")
	}
	return nil
}

func (ts *TicketSession) update(comment string, attrs map[string]string) error {
	t, err := ts.api.UpdateTicket(ts.Current, comment, attrs, false)
	if err != nil {
		return err
	}

	ts.Stamp = t.Get("_ts")
	ts.replace(t)
	return nil
}

func required(what string, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is empty, no changes made", what)
	}
	return nil
}

func (ts *TicketSession) Comment(text string) error {
	if err := ts.requireCurrent(); err != nil {
		return err
	}
	if err := required("comment", text); err != nil {
		return err
	}
	return ts.update(text, nil)
}

// SetAttribute changes one field.  Fields with a known vocabulary only take values from it.
func (ts *TicketSession) SetAttribute(field string, value string, comment string) error {
	if err := ts.requireCurrent(); err != nil {
		return err
	}
	if err := required("field", field); err != nil {
		return err
	}
	if err := required(field, value); err != nil {
		return err
	}
	if err := ts.checkVocabulary(field, value); err != nil {
		return err
	}
	return ts.update(comment, map[string]string{field: value})
}

func (ts *TicketSession) checkVocabulary(field string, value string) error {
	values, ok := ts.Vocabulary.Values(field)
	if ok && len(values) > 0 && !slices.Contains(values, value) {
		return invalid("%q is not a valid %s, want one of: %s", value, field, strings.Join(values, ", "))
	}
	return nil
}

func (ts *TicketSession) UpdateDescription(text string) error {
	if err := ts.requireCurrent(); err != nil {
		return err
	}
	if err := required("description", text); err != nil {
		return err
	}
	return ts.update("", map[string]string{"description": text})
}

func (ts *TicketSession) SetSummary(text string) error {
	if err := ts.requireCurrent(); err != nil {
		return err
	}
	if err := required("summary", text); err != nil {
		return err
	}
	return ts.update("", map[string]string{"summary": text})
}

func (ts *TicketSession) Close(comment string) error {
	if err := ts.requireCurrent(); err != nil {
		return err
	}
	return ts.update(comment, map[string]string{"status": "closed"})
}

func (ts *TicketSession) Resolve(comment string, resolution string) error {
	if err := ts.requireCurrent(); err != nil {
		return err
	}
	if err := required("resolution", resolution); err != nil {
		return err
	}
	if err := ts.checkVocabulary("resolution", resolution); err != nil {
		return err
	}
	return ts.update(comment, map[string]string{"status": "closed", "resolution": resolution})
}

// Create files a new ticket and makes it current.  typ may be empty.
func (ts *TicketSession) Create(summary string, description string, typ string) (int, error) {
	if err := required("summary", summary); err != nil {
		return 0, err
	}
	if err := required("description", description); err != nil {
		return 0, fmt.Errorf("%w, the ticket needs more info", err)
	}

	attrs := map[string]string{}
	if typ != "" {
		if err := ts.checkVocabulary("type", typ); err != nil {
			return 0, err
		}
		attrs["type"] = typ
	}

	id, err := ts.api.CreateTicket(summary, description, attrs, false)
	if err != nil {
		return 0, err
	}

	// Nothing of the previous ticket carries over, even when loading the new one fails.
	ts.visit(id)
	ts.Component = attrs["component"]
	ts.Actions = nil
	ts.Stamp = ""

	if _, err := ts.Open(id); err != nil {
		return id, fmt.Errorf("ticket #%d was created but couldn't be loaded: %w", id, err)
	}
	return id, nil
}

// Act runs a workflow action.  The request is checked against the actions cached when the ticket
// was opened, if any, then against a fresh list, since what is allowed depends on the ticket's state.
func (ts *TicketSession) Act(name string, options []string, comment string) error {
	if err := ts.requireCurrent(); err != nil {
		return err
	}
	if ts.Actions != nil {
		if _, err := resolveAction(ts.Actions, name, options); err != nil {
			return err
		}
	}

	fresh, err := ts.api.Actions(ts.Current)
	if err != nil {
		return err
	}
	ts.Actions = fresh

	attrs, err := resolveAction(fresh, name, options)
	if err != nil {
		return err
	}
	attrs["action"] = name
	if ts.Stamp != "" {
		attrs["_ts"] = ts.Stamp
	}

	return ts.update(comment, attrs)
}

// resolveAction maps positional options onto the action's input fields.  Fields without an option
// keep their default.
func resolveAction(actions []trac.Action, name string, options []string) (map[string]string, error) {
	idx := slices.IndexFunc(actions, func(a trac.Action) bool { return a.Name == name })
	if idx < 0 {
		names := make([]string, 0, len(actions))
		for _, a := range actions {
			names = append(names, a.Name)
		}
		return nil, invalid("action %q is not available, valid actions: %s", name, strings.Join(names, ", "))
	}

	action := actions[idx]
	if len(options) > len(action.Fields) {
		return nil, invalid("action %q takes %d options, got %d", name, len(action.Fields), len(options))
	}

	fields := map[string]string{}
	for i, f := range action.Fields {
		value := f.Value
		if i < len(options) {
			value = options[i]
		}
		if len(f.Options) > 0 && !slices.Contains(f.Options, value) {
			return nil, invalid("%q is not a valid option for %s, want one of: %s", value, name, strings.Join(f.Options, ", "))
		}
		fields[f.Name] = value
	}
	return fields, nil
}

// Attach uploads a file to the current ticket.
func (ts *TicketSession) Attach(file string, description string) error {
	if err := ts.requireCurrent(); err != nil {
		return err
	}
	data, err := readUpload(file)
	if err != nil {
		return err
	}
	if description == "" {
		description = "attachment"
	}
	_, err = ts.api.PutTicketAttachment(ts.Current, file, description, data)
	return err
}

func (ts *TicketSession) Attachments() ([]trac.TicketAttachment, error) {
	if err := ts.requireCurrent(); err != nil {
		return nil, err
	}
	return ts.api.ListTicketAttachments(ts.Current)
}

// Download saves an attachment of the current ticket into dir and returns the local path.
func (ts *TicketSession) Download(name string, dir string, sink Sink) (string, error) {
	if err := ts.requireCurrent(); err != nil {
		return "", err
	}

	dst, err := downloadTarget(dir, name)
	if err != nil {
		return "", err
	}

	data, err := ts.api.GetTicketAttachment(ts.Current, name)
	if err != nil {
		return "", err
	}
	if err := writeDownload(dst, data, sink); err != nil {
		return "", err
	}
	return dst, nil
}
