package trac

import (
	"fmt"
	"path"
)

func decodeTicket(v any) (Ticket, error) {
	parts, ok := v.([]any)
	if !ok || len(parts) < 4 {
		return Ticket{}, fmt.Errorf("trac: ticket has unexpected shape %T", v)
	}

	return Ticket{
		ID:         decodeInt(parts[0]),
		Created:    decodeTime(parts[1]),
		Changed:    decodeTime(parts[2]),
		Attributes: decodeStringMap(parts[3]),
	}, nil
}

func (api *API) GetTicket(id int) (Ticket, error) {
	reply, err := api.call("ticket.get", id)
	if err != nil {
		return Ticket{}, fmt.Errorf("trac: couldn't get ticket %d: %w", id, err)
	}
	return decodeTicket(reply)
}

// GetTickets fetches many tickets in one round trip.
func (api *API) GetTickets(ids []int) ([]Ticket, error) {
	calls := make([]batchCall, 0, len(ids))
	for _, id := range ids {
		calls = append(calls, batchCall{method: "ticket.get", args: []any{id}})
	}

	results, err := api.multicall(calls)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't get %d tickets: %w", len(ids), err)
	}

	tickets := make([]Ticket, 0, len(results))
	for _, r := range results {
		t, err := decodeTicket(r)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// QueryTickets runs a Trac query-language string and returns matching ticket ids.
func (api *API) QueryTickets(qstr string) ([]int, error) {
	reply, err := api.call("ticket.query", qstr)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't query tickets: %w", err)
	}
	return decodeInts(reply), nil
}

func (api *API) ChangeLog(id int) ([]ChangeLogEntry, error) {
	reply, err := api.call("ticket.changeLog", id)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't get changelog of %d: %w", id, err)
	}

	rows, err := decodeSlice(reply, "changelog")
	if err != nil {
		return nil, err
	}

	entries := make([]ChangeLogEntry, 0, len(rows))
	for _, row := range rows {
		cols, _ := row.([]any)
		if len(cols) < 5 {
			return nil, fmt.Errorf("trac: changelog row of %d has %d columns", id, len(cols))
		}
		entry := ChangeLogEntry{
			Time:     decodeTime(cols[0]),
			Author:   decodeString(cols[1]),
			Field:    decodeString(cols[2]),
			OldValue: decodeString(cols[3]),
			NewValue: decodeString(cols[4]),
		}
		if len(cols) > 5 {
			entry.Permanent = decodeBool(cols[5])
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Actions returns the workflow actions valid for the ticket in its current state.
func (api *API) Actions(id int) ([]Action, error) {
	reply, err := api.call("ticket.getActions", id)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't get actions of %d: %w", id, err)
	}

	rows, err := decodeSlice(reply, "actions")
	if err != nil {
		return nil, err
	}

	actions := make([]Action, 0, len(rows))
	for _, row := range rows {
		cols, _ := row.([]any)
		if len(cols) == 0 {
			continue
		}
		action := Action{Name: decodeString(cols[0])}
		if len(cols) > 1 {
			action.Label = decodeString(cols[1])
		}
		if len(cols) > 2 {
			action.Hints = decodeString(cols[2])
		}
		if len(cols) > 3 {
			fields, _ := cols[3].([]any)
			for _, f := range fields {
				fcols, _ := f.([]any)
				if len(fcols) < 3 {
					continue
				}
				action.Fields = append(action.Fields, ActionField{
					Name:    decodeString(fcols[0]),
					Value:   decodeString(fcols[1]),
					Options: decodeStrings(fcols[2]),
				})
			}
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// CreateTicket returns the id of the new ticket.
func (api *API) CreateTicket(summary string, description string, attrs map[string]string, notify bool) (int, error) {
	reply, err := api.call("ticket.create", summary, description, stringMap(attrs), notify)
	if err != nil {
		return 0, fmt.Errorf("trac: couldn't create ticket: %w", err)
	}
	return decodeInt(reply), nil
}

// UpdateTicket adds a comment and applies the attribute delta.
func (api *API) UpdateTicket(id int, comment string, attrs map[string]string, notify bool) (Ticket, error) {
	reply, err := api.call("ticket.update", id, comment, stringMap(attrs), notify)
	if err != nil {
		return Ticket{}, fmt.Errorf("trac: couldn't update ticket %d: %w", id, err)
	}
	return decodeTicket(reply)
}

func (api *API) PutTicketAttachment(id int, filename string, description string, data []byte) (string, error) {
	reply, err := api.call("ticket.putAttachment", id, path.Base(filename), description, data)
	if err != nil {
		return "", fmt.Errorf("trac: couldn't attach %s to %d: %w", filename, id, err)
	}
	return decodeString(reply), nil
}

func (api *API) GetTicketAttachment(id int, filename string) ([]byte, error) {
	reply, err := api.call("ticket.getAttachment", id, filename)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't get attachment %s of %d: %w", filename, id, err)
	}
	return decodeBytes(reply), nil
}

func (api *API) ListTicketAttachments(id int) ([]TicketAttachment, error) {
	reply, err := api.call("ticket.listAttachments", id)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't list attachments of %d: %w", id, err)
	}

	rows, err := decodeSlice(reply, "attachments")
	if err != nil {
		return nil, err
	}

	attachments := make([]TicketAttachment, 0, len(rows))
	for _, row := range rows {
		cols, _ := row.([]any)
		if len(cols) == 0 {
			continue
		}
		a := TicketAttachment{Filename: decodeString(cols[0])}
		if len(cols) >= 5 {
			a.Description = decodeString(cols[1])
			a.Size = decodeInt(cols[2])
			a.Time = decodeTime(cols[3])
			a.Author = decodeString(cols[4])
		}
		attachments = append(attachments, a)
	}
	return attachments, nil
}

// Vocabulary fetches every enumerated attribute in one round trip.
func (api *API) Vocabulary() (Vocabulary, error) {
	calls := make([]batchCall, 0, len(VocabularyFields))
	for _, field := range VocabularyFields {
		calls = append(calls, batchCall{method: fmt.Sprintf("ticket.%s.getAll", field)})
	}

	results, err := api.multicall(calls)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("trac: couldn't fetch vocabulary: %w", err)
	}

	var vocab Vocabulary
	for i, field := range VocabularyFields {
		*vocab.field(field) = decodeStrings(results[i])
	}
	return vocab, nil
}

func stringMap(attrs map[string]string) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
