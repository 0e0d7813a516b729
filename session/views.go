package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/toothbrush/trac-term/render"
	"github.com/toothbrush/trac-term/trac"
	"github.com/toothbrush/trac-term/view"
)

// Everything below renders into the host.  Edits read their input from the pane the user left it
// in: the wiki page for saves, the comment pane for tickets.

func (c *Context) render(name view.Name, text string) error {
	if c.Host == nil {
		return fmt.Errorf("session: no view host configured")
	}
	return c.Host.Render(name, text)
}

func (c *Context) read(name view.Name) (string, error) {
	if c.Host == nil {
		return "", fmt.Errorf("session: no view host configured")
	}
	return c.Host.Read(name)
}

// WikiView opens a page, or moves through history when direction is non-zero, and redraws the
// wiki panes.
func (c *Context) WikiView(name string, direction int) error {
	layout, err := view.WikiLayout(c.config.WikiStyle)
	if err != nil {
		return err
	}

	var text string
	if direction != 0 {
		text, err = c.Wiki.Navigate(direction)
	} else {
		text, err = c.Wiki.Open(name, 0)
	}
	if err != nil {
		return err
	}

	pages, err := c.Wiki.AllPages()
	if err != nil {
		return err
	}
	if err := c.render(view.WikiTOC, render.WikiTOC(pages, c.config.HideTracWiki)); err != nil {
		return err
	}
	if err := c.render(view.Wiki, text); err != nil {
		return err
	}

	if layout.Has(view.WikiAttachments) {
		atts, err := c.Wiki.ListAttachments()
		if err != nil {
			return err
		}
		if err := c.render(view.WikiAttachments, strings.Join(atts, "\n")); err != nil {
			return err
		}
	}

	c.Mode = ModeWiki
	return nil
}

// WikiSave stores the wiki pane as the next version of the current page.
func (c *Context) WikiSave(comment string) error {
	text, err := c.read(view.Wiki)
	if err != nil {
		return err
	}
	return c.Wiki.Save(text, comment)
}

// WikiCreate stores the wiki pane as a new page and shows it.
func (c *Context) WikiCreate(name string, comment string) error {
	text, err := c.read(view.Wiki)
	if err != nil {
		return err
	}
	if err := c.Wiki.Create(name, text, comment); err != nil {
		return err
	}
	return c.WikiView(name, 0)
}

// WikiDiff puts an earlier revision of the current page next to it.
func (c *Context) WikiDiff(rev int) error {
	text, err := c.Wiki.Previous(rev)
	if err != nil {
		return err
	}
	return c.render(view.WikiDiff, text)
}

// Preview renders the text being edited, the wiki pane or the ticket comment, through the
// server's wiki formatter.
func (c *Context) Preview() error {
	var pane view.Name
	switch {
	case c.Mode == ModeWiki && c.Wiki.Current != "":
		pane = view.Wiki
	case c.Mode == ModeTicket && c.Ticket.Current > 0:
		pane = view.TicketComment
	default:
		return invalid("you need an active ticket or wiki open")
	}

	text, err := c.read(pane)
	if err != nil {
		return err
	}
	html, err := c.Wiki.PreviewHTML(text)
	if err != nil {
		return err
	}
	return c.renderHTML(html)
}

// PagePreview shows the stored version of a page as formatted text.
func (c *Context) PagePreview(name string) error {
	html, err := c.Wiki.PageHTML(name)
	if err != nil {
		return err
	}
	return c.renderHTML(html)
}

func (c *Context) renderHTML(html string) error {
	base, err := c.Profile.Normalised().BaseURL()
	if err != nil {
		return err
	}
	text, err := render.HTMLToText(html, base)
	if err != nil {
		return err
	}
	return c.render(view.WikiPreview, text)
}

func (c *Context) sessionPresent(id int) bool {
	return c.Store.Present(strconv.Itoa(id))
}

// TicketView redraws the listing, from the cached batch when cached is set, and the ticket id (or
// the current one).
func (c *Context) TicketView(id int, cached bool) error {
	layout, err := view.TicketLayout(c.config.TicketStyle)
	if err != nil {
		return err
	}

	tickets, err := c.Ticket.List(cached)
	if err != nil {
		return err
	}
	list := render.TicketList(tickets, layout.List, c.Ticket.Filters, c.sessionPresent)
	if err := c.render(layout.ListPane, list); err != nil {
		return err
	}

	c.Mode = ModeTicket

	if id <= 0 {
		id = c.Ticket.Current
	}
	if id <= 0 {
		return c.render(view.Ticket, "Please select a ticket")
	}

	d, err := c.Ticket.Open(id)
	if err != nil {
		return err
	}
	d.Session = c.sessionPresent(id)
	if err := c.render(view.Ticket, render.TicketDetail(d)); err != nil {
		return err
	}

	if layout.Has(view.TicketAttached) {
		return c.render(view.TicketAttached, strings.Join(d.Attachments, "\n"))
	}
	return nil
}

// refresh redraws the current ticket after an edit, keeping the batch.
func (c *Context) refresh() error {
	return c.TicketView(c.Ticket.Current, true)
}

// withComment hands the comment pane to edit, and empties the pane once edit succeeded.
func (c *Context) withComment(edit func(comment string) error) error {
	comment, err := c.read(view.TicketComment)
	if err != nil {
		return err
	}
	if err := edit(comment); err != nil {
		return err
	}
	if err := c.render(view.TicketComment, ""); err != nil {
		return err
	}
	return c.refresh()
}

func (c *Context) TicketComment() error {
	return c.withComment(c.Ticket.Comment)
}

func (c *Context) TicketSet(field string, value string) error {
	return c.withComment(func(comment string) error {
		return c.Ticket.SetAttribute(field, value, comment)
	})
}

// TicketDescribe replaces the description with the comment pane.
func (c *Context) TicketDescribe() error {
	return c.withComment(c.Ticket.UpdateDescription)
}

func (c *Context) TicketSummary(summary string) error {
	if err := c.Ticket.SetSummary(summary); err != nil {
		return err
	}
	return c.refresh()
}

// TicketClose uses comment, or the comment pane when comment is empty.
func (c *Context) TicketClose(comment string) error {
	return c.withComment(func(pane string) error {
		return c.Ticket.Close(firstNonEmpty(comment, pane))
	})
}

func (c *Context) TicketResolve(comment string, resolution string) error {
	return c.withComment(func(pane string) error {
		return c.Ticket.Resolve(firstNonEmpty(comment, pane), resolution)
	})
}

// TicketCreate files the comment pane as the description of a new ticket.
func (c *Context) TicketCreate(summary string, typ string) (int, error) {
	var id int
	err := c.withComment(func(description string) error {
		var err error
		id, err = c.Ticket.Create(summary, description, typ)
		return err
	})
	return id, err
}

// TicketAct runs a request such as "resolve fixed", with the comment pane as comment.
func (c *Context) TicketAct(request string) error {
	name, options, err := ParseActionRequest(request)
	if err != nil {
		return err
	}
	return c.withComment(func(comment string) error {
		return c.Ticket.Act(name, options, comment)
	})
}

func (c *Context) TicketVocabulary() error {
	v, err := c.Ticket.EnsureVocabulary()
	if err != nil {
		return err
	}
	return c.render(view.TicketVocab, render.Vocabulary(v))
}

func (c *Context) TicketSort(attr string, value string) error {
	if err := c.Ticket.SetSort(attr, value); err != nil {
		return err
	}
	return c.TicketView(0, false)
}

func (c *Context) TicketFilter(field string, token string) error {
	if err := c.Ticket.AddFilter(field, token); err != nil {
		return err
	}
	return c.TicketView(0, false)
}

func (c *Context) TicketUnfilter(field string) error {
	if field == "" {
		c.Ticket.ClearFilters()
	} else if err := c.Ticket.RemoveFilter(field); err != nil {
		return err
	}
	return c.TicketView(0, false)
}

func (c *Context) TicketPage(direction int) error {
	if _, err := c.Ticket.Paginate(direction); err != nil {
		return err
	}
	return c.TicketView(0, true)
}

func (c *Context) sessionKey(component string, byComponent bool) (string, error) {
	if !byComponent {
		if c.Ticket.Current <= 0 {
			return "", invalid("you need to have an active ticket")
		}
		return strconv.Itoa(c.Ticket.Current), nil
	}

	if component == "" {
		component = c.Ticket.Component
	}
	if component == "" {
		return "", invalid("you need an active ticket or a component")
	}
	return component, nil
}

// SaveSession snapshots the ticket session under the current ticket id, or under a component.
func (c *Context) SaveSession(component string, byComponent bool) (string, error) {
	key, err := c.sessionKey(component, byComponent)
	if err != nil {
		return "", err
	}
	return c.Store.Save(key, c.Ticket)
}

// LoadSession brings back a snapshot and redraws the ticket views from it.
func (c *Context) LoadSession(component string, byComponent bool) error {
	key, err := c.sessionKey(component, byComponent)
	if err != nil {
		return err
	}

	ts, err := c.Store.Load(key)
	if err != nil {
		return err
	}
	c.Ticket = ts.attach(c.API, c.config.TicketClause)
	return c.TicketView(0, true)
}

// Attach uploads a file to whatever is open.
func (c *Context) Attach(file string, description string) error {
	switch {
	case c.Mode == ModeWiki && c.Wiki.Current != "":
		return c.Wiki.Attach(file)
	case c.Mode == ModeTicket && c.Ticket.Current > 0:
		return c.Ticket.Attach(file, description)
	}
	return invalid("you need an active ticket or wiki open")
}

// Attachments lists the attachments of whatever is open.
func (c *Context) Attachments() ([]string, error) {
	switch {
	case c.Mode == ModeWiki && c.Wiki.Current != "":
		return c.Wiki.ListAttachments()
	case c.Mode == ModeTicket && c.Ticket.Current > 0:
		atts, err := c.Ticket.Attachments()
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(atts))
		for _, a := range atts {
			names = append(names, a.Filename)
		}
		return names, nil
	}
	return nil, invalid("you need an active ticket or wiki open")
}

// Download fetches an attachment of whatever is open into dir.
func (c *Context) Download(name string, dir string, sink Sink) (string, error) {
	switch {
	case c.Mode == ModeWiki && c.Wiki.Current != "":
		return c.Wiki.Download(name, dir, sink)
	case c.Mode == ModeTicket && c.Ticket.Current > 0:
		return c.Ticket.Download(name, dir, sink)
	}
	return "", invalid("you need an active ticket or wiki open")
}

func (c *Context) SearchView(query string) error {
	results, err := c.API.Search(query)
	if err != nil {
		return err
	}
	return c.render(view.Search, render.SearchResults(query, results))
}

func (c *Context) TimelineView(ctx context.Context) error {
	items, err := c.API.Timeline(ctx, trac.DefaultTimeline)
	if err != nil {
		return err
	}
	return c.render(view.Timeline, render.Timeline(items))
}

func (c *Context) ChangesetView(ctx context.Context, rev string) error {
	diff, err := c.API.Changeset(ctx, rev)
	if err != nil {
		return err
	}
	return c.render(view.Changeset, diff)
}

// OpenLine follows a line taken from a list, search or timeline view.  With preview set, wiki
// pages are shown formatted instead of opened for editing.
func (c *Context) OpenLine(ctx context.Context, line string, preview bool) error {
	kind, ref, ok := render.ParseLine(line)
	if !ok {
		return invalid("click within a ticket, page or changeset line (one containing :>>)")
	}

	switch kind {
	case render.KindTicket:
		id, err := strconv.Atoi(strings.TrimPrefix(ref, "#"))
		if err != nil {
			return invalid("%q is not a ticket number", ref)
		}
		return c.TicketView(id, true)
	case render.KindWiki:
		if preview {
			return c.PagePreview(ref)
		}
		return c.WikiView(ref, 0)
	case render.KindChangeset:
		return c.ChangesetView(ctx, ref)
	}
	return invalid("don't know how to open %s", kind)
}

func (c *Context) ServerView() error {
	return c.render(view.Server, render.Servers(c.config.Profiles, c.Profile.Name))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
