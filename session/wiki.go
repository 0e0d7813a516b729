package session

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/toothbrush/trac-term/render"
	"github.com/toothbrush/trac-term/trac"
)

type WikiSession struct {
	Current     string   `yaml:"current,omitempty"`
	Visited     []string `yaml:"visited,omitempty"`
	Revision    int      `yaml:"revision"`
	Pages       []string `yaml:"pages,omitempty"`
	Attachments []string `yaml:"attachments,omitempty"`

	api            *trac.API
	defaultComment string
}

func NewWikiSession(api *trac.API, defaultComment string) *WikiSession {
	return &WikiSession{Revision: 1, api: api, defaultComment: defaultComment}
}

func (w *WikiSession) attach(api *trac.API, defaultComment string) *WikiSession {
	cp := *w
	cp.api = api
	cp.defaultComment = defaultComment
	return &cp
}

// Placeholder stands in for a page that doesn't exist yet; saving it creates the page.
func Placeholder(name string) string {
	return fmt.Sprintf("Describe %s here.", name)
}

// Open makes name the current page and returns its text, at rev when rev > 0.  An empty name
// reopens the current page, or WikiStart.  A failed fetch leaves the session as it was.
func (w *WikiSession) Open(name string, rev int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = w.Current
	}
	if name == "" {
		name = render.StartPage
	}

	text, err := w.api.GetPage(name, rev)
	if errors.Is(err, trac.ErrNotFound) {
		text, err = Placeholder(name), nil
	}
	if err != nil {
		return "", err
	}

	w.visit(name)
	return text, nil
}

func (w *WikiSession) visit(name string) {
	w.Current = name
	if !slices.Contains(w.Visited, name) {
		w.Visited = append(w.Visited, name)
	}
}

// Navigate moves through the pages visited so far; -1 is back, 1 is forward.
func (w *WikiSession) Navigate(direction int) (string, error) {
	i := slices.Index(w.Visited, w.Current)
	j := i + direction
	if i < 0 || direction == 0 || j < 0 || j >= len(w.Visited) {
		return "", invalid("history out of range")
	}
	return w.Open(w.Visited[j], 0)
}

func (w *WikiSession) requireCurrent() error {
	if w.Current == "" {
		return invalid("no wiki page is open")
	}
	return nil
}

func (w *WikiSession) comment(c string) string {
	if strings.TrimSpace(c) == "" {
		return w.defaultComment
	}
	return c
}

// Save stores text as the next version of the current page.
func (w *WikiSession) Save(text string, comment string) error {
	if err := w.requireCurrent(); err != nil {
		return err
	}
	return w.api.PutPage(w.Current, text, w.comment(comment))
}

// Create writes a new page and makes it current.
func (w *WikiSession) Create(name string, text string, comment string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("page name is empty")
	}
	if err := w.api.PutPage(name, text, w.comment(comment)); err != nil {
		return err
	}

	w.visit(name)
	return nil
}

// Info refreshes the known revision of the current page.
func (w *WikiSession) Info() (string, error) {
	if err := w.requireCurrent(); err != nil {
		return "", err
	}

	info, err := w.api.GetPageInfo(w.Current)
	if err != nil {
		return "", err
	}
	w.Revision = info.Version
	return info.String(), nil
}

// Previous returns an earlier revision of the current page, by default the one before Revision.
// History is left alone.
func (w *WikiSession) Previous(rev int) (string, error) {
	if err := w.requireCurrent(); err != nil {
		return "", err
	}
	if rev == 0 {
		rev = w.Revision - 1
	}
	if rev < 1 {
		return "", invalid("there is no revision %d of %s", rev, w.Current)
	}
	return w.api.GetPage(w.Current, rev)
}

func (w *WikiSession) AllPages() ([]string, error) {
	pages, err := w.api.GetAllPages()
	if err != nil {
		return nil, err
	}
	w.Pages = pages
	return pages, nil
}

// PreviewHTML has the server render unsaved wiki text.
func (w *WikiSession) PreviewHTML(text string) (string, error) {
	return w.api.WikiToHTML(text)
}

func (w *WikiSession) PageHTML(name string) (string, error) {
	if name = strings.TrimSpace(name); name == "" {
		if err := w.requireCurrent(); err != nil {
			return "", err
		}
		name = w.Current
	}
	return w.api.GetPageHTML(name)
}

func (w *WikiSession) Attach(file string) error {
	if err := w.requireCurrent(); err != nil {
		return err
	}
	data, err := readUpload(file)
	if err != nil {
		return err
	}
	return w.api.PutWikiAttachment(w.Current, file, data)
}

// ListAttachments returns "Page/file" paths.  A page that doesn't exist yet has none.
func (w *WikiSession) ListAttachments() ([]string, error) {
	if err := w.requireCurrent(); err != nil {
		return nil, err
	}

	atts, err := w.api.ListWikiAttachments(w.Current)
	if errors.Is(err, trac.ErrNotFound) {
		atts = nil
	} else if err != nil {
		return nil, err
	}
	w.Attachments = atts
	return atts, nil
}

// Download saves an attachment of the current page into dir and returns the local path.  name is
// either a bare file name or a "Page/file" path.
func (w *WikiSession) Download(name string, dir string, sink Sink) (string, error) {
	ref := name
	if !strings.Contains(name, "/") {
		if err := w.requireCurrent(); err != nil {
			return "", err
		}
		ref = path.Join(w.Current, name)
	}

	dst, err := downloadTarget(dir, ref)
	if err != nil {
		return "", err
	}

	data, err := w.api.GetWikiAttachment(ref)
	if err != nil {
		return "", err
	}
	if err := writeDownload(dst, data, sink); err != nil {
		return "", err
	}
	return dst, nil
}
