package view

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/toothbrush/trac-term/internal/termfmt"
)

// DirHost keeps every view as <Dir>/<NAME>.txt, so any editor can open, edit and save them.
type DirHost struct {
	Dir string

	// Rendered text is echoed here when set.
	Echo io.Writer

	// Views that are written but never echoed, e.g. the comment scratch pad.
	Quiet map[Name]bool
}

var _ Host = (*DirHost)(nil)

func (h *DirHost) Path(name Name) string {
	return path.Join(h.Dir, string(name)+".txt")
}

func (h *DirHost) Render(name Name, text string) error {
	// there's probably a nicer way to express 0750 but meh
	if err := os.MkdirAll(h.Dir, 0750); err != nil {
		return fmt.Errorf("view: couldn't create directory %s: %w", h.Dir, err)
	}

	// Files end in a newline like editors leave them; Read takes exactly that one back off.
	data := text
	if data != "" {
		data += "\n"
	}

	abs := h.Path(name)
	if err := os.WriteFile(abs, []byte(data), 0640); err != nil {
		return fmt.Errorf("view: couldn't write %s: %w", abs, err)
	}

	if h.Echo != nil && !h.Quiet[name] && text != "" {
		fmt.Fprintln(h.Echo, termfmt.Fg(0x88, 0x88, 0x88, termfmt.LightGrey).Sprint("── "+string(name)+" ──"))
		fmt.Fprintln(h.Echo, Decorate(text))
	}
	return nil
}

func (h *DirHost) Read(name Name) (string, error) {
	abs := h.Path(name)
	b, err := os.ReadFile(abs)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("view: couldn't read %s: %w", abs, err)
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}

var (
	headingStyle = termfmt.Bold()
	markerStyle  = termfmt.Fg(0x2a, 0xa1, 0x98, termfmt.Cyan).Bold()
)

// Decorate highlights wiki headings and openable markers for a terminal.
func Decorate(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "=") && strings.HasSuffix(trimmed, "="):
			lines[i] = headingStyle.Sprint(line)
		case strings.Contains(line, ":>> "):
			head, tail, _ := strings.Cut(line, ":>> ")
			lines[i] = markerStyle.Sprint(head+":>>") + " " + tail
		}
	}
	return strings.Join(lines, "\n")
}
