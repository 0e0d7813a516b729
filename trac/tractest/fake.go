// Package tractest provides an in-memory stand-in for a Trac XML-RPC endpoint.  It plugs into
// trac.API.Caller and counts round trips, so tests can tell a batched call from N sequential ones,
// and a local rejection from one that reached the server.
package tractest

import (
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/toothbrush/trac-term/trac"
)

type Handler func(args []any) (any, error)

type Call struct {
	Method string
	Args   []any
}

type Fake struct {
	handlers map[string]Handler

	// Every method dispatched, including the ones inside a multicall.
	Calls []Call

	// Number of times the endpoint was hit.
	RoundTrips int
}

func New() *Fake {
	return &Fake{handlers: map[string]Handler{}}
}

func (f *Fake) Handle(method string, h Handler) *Fake {
	f.handlers[method] = h
	return f
}

// Return makes method answer v whatever the arguments.
func (f *Fake) Return(method string, v any) *Fake {
	return f.Handle(method, func([]any) (any, error) { return v, nil })
}

// Fail makes method raise a fault.
func (f *Fake) Fail(method string, code int, msg string) *Fake {
	return f.Handle(method, func([]any) (any, error) {
		return nil, &trac.RemoteFault{Method: method, Code: code, Message: msg}
	})
}

// Count returns how many times method was dispatched.
func (f *Fake) Count(method string) int {
	n := 0
	for _, c := range f.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// API returns a client for a throwaway profile whose calls all land on f.
func (f *Fake) API() *trac.API {
	api, err := trac.NewAPI(trac.Profile{Name: "test", Scheme: "http", Host: "trac.test"}, trac.Options{})
	if err != nil {
		panic(err)
	}
	api.Caller = f
	return api
}

// Reset forgets the call log, keeping the handlers.
func (f *Fake) Reset() {
	f.Calls = nil
	f.RoundTrips = 0
}

func (f *Fake) Call(method string, args []any) (any, error) {
	f.RoundTrips++

	if method != "system.multicall" {
		return f.dispatch(method, args)
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("tractest: multicall takes one argument, got %d", len(args))
	}
	batch, ok := args[0].([]any)
	if !ok {
		return nil, fmt.Errorf("tractest: multicall argument is %T", args[0])
	}

	results := make([]any, 0, len(batch))
	for _, entry := range batch {
		m, _ := entry.(map[string]any)
		name, _ := m["methodName"].(string)
		params, _ := m["params"].([]any)

		v, err := f.dispatch(name, params)
		if err != nil {
			code, msg := 1, err.Error()
			if fault, ok := err.(*trac.RemoteFault); ok {
				code, msg = fault.Code, fault.Message
			}
			results = append(results, map[string]any{"faultCode": int64(code), "faultString": msg})
			continue
		}
		results = append(results, []any{v})
	}
	return results, nil
}

func (f *Fake) dispatch(method string, args []any) (any, error) {
	f.Calls = append(f.Calls, Call{Method: method, Args: args})

	h, ok := f.handlers[method]
	if !ok {
		return nil, &trac.RemoteFault{Method: method, Code: -32601, Message: "unknown method " + method}
	}
	return h(args)
}

// TicketValue builds a ticket.get reply.
func TicketValue(id int, attrs map[string]string) any {
	m := make(map[string]any, len(attrs))
	for k, v := range attrs {
		m[k] = v
	}
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []any{int64(id), stamp, stamp, m}
}

// ChangeLogRow builds one ticket.changeLog row.
func ChangeLogRow(at time.Time, author, field, oldValue, newValue string) any {
	return []any{at, author, field, oldValue, newValue, int64(1)}
}

// ActionValue builds one ticket.getActions entry; each field is name, default value, options.
func ActionValue(name string, fields ...[]any) any {
	fs := make([]any, 0, len(fields))
	for _, f := range fields {
		fs = append(fs, f)
	}
	return []any{name, name, "", fs}
}

// Field builds an action input field.
func Field(name, value string, options ...string) []any {
	opts := make([]any, 0, len(options))
	for _, o := range options {
		opts = append(opts, o)
	}
	return []any{name, value, opts}
}

// Wiki keeps pages in memory and serves the wiki.* namespace.
type Wiki struct {
	revisions   map[string][]string
	authors     map[string]string
	attachments map[string][]byte
}

// ServeWiki installs an in-memory wiki holding pages at revision 1.
func (f *Fake) ServeWiki(pages map[string]string) *Wiki {
	w := &Wiki{revisions: map[string][]string{}, authors: map[string]string{}, attachments: map[string][]byte{}}
	for name, text := range pages {
		w.revisions[name] = []string{text}
		w.authors[name] = "admin"
	}

	f.Handle("wiki.getPage", func(args []any) (any, error) {
		name, _ := args[0].(string)
		revs, ok := w.revisions[name]
		if !ok {
			return nil, &trac.RemoteFault{Method: "wiki.getPage", Code: 404, Message: fmt.Sprintf("Wiki page %q does not exist", name)}
		}
		rev := len(revs)
		if len(args) > 1 {
			rev, _ = args[1].(int)
		}
		if rev < 1 || rev > len(revs) {
			return nil, &trac.RemoteFault{Method: "wiki.getPage", Code: 404, Message: "no such version"}
		}
		return revs[rev-1], nil
	})

	f.Handle("wiki.putPage", func(args []any) (any, error) {
		name, _ := args[0].(string)
		text, _ := args[1].(string)
		w.revisions[name] = append(w.revisions[name], text)
		w.authors[name] = "trac-term"
		return true, nil
	})

	f.Handle("wiki.getPageInfo", func(args []any) (any, error) {
		name, _ := args[0].(string)
		revs, ok := w.revisions[name]
		if !ok {
			return nil, &trac.RemoteFault{Method: "wiki.getPageInfo", Code: 404, Message: "no such page"}
		}
		return map[string]any{
			"name":    name,
			"version": int64(len(revs)),
			"author":  w.authors[name],
		}, nil
	})

	f.Handle("wiki.getAllPages", func([]any) (any, error) {
		names := make([]string, 0, len(w.revisions))
		for name := range w.revisions {
			names = append(names, name)
		}
		sort.Strings(names)
		return Strings(names...), nil
	})

	f.Handle("wiki.getPageHTML", func(args []any) (any, error) {
		name, _ := args[0].(string)
		text, ok := w.Latest(name)
		if !ok {
			return nil, &trac.RemoteFault{Method: "wiki.getPageHTML", Code: 404, Message: "no such page"}
		}
		return "<p>" + text + "</p>", nil
	})

	f.Handle("wiki.wikiToHtml", func(args []any) (any, error) {
		text, _ := args[0].(string)
		return "<p>" + text + "</p>", nil
	})

	f.Handle("wiki.putAttachment", func(args []any) (any, error) {
		ref, _ := args[0].(string)
		data, _ := args[1].([]byte)
		w.attachments[ref] = data
		return true, nil
	})

	f.Handle("wiki.getAttachment", func(args []any) (any, error) {
		ref, _ := args[0].(string)
		data, ok := w.attachments[ref]
		if !ok {
			return nil, &trac.RemoteFault{Method: "wiki.getAttachment", Code: 404, Message: "no such attachment"}
		}
		return data, nil
	})

	f.Handle("wiki.listAttachments", func(args []any) (any, error) {
		page, _ := args[0].(string)
		refs := []string{}
		for ref := range w.attachments {
			if path.Dir(ref) == page {
				refs = append(refs, ref)
			}
		}
		sort.Strings(refs)
		return Strings(refs...), nil
	})

	return w
}

// Strings builds an XML-RPC array of strings.
func Strings(values ...string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// Latest returns the newest text of a page.
func (w *Wiki) Latest(name string) (string, bool) {
	revs, ok := w.revisions[name]
	if !ok {
		return "", false
	}
	return revs[len(revs)-1], true
}
