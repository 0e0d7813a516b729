package trac

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"
	"github.com/mmcdole/gofeed"
)

// Timeline and changeset diffs are not exposed over XML-RPC; they come from the regular web UI,
// through the same authenticated client.

func (api *API) timelineEndpoint(opts TimelineQuery) (*url.URL, error) {
	ep, err := api.Profile.WebURL("/timeline")
	if err != nil {
		return nil, err
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

func (api *API) changesetEndpoint(rev string) (*url.URL, error) {
	if rev == "" {
		return nil, invalid("changeset revision is empty")
	}

	ep, err := api.Profile.WebURL("/changeset/" + url.PathEscape(rev))
	if err != nil {
		return nil, err
	}
	ep.RawQuery = url.Values{"format": []string{"diff"}}.Encode()

	return ep, nil
}

// Timeline fetches and parses the activity feed.
func (api *API) Timeline(ctx context.Context, opts TimelineQuery) ([]FeedItem, error) {
	ep, err := api.timelineEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't get timeline endpoint: %w", err)
	}

	body, err := api.get(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't fetch timeline: %w", err)
	}

	return ParseFeed(bytes.NewReader(body))
}

// ParseFeed turns an RSS or Atom document into feed items.
func ParseFeed(r io.Reader) ([]FeedItem, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't parse timeline feed: %w", err)
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		fi := FeedItem{Title: item.Title, Link: item.Link}
		switch {
		case item.UpdatedParsed != nil:
			fi.Updated = *item.UpdatedParsed
		case item.PublishedParsed != nil:
			fi.Updated = *item.PublishedParsed
		}
		items = append(items, fi)
	}
	return items, nil
}

// Changeset returns the unified diff of one changeset.
func (api *API) Changeset(ctx context.Context, rev string) (string, error) {
	ep, err := api.changesetEndpoint(rev)
	if err != nil {
		return "", err
	}

	body, err := api.get(ctx, ep)
	if err != nil {
		return "", fmt.Errorf("trac: couldn't fetch changeset %s: %w", rev, err)
	}
	return string(body), nil
}

func (api *API) get(ctx context.Context, u *url.URL) ([]byte, error) {
	api.Logger.Debug().Str("url", u.Redacted()).Msg("http get")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't instantiate http request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	// Basic credentials live on the RPC URL only.
	if api.RPCURL != nil && api.RPCURL.User != nil {
		if pass, ok := api.RPCURL.User.Password(); ok {
			req.SetBasicAuth(api.RPCURL.User.Username(), pass)
		}
	}

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, &ConnectionError{URL: u.Redacted(), Err: err}
	}

	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't read http response body: %w", err)
	}

	switch response.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &ConnectionError{URL: u.Redacted(), Err: fmt.Errorf("authentication failed: %s", response.Status)}
	case http.StatusNotFound:
		return nil, &RemoteFault{Method: "GET " + u.Path, Code: notFoundFaultCode, Message: response.Status}
	}

	return nil, fmt.Errorf("trac: unknown HTTP response status: %s: %s", response.Status, u.Redacted())
}
