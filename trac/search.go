package trac

import "fmt"

// Search runs a full-text search across tickets, wiki and changesets.
func (api *API) Search(query string) ([]SearchResult, error) {
	if query == "" {
		return nil, invalid("search query is empty")
	}

	reply, err := api.call("search.performSearch", query)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't search for %q: %w", query, err)
	}

	rows, err := decodeSlice(reply, "search results")
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(rows))
	for _, row := range rows {
		cols, _ := row.([]any)
		if len(cols) < 5 {
			continue
		}
		results = append(results, SearchResult{
			Href:    decodeString(cols[0]),
			Title:   decodeString(cols[1]),
			Date:    decodeTime(cols[2]),
			Author:  decodeString(cols[3]),
			Excerpt: decodeString(cols[4]),
		})
	}
	return results, nil
}
