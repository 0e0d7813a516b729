package trac

import (
	"fmt"
	"path"
)

// GetPage fetches the wiki text of a page, at a given revision when rev > 0.
func (api *API) GetPage(name string, rev int) (string, error) {
	args := []any{name}
	if rev > 0 {
		args = append(args, rev)
	}

	reply, err := api.call("wiki.getPage", args...)
	if err != nil {
		return "", fmt.Errorf("trac: couldn't get page %s: %w", name, err)
	}
	return decodeString(reply), nil
}

func (api *API) PutPage(name string, text string, comment string) error {
	if name == "" {
		return invalid("page name is empty")
	}

	if _, err := api.call("wiki.putPage", name, text, map[string]any{"comment": comment}); err != nil {
		return fmt.Errorf("trac: couldn't save page %s: %w", name, err)
	}
	return nil
}

func (api *API) GetPageInfo(name string) (PageInfo, error) {
	reply, err := api.call("wiki.getPageInfo", name)
	if err != nil {
		return PageInfo{}, fmt.Errorf("trac: couldn't get page info for %s: %w", name, err)
	}

	m, ok := reply.(map[string]any)
	if !ok {
		return PageInfo{}, fmt.Errorf("trac: page info for %s has unexpected type %T", name, reply)
	}

	return PageInfo{
		Name:         decodeString(m["name"]),
		Version:      decodeInt(m["version"]),
		Author:       decodeString(m["author"]),
		LastModified: decodeTime(m["lastModified"]),
		Comment:      decodeString(m["comment"]),
	}, nil
}

func (api *API) GetAllPages() ([]string, error) {
	reply, err := api.call("wiki.getAllPages")
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't list pages: %w", err)
	}
	return decodeStrings(reply), nil
}

// GetPageHTML returns the server-rendered HTML of a stored page.
func (api *API) GetPageHTML(name string) (string, error) {
	reply, err := api.call("wiki.getPageHTML", name)
	if err != nil {
		return "", fmt.Errorf("trac: couldn't render page %s: %w", name, err)
	}
	return decodeString(reply), nil
}

// WikiToHTML renders arbitrary wiki markup on the server.
func (api *API) WikiToHTML(text string) (string, error) {
	reply, err := api.call("wiki.wikiToHtml", text)
	if err != nil {
		return "", fmt.Errorf("trac: couldn't render wiki text: %w", err)
	}
	return decodeString(reply), nil
}

func (api *API) PutWikiAttachment(page string, filename string, data []byte) error {
	ref := path.Join(page, path.Base(filename))
	if _, err := api.call("wiki.putAttachment", ref, data); err != nil {
		return fmt.Errorf("trac: couldn't attach %s: %w", ref, err)
	}
	return nil
}

// GetWikiAttachment takes the "Page/file" path listAttachments returns.
func (api *API) GetWikiAttachment(ref string) ([]byte, error) {
	reply, err := api.call("wiki.getAttachment", ref)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't get attachment %s: %w", ref, err)
	}
	return decodeBytes(reply), nil
}

func (api *API) ListWikiAttachments(page string) ([]string, error) {
	reply, err := api.call("wiki.listAttachments", page)
	if err != nil {
		return nil, fmt.Errorf("trac: couldn't list attachments of %s: %w", page, err)
	}
	return decodeStrings(reply), nil
}
