package render

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/toothbrush/trac-term/trac"
	"golang.org/x/exp/maps"
)

const StartPage = "WikiStart"

// Pages every Trac install ships with.
var builtinPage = regexp.MustCompile(`^(Trac|Wiki)|^(InterMapTxt|InterWiki|SandBox|InterTrac|TitleIndex|RecentChanges|CamelCase)$`)

// WikiTOC sorts the page index and puts WikiStart on top.
func WikiTOC(pages []string, hideBuiltin bool) string {
	names := make([]string, 0, len(pages))
	for _, p := range pages {
		if p == StartPage || (hideBuiltin && builtinPage.MatchString(p)) {
			continue
		}
		names = append(names, p)
	}
	sort.Strings(names)

	return strings.Join(append([]string{StartPage}, names...), "\n")
}

// HTMLToText converts server-rendered wiki HTML to Markdown, resolving relative links against the
// server's base URL.
func HTMLToText(html string, base *url.URL) (string, error) {
	opt := &md.Options{
		GetAbsoluteURL: func(selec *goquery.Selection, rawURL string, domain string) string {
			if domain == "" {
				return rawURL
			}

			u, err := url.Parse(rawURL)
			if err != nil {
				return rawURL
			}

			if u.Scheme == "data" {
				return rawURL
			}

			if u.Scheme == "" {
				u.Scheme = base.Scheme
			}
			if u.Host == "" {
				u.Host = domain
			}

			return u.String()
		},
	}

	converter := md.NewConverter(base.Host, true, opt)
	converter.Use(mdplugin.GitHubFlavored())

	text, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("render: failed to convert to Markdown: %w", err)
	}
	return text, nil
}

// Servers lists the configured profiles, marking the active one.
func Servers(profiles map[string]trac.Profile, active string) string {
	names := maps.Keys(profiles)
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		mark := " "
		if name == active {
			mark = "*"
		}
		p := profiles[name].Normalised()
		auth := "invalid auth"
		if creds, err := p.Credentials(); err == nil {
			auth = creds.Mode.String()
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s://%s (%s)", mark, name, p.Scheme, p.Host, auth))
	}
	return strings.Join(lines, "\n")
}
