package models

import (
	"net/url"
	"strings"
)

// TabContext describes the browser tab the user is looking at.
type TabContext struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Domain string `json:"domain"`
}

// NewTabContext builds a tab context, deriving the domain from the URL
// hostname without a leading "www.". It returns nil for an empty URL so
// callers can pass the result straight to the scorers.
func NewTabContext(rawURL, title string) *TabContext {
	if strings.TrimSpace(rawURL) == "" {
		return nil
	}
	tab := &TabContext{URL: rawURL, Title: title}
	if u, err := url.Parse(rawURL); err == nil {
		tab.Domain = strings.TrimPrefix(u.Hostname(), "www.")
	}
	return tab
}

// Text is the lowercased haystack that keyword scoring searches.
func (t *TabContext) Text() string {
	return strings.ToLower(t.Title + " " + t.URL + " " + t.Domain)
}
