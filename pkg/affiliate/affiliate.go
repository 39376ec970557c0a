// Package affiliate builds outbound partner links for detected themes.
package affiliate

import (
	"net/url"
	"strings"
)

// Placeholders recognised in link templates.
const (
	ThemePlaceholder = "{theme}"
	HostPlaceholder  = "{host}"
)

// Build fills template with the query-escaped theme name and the hostname of
// pageURL. It reports false when no link should be offered: an empty template
// or an empty theme name. pageURL may omit its scheme; when no hostname can be
// derived the placeholder is replaced with an empty string.
func Build(template, themeName, pageURL string) (string, bool) {
	if template == "" || themeName == "" {
		return "", false
	}

	r := strings.NewReplacer(
		ThemePlaceholder, url.QueryEscape(themeName),
		HostPlaceholder, url.QueryEscape(Hostname(pageURL)),
	)

	return r.Replace(template), true
}

// Hostname returns the host part of rawURL without port, or "" when it
// cannot be parsed.
func Hostname(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.ToLower(u.Hostname())
}
