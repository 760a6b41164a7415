package quiz

import (
	"net/url"
	"strings"
	"time"
)

const maxShortURL = 50

// ShortenURL renders a source link for list views: the path of the article
// without the /wiki/ prefix, or the raw string clipped to 50 characters
// when it does not parse as an absolute URL.
func ShortenURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if r := []rune(raw); len(r) > maxShortURL {
			return string(r[:maxShortURL]) + "..."
		}
		return raw
	}
	return strings.Replace(u.Path, "/wiki/", "", 1)
}

// FormatDate renders t the way the history list shows it, e.g. "Oct 18, 2026".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
