package guest

import (
	"net/url"
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// componentUnescape undoes the QueryEscape cases that encodeURIComponent
// leaves alone, so links match the ones the admin page built in the browser.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Slug makes a guest name safe for the ?to= parameter: slashes become
// dashes and whitespace runs become underscores.
func Slug(name string) string {
	slug := strings.TrimSpace(name)
	slug = strings.ReplaceAll(slug, "/", "-")
	return whitespaceRun.ReplaceAllString(slug, "_")
}

// BuildLink returns the personal invitation URL for name.
func BuildLink(origin, name string) string {
	return strings.TrimRight(origin, "/") + "/?to=" + EscapeComponent(Slug(name))
}

// EscapeComponent percent-encodes s exactly like JavaScript's
// encodeURIComponent.
func EscapeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}

// GreetingFromParam recovers the display name from a ?to= value.
func GreetingFromParam(to string) string {
	return strings.TrimSpace(strings.ReplaceAll(to, "_", " "))
}
