// Package htmlsanitize cleans user-generated text before it is stored.
//
// Comment and description content arrives from untrusted clients; both
// policies here are built once at init and are safe for concurrent use.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows the usual formatting tags (p, strong, em, a, lists)
	// while stripping scripts, event handlers, and javascript: URLs.
	ugc = bluemonday.UGCPolicy()

	// strict strips all markup, leaving plain text.
	strict = bluemonday.StrictPolicy()
)

// Sanitize cleans s for contexts that allow basic formatting
// (vacation and post descriptions).
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// PlainText strips all markup from s and trims surrounding whitespace.
// Used for comment content, which is stored as plain text.
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
