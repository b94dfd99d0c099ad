// Package sanitize strips markup from free text submitted by users, such as
// review comments and moderation feedback.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML element from input and trims surrounding space.
// Entities produced by the policy are unescaped so plain punctuation
// round-trips unchanged.
func Text(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(input)))
}
