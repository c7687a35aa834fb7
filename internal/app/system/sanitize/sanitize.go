// internal/app/system/sanitize/sanitize.go

// Package sanitize strips markup from free-text roster fields before they
// are stored. Names and phone numbers are plain text; anything that looks
// like HTML is removed outright rather than escaped.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
