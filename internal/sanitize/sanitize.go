// Package sanitize strips markup from user-supplied free text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes all HTML from text. It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a Sanitizer that allows no elements at all.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text returns s with every tag removed and surrounding whitespace trimmed.
// Entity-escaped tags are decoded before stripping so they cannot survive
// as markup. The result is plain text; templates escape it again on output.
func (s *Sanitizer) Text(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(html.UnescapeString(in))))
}
