// Package security sanitises user and admin supplied text before it is stored.
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans HTML and plain text input. It is safe for concurrent use.
type Sanitizer struct {
	rich  *bluemonday.Policy
	plain *bluemonday.Policy
}

// NewSanitizer builds the blog content policy and the strict plain text policy.
func NewSanitizer() *Sanitizer {
	rich := bluemonday.UGCPolicy()
	rich.AllowElements("figure", "figcaption")
	rich.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	rich.RequireNoReferrerOnLinks(true)
	rich.AddTargetBlankToFullyQualifiedLinks(true)

	return &Sanitizer{rich: rich, plain: bluemonday.StrictPolicy()}
}

// HTML keeps safe formatting tags and drops scripts, frames, styles and event handlers.
func (s *Sanitizer) HTML(raw string) string {
	return strings.TrimSpace(s.rich.Sanitize(raw))
}

// Text strips every tag. Entities produced by the policy are left escaped.
func (s *Sanitizer) Text(raw string) string {
	return strings.TrimSpace(s.plain.Sanitize(raw))
}
