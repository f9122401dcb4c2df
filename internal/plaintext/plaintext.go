// Package plaintext guards fields that must never contain HTML markup,
// such as display names and post titles.
package plaintext

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Message is reported when a field contains markup.
const Message = "must not contain HTML"

// Guard strips every tag with a zero-tag safelist and compares the result to the input.
// Safe for concurrent use.
type Guard struct {
	policy *bluemonday.Policy
}

// New creates a guard backed by bluemonday's strict policy.
func New() *Guard {
	return &Guard{policy: bluemonday.StrictPolicy()}
}

var defaultGuard = New()

// IsPlainText reports whether value contains no markup. Empty and whitespace-only
// values are plain text.
//
// Entity encoding done by the sanitizer is undone on both sides before comparing, so
// "Tom & Jerry" or "3 < 4" are plain text while "<b>x</b>" is not.
func (g *Guard) IsPlainText(value string) bool {
	if strings.TrimSpace(value) == "" {
		return true
	}
	if !strings.ContainsAny(value, "<>") {
		return true
	}
	// The HTML tokenizer folds CRLF into LF; do the same before comparing.
	value = newlines.Replace(value)
	cleaned := g.policy.Sanitize(value)
	return html.UnescapeString(cleaned) == html.UnescapeString(value)
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// IsPlainTextPtr treats a nil value as plain text.
func (g *Guard) IsPlainTextPtr(value *string) bool {
	if value == nil {
		return true
	}
	return g.IsPlainText(*value)
}

// IsPlainText checks value with the default guard.
func IsPlainText(value string) bool {
	return defaultGuard.IsPlainText(value)
}
