// Package markup detects script-injection patterns in user-supplied text.
package markup

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Pattern names a class of banned content.
type Pattern string

const (
	PatternJavaScriptURI Pattern = "javascript_uri"
	PatternDataHTMLURI   Pattern = "data_html_uri"
	PatternEventHandler  Pattern = "event_handler"
	PatternScriptTag     Pattern = "script_tag"
	PatternIframeTag     Pattern = "iframe_tag"
)

// Match describes the first banned pattern found in a text.
type Match struct {
	Pattern  Pattern
	Fragment string
}

// eventHandlerRe matches inline handler assignments such as ` onerror=` or `/onload =`.
// A handler at the very start of the text also counts.
var eventHandlerRe = regexp.MustCompile(`(?:^|[\s/"'])(on\w+)\s*=`)

var substrings = []struct {
	needle  string
	pattern Pattern
}{
	{"javascript:", PatternJavaScriptURI},
	{"data:text/html", PatternDataHTMLURI},
	{"<script", PatternScriptTag},
	{"</script", PatternScriptTag},
	{"<iframe", PatternIframeTag},
	{"</iframe", PatternIframeTag},
}

// Scan reports the first banned pattern in text. Matching is case-insensitive and is
// repeated on the NFKC-folded text so that full-width look-alikes are caught too.
func Scan(text string) (Match, bool) {
	lower := strings.ToLower(text)
	if m, ok := scanLower(lower); ok {
		return m, true
	}
	folded := strings.ToLower(norm.NFKC.String(text))
	if folded != lower {
		return scanLower(folded)
	}
	return Match{}, false
}

// IsSafe reports whether text contains none of the banned patterns.
func IsSafe(text string) bool {
	_, found := Scan(text)
	return !found
}

func scanLower(lower string) (Match, bool) {
	for _, s := range substrings {
		if strings.Contains(lower, s.needle) {
			return Match{Pattern: s.pattern, Fragment: s.needle}, true
		}
	}
	if loc := eventHandlerRe.FindStringSubmatchIndex(lower); loc != nil {
		return Match{Pattern: PatternEventHandler, Fragment: lower[loc[2]:loc[3]]}, true
	}
	return Match{}, false
}
