package upload

import (
	"bytes"
	"strings"

	"blog_backend/internal/markup"
)

// svgLiterals are rejected anywhere in an SVG, case-insensitively.
var svgLiterals = []string{"<script", "javascript:", "onerror=", "onload="}

// checkSVG validates vector markup. The first KiB must look like an SVG or XML document;
// the whole document must then be free of scripts, script URIs and event handlers.
// It returns the offending fragment, or "" when the document passes.
func checkSVG(data []byte) (structureOK bool, banned string) {
	prefix := data
	if len(prefix) > svgPrefixBytes {
		prefix = prefix[:svgPrefixBytes]
	}
	head := strings.ToLower(string(bytes.TrimSpace(prefix)))
	if !strings.HasPrefix(head, "<") {
		return false, ""
	}
	if !strings.Contains(head, "<svg") && !strings.Contains(head, "<?xml") {
		return false, ""
	}

	lower := strings.ToLower(string(data))
	for _, lit := range svgLiterals {
		if strings.Contains(lower, lit) {
			return true, lit
		}
	}
	if m, found := markup.Scan(string(data)); found {
		return true, m.Fragment
	}
	return true, ""
}
