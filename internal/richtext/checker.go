package richtext

import (
	"strconv"
	"strings"

	"blog_backend/internal/markup"

	"github.com/microcosm-cc/bluemonday"
)

// Message is reported when a document contains unsafe content.
const Message = "content contains unsafe markup"

// Finding locates the first unsafe text leaf of a document.
type Finding struct {
	BlockIndex int            `json:"blockIndex"`
	BlockType  string         `json:"blockType"`
	Path       string         `json:"path"`
	Pattern    markup.Pattern `json:"pattern"`
}

// Checker verifies rich-text documents. Safe for concurrent use.
type Checker struct {
	policy *bluemonday.Policy
}

// NewChecker creates a checker whose sanitizer allows inline formatting, headings,
// code and links.
func NewChecker() *Checker {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"b", "strong", "i", "em", "u", "s", "mark", "sub", "sup", "small", "br",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"code", "pre",
	)
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("class").OnElements("code")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(false)

	return &Checker{policy: p}
}

// IsSafe reports whether every text leaf of the serialized document passes the
// injection scan. Empty input and input that is not a block document are accepted:
// structural validation belongs to a separate format check.
func (c *Checker) IsSafe(raw string) bool {
	_, unsafe := c.Check(raw)
	return !unsafe
}

// Check returns the first unsafe leaf, if any. See IsSafe for the acceptance rules.
func (c *Checker) Check(raw string) (Finding, bool) {
	if strings.TrimSpace(raw) == "" {
		return Finding{}, false
	}
	doc, err := Parse(raw)
	if err != nil {
		return Finding{}, false
	}
	return c.CheckDocument(doc)
}

// CheckDocument walks every block payload and stops at the first unsafe leaf.
func (c *Checker) CheckDocument(doc *Document) (Finding, bool) {
	for i, b := range doc.Blocks {
		var finding Finding
		var found bool
		b.Data.Walk("blocks["+strconv.Itoa(i)+"].data", func(path, text string) bool {
			m, hit := markup.Scan(text)
			if !hit {
				return true
			}
			finding = Finding{BlockIndex: i, BlockType: b.Type, Path: path, Pattern: m.Pattern}
			found = true
			return false
		})
		if found {
			return finding, true
		}
	}
	return Finding{}, false
}

// SanitizeText runs one text through the formatting safelist.
func (c *Checker) SanitizeText(text string) string {
	return c.policy.Sanitize(text)
}

// Sanitize returns a copy of the document with every block payload passed through the
// safelist. The safety verdict never depends on this output.
func (c *Checker) Sanitize(doc *Document) *Document {
	blocks := make([]Block, len(doc.Blocks))
	sanitized := make([]Value, len(doc.Blocks))
	for i, b := range doc.Blocks {
		blocks[i] = Block{ID: b.ID, Type: b.Type, Data: b.Data.Map(c.SanitizeText)}
	}

	origBlocks, _ := doc.Root.Get("blocks")
	for i, item := range origBlocks.Items {
		fields := make([]Field, len(item.Fields))
		for j, f := range item.Fields {
			if f.Key == "data" {
				f = Field{Key: "data", Value: blocks[i].Data}
			}
			fields[j] = f
		}
		sanitized[i] = Object(fields...)
	}

	rootFields := make([]Field, len(doc.Root.Fields))
	for i, f := range doc.Root.Fields {
		if f.Key == "blocks" {
			f = Field{Key: "blocks", Value: Array(sanitized...)}
		}
		rootFields[i] = f
	}

	return &Document{Root: Object(rootFields...), Blocks: blocks}
}

// SanitizeString parses raw and returns the sanitized serialization. Input that is not
// a block document is returned unchanged.
func (c *Checker) SanitizeString(raw string) string {
	doc, err := Parse(raw)
	if err != nil {
		return raw
	}
	out, err := c.Sanitize(doc).MarshalJSON()
	if err != nil {
		return raw
	}
	return string(out)
}
