package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlainTextRejectsMarkup(t *testing.T) {
	inputs := []string{
		"<b>x</b>",
		"Jane <i>Doe</i>",
		"<script>alert(1)</script>",
		"<img src=x onerror=alert(1)>",
		"hello<br>world",
		"<a href=\"https://example.com\">me</a>",
		"<!-- comment -->name",
	}
	for _, in := range inputs {
		assert.False(t, IsPlainText(in), "input %q", in)
	}
}

func TestIsPlainTextAcceptsText(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Jane Doe",
		"Tom & Jerry",
		"O'Brien \"the quick\"",
		"&amp; literally",
		"3 < 4",
		"a > b",
		"I <3 Go",
		"Zoë Ångström",
	}
	for _, in := range inputs {
		assert.True(t, IsPlainText(in), "input %q", in)
	}
}

func TestIsPlainTextPtr(t *testing.T) {
	g := New()
	assert.True(t, g.IsPlainTextPtr(nil))

	v := "<b>x</b>"
	assert.False(t, g.IsPlainTextPtr(&v))
}
