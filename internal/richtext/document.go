// Package richtext judges the safety of block-structured rich-text documents
// (a JSON object holding an ordered "blocks" array, each block carrying a type
// and a data payload).
package richtext

import (
	"encoding/json"
	"errors"
)

// ErrUnrecognized is returned by Parse when the input is valid JSON but not a block document.
var ErrUnrecognized = errors.New("richtext: not a block document")

// Block is one typed content block.
type Block struct {
	ID   string
	Type string
	Data Value
}

// Document is a parsed rich-text document. It is read-only input.
type Document struct {
	// Root is the full top-level object, including keys such as "time" and "version".
	Root   Value
	Blocks []Block
}

// Parse decodes raw into a Document. It returns an error if raw is not JSON, and
// ErrUnrecognized if the top level is not an object with a "blocks" array of objects.
func Parse(raw string) (*Document, error) {
	var root Value
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return nil, err
	}
	if root.Kind != KindObject {
		return nil, ErrUnrecognized
	}
	blocksVal, ok := root.Get("blocks")
	if !ok || blocksVal.Kind != KindArray {
		return nil, ErrUnrecognized
	}

	blocks := make([]Block, 0, len(blocksVal.Items))
	for _, item := range blocksVal.Items {
		if item.Kind != KindObject {
			return nil, ErrUnrecognized
		}
		var b Block
		if id, ok := item.Get("id"); ok && id.Kind == KindText {
			b.ID = id.Text
		}
		if typ, ok := item.Get("type"); ok && typ.Kind == KindText {
			b.Type = typ.Text
		}
		if data, ok := item.Get("data"); ok {
			b.Data = data
		}
		blocks = append(blocks, b)
	}

	return &Document{Root: root, Blocks: blocks}, nil
}

// MarshalJSON writes the document back in its original shape.
func (d *Document) MarshalJSON() ([]byte, error) {
	return d.Root.MarshalJSON()
}
