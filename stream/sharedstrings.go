package stream

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// SharedStrings is the workbook's deduplicated string pool. Cells of type
// CellSharedString store an index into it.
type SharedStrings struct {
	items []string
}

// NewSharedStrings builds a pool from already decoded entries.
func NewSharedStrings(items []string) *SharedStrings {
	return &SharedStrings{items: items}
}

// Len returns the number of entries.
func (s *SharedStrings) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Get returns the entry at index i.
func (s *SharedStrings) Get(i int) (string, error) {
	if s == nil || i < 0 || i >= len(s.items) {
		return "", fmt.Errorf("shared string index %d out of range (table has %d entries)", i, s.Len())
	}
	return s.items[i], nil
}

// readSharedStrings decodes sharedStrings.xml token by token. Each <si>
// becomes one entry: plain <t> text or the concatenation of its rich text
// runs. Phonetic runs (<rPh>) are not part of the displayed string.
// maxPrealloc bounds the capacity taken from uniqueCount, which is only a hint.
const maxPrealloc = 1 << 16

func readSharedStrings(r io.Reader) (*SharedStrings, error) {
	dec := xml.NewDecoder(r)
	sst := &SharedStrings{}

	var (
		b        strings.Builder
		inItem   bool
		inText   bool
		phonetic int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode shared strings: %w", err)
		}
		switch v := tok.(type) {
		case xml.StartElement:
			switch v.Name.Local {
			case "sst":
				if n := attr(v.Attr, "uniqueCount"); n != "" {
					if c, err := atoi(n); err == nil && c > 0 {
						sst.items = make([]string, 0, min(c, maxPrealloc))
					}
				}
			case "si":
				inItem = true
				b.Reset()
			case "rPh":
				phonetic++
			case "t":
				inText = inItem && phonetic == 0
			}
		case xml.CharData:
			if inText {
				b.Write(v)
			}
		case xml.EndElement:
			switch v.Name.Local {
			case "si":
				sst.items = append(sst.items, b.String())
				inItem = false
			case "rPh":
				phonetic--
			case "t":
				inText = false
			}
		}
	}
	return sst, nil
}
