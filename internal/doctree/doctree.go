package doctree

import (
	"encoding/json"
	"strings"
)

const (
	// RootSection collects content seen before the first heading.
	RootSection = "Root"
	// MetadataKey is the reserved key the extracted metadata is emitted under.
	MetadataKey = "Metadata"
	// CellSeparator delimits cells in assembled row text.
	CellSeparator = "|"
)

// Tree is the root of a converted document, keyed by section name.
type Tree struct {
	Sections map[string]*Section
	Metadata map[string]string
}

// Section is one heading-delimited region.
type Section struct {
	Level      int              `json:"level"`
	Paragraphs []string         `json:"paragraphs"`
	Tables     map[string]Table `json:"tables"`
}

// Row is one table row. Row 0 of a table is its header by convention.
type Row []string

// Table is an ordered sequence of rows.
type Table []Row

// NewTree returns a tree with the Root section pre-seeded.
func NewTree() *Tree {
	t := &Tree{
		Sections: make(map[string]*Section),
		Metadata: make(map[string]string),
	}
	t.OpenSection(RootSection, 0)
	return t
}

// NewSection returns an empty section at the given heading level.
func NewSection(level int) *Section {
	return &Section{
		Level:      level,
		Paragraphs: []string{},
		Tables:     make(map[string]Table),
	}
}

// OpenSection creates the named section, replacing any section with the same name.
func (t *Tree) OpenSection(name string, level int) *Section {
	s := NewSection(level)
	t.Sections[name] = s
	return s
}

// Section returns the named section, or nil.
func (t *Tree) Section(name string) *Section {
	return t.Sections[name]
}

// OpenTable creates an empty table under caption, replacing any existing one.
func (s *Section) OpenTable(caption string) {
	s.Tables[caption] = Table{}
}

// AppendRow appends row to the named table. It reports false, leaving the
// section untouched, when no table with that caption was opened.
func (s *Section) AppendRow(caption string, row Row) bool {
	tb, ok := s.Tables[caption]
	if !ok {
		return false
	}
	s.Tables[caption] = append(tb, row)
	return true
}

// SplitRow splits assembled row text into cells. The element after the
// final separator is always dropped.
func SplitRow(text string) Row {
	cells := strings.Split(text, CellSeparator)
	return Row(cells[:len(cells)-1])
}

// MarshalJSON emits sections and metadata as a single object. A section
// named "Metadata" is shadowed by the metadata mapping.
func (t *Tree) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Sections)+1)
	for name, s := range t.Sections {
		out[name] = s
	}
	meta := t.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	out[MetadataKey] = meta
	return json.Marshal(out)
}

// MarshalJSON keeps empty tables as [] rather than null.
func (tb Table) MarshalJSON() ([]byte, error) {
	if tb == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Row(tb))
}
