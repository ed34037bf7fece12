// Package reducer folds Markdown block callbacks into a doctree.Tree.
//
// A Reducer keeps two cursors while the walk runs: the section that
// paragraphs and tables are filed under, and the table that rows are
// appended to. Only headings move the cursors. A "Table: <Caption>" heading
// opens a table inside the current section without leaving it, and a heading
// starting with "STOP" halts the walk with the tree built so far.
package reducer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dgallion1/md2json/internal/doctree"
	"github.com/dgallion1/md2json/internal/parser"
)

const (
	// StopPrefix marks the heading that ends processing.
	StopPrefix = "STOP"
	// TablePrefix marks a heading that captions the rows that follow.
	TablePrefix = "Table:"
	// UndefinedTable is the table cursor while no caption is open.
	UndefinedTable = "Undefined"
)

var _ parser.Visitor = (*Reducer)(nil)

// Reducer builds a document tree from one walk. It is not reusable.
type Reducer struct {
	tree    *doctree.Tree
	section string
	table   string

	trace io.Writer
	log   *slog.Logger
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithTrace writes human-readable PARAGRAPH:, Table: and table text: lines to w.
func WithTrace(w io.Writer) Option {
	return func(r *Reducer) { r.trace = w }
}

// WithLogger sets the logger for cursor movements.
func WithLogger(log *slog.Logger) Option {
	return func(r *Reducer) {
		if log != nil {
			r.log = log
		}
	}
}

// New returns a reducer positioned at the Root section with no table open.
func New(opts ...Option) *Reducer {
	r := &Reducer{
		tree:    doctree.NewTree(),
		section: doctree.RootSection,
		table:   UndefinedTable,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tree returns the tree built so far.
func (r *Reducer) Tree() *doctree.Tree { return r.tree }

func (r *Reducer) Heading(text string, level int) parser.Status {
	if strings.HasPrefix(text, StopPrefix) {
		r.log.Debug("stop heading reached", "heading", text, "section", r.section)
		return parser.Halt
	}

	if strings.HasPrefix(text, TablePrefix) {
		caption := strings.TrimSpace(strings.TrimPrefix(text, TablePrefix))
		r.current().OpenTable(caption)
		r.table = caption
		r.tracef("Table:%s", caption)
		r.log.Debug("table opened", "section", r.section, "caption", caption)
		return parser.Continue
	}

	r.table = UndefinedTable
	r.section = text
	r.tree.OpenSection(text, level)
	r.log.Debug("section opened", "section", text, "level", level)
	return parser.Continue
}

func (r *Reducer) Paragraph(text string) parser.Status {
	s := r.current()
	s.Paragraphs = append(s.Paragraphs, text)
	r.tracef("PARAGRAPH:%s", text)
	return parser.Continue
}

func (r *Reducer) TableHead(text string) parser.Status {
	r.appendRow(text)
	return parser.Continue
}

func (r *Reducer) TableRow(text string) parser.Status {
	r.appendRow(text)
	return parser.Continue
}

func (r *Reducer) TableCell(text, _ string, _ bool) string {
	return text + doctree.CellSeparator
}

// Table traces the assembled text of a finished table.
func (r *Reducer) Table(text string) string {
	r.tracef("table text:%s", text)
	return text
}

func (r *Reducer) List(text string, _ bool, _ int) string { return text }

func (r *Reducer) ListItem(text string, _ int) string { return text }

// appendRow files a row under the open caption. Rows that arrive while no
// caption is open have nowhere to go and are dropped.
func (r *Reducer) appendRow(text string) {
	if r.current().AppendRow(r.table, doctree.SplitRow(text)) {
		return
	}
	r.log.Warn("dropping table row outside a captioned table",
		"section", r.section,
		"table", r.table,
		"row", text,
	)
}

// current returns the section under the cursor. The cursor only ever names
// a section that was opened, so this never returns nil.
func (r *Reducer) current() *doctree.Section {
	return r.tree.Section(r.section)
}

func (r *Reducer) tracef(format string, args ...any) {
	if r.trace == nil {
		return
	}
	fmt.Fprintf(r.trace, format+"\n", args...)
}
