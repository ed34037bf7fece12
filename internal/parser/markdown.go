package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrParse wraps failures raised while the engine walks a document.
var ErrParse = errors.New("markdown parse failed")

type options struct {
	escape bool
	log    *slog.Logger
}

// Option configures a walk.
type Option func(*options)

// WithEscape controls HTML escaping of rendered inline text. On by default.
func WithEscape(escape bool) Option {
	return func(o *options) { o.escape = escape }
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Walk parses src with goldmark (pipe tables enabled) and reports every
// block to v in document order.
func Walk(src []byte, v Visitor, opts ...Option) (res Result, err error) {
	o := options{escape: true, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = Completed, fmt.Errorf("%w: %v", ErrParse, r)
		}
	}()

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	w := &walker{src: src, v: v, opts: o}
	if err := ast.Walk(doc, w.visit); err != nil {
		return Completed, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if w.halted {
		return Halted, nil
	}
	return Completed, nil
}

type walker struct {
	src       []byte
	v         Visitor
	opts      options
	halted    bool
	listDepth int
	rows      []string
}

func (w *walker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Document, *ast.Blockquote:
		return ast.WalkContinue, nil

	case *east.Table:
		if entering {
			w.rows = w.rows[:0]
			return ast.WalkContinue, nil
		}
		w.v.Table(strings.Join(w.rows, "\n"))
		return ast.WalkContinue, nil

	case *ast.Heading:
		if !entering {
			return ast.WalkContinue, nil
		}
		return w.after(w.v.Heading(w.inline(node), node.Level))

	case *ast.Paragraph:
		if !entering {
			return ast.WalkContinue, nil
		}
		return w.after(w.v.Paragraph(w.inline(node)))

	case *east.TableHeader:
		if !entering {
			return ast.WalkContinue, nil
		}
		return w.after(w.v.TableHead(w.row(node, true)))

	case *east.TableRow:
		if !entering {
			return ast.WalkContinue, nil
		}
		return w.after(w.v.TableRow(w.row(node, false)))

	case *ast.List:
		if entering {
			w.listDepth++
			return ast.WalkContinue, nil
		}
		w.v.List(w.blockText(node), node.IsOrdered(), w.listDepth)
		w.listDepth--
		return ast.WalkContinue, nil

	case *ast.ListItem:
		if !entering {
			w.v.ListItem(w.blockText(node), w.listDepth)
		}
		return ast.WalkContinue, nil

	case *ast.TextBlock:
		return ast.WalkSkipChildren, nil
	}

	if entering && n.Type() == ast.TypeBlock {
		w.opts.log.Debug("skipping block", "kind", n.Kind().String())
	}
	return ast.WalkSkipChildren, nil
}

func (w *walker) after(s Status) (ast.WalkStatus, error) {
	if s == Halt {
		w.halted = true
		return ast.WalkStop, nil
	}
	return ast.WalkSkipChildren, nil
}

// row renders a header or body row through the visitor's cell callback and
// remembers it for the table callback.
func (w *walker) row(n ast.Node, head bool) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		cell, ok := c.(*east.TableCell)
		if !ok {
			continue
		}
		buf.WriteString(w.v.TableCell(w.inline(cell), cell.Alignment.String(), head))
	}
	w.rows = append(w.rows, buf.String())
	return buf.String()
}

// blockText joins the inline text of every text-bearing block under n.
func (w *walker) blockText(n ast.Node) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			parts = append(parts, w.inline(c))
		default:
			if t := w.blockText(c); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// inline renders the inline children of n as text. Formatting collapses to
// its content; line breaks become newlines.
func (w *walker) inline(n ast.Node) string {
	var buf strings.Builder
	w.writeInline(&buf, n)
	return strings.TrimSpace(buf.String())
}

func (w *walker) writeInline(buf *strings.Builder, n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			value := node.Segment.Value(w.src)
			if node.IsRaw() {
				w.write(buf, value)
			} else {
				w.write(buf, resolve(value))
			}
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			if node.IsRaw() || node.IsCode() {
				w.write(buf, node.Value)
			} else {
				w.write(buf, resolve(node.Value))
			}
		case *ast.AutoLink:
			w.write(buf, node.Label(w.src))
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				w.write(buf, seg.Value(w.src))
			}
		default:
			w.writeInline(buf, c)
		}
	}
}

// resolve turns source text into its literal form: backslash escapes are
// dropped and entity and numeric references are decoded.
func resolve(b []byte) []byte {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	return util.ResolveEntityNames(b)
}

// write appends literal text, escaping &, <, > and " when enabled.
func (w *walker) write(buf *strings.Builder, b []byte) {
	if w.opts.escape {
		buf.Write(util.EscapeHTML(b))
		return
	}
	buf.Write(b)
}
