// Package convert runs the full Markdown to JSON conversion for one document.
package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/md2json/internal/doctree"
	"github.com/dgallion1/md2json/internal/parser"
	"github.com/dgallion1/md2json/internal/preparse"
	"github.com/dgallion1/md2json/internal/reducer"
)

// ErrRead is returned when the input document cannot be read.
var ErrRead = errors.New("read markdown")

// Options controls a conversion.
type Options struct {
	// Trace receives reducer trace lines when set.
	Trace io.Writer
	// Escape HTML-escapes rendered inline text.
	Escape bool
	Logger *slog.Logger
}

// DefaultOptions returns options matching the command line defaults.
func DefaultOptions() Options {
	return Options{Escape: true}
}

// Convert turns src into a document tree. Metadata is attached on every
// path, so a failed walk still returns the partial tree with the error.
func Convert(src []byte, opts Options) (*doctree.Tree, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	meta, text := preparse.ExtractMetadata(string(src))
	text = preparse.StripControl(text)
	text = preparse.DelimitTables(text)

	r := reducer.New(reducer.WithTrace(opts.Trace), reducer.WithLogger(log))
	res, err := parser.Walk([]byte(text), r,
		parser.WithEscape(opts.Escape),
		parser.WithLogger(log),
	)

	tree := r.Tree()
	tree.Metadata = meta
	if err != nil {
		return tree, err
	}

	log.Debug("conversion finished",
		"result", res.String(),
		"sections", len(tree.Sections),
		"metadata_keys", len(meta),
	)
	return tree, nil
}

// ConvertReader reads all of rd and converts it.
func ConvertReader(rd io.Reader, opts Options) (*doctree.Tree, error) {
	src, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return Convert(src, opts)
}

// ConvertFile opens path and converts its contents.
func ConvertFile(path string, opts Options) (*doctree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	return ConvertReader(f, opts)
}

// Encode writes tree to w as a single line of compact JSON.
func Encode(w io.Writer, tree *doctree.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(tree)
}
