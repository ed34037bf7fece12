// Package parser drives a Visitor over a Markdown document using goldmark.
//
// The engine owns the block and inline grammar. Visitors only see rendered
// text for headings, paragraphs, table rows and lists, in document order.
package parser

// Status tells the walk whether to keep going after a block callback.
type Status int

const (
	// Continue resumes the walk with the next block.
	Continue Status = iota
	// Halt ends the walk. Nothing after the current block is visited.
	Halt
)

// Result reports how a walk ended.
type Result int

const (
	// Completed means the whole document was visited.
	Completed Result = iota
	// Halted means a callback returned Halt.
	Halted
)

func (r Result) String() string {
	if r == Halted {
		return "halted"
	}
	return "completed"
}

// Visitor receives block callbacks from the walk.
//
// Table rows are assembled by calling TableCell once per cell and
// concatenating the returned strings; the result is handed to TableHead or
// TableRow. Table, List and ListItem are told about their blocks after the
// contents have been visited; their return values are not used by the walk.
type Visitor interface {
	Heading(text string, level int) Status
	Paragraph(text string) Status
	TableHead(text string) Status
	TableRow(text string) Status
	TableCell(text string, align string, head bool) string
	Table(text string) string
	List(text string, ordered bool, level int) string
	ListItem(text string, level int) string
}
