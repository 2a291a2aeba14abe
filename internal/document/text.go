package document

import (
	"fmt"
	"io"
)

// DefaultLinesPerPage matches the layout the list was originally rendered
// with: a page starts at y=750 and steps 20 units per line.
const DefaultLinesPerPage = 35

// TextWriter renders lines to an io.Writer, separating pages with a form
// feed. It implements Writer.
type TextWriter struct {
	w            io.Writer
	linesPerPage int
	lineCount    int
	pageCount    int
}

// NewTextWriter returns a TextWriter with the given page capacity; a
// non-positive capacity falls back to DefaultLinesPerPage.
func NewTextWriter(w io.Writer, linesPerPage int) *TextWriter {
	if linesPerPage <= 0 {
		linesPerPage = DefaultLinesPerPage
	}
	return &TextWriter{w: w, linesPerPage: linesPerPage, pageCount: 1}
}

func (t *TextWriter) WriteLine(text string) error {
	if _, err := fmt.Fprintln(t.w, text); err != nil {
		return err
	}
	t.lineCount++
	return nil
}

func (t *TextWriter) PageFull() bool {
	return t.lineCount >= t.linesPerPage
}

func (t *TextWriter) NextPage() error {
	if _, err := io.WriteString(t.w, "\f"); err != nil {
		return err
	}
	t.lineCount = 0
	t.pageCount++
	return nil
}

// Pages reports how many pages have been started.
func (t *TextWriter) Pages() int { return t.pageCount }
