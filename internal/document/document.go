// Package document provides the line-oriented writer the shopping list is
// rendered into. The writer owns page capacity; callers only check PageFull
// and advance with NextPage.
package document

// Writer accepts one line at a time and signals when the current page is out
// of capacity.
type Writer interface {
	WriteLine(text string) error
	PageFull() bool
	NextPage() error
}
