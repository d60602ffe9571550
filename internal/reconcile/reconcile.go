// Package reconcile compares a source configuration, in canonical form,
// against the current content of its destination. It owns the changed/
// unchanged decision and the before/after payload; reading and writing the
// actual files stays with the caller.
package reconcile

import (
	"strings"

	"znkr.io/diff/textdiff"

	"github.com/netauto/confsort/internal/sorter"
)

// Result reports one reconciliation.
type Result struct {
	Changed bool
	Before  string // destination content as found, empty when absent
	After   string // canonical rendering of the source
	Dropped int    // source lines discarded for having no enclosing statement
}

// Reconcile canonicalizes sourceLines and compares the result with the
// destination's existing lines. Pass nil destLines when the destination does
// not exist yet; that reads as empty content, so any source at all reports as
// a change. No I/O happens here, and an unchanged comparison is not an
// error -- the caller decides whether Changed means a write.
func Reconcile(sourceLines, destLines []string) Result {
	forest, dropped := sorter.Build(sourceLines)
	after := join(sorter.Flatten(forest))
	before := join(destLines)
	return Result{
		Changed: after != before,
		Before:  before,
		After:   after,
		Dropped: dropped,
	}
}

// UnifiedDiff renders the before/after payload as a unified diff for
// display. Empty when nothing changed.
func (r Result) UnifiedDiff() string {
	if !r.Changed {
		return ""
	}
	return textdiff.Unified(r.Before, r.After)
}

func join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
