// Package sorter canonicalizes indentation-structured configuration text.
// A flat line sequence is rebuilt into a forest using leading whitespace as
// the only structural signal, duplicate lines at the same hierarchy position
// are merged, and the forest is flattened back out with every sibling group
// in byte-wise text order. Two configs that differ only in emission order of
// sibling statements therefore sort to identical output.
package sorter

import (
	"sort"
	"strings"

	"git.sr.ht/~spc/go-log"
)

// Build reconstructs the hierarchy implied by indentation. It returns one
// root per distinct top-level line in first-seen order, plus the number of
// lines dropped because no ancestor could hold them (a sub-line appearing
// before any top-level statement). Blank lines are discarded.
func Build(lines []string) ([]*Node, int) {
	var (
		roots   []*Node
		dropped int
		stack   []*Node // open ancestors, shallowest first
	)
	registry := make(map[string]*Node) // top-level line text -> node

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		node := NewNode(line)

		if node.Indent == 0 {
			// New or reopened top-level block. A reopened block accumulates
			// into the node created at its first occurrence.
			if existing, ok := registry[line]; ok {
				node = existing
			} else {
				registry[line] = node
				roots = append(roots, node)
			}
			stack = append(stack[:0], node)
			continue
		}

		// A line at the same indentation as the top of the stack closes that
		// subtree; only strictly deeper indentation nests.
		for len(stack) > 0 && stack[len(stack)-1].Indent >= node.Indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			dropped++
			continue
		}
		node = stack[len(stack)-1].AddChild(node)
		stack = append(stack, node)
	}

	return roots, dropped
}

// Flatten walks the forest and emits the canonical flat line sequence: each
// sibling group sorted by text, every parent immediately followed by its own
// flattened children. The forest's stored order is left untouched, so
// flattening is repeatable.
func Flatten(forest []*Node) []string {
	if len(forest) == 0 {
		return nil
	}

	ordered := make([]*Node, len(forest))
	copy(ordered, forest)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Text < ordered[j].Text })

	var out []string
	for _, n := range ordered {
		out = append(out, n.Text)
		out = append(out, Flatten(n.Children)...)
	}
	return out
}

// Sort runs the whole pipeline, Build then Flatten. Orphaned lines are
// dropped rather than failing the run, but the loss is logged so malformed
// input does not disappear silently.
func Sort(lines []string) []string {
	forest, dropped := Build(lines)
	if dropped > 0 {
		log.Warnf("dropped %d line(s) with no enclosing statement", dropped)
	}
	return Flatten(forest)
}
