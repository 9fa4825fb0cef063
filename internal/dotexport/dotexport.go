// Package dotexport writes an ADD as a Graphviz dot graph, tagged with a
// per-run identifier so successive exports from the same process don't
// collide on disk.
package dotexport

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/xDarkicex/wmc/internal/dd"
)

// NewRunID mints a fresh run tag for a batch of dot exports.
func NewRunID() string {
	return uuid.NewString()
}

// Write renders d as a dot graph to w. Internal nodes are labelled by their
// DdVar, terminals by their Number's string form; the lo/hi edges are
// dashed/solid per Graphviz ADD convention.
func Write(w io.Writer, runID string, d dd.Dd) error {
	if _, err := fmt.Fprintf(w, "digraph add_%s {\n", sanitize(runID)); err != nil {
		return err
	}
	id := 0
	ids := make(map[interface{}]int)

	var walk func(dd.Dd) (int, error)
	walk = func(node dd.Dd) (int, error) {
		key := node.NodeKey()
		if existing, ok := ids[key]; ok {
			return existing, nil
		}
		myID := id
		id++
		ids[key] = myID

		if node.IsTerminal() {
			if _, err := fmt.Fprintf(w, "  n%d [shape=box,label=%q];\n", myID, node.TerminalString()); err != nil {
				return 0, err
			}
			return myID, nil
		}
		if _, err := fmt.Fprintf(w, "  n%d [shape=circle,label=%q];\n", myID, node.VarLabel()); err != nil {
			return 0, err
		}
		loID, err := walk(node.Lo())
		if err != nil {
			return 0, err
		}
		hiID, err := walk(node.Hi())
		if err != nil {
			return 0, err
		}
		if _, err := fmt.Fprintf(w, "  n%d -> n%d [style=dashed];\n", myID, loID); err != nil {
			return 0, err
		}
		if _, err := fmt.Fprintf(w, "  n%d -> n%d [style=solid];\n", myID, hiID); err != nil {
			return 0, err
		}
		return myID, nil
	}

	if _, err := walk(d); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func sanitize(runID string) string {
	out := make([]rune, 0, len(runID))
	for _, r := range runID {
		if r == '-' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
