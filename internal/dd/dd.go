// Package dd implements the diagram adapter: a façade over an algebraic
// decision diagram (ADD) representation, exposing exactly the operations
// the evaluator needs. A single Go-native implementation serves every run;
// the ddPackage option is accepted by the CLI but not consulted. The only
// per-run choice is which Number representation (rational vs. log-domain,
// see internal/numkernel, selected by logCounting/multiplePrecision) is
// plugged into a Mgr at construction time, since the node algebra itself
// never depends on which Number is in play.
package dd

import (
	"fmt"

	"github.com/xDarkicex/wmc/internal/numkernel"
)

// DdVar is a 0-indexed diagram variable, distinct from a cnf.Variable: the
// manager owns the permutation between the two.
type DdVar int

// Node is a reduced ADD node: either a terminal carrying a Number, or an
// internal node branching on DdVar with Lo (var=0) and Hi (var=1)
// children. Nodes are immutable once built and safe to share across the
// unique table's cache entries.
type Node struct {
	terminal bool
	value    numkernel.Number
	v        DdVar
	lo, hi   *Node
}

// Dd is the adapter's opaque handle, scoped to the Mgr it was built under.
type Dd struct {
	mgr  *Mgr
	node *Node
}

func (d Dd) String() string {
	if d.node == nil {
		return "<nil>"
	}
	if d.node.terminal {
		return fmt.Sprintf("const(%s)", d.node.value)
	}
	return fmt.Sprintf("var(%d)", d.node.v)
}

// IsTerminal, TerminalString, VarLabel, Lo, Hi and NodeKey expose just
// enough of a Dd's shape for dotexport to walk it without reaching into
// unexported Node fields.

func (d Dd) IsTerminal() bool { return d.node.terminal }

func (d Dd) TerminalString() string { return d.node.value.String() }

func (d Dd) VarLabel() string { return fmt.Sprintf("x%d", d.node.v) }

func (d Dd) Lo() Dd { return Dd{mgr: d.mgr, node: d.node.lo} }

func (d Dd) Hi() Dd { return Dd{mgr: d.mgr, node: d.node.hi} }

// NodeKey is an identity token suitable as a map key, used to dedupe shared
// subgraphs during a dot export walk.
func (d Dd) NodeKey() interface{} { return d.node }

// newTerminal builds (or retrieves from cache) a terminal node.
func (m *Mgr) newTerminal(n numkernel.Number) *Node {
	key := n.String()
	if cached, ok := m.terminalCache[key]; ok {
		return cached
	}
	node := &Node{terminal: true, value: n}
	m.terminalCache[key] = node
	m.nodeCount++
	return node
}

// newInternal builds (or retrieves from the unique table) a reduced
// internal node: if lo == hi, the node is redundant and the child is
// returned directly (standard ADD reduction).
func (m *Mgr) newInternal(v DdVar, lo, hi *Node) *Node {
	if lo == hi {
		return lo
	}
	key := uniqueKey{v: v, lo: lo, hi: hi}
	if cached, ok := m.uniqueTable[key]; ok {
		return cached
	}
	node := &Node{v: v, lo: lo, hi: hi}
	m.uniqueTable[key] = node
	m.nodeCount++
	return node
}

type uniqueKey struct {
	v      DdVar
	lo, hi *Node
}
