package jointree

import "github.com/xDarkicex/wmc/internal/cnf"

// NodeKind tags a Node variant.
type NodeKind int

const (
	Terminal NodeKind = iota
	Nonterminal
)

// Node is one join-tree node. Terminals carry a clause index; nonterminals
// carry an ordered list of child indices and the variables eliminated at
// this node.
type Node struct {
	Kind        NodeKind
	Index       int
	ClauseIndex int // valid when Kind == Terminal
	Children    []int
	Proj        []cnf.Variable // projection/elimination variables
}

// Tree is a fully ingested join tree. Nodes are indexed
// 0..N-1: terminals occupy 0..C-1, nonterminals occupy C..N-1, and the
// root is always N-1.
type Tree struct {
	V, C, N int
	Nodes   map[int]*Node

	Width           int
	PlannerDuration float64
	PlannerPID      int
}

// Root returns the tree's root node (index N-1).
func (t *Tree) Root() *Node {
	return t.Nodes[t.N-1]
}

// PreProjectionVars computes, for node, the union of each descendant's free
// variables before node's own projection — the profiler's indexing key
//. inst supplies each terminal's clause
// variables.
func (t *Tree) PreProjectionVars(node *Node, inst *cnf.Instance) cnf.VarSet {
	memo := make(map[int]cnf.VarSet)
	var walk func(*Node) cnf.VarSet
	walk = func(n *Node) cnf.VarSet {
		if cached, ok := memo[n.Index]; ok {
			return cached
		}
		s := cnf.NewVarSet()
		if n.Kind == Terminal {
			for _, l := range inst.Clauses[n.ClauseIndex].Literals {
				s.Add(l.Var)
			}
		} else {
			for _, ci := range n.Children {
				child := t.Nodes[ci]
				for v := range walk(child) {
					s.Add(v)
				}
			}
			for _, v := range n.Proj {
				delete(s, v)
			}
		}
		memo[n.Index] = s
		return s
	}

	out := cnf.NewVarSet()
	if node.Kind == Terminal {
		for _, l := range inst.Clauses[node.ClauseIndex].Literals {
			out.Add(l.Var)
		}
		return out
	}
	for _, ci := range node.Children {
		child := t.Nodes[ci]
		for v := range walk(child) {
			out.Add(v)
		}
	}
	return out
}

// ComputeWidth computes the join tree's width: the max, over nodes, of the
// number of free variables present just before that node's projection step,
// computed when the join-tree stream doesn't declare one itself, following
// original_source/addmc's width pass.
func ComputeWidth(t *Tree, inst *cnf.Instance) int {
	freeVars := make(map[int]cnf.VarSet) // node index -> free vars before its own projection
	var compute func(idx int) cnf.VarSet
	compute = func(idx int) cnf.VarSet {
		if cached, ok := freeVars[idx]; ok {
			return cached
		}
		n := t.Nodes[idx]
		s := cnf.NewVarSet()
		if n.Kind == Terminal {
			for _, l := range inst.Clauses[n.ClauseIndex].Literals {
				s.Add(l.Var)
			}
		} else {
			for _, ci := range n.Children {
				for v := range compute(ci) {
					s.Add(v)
				}
			}
		}
		freeVars[idx] = s
		return s
	}

	width := 0
	for i := 0; i < t.N; i++ {
		free := compute(i)
		if len(free) > width {
			width = len(free)
		}
		// project this node's own elimination vars out for parents
		n := t.Nodes[i]
		for _, v := range n.Proj {
			delete(free, v)
		}
	}
	return width
}
