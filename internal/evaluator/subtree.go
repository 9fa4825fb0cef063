package evaluator

import (
	"time"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/dd"
	"github.com/xDarkicex/wmc/internal/jointree"
	"github.com/xDarkicex/wmc/internal/numkernel"
)

// MaximizerEntry is one (ddVar, boolDiff) pair pushed during max
// abstraction, replayed in reverse by the finalizer to reconstruct an
// argmax assignment.
type MaximizerEntry struct {
	DdVar dd.DdVar
	Diff  dd.Dd
}

// ProfileSink receives per-node timing/size samples; Evaluator calls it
// once per visited join node when profiling is enabled. A nil sink
// disables profiling, which is required whenever threadCount>1, since its
// accumulator is single-writer.
type ProfileSink func(node *jointree.Node, duration time.Duration, ddSize int)

// Evaluator holds everything solveSubtree needs for one slice: its own
// Mgr, the cnf<->dd variable permutation, and a slice-local maximizer
// stack — each worker records its own, not a shared global.
type Evaluator struct {
	Mgr            *dd.Mgr
	Inst           *cnf.Instance
	Tree           *jointree.Tree
	CnfVarToDdVar  map[cnf.Variable]dd.DdVar
	DdVarToCnfVar  []cnf.Variable
	ExistRandom    bool
	Maximizing     bool
	Priority       JoinPriority
	MaximizerStack []MaximizerEntry
	Profile        ProfileSink
}

// SolveSubtree computes an ADD whose variables are exactly the union of
// the subtree's variables minus its projected variables minus those fixed
// by assignment. assignment is the slice's fixed outer-var
// values.
func (e *Evaluator) SolveSubtree(node *jointree.Node, assignment map[cnf.Variable]bool) dd.Dd {
	start := time.Now()
	var result dd.Dd

	if node.Kind == jointree.Terminal {
		result = e.clauseDd(e.Inst.Clauses[node.ClauseIndex], assignment)
	} else {
		children := e.Mgr.ChildList(len(node.Children))
		for _, ci := range node.Children {
			children = append(children, e.SolveSubtree(e.Tree.Nodes[ci], assignment))
		}
		result = Combine(e.Mgr, e.Priority, children)
		e.Mgr.ReleaseChildList(children)
		result = e.projectOut(result, node, assignment)
	}

	if e.Profile != nil {
		e.Profile(node, time.Since(start), e.Mgr.NodeCount(result))
	}
	return result
}

// clauseDd builds the clause's ADD as a disjunction (sum via max) of
// literal ADDs, slicing on assignment: a literal whose variable is fixed
// to its own polarity makes the clause constant-one and shorts the build;
// one fixed to the opposite polarity is simply skipped.
func (e *Evaluator) clauseDd(clause cnf.Clause, assignment map[cnf.Variable]bool) dd.Dd {
	acc := e.Mgr.Zero()
	for _, lit := range clause.Literals {
		if b, fixed := assignment[lit.Var]; fixed {
			litValue := b != lit.Negated // true iff this literal evaluates true under b
			if litValue {
				return e.Mgr.One()
			}
			continue
		}
		ddVar := e.CnfVarToDdVar[lit.Var]
		acc = e.Mgr.Max(acc, e.Mgr.VarLiteral(ddVar, !lit.Negated))
	}
	return acc
}

// projectOut folds each of node's elimination variables into dd via
// weighted literal abstraction.
func (e *Evaluator) projectOut(result dd.Dd, node *jointree.Node, assignment map[cnf.Variable]bool) dd.Dd {
	mode := e.Mgr.Mode()
	exact := e.Mgr.Exact()

	for _, v := range node.Proj {
		additive := e.Inst.OuterVars.Contains(v) != e.ExistRandom // XOR

		wPos := numkernel.FromFloat64(mode, exact, e.Inst.Weights.Positive(v))
		wNeg := numkernel.FromFloat64(mode, exact, e.Inst.Weights.Negative(v))

		if b, fixed := assignment[v]; fixed {
			w := wNeg
			if b {
				w = wPos
			}
			result = e.Mgr.Product(result, e.Mgr.Const(w))
			continue
		}

		ddVar := e.CnfVarToDdVar[v]
		t0 := e.Mgr.Product(e.Mgr.Compose(result, ddVar, false), e.Mgr.Const(wNeg))
		t1 := e.Mgr.Product(e.Mgr.Compose(result, ddVar, true), e.Mgr.Const(wPos))

		if additive {
			result = e.Mgr.Sum(t0, t1)
		} else {
			result = e.Mgr.Max(t0, t1)
			if e.Maximizing {
				e.MaximizerStack = append(e.MaximizerStack, MaximizerEntry{
					DdVar: ddVar,
					Diff:  e.Mgr.BoolDiff(t1, t0),
				})
			}
		}
	}
	return result
}
