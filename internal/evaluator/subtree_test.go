package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/dd"
	"github.com/xDarkicex/wmc/internal/jointree"
	"github.com/xDarkicex/wmc/internal/numkernel"
)

// buildSingleNodeTree builds a minimal tree: one terminal wrapping clause,
// one root nonterminal projecting proj.
func buildSingleNodeTree(clause cnf.Clause, proj []cnf.Variable) *jointree.Tree {
	nodes := map[int]*jointree.Node{
		0: {Kind: jointree.Terminal, Index: 0, ClauseIndex: 0},
		1: {Kind: jointree.Nonterminal, Index: 1, Children: []int{0}, Proj: proj},
	}
	return &jointree.Tree{V: 2, C: 1, N: 2, Nodes: nodes}
}

func newEvaluator(inst *cnf.Instance, tree *jointree.Tree, existRandom, maximizing bool, n int) *Evaluator {
	mgr := dd.NewManager(numkernel.ModeRational, true, 100, 0)
	cnfVarToDdVar := make(map[cnf.Variable]dd.DdVar, n)
	ddVarToCnfVar := make([]cnf.Variable, n)
	for i := 0; i < n; i++ {
		cnfVarToDdVar[cnf.Variable(i+1)] = dd.DdVar(i)
		ddVarToCnfVar[i] = cnf.Variable(i + 1)
	}
	return &Evaluator{
		Mgr:           mgr,
		Inst:          inst,
		Tree:          tree,
		CnfVarToDdVar: cnfVarToDdVar,
		DdVarToCnfVar: ddVarToCnfVar,
		ExistRandom:   existRandom,
		Maximizing:    maximizing,
		Priority:      Arbitrary,
	}
}

func TestTautologyScenario(t *testing.T) {
	clause := cnf.Clause{Literals: []cnf.Literal{cnf.Lit(1, false), cnf.Lit(1, true)}, Index: 0}
	// Plain (non-projected) counting treats every variable as outer, since
	// there is no inner/outer distinction without projected counting.
	inst := cnf.NewInstance(1, []cnf.Clause{clause}, cnf.NewWeightTable(), cnf.NewVarSet(1))
	tree := buildSingleNodeTree(clause, []cnf.Variable{1})

	e := newEvaluator(inst, tree, false, false, 1)
	result := e.SolveSubtree(tree.Root(), map[cnf.Variable]bool{})
	val, ok := e.Mgr.ExtractConst(result)
	require.True(t, ok)
	assert.Equal(t, "2", val.String())
}

func TestContradictionScenario(t *testing.T) {
	clauses := []cnf.Clause{
		{Literals: []cnf.Literal{cnf.Lit(1, false)}, Index: 0},
		{Literals: []cnf.Literal{cnf.Lit(1, true)}, Index: 1},
	}
	inst := cnf.NewInstance(1, clauses, cnf.NewWeightTable(), cnf.NewVarSet())

	nodes := map[int]*jointree.Node{
		0: {Kind: jointree.Terminal, Index: 0, ClauseIndex: 0},
		1: {Kind: jointree.Terminal, Index: 1, ClauseIndex: 1},
		2: {Kind: jointree.Nonterminal, Index: 2, Children: []int{0, 1}, Proj: []cnf.Variable{1}},
	}
	tree := &jointree.Tree{V: 1, C: 2, N: 3, Nodes: nodes}

	e := newEvaluator(inst, tree, false, false, 1)
	result := e.SolveSubtree(tree.Root(), map[cnf.Variable]bool{})
	val, ok := e.Mgr.ExtractConst(result)
	require.True(t, ok)
	assert.True(t, val.IsZero())
}

func TestWeightedSingleScenario(t *testing.T) {
	clause := cnf.Clause{Literals: []cnf.Literal{cnf.Lit(1, false)}, Index: 0}
	weights := cnf.NewWeightTable()
	weights.Set(cnf.Lit(1, false), 0.3)
	weights.Set(cnf.Lit(1, true), 0.7)
	inst := cnf.NewInstance(1, []cnf.Clause{clause}, weights, cnf.NewVarSet(1))
	inst.Weighted = true

	tree := buildSingleNodeTree(clause, []cnf.Variable{1})
	e := newEvaluator(inst, tree, false, false, 1)
	result := e.SolveSubtree(tree.Root(), map[cnf.Variable]bool{})
	val, ok := e.Mgr.ExtractConst(result)
	require.True(t, ok)
	assert.InDelta(t, 0.3, val.(numkernel.Rational).Float64(), 1e-9)
}

func TestProjectedScenario(t *testing.T) {
	clause := cnf.Clause{Literals: []cnf.Literal{cnf.Lit(1, false), cnf.Lit(2, false)}, Index: 0}
	inst := cnf.NewInstance(2, []cnf.Clause{clause}, cnf.NewWeightTable(), cnf.NewVarSet(1))
	inst.Projected = true

	tree := buildSingleNodeTree(clause, []cnf.Variable{2, 1})
	e := newEvaluator(inst, tree, false, false, 2)
	result := e.SolveSubtree(tree.Root(), map[cnf.Variable]bool{})
	val, ok := e.Mgr.ExtractConst(result)
	require.True(t, ok)
	assert.Equal(t, "2", val.String())
}

func TestExistentialRandomScenario(t *testing.T) {
	clause := cnf.Clause{Literals: []cnf.Literal{cnf.Lit(1, false), cnf.Lit(2, false)}, Index: 0}
	inst := cnf.NewInstance(2, []cnf.Clause{clause}, cnf.NewWeightTable(), cnf.NewVarSet(1))
	inst.Projected = true
	inst.ExistRandom = true

	tree := buildSingleNodeTree(clause, []cnf.Variable{2, 1})
	e := newEvaluator(inst, tree, true, false, 2)
	result := e.SolveSubtree(tree.Root(), map[cnf.Variable]bool{})
	val, ok := e.Mgr.ExtractConst(result)
	require.True(t, ok)
	assert.Equal(t, "2", val.String())
}

func TestMaximizingScenarioPushesMaximizerStackEntries(t *testing.T) {
	clauses := []cnf.Clause{
		{Literals: []cnf.Literal{cnf.Lit(1, false), cnf.Lit(2, false)}, Index: 0},
		{Literals: []cnf.Literal{cnf.Lit(1, true), cnf.Lit(2, true)}, Index: 1},
	}
	inst := cnf.NewInstance(2, clauses, cnf.NewWeightTable(), cnf.NewVarSet(1, 2))
	inst.ExistRandom = true
	inst.Maximizing = true

	nodes := map[int]*jointree.Node{
		0: {Kind: jointree.Terminal, Index: 0, ClauseIndex: 0},
		1: {Kind: jointree.Terminal, Index: 1, ClauseIndex: 1},
		2: {Kind: jointree.Nonterminal, Index: 2, Children: []int{0, 1}, Proj: []cnf.Variable{2, 1}},
	}
	tree := &jointree.Tree{V: 2, C: 2, N: 3, Nodes: nodes}

	e := newEvaluator(inst, tree, true, true, 2)
	result := e.SolveSubtree(tree.Root(), map[cnf.Variable]bool{})
	val, ok := e.Mgr.ExtractConst(result)
	require.True(t, ok)
	assert.False(t, val.IsZero())
	assert.Len(t, e.MaximizerStack, 2)
}

func TestClauseDdShortCircuitsOnFixedLiteral(t *testing.T) {
	clause := cnf.Clause{Literals: []cnf.Literal{cnf.Lit(1, false), cnf.Lit(2, false)}, Index: 0}
	inst := cnf.NewInstance(2, []cnf.Clause{clause}, cnf.NewWeightTable(), cnf.NewVarSet())
	tree := buildSingleNodeTree(clause, nil)
	e := newEvaluator(inst, tree, false, false, 2)

	d := e.clauseDd(clause, map[cnf.Variable]bool{1: true})
	val, ok := e.Mgr.ExtractConst(d)
	require.True(t, ok)
	assert.False(t, val.IsZero())
}
