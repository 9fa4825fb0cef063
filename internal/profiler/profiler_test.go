package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/jointree"
)

func buildTwoLeafTree() *jointree.Tree {
	nodes := map[int]*jointree.Node{
		0: {Kind: jointree.Terminal, Index: 0, ClauseIndex: 0},
		1: {Kind: jointree.Terminal, Index: 1, ClauseIndex: 1},
		2: {Kind: jointree.Nonterminal, Index: 2, Children: []int{0, 1}, Proj: []cnf.Variable{1}},
	}
	return &jointree.Tree{V: 2, C: 2, N: 3, Nodes: nodes}
}

func twoLeafInstance() *cnf.Instance {
	clauses := []cnf.Clause{
		{Literals: []cnf.Literal{cnf.Lit(1, false)}, Index: 0},
		{Literals: []cnf.Literal{cnf.Lit(2, false)}, Index: 1},
	}
	return cnf.NewInstance(2, clauses, cnf.NewWeightTable(), cnf.NewVarSet(2))
}

func TestRecordAccumulatesDurationAcrossCalls(t *testing.T) {
	tree := buildTwoLeafTree()
	inst := twoLeafInstance()
	p := New(tree, inst)

	root := tree.Nodes[2]
	p.Record(root, 10*time.Millisecond, 3)
	p.Record(root, 5*time.Millisecond, 7)

	rows := p.Rows()
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, 15*time.Millisecond, row.Stats.Duration)
		assert.Equal(t, 7, row.Stats.MaxSize)
	}
}

func TestRecordScopesToNodesOwnPreProjectionVars(t *testing.T) {
	tree := buildTwoLeafTree()
	inst := twoLeafInstance()
	p := New(tree, inst)

	leaf0 := tree.Nodes[0]
	p.Record(leaf0, time.Millisecond, 1)

	rows := p.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, cnf.Variable(1), rows[0].Var)
}

func TestRowsAreSortedByVariable(t *testing.T) {
	tree := buildTwoLeafTree()
	inst := twoLeafInstance()
	p := New(tree, inst)

	root := tree.Nodes[2]
	p.Record(root, time.Millisecond, 1)

	rows := p.Rows()
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1].Var, rows[i].Var)
	}
}
