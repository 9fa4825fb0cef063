package dd

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/wmc/internal/numkernel"
)

func TestVarLiteralAndProduct(t *testing.T) {
	mgr := NewManager(numkernel.ModeRational, true, 100, 0)

	x0 := mgr.VarLiteral(0, true)
	x1 := mgr.VarLiteral(1, true)
	and := mgr.Product(x0, x1)

	assignments := []map[DdVar]bool{
		{0: true, 1: true},
		{0: true, 1: false},
		{0: false, 1: true},
		{0: false, 1: false},
	}
	want := []bool{true, false, false, false}
	for i, a := range assignments {
		assert.Equal(t, want[i], mgr.EvalAssignment(and, a))
	}
}

func TestSumIsCommutativeAndReducesSharedSubgraphs(t *testing.T) {
	mgr := NewManager(numkernel.ModeRational, true, 100, 0)

	x0 := mgr.VarLiteral(0, true)
	one := mgr.One()

	a := mgr.Sum(x0, one)
	b := mgr.Sum(one, x0)
	assert.Equal(t, mgr.NodeCount(a), mgr.NodeCount(b))
}

func TestComposeFixesVariable(t *testing.T) {
	mgr := NewManager(numkernel.ModeRational, true, 100, 0)
	x0 := mgr.VarLiteral(0, true)

	fixedTrue := mgr.Compose(x0, 0, true)
	fixedFalse := mgr.Compose(x0, 0, false)

	val, ok := mgr.ExtractConst(fixedTrue)
	require.True(t, ok)
	assert.False(t, val.IsZero())

	val, ok = mgr.ExtractConst(fixedFalse)
	require.True(t, ok)
	assert.True(t, val.IsZero())
}

func TestBoolDiffIsOneWhenSelfAtLeastOther(t *testing.T) {
	mgr := NewManager(numkernel.ModeRational, true, 100, 0)
	hi := mgr.Const(numkernel.NewRationalFromFloat(5, true))
	lo := mgr.Const(numkernel.NewRationalFromFloat(2, true))

	diff := mgr.BoolDiff(hi, lo)
	assert.True(t, mgr.EvalAssignment(diff, nil))

	reversed := mgr.BoolDiff(lo, hi)
	assert.False(t, mgr.EvalAssignment(reversed, nil))
}

func TestBoolDiffStaysExactForCloseRationals(t *testing.T) {
	mgr := NewManager(numkernel.ModeRational, true, 100, 0)
	hi := mgr.Const(numkernel.NewRationalFromRat(big.NewRat(10000000000000001, 10000000000000000), true))
	lo := mgr.Const(numkernel.NewRationalFromRat(big.NewRat(1, 1), true))

	assert.True(t, mgr.EvalAssignment(mgr.BoolDiff(hi, lo), nil))
	assert.False(t, mgr.EvalAssignment(mgr.BoolDiff(lo, hi), nil))
}

func TestEstimatedMBGrowsWithTableSize(t *testing.T) {
	mgr := NewManager(numkernel.ModeRational, true, 100, 0)
	before := mgr.EstimatedMB()

	mgr.VarLiteral(0, true)
	mgr.VarLiteral(1, true)

	assert.Greater(t, mgr.EstimatedMB(), before)
}

func TestApplyAcrossManagersPanics(t *testing.T) {
	a := NewManager(numkernel.ModeRational, true, 100, 0)
	b := NewManager(numkernel.ModeRational, true, 100, 1)

	assert.Panics(t, func() {
		a.Product(a.One(), b.One())
	})
}

func TestSupportExcludesAbstractedVariables(t *testing.T) {
	mgr := NewManager(numkernel.ModeRational, true, 100, 0)
	x0 := mgr.VarLiteral(0, true)
	x1 := mgr.VarLiteral(1, true)
	d := mgr.Max(x0, x1)

	support := mgr.Support(d)
	assert.Contains(t, support, DdVar(0))
	assert.Contains(t, support, DdVar(1))

	composed := mgr.Sum(mgr.Compose(d, 0, true), mgr.Compose(d, 0, false))
	support = mgr.Support(composed)
	assert.NotContains(t, support, DdVar(0))
}
