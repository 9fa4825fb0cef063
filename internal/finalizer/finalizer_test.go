package finalizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/dd"
	"github.com/xDarkicex/wmc/internal/evaluator"
	"github.com/xDarkicex/wmc/internal/numkernel"
)

func TestFinalizeUnsatisfiableFromEmptyClause(t *testing.T) {
	inst := cnf.NewInstance(1, []cnf.Clause{{Literals: nil, Index: 0}}, cnf.NewWeightTable(), cnf.NewVarSet(1))
	res := Finalize(Input{
		Inst:     inst,
		Apparent: numkernel.FromFloat64(numkernel.ModeRational, true, 1),
		Mode:     numkernel.ModeRational,
		Exact:    true,
	})
	assert.Equal(t, Unsatisfiable, res.Verdict)
	assert.Equal(t, TypeMC, res.Type)
}

func TestFinalizeUnsatisfiableFromZeroUnweightedValue(t *testing.T) {
	inst := cnf.NewInstance(1, []cnf.Clause{{Literals: []cnf.Literal{cnf.Lit(1, false)}, Index: 0}}, cnf.NewWeightTable(), cnf.NewVarSet(1))
	res := Finalize(Input{
		Inst:     inst,
		Apparent: numkernel.Zero(numkernel.ModeRational, true),
		Mode:     numkernel.ModeRational,
		Exact:    true,
	})
	assert.Equal(t, Unsatisfiable, res.Verdict)
}

func TestFinalizeSatisfiableWeightedZeroIsNotUnsat(t *testing.T) {
	inst := cnf.NewInstance(1, []cnf.Clause{{Literals: []cnf.Literal{cnf.Lit(1, false)}, Index: 0}}, cnf.NewWeightTable(), cnf.NewVarSet(1))
	inst.Weighted = true
	res := Finalize(Input{
		Inst:     inst,
		Apparent: numkernel.Zero(numkernel.ModeRational, true),
		Mode:     numkernel.ModeRational,
		Exact:    true,
	})
	assert.Equal(t, Satisfiable, res.Verdict)
	assert.Equal(t, TypeWMC, res.Type)
}

func TestFinalizeTypeTagsProjectedWhenUnweighted(t *testing.T) {
	inst := cnf.NewInstance(1, []cnf.Clause{{Literals: []cnf.Literal{cnf.Lit(1, false)}, Index: 0}}, cnf.NewWeightTable(), cnf.NewVarSet(1))
	inst.Projected = true
	res := Finalize(Input{
		Inst:     inst,
		Apparent: numkernel.One(numkernel.ModeRational, true),
		Mode:     numkernel.ModeRational,
		Exact:    true,
	})
	assert.Equal(t, TypePMC, res.Type)
}

func TestFoldHiddenVarsMaxesForInnerHiddenVar(t *testing.T) {
	// V=2 but only variable 1 appears in any clause; variable 2 is hidden
	// and inner, so additive = isOuter(false) != existRandom(false) = false:
	// fold multiplies in max(wPos, wNeg) for the hidden variable.
	weights := cnf.NewWeightTable()
	weights.Set(cnf.Lit(2, false), 0.4)
	weights.Set(cnf.Lit(2, true), 0.6)
	inst := cnf.NewInstance(2, []cnf.Clause{{Literals: []cnf.Literal{cnf.Lit(1, false)}, Index: 0}}, weights, cnf.NewVarSet(1))
	inst.Weighted = true

	in := Input{Inst: inst, Apparent: numkernel.FromFloat64(numkernel.ModeRational, true, 1), Mode: numkernel.ModeRational, Exact: true}
	value := foldHiddenVars(in)
	assert.InDelta(t, 0.6, value.(numkernel.Rational).Float64(), 1e-9)
}

func TestFoldHiddenVarsMaxesForOuterHiddenVarUnderExistRandom(t *testing.T) {
	// Variable 2 is outer and hidden; existRandom=true makes
	// additive = isOuter(true) != existRandom(true) = false, so the fold
	// takes max(wPos, wNeg) rather than their sum.
	weights := cnf.NewWeightTable()
	weights.Set(cnf.Lit(2, false), 0.2)
	weights.Set(cnf.Lit(2, true), 0.9)
	inst := cnf.NewInstance(2, []cnf.Clause{{Literals: []cnf.Literal{cnf.Lit(1, false)}, Index: 0}}, weights, cnf.NewVarSet(1, 2))
	inst.Weighted = true
	inst.ExistRandom = true

	in := Input{Inst: inst, Apparent: numkernel.FromFloat64(numkernel.ModeRational, true, 1), Mode: numkernel.ModeRational, Exact: true, ExistRandom: true}
	value := foldHiddenVars(in)
	assert.InDelta(t, 0.9, value.(numkernel.Rational).Float64(), 1e-9)
}

func TestReplayMaximizerStackReconstructsAssignment(t *testing.T) {
	mgr := dd.NewManager(numkernel.ModeRational, true, 100, 0)
	// One entry: ddVar 0 with diff constant "true" (BoolDiff >= one), so the
	// replayed bit for ddVar 0 should end up true.
	one := mgr.One()
	stack := []evaluator.MaximizerEntry{{DdVar: 0, Diff: one}}

	in := Input{
		Mgr:           mgr,
		WinningStack:  stack,
		DdVarToCnfVar: []cnf.Variable{1},
	}
	lits := replayMaximizerStack(in)
	require.Len(t, lits, 1)
	assert.Equal(t, cnf.Variable(1), lits[0].Var)
	assert.False(t, lits[0].Negated)
}

func TestIsFiniteRejectsInfAndNaN(t *testing.T) {
	assert.True(t, IsFinite(1.5))
	assert.False(t, IsFinite(numkernel.Zero(numkernel.ModeLog, false).Log10()))
	assert.False(t, IsFinite(math.NaN()))
}

func TestVerdictAndCountTypeStrings(t *testing.T) {
	assert.Equal(t, "SATISFIABLE", Satisfiable.String())
	assert.Equal(t, "UNSATISFIABLE", Unsatisfiable.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, "mc", TypeMC.String())
	assert.Equal(t, "wmc", TypeWMC.String())
	assert.Equal(t, "pmc", TypePMC.String())
}
