// Package finalizer turns the scheduler's apparent solution into the
// engine's reported verdict: hidden-variable folding, satisfiability,
// the typed numeric estimate, and (when maximizing) the reconstructed
// assignment.
package finalizer

import (
	"math"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/dd"
	"github.com/xDarkicex/wmc/internal/evaluator"
	"github.com/xDarkicex/wmc/internal/numkernel"
)

// Verdict is the satisfiability classification of the finalized result.
type Verdict int

const (
	Unsatisfiable Verdict = iota
	Satisfiable
	Unknown
)

func (v Verdict) String() string {
	switch v {
	case Unsatisfiable:
		return "UNSATISFIABLE"
	case Satisfiable:
		return "SATISFIABLE"
	default:
		return "UNKNOWN"
	}
}

// CountType is the type tag reported alongside the count.
type CountType int

const (
	TypeMC CountType = iota
	TypeWMC
	TypePMC
)

func (t CountType) String() string {
	switch t {
	case TypeWMC:
		return "wmc"
	case TypePMC:
		return "pmc"
	default:
		return "mc"
	}
}

// Result is everything the output writer needs.
type Result struct {
	Verdict    Verdict
	Type       CountType
	Log10      float64
	Exact      numkernel.Number
	Assignment []cnf.Literal // present only when maximizing
}

// Input bundles everything Finalize needs from the run.
type Input struct {
	Inst          *cnf.Instance
	Apparent      numkernel.Number
	Mode          numkernel.Mode
	Exact         bool
	ExistRandom   bool
	Maximizing    bool
	Mgr           *dd.Mgr // only used to replay the maximizer stack
	WinningStack  []evaluator.MaximizerEntry
	DdVarToCnfVar []cnf.Variable
}

// Finalize folds hidden variables into in.Apparent, classifies
// satisfiability, and (if maximizing) replays the maximizer stack.
func Finalize(in Input) Result {
	value := foldHiddenVars(in)

	verdict := Satisfiable
	if in.Inst.HasEmptyClause() {
		verdict = Unsatisfiable
	} else if !in.Inst.Weighted && value.IsZero() {
		verdict = Unsatisfiable
	}

	countType := TypeMC
	switch {
	case in.Inst.Weighted:
		countType = TypeWMC
	case in.Inst.Projected:
		countType = TypePMC
	}

	result := Result{
		Verdict: verdict,
		Type:    countType,
		Log10:   value.Log10(),
		Exact:   value,
	}

	if in.Maximizing {
		result.Assignment = replayMaximizerStack(in)
	}
	return result
}

// foldHiddenVars folds in every variable in 1..V that never appears in any
// clause, by the additive (sum) or max rule, using the same
// outer-XOR-existRandom polarity rule the evaluator's own projection uses
// for apparent variables — "opposite polarity" for outer hidden variables
// is exactly what that XOR already encodes once v is known to be outer.
func foldHiddenVars(in Input) numkernel.Number {
	value := in.Apparent
	for _, v := range in.Inst.HiddenVars() {
		isOuter := in.Inst.OuterVars.Contains(v)
		additive := isOuter != in.ExistRandom

		wPos := numkernel.FromFloat64(in.Mode, in.Exact, in.Inst.Weights.Positive(v))
		wNeg := numkernel.FromFloat64(in.Mode, in.Exact, in.Inst.Weights.Negative(v))

		var fold numkernel.Number
		if additive {
			fold = wPos.Add(wNeg)
		} else {
			fold = wPos.Max(wNeg)
		}
		value = value.Mul(fold)
	}
	return value
}

// replayMaximizerStack walks in.WinningStack in reverse, maintaining a
// ddVar->{0,1} vector initialized to all-false; for each popped (x, g), if
// g evaluated against the vector so far is true, the vector's x entry is
// set true. The result is translated through the
// ddVar->cnfVar permutation into signed literals.
func replayMaximizerStack(in Input) []cnf.Literal {
	assignment := make(map[dd.DdVar]bool, len(in.WinningStack))
	for i := len(in.WinningStack) - 1; i >= 0; i-- {
		entry := in.WinningStack[i]
		if in.Mgr.EvalAssignment(entry.Diff, assignment) {
			assignment[entry.DdVar] = true
		} else {
			assignment[entry.DdVar] = false
		}
	}

	out := make([]cnf.Literal, 0, len(assignment))
	for ddVar, b := range assignment {
		if int(ddVar) < 0 || int(ddVar) >= len(in.DdVarToCnfVar) {
			continue
		}
		out = append(out, cnf.Literal{Var: in.DdVarToCnfVar[ddVar], Negated: !b})
	}
	sortLiterals(out)
	return out
}

func sortLiterals(lits []cnf.Literal) {
	for i := 1; i < len(lits); i++ {
		for j := i; j > 0 && int(lits[j].Var) < int(lits[j-1].Var); j-- {
			lits[j], lits[j-1] = lits[j-1], lits[j]
		}
	}
}

// IsFinite reports whether a log10 value is representable on stdout, and
// guards against emitting "-Inf" verbatim for an UNSAT log estimate.
func IsFinite(log10 float64) bool {
	return !math.IsInf(log10, 0) && !math.IsNaN(log10)
}
