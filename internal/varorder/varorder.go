// Package varorder implements the ddVarOrder/sliceVarOrder heuristics.
// randomSeed seeds only the RandomOrder permutation; the appearance and
// declaration orders are total and deterministic, so no random
// tie-breaking is applied to them. A negative heuristic id selects the
// inverse of the positive one's order, matching the CLI table's
// "negative = inverse" convention.
package varorder

import (
	"math/rand"

	"github.com/xDarkicex/wmc/internal/cnf"
)

// Heuristic ids, matching the ddVarOrder/sliceVarOrder CLI knob.
const (
	AppearanceOrder  = 1 // first-appearance order in the clause list
	DeclarationOrder = 2 // 1..V declaration order
	RandomOrder      = 3 // seeded random permutation
)

// Order computes a variable ordering for inst under the given signed
// heuristic id (negative = inverse) and seed.
func Order(inst *cnf.Instance, heuristicID int, seed int64) []cnf.Variable {
	inverse := heuristicID < 0
	id := heuristicID
	if inverse {
		id = -id
	}

	var order []cnf.Variable
	switch id {
	case AppearanceOrder:
		order = appearanceOrder(inst)
	case RandomOrder:
		order = randomOrder(inst, seed)
	default:
		order = declarationOrder(inst)
	}

	if inverse {
		reverse(order)
	}
	return order
}

func declarationOrder(inst *cnf.Instance) []cnf.Variable {
	out := make([]cnf.Variable, inst.V)
	for i := 0; i < inst.V; i++ {
		out[i] = cnf.Variable(i + 1)
	}
	return out
}

func appearanceOrder(inst *cnf.Instance) []cnf.Variable {
	seen := make(map[cnf.Variable]bool, inst.V)
	out := make([]cnf.Variable, 0, inst.V)
	for _, c := range inst.Clauses {
		for _, l := range c.Literals {
			if !seen[l.Var] {
				seen[l.Var] = true
				out = append(out, l.Var)
			}
		}
	}
	for v := 1; v <= inst.V; v++ {
		if !seen[cnf.Variable(v)] {
			out = append(out, cnf.Variable(v))
		}
	}
	return out
}

// randomOrder seeds its own *rand.Rand from randomSeed so the ordering is
// reproducible across runs with the same seed and threadCount=1.
func randomOrder(inst *cnf.Instance, seed int64) []cnf.Variable {
	out := declarationOrder(inst)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func reverse(vs []cnf.Variable) {
	for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
		vs[i], vs[j] = vs[j], vs[i]
	}
}

// RankOuterVars orders a set of outer variables by the sliceVarOrder
// heuristic, used by the scheduler to pick which S outer variables to
// enumerate first.
func RankOuterVars(inst *cnf.Instance, heuristicID int, seed int64) []cnf.Variable {
	full := Order(inst, heuristicID, seed)
	out := make([]cnf.Variable, 0, len(inst.OuterVars))
	for _, v := range full {
		if inst.OuterVars.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}
