// Package output renders the engine's result as a key/value row protocol:
// a preamble comment block, the final solution block, and (when
// maximizing) the assignment row.
package output

import (
	"fmt"
	"io"
	"math"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/finalizer"
	"github.com/xDarkicex/wmc/internal/jointree"
)

// WritePreamble emits the "c ..." comment block describing the parsed
// instance and (if present) the ingested join tree.
func WritePreamble(w io.Writer, inst *cnf.Instance, tree *jointree.Tree) {
	fmt.Fprintf(w, "c cnf variables %d clauses %d\n", inst.V, len(inst.Clauses))
	fmt.Fprintf(w, "c outer %d apparent %d hidden %d\n",
		len(inst.OuterVars), len(inst.ApparentVars), len(inst.HiddenVars()))
	if tree != nil {
		fmt.Fprintf(w, "c joinTreeWidth %d\n", tree.Width)
		if tree.PlannerPID > 0 {
			fmt.Fprintf(w, "c plannerPid %d\n", tree.PlannerPID)
		}
		if tree.PlannerDuration > 0 {
			fmt.Fprintf(w, "c plannerSeconds %g\n", tree.PlannerDuration)
		}
	}
}

// WriteResult emits the final solution block: satisfiability, type tag,
// log10 estimate, exact form, and (when maximizing) the v row.
func WriteResult(w io.Writer, res finalizer.Result, exactArbIsDouble bool) {
	fmt.Fprintf(w, "s %s\n", res.Verdict)
	fmt.Fprintf(w, "s type %s\n", res.Type)

	if finalizer.IsFinite(res.Log10) {
		fmt.Fprintf(w, "s log10-estimate %g\n", res.Log10)
	} else if math.IsInf(res.Log10, -1) {
		fmt.Fprintf(w, "s log10-estimate -inf\n")
	}

	if exactArbIsDouble {
		fmt.Fprintf(w, "s exact double prec-sci %g\n", exp10(res.Log10))
	} else if res.Type == finalizer.TypeWMC {
		fmt.Fprintf(w, "s exact arb float %g\n", res.Exact.Float64())
		fmt.Fprintf(w, "s exact arb frac %s\n", res.Exact.String())
	} else {
		fmt.Fprintf(w, "s exact arb int %s\n", res.Exact.String())
	}

	if res.Assignment != nil {
		fmt.Fprint(w, "v")
		for _, lit := range res.Assignment {
			fmt.Fprintf(w, " %+d", lit.Signed())
		}
		fmt.Fprint(w, " 0\n")
	}
}

func exp10(log10 float64) float64 {
	if math.IsInf(log10, -1) {
		return 0
	}
	return math.Pow(10, log10)
}
