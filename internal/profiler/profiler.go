// Package profiler accumulates per-cnf-variable timing and diagram-size
// samples from the evaluator. It is only meaningful with
// threadCount=1, since its accumulator is single-writer.
package profiler

import (
	"sort"
	"time"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/jointree"
)

// Stats holds one variable's accumulated duration and peak diagram size.
type Stats struct {
	Duration time.Duration
	MaxSize  int
}

// Profiler keys accumulated Stats by cnf.Variable.
type Profiler struct {
	tree  *jointree.Tree
	inst  *cnf.Instance
	stats map[cnf.Variable]*Stats
}

// New builds a Profiler bound to tree, used to look up each visited node's
// preProjectionVars.
func New(tree *jointree.Tree, inst *cnf.Instance) *Profiler {
	return &Profiler{tree: tree, inst: inst, stats: make(map[cnf.Variable]*Stats)}
}

// Record is the evaluator.ProfileSink this Profiler exposes: for each
// variable in node's preProjectionVars, duration accumulates additively and
// ddSize tracks a running maximum.
func (p *Profiler) Record(node *jointree.Node, duration time.Duration, ddSize int) {
	vars := p.tree.PreProjectionVars(node, p.inst)
	for v := range vars {
		s, ok := p.stats[v]
		if !ok {
			s = &Stats{}
			p.stats[v] = s
		}
		s.Duration += duration
		if ddSize > s.MaxSize {
			s.MaxSize = ddSize
		}
	}
}

// Row is one reportable line: a variable and its accumulated stats, printed
// by cmd/wmc as a "c profile" row when verboseProfiling is set.
type Row struct {
	Var   cnf.Variable
	Stats Stats
}

// Rows returns all recorded variables in ascending order.
func (p *Profiler) Rows() []Row {
	out := make([]Row, 0, len(p.stats))
	for v, s := range p.stats {
		out = append(out, Row{Var: v, Stats: *s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Var < out[j].Var })
	return out
}
