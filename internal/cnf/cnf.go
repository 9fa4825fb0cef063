// Package cnf defines the data model of a weighted CNF instance: variables,
// literals, clauses, the weight table, and the outer/apparent variable
// partitions consumed by the evaluator. It carries no parsing logic of its
// own — building a CNF from a DIMACS-style stream is the external parser's
// contract; this package only
// defines the shapes that parser populates.
package cnf

import "fmt"

// Variable is a positive integer identifier from 1..V.
type Variable int

// Literal is a signed variable: Negated selects the negative polarity.
// Variables are dense integers so they can index directly into weight and
// assignment arrays.
type Literal struct {
	Var     Variable
	Negated bool
}

// Lit builds a positive or negative literal for v.
func Lit(v Variable, negated bool) Literal {
	return Literal{Var: v, Negated: negated}
}

// Negate returns the complementary literal.
func (l Literal) Negate() Literal {
	return Literal{Var: l.Var, Negated: !l.Negated}
}

// Signed renders the literal as a DIMACS-style signed integer.
func (l Literal) Signed() int {
	if l.Negated {
		return -int(l.Var)
	}
	return int(l.Var)
}

func (l Literal) String() string {
	if l.Negated {
		return fmt.Sprintf("-%d", l.Var)
	}
	return fmt.Sprintf("%d", l.Var)
}

// Clause is an unordered set of literals. An empty clause is legal and
// denotes unsatisfiability; the evaluator never special-cases it, the
// finalizer does.
type Clause struct {
	Literals []Literal
	Index    int // position in CNF.Clauses, used as the terminal node's clause index
}

// IsEmpty reports whether the clause has no literals (denotes UNSAT).
func (c *Clause) IsEmpty() bool {
	return len(c.Literals) == 0
}

// Contains reports whether the clause mentions v in either polarity.
func (c *Clause) Contains(v Variable) bool {
	for _, l := range c.Literals {
		if l.Var == v {
			return true
		}
	}
	return false
}

func (c *Clause) String() string {
	if c.IsEmpty() {
		return "()"
	}
	s := "("
	for i, l := range c.Literals {
		if i > 0 {
			s += " "
		}
		s += l.String()
	}
	return s + ")"
}

// WeightTable maps each literal to a non-negative weight. Looked up by
// (variable, polarity) rather than the signed literal struct so callers
// can query w+(v) and w-(v) independently, matching the evaluator's
// projectOut computation.
type WeightTable struct {
	pos map[Variable]float64
	neg map[Variable]float64
}

// NewWeightTable creates an empty table; unset literals default to weight 1,
// the plain unweighted-counting convention.
func NewWeightTable() *WeightTable {
	return &WeightTable{pos: make(map[Variable]float64), neg: make(map[Variable]float64)}
}

// Set assigns the weight of the given literal's polarity for its variable.
func (w *WeightTable) Set(l Literal, weight float64) {
	if l.Negated {
		w.neg[l.Var] = weight
	} else {
		w.pos[l.Var] = weight
	}
}

// Positive returns w+(v), defaulting to 1 if unset.
func (w *WeightTable) Positive(v Variable) float64 {
	if val, ok := w.pos[v]; ok {
		return val
	}
	return 1
}

// Negative returns w-(v), defaulting to 1 if unset.
func (w *WeightTable) Negative(v Variable) float64 {
	if val, ok := w.neg[v]; ok {
		return val
	}
	return 1
}

// Of returns the weight of a literal directly.
func (w *WeightTable) Of(l Literal) float64 {
	if l.Negated {
		return w.Negative(l.Var)
	}
	return w.Positive(l.Var)
}

// VarSet is a small set of variables, used for outer/apparent/projection
// sets throughout the instance's data model.
type VarSet map[Variable]struct{}

// NewVarSet builds a VarSet from the given variables.
func NewVarSet(vars ...Variable) VarSet {
	s := make(VarSet, len(vars))
	for _, v := range vars {
		s[v] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s VarSet) Contains(v Variable) bool {
	_, ok := s[v]
	return ok
}

// Add inserts v into the set.
func (s VarSet) Add(v Variable) { s[v] = struct{}{} }

// Slice returns the set's members in ascending order.
func (s VarSet) Slice() []Variable {
	out := make([]Variable, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	// simple insertion sort; sets here are small (variable counts, not data rows)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Instance is a fully parsed weighted CNF instance.
type Instance struct {
	V       int // declared variable count
	Clauses []Clause
	Weights *WeightTable

	OuterVars    VarSet
	ApparentVars VarSet

	Weighted          bool
	Projected         bool
	ExistRandom       bool
	Maximizing        bool
	LogCounting       bool
	MultiplePrecision bool
}

// NewInstance builds an Instance, always deriving ApparentVars from the
// clauses.
func NewInstance(v int, clauses []Clause, weights *WeightTable, outerVars VarSet) *Instance {
	inst := &Instance{
		V:         v,
		Clauses:   clauses,
		Weights:   weights,
		OuterVars: outerVars,
	}
	if inst.OuterVars == nil {
		inst.OuterVars = NewVarSet()
	}
	inst.ApparentVars = inst.deriveApparentVars()
	return inst
}

func (inst *Instance) deriveApparentVars() VarSet {
	s := NewVarSet()
	for _, c := range inst.Clauses {
		for _, l := range c.Literals {
			s.Add(l.Var)
		}
	}
	return s
}

// HiddenVars returns the variables in 1..V that never occur in a clause.
func (inst *Instance) HiddenVars() []Variable {
	var out []Variable
	for v := 1; v <= inst.V; v++ {
		if !inst.ApparentVars.Contains(Variable(v)) {
			out = append(out, Variable(v))
		}
	}
	return out
}

// HasEmptyClause reports whether the formula contains the empty clause,
// which short-circuits the finalizer to UNSAT.
func (inst *Instance) HasEmptyClause() bool {
	for _, c := range inst.Clauses {
		if c.IsEmpty() {
			return true
		}
	}
	return false
}
