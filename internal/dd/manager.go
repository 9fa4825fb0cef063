package dd

import (
	"github.com/xDarkicex/wmc/internal/numkernel"
)

// Mgr owns the unique table, apply cache, and memory budget for one worker
// slice. Exactly one Mgr is used per thread per
// run; two diagrams may only be combined if they share a Mgr.
type Mgr struct {
	mode      numkernel.Mode
	exact     bool // multiplePrecision sub-mode, meaningless under ModeLog
	memBudget int  // megabytes, informational only; never enforced

	threadIndex int

	terminalCache map[string]*Node
	uniqueTable   map[uniqueKey]*Node
	applyCache    map[applyKey]*Node
	nodeCount     int

	pool *pool
}

type applyOp int

const (
	opProduct applyOp = iota
	opSum
	opMax
)

type applyKey struct {
	op     applyOp
	a, b   *Node
}

// NewManager constructs a scoped Mgr. memoryBudgetMB is in megabytes, split
// equally per worker by the scheduler before this call.
func NewManager(mode numkernel.Mode, exact bool, memoryBudgetMB, threadIndex int) *Mgr {
	return &Mgr{
		mode:          mode,
		exact:         exact,
		memBudget:     memoryBudgetMB,
		threadIndex:   threadIndex,
		terminalCache: make(map[string]*Node),
		uniqueTable:   make(map[uniqueKey]*Node),
		applyCache:    make(map[applyKey]*Node),
		pool:          newPool(),
	}
}

// ChildList borrows a zero-length []Dd scratch slice from the manager's
// pool, sized for at least capacity elements.
func (m *Mgr) ChildList(capacity int) []Dd { return m.pool.GetChildList(capacity) }

// ReleaseChildList returns a slice borrowed from ChildList to the pool.
func (m *Mgr) ReleaseChildList(slice []Dd) { m.pool.PutChildList(slice) }

// Mode reports the active numeric mode.
func (m *Mgr) Mode() numkernel.Mode { return m.mode }

// Exact reports whether rational mode keeps exact big.Rat precision.
func (m *Mgr) Exact() bool { return m.exact }

// Const builds a constant ADD with terminal n. In log mode the caller is
// expected to have already lifted n through numkernel.FromFloat64 with
// ModeLog so the terminal stores log10(n).
func (m *Mgr) Const(n numkernel.Number) Dd {
	return Dd{mgr: m, node: m.newTerminal(n)}
}

// Zero and One are the additive/multiplicative identities of the active mode.
func (m *Mgr) Zero() Dd { return m.Const(numkernel.Zero(m.mode, m.exact)) }
func (m *Mgr) One() Dd  { return m.Const(numkernel.One(m.mode, m.exact)) }

// VarLiteral builds an ADD with terminal One on the chosen polarity, Zero
// otherwise.
func (m *Mgr) VarLiteral(v DdVar, positive bool) Dd {
	one := m.newTerminal(numkernel.One(m.mode, m.exact))
	zero := m.newTerminal(numkernel.Zero(m.mode, m.exact))
	if positive {
		return Dd{mgr: m, node: m.newInternal(v, zero, one)}
	}
	return Dd{mgr: m, node: m.newInternal(v, one, zero)}
}

func (m *Mgr) checkSameMgr(other Dd) {
	if other.mgr != m {
		panic("dd: diagrams combined across different managers")
	}
}

// topVar returns the smaller (higher-priority) variable of a,b's roots,
// using the convention that lower DdVar values sit nearer the root.
func topVar(a, b *Node) DdVar {
	switch {
	case a.terminal && b.terminal:
		return 0
	case a.terminal:
		return b.v
	case b.terminal:
		return a.v
	case a.v <= b.v:
		return a.v
	default:
		return b.v
	}
}

func cofactor(n *Node, v DdVar, branch bool) *Node {
	if n.terminal || n.v != v {
		return n
	}
	if branch {
		return n.hi
	}
	return n.lo
}

func (m *Mgr) apply(op applyOp, a, b *Node) *Node {
	if a.terminal && b.terminal {
		switch op {
		case opProduct:
			return m.newTerminal(a.value.Mul(b.value))
		case opSum:
			return m.newTerminal(a.value.Add(b.value))
		default:
			return m.newTerminal(a.value.Max(b.value))
		}
	}
	key := applyKey{op: op, a: a, b: b}
	if cached, ok := m.applyCache[key]; ok {
		return cached
	}
	v := topVar(a, b)
	lo := m.apply(op, cofactor(a, v, false), cofactor(b, v, false))
	hi := m.apply(op, cofactor(a, v, true), cofactor(b, v, true))
	result := m.newInternal(v, lo, hi)
	m.applyCache[key] = result
	return result
}

// Product is ADD apply with x; pointwise addition of terminals in log mode.
func (m *Mgr) Product(a, b Dd) Dd {
	m.checkSameMgr(b)
	return Dd{mgr: m, node: m.apply(opProduct, a.node, b.node)}
}

// Sum is ADD apply with +; pointwise logSumExp10 of terminals in log mode.
func (m *Mgr) Sum(a, b Dd) Dd {
	m.checkSameMgr(b)
	return Dd{mgr: m, node: m.apply(opSum, a.node, b.node)}
}

// Max is ADD apply with max.
func (m *Mgr) Max(a, b Dd) Dd {
	m.checkSameMgr(b)
	return Dd{mgr: m, node: m.apply(opMax, a.node, b.node)}
}

// Compose substitutes a constant one/zero for v and re-reduces.
func (m *Mgr) Compose(d Dd, v DdVar, branch bool) Dd {
	return Dd{mgr: m, node: m.compose(d.node, v, branch)}
}

func (m *Mgr) compose(n *Node, v DdVar, branch bool) *Node {
	if n.terminal || n.v > v {
		return n
	}
	if n.v == v {
		if branch {
			return n.hi
		}
		return n.lo
	}
	lo := m.compose(n.lo, v, branch)
	hi := m.compose(n.hi, v, branch)
	return m.newInternal(n.v, lo, hi)
}

// Support returns the set of DdVars on which d is not constant.
func (m *Mgr) Support(d Dd) map[DdVar]struct{} {
	out := make(map[DdVar]struct{})
	seen := make(map[*Node]struct{})
	var walk func(*Node)
	walk = func(n *Node) {
		if n.terminal {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		out[n.v] = struct{}{}
		walk(n.lo)
		walk(n.hi)
	}
	walk(d.node)
	return out
}

// NodeCount returns the number of reduced nodes reachable from d.
func (m *Mgr) NodeCount(d Dd) int {
	seen := make(map[*Node]struct{})
	var walk func(*Node)
	walk = func(n *Node) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		if !n.terminal {
			walk(n.lo)
			walk(n.hi)
		}
	}
	walk(d.node)
	return len(seen)
}

// TableSize returns the manager's total unique+terminal node count.
func (m *Mgr) TableSize() int {
	return len(m.uniqueTable) + len(m.terminalCache)
}

// nodeByteEstimate approximates one Node's resident footprint: the struct
// itself (bool + Number interface header + DdVar + two *Node, rounded up
// for alignment) plus its pro-rated share of the owning map's bucket
// overhead. Used only to turn a node count into a comparable MB figure for
// the memory-sensitivity threshold, not for exact accounting.
const nodeByteEstimate = 64

// EstimatedMB converts TableSize into a rough resident-memory estimate in
// megabytes, used by the scheduler to decide when to log a
// per-thread memory-sensitivity row.
func (m *Mgr) EstimatedMB() float64 {
	return float64(m.TableSize()*nodeByteEstimate) / (1024 * 1024)
}

// ExtractConst returns the terminal value of d, valid only when d is a
// single terminal — the root result of a fully-projected subtree.
func (m *Mgr) ExtractConst(d Dd) (numkernel.Number, bool) {
	if !d.node.terminal {
		return nil, false
	}
	return d.node.value, true
}

// BoolDiff computes (self - other) >= 0 as a {0,1}-ADD, used only when
// maximizing for argmax reconstruction.
func (m *Mgr) BoolDiff(self, other Dd) Dd {
	m.checkSameMgr(other)
	one := m.newTerminal(numkernel.One(m.mode, m.exact))
	zero := m.newTerminal(numkernel.Zero(m.mode, m.exact))
	var walk func(a, b *Node) *Node
	walk = func(a, b *Node) *Node {
		if a.terminal && b.terminal {
			if geq(a.value, b.value) {
				return one
			}
			return zero
		}
		v := topVar(a, b)
		lo := walk(cofactor(a, v, false), cofactor(b, v, false))
		hi := walk(cofactor(a, v, true), cofactor(b, v, true))
		return m.newInternal(v, lo, hi)
	}
	return Dd{mgr: m, node: walk(self.node, other.node)}
}

func geq(a, b numkernel.Number) bool {
	return a.Cmp(b) >= 0
}

// EvalAssignment evaluates a {0,1}-ADD under a total ddVar->{0,1}
// assignment, used by the finalizer to replay the maximizer stack.
func (m *Mgr) EvalAssignment(d Dd, assignment map[DdVar]bool) bool {
	n := d.node
	for !n.terminal {
		b, ok := assignment[n.v]
		if !ok {
			b = false
		}
		if b {
			n = n.hi
		} else {
			n = n.lo
		}
	}
	return !n.value.IsZero()
}
