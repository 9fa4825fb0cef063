package jointree

import (
	"strconv"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/wmcerr"
)

// state is the ingestion state machine's current mode.
type state int

const (
	stateIdle state = iota
	stateReadingTree
)

// Ingestor is the join-tree state machine. Feed it lines via ProcessLine;
// it returns a committed *Tree whenever a '=' separator successfully
// finalizes one, and the caller calls Finalize at EOF for any in-progress
// tree. It holds mutable cursor state across repeated calls, walking lines
// instead of an in-memory token slice.
type Ingestor struct {
	st state

	v, c, n int
	nodes   map[int]*Node
	built   int // count of nonterminals built so far this tree

	newestComplete *Tree
	plannerPID     int
	plannerSeconds float64
	pendingWidth   *int
}

// NewIngestor creates an empty ingestor in the Idle state.
func NewIngestor() *Ingestor {
	return &Ingestor{st: stateIdle}
}

// ProcessLine consumes one lexed line. It returns a non-nil *Tree only when
// the line is a '=' separator that successfully commits the in-progress
// tree.
func (ing *Ingestor) ProcessLine(line Line) (*Tree, error) {
	switch line.Kind {
	case LineBlank:
		return nil, nil
	case LineComment:
		ing.handleComment(line)
		return nil, nil
	case LineProblem:
		return nil, ing.handleProblem(line)
	case LineNonterminal:
		return nil, ing.handleNonterminal(line)
	case LineSeparator:
		return ing.commit(), nil
	default:
		return nil, wmcerr.New(wmcerr.InputError, "Ingestor.ProcessLine", "unrecognized line: "+line.Raw)
	}
}

func (ing *Ingestor) handleComment(line Line) {
	if len(line.Fields) < 2 {
		return
	}
	key := line.Fields[1]
	switch key {
	case "pid":
		if len(line.Fields) >= 3 {
			if pid, err := strconv.Atoi(line.Fields[2]); err == nil {
				ing.plannerPID = pid
			}
		}
	case "seconds":
		if len(line.Fields) >= 3 {
			if secs, err := strconv.ParseFloat(line.Fields[2], 64); err == nil {
				ing.plannerSeconds = secs
			}
		}
	case "joinTreeWidth":
		// width is recomputed by ComputeWidth if absent; an explicit
		// comment value is honored by Finalize's caller via Tree.Width
		// only once the tree in progress is known, so it's stashed here
		// and applied at commit time.
		if len(line.Fields) >= 3 {
			if w, err := strconv.Atoi(line.Fields[2]); err == nil {
				ing.pendingWidth = &w
			}
		}
	}
}

func (ing *Ingestor) handleProblem(line Line) error {
	if ing.st == stateReadingTree {
		return wmcerr.New(wmcerr.InputError, "Ingestor.handleProblem",
			"multiple 'p' lines without an intervening '=' separator")
	}
	if len(line.Fields) < 5 {
		return wmcerr.New(wmcerr.InputError, "Ingestor.handleProblem", "malformed problem line: "+line.Raw)
	}
	v, err1 := strconv.Atoi(line.Fields[2])
	c, err2 := strconv.Atoi(line.Fields[3])
	n, err3 := strconv.Atoi(line.Fields[4])
	if err1 != nil || err2 != nil || err3 != nil {
		return wmcerr.New(wmcerr.InputError, "Ingestor.handleProblem", "non-integer counts in problem line: "+line.Raw)
	}

	ing.st = stateReadingTree
	ing.v, ing.c, ing.n = v, c, n
	ing.nodes = make(map[int]*Node, n)
	ing.built = 0
	for i := 0; i < c; i++ {
		ing.nodes[i] = &Node{Kind: Terminal, Index: i, ClauseIndex: i}
	}
	return nil
}

func (ing *Ingestor) handleNonterminal(line Line) error {
	if ing.st != stateReadingTree {
		return wmcerr.New(wmcerr.InputError, "Ingestor.handleNonterminal", "nonterminal line before problem line: "+line.Raw)
	}

	fields := line.Fields
	idx1, err := strconv.Atoi(fields[0])
	if err != nil {
		return wmcerr.New(wmcerr.InputError, "Ingestor.handleNonterminal", "non-integer node index: "+line.Raw)
	}
	idx := idx1 - 1 // 1-indexed in the stream, 0-indexed internally

	if idx < ing.c || idx >= ing.n {
		return wmcerr.New(wmcerr.InputError, "Ingestor.handleNonterminal",
			"node index out of range [C, N): "+line.Raw)
	}
	if _, exists := ing.nodes[idx]; exists {
		return wmcerr.New(wmcerr.InputError, "Ingestor.handleNonterminal", "duplicate node index: "+line.Raw)
	}

	var children []int
	var proj []cnf.Variable
	i := 1
	for i < len(fields) && fields[i] != "e" {
		childIdx1, err := strconv.Atoi(fields[i])
		if err != nil {
			return wmcerr.New(wmcerr.InputError, "Ingestor.handleNonterminal", "non-integer child index: "+line.Raw)
		}
		childIdx := childIdx1 - 1
		if childIdx >= idx {
			return wmcerr.New(wmcerr.InputError, "Ingestor.handleNonterminal", "child index must be < parent index: "+line.Raw)
		}
		if _, ok := ing.nodes[childIdx]; !ok {
			return wmcerr.New(wmcerr.InputError, "Ingestor.handleNonterminal", "child index references an unbuilt node: "+line.Raw)
		}
		children = append(children, childIdx)
		i++
	}
	if i < len(fields) && fields[i] == "e" {
		i++
		for ; i < len(fields); i++ {
			v, err := strconv.Atoi(fields[i])
			if err != nil {
				return wmcerr.New(wmcerr.InputError, "Ingestor.handleNonterminal", "non-integer elimination var: "+line.Raw)
			}
			if v < 1 || v > ing.v {
				return wmcerr.New(wmcerr.InputError, "Ingestor.handleNonterminal", "elimination var out of range 1..V: "+line.Raw)
			}
			proj = append(proj, cnf.Variable(v))
		}
	}

	ing.nodes[idx] = &Node{Kind: Nonterminal, Index: idx, Children: children, Proj: proj}
	ing.built++
	return nil
}

// commit finalizes the in-progress tree on '='. If the nonterminal count
// doesn't match N-C, the tree is discarded with a warning (returned as a
// nil tree; caller logs the warning) and ingestion returns to Idle,
// preserving whatever tree was previously committed.
func (ing *Ingestor) commit() *Tree {
	defer func() {
		ing.st = stateIdle
		ing.pendingWidth = nil
	}()

	if ing.st != stateReadingTree {
		return nil
	}
	if ing.built != ing.n-ing.c {
		return nil // discarded: warning logged by caller
	}

	t := &Tree{
		V: ing.v, C: ing.c, N: ing.n,
		Nodes:           ing.nodes,
		PlannerDuration: ing.plannerSeconds,
		PlannerPID:      ing.plannerPID,
	}
	if ing.pendingWidth != nil {
		t.Width = *ing.pendingWidth
	} else {
		t.Width = -1 // sentinel: caller computes via ComputeWidth once the CNF is known
	}
	ing.newestComplete = t
	return t
}

// Finalize is called at EOF for any tree still being read: EOF finalizes
// the in-progress tree, if any, behaving like an implicit '=' and
// returning nil if no complete tree resulted.
func (ing *Ingestor) Finalize() *Tree {
	if ing.st != stateReadingTree {
		return nil
	}
	return ing.commit()
}

// NewestComplete returns the most recently committed tree, or nil if none
// has completed yet.
func (ing *Ingestor) NewestComplete() *Tree {
	return ing.newestComplete
}

// PlannerPID returns the planner process id recorded from a 'c pid' comment.
func (ing *Ingestor) PlannerPID() int { return ing.plannerPID }
