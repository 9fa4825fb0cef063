// Package scheduler partitions the outer-variable space into slice
// assignments and drives one independent evaluation per slice across
// bounded worker threads, combining partial solutions under a single
// mutex. The worker-pool shape is adapted from
// gitrdm-gokando's internal/parallel.WorkerPool: bounded goroutines with a
// sync.WaitGroup join, but fixed-size buckets rather than dynamic scaling,
// since the assignment space being partitioned here is known and finite up
// front rather than an open-ended task queue.
package scheduler

import (
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/dd"
	"github.com/xDarkicex/wmc/internal/evaluator"
	"github.com/xDarkicex/wmc/internal/jointree"
	"github.com/xDarkicex/wmc/internal/numkernel"
)

// Config is the subset of RunConfig the scheduler needs.
type Config struct {
	ThreadCount         int
	SliceCountPerThread int
	MaxMemMB            int
	MemSensitivityMB    int
	Mode                numkernel.Mode
	Exact               bool
	ExistRandom         bool
	Maximizing          bool
	Priority            evaluator.JoinPriority
}

// SliceResult is the outcome of Run across all workers: the combined total
// of every slice's partial solution and, when maximizing, the maximizer
// stack belonging to the single slice that produced the overall maximum.
type SliceResult struct {
	Total         numkernel.Number
	WinningStack  []evaluator.MaximizerEntry
	WinningDdVars []cnf.Variable // DdVarToCnfVar snapshot paired with WinningStack's manager
}

// Run partitions outerVarOrder's variables into slices, evaluates each
// slice independently against tree/inst, and returns the combined total.
func Run(
	inst *cnf.Instance,
	tree *jointree.Tree,
	cnfVarToDdVar map[cnf.Variable]dd.DdVar,
	ddVarToCnfVar []cnf.Variable,
	outerVarOrder []cnf.Variable,
	cfg Config,
	log *logrus.Logger,
) SliceResult {
	T := cfg.ThreadCount
	if T <= 0 {
		T = 1
	}
	buckets := Partition(outerVarOrder, T, cfg.SliceCountPerThread)

	var mu sync.Mutex
	total := numkernel.Zero(cfg.Mode, cfg.Exact)
	var winningStack []evaluator.MaximizerEntry
	bestLog := math.Inf(-1)

	runBucket := func(threadIdx int, assignments []map[cnf.Variable]bool) {
		mgr := dd.NewManager(cfg.Mode, cfg.Exact, cfg.MaxMemMB/T, threadIdx)
		eval := &evaluator.Evaluator{
			Mgr:           mgr,
			Inst:          inst,
			Tree:          tree,
			CnfVarToDdVar: cnfVarToDdVar,
			DdVarToCnfVar: ddVarToCnfVar,
			ExistRandom:   cfg.ExistRandom,
			Maximizing:    cfg.Maximizing,
			Priority:      cfg.Priority,
		}

		for _, assignment := range assignments {
			eval.MaximizerStack = nil
			d := eval.SolveSubtree(tree.Root(), assignment)
			partial, ok := mgr.ExtractConst(d)
			if !ok {
				continue // invariant violation guarded upstream; skip defensively
			}

			mu.Lock()
			total = total.Add(partial)
			if cfg.Maximizing && partial.Log10() > bestLog {
				bestLog = partial.Log10()
				winningStack = append([]evaluator.MaximizerEntry(nil), eval.MaximizerStack...)
			}
			mu.Unlock()

			if estMB := mgr.EstimatedMB(); estMB >= float64(cfg.MemSensitivityMB) && log != nil {
				log.WithField("thread", threadIdx).WithField("nodes", mgr.TableSize()).
					WithField("estimatedMB", estMB).
					Warn("diagram manager crossed memory-sensitivity threshold")
			}
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < T-1; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			runBucket(idx, buckets[idx])
		}(i)
	}
	// The main thread drives the last bucket inline.
	runBucket(T-1, buckets[T-1])
	wg.Wait()

	return SliceResult{Total: total, WinningStack: winningStack, WinningDdVars: ddVarToCnfVar}
}

// Partition enumerates all 2^S assignments over the first S variables of
// outerVarOrder, where S = min(|outerVars|, ceil(log2(T*K))), and
// distributes them into T buckets sized ceil(remainingSlices/remainingThreads)
// so thread 0 receives the largest batch.
func Partition(outerVarOrder []cnf.Variable, T, K int) [][]map[cnf.Variable]bool {
	if K <= 0 {
		K = 1
	}
	s := sliceVarCount(len(outerVarOrder), T, K)
	sliceVars := outerVarOrder[:s]

	assignments := enumerateAssignments(sliceVars)
	return bucketize(assignments, T)
}

func sliceVarCount(outerCount, T, K int) int {
	if outerCount == 0 {
		return 0
	}
	want := int(math.Ceil(math.Log2(float64(T * K))))
	if want < 0 {
		want = 0
	}
	if want > outerCount {
		return outerCount
	}
	return want
}

// enumerateAssignments returns all 2^len(vars) total assignments to vars.
// With vars empty this returns a single empty assignment, guaranteeing at
// least one slice always runs).
func enumerateAssignments(vars []cnf.Variable) []map[cnf.Variable]bool {
	n := len(vars)
	total := 1 << uint(n)
	out := make([]map[cnf.Variable]bool, total)
	for mask := 0; mask < total; mask++ {
		a := make(map[cnf.Variable]bool, n)
		for i, v := range vars {
			a[v] = mask&(1<<uint(i)) != 0
		}
		out[mask] = a
	}
	return out
}

// bucketize splits assignments into T buckets with sizes
// ceil(remaining/remainingThreads), so earlier buckets are never smaller
// than later ones.
func bucketize(assignments []map[cnf.Variable]bool, T int) [][]map[cnf.Variable]bool {
	buckets := make([][]map[cnf.Variable]bool, T)
	remaining := len(assignments)
	offset := 0
	for i := 0; i < T; i++ {
		remainingThreads := T - i
		size := int(math.Ceil(float64(remaining) / float64(remainingThreads)))
		buckets[i] = assignments[offset : offset+size]
		offset += size
		remaining -= size
	}
	return buckets
}
