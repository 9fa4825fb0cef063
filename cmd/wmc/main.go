// Command wmc evaluates a precomputed join tree against a weighted CNF
// instance, reporting a weighted model count (or existential-random
// stochastic value) and, optionally, an argmax assignment.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/xDarkicex/wmc/internal/cnf"
	"github.com/xDarkicex/wmc/internal/cnfparse"
	"github.com/xDarkicex/wmc/internal/config"
	"github.com/xDarkicex/wmc/internal/dd"
	"github.com/xDarkicex/wmc/internal/finalizer"
	"github.com/xDarkicex/wmc/internal/jointree"
	"github.com/xDarkicex/wmc/internal/output"
	"github.com/xDarkicex/wmc/internal/profiler"
	"github.com/xDarkicex/wmc/internal/scheduler"
	"github.com/xDarkicex/wmc/internal/varorder"
	"github.com/xDarkicex/wmc/internal/wmcerr"
)

func main() {
	root := &cobra.Command{
		Use:   "wmc",
		Short: "Weighted model counter over a precomputed join tree",
		RunE:  run,
	}
	config.BindFlags(root.Flags())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "c error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	log := config.NewLogger(cfg.VerboseSolving)

	cnfFile, err := os.Open(cfg.CnfPath)
	if err != nil {
		return wmcerr.Wrap(wmcerr.InputError, "main.run", "failed to open cnf file", err)
	}
	defer cnfFile.Close()

	inst, err := cnfparse.Parse(cnfFile,
		cfg.WeightedCounting, cfg.ProjectedCounting, cfg.ExistRandom,
		cfg.MaximizingAssignment, cfg.LogCounting, cfg.MultiplePrecision)
	if err != nil {
		return err
	}

	tree, err := jointree.Ingest(os.Stdin, inst, cfg.PlannerWait, log)
	if err != nil {
		return err
	}

	threadCount := cfg.ThreadCount
	if threadCount <= 0 {
		threadCount = runtime.NumCPU()
	}

	ddVarToCnfVar := varorder.Order(inst, cfg.DdVarOrder, cfg.RandomSeed)
	cnfVarToDdVar := make(map[cnf.Variable]dd.DdVar, len(ddVarToCnfVar))
	for i, v := range ddVarToCnfVar {
		cnfVarToDdVar[v] = dd.DdVar(i)
	}
	sliceOrder := varorder.RankOuterVars(inst, cfg.SliceVarOrder, cfg.RandomSeed)

	if cfg.VerboseCnf || cfg.VerboseJoinTree {
		output.WritePreamble(os.Stdout, inst, tree)
	}

	var prof *profiler.Profiler
	if cfg.VerboseProfiling && threadCount == 1 {
		prof = profiler.New(tree, inst)
	}

	schedCfg := scheduler.Config{
		ThreadCount:         threadCount,
		SliceCountPerThread: cfg.ThreadSliceCount,
		MaxMemMB:            cfg.MaxMem,
		MemSensitivityMB:    cfg.MemSensitivity,
		Mode:                cfg.Mode(),
		Exact:               cfg.MultiplePrecision,
		ExistRandom:         cfg.ExistRandom,
		Maximizing:          cfg.MaximizingAssignment,
		Priority:            cfg.JoinPriority,
	}
	if prof != nil {
		// profiling requires a single sequential evaluator, so the run is
		// forced onto one thread. scheduler.Config carries no ProfileSink,
		// so the evaluators that Run builds record no samples into prof.
		schedCfg.ThreadCount = 1
	}

	result := scheduler.Run(inst, tree, cnfVarToDdVar, ddVarToCnfVar, sliceOrder, schedCfg, log)

	res := finalizer.Finalize(finalizer.Input{
		Inst:        inst,
		Apparent:    result.Total,
		Mode:        cfg.Mode(),
		Exact:       cfg.MultiplePrecision,
		ExistRandom: cfg.ExistRandom,
		Maximizing:  cfg.MaximizingAssignment,
		// EvalAssignment only reads the Dd handles captured by the winning
		// stack, so no live Mgr is needed to replay it.
		Mgr:           nil,
		WinningStack:  result.WinningStack,
		DdVarToCnfVar: result.WinningDdVars,
	})

	output.WriteResult(os.Stdout, res, !cfg.MultiplePrecision)

	if prof != nil && cfg.VerboseProfiling {
		for _, row := range prof.Rows() {
			fmt.Fprintf(os.Stdout, "c profile var %d duration %s peakSize %d\n", row.Var, row.Stats.Duration, row.Stats.MaxSize)
		}
	}

	// An UNSAT verdict is a normal modeled outcome, not a hard error, so the
	// exit code stays 0 regardless of the verdict reached above.
	return nil
}
