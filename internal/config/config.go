// Package config establishes the engine's immutable RunConfig at startup:
// no component mutates it once ingestion starts. Flags are bound through
// viper so every option is also settable via a WMC_* environment variable.
package config

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/xDarkicex/wmc/internal/evaluator"
	"github.com/xDarkicex/wmc/internal/numkernel"
	"github.com/xDarkicex/wmc/internal/wmcerr"
)

// RunConfig is the engine's frozen run-scoped state.
// Once Load returns, no component may mutate it.
type RunConfig struct {
	CnfPath string

	WeightedCounting     bool
	ProjectedCounting    bool
	ExistRandom          bool
	MaximizingAssignment bool

	PlannerWait float64

	DdPackage        string
	ThreadCount      int
	ThreadSliceCount int
	RandomSeed       int64
	DdVarOrder       int
	SliceVarOrder    int

	MemSensitivity int
	MaxMem         int
	TableRatio     int
	InitRatio      int

	MultiplePrecision bool
	LogCounting       bool

	JoinPriority evaluator.JoinPriority

	VerboseCnf       bool
	VerboseJoinTree  bool
	VerboseProfiling bool
	VerboseSolving   bool
}

// Mode derives the active numeric mode from LogCounting.
func (c *RunConfig) Mode() numkernel.Mode {
	if c.LogCounting {
		return numkernel.ModeLog
	}
	return numkernel.ModeRational
}

// BindFlags registers every CLI option on flags, defaulting to the values
// the original engine ships with.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("cnf", "", "path to the weighted CNF input (required)")
	flags.Bool("weightedCounting", false, "enable weight folding")
	flags.Bool("projectedCounting", false, "enable outer projection semantics")
	flags.Bool("existRandom", false, "invert additive/maximize polarity for outer/inner")
	flags.Bool("maximizingAssignment", false, "require existRandom=1, emit v line")
	flags.Float64("plannerWait", 0, "seconds to wait for the join-tree planner; <=0 means default minimum")
	flags.String("ddPackage", "cudd", "diagram backend selector")
	flags.Int("threadCount", 0, "0 means hardware concurrency")
	flags.Int("threadSliceCount", 1, "slices per worker thread")
	flags.Int64("randomSeed", 0, "seed for the random variable-order heuristic (id 3)")
	flags.Int("ddVarOrder", 1, "diagram variable-order heuristic id (negative = inverse)")
	flags.Int("sliceVarOrder", 1, "slice variable-order heuristic id (negative = inverse)")
	flags.Int("memSensitivity", 1000, "megabytes; threshold for per-thread memory rows")
	flags.Int("maxMem", 4000, "megabytes; total diagram memory budget")
	flags.Int("tableRatio", 2, "log2 sizing ratio for backend unique tables")
	flags.Int("initRatio", 10, "log2 initial sizing ratio for backend tables")
	flags.Bool("multiplePrecision", false, "use the exact rational backend")
	flags.Bool("logCounting", false, "use log-domain doubles")
	flags.String("joinPriority", "arbitrary", "arbitrary|smallest-pair|largest-pair")
	flags.Bool("verboseCnf", false, "echo the parsed CNF")
	flags.Bool("verboseJoinTree", false, "echo the ingested join tree")
	flags.Bool("verboseProfiling", false, "emit per-variable profiling rows")
	flags.Bool("verboseSolving", false, "emit per-node solving trace")
}

// Load reads bound flags (and their WMC_* environment overlay) into a
// RunConfig, validating the mutually-exclusive and dependent options named
// below.
func Load(flags *pflag.FlagSet) (*RunConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("WMC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, wmcerr.Wrap(wmcerr.InputError, "config.Load", "failed to bind flags", err)
	}

	cfg := &RunConfig{
		CnfPath:              v.GetString("cnf"),
		WeightedCounting:     v.GetBool("weightedCounting"),
		ProjectedCounting:    v.GetBool("projectedCounting"),
		ExistRandom:          v.GetBool("existRandom"),
		MaximizingAssignment: v.GetBool("maximizingAssignment"),
		PlannerWait:          v.GetFloat64("plannerWait"),
		DdPackage:            v.GetString("ddPackage"),
		ThreadCount:          v.GetInt("threadCount"),
		ThreadSliceCount:     v.GetInt("threadSliceCount"),
		RandomSeed:           v.GetInt64("randomSeed"),
		DdVarOrder:           v.GetInt("ddVarOrder"),
		SliceVarOrder:        v.GetInt("sliceVarOrder"),
		MemSensitivity:       v.GetInt("memSensitivity"),
		MaxMem:               v.GetInt("maxMem"),
		TableRatio:           v.GetInt("tableRatio"),
		InitRatio:            v.GetInt("initRatio"),
		MultiplePrecision:    v.GetBool("multiplePrecision"),
		LogCounting:          v.GetBool("logCounting"),
		VerboseCnf:           v.GetBool("verboseCnf"),
		VerboseJoinTree:      v.GetBool("verboseJoinTree"),
		VerboseProfiling:     v.GetBool("verboseProfiling"),
		VerboseSolving:       v.GetBool("verboseSolving"),
	}

	switch v.GetString("joinPriority") {
	case "smallest-pair":
		cfg.JoinPriority = evaluator.SmallestPair
	case "largest-pair":
		cfg.JoinPriority = evaluator.LargestPair
	default:
		cfg.JoinPriority = evaluator.Arbitrary
	}

	if cfg.CnfPath == "" {
		return nil, wmcerr.New(wmcerr.InputError, "config.Load", "--cnf is required")
	}
	if cfg.MaximizingAssignment && !cfg.ExistRandom {
		return nil, wmcerr.New(wmcerr.SemanticError, "config.Load", "maximizingAssignment requires existRandom")
	}
	if cfg.LogCounting && cfg.MultiplePrecision {
		return nil, wmcerr.New(wmcerr.SemanticError, "config.Load", "logCounting and multiplePrecision are mutually exclusive")
	}
	if cfg.ThreadCount < 0 {
		return nil, wmcerr.New(wmcerr.SemanticError, "config.Load", "threadCount must be >= 0")
	}
	return cfg, nil
}

// NewLogger builds the run's structured logger, verbosity-gated by
// verboseSolving.
func NewLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
