package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/wmc/internal/evaluator"
	"github.com/xDarkicex/wmc/internal/numkernel"
	"github.com/xDarkicex/wmc/internal/wmcerr"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	return flags
}

func TestLoadRequiresCnfPath(t *testing.T) {
	flags := newFlags()
	_, err := Load(flags)
	require.Error(t, err)
	assert.Equal(t, wmcerr.InputError, err.(*wmcerr.Error).Kind)
}

func TestLoadDefaultsAndJoinPriority(t *testing.T) {
	flags := newFlags()
	require.NoError(t, flags.Set("cnf", "instance.cnf"))
	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, "instance.cnf", cfg.CnfPath)
	assert.Equal(t, evaluator.Arbitrary, cfg.JoinPriority)
	assert.Equal(t, numkernel.ModeRational, cfg.Mode())
}

func TestLoadJoinPrioritySmallestPair(t *testing.T) {
	flags := newFlags()
	require.NoError(t, flags.Set("cnf", "instance.cnf"))
	require.NoError(t, flags.Set("joinPriority", "smallest-pair"))
	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, evaluator.SmallestPair, cfg.JoinPriority)
}

func TestLoadMaximizingRequiresExistRandom(t *testing.T) {
	flags := newFlags()
	require.NoError(t, flags.Set("cnf", "instance.cnf"))
	require.NoError(t, flags.Set("maximizingAssignment", "true"))
	_, err := Load(flags)
	require.Error(t, err)
	assert.Equal(t, wmcerr.SemanticError, err.(*wmcerr.Error).Kind)
}

func TestLoadLogCountingAndMultiplePrecisionMutuallyExclusive(t *testing.T) {
	flags := newFlags()
	require.NoError(t, flags.Set("cnf", "instance.cnf"))
	require.NoError(t, flags.Set("logCounting", "true"))
	require.NoError(t, flags.Set("multiplePrecision", "true"))
	_, err := Load(flags)
	require.Error(t, err)
}

func TestLoadNegativeThreadCountRejected(t *testing.T) {
	flags := newFlags()
	require.NoError(t, flags.Set("cnf", "instance.cnf"))
	require.NoError(t, flags.Set("threadCount", "-1"))
	_, err := Load(flags)
	require.Error(t, err)
}

func TestLoadLogCountingSelectsLogMode(t *testing.T) {
	flags := newFlags()
	require.NoError(t, flags.Set("cnf", "instance.cnf"))
	require.NoError(t, flags.Set("logCounting", "true"))
	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, numkernel.ModeLog, cfg.Mode())
}

func TestLoadReadsEnvironmentOverlay(t *testing.T) {
	flags := newFlags()
	require.NoError(t, flags.Set("cnf", "instance.cnf"))
	os.Setenv("WMC_THREADCOUNT", "4")
	defer os.Unsetenv("WMC_THREADCOUNT")

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.ThreadCount)
}

func TestNewLoggerVerbosityLevels(t *testing.T) {
	quiet := NewLogger(false)
	loud := NewLogger(true)
	assert.NotEqual(t, quiet.GetLevel(), loud.GetLevel())
}
