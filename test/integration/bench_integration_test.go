//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"testing"

	"github.com/gpulab/gemmbench/internal/bench"
	"github.com/gpulab/gemmbench/internal/config"
	"github.com/gpulab/gemmbench/internal/gpu"
	"github.com/gpulab/gemmbench/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestBenchmark_EndToEnd(t *testing.T) {
	var mgr *gpu.Manager
	var cfg *config.Config
	var log *zap.Logger

	app := fxtest.New(t,
		fx.Provide(
			func() *config.Config {
				c := config.Default()
				c.Benchmark.Order = 64
				c.Benchmark.Iterations = 5
				c.Benchmark.VerifyCPU = true
				c.Benchmark.Freivalds = 8
				return c
			},
			func(c *config.Config) (*zap.Logger, error) {
				return logger.New(c.Logger.Verbosity)
			},
			gpu.NewManager,
		),
		fx.Populate(&mgr, &cfg, &log),
	)

	app.RequireStart()
	defer app.RequireStop()
	defer mgr.Cleanup()

	runner := bench.NewRunner(cfg.Benchmark, mgr, log)
	var out bytes.Buffer
	runner.SetOutput(&out)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Iterations)
	assert.Zero(t, summary.Failures)
	assert.Zero(t, summary.FailureRate())
	assert.Greater(t, summary.AvgGFLOPS(), 0.0)

	report := out.String()
	assert.Contains(t, report, "total test: 5, failed: 0.")
	assert.Contains(t, report, "failure rate: 0.000000.")
	assert.Contains(t, report, "Comparing reference against CPU baseline: PASS")
}
