package bench

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/gpulab/gemmbench/internal/gpu"
	"github.com/gpulab/gemmbench/internal/metrics"
	"go.uber.org/zap"
)

// Defaults mirror the classic cuBLAS benchmark setup: a 10240×10240 square
// multiply repeated 100 times, inputs seeded with 2006, a strict normalized
// L2 gate for PASS/FAIL and a looser per-element threshold for the diff
// listing.
const (
	DefaultOrder       = 10240
	DefaultIterations  = 100
	DefaultSeed        = 2006
	DefaultEpsilon     = 1.0e-10
	DefaultDiffTol     = 1.0e-5
	DefaultDiffListLen = 100
)

// Config holds the benchmark parameters.
type Config struct {
	Order       int     `yaml:"order"`
	Iterations  int     `yaml:"iterations"`
	Seed        int64   `yaml:"seed"`
	Epsilon     float32 `yaml:"epsilon"`
	DiffTol     float32 `yaml:"diffTolerance"`
	DiffListLen int     `yaml:"diffListLength"`
	VerifyCPU   bool    `yaml:"verifyCpu"`
	Freivalds   int     `yaml:"freivalds"`
}

// WithDefaults fills zero-valued fields with the default parameters.
func (c Config) WithDefaults() Config {
	if c.Order == 0 {
		c.Order = DefaultOrder
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Epsilon == 0 {
		c.Epsilon = DefaultEpsilon
	}
	if c.DiffTol == 0 {
		c.DiffTol = DefaultDiffTol
	}
	if c.DiffListLen == 0 {
		c.DiffListLen = DefaultDiffListLen
	}
	return c
}

// Multiplier is the compute surface the runner needs; *gpu.Manager satisfies
// it.
type Multiplier interface {
	MatrixMultiply(a, b []float32, m, k, n int) (*gpu.Product, error)
	GetDeviceInfo() gpu.DeviceInfo
	GetBackendType() string
}

// Runner drives the benchmark: fill inputs, compute a reference product,
// repeat the multiply and compare each result against the reference, then
// reduce the per-iteration results into a summary.
type Runner struct {
	cfg Config
	mul Multiplier
	log *zap.Logger
	out io.Writer
}

// NewRunner creates a benchmark runner writing its report to stdout.
func NewRunner(cfg Config, mul Multiplier, log *zap.Logger) *Runner {
	return &Runner{
		cfg: cfg.WithDefaults(),
		mul: mul,
		log: log,
		out: os.Stdout,
	}
}

// SetOutput redirects the human-readable report, used by tests.
func (r *Runner) SetOutput(w io.Writer) {
	r.out = w
}

// FillUniform fills buf with uniform draws from [0,1) using a PRNG seeded
// with seed. The same seed always yields the same buffer.
func FillUniform(buf []float32, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range buf {
		buf[i] = rng.Float32()
	}
}

// Run executes the benchmark and returns the reduced summary. Numerical
// FAILs are benchmark outcomes, not errors; only setup and library failures
// return a non-nil error.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	n := r.cfg.Order
	m, k := n, n

	a := make([]float32, m*k)
	b := make([]float32, k*n)

	// One stream fills A then B so the pair is reproducible from one seed.
	rng := rand.New(rand.NewSource(r.cfg.Seed))
	for i := range a {
		a[i] = rng.Float32()
	}
	for i := range b {
		b[i] = rng.Float32()
	}

	r.log.Info("benchmark starting",
		zap.Int("order", n),
		zap.Int("iterations", r.cfg.Iterations),
		zap.Int64("seed", r.cfg.Seed),
		zap.String("backend", r.mul.GetBackendType()),
		zap.String("device", r.mul.GetDeviceInfo().Name))

	metrics.MatrixOrder.Set(float64(n))
	metrics.BackendRuns.WithLabelValues(r.mul.GetBackendType()).Inc()

	fmt.Fprintf(r.out, "Computing reference result (%dx%d, backend %s)...\n",
		n, n, r.mul.GetBackendType())

	ref, err := r.mul.MatrixMultiply(a, b, m, k, n)
	if err != nil {
		return Summary{}, fmt.Errorf("reference multiply failed: %w", err)
	}

	refMS := float64(ref.ComputeTime.Nanoseconds()) / 1e6
	fmt.Fprintf(r.out, "Performance= %.2f GFlop/s, Time= %.3f msec, Size= %.0f Ops\n",
		gflops(refMS, m, n, k), refMS, flopsPerMultiply(m, n, k))

	if r.cfg.Freivalds > 0 {
		if !FreivaldsCheck(a, b, ref.Data, m, k, n, r.cfg.Freivalds, r.cfg.Seed) {
			fmt.Fprintf(r.out, "WARNING: reference product failed Freivalds verification\n")
			r.log.Warn("reference product failed Freivalds verification")
		}
	}

	if r.cfg.VerifyCPU {
		cpuRef := CPUReference(a, b, m, k, n)
		ok := CompareL2(cpuRef, ref.Data, r.cfg.DiffTol)
		fmt.Fprintf(r.out, "Comparing reference against CPU baseline: %s\n", passFail(ok))
		if !ok {
			DiffReport(r.out, cpuRef, ref.Data, n, m, r.cfg.DiffListLen, r.cfg.DiffTol)
		}
	}

	results := make([]IterationResult, 0, r.cfg.Iterations)

	for j := 0; j < r.cfg.Iterations; j++ {
		if err := ctx.Err(); err != nil {
			r.log.Warn("benchmark cancelled", zap.Int("completed", j))
			return Reduce(results), err
		}

		prod, err := r.mul.MatrixMultiply(a, b, m, k, n)
		if err != nil {
			return Reduce(results), fmt.Errorf("multiply iteration %d failed: %w", j, err)
		}

		elapsedMS := float64(prod.ComputeTime.Nanoseconds()) / 1e6
		iterGFLOPS := gflops(elapsedMS, m, n, k)

		fmt.Fprintf(r.out, "[%d]Performance= %.2f GFlop/s, Time= %.3f msec, Size= %.0f Ops\n",
			j, iterGFLOPS, elapsedMS, flopsPerMultiply(m, n, k))

		passed := CompareL2(ref.Data, prod.Data, r.cfg.Epsilon)
		diffs := 0
		if !passed {
			diffs = DiffReport(r.out, ref.Data, prod.Data, n, m, r.cfg.DiffListLen, r.cfg.DiffTol)
		}
		fmt.Fprintf(r.out, "Comparing against reference result: %s\n", passFail(passed))

		metrics.MultiplyDuration.Observe(elapsedMS)
		metrics.LastGFLOPS.Set(iterGFLOPS)
		metrics.Iterations.WithLabelValues(passFailLabel(passed)).Inc()

		results = append(results, IterationResult{
			Index:     j,
			ElapsedMS: elapsedMS,
			GFLOPS:    iterGFLOPS,
			Passed:    passed,
			Diffs:     diffs,
		})
	}

	summary := Reduce(results)
	fmt.Fprintf(r.out, "total test: %d, failed: %d.\n", summary.Iterations, summary.Failures)
	fmt.Fprintf(r.out, "failure rate: %f.\n", summary.FailureRate())
	fmt.Fprintf(r.out, "average perf: %.2f.\n", summary.AvgGFLOPS())

	r.log.Info("benchmark finished",
		zap.Int("iterations", summary.Iterations),
		zap.Int("failures", summary.Failures),
		zap.Float64("failure_rate", summary.FailureRate()),
		zap.Float64("avg_gflops", summary.AvgGFLOPS()))

	return summary, nil
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

func passFailLabel(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}
