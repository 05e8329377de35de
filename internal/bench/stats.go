package bench

// IterationResult captures one timed multiply of the comparison loop.
type IterationResult struct {
	Index     int
	ElapsedMS float64
	GFLOPS    float64
	Passed    bool
	Diffs     int
}

// Summary is the reduction of all iteration results.
type Summary struct {
	Iterations  int
	Failures    int
	TotalGFLOPS float64
}

// Reduce folds per-iteration results into a summary. Keeping this a pure
// function over the result slice makes the aggregation testable on its own.
func Reduce(results []IterationResult) Summary {
	s := Summary{Iterations: len(results)}
	for _, r := range results {
		if !r.Passed {
			s.Failures++
		}
		s.TotalGFLOPS += r.GFLOPS
	}
	return s
}

// FailureRate returns Failures/Iterations, or 0 for an empty run.
func (s Summary) FailureRate() float64 {
	if s.Iterations == 0 {
		return 0
	}
	return float64(s.Failures) / float64(s.Iterations)
}

// AvgGFLOPS returns the arithmetic mean of the per-iteration throughputs.
func (s Summary) AvgGFLOPS() float64 {
	if s.Iterations == 0 {
		return 0
	}
	return s.TotalGFLOPS / float64(s.Iterations)
}

// gflops converts one multiply's elapsed milliseconds into GFLOP/s for an
// m×k by k×n product (2*m*n*k floating point operations).
func gflops(elapsedMS float64, m, n, k int) float64 {
	if elapsedMS <= 0 {
		return 0
	}
	ops := 2.0 * float64(m) * float64(n) * float64(k)
	return (ops * 1.0e-9) / (elapsedMS / 1000.0)
}

// flopsPerMultiply returns the operation count printed alongside throughput.
func flopsPerMultiply(m, n, k int) float64 {
	return 2.0 * float64(m) * float64(n) * float64(k)
}
