package bench

import (
	"math/rand"

	"github.com/gpulab/gemmbench/internal/gpu"
	"gonum.org/v1/gonum/mat"
)

// CPUReference computes C = A * B on the host in float64 and returns the
// result rounded to float32. It is the independent baseline for the opt-in
// correctness cross-check.
func CPUReference(a, b []float32, m, k, n int) []float32 {
	da := mat.NewDense(m, k, gpu.Float32ToFloat64(a))
	db := mat.NewDense(k, n, gpu.Float32ToFloat64(b))

	var dc mat.Dense
	dc.Mul(da, db)

	return gpu.Float64ToFloat32(dc.RawMatrix().Data)
}

// FreivaldsCheck probabilistically verifies that c = a * b using Freivalds'
// algorithm over the flat row-major buffers. The false positive rate is at
// most 1/2^iterations. A deterministic source keeps the check reproducible.
func FreivaldsCheck(a, b, c []float32, m, k, n, iterations int, seed int64) bool {
	if len(a) != m*k || len(b) != k*n || len(c) != m*n {
		return false
	}

	rng := rand.New(rand.NewSource(seed))

	for it := 0; it < iterations; it++ {
		// Random binary vector r of length n.
		r := make([]float64, n)
		for j := range r {
			r[j] = float64(rng.Intn(2))
		}

		br := matVec(b, k, n, r)
		abr := matVec(a, m, k, br)
		cr := matVec(c, m, n, r)

		for i := range abr {
			diff := abr[i] - cr[i]
			if diff < 0 {
				diff = -diff
			}
			// float32 products accumulated in float64 drift more
			// than an exact check would allow; the bound scales
			// with the inner dimension.
			if diff > 1e-3*float64(k+1) {
				return false
			}
		}
	}

	return true
}

// matVec multiplies a rows×cols row-major float32 matrix by a float64 vector.
func matVec(m32 []float32, rows, cols int, v []float64) []float64 {
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += float64(m32[i*cols+j]) * v[j]
		}
		out[i] = sum
	}
	return out
}
