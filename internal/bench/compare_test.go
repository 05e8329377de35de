package bench

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareL2_IdenticalBuffers(t *testing.T) {
	sizes := []int{2, 3, 4, 16, 64}
	for _, n := range sizes {
		t.Run(fmt.Sprintf("size_%dx%d", n, n), func(t *testing.T) {
			buf := make([]float32, n*n)
			FillUniform(buf, 7)

			// A buffer compared against itself has error 0.
			assert.True(t, CompareL2(buf, buf, DefaultEpsilon))
		})
	}
}

func TestCompareL2_SinglePerturbation(t *testing.T) {
	sizes := []int{2, 3, 4, 32}
	for _, n := range sizes {
		t.Run(fmt.Sprintf("size_%dx%d", n, n), func(t *testing.T) {
			ref := make([]float32, n*n)
			FillUniform(ref, 7)

			data := make([]float32, len(ref))
			copy(data, ref)
			data[n+1] += 0.5

			assert.False(t, CompareL2(ref, data, DefaultEpsilon))
		})
	}
}

func TestCompareL2_LengthMismatch(t *testing.T) {
	assert.False(t, CompareL2(make([]float32, 4), make([]float32, 5), 1))
}

func TestCompareL2_ZeroReference(t *testing.T) {
	ref := make([]float32, 8)
	data := make([]float32, 8)

	assert.True(t, CompareL2(ref, data, DefaultEpsilon))

	// With a zero reference norm the absolute error is gated instead.
	data[3] = 1e-3
	assert.False(t, CompareL2(ref, data, DefaultEpsilon))
}

func TestDiffReport_SingleLocation(t *testing.T) {
	const n = 4
	ref := make([]float32, n*n)
	FillUniform(ref, 11)

	data := make([]float32, len(ref))
	copy(data, ref)
	data[2*n+3] += 1.0 // row 2, col 3

	var out bytes.Buffer
	count := DiffReport(&out, ref, data, n, n, DefaultDiffListLen, DefaultDiffTol)

	assert.Equal(t, 1, count)
	assert.Contains(t, out.String(), "Loc(3,2)")
	assert.Contains(t, out.String(), "Total Errors = 1")
}

func TestDiffReport_ListLengthCap(t *testing.T) {
	const n = 8
	ref := make([]float32, n*n)
	data := make([]float32, n*n)
	for i := range data {
		data[i] = 1.0
	}

	var out bytes.Buffer
	count := DiffReport(&out, ref, data, n, n, 5, DefaultDiffTol)

	// All elements differ but only the first 5 are listed.
	assert.Equal(t, n*n, count)
	assert.Contains(t, out.String(), "Listing first 5 Differences")
	assert.Contains(t, out.String(), "Loc(4,0)")
	assert.NotContains(t, out.String(), "Loc(5,0)")
}

func TestDiffReport_BelowTolerance(t *testing.T) {
	ref := []float32{1, 2, 3, 4}
	data := []float32{1.000001, 2, 3, 4}

	var out bytes.Buffer
	count := DiffReport(&out, ref, data, 2, 2, 10, DefaultDiffTol)

	assert.Equal(t, 0, count)
	assert.Contains(t, out.String(), "Total Errors = 0")
}
