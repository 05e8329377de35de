package bench

import (
	"fmt"
	"io"
	"math"
)

// CompareL2 reports whether data matches ref within epsilon under a
// normalized L2 error: sqrt(sum((ref-data)^2)) / sqrt(sum(ref^2)). When the
// reference norm is zero the absolute error is compared instead. Identical
// buffers always pass.
func CompareL2(ref, data []float32, epsilon float32) bool {
	if len(ref) != len(data) {
		return false
	}

	var errSum, refSum float64
	for i := range ref {
		diff := float64(ref[i]) - float64(data[i])
		errSum += diff * diff
		refSum += float64(ref[i]) * float64(ref[i])
	}

	errNorm := math.Sqrt(errSum)
	if refSum < 1e-30 {
		return errNorm <= float64(epsilon)
	}
	return errNorm/math.Sqrt(refSum) <= float64(epsilon)
}

// DiffReport writes every per-element difference |ref-data| > tol to w, up to
// listLen locations, and returns the total number of mismatches found. The
// buffers are interpreted as width×height row-major grids.
func DiffReport(w io.Writer, ref, data []float32, width, height, listLen int, tol float32) int {
	fmt.Fprintf(w, "Listing first %d Differences > %.6f...\n", listLen, tol)

	errorCount := 0
	for j := 0; j < height; j++ {
		if errorCount < listLen {
			fmt.Fprintf(w, "\n  Row %d:\n", j)
		}
		for i := 0; i < width; i++ {
			k := j*width + i
			diff := math.Abs(float64(ref[k]) - float64(data[k]))
			if diff > float64(tol) {
				if errorCount < listLen {
					fmt.Fprintf(w, "    Loc(%d,%d)\tREF=%.5f\tGOT=%.5f\tDiff=%.6f\n",
						i, j, ref[k], data[k], diff)
				}
				errorCount++
			}
		}
	}

	fmt.Fprintf(w, " \n  Total Errors = %d\n", errorCount)
	return errorCount
}
