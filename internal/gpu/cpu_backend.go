package gpu

import (
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// CPUBackend implements Backend on the host CPU using gonum's single
// precision BLAS. It is the fallback when no accelerator is compiled in or
// detected, and the deterministic reference backend for tests.
type CPUBackend struct {
	logger      *zap.Logger
	initialized bool
}

// NewCPUBackend creates a new CPU backend instance.
func NewCPUBackend(logger *zap.Logger) *CPUBackend {
	return &CPUBackend{
		logger: logger,
	}
}

// Initialize prepares the CPU backend for use.
func (c *CPUBackend) Initialize() error {
	if c.initialized {
		return nil
	}
	c.initialized = true
	c.logger.Info("CPU backend initialized", zap.Int("num_cpu", runtime.NumCPU()))
	return nil
}

// Cleanup releases any resources (none for the CPU backend).
func (c *CPUBackend) Cleanup() error {
	c.initialized = false
	return nil
}

// IsAvailable reports availability (always true for the CPU backend).
func (c *CPUBackend) IsAvailable() bool {
	return true
}

// GetDeviceInfo returns device information for the host CPU.
func (c *CPUBackend) GetDeviceInfo() DeviceInfo {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return DeviceInfo{
		Name:              fmt.Sprintf("CPU (%s, %d cores)", runtime.GOARCH, runtime.NumCPU()),
		TotalMemory:       int64(ms.Sys),
		AvailableMemory:   int64(ms.Sys - ms.HeapInuse),
		ComputeCapability: "N/A",
		DriverVersion:     runtime.Version(),
	}
}

// MatrixMultiply computes C = A * B with gonum's SGEMM. A is m×k, B is k×n
// and C is m×n, all row-major.
func (c *CPUBackend) MatrixMultiply(a, b []float32, m, k, n int) (*Product, error) {
	if !c.initialized {
		return nil, fmt.Errorf("CPU backend not initialized")
	}

	if len(a) != m*k {
		return nil, fmt.Errorf("matrix A size mismatch: expected %d, got %d", m*k, len(a))
	}
	if len(b) != k*n {
		return nil, fmt.Errorf("matrix B size mismatch: expected %d, got %d", k*n, len(b))
	}

	ga := blas32.General{Rows: m, Cols: k, Stride: k, Data: a}
	gb := blas32.General{Rows: k, Cols: n, Stride: n, Data: b}
	gc := blas32.General{Rows: m, Cols: n, Stride: n, Data: make([]float32, m*n)}

	start := time.Now()
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, ga, gb, 0, gc)
	elapsed := time.Since(start)

	return &Product{Data: gc.Data, ComputeTime: elapsed}, nil
}
