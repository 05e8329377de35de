package gpu

import "time"

// DeviceInfo describes the device backing a compute backend.
type DeviceInfo struct {
	Name              string `json:"name"`
	TotalMemory       int64  `json:"totalMemory"`     // in bytes
	AvailableMemory   int64  `json:"availableMemory"` // in bytes
	ComputeCapability string `json:"computeCapability"`
	DriverVersion     string `json:"driverVersion"`
	CUDAVersion       string `json:"cudaVersion,omitempty"`
}

// Product is the outcome of one matrix multiply. ComputeTime covers only the
// multiply itself: device event time on CUDA, wall time around the BLAS call
// on CPU. Host/device transfers are excluded so throughput numbers stay
// comparable across backends.
type Product struct {
	Data        []float32
	ComputeTime time.Duration
}

// Backend is the interface for dense matrix compute backends (CUDA, CPU).
//
// Implementation notes:
//   - Operands and results are flat row-major float32 buffers
//   - Backends manage their own device memory; every acquisition must be
//     released on the error path as well as the normal one
//   - Fallback selection is the Manager's job, not the backend's
type Backend interface {
	// MatrixMultiply computes C = A * B where A is m×k, B is k×n and the
	// result C is m×n, all row-major.
	MatrixMultiply(a, b []float32, m, k, n int) (*Product, error)

	// GetDeviceInfo reports the device backing this backend.
	GetDeviceInfo() DeviceInfo

	// IsAvailable performs a cheap availability probe without heavy
	// initialization.
	IsAvailable() bool

	// Initialize prepares the backend for use. Called once before the
	// first multiply.
	Initialize() error

	// Cleanup releases contexts and device memory held by the backend.
	Cleanup() error
}
