//go:build !cuda
// +build !cuda

package gpu

import "go.uber.org/zap"

// CUDABackend is a stub type when the binary is built without CUDA support.
type CUDABackend struct {
	logger *zap.Logger
}

func (c *CUDABackend) MatrixMultiply(a, b []float32, m, k, n int) (*Product, error) {
	panic("CUDA backend not available")
}

func (c *CUDABackend) GetDeviceInfo() DeviceInfo {
	return DeviceInfo{Name: "CUDA not available"}
}

func (c *CUDABackend) IsAvailable() bool {
	return false
}

func (c *CUDABackend) Initialize() error {
	panic("CUDA backend not available")
}

func (c *CUDABackend) Cleanup() error {
	return nil
}
