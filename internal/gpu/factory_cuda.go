//go:build cuda
// +build cuda

package gpu

import "go.uber.org/zap"

// NewBackend creates the best backend available: CUDA when a device is
// present, CPU otherwise.
func NewBackend(logger *zap.Logger) Backend {
	cudaBackend := NewCUDABackend(logger)
	if cudaBackend.IsAvailable() {
		logger.Info("Using CUDA GPU backend")
		return cudaBackend
	}

	logger.Info("Using CPU backend (no GPU available)")
	return NewCPUBackend(logger)
}
