//go:build !cuda
// +build !cuda

package gpu

import "go.uber.org/zap"

// NewBackend creates the best backend available. Without CUDA support
// compiled in, that is always the CPU backend.
func NewBackend(logger *zap.Logger) Backend {
	logger.Info("Using CPU backend (compiled without GPU support)")
	return NewCPUBackend(logger)
}
