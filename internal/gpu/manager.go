package gpu

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Manager handles backend selection and lifecycle.
type Manager struct {
	backend Backend
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewManager creates a new manager and selects the best available backend.
func NewManager(logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{logger: logger}

	if err := m.detectAndInitialize(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) detectAndInitialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	backend := NewBackend(m.logger)
	if err := backend.Initialize(); err != nil {
		_ = backend.Cleanup()

		// A CUDA backend that probed as available can still fail to
		// initialize; the CPU backend is always the last resort.
		if _, isCPU := backend.(*CPUBackend); !isCPU {
			m.logger.Warn("GPU backend initialization failed, falling back to CPU", zap.Error(err))
			cpu := NewCPUBackend(m.logger)
			if err := cpu.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize CPU backend: %w", err)
			}
			m.backend = cpu
			return nil
		}
		return fmt.Errorf("failed to initialize CPU backend: %w", err)
	}

	m.backend = backend
	return nil
}

// GetBackend returns the current backend.
func (m *Manager) GetBackend() Backend {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.backend
}

// MatrixMultiply performs a matrix multiplication on the selected backend.
func (mgr *Manager) MatrixMultiply(a, b []float32, m, k, n int) (*Product, error) {
	backend := mgr.GetBackend()
	if backend == nil {
		return nil, fmt.Errorf("no backend available")
	}
	return backend.MatrixMultiply(a, b, m, k, n)
}

// GetDeviceInfo returns device information from the current backend.
func (m *Manager) GetDeviceInfo() DeviceInfo {
	backend := m.GetBackend()
	if backend == nil {
		return DeviceInfo{Name: "No backend available"}
	}
	return backend.GetDeviceInfo()
}

// IsGPUAvailable returns true if an accelerator backend is active.
func (m *Manager) IsGPUAvailable() bool {
	backend := m.GetBackend()
	if backend == nil {
		return false
	}
	_, isCPU := backend.(*CPUBackend)
	return !isCPU
}

// GetBackendType returns a short name for the active backend.
func (m *Manager) GetBackendType() string {
	backend := m.GetBackend()
	switch backend.(type) {
	case nil:
		return "none"
	case *CPUBackend:
		return "cpu"
	case *CUDABackend:
		return "cuda"
	default:
		return "unknown"
	}
}

// Cleanup releases resources held by the current backend.
func (m *Manager) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		if err := m.backend.Cleanup(); err != nil {
			return err
		}
		m.backend = nil
	}
	return nil
}
