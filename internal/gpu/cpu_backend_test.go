package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCPUBackend_Lifecycle(t *testing.T) {
	backend := NewCPUBackend(zap.NewNop())

	// CPU backend is always available.
	assert.True(t, backend.IsAvailable())

	err := backend.Initialize()
	assert.NoError(t, err)
	assert.True(t, backend.initialized)

	info := backend.GetDeviceInfo()
	assert.Contains(t, info.Name, "CPU")
	assert.Greater(t, info.TotalMemory, int64(0))
	assert.Equal(t, "N/A", info.ComputeCapability)

	// Double initialization is idempotent.
	err = backend.Initialize()
	assert.NoError(t, err)

	err = backend.Cleanup()
	assert.NoError(t, err)
	assert.False(t, backend.initialized)
}

func TestCPUBackend_MatrixMultiply(t *testing.T) {
	backend := NewCPUBackend(zap.NewNop())
	require.NoError(t, backend.Initialize())
	defer backend.Cleanup()

	testCases := []struct {
		name        string
		m, k, n     int
		a, b        []float32
		want        []float32
		expectError bool
	}{
		{
			name: "identity",
			m:    2, k: 2, n: 2,
			a:    []float32{1, 2, 3, 4},
			b:    []float32{1, 0, 0, 1},
			want: []float32{1, 2, 3, 4},
		},
		{
			name: "rectangular 2x3 by 3x2",
			m:    2, k: 3, n: 2,
			a:    []float32{1, 2, 3, 4, 5, 6},
			b:    []float32{7, 8, 9, 10, 11, 12},
			want: []float32{58, 64, 139, 154},
		},
		{
			name: "size mismatch A",
			m:    2, k: 2, n: 2,
			a:           []float32{1, 2, 3},
			b:           []float32{1, 0, 0, 1},
			expectError: true,
		},
		{
			name: "size mismatch B",
			m:    2, k: 2, n: 2,
			a:           []float32{1, 2, 3, 4},
			b:           []float32{1, 0, 0},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prod, err := backend.MatrixMultiply(tc.a, tc.b, tc.m, tc.k, tc.n)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, prod.Data)
			assert.GreaterOrEqual(t, prod.ComputeTime.Nanoseconds(), int64(0))
		})
	}
}

func TestCPUBackend_NotInitialized(t *testing.T) {
	backend := NewCPUBackend(zap.NewNop())
	_, err := backend.MatrixMultiply([]float32{1}, []float32{1}, 1, 1, 1)
	assert.Error(t, err)
}

func TestCPUBackend_Deterministic(t *testing.T) {
	backend := NewCPUBackend(zap.NewNop())
	require.NoError(t, backend.Initialize())
	defer backend.Cleanup()

	const n = 32
	a := make([]float32, n*n)
	b := make([]float32, n*n)
	for i := range a {
		a[i] = float32(i%100) / 100.0
		b[i] = float32((i+1)%100) / 100.0
	}

	first, err := backend.MatrixMultiply(a, b, n, n, n)
	require.NoError(t, err)
	second, err := backend.MatrixMultiply(a, b, n, n, n)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
}
