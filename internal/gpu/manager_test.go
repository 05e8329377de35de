package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManager_Lifecycle(t *testing.T) {
	mgr, err := NewManager(zap.NewNop())
	require.NoError(t, err)

	assert.NotNil(t, mgr.GetBackend())
	assert.NotEmpty(t, mgr.GetDeviceInfo().Name)

	err = mgr.Cleanup()
	assert.NoError(t, err)
	assert.Nil(t, mgr.GetBackend())
	assert.Equal(t, "none", mgr.GetBackendType())
}

func TestManager_NilLogger(t *testing.T) {
	mgr, err := NewManager(nil)
	require.NoError(t, err)
	defer mgr.Cleanup()

	assert.NotNil(t, mgr.GetBackend())
}

func TestManager_MatrixMultiply(t *testing.T) {
	mgr, err := NewManager(zap.NewNop())
	require.NoError(t, err)
	defer mgr.Cleanup()

	a := []float32{1, 2, 3, 4}
	b := []float32{5, 6, 7, 8}

	prod, err := mgr.MatrixMultiply(a, b, 2, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{19, 22, 43, 50}, prod.Data)
}

func TestManager_MatrixMultiplyAfterCleanup(t *testing.T) {
	mgr, err := NewManager(zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, mgr.Cleanup())

	_, err = mgr.MatrixMultiply([]float32{1}, []float32{1}, 1, 1, 1)
	assert.Error(t, err)
}
