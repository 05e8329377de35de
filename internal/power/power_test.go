package power

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitProfile(t *testing.T) {
	p := LimitProfile()
	assert.Equal(t, uint32(30000), p.PowerLimitMilliwatts)
	assert.Equal(t, uint32(3510), p.MemClockMHz)
	assert.Equal(t, uint32(1885), p.GraphicsClockMHz)
}

func TestResetProfile(t *testing.T) {
	p := ResetProfile()
	assert.Equal(t, uint32(38500), p.PowerLimitMilliwatts)
	// Clocks reset to device defaults, no explicit values.
	assert.Zero(t, p.MemClockMHz)
	assert.Zero(t, p.GraphicsClockMHz)
}

func TestNewController(t *testing.T) {
	ctrl := NewController(0, nil)
	assert.NotNil(t, ctrl)
	assert.Equal(t, 0, ctrl.device)
}
