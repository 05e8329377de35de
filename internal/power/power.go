// Package power reprograms a GPU's power ceiling and application clocks
// through NVML. Both routines apply their steps in order and stop at the
// first failure, leaving the device in whatever partially applied state it
// reached; callers decide whether that is worth retrying or resetting.
package power

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"go.uber.org/zap"
)

// Profile describes a power/clock target for one device.
type Profile struct {
	PowerLimitMilliwatts uint32 `yaml:"powerLimitMilliwatts"`
	MemClockMHz          uint32 `yaml:"memClockMhz"`
	GraphicsClockMHz     uint32 `yaml:"graphicsClockMhz"`
}

// LimitProfile is the reduced-power target: a lowered ceiling with fixed
// clocks and auto boost off.
func LimitProfile() Profile {
	return Profile{
		PowerLimitMilliwatts: 30000,
		MemClockMHz:          3510,
		GraphicsClockMHz:     1885,
	}
}

// ResetProfile restores the stock ceiling; clocks go back to defaults and
// auto boost is re-enabled, so no clock values are needed.
func ResetProfile() Profile {
	return Profile{PowerLimitMilliwatts: 38500}
}

// Controller applies power profiles to one device by index.
type Controller struct {
	lib    nvml.Interface
	device int
	logger *zap.Logger
}

// NewController creates a controller for the given device index using the
// system NVML library.
func NewController(device int, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		lib:    nvml.New(),
		device: device,
		logger: logger,
	}
}

// Limit lowers the device's power ceiling, pins its application clocks and
// disables auto-boosted clocks per the profile.
func (c *Controller) Limit(p Profile) error {
	device, shutdown, err := c.acquire()
	if err != nil {
		return err
	}
	defer shutdown()

	if err := wrapNvmlError(device.SetPowerManagementLimit(p.PowerLimitMilliwatts)); err != nil {
		return fmt.Errorf("failed to set power limit of device %d: %w", c.device, err)
	}
	if err := wrapNvmlError(device.SetApplicationsClocks(p.MemClockMHz, p.GraphicsClockMHz)); err != nil {
		return fmt.Errorf("failed to set clocks of device %d: %w", c.device, err)
	}
	if err := wrapNvmlError(device.SetAutoBoostedClocksEnabled(nvml.FEATURE_DISABLED)); err != nil {
		return fmt.Errorf("failed to disable autoboost of device %d: %w", c.device, err)
	}

	c.logger.Info("power limit applied",
		zap.Int("device", c.device),
		zap.Uint32("power_limit_mw", p.PowerLimitMilliwatts),
		zap.Uint32("mem_clock_mhz", p.MemClockMHz),
		zap.Uint32("graphics_clock_mhz", p.GraphicsClockMHz))
	return nil
}

// Reset restores the power ceiling from the profile, resets application
// clocks to their defaults and re-enables auto-boosted clocks.
func (c *Controller) Reset(p Profile) error {
	device, shutdown, err := c.acquire()
	if err != nil {
		return err
	}
	defer shutdown()

	if err := wrapNvmlError(device.SetPowerManagementLimit(p.PowerLimitMilliwatts)); err != nil {
		return fmt.Errorf("failed to set power limit of device %d: %w", c.device, err)
	}
	if err := wrapNvmlError(device.ResetApplicationsClocks()); err != nil {
		return fmt.Errorf("failed to reset clocks of device %d: %w", c.device, err)
	}
	if err := wrapNvmlError(device.SetAutoBoostedClocksEnabled(nvml.FEATURE_ENABLED)); err != nil {
		return fmt.Errorf("failed to enable autoboost of device %d: %w", c.device, err)
	}

	c.logger.Info("power limit reset",
		zap.Int("device", c.device),
		zap.Uint32("power_limit_mw", p.PowerLimitMilliwatts))
	return nil
}

// acquire initializes NVML and resolves the device handle. The returned
// shutdown func must be deferred by the caller.
func (c *Controller) acquire() (nvml.Device, func(), error) {
	if err := wrapNvmlError(c.lib.Init()); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize NVML: %w", err)
	}

	device, ret := c.lib.DeviceGetHandleByIndex(c.device)
	if err := wrapNvmlError(ret); err != nil {
		_ = c.lib.Shutdown()
		return nil, nil, fmt.Errorf("failed to get handle for device %d: %w", c.device, err)
	}

	return device, func() { _ = c.lib.Shutdown() }, nil
}

func wrapNvmlError(ret nvml.Return) error {
	if ret == nvml.SUCCESS {
		return nil
	}
	return fmt.Errorf("%s", nvml.ErrorString(ret))
}
