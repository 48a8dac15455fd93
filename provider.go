package pixui

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// DeviceProvider is the integration point between pixui and host GPU
// frameworks. Hosts such as gogpu implement gpucontext.DeviceProvider and
// hand it to NewFromProvider so the UI shares the application's device
// instead of opening its own.
//
// DeviceProvider is an alias for gpucontext.DeviceProvider, providing a
// pixui-specific name while staying compatible with the gpucontext
// ecosystem.
type DeviceProvider = gpucontext.DeviceProvider

// NewFromProvider creates a UI on a shared GPU device from an external
// provider. The provider must expose HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue; gpucontext providers and pixui.GPU
// both do. The provider keeps ownership of the device.
func NewFromProvider(provider any, a *Atlas, cfg Config) (*UI, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("pixui: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("pixui: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("pixui: provider HalQueue is not hal.Queue")
	}
	return New(device, queue, a, cfg)
}
