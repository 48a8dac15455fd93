package pixui

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// GPU is a self-owned device for standalone use, created by Open. Hosts
// that already run a GPU framework should share their device through New
// or NewFromProvider instead.
type GPU struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
}

// Open creates a hal instance on the Vulkan backend and opens a device on
// the best available adapter, preferring discrete over integrated GPUs.
func Open() (*GPU, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("pixui: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("pixui: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("pixui: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		for i := range adapters {
			if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
				selected = &adapters[i]
				break
			}
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("pixui: open device: %w", err)
	}
	Logger().Info("GPU adapter selected", "name", selected.Info.Name)
	return &GPU{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
	}, nil
}

// Device returns the hal device.
func (g *GPU) Device() hal.Device { return g.device }

// Queue returns the hal queue.
func (g *GPU) Queue() hal.Queue { return g.queue }

// HalDevice exposes the device for provider-style sharing with other
// gogpu components.
func (g *GPU) HalDevice() any { return g.device }

// HalQueue exposes the queue for provider-style sharing.
func (g *GPU) HalQueue() any { return g.queue }

// Close destroys the device and instance. Any UI built on this GPU must
// be closed first.
func (g *GPU) Close() {
	if g.device != nil {
		g.device.Destroy()
		g.device = nil
	}
	if g.instance != nil {
		g.instance.Destroy()
		g.instance = nil
	}
	g.queue = nil
}
