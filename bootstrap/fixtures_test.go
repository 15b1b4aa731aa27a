package bootstrap_test

import (
	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/gpu"
	"github.com/vkngwrapper/bootstrap/gpu/gputest"
)

func configWithDiagnostics(enabled bool) config.Configuration {
	cfg := config.Default()
	cfg.Diagnostics.Enabled = enabled
	return cfg
}

func graphicsFamilies() []gpu.QueueFamilyProperties {
	return []gpu.QueueFamilyProperties{
		{QueueFlags: gpu.QueueCompute, QueueCount: 1},
		{QueueFlags: gpu.QueueGraphics | gpu.QueueCompute, QueueCount: 16},
	}
}

// newDriver returns a loader exposing the validation layer, with one instance holding devices.
func newDriver(devices ...*gputest.PhysicalDevice) *gputest.Loader {
	loader := gputest.NewLoader(&gputest.Instance{Devices: devices})
	loader.Layers = []string{"VK_LAYER_MESA_device_select", config.KhronosValidationLayer}
	loader.Extensions = map[string][]string{
		"": {"VK_KHR_surface", "VK_KHR_xcb_surface", "VK_EXT_debug_utils"},
	}
	return loader
}

func discreteDevice(name string) *gputest.PhysicalDevice {
	device := gputest.NewPhysicalDevice(name, gpu.PhysicalDeviceTypeDiscreteGPU, true)
	device.Families = graphicsFamilies()
	return device
}
