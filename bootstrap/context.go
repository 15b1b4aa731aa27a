package bootstrap

import (
	"github.com/vkngwrapper/bootstrap/gpu"
)

// Context is a bootstrapped GPU context. Fields left nil were never created.
type Context struct {
	Instance   gpu.Instance
	Messenger  gpu.DebugMessenger
	Device     gpu.PhysicalDevice
	Properties *gpu.PhysicalDeviceProperties
	Queues     QueueFamilyIndices

	binder *DebugChannelBinder
	closed bool
}

// Close destroys the debug messenger and then the instance. Calling it again does nothing.
func (c *Context) Close() {
	if c == nil || c.closed {
		return
	}
	c.closed = true

	if c.Instance == nil {
		return
	}

	if c.Messenger != nil && c.binder != nil {
		c.binder.Detach(c.Instance, c.Messenger)
		c.Messenger = nil
	}

	c.Instance.Destroy()
	c.Instance = nil
	c.Device = nil
}
