// Package gpu describes the slice of the Vulkan API that the bootstrap core talks to.
//
// The interfaces here mirror the native calls closely, including the two-call enumeration
// pattern: passing a nil buffer returns the number of available elements, passing a buffer
// sized to that number fills it. Use the helpers in enumerate.go rather than calling these
// methods twice by hand.
package gpu

// Loader is the global (pre-instance) part of the driver.
type Loader interface {
	EnumerateInstanceLayerProperties(out []LayerProperties) (int, error)
	EnumerateInstanceExtensionProperties(layerName string, out []ExtensionProperties) (int, error)
	CreateInstance(info InstanceCreateInfo) (Instance, Result, error)
}

// Instance is a live connection to the driver.
type Instance interface {
	EnumeratePhysicalDevices(out []PhysicalDevice) (int, error)

	// ProcAddr looks up an extension command by name. It returns nil when the driver does
	// not expose the command for this instance.
	ProcAddr(name string) Proc

	Destroy()
}

// PhysicalDevice is a GPU visible to an Instance. It is queried, never created.
type PhysicalDevice interface {
	Properties() (*PhysicalDeviceProperties, error)
	Features() *PhysicalDeviceFeatures
	QueueFamilyProperties(out []QueueFamilyProperties) int
}

// Proc is a command resolved through Instance.ProcAddr. The concrete type depends on the
// name it was resolved with.
type Proc any

const (
	CreateDebugUtilsMessengerProc  = "vkCreateDebugUtilsMessengerEXT"
	DestroyDebugUtilsMessengerProc = "vkDestroyDebugUtilsMessengerEXT"
)

// CreateDebugUtilsMessengerFunc is the Proc returned for CreateDebugUtilsMessengerProc.
type CreateDebugUtilsMessengerFunc func(info DebugMessengerCreateInfo) (DebugMessenger, Result, error)

// DestroyDebugUtilsMessengerFunc is the Proc returned for DestroyDebugUtilsMessengerProc.
type DestroyDebugUtilsMessengerFunc func(messenger DebugMessenger)

// DebugMessenger is an opaque messenger handle owned by the driver.
type DebugMessenger any
