// Package gputest provides an in-memory driver for exercising code written against package gpu.
//
// Every driver entry point is appended to a shared CallLog so tests can assert on call order.
// Enumeration methods enforce the two-call contract: a non-nil buffer must be sized to the
// count returned by the preceding nil query.
package gputest

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/bootstrap/gpu"
)

const (
	CallEnumerateLayers       = "vkEnumerateInstanceLayerProperties"
	CallEnumerateExtensions   = "vkEnumerateInstanceExtensionProperties"
	CallCreateInstance        = "vkCreateInstance"
	CallDestroyInstance       = "vkDestroyInstance"
	CallEnumerateDevices      = "vkEnumeratePhysicalDevices"
	CallGetProperties         = "vkGetPhysicalDeviceProperties"
	CallGetFeatures           = "vkGetPhysicalDeviceFeatures"
	CallGetQueueFamilies      = "vkGetPhysicalDeviceQueueFamilyProperties"
	CallGetProcAddr           = "vkGetInstanceProcAddr"
	CallCreateDebugMessenger  = gpu.CreateDebugUtilsMessengerProc
	CallDestroyDebugMessenger = gpu.DestroyDebugUtilsMessengerProc
)

// CallLog records driver calls in the order they were made.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *CallLog) record(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *CallLog) Calls() []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// Count returns how many times call was made.
func (l *CallLog) Count(call string) int {
	n := 0
	for _, c := range l.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

// Index returns the position of the first occurrence of call, or -1.
func (l *CallLog) Index(call string) int {
	for i, c := range l.Calls() {
		if c == call {
			return i
		}
	}
	return -1
}

// Loader is a fake gpu.Loader. The zero value has no layers, no extensions and creates
// Instance on success.
type Loader struct {
	Log *CallLog

	Layers     []string
	Extensions map[string][]string

	// CreateResult and CreateErr are returned from CreateInstance. A non-success result with
	// a nil error still counts as a failure.
	CreateResult gpu.Result
	CreateErr    error

	Instance *Instance

	// LastCreateInfo is the info passed to the last CreateInstance call.
	LastCreateInfo *gpu.InstanceCreateInfo
}

// NewLoader returns a Loader wired to instance with a fresh call log.
func NewLoader(instance *Instance) *Loader {
	log := &CallLog{}
	if instance == nil {
		instance = &Instance{}
	}
	instance.Log = log
	for _, device := range instance.Devices {
		device.Log = log
	}
	return &Loader{Log: log, Instance: instance}
}

func (l *Loader) EnumerateInstanceLayerProperties(out []gpu.LayerProperties) (int, error) {
	l.Log.record(CallEnumerateLayers)
	if out == nil {
		return len(l.Layers), nil
	}
	if len(out) != len(l.Layers) {
		return 0, errors.Newf("layer buffer sized %d, want %d", len(out), len(l.Layers))
	}
	for i, name := range l.Layers {
		out[i] = gpu.LayerProperties{LayerName: name}
	}
	return len(l.Layers), nil
}

func (l *Loader) EnumerateInstanceExtensionProperties(layerName string, out []gpu.ExtensionProperties) (int, error) {
	l.Log.record(CallEnumerateExtensions)
	extensions := l.Extensions[layerName]
	if out == nil {
		return len(extensions), nil
	}
	if len(out) != len(extensions) {
		return 0, errors.Newf("extension buffer sized %d, want %d", len(out), len(extensions))
	}
	for i, name := range extensions {
		out[i] = gpu.ExtensionProperties{ExtensionName: name}
	}
	return len(extensions), nil
}

func (l *Loader) CreateInstance(info gpu.InstanceCreateInfo) (gpu.Instance, gpu.Result, error) {
	l.Log.record(CallCreateInstance)
	l.LastCreateInfo = &info
	if l.CreateErr != nil || l.CreateResult != gpu.Success {
		return nil, l.CreateResult, l.CreateErr
	}

	if info.DebugMessenger != nil {
		l.Instance.creationCallback = info.DebugMessenger.UserCallback
	}
	for _, name := range info.EnabledExtensionNames {
		if name == DebugUtilsExtensionName {
			l.Instance.debugUtilsEnabled = true
		}
	}
	return l.Instance, gpu.Success, nil
}

// DebugUtilsExtensionName is the instance extension the fake checks for before resolving the
// debug messenger commands.
const DebugUtilsExtensionName = "VK_EXT_debug_utils"

// Instance is a fake gpu.Instance.
type Instance struct {
	Log     *CallLog
	Devices []*PhysicalDevice

	// HideDebugUtils makes ProcAddr return nil for the messenger commands even when the
	// debug utils extension was enabled.
	HideDebugUtils bool

	CreateMessengerResult gpu.Result
	CreateMessengerErr    error

	// Messengers holds messengers that were created and not yet destroyed.
	Messengers []*Messenger
	Destroyed  bool

	debugUtilsEnabled bool
	creationCallback  gpu.DebugCallback
	nextMessengerID   int
}

// Messenger is the handle handed out by the fake.
type Messenger struct {
	ID   int
	Info gpu.DebugMessengerCreateInfo
}

func (i *Instance) EnumeratePhysicalDevices(out []gpu.PhysicalDevice) (int, error) {
	i.Log.record(CallEnumerateDevices)
	if out == nil {
		return len(i.Devices), nil
	}
	if len(out) != len(i.Devices) {
		return 0, errors.Newf("device buffer sized %d, want %d", len(out), len(i.Devices))
	}
	for idx, device := range i.Devices {
		out[idx] = device
	}
	return len(i.Devices), nil
}

func (i *Instance) ProcAddr(name string) gpu.Proc {
	i.Log.record(CallGetProcAddr)
	if !i.debugUtilsEnabled || i.HideDebugUtils {
		return nil
	}

	switch name {
	case gpu.CreateDebugUtilsMessengerProc:
		return gpu.CreateDebugUtilsMessengerFunc(i.createMessenger)
	case gpu.DestroyDebugUtilsMessengerProc:
		return gpu.DestroyDebugUtilsMessengerFunc(i.destroyMessenger)
	}
	return nil
}

func (i *Instance) createMessenger(info gpu.DebugMessengerCreateInfo) (gpu.DebugMessenger, gpu.Result, error) {
	i.Log.record(CallCreateDebugMessenger)
	if i.CreateMessengerErr != nil || i.CreateMessengerResult != gpu.Success {
		return nil, i.CreateMessengerResult, i.CreateMessengerErr
	}

	i.nextMessengerID++
	messenger := &Messenger{ID: i.nextMessengerID, Info: info}
	i.Messengers = append(i.Messengers, messenger)
	return messenger, gpu.Success, nil
}

func (i *Instance) destroyMessenger(handle gpu.DebugMessenger) {
	i.Log.record(CallDestroyDebugMessenger)
	messenger, ok := handle.(*Messenger)
	if !ok {
		return
	}
	for idx, m := range i.Messengers {
		if m == messenger {
			i.Messengers = append(i.Messengers[:idx], i.Messengers[idx+1:]...)
			return
		}
	}
}

func (i *Instance) Destroy() {
	i.Log.record(CallDestroyInstance)
	i.Destroyed = true
}

// Emit delivers msg to every live messenger whose masks match, and to the messenger chained
// into instance creation. It returns how many callbacks asked to abort.
func (i *Instance) Emit(msg gpu.DebugMessage) int {
	aborts := 0
	if i.creationCallback != nil && i.creationCallback(msg) {
		aborts++
	}
	for _, m := range i.Messengers {
		if m.Info.MessageSeverity&msg.Severity == 0 || m.Info.MessageType&msg.Type == 0 {
			continue
		}
		if m.Info.UserCallback(msg) {
			aborts++
		}
	}
	return aborts
}

// PhysicalDevice is a fake gpu.PhysicalDevice.
type PhysicalDevice struct {
	Log *CallLog

	Props    gpu.PhysicalDeviceProperties
	PropsErr error
	Feats    gpu.PhysicalDeviceFeatures
	Families []gpu.QueueFamilyProperties
}

// NewPhysicalDevice builds a device of the given type with the geometry shader feature set
// as requested and no queue families.
func NewPhysicalDevice(name string, deviceType gpu.PhysicalDeviceType, geometryShader bool) *PhysicalDevice {
	return &PhysicalDevice{
		Props: gpu.PhysicalDeviceProperties{
			DeviceName: name,
			DeviceType: deviceType,
			APIVersion: gpu.Vulkan1_2,
		},
		Feats: gpu.PhysicalDeviceFeatures{GeometryShader: geometryShader},
	}
}

func (d *PhysicalDevice) Properties() (*gpu.PhysicalDeviceProperties, error) {
	d.Log.record(CallGetProperties)
	if d.PropsErr != nil {
		return nil, d.PropsErr
	}
	props := d.Props
	return &props, nil
}

func (d *PhysicalDevice) Features() *gpu.PhysicalDeviceFeatures {
	d.Log.record(CallGetFeatures)
	feats := d.Feats
	return &feats
}

func (d *PhysicalDevice) QueueFamilyProperties(out []gpu.QueueFamilyProperties) int {
	d.Log.record(CallGetQueueFamilies)
	if out == nil {
		return len(d.Families)
	}
	return copy(out, d.Families)
}
