// Package vkng implements the gpu driver interfaces on top of vkngwrapper.
package vkng

import (
	"reflect"
	"sort"
	"strings"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/bootstrap/gpu"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
)

type Loader struct {
	driver core1_0.GlobalDriver
}

// NewLoaderFromProcAddr builds a loader from vkGetInstanceProcAddr, as returned by
// sdl.VulkanGetVkGetInstanceProcAddr.
func NewLoaderFromProcAddr(procAddr unsafe.Pointer) (*Loader, error) {
	driver, err := core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "loading vulkan")
	}
	return &Loader{driver: driver}, nil
}

// NewSystemLoader loads the system vulkan library.
func NewSystemLoader() (*Loader, error) {
	driver, err := core.CreateSystemDriver()
	if err != nil {
		return nil, errors.Wrap(err, "loading vulkan")
	}
	return &Loader{driver: driver}, nil
}

func (l *Loader) EnumerateInstanceLayerProperties(out []gpu.LayerProperties) (int, error) {
	layers, res, err := l.driver.AvailableLayers()
	if err != nil {
		return 0, errors.Wrapf(err, "vkEnumerateInstanceLayerProperties: %s", gpu.Result(res))
	}

	names := sortedKeys(layers)
	for i := 0; i < len(out) && i < len(names); i++ {
		out[i] = gpu.LayerProperties{LayerName: names[i]}
	}
	return written(out, names), nil
}

func (l *Loader) EnumerateInstanceExtensionProperties(layerName string, out []gpu.ExtensionProperties) (int, error) {
	var extensions map[string]*core1_0.ExtensionProperties
	var res common.VkResult
	var err error
	if layerName == "" {
		extensions, res, err = l.driver.AvailableExtensions()
	} else {
		extensions, res, err = l.driver.AvailableExtensionsForLayer(layerName)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "vkEnumerateInstanceExtensionProperties: %s", gpu.Result(res))
	}

	names := sortedKeys(extensions)
	for i := 0; i < len(out) && i < len(names); i++ {
		out[i] = gpu.ExtensionProperties{ExtensionName: names[i]}
	}
	return written(out, names), nil
}

func (l *Loader) CreateInstance(info gpu.InstanceCreateInfo) (gpu.Instance, gpu.Result, error) {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:       info.Application.ApplicationName,
		ApplicationVersion:    common.Version(info.Application.ApplicationVersion),
		EngineName:            info.Application.EngineName,
		EngineVersion:         common.Version(info.Application.EngineVersion),
		APIVersion:            common.APIVersion(info.Application.APIVersion),
		EnabledExtensionNames: info.EnabledExtensionNames,
		EnabledLayerNames:     info.EnabledLayerNames,
	}

	if info.DebugMessenger != nil {
		instanceOptions.Next = messengerOptions(*info.DebugMessenger)
	}

	handle, res, err := l.driver.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, gpu.Result(res), err
	}

	instance, err := newInstance(l.driver, handle, info.EnabledExtensionNames)
	if err != nil {
		return nil, gpu.ErrorInitializationFailed, err
	}
	return instance, gpu.Result(res), nil
}

type instanceDriverBuilder interface {
	BuildInstanceDriver(instance core1_0.Instance) (core1_0.CoreInstanceDriver, error)
}

// newInstance loads the instance level commands for handle. If they cannot be loaded the
// handle is leaked: vkDestroyInstance is itself an instance level command.
func newInstance(builder instanceDriverBuilder, handle core1_0.Instance, extensions []string) (*Instance, error) {
	instanceDriver, err := builder.BuildInstanceDriver(handle)
	if err != nil {
		return nil, errors.Wrap(err, "loading instance commands")
	}

	debugUtils := false
	for _, extension := range extensions {
		if extension == ext_debug_utils.ExtensionName {
			debugUtils = true
		}
	}

	return &Instance{driver: instanceDriver, debugUtils: debugUtils}, nil
}

type Instance struct {
	driver      core1_0.CoreInstanceDriver
	debugUtils  bool
	debugDriver ext_debug_utils.ExtensionDriver
}

func (i *Instance) EnumeratePhysicalDevices(out []gpu.PhysicalDevice) (int, error) {
	devices, res, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return 0, errors.Wrapf(err, "vkEnumeratePhysicalDevices: %s", gpu.Result(res))
	}

	for index := 0; index < len(out) && index < len(devices); index++ {
		out[index] = &PhysicalDevice{driver: i.driver, device: devices[index]}
	}
	return written(out, devices), nil
}

// ProcAddr resolves the debug utils commands. They are only available when the extension
// was enabled at instance creation.
func (i *Instance) ProcAddr(name string) gpu.Proc {
	if !i.debugUtils {
		return nil
	}
	if i.debugDriver == nil {
		i.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.driver)
		if i.debugDriver == nil {
			return nil
		}
	}

	switch name {
	case gpu.CreateDebugUtilsMessengerProc:
		return gpu.CreateDebugUtilsMessengerFunc(i.createDebugUtilsMessenger)
	case gpu.DestroyDebugUtilsMessengerProc:
		return gpu.DestroyDebugUtilsMessengerFunc(i.destroyDebugUtilsMessenger)
	}
	return nil
}

func (i *Instance) createDebugUtilsMessenger(info gpu.DebugMessengerCreateInfo) (gpu.DebugMessenger, gpu.Result, error) {
	messenger, res, err := i.debugDriver.CreateDebugUtilsMessenger(nil, messengerOptions(info))
	if err != nil {
		return nil, gpu.Result(res), err
	}
	return messenger, gpu.Result(res), nil
}

func (i *Instance) destroyDebugUtilsMessenger(messenger gpu.DebugMessenger) {
	handle, ok := messenger.(ext_debug_utils.DebugUtilsMessenger)
	if !ok || !handle.Initialized() {
		return
	}
	i.debugDriver.DestroyDebugUtilsMessenger(handle, nil)
}

func (i *Instance) Destroy() {
	i.driver.DestroyInstance(nil)
}

type PhysicalDevice struct {
	driver core1_0.CoreInstanceDriver
	device core1_0.PhysicalDevice
}

func (d *PhysicalDevice) Properties() (*gpu.PhysicalDeviceProperties, error) {
	props, err := d.driver.GetPhysicalDeviceProperties(d.device)
	if err != nil {
		return nil, err
	}

	return &gpu.PhysicalDeviceProperties{
		DeviceID:          props.DeviceID,
		VendorID:          props.VendorID,
		DeviceName:        props.DriverName,
		DeviceType:        gpu.PhysicalDeviceType(props.DriverType),
		APIVersion:        gpu.Version(props.APIVersion),
		DriverVersion:     gpu.Version(props.DriverVersion),
		PipelineCacheUUID: uuid.UUID(props.PipelineCacheUUID),
	}, nil
}

func (d *PhysicalDevice) Features() *gpu.PhysicalDeviceFeatures {
	features := d.driver.GetPhysicalDeviceFeatures(d.device)
	if features == nil {
		return nil
	}

	out := &gpu.PhysicalDeviceFeatures{}
	copyFeatures(out, features)
	return out
}

func (d *PhysicalDevice) QueueFamilyProperties(out []gpu.QueueFamilyProperties) int {
	families := d.driver.GetPhysicalDeviceQueueFamilyProperties(d.device)

	for index := 0; index < len(out) && index < len(families); index++ {
		family := families[index]
		out[index] = gpu.QueueFamilyProperties{
			QueueFlags: gpu.QueueFlags(family.QueueFlags),
			QueueCount: family.QueueCount,
			MinImageTransferGranularity: gpu.Extent3D{
				Width:  family.MinImageTransferGranularity.Width,
				Height: family.MinImageTransferGranularity.Height,
				Depth:  family.MinImageTransferGranularity.Depth,
			},
		}
	}
	return written(out, families)
}

func messengerOptions(info gpu.DebugMessengerCreateInfo) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	callback := info.UserCallback
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.DebugUtilsMessageSeverityFlags(info.MessageSeverity),
		MessageType:     ext_debug_utils.DebugUtilsMessageTypeFlags(info.MessageType),
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			if callback == nil || data == nil {
				return false
			}
			return callback(gpu.DebugMessage{
				Severity: gpu.MessageSeverity(severity),
				Type:     gpu.MessageType(msgType),
				Message:  data.Message,
			})
		},
	}
}

// featureAliases maps vkngwrapper feature names that do not follow the Vulkan header
// spelling onto the gpu field name.
var featureAliases = map[string]string{
	"TextureCompressionAstcLdc": "TextureCompressionASTC_LDR",
}

// copyFeatures copies every bool field of src into the field of dst with the same name,
// ignoring case and underscores.
func copyFeatures(dst *gpu.PhysicalDeviceFeatures, src *core1_0.PhysicalDeviceFeatures) {
	srcValue := reflect.ValueOf(src).Elem()
	srcFields := make(map[string]reflect.Value, srcValue.NumField())
	for i := 0; i < srcValue.NumField(); i++ {
		field := srcValue.Field(i)
		if field.Kind() != reflect.Bool {
			continue
		}
		name := srcValue.Type().Field(i).Name
		if alias, ok := featureAliases[name]; ok {
			name = alias
		}
		srcFields[featureKey(name)] = field
	}

	dstValue := reflect.ValueOf(dst).Elem()
	for i := 0; i < dstValue.NumField(); i++ {
		if field, ok := srcFields[featureKey(dstValue.Type().Field(i).Name)]; ok {
			dstValue.Field(i).SetBool(field.Bool())
		}
	}
}

func featureKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// written is the count reported by a two-call query: the full count for a count query,
// otherwise the number of entries copied into out.
func written[T, U any](out []T, all []U) int {
	if out == nil || len(out) > len(all) {
		return len(all)
	}
	return len(out)
}
