package gpu

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Result is a native VkResult code.
type Result int32

const (
	Success                   Result = 0
	ErrorOutOfHostMemory      Result = -1
	ErrorOutOfDeviceMemory    Result = -2
	ErrorInitializationFailed Result = -3
	ErrorLayerNotPresent      Result = -6
	ErrorExtensionNotPresent  Result = -7
	ErrorIncompatibleDriver   Result = -9
)

var resultNames = map[Result]string{
	Success:                   "VK_SUCCESS",
	ErrorOutOfHostMemory:      "VK_ERROR_OUT_OF_HOST_MEMORY",
	ErrorOutOfDeviceMemory:    "VK_ERROR_OUT_OF_DEVICE_MEMORY",
	ErrorInitializationFailed: "VK_ERROR_INITIALIZATION_FAILED",
	ErrorLayerNotPresent:      "VK_ERROR_LAYER_NOT_PRESENT",
	ErrorExtensionNotPresent:  "VK_ERROR_EXTENSION_NOT_PRESENT",
	ErrorIncompatibleDriver:   "VK_ERROR_INCOMPATIBLE_DRIVER",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("VkResult(%d)", int32(r))
}

type LayerProperties struct {
	LayerName string
}

type ExtensionProperties struct {
	ExtensionName string
}

type ApplicationInfo struct {
	ApplicationName    string
	ApplicationVersion Version
	EngineName         string
	EngineVersion      Version
	APIVersion         Version
}

type InstanceCreateInfo struct {
	Application           ApplicationInfo
	EnabledExtensionNames []string
	EnabledLayerNames     []string

	// DebugMessenger is chained into instance creation so that messages emitted while the
	// instance is being created are reported. Nil leaves the chain empty.
	DebugMessenger *DebugMessengerCreateInfo
}

type PhysicalDeviceType int

const (
	PhysicalDeviceTypeOther PhysicalDeviceType = iota
	PhysicalDeviceTypeIntegratedGPU
	PhysicalDeviceTypeDiscreteGPU
	PhysicalDeviceTypeVirtualGPU
	PhysicalDeviceTypeCPU
)

func (t PhysicalDeviceType) String() string {
	switch t {
	case PhysicalDeviceTypeIntegratedGPU:
		return "Integrated GPU"
	case PhysicalDeviceTypeDiscreteGPU:
		return "Discrete GPU"
	case PhysicalDeviceTypeVirtualGPU:
		return "Virtual GPU"
	case PhysicalDeviceTypeCPU:
		return "CPU"
	}
	return "unknown type"
}

type PhysicalDeviceProperties struct {
	DeviceID          uint32
	VendorID          uint32
	DeviceName        string
	DeviceType        PhysicalDeviceType
	APIVersion        Version
	DriverVersion     Version
	PipelineCacheUUID uuid.UUID
}

// PhysicalDeviceFeatures is VkPhysicalDeviceFeatures.
type PhysicalDeviceFeatures struct {
	RobustBufferAccess                      bool
	FullDrawIndexUint32                     bool
	ImageCubeArray                          bool
	IndependentBlend                        bool
	GeometryShader                          bool
	TessellationShader                      bool
	SampleRateShading                       bool
	DualSrcBlend                            bool
	LogicOp                                 bool
	MultiDrawIndirect                       bool
	DrawIndirectFirstInstance               bool
	DepthClamp                              bool
	DepthBiasClamp                          bool
	FillModeNonSolid                        bool
	DepthBounds                             bool
	WideLines                               bool
	LargePoints                             bool
	AlphaToOne                              bool
	MultiViewport                           bool
	SamplerAnisotropy                       bool
	TextureCompressionETC2                  bool
	TextureCompressionASTC_LDR              bool
	TextureCompressionBC                    bool
	OcclusionQueryPrecise                   bool
	PipelineStatisticsQuery                 bool
	VertexPipelineStoresAndAtomics          bool
	FragmentStoresAndAtomics                bool
	ShaderTessellationAndGeometryPointSize  bool
	ShaderImageGatherExtended               bool
	ShaderStorageImageExtendedFormats       bool
	ShaderStorageImageMultisample           bool
	ShaderStorageImageReadWithoutFormat     bool
	ShaderStorageImageWriteWithoutFormat    bool
	ShaderUniformBufferArrayDynamicIndexing bool
	ShaderSampledImageArrayDynamicIndexing  bool
	ShaderStorageBufferArrayDynamicIndexing bool
	ShaderStorageImageArrayDynamicIndexing  bool
	ShaderClipDistance                      bool
	ShaderCullDistance                      bool
	ShaderFloat64                           bool
	ShaderInt64                             bool
	ShaderInt16                             bool
	ShaderResourceResidency                 bool
	ShaderResourceMinLod                    bool
	SparseBinding                           bool
	SparseResidencyBuffer                   bool
	SparseResidencyImage2D                  bool
	SparseResidencyImage3D                  bool
	SparseResidency2Samples                 bool
	SparseResidency4Samples                 bool
	SparseResidency8Samples                 bool
	SparseResidency16Samples                bool
	SparseResidencyAliased                  bool
	VariableMultisampleRate                 bool
	InheritedQueries                        bool
}

type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
	QueueProtected
)

var queueFlagNames = []struct {
	flag QueueFlags
	name string
}{
	{QueueGraphics, "GRAPHICS"},
	{QueueCompute, "COMPUTE"},
	{QueueTransfer, "TRANSFER"},
	{QueueSparseBinding, "SPARSE_BINDING"},
	{QueueProtected, "PROTECTED"},
}

func (f QueueFlags) String() string {
	var names []string
	for _, entry := range queueFlagNames {
		if f&entry.flag != 0 {
			names = append(names, entry.name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}

type Extent3D struct {
	Width, Height, Depth int
}

type QueueFamilyProperties struct {
	QueueFlags                  QueueFlags
	QueueCount                  int
	MinImageTransferGranularity Extent3D
}

type MessageSeverity uint32

const (
	SeverityVerbose MessageSeverity = 0x1
	SeverityInfo    MessageSeverity = 0x10
	SeverityWarning MessageSeverity = 0x100
	SeverityError   MessageSeverity = 0x1000
)

func (s MessageSeverity) String() string {
	switch {
	case s&SeverityError != 0:
		return "Error"
	case s&SeverityWarning != 0:
		return "Warning"
	case s&SeverityInfo != 0:
		return "Info"
	case s&SeverityVerbose != 0:
		return "Verbose"
	}
	return "None"
}

type MessageType uint32

const (
	TypeGeneral MessageType = 1 << iota
	TypeValidation
	TypePerformance
)

func (t MessageType) String() string {
	var names []string
	if t&TypeGeneral != 0 {
		names = append(names, "General")
	}
	if t&TypeValidation != 0 {
		names = append(names, "Validation")
	}
	if t&TypePerformance != 0 {
		names = append(names, "Performance")
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

type DebugMessage struct {
	Severity MessageSeverity
	Type     MessageType
	Message  string
}

// DebugCallback receives messenger events. Returning true asks the driver to abort the call
// that triggered the message.
type DebugCallback func(msg DebugMessage) bool

type DebugMessengerCreateInfo struct {
	MessageSeverity MessageSeverity
	MessageType     MessageType
	UserCallback    DebugCallback
}
