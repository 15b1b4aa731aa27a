package gpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/bootstrap/gpu"
)

func TestCreateVersion(t *testing.T) {
	v := gpu.CreateVersion(1, 2, 3)
	assert.Equal(t, uint32(1), v.Major())
	assert.Equal(t, uint32(2), v.Minor())
	assert.Equal(t, uint32(3), v.Patch())
	assert.Equal(t, "1.2.3", v.String())

	assert.Equal(t, gpu.Vulkan1_0, gpu.CreateVersion(1, 0, 0))
	assert.Equal(t, gpu.Vulkan1_2, gpu.CreateVersion(1, 2, 0))
	// VK_MAKE_VERSION(1, 0, 0)
	assert.Equal(t, gpu.Version(4194304), gpu.Vulkan1_0)
}

func TestParseVersion(t *testing.T) {
	v, err := gpu.ParseVersion("1.3.250")
	require.NoError(t, err)
	assert.Equal(t, gpu.CreateVersion(1, 3, 250), v)

	for _, bad := range []string{"", "1", "1.2", "a.b.c", "1024.0.0", "1.0.4096"} {
		_, err := gpu.ParseVersion(bad)
		assert.Error(t, err, bad)
	}
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "VK_SUCCESS", gpu.Success.String())
	assert.Equal(t, "VK_ERROR_LAYER_NOT_PRESENT", gpu.ErrorLayerNotPresent.String())
	assert.Equal(t, "VkResult(-13)", gpu.Result(-13).String())
}

func TestPhysicalDeviceTypeString(t *testing.T) {
	assert.Equal(t, "unknown type", gpu.PhysicalDeviceTypeOther.String())
	assert.Equal(t, "Integrated GPU", gpu.PhysicalDeviceTypeIntegratedGPU.String())
	assert.Equal(t, "Discrete GPU", gpu.PhysicalDeviceTypeDiscreteGPU.String())
	assert.Equal(t, "Virtual GPU", gpu.PhysicalDeviceTypeVirtualGPU.String())
	assert.Equal(t, "CPU", gpu.PhysicalDeviceTypeCPU.String())
}

func TestQueueFlagsString(t *testing.T) {
	assert.Equal(t, "NONE", gpu.QueueFlags(0).String())
	assert.Equal(t, "GRAPHICS|COMPUTE", (gpu.QueueGraphics | gpu.QueueCompute).String())
	assert.Equal(t, "TRANSFER|SPARSE_BINDING|PROTECTED", (gpu.QueueTransfer | gpu.QueueSparseBinding | gpu.QueueProtected).String())
}

func TestMessageStrings(t *testing.T) {
	assert.Equal(t, "Error", (gpu.SeverityVerbose | gpu.SeverityError).String())
	assert.Equal(t, "Warning", gpu.SeverityWarning.String())
	assert.Equal(t, "Verbose", gpu.SeverityVerbose.String())
	assert.Equal(t, "None", gpu.MessageSeverity(0).String())

	assert.Equal(t, "General|Performance", (gpu.TypeGeneral | gpu.TypePerformance).String())
	assert.Equal(t, "None", gpu.MessageType(0).String())
}
