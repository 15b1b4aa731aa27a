package report_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/bootstrap/gpu"
	"github.com/vkngwrapper/bootstrap/gpu/gputest"
	"github.com/vkngwrapper/bootstrap/report"
)

func TestReportExtensions(t *testing.T) {
	logger, hook := test.NewNullLogger()
	loader := gputest.NewLoader(nil)
	loader.Extensions = map[string][]string{"": {"VK_KHR_surface", "VK_EXT_debug_utils"}}

	require.NoError(t, report.New(logger).ReportExtensions(loader))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Available extensions: VK_KHR_surface, VK_EXT_debug_utils", entry.Message)
	assert.Equal(t, 2, entry.Data["count"])
}

func TestReportExtensionsEmpty(t *testing.T) {
	logger, hook := test.NewNullLogger()

	err := report.New(logger).ReportExtensions(gputest.NewLoader(nil))
	assert.True(t, errors.Is(err, report.ErrNoExtensions))
	assert.Empty(t, hook.AllEntries())
}

func TestReportDevice(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	cacheUUID := uuid.MustParse("6f1c3b2a-9d4e-4f5a-8b7c-0e1d2c3b4a59")
	device := gputest.NewPhysicalDevice("Radeon", gpu.PhysicalDeviceTypeDiscreteGPU, true)
	device.Props.DeviceID = 0x73bf
	device.Props.VendorID = 0x1002
	device.Props.PipelineCacheUUID = cacheUUID
	device.Families = []gpu.QueueFamilyProperties{
		{QueueFlags: gpu.QueueGraphics | gpu.QueueCompute, QueueCount: 1, MinImageTransferGranularity: gpu.Extent3D{Width: 1, Height: 1, Depth: 1}},
		{QueueFlags: gpu.QueueTransfer, QueueCount: 2, MinImageTransferGranularity: gpu.Extent3D{Width: 16, Height: 16, Depth: 8}},
	}

	report.New(logger).ReportDevice(device)

	entries := hook.AllEntries()
	require.Len(t, entries, 1+55+2)

	props := entries[0]
	assert.Equal(t, "physical device", props.Message)
	assert.Equal(t, "Radeon", props.Data["device"])
	assert.Equal(t, "Discrete GPU", props.Data["type"])
	assert.Equal(t, "0x1002", props.Data["vendor"])
	assert.Equal(t, "1.2.0", props.Data["api"])
	assert.Equal(t, cacheUUID.String(), props.Data["cache_uuid"])

	geometryShader := entries[1+4]
	assert.Equal(t, "geometryShader", geometryShader.Message)
	assert.Equal(t, true, geometryShader.Data["supported"])

	transfer := entries[len(entries)-1]
	assert.Equal(t, "queue family", transfer.Message)
	assert.Equal(t, 1, transfer.Data["family"])
	assert.Equal(t, "TRANSFER", transfer.Data["flags"])
	assert.Equal(t, 2, transfer.Data["count"])
	assert.Equal(t, "16x16x8", transfer.Data["granularity"])
}

func TestReportDevicePropertiesFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	device := gputest.NewPhysicalDevice("lost", gpu.PhysicalDeviceTypeDiscreteGPU, true)
	device.PropsErr = errors.New("device lost")

	report.New(logger).ReportDevice(device)

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestFeatures(t *testing.T) {
	features := report.Features(&gpu.PhysicalDeviceFeatures{
		RobustBufferAccess:         true,
		TextureCompressionASTC_LDR: true,
		InheritedQueries:           true,
	})
	require.Len(t, features, 55)

	assert.Equal(t, report.Feature{Name: "robustBufferAccess", Supported: true}, features[0])
	assert.Equal(t, report.Feature{Name: "fullDrawIndexUint32", Supported: false}, features[1])
	assert.Equal(t, report.Feature{Name: "inheritedQueries", Supported: true}, features[54])

	supported := 0
	for _, feature := range features {
		if feature.Name == "textureCompressionASTC_LDR" {
			assert.True(t, feature.Supported)
		}
		if feature.Supported {
			supported++
		}
	}
	assert.Equal(t, 3, supported)

	assert.Nil(t, report.Features(nil))
}
