package bootstrap_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/bootstrap/bootstrap"
	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/gpu"
)

func TestInstanceFactoryApplicationInfo(t *testing.T) {
	loader := newDriver()
	cfg := configWithDiagnostics(false)
	cfg.Application.Name = "Triangle"
	cfg.Application.APIVersion = gpu.Vulkan1_2

	instance, err := bootstrap.NewInstanceFactory(cfg, loader).Create(bootstrap.Negotiation{
		Extensions: []string{"VK_KHR_surface"},
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, instance)

	info := loader.LastCreateInfo
	require.NotNil(t, info)
	assert.Equal(t, gpu.ApplicationInfo{
		ApplicationName:    "Triangle",
		ApplicationVersion: gpu.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      gpu.CreateVersion(1, 0, 0),
		APIVersion:         gpu.Vulkan1_2,
	}, info.Application)
	assert.Equal(t, []string{"VK_KHR_surface"}, info.EnabledExtensionNames)
}

func TestInstanceFactoryDiagnosticsDisabledOmitsLayersAndChain(t *testing.T) {
	loader := newDriver()
	logger, _ := test.NewNullLogger()
	debug := bootstrap.NewDebugChannelBinder(configWithDiagnostics(false), logger).CreateInfo()

	_, err := bootstrap.NewInstanceFactory(configWithDiagnostics(false), loader).Create(bootstrap.Negotiation{
		Layers: []string{config.KhronosValidationLayer},
	}, &debug)
	require.NoError(t, err)

	assert.Nil(t, loader.LastCreateInfo.EnabledLayerNames)
	assert.Nil(t, loader.LastCreateInfo.DebugMessenger)
}

func TestInstanceFactoryDiagnosticsEnabledChainsMessenger(t *testing.T) {
	loader := newDriver()
	logger, hook := test.NewNullLogger()
	debug := bootstrap.NewDebugChannelBinder(configWithDiagnostics(true), logger).CreateInfo()

	_, err := bootstrap.NewInstanceFactory(configWithDiagnostics(true), loader).Create(bootstrap.Negotiation{
		Extensions: []string{bootstrap.DebugUtilsExtensionName},
		Layers:     []string{config.KhronosValidationLayer},
	}, &debug)
	require.NoError(t, err)

	assert.Equal(t, []string{config.KhronosValidationLayer}, loader.LastCreateInfo.EnabledLayerNames)
	require.NotNil(t, loader.LastCreateInfo.DebugMessenger)

	// messages emitted during instance creation reach the chained callback
	loader.Instance.Emit(gpu.DebugMessage{Severity: gpu.SeverityWarning, Type: gpu.TypeValidation, Message: "chained"})
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "chained", hook.LastEntry().Message)
}

func TestInstanceFactoryDriverRejection(t *testing.T) {
	cases := []struct {
		name   string
		result gpu.Result
		err    error
	}{
		{"result only", gpu.ErrorIncompatibleDriver, nil},
		{"error only", gpu.Success, errors.New("loader missing")},
		{"both", gpu.ErrorLayerNotPresent, errors.New("layer vanished")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			loader := newDriver()
			loader.CreateResult = c.result
			loader.CreateErr = c.err

			instance, err := bootstrap.NewInstanceFactory(configWithDiagnostics(true), loader).Create(bootstrap.Negotiation{}, nil)
			assert.Nil(t, instance)
			require.Error(t, err)
			assert.True(t, errors.Is(err, bootstrap.ErrDriverRejected))

			res, ok := bootstrap.ResultOf(err)
			require.True(t, ok)
			assert.Equal(t, c.result, res)
		})
	}
}
