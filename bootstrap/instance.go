package bootstrap

import (
	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/gpu"
)

type InstanceFactory struct {
	cfg    config.Configuration
	loader gpu.Loader
}

func NewInstanceFactory(cfg config.Configuration, loader gpu.Loader) *InstanceFactory {
	return &InstanceFactory{
		cfg:    cfg,
		loader: loader,
	}
}

// Create builds the instance from the negotiated lists. With diagnostics enabled the layers
// and debug, when non-nil, are chained into the create info so that instance creation and
// destruction themselves are covered by a messenger.
func (f *InstanceFactory) Create(neg Negotiation, debug *gpu.DebugMessengerCreateInfo) (gpu.Instance, error) {
	app := f.cfg.Application
	createInfo := gpu.InstanceCreateInfo{
		Application: gpu.ApplicationInfo{
			ApplicationName:    app.Name,
			ApplicationVersion: app.Version,
			EngineName:         app.EngineName,
			EngineVersion:      app.EngineVersion,
			APIVersion:         app.APIVersion,
		},
		EnabledExtensionNames: neg.Extensions,
	}

	if f.cfg.Diagnostics.Enabled {
		createInfo.EnabledLayerNames = neg.Layers
		createInfo.DebugMessenger = debug
	}

	instance, res, err := f.loader.CreateInstance(createInfo)
	if err != nil || res != gpu.Success {
		return nil, driverError("vkCreateInstance", res, err)
	}
	return instance, nil
}
