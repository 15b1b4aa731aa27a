package gpu

// enumerate runs the two-call pattern: a nil query for the count, then a query into a
// buffer of exactly that size. The result is trimmed to what the second call wrote.
func enumerate[T any](query func(out []T) (int, error)) ([]T, error) {
	count, err := query(nil)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	out := make([]T, count)
	written, err := query(out)
	if err != nil {
		return nil, err
	}
	if written < count {
		out = out[:written]
	}
	return out, nil
}

func AvailableLayers(loader Loader) ([]LayerProperties, error) {
	return enumerate(loader.EnumerateInstanceLayerProperties)
}

// AvailableExtensions lists instance extensions provided by layerName, or by the driver and
// implicit layers when layerName is empty.
func AvailableExtensions(loader Loader, layerName string) ([]ExtensionProperties, error) {
	return enumerate(func(out []ExtensionProperties) (int, error) {
		return loader.EnumerateInstanceExtensionProperties(layerName, out)
	})
}

func PhysicalDevices(instance Instance) ([]PhysicalDevice, error) {
	return enumerate(instance.EnumeratePhysicalDevices)
}

func QueueFamilies(device PhysicalDevice) []QueueFamilyProperties {
	families, _ := enumerate(func(out []QueueFamilyProperties) (int, error) {
		return device.QueueFamilyProperties(out), nil
	})
	return families
}
