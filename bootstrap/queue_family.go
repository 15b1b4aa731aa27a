package bootstrap

import (
	"github.com/vkngwrapper/bootstrap/gpu"
)

type QueueFamilyIndices struct {
	Graphics *int
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.Graphics != nil
}

// ResolveQueueFamilies picks the first family supporting graphics.
func ResolveQueueFamilies(families []gpu.QueueFamilyProperties) QueueFamilyIndices {
	indices := QueueFamilyIndices{}

	graphics, found := FirstMatch(families, func(family gpu.QueueFamilyProperties) bool {
		return family.QueueFlags&gpu.QueueGraphics != 0
	})
	if found {
		indices.Graphics = &graphics
	}

	return indices
}

func FindQueueFamilies(device gpu.PhysicalDevice) QueueFamilyIndices {
	return ResolveQueueFamilies(gpu.QueueFamilies(device))
}
