package bootstrap

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/bootstrap/gpu"
)

// DeviceReporter receives every physical device the selector visits, before it is evaluated.
type DeviceReporter interface {
	ReportDevice(device gpu.PhysicalDevice)
}

// Selection is the chosen physical device.
type Selection struct {
	Index      int
	Device     gpu.PhysicalDevice
	Properties *gpu.PhysicalDeviceProperties
}

// FirstMatch returns the index of the first item satisfying pred. pred is not called for
// items after the match.
func FirstMatch[T any](items []T, pred func(T) bool) (int, bool) {
	for i, item := range items {
		if pred(item) {
			return i, true
		}
	}
	return -1, false
}

// IsDeviceSuitable accepts discrete GPUs with geometry shader support.
func IsDeviceSuitable(props *gpu.PhysicalDeviceProperties, features *gpu.PhysicalDeviceFeatures) bool {
	if props == nil || features == nil {
		return false
	}
	return props.DeviceType == gpu.PhysicalDeviceTypeDiscreteGPU && features.GeometryShader
}

type DeviceSelector struct {
	log      logrus.FieldLogger
	reporter DeviceReporter
}

// NewDeviceSelector returns a selector. reporter may be nil.
func NewDeviceSelector(log logrus.FieldLogger, reporter DeviceReporter) *DeviceSelector {
	return &DeviceSelector{
		log:      log,
		reporter: reporter,
	}
}

func (s *DeviceSelector) Select(instance gpu.Instance) (Selection, error) {
	devices, err := gpu.PhysicalDevices(instance)
	if err != nil {
		return Selection{}, errors.Mark(errors.Wrap(err, "vkEnumeratePhysicalDevices"), ErrDriverRejected)
	}
	if len(devices) == 0 {
		return Selection{}, ErrNoDevices
	}

	var chosen *gpu.PhysicalDeviceProperties
	var propsErr error
	index, found := FirstMatch(devices, func(device gpu.PhysicalDevice) bool {
		if s.reporter != nil {
			s.reporter.ReportDevice(device)
		}

		props, err := device.Properties()
		if err != nil {
			propsErr = err
			return true
		}
		if !IsDeviceSuitable(props, device.Features()) {
			return false
		}
		chosen = props
		return true
	})
	if propsErr != nil {
		return Selection{}, errors.Wrapf(propsErr, "reading properties of device %d", index)
	}
	if !found {
		return Selection{}, errors.WithDetailf(ErrNoSuitableDevice, "%d devices evaluated", len(devices))
	}

	s.log.WithFields(logrus.Fields{
		"index": index,
		"type":  chosen.DeviceType.String(),
	}).Infof("Using GPU: %s", chosen.DeviceName)

	return Selection{
		Index:      index,
		Device:     devices[index],
		Properties: chosen,
	}, nil
}
