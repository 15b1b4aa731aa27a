// Package report logs what the driver offers: instance extensions, device properties,
// device features and queue families.
package report

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/bootstrap/gpu"
)

var ErrNoExtensions = errors.New("could not enumerate instance extensions")

type Reporter struct {
	log logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Reporter {
	return &Reporter{log: log}
}

// ReportExtensions logs the instance extensions available from the driver and implicit
// layers. An empty list is an error.
func (r *Reporter) ReportExtensions(loader gpu.Loader) error {
	extensions, err := gpu.AvailableExtensions(loader, "")
	if err != nil {
		return errors.Mark(errors.Wrap(err, "vkEnumerateInstanceExtensionProperties"), ErrNoExtensions)
	}
	if len(extensions) == 0 {
		return ErrNoExtensions
	}

	names := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		names = append(names, extension.ExtensionName)
	}

	r.log.WithFields(logrus.Fields{
		"layer": "default",
		"count": len(names),
	}).Infof("Available extensions: %s", strings.Join(names, ", "))
	return nil
}

// ReportDevice logs properties, features and queue families of device. It never fails, a
// device whose properties cannot be read is logged as such.
func (r *Reporter) ReportDevice(device gpu.PhysicalDevice) {
	props, err := device.Properties()
	if err != nil {
		r.log.WithError(err).Warn("could not read device properties")
		return
	}

	log := r.log.WithField("device", props.DeviceName)
	log.WithFields(logrus.Fields{
		"id":         props.DeviceID,
		"vendor":     fmt.Sprintf("0x%04x", props.VendorID),
		"type":       props.DeviceType.String(),
		"api":        props.APIVersion.String(),
		"driver":     props.DriverVersion.String(),
		"cache_uuid": props.PipelineCacheUUID.String(),
	}).Info("physical device")

	for _, feature := range Features(device.Features()) {
		log.WithField("supported", feature.Supported).Debug(feature.Name)
	}

	for index, family := range gpu.QueueFamilies(device) {
		granularity := family.MinImageTransferGranularity
		log.WithFields(logrus.Fields{
			"family":      index,
			"flags":       family.QueueFlags.String(),
			"count":       family.QueueCount,
			"granularity": fmt.Sprintf("%dx%dx%d", granularity.Width, granularity.Height, granularity.Depth),
		}).Info("queue family")
	}
}

type Feature struct {
	Name      string
	Supported bool
}

// Features lists every device feature in declaration order, named as in the Vulkan headers.
func Features(features *gpu.PhysicalDeviceFeatures) []Feature {
	if features == nil {
		return nil
	}

	value := reflect.ValueOf(features).Elem()
	valueType := value.Type()

	out := make([]Feature, 0, valueType.NumField())
	for i := 0; i < valueType.NumField(); i++ {
		out = append(out, Feature{
			Name:      lowerFirst(valueType.Field(i).Name),
			Supported: value.Field(i).Bool(),
		})
	}
	return out
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
