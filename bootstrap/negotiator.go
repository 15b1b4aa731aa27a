package bootstrap

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/gpu"
)

// DebugUtilsExtensionName is VK_EXT_DEBUG_UTILS_EXTENSION_NAME.
const DebugUtilsExtensionName = "VK_EXT_debug_utils"

// Negotiation is the outcome of extension and layer negotiation.
type Negotiation struct {
	Extensions []string
	Layers     []string
}

// Negotiator computes the instance extension list and checks validation layer support.
type Negotiator struct {
	diagnostics config.DiagnosticsConfiguration
	loader      gpu.Loader
}

func NewNegotiator(cfg config.Configuration, loader gpu.Loader) *Negotiator {
	return &Negotiator{
		diagnostics: cfg.Diagnostics,
		loader:      loader,
	}
}

// RequiredExtensions returns base followed by the debug utils extension when diagnostics are
// enabled. base is not modified and duplicates are kept.
func (n *Negotiator) RequiredExtensions(base []string) []string {
	extensions := make([]string, 0, len(base)+1)
	extensions = append(extensions, base...)

	if n.diagnostics.Enabled {
		extensions = append(extensions, DebugUtilsExtensionName)
	}
	return extensions
}

// CheckValidationLayerSupport fails with ErrLayerUnavailable unless every configured
// validation layer is reported by the driver.
func (n *Negotiator) CheckValidationLayerSupport() error {
	availableLayers, err := gpu.AvailableLayers(n.loader)
	if err != nil {
		return errors.Wrap(err, "enumerating instance layers")
	}

	for _, layerName := range n.diagnostics.ValidationLayers {
		layerFound := false
		for _, layer := range availableLayers {
			if layer.LayerName == layerName {
				layerFound = true
				break
			}
		}

		if !layerFound {
			return errors.WithHint(
				errors.Wrapf(ErrLayerUnavailable, "layer %s", layerName),
				"install the LunarG Vulkan SDK or build with -tags release",
			)
		}
	}

	return nil
}

// Negotiate checks layers, when diagnostics are enabled, and returns the lists to hand to
// instance creation. It never calls into the driver beyond layer enumeration.
func (n *Negotiator) Negotiate(base []string) (Negotiation, error) {
	if !n.diagnostics.Enabled {
		return Negotiation{Extensions: n.RequiredExtensions(base)}, nil
	}

	if err := n.CheckValidationLayerSupport(); err != nil {
		return Negotiation{}, err
	}

	return Negotiation{
		Extensions: n.RequiredExtensions(base),
		Layers:     append([]string(nil), n.diagnostics.ValidationLayers...),
	}, nil
}
