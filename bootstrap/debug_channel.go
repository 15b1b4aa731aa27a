package bootstrap

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/gpu"
)

// DebugChannelBinder creates and destroys debug messengers through the debug utils
// extension commands, which have to be looked up on the instance at runtime.
type DebugChannelBinder struct {
	diagnostics config.DiagnosticsConfiguration
	log         logrus.FieldLogger
}

func NewDebugChannelBinder(cfg config.Configuration, log logrus.FieldLogger) *DebugChannelBinder {
	return &DebugChannelBinder{
		diagnostics: cfg.Diagnostics,
		log:         log,
	}
}

// CreateInfo returns the messenger descriptor. The same descriptor is chained into instance
// creation and used for the persistent messenger; each use yields its own messenger.
func (b *DebugChannelBinder) CreateInfo() gpu.DebugMessengerCreateInfo {
	return gpu.DebugMessengerCreateInfo{
		MessageSeverity: b.diagnostics.MessageSeverity,
		MessageType:     b.diagnostics.MessageType,
		UserCallback:    b.logDebug,
	}
}

// Create resolves vkCreateDebugUtilsMessengerEXT and calls it. An unresolved command yields
// ErrNotPresent.
func (b *DebugChannelBinder) Create(instance gpu.Instance, info gpu.DebugMessengerCreateInfo) (gpu.DebugMessenger, error) {
	create, _ := instance.ProcAddr(gpu.CreateDebugUtilsMessengerProc).(gpu.CreateDebugUtilsMessengerFunc)
	if create == nil {
		return nil, errors.Wrap(ErrNotPresent, gpu.CreateDebugUtilsMessengerProc)
	}

	messenger, res, err := create(info)
	if err != nil || res != gpu.Success {
		return nil, driverError(gpu.CreateDebugUtilsMessengerProc, res, err)
	}
	return messenger, nil
}

// Destroy resolves vkDestroyDebugUtilsMessengerEXT and calls it. It does nothing if the
// command cannot be resolved. Destroying the same messenger twice is the caller's problem.
func (b *DebugChannelBinder) Destroy(instance gpu.Instance, messenger gpu.DebugMessenger) {
	destroy, _ := instance.ProcAddr(gpu.DestroyDebugUtilsMessengerProc).(gpu.DestroyDebugUtilsMessengerFunc)
	if destroy == nil {
		return
	}
	destroy(messenger)
}

// Attach creates the persistent messenger when diagnostics are enabled. A driver without
// the debug utils commands leaves the instance without a messenger.
func (b *DebugChannelBinder) Attach(instance gpu.Instance) (gpu.DebugMessenger, error) {
	if !b.diagnostics.Enabled {
		return nil, nil
	}

	messenger, err := b.Create(instance, b.CreateInfo())
	if errors.Is(err, ErrNotPresent) {
		b.log.WithError(err).Warn("debug messenger unavailable, continuing without diagnostics")
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to set up debug messenger")
	}
	return messenger, nil
}

// Detach destroys a messenger returned by Attach.
func (b *DebugChannelBinder) Detach(instance gpu.Instance, messenger gpu.DebugMessenger) {
	if !b.diagnostics.Enabled || messenger == nil {
		return
	}
	b.Destroy(instance, messenger)
}

func (b *DebugChannelBinder) logDebug(msg gpu.DebugMessage) bool {
	entry := b.log.WithFields(logrus.Fields{
		"severity": msg.Severity.String(),
		"type":     msg.Type.String(),
	})

	switch {
	case msg.Severity&gpu.SeverityError != 0:
		entry.Error(msg.Message)
	case msg.Severity&gpu.SeverityWarning != 0:
		entry.Warn(msg.Message)
	case msg.Severity&gpu.SeverityInfo != 0:
		entry.Info(msg.Message)
	default:
		entry.Debug(msg.Message)
	}

	return false
}
