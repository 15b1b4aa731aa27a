// Package bootstrap negotiates a GPU context with the driver: instance extensions and
// validation layers, the instance itself, an optional debug messenger, a physical device
// and its graphics queue family.
package bootstrap

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/gpu"
)

// Reporter prints diagnostic information about the driver and the devices visited during
// selection. See the report package.
type Reporter interface {
	DeviceReporter
	ReportExtensions(loader gpu.Loader) error
}

type Option func(*Bootstrapper)

// WithReporter enables the extension and device report.
func WithReporter(reporter Reporter) Option {
	return func(b *Bootstrapper) {
		b.reporter = reporter
	}
}

type Bootstrapper struct {
	cfg    config.Configuration
	loader gpu.Loader
	log    logrus.FieldLogger

	reporter Reporter

	negotiator *Negotiator
	binder     *DebugChannelBinder
	instances  *InstanceFactory
}

func New(cfg config.Configuration, loader gpu.Loader, log logrus.FieldLogger, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		cfg:        cfg,
		loader:     loader,
		log:        log,
		negotiator: NewNegotiator(cfg, loader),
		binder:     NewDebugChannelBinder(cfg, log),
		instances:  NewInstanceFactory(cfg, loader),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run builds a Context. windowExtensions are the instance extensions the windowing system
// needs. On error everything created so far has already been released.
func (b *Bootstrapper) Run(windowExtensions []string) (*Context, error) {
	ctx := &Context{binder: b.binder}

	if err := b.initVulkan(ctx, windowExtensions); err != nil {
		ctx.Close()
		return nil, err
	}
	return ctx, nil
}

func (b *Bootstrapper) initVulkan(ctx *Context, windowExtensions []string) error {
	err := b.stage("createInstance", func() error {
		return b.createInstance(ctx, windowExtensions)
	})
	if err != nil {
		return err
	}

	err = b.stage("setupDebugMessenger", func() error {
		messenger, err := b.binder.Attach(ctx.Instance)
		ctx.Messenger = messenger
		return err
	})
	if err != nil {
		return err
	}

	return b.stage("pickPhysicalDevice", func() error {
		return b.pickPhysicalDevice(ctx)
	})
}

func (b *Bootstrapper) createInstance(ctx *Context, windowExtensions []string) error {
	neg, err := b.negotiator.Negotiate(windowExtensions)
	if err != nil {
		return err
	}

	if b.reporter != nil {
		if err := b.reporter.ReportExtensions(b.loader); err != nil {
			b.log.WithError(err).Warn("extension report failed")
		}
	}

	var debug *gpu.DebugMessengerCreateInfo
	if b.cfg.Diagnostics.Enabled {
		info := b.binder.CreateInfo()
		debug = &info
	}

	instance, err := b.instances.Create(neg, debug)
	if err != nil {
		return errors.Wrap(err, "failed to create instance")
	}
	ctx.Instance = instance
	return nil
}

func (b *Bootstrapper) pickPhysicalDevice(ctx *Context) error {
	var reporter DeviceReporter
	if b.reporter != nil {
		reporter = b.reporter
	}

	selection, err := NewDeviceSelector(b.log, reporter).Select(ctx.Instance)
	if err != nil {
		return err
	}
	ctx.Device = selection.Device
	ctx.Properties = selection.Properties

	ctx.Queues = FindQueueFamilies(selection.Device)
	if !ctx.Queues.IsComplete() {
		return errors.Wrapf(ErrIncompleteSelection, "device %s", selection.Properties.DeviceName)
	}
	return nil
}

func (b *Bootstrapper) stage(name string, fn func() error) error {
	start := hrtime.Now()
	err := fn()
	b.log.WithFields(logrus.Fields{
		"stage":   name,
		"elapsed": hrtime.Since(start).Round(time.Microsecond),
	}).Debug("bootstrap stage finished")
	return err
}
