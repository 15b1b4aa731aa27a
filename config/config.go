package config

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/bootstrap/gpu"
)

// Configuration is the process-wide bootstrap configuration. It is built once at startup
// and passed by value into every component, nothing reads it ambiently.
type Configuration struct {
	Application ApplicationConfiguration
	Diagnostics DiagnosticsConfiguration
	Window      WindowConfiguration
	Log         LogConfiguration

	// ReportDevices logs available extensions and the capabilities of every device
	// visited during selection
	ReportDevices bool
}

// ApplicationConfiguration is the metadata handed to the driver at instance creation
type ApplicationConfiguration struct {
	Name          string
	Version       gpu.Version
	EngineName    string
	EngineVersion gpu.Version
	APIVersion    gpu.Version
}

// DiagnosticsConfiguration gates validation layers, the debug utils extension
// and the debug messenger
type DiagnosticsConfiguration struct {
	// Enabled is fixed at build time, see diagnostics.go
	Enabled bool

	// ValidationLayers must all be present when Enabled is set
	ValidationLayers []string

	MessageSeverity gpu.MessageSeverity
	MessageType     gpu.MessageType
}

// WindowConfiguration is used by the windowing collaborator only
type WindowConfiguration struct {
	Title  string
	Width  int32
	Height int32
}

// LogConfiguration is used to configure the process logger
type LogConfiguration struct {
	Level logrus.Level
}

const (
	EnvAppName       = "VKB_APP_NAME"
	EnvAppVersion    = "VKB_APP_VERSION"
	EnvEngineName    = "VKB_ENGINE_NAME"
	EnvWindowTitle   = "VKB_WINDOW_TITLE"
	EnvWindowWidth   = "VKB_WINDOW_WIDTH"
	EnvWindowHeight  = "VKB_WINDOW_HEIGHT"
	EnvLogLevel      = "VKB_LOG_LEVEL"
	EnvReportDevices = "VKB_REPORT_DEVICES"
)

const KhronosValidationLayer = "VK_LAYER_KHRONOS_validation"

// Default returns the built-in configuration.
func Default() Configuration {
	return Configuration{
		Application: ApplicationConfiguration{
			Name:          "Hello Triangle",
			Version:       gpu.CreateVersion(1, 0, 0),
			EngineName:    "No Engine",
			EngineVersion: gpu.CreateVersion(1, 0, 0),
			APIVersion:    gpu.Vulkan1_0,
		},
		Diagnostics: DiagnosticsConfiguration{
			Enabled:          diagnosticsEnabled,
			ValidationLayers: []string{KhronosValidationLayer},
			MessageSeverity:  gpu.SeverityVerbose | gpu.SeverityWarning | gpu.SeverityError,
			MessageType:      gpu.TypeGeneral | gpu.TypeValidation | gpu.TypePerformance,
		},
		Window: WindowConfiguration{
			Title:  "Vulkan",
			Width:  1366,
			Height: 768,
		},
		Log: LogConfiguration{
			Level: logrus.InfoLevel,
		},
		ReportDevices: true,
	}
}

// Load starts from Default and applies VKB_* variables from the environment. envFile is
// read first if it exists; variables already set in the environment win over the file.
// Diagnostics.Enabled is never changed by Load.
func Load(envFile string) (Configuration, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Configuration{}, errors.Wrapf(err, "reading %s", envFile)
		}
	}
	envy.Reload()

	cfg := Default()
	cfg.Application.Name = envy.Get(EnvAppName, cfg.Application.Name)
	cfg.Application.EngineName = envy.Get(EnvEngineName, cfg.Application.EngineName)
	cfg.Window.Title = envy.Get(EnvWindowTitle, cfg.Window.Title)

	if raw, err := envy.MustGet(EnvAppVersion); err == nil {
		version, err := gpu.ParseVersion(raw)
		if err != nil {
			return Configuration{}, errors.Wrap(err, EnvAppVersion)
		}
		cfg.Application.Version = version
	}

	var err error
	if cfg.Window.Width, err = envInt32(EnvWindowWidth, cfg.Window.Width); err != nil {
		return Configuration{}, err
	}
	if cfg.Window.Height, err = envInt32(EnvWindowHeight, cfg.Window.Height); err != nil {
		return Configuration{}, err
	}

	if raw, err := envy.MustGet(EnvLogLevel); err == nil {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			return Configuration{}, errors.Wrap(err, EnvLogLevel)
		}
		cfg.Log.Level = level
	}

	if raw, err := envy.MustGet(EnvReportDevices); err == nil {
		report, err := strconv.ParseBool(raw)
		if err != nil {
			return Configuration{}, errors.Wrap(err, EnvReportDevices)
		}
		cfg.ReportDevices = report
	}

	return cfg, nil
}

func envInt32(key string, fallback int32) (int32, error) {
	raw, err := envy.MustGet(key)
	if err != nil {
		return fallback, nil
	}
	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, key)
	}
	if value <= 0 {
		return 0, errors.Newf("%s: must be positive, got %d", key, value)
	}
	return int32(value), nil
}
