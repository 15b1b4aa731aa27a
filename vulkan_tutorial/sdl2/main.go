package main

import (
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/bootstrap/bootstrap"
	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/gpu/vkng"
	"github.com/vkngwrapper/bootstrap/report"
)

var (
	envFileFlag = &cli.StringFlag{
		Name:  "env-file",
		Value: ".env",
		Usage: "file to read VKB_* settings from, if it exists",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "log level (panic|fatal|error|warn|info|debug|trace)",
	}
	reportFlag = &cli.BoolFlag{
		Name:  "report",
		Value: true,
		Usage: "log available extensions and the capabilities of every visited GPU",
	}
)

type HelloTriangleApplication struct {
	cfg    config.Configuration
	window *sdl.Window
	vulkan *bootstrap.Context
}

func (app *HelloTriangleApplication) Run() error {
	return runStages(app.cleanup, app.mainLoop, app.initWindow, app.initVulkan)
}

// runStages runs stages in order and then loop. cleanup runs however far the stages got,
// including when the first one fails.
func runStages(cleanup func(), loop func(), stages ...func() error) error {
	defer cleanup()

	for _, stage := range stages {
		if err := stage(); err != nil {
			return err
		}
	}

	loop()
	return nil
}

func (app *HelloTriangleApplication) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "initializing sdl")
	}

	window, err := sdl.CreateWindow(app.cfg.Window.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, app.cfg.Window.Width, app.cfg.Window.Height, sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		return errors.Wrap(err, "creating window")
	}
	app.window = window

	return nil
}

func (app *HelloTriangleApplication) initVulkan() error {
	loader, err := vkng.NewLoaderFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return err
	}

	var opts []bootstrap.Option
	if app.cfg.ReportDevices {
		opts = append(opts, bootstrap.WithReporter(report.New(log.StandardLogger())))
	}

	app.vulkan, err = bootstrap.New(app.cfg, loader, log.StandardLogger(), opts...).Run(app.window.VulkanGetInstanceExtensions())
	return err
}

func (app *HelloTriangleApplication) mainLoop() {
appLoop:
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event.(type) {
			case *sdl.QuitEvent:
				break appLoop
			}
		}
		sdl.Delay(16)
	}
}

func (app *HelloTriangleApplication) cleanup() {
	app.vulkan.Close()

	if app.window != nil {
		app.window.Destroy()
	}
	sdl.Quit()
}

func loadConfiguration(ctx *cli.Context) (config.Configuration, error) {
	cfg, err := config.Load(ctx.String(envFileFlag.Name))
	if err != nil {
		return cfg, err
	}

	if ctx.IsSet(logLevelFlag.Name) {
		level, err := log.ParseLevel(ctx.String(logLevelFlag.Name))
		if err != nil {
			return cfg, errors.Wrap(err, "--log-level")
		}
		cfg.Log.Level = level
	}
	if ctx.IsSet(reportFlag.Name) {
		cfg.ReportDevices = ctx.Bool(reportFlag.Name)
	}

	return cfg, nil
}

func run(ctx *cli.Context) error {
	cfg, err := loadConfiguration(ctx)
	if err != nil {
		return err
	}
	log.SetLevel(cfg.Log.Level)

	app := &HelloTriangleApplication{cfg: cfg}
	return app.Run()
}

func main() {
	runtime.LockOSThread()

	app := &cli.App{
		Name:   "hello-triangle",
		Usage:  "bootstrap a Vulkan context and pick a GPU",
		Flags:  []cli.Flag{envFileFlag, logLevelFlag, reportFlag},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%+v\n", err)
	}
}
