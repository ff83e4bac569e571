package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/palmdrive/internal/actuator"
	"github.com/ayusman/palmdrive/internal/app"
	"github.com/ayusman/palmdrive/internal/capture"
	"github.com/ayusman/palmdrive/internal/config"
	"github.com/ayusman/palmdrive/internal/detector"
	"github.com/ayusman/palmdrive/internal/display"
	"github.com/ayusman/palmdrive/internal/logging"
	"github.com/ayusman/palmdrive/internal/server"
	"github.com/ayusman/palmdrive/internal/store"
	"github.com/ayusman/palmdrive/internal/tray"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses flags, wires the controller and drives it to completion. It
// returns the process exit code.
func run(args []string) int {
	cfg, code, ok := loadConfig(args)
	if !ok {
		return code
	}

	logger, err := logging.Setup(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "palmdrive: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st *store.Store
	if cfg.Journal.Path != "" {
		st, err = openStore(config.ExpandPath(cfg.Journal.Path))
		if err != nil {
			logger.Error("failed to open journal", "path", cfg.Journal.Path, "err", err)
			return 1
		}
		defer st.Close()
		logger.Info("journal enabled", "path", st.Path())
	}

	application, err := build(cfg, st, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("cleanup failed", "err", err)
		}
	}()

	statusURL := ""
	if cfg.Server.Listen != "" {
		srv := server.New(server.Config{Store: st, Status: application, Logger: logger})
		application.AddObserver(srv.Events())
		application.AddFrameSink(srv.Stream())
		go func() {
			if err := srv.Serve(ctx, cfg.Server.Listen); err != nil {
				logger.Error("status server failed", "addr", cfg.Server.Listen, "err", err)
			}
		}()
		statusURL = "http://" + cfg.Server.Listen + "/api/status"
	}

	printBanner(cfg.Keys.Quit, cfg.Display.Window)

	var summary app.Summary
	if cfg.Display.Window {
		// OpenCV's window must be driven from the main goroutine.
		summary, err = application.Run(ctx)
	} else {
		summary, err = runWithTray(ctx, stop, application, statusURL, logger)
	}

	fmt.Printf("Stopped (%s) after %d frames and %d gesture changes.\n",
		summary.Reason, summary.Frames, summary.Transitions)

	if err != nil {
		logger.Error("controller failed", "reason", summary.Reason, "err", err)
		return 1
	}
	return 0
}

// loadConfig layers defaults, the config file and flags. When ok is false
// the process should exit with code.
func loadConfig(args []string) (cfg config.Config, code int, ok bool) {
	fs := flag.NewFlagSet("palmdrive", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: palmdrive [flags]\n\nDrive a racing game with your hand: open palm holds gas, fist holds brake.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "path to a YAML config file")
	camera := fs.Int("camera", 0, "camera device index")
	gasKey := fs.String("gas-key", "", "key held while the palm is open (default right)")
	brakeKey := fs.String("brake-key", "", "key held while the hand is a fist (default left)")
	quitKey := fs.String("quit-key", "", "debug window key that stops the controller (default q)")
	backend := fs.String("actuator", "", fmt.Sprintf("key backend, one of %v", actuator.Backends))
	headless := fs.Bool("headless", false, "run without the debug window, controlled from the system tray")
	journal := fs.String("journal", "", "SQLite file to journal sessions and transitions to")
	listen := fs.String("listen", "", "address for the local status server, e.g. 127.0.0.1:8090")
	logLevel := fs.String("log-level", "", "log level: error, warn, info or debug")
	showVersion := fs.Bool("version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, 0, false
		}
		return cfg, 2, false
	}

	if *showVersion {
		fmt.Printf("palmdrive %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
		return cfg, 0, false
	}

	cfg = config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "palmdrive: %v\n", err)
			return cfg, 2, false
		}
	}

	var o config.FlagOverrides
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "camera":
			o.Camera = camera
		case "gas-key":
			o.GasKey = gasKey
		case "brake-key":
			o.BrakeKey = brakeKey
		case "quit-key":
			o.QuitKey = quitKey
		case "actuator":
			o.Actuator = backend
		case "headless":
			o.Headless = headless
		case "journal":
			o.Journal = journal
		case "listen":
			o.Listen = listen
		case "log-level":
			o.LogLevel = logLevel
		}
	})
	o.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "palmdrive: invalid config: %v\n", err)
		return cfg, 2, false
	}

	return cfg, 0, true
}

// build opens the devices and assembles the App. On error everything opened
// so far is closed again.
func build(cfg config.Config, st *store.Store, logger *slog.Logger) (*app.App, error) {
	cam := capture.NewCameraWithOptions(cfg.Camera.Device, capture.Options{
		Width:  cfg.Camera.Width,
		Height: cfg.Camera.Height,
	})
	if err := cam.Open(); err != nil {
		return nil, fmt.Errorf("camera %d: %w", cfg.Camera.Device, err)
	}

	det, err := detector.NewMediaPipeDetector(cfg.DetectorConfig())
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("hand detector: %w", err)
	}

	opts := cfg.ActuatorOptions()
	opts.Logger = logger
	act, err := actuator.Open(opts)
	if err != nil {
		det.Close()
		cam.Close()
		return nil, fmt.Errorf("actuator %s: %w", opts.Backend, err)
	}

	var disp display.Display = display.NewHeadless()
	if cfg.Display.Window {
		disp = display.NewWindow(cfg.Display.Title)
	}

	logger.Debug("controller configured",
		"camera", cfg.Camera.Device,
		"actuator", opts.Backend,
		"gas", cfg.Keys.Gas,
		"brake", cfg.Keys.Brake,
		"window", cfg.Display.Window,
	)

	return app.New(app.Config{
		Camera:   cam,
		Detector: det,
		Actuator: act,
		Display:  disp,
		Keys:     cfg.ActuatorKeys(),
		QuitKey:  cfg.QuitKey(),
		Mirror:   cfg.Camera.Mirror,
		Store:    st,
		Logger:   logger,
	})
}

// runWithTray gives the main goroutine to the system tray and runs the
// control loop beside it. Quitting from the tray cancels the loop; the loop
// ending for any reason removes the tray.
func runWithTray(ctx context.Context, cancel context.CancelFunc, application *app.App, statusURL string, logger *slog.Logger) (app.Summary, error) {
	type result struct {
		summary app.Summary
		err     error
	}
	done := make(chan result, 1)
	started := make(chan struct{})

	t := tray.New()
	application.AddObserver(t)
	t.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
		logger.Info("gesture control toggled", "enabled", enabled)
	})
	t.OnQuit(cancel)
	if statusURL != "" {
		t.OnStatus(func() {
			if err := openBrowser(statusURL); err != nil {
				logger.Warn("failed to open status page", "url", statusURL, "err", err)
			}
		})
	}
	t.OnReady(func() {
		close(started)
		go func() {
			summary, err := application.Run(ctx)
			done <- result{summary, err}
			t.Quit()
		}()
	})

	t.Run()

	select {
	case <-started:
	default:
		return app.Summary{Reason: app.ExitCancelled}, errors.New("system tray did not start")
	}

	cancel()
	r := <-done
	return r.summary, r.err
}

func openStore(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	return store.New(path)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

func printBanner(quitKey string, window bool) {
	fmt.Println("Starting Gesture Control...")
	fmt.Println("Show PALM to Accelerate.")
	fmt.Println("Show FIST to Brake.")
	if window {
		fmt.Printf("Press '%s' to quit.\n", quitKey)
	} else {
		fmt.Println("Use the tray menu or Ctrl+C to quit.")
	}
}
