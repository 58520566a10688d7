// gazescroll - scroll up by rolling your eyes
//
// Watches the webcam, scores how far each iris rides toward the top of its
// eye, and fires a debounced scroll-up once the roll is sustained.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gazekit/gazescroll/internal/config"
	"github.com/gazekit/gazescroll/internal/log"
	"github.com/gazekit/gazescroll/pkg/camera"
	"github.com/gazekit/gazescroll/pkg/debug"
	"github.com/gazekit/gazescroll/pkg/gesture"
	"github.com/gazekit/gazescroll/pkg/mesh"
	"github.com/gazekit/gazescroll/pkg/notify"
	"github.com/gazekit/gazescroll/pkg/scroll"
	"github.com/gazekit/gazescroll/pkg/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	device := flag.Int("device", -1, "Camera device index (overrides config)")
	port := flag.String("port", "", "Dashboard port (overrides config)")
	dryRun := flag.Bool("dry-run", false, "Log fires without injecting scroll events")
	debugFlag := flag.Bool("debug", false, "Enable verbose debug logging")
	debugFrames := flag.Bool("debug-frames", false, "Enable very verbose per-frame logs")
	flag.Parse()

	debug.Enabled = *debugFlag
	debug.Frames = *debugFrames

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if *device >= 0 {
		cfg.Camera.Device = *device
	}
	if *port != "" {
		cfg.Web.Port = *port
	}
	if *debugFlag {
		cfg.LogLevel = "debug"
	}

	log.Init(cfg.LogLevel)

	if err := run(cfg, *configPath, *dryRun); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(cfg *config.Config, configPath string, dryRun bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Camera
	cam, err := camera.Open(cfg.Camera)
	if err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer cam.Close()

	// Landmark extraction
	mesher, err := mesh.NewFaceMesh(cfg.Mesh)
	if err != nil {
		return fmt.Errorf("load mesh models: %w", err)
	}
	defer mesher.Close()

	// Scroll action
	var scroller gesture.Scroller = scroll.NewDesktop()
	if dryRun {
		log.Info("dry run: scroll injection disabled")
		scroller = scroll.Nop{}
	}

	pipeline := gesture.New(cfg.Pipeline(), cam, mesher, scroller)

	// Dashboard
	var server *web.Server
	if cfg.Web.Enabled {
		server = web.NewServer(cfg.Web.Port, pipeline)
		pipeline.SetStateUpdater(server)
		pipeline.OnFrame(server.SendCameraFrame)
		server.StartAsync()
		defer server.Shutdown()
	}

	// Webhook
	var hook *notify.Webhook
	if url := cfg.Webhook.URL(); url != "" {
		hook = notify.NewWebhook(url)
	}

	pipeline.OnTrigger(func(ev gesture.TriggerEvent) {
		if server != nil {
			server.PublishTrigger(ev)
		}
		if hook != nil {
			go func() {
				if err := hook.Send(ev); err != nil {
					log.Warn("webhook delivery failed", "err", err)
				}
			}()
		}
	})

	// Config hot reload
	if configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, func(updated *config.Config) {
				pipeline.Retune(updated.Gate)
			})
			if err != nil {
				log.Warn("config watch unavailable", "err", err)
			}
		}()
	}

	log.Info("gazescroll started",
		"camera", cfg.Camera.Device,
		"roll_threshold", cfg.Gate.RollThreshold,
		"frames_required", cfg.Gate.FramesRequired,
		"debounce_seconds", cfg.Gate.DebounceSeconds)

	pipeline.Run(ctx)
	return nil
}
