package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/der-antikeks/lofi/config"
	"github.com/der-antikeks/lofi/engine"
	"github.com/der-antikeks/lofi/glcontext"
)

// glfw and gl calls must come from the main thread
func init() {
	runtime.LockOSThread()
}

func main() {
	var flags config.Flags
	configPath := flag.String("config", config.DefaultFilename, "yaml configuration file")
	flag.StringVar(&flags.Mode, "mode", "", "render mode: triangle, color-cube or texture-cube")
	flag.StringVar(&flags.Capture, "capture", "", "write the first frame to this webp file")
	flag.StringVar(&flags.LogLevel, "log-level", "", "debug, info, warn or error")
	flag.StringVar(&flags.Assets, "assets", "", "directory holding glsl/ and textures/")
	flag.Parse()

	if err := run(*configPath, flags); err != nil {
		slog.Error("lofi", "error", err)
		os.Exit(1)
	}
}

func run(path string, flags config.Flags) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Resolve(flags); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	win, err := glcontext.New(glcontext.Options{
		Title:   cfg.Window.Title,
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		Samples: cfg.Window.Samples,
		VSync:   cfg.Window.VSync,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	g := engine.New(win.Device(), cfg.Assets(),
		engine.WithLogger(logger),
		engine.WithMaxTextureSize(cfg.MaxTextureSize),
		engine.WithClearColor(cfg.Clear()),
	)
	if err := g.Init(); err != nil {
		return err
	}
	defer g.Terminate()

	mode := cfg.Mode
	if !g.Ready(mode) {
		logger.Warn("render mode is missing resources, frames stay empty", "mode", mode)
	}

	var shot capture
	if cfg.Capture != "" {
		shot.request(g, cfg.Capture)
	}

	// 1, 2, 3 switch modes, c captures the next frame
	win.OnKey(func(k glcontext.Key) {
		switch k {
		case glcontext.Key1:
			mode = engine.ModeTriangle
		case glcontext.Key2:
			mode = engine.ModeColorCube
		case glcontext.Key3:
			mode = engine.ModeTextureCube
		case glcontext.KeyC:
			shot.request(g, fmt.Sprintf("lofi-%s.webp", time.Now().Format("20060102-150405")))
			return
		default:
			return
		}
		logger.Info("render mode", "mode", mode, "ready", g.Ready(mode))
	})

	// main loop
	var (
		lastTime    = time.Now()
		currentTime time.Time
		delta       time.Duration

		ratio     = 0.01
		fps       = 60.0
		nextPrint = lastTime
	)

	for !win.ShouldClose() {
		g.Draw(win.Surface(), mode)
		shot.finish(g, logger)
		win.PollEvents()

		// calc delay
		currentTime = time.Now()
		delta = currentTime.Sub(lastTime)
		lastTime = currentTime

		// fps
		if delta > 0 {
			fps = fps*(1-ratio) + (1.0/delta.Seconds())*ratio
		}
		if cfg.FPSInterval > 0 && currentTime.After(nextPrint) {
			nextPrint = currentTime.Add(cfg.FPSInterval)
			w, h := win.Size()
			logger.Info("frame rate", "fps", math.Round(fps*10)/10, "width", w, "height", h)
		}
	}

	return nil
}

// capture holds the file a requested frame is written to until the frame
// was drawn.
type capture struct {
	file *os.File
}

func (c *capture) request(g *engine.Graphics, path string) {
	if c.file != nil {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		slog.Warn("capture", "error", err)
		return
	}
	c.file = f
	g.RequestCapture(f)
}

func (c *capture) finish(g *engine.Graphics, logger *slog.Logger) {
	if c.file == nil {
		return
	}
	name := c.file.Name()
	err := g.CaptureErr()
	if cerr := c.file.Close(); err == nil {
		err = cerr
	}
	c.file = nil

	if err != nil {
		logger.Warn("capture failed", "path", name, "error", err)
		os.Remove(name)
		return
	}
	logger.Info("capture written", "path", name)
}
