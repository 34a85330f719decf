package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/der-antikeks/lofi/engine"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

const DefaultFilename = "lofi.yml"

type Config struct {
	Window WindowConfig `yaml:"window"`
	Mode   engine.Mode  `yaml:"mode"`

	// relative shader and texture paths are resolved against AssetsDir
	AssetsDir      string       `yaml:"assets_dir"`
	Shaders        ShaderConfig `yaml:"shaders"`
	Texture        string       `yaml:"texture"`
	MaxTextureSize int          `yaml:"max_texture_size"`
	ClearColor     []float32    `yaml:"clear_color"`

	LogLevel    slog.Level    `yaml:"log_level"`
	FPSInterval time.Duration `yaml:"fps_interval"`
	Capture     string        `yaml:"capture"` // webp file written from the first frame
}

type WindowConfig struct {
	Title   string `yaml:"title"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Samples int    `yaml:"samples"`
	VSync   bool   `yaml:"vsync"`
}

type ShaderConfig struct {
	ColorVertex   string `yaml:"color_vertex"`
	ColorFragment string `yaml:"color_fragment"`
	UVVertex      string `yaml:"uv_vertex"`
	UVFragment    string `yaml:"uv_fragment"`
}

// Flags are command line overrides, empty values keep the file setting.
type Flags struct {
	Mode     string
	Capture  string
	LogLevel string
	Assets   string
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:   "lofi",
			Width:   800,
			Height:  600,
			Samples: 4,
			VSync:   true,
		},
		Mode: engine.ModeTextureCube,

		AssetsDir: "assets",
		Shaders: ShaderConfig{
			ColorVertex:   "glsl/vxcolor_v.glsl",
			ColorFragment: "glsl/vxcolor_f.glsl",
			UVVertex:      "glsl/vxuv_v.glsl",
			UVFragment:    "glsl/vxuv_f.glsl",
		},
		Texture:        "textures/checker.png",
		MaxTextureSize: 2048,
		ClearColor:     []float32{0, 0, 0, 1},

		LogLevel:    slog.LevelInfo,
		FPSInterval: 500 * time.Millisecond,
	}
}

// Load reads a yaml config file over the defaults. A missing file is not an
// error, fields absent from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if len(c.ClearColor) != 4 {
		return fmt.Errorf("clear_color needs 4 components, got %d", len(c.ClearColor))
	}
	if c.FPSInterval < 0 {
		return fmt.Errorf("negative fps_interval %v", c.FPSInterval)
	}
	return nil
}

// Resolve applies the command line overrides and makes the asset paths
// relative to AssetsDir.
func (c *Config) Resolve(flags Flags) error {
	// cli flags override config file
	if flags.Mode != "" {
		if err := c.Mode.UnmarshalText([]byte(flags.Mode)); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if flags.LogLevel != "" {
		if err := c.LogLevel.UnmarshalText([]byte(flags.LogLevel)); err != nil {
			return fmt.Errorf("config: log level: %w", err)
		}
	}
	if flags.Capture != "" {
		c.Capture = flags.Capture
	}
	if flags.Assets != "" {
		c.AssetsDir = flags.Assets
	}

	// resolve relative paths against assets dir
	for _, p := range []*string{
		&c.Shaders.ColorVertex,
		&c.Shaders.ColorFragment,
		&c.Shaders.UVVertex,
		&c.Shaders.UVFragment,
		&c.Texture,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(c.AssetsDir, *p)
		}
	}
	return nil
}

func (c Config) Assets() engine.Assets {
	return engine.Assets{
		ColorVertex:   c.Shaders.ColorVertex,
		ColorFragment: c.Shaders.ColorFragment,
		UVVertex:      c.Shaders.UVVertex,
		UVFragment:    c.Shaders.UVFragment,
		Texture:       c.Texture,
	}
}

func (c Config) Clear() mgl32.Vec4 {
	var v mgl32.Vec4
	copy(v[:], c.ClearColor)
	return v
}
