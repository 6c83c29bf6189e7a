package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/msalah0e/cardstudio/internal/geom"
	"github.com/msalah0e/cardstudio/internal/router"
)

// Config holds cardstudio configuration.
type Config struct {
	Viewport ViewportConfig `toml:"viewport"`
	Canvas   CanvasConfig   `toml:"canvas"`
	Connect  ConnectConfig  `toml:"connect"`
	Layout   LayoutConfig   `toml:"layout"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
}

// ViewportConfig bounds zoom and sizes the canvas plane.
type ViewportConfig struct {
	MinZoom     float64 `toml:"min_zoom"`
	MaxZoom     float64 `toml:"max_zoom"`
	ZoomStep    float64 `toml:"zoom_step"`
	DefaultZoom float64 `toml:"default_zoom"`
	PlaneSize   float64 `toml:"plane_size"`
}

// Navigation bound policies for moving between canvases.
const (
	NavClamp = "clamp"
	NavWrap  = "wrap"
)

// CanvasConfig controls canvas creation and navigation.
type CanvasConfig struct {
	NavPolicy   string `toml:"nav_policy"` // "clamp", "wrap"
	DefaultName string `toml:"default_name"`
}

// ConnectConfig controls drag-to-connect.
type ConnectConfig struct {
	SnapDistance   float64 `toml:"snap_distance"`
	SelectDistance float64 `toml:"select_distance"`
	StrictTypes    bool    `toml:"strict_types"`
}

// LayoutConfig controls where sockets sit on a card.
type LayoutConfig struct {
	HeaderHeight  float64 `toml:"header_height"`
	SocketOffset  float64 `toml:"socket_offset"`
	SocketSpacing float64 `toml:"socket_spacing"`
	MinHandle     float64 `toml:"min_handle"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "console", "json"
}

// UIConfig controls display options.
type UIConfig struct {
	Color bool `toml:"color"`
}

// Default returns the default configuration.
func Default() *Config {
	b := geom.DefaultBounds()
	l := router.DefaultLayout()
	return &Config{
		Viewport: ViewportConfig{
			MinZoom:     b.MinZoom,
			MaxZoom:     b.MaxZoom,
			ZoomStep:    b.Step,
			DefaultZoom: 1,
			PlaneSize:   b.PlaneSize,
		},
		Canvas:  CanvasConfig{NavPolicy: NavClamp, DefaultName: "Untitled Canvas"},
		Connect: ConnectConfig{SnapDistance: 30, SelectDistance: 8},
		Layout: LayoutConfig{
			HeaderHeight:  l.HeaderHeight,
			SocketOffset:  l.SocketOffset,
			SocketSpacing: l.SocketSpacing,
			MinHandle:     l.MinHandle,
		},
		Log: LogConfig{Level: "info", Format: "console"},
		UI:  UIConfig{Color: true},
	}
}

// Bounds converts the viewport section into geometry bounds.
func (c *Config) Bounds() geom.Bounds {
	return geom.Bounds{
		MinZoom:   c.Viewport.MinZoom,
		MaxZoom:   c.Viewport.MaxZoom,
		Step:      c.Viewport.ZoomStep,
		PlaneSize: c.Viewport.PlaneSize,
	}
}

// RouterLayout converts the layout section into a router layout.
func (c *Config) RouterLayout() router.Layout {
	return router.Layout{
		HeaderHeight:  c.Layout.HeaderHeight,
		SocketOffset:  c.Layout.SocketOffset,
		SocketSpacing: c.Layout.SocketSpacing,
		MinHandle:     c.Layout.MinHandle,
	}
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	v := c.Viewport
	if v.MinZoom <= 0 {
		return fmt.Errorf("viewport.min_zoom must be positive, got %g", v.MinZoom)
	}
	if v.MaxZoom < v.MinZoom {
		return fmt.Errorf("viewport.max_zoom %g is below min_zoom %g", v.MaxZoom, v.MinZoom)
	}
	if v.ZoomStep <= 0 {
		return fmt.Errorf("viewport.zoom_step must be positive, got %g", v.ZoomStep)
	}
	if v.PlaneSize <= 0 {
		return fmt.Errorf("viewport.plane_size must be positive, got %g", v.PlaneSize)
	}
	switch c.Canvas.NavPolicy {
	case NavClamp, NavWrap:
	default:
		return fmt.Errorf("canvas.nav_policy must be %q or %q, got %q", NavClamp, NavWrap, c.Canvas.NavPolicy)
	}
	if c.Connect.SnapDistance < 0 {
		return fmt.Errorf("connect.snap_distance must not be negative")
	}
	return nil
}

// ConfigDir returns the cardstudio config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "cardstudio")
}

// Path returns the user config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the user config file, falling back to defaults if it doesn't
// exist or can't be parsed.
func Load() *Config {
	cfg, err := LoadFile(Path())
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile reads a config file over the defaults. Keys missing from the
// file keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the user config file.
func Save(cfg *Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
