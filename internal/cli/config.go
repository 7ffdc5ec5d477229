package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/graphlens/graphlens/pkg/errors"
	"github.com/graphlens/graphlens/pkg/layout"
)

// =============================================================================
// Viewer Configuration
// =============================================================================

// Config holds viewer and server settings, loadable from a TOML file via
// --config.
type Config struct {
	Camera CameraConfig `toml:"camera"`
	Force  ForceConfig  `toml:"force"`
	Static StaticConfig `toml:"static"`
	Server ServerConfig `toml:"server"`
}

// CameraConfig tunes camera behavior in the viewer.
type CameraConfig struct {
	// PanStep is the world-space distance of one pan key press, scaled by
	// the current zoom ratio.
	PanStep float64 `toml:"pan_step"`
	// ZoomFactor multiplies or divides the ratio on zoom keys.
	ZoomFactor float64 `toml:"zoom_factor"`
	// RotateStep is the rotation per key press, in radians.
	RotateStep float64 `toml:"rotate_step"`
	// AnimationMS is the duration of fit/center animations.
	AnimationMS int `toml:"animation_ms"`
	// FitPadding is the fraction of the viewport left free around a
	// fitted selection.
	FitPadding float64 `toml:"fit_padding"`
}

// ForceConfig tunes the iterative layout provider.
type ForceConfig struct {
	Gravity    float64 `toml:"gravity"`
	Repulsion  float64 `toml:"repulsion"`
	Attraction float64 `toml:"attraction"`
	MaxSpeed   float64 `toml:"max_speed"`
	IntervalMS int     `toml:"interval_ms"`
	Seed       int64   `toml:"seed"`
}

// StaticConfig tunes Graphviz placement.
type StaticConfig struct {
	Engine string  `toml:"engine"`
	Scale  float64 `toml:"scale"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// RedisAddr, when set, backs the layout cache with Redis instead of
	// the local file cache.
	RedisAddr string `toml:"redis_addr"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	fc := layout.DefaultForceConfig()
	return Config{
		Camera: CameraConfig{
			PanStep:     40,
			ZoomFactor:  1.25,
			RotateStep:  0.1,
			AnimationMS: 250,
			FitPadding:  0.1,
		},
		Force: ForceConfig{
			Gravity:    fc.Gravity,
			Repulsion:  fc.Repulsion,
			Attraction: fc.Attraction,
			MaxSpeed:   fc.MaxSpeed,
			IntervalMS: int(fc.Interval / time.Millisecond),
			Seed:       fc.Seed,
		},
		Static: StaticConfig{Engine: "neato", Scale: 1.0},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads a TOML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to read config file %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse config file %s", path)
	}
	return cfg, nil
}

// ForceLayoutConfig converts the TOML force settings to the layout package
// form.
func (c Config) ForceLayoutConfig() layout.ForceConfig {
	return layout.ForceConfig{
		Gravity:    c.Force.Gravity,
		Repulsion:  c.Force.Repulsion,
		Attraction: c.Force.Attraction,
		MaxSpeed:   c.Force.MaxSpeed,
		Interval:   time.Duration(c.Force.IntervalMS) * time.Millisecond,
		Seed:       c.Force.Seed,
	}
}

// StaticLayoutOptions converts the TOML static settings to the layout
// package form.
func (c Config) StaticLayoutOptions() layout.StaticOptions {
	return layout.StaticOptions{Engine: c.Static.Engine, Scale: c.Static.Scale}
}

// AnimationDuration returns the configured camera animation duration.
func (c Config) AnimationDuration() time.Duration {
	return time.Duration(c.Camera.AnimationMS) * time.Millisecond
}
