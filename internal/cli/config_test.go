package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/graphlens/graphlens/pkg/errors"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Static.Engine != "neato" {
		t.Errorf("default engine = %q", cfg.Static.Engine)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.AnimationDuration() != 250*time.Millisecond {
		t.Errorf("animation duration = %v", cfg.AnimationDuration())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[camera]
pan_step = 10
animation_ms = 500

[static]
engine = "sfdp"

[server]
addr = ":9999"
redis_addr = "localhost:6379"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Camera.PanStep != 10 {
		t.Errorf("pan_step = %v", cfg.Camera.PanStep)
	}
	if cfg.AnimationDuration() != 500*time.Millisecond {
		t.Errorf("animation duration = %v", cfg.AnimationDuration())
	}
	if cfg.Static.Engine != "sfdp" {
		t.Errorf("engine = %q", cfg.Static.Engine)
	}
	if cfg.Server.Addr != ":9999" || cfg.Server.RedisAddr != "localhost:6379" {
		t.Errorf("server = %+v", cfg.Server)
	}
	// untouched sections keep their defaults
	if cfg.Camera.ZoomFactor != 1.25 {
		t.Errorf("zoom_factor = %v, want default", cfg.Camera.ZoomFactor)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[camera\npan"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("error = %v, want INVALID_CONFIG", err)
	}
}
