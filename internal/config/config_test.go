package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config file should fall back to defaults: %v", err)
	}

	if cfg.OutputPolicy != PolicyAppend {
		t.Errorf("default output policy = %q, want append", cfg.OutputPolicy)
	}
	if cfg.Palette.Colors != 6 || cfg.Palette.SampleSize != 150 || cfg.Palette.Seed != 42 {
		t.Errorf("palette defaults = %+v", cfg.Palette)
	}
	if cfg.Texture.CannyLow != 50 || cfg.Texture.CannyHigh != 150 ||
		cfg.Texture.BlurKernel != 21 || cfg.Texture.PosterStep != 64 {
		t.Errorf("texture defaults = %+v", cfg.Texture)
	}
	if cfg.Motion.PyrScale != 0.5 || cfg.Motion.Levels != 3 || cfg.Motion.WinSize != 15 ||
		cfg.Motion.Iterations != 3 || cfg.Motion.PolyN != 5 || cfg.Motion.PolySigma != 1.2 {
		t.Errorf("motion defaults = %+v", cfg.Motion)
	}
	if cfg.Ghost.ContrastGain != 1.5 || cfg.Ghost.ContrastOpacity != 0.5 || cfg.Ghost.DesatOpacity != 0.3 {
		t.Errorf("ghost defaults = %+v", cfg.Ghost)
	}
	if cfg.OSC.Host != "127.0.0.1" || cfg.OSC.Port != 9000 {
		t.Errorf("osc defaults = %+v", cfg.OSC)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	orig, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	orig.OutputPolicy = PolicyClean
	orig.Palette.Colors = 8
	orig.FFmpeg.Threads = 4
	orig.OSC.Port = 9001

	if err := orig.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.OutputPolicy != PolicyClean {
		t.Errorf("output policy = %q", loaded.OutputPolicy)
	}
	if loaded.Palette.Colors != 8 {
		t.Errorf("palette colors = %d", loaded.Palette.Colors)
	}
	if loaded.FFmpeg.Threads != 4 {
		t.Errorf("threads = %d", loaded.FFmpeg.Threads)
	}
	if loaded.OSC.Port != 9001 {
		t.Errorf("osc port = %d", loaded.OSC.Port)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := []byte("palette:\n  colors: 4\n")
	if err := os.WriteFile(path, partial, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Palette.Colors != 4 {
		t.Errorf("palette colors = %d, want override 4", cfg.Palette.Colors)
	}
	if cfg.Palette.SampleSize != 150 {
		t.Errorf("sample size = %d, want default 150", cfg.Palette.SampleSize)
	}
	if cfg.Texture.BlurKernel != 21 {
		t.Errorf("blur kernel = %d, want default 21", cfg.Texture.BlurKernel)
	}
}

func TestContextRoundTrip(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "none.yaml"))
	cfg.OSC.Port = 7777

	ctx := WithConfig(context.Background(), cfg)
	if got := FromContext(ctx); got.OSC.Port != 7777 {
		t.Errorf("config from context has port %d", got.OSC.Port)
	}

	// A bare context yields defaults rather than nil.
	if got := FromContext(context.Background()); got == nil || got.OSC.Port != 9000 {
		t.Error("bare context should yield defaults")
	}
}
