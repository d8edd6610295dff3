package pack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewAllocatesAllCategories(t *testing.T) {
	p := New("test-pack")

	if p.PackID != "test-pack" {
		t.Errorf("pack id = %q", p.PackID)
	}
	if _, err := time.Parse(time.RFC3339, p.CreatedAt); err != nil {
		t.Errorf("created_at %q is not RFC3339: %v", p.CreatedAt, err)
	}

	if p.Artifacts.ColorPalettes == nil || p.Artifacts.Textures == nil ||
		p.Artifacts.MotionPatterns == nil || p.Artifacts.VideoClips == nil ||
		p.Artifacts.GhostedImages == nil {
		t.Error("all artifact slices must be allocated")
	}
}

func TestManifestCarriesEmptyArrays(t *testing.T) {
	p := New("empty")
	path := filepath.Join(t.TempDir(), "artifacts.json")
	if err := p.WriteManifest(path); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}

	artifacts, ok := decoded["artifacts"].(map[string]any)
	if !ok {
		t.Fatal("manifest missing artifacts object")
	}
	for _, key := range []string{"color_palettes", "textures", "motion_patterns", "video_clips", "ghosted_images"} {
		arr, ok := artifacts[key].([]any)
		if !ok {
			t.Errorf("artifacts.%s is missing or not an array", key)
			continue
		}
		if len(arr) != 0 {
			t.Errorf("artifacts.%s should be empty, has %d entries", key, len(arr))
		}
	}

	if _, ok := decoded["source_media"].([]any); !ok {
		t.Error("source_media must serialize as an array even when empty")
	}
}

func TestAddSourcePreservesOrder(t *testing.T) {
	p := New("ordered")
	p.AddSource("a.jpg", "image")
	p.AddSource("b.mp4", "video")
	p.AddSource("c.gif", "gif")

	want := []SourceMedia{
		{Filename: "a.jpg", Type: "image"},
		{Filename: "b.mp4", Type: "video"},
		{Filename: "c.gif", Type: "gif"},
	}
	if len(p.SourceMedia) != len(want) {
		t.Fatalf("got %d entries, want %d", len(p.SourceMedia), len(want))
	}
	for i := range want {
		if p.SourceMedia[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, p.SourceMedia[i], want[i])
		}
	}
}

func TestNewIDUnique(t *testing.T) {
	if NewID() == NewID() {
		t.Error("consecutive IDs collided")
	}
}
