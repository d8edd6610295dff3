package ffmpeg

import (
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/packforge/packforge/internal/logging"
)

func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed, skipping")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not installed, skipping")
	}
}

// makeTestVideo renders a 2-second synthetic clip with ffmpeg's testsrc.
func makeTestVideo(t *testing.T, path string) {
	t.Helper()
	cmd := exec.Command("ffmpeg", "-y",
		"-f", "lavfi", "-i", "testsrc=duration=2:size=320x240:rate=30",
		"-pix_fmt", "yuv420p", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to create test video: %v\n%s", err, out)
	}
}

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	e, err := New(logging.NewLogger(io.Discard), "ffmpeg", "ffprobe", 0)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	return e
}

func TestNewRejectsMissingBinary(t *testing.T) {
	if _, err := New(logging.NewLogger(io.Discard), "definitely-not-ffmpeg", "ffprobe", 0); err == nil {
		t.Error("expected error for nonexistent ffmpeg binary")
	}
}

func TestProbe(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := filepath.Join(t.TempDir(), "probe.mp4")
	makeTestVideo(t, video)

	e := newTestExecutor(t)
	info, err := e.Probe(context.Background(), video)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}

	if info.Width != 320 || info.Height != 240 {
		t.Errorf("dimensions = %dx%d, want 320x240", info.Width, info.Height)
	}
	if info.FPS < 29 || info.FPS > 31 {
		t.Errorf("fps = %f, want ~30", info.FPS)
	}
	if info.FrameCount < 55 || info.FrameCount > 65 {
		t.Errorf("frame count = %d, want ~60", info.FrameCount)
	}
	if sec := info.DurationSeconds(); sec < 1.5 || sec > 2.5 {
		t.Errorf("duration = %fs, want ~2s", sec)
	}
}

func TestProbeEmptyPath(t *testing.T) {
	skipIfNoFFmpeg(t)
	e := newTestExecutor(t)
	if _, err := e.Probe(context.Background(), ""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestExtractFrame(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := filepath.Join(t.TempDir(), "frames.mp4")
	makeTestVideo(t, video)

	e := newTestExecutor(t)
	img, err := e.ExtractFrame(context.Background(), video, 0)
	if err != nil {
		t.Fatalf("frame extraction failed: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Errorf("frame is %dx%d, want 320x240", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Mid-stream index.
	if _, err := e.ExtractFrame(context.Background(), video, 30); err != nil {
		t.Errorf("failed to extract frame 30: %v", err)
	}

	// Past the end of the stream: no frame, no file.
	if _, err := e.ExtractFrame(context.Background(), video, 10000); err == nil {
		t.Error("expected error for out-of-range frame index")
	}
}

func TestExtractFrameRejectsBadArgs(t *testing.T) {
	skipIfNoFFmpeg(t)
	e := newTestExecutor(t)
	if _, err := e.ExtractFrame(context.Background(), "", 0); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := e.ExtractFrame(context.Background(), "x.mp4", -1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestFilterBuilder(t *testing.T) {
	cases := []struct {
		build func() string
		want  string
	}{
		{func() string { return NewFilterBuilder().Build() }, ""},
		{func() string { return NewFilterBuilder().SelectFrame(5).Build() }, `select=eq(n\,5)`},
		{func() string { return NewFilterBuilder().SelectFrame(-1).Build() }, ""},
		{func() string { return NewFilterBuilder().Scale(320, 240).Build() }, "scale=320:240"},
		{func() string { return NewFilterBuilder().Scale(0, 240).Build() }, ""},
		{func() string {
			return NewFilterBuilder().SelectFrame(0).Scale(64, 64).Custom("hue=s=0").Build()
		}, `select=eq(n\,0),scale=64:64,hue=s=0`},
	}

	for i, tc := range cases {
		if got := tc.build(); got != tc.want {
			t.Errorf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}
