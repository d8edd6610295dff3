package ffmpeg

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/packforge/packforge/pkg/util"
)

// ExtractFrame decodes a single frame at the given zero-based index into
// an in-memory image. The frame is routed through a temporary PNG so the
// decode path is identical for every container ffmpeg understands.
func (e *Executor) ExtractFrame(ctx context.Context, input string, index int) (image.Image, error) {
	if input == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if index < 0 {
		return nil, fmt.Errorf("frame index must be non-negative")
	}

	tmp, err := os.CreateTemp("", "packforge_frame_*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp frame file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer util.CleanupFiles(tmpPath)

	filter := NewFilterBuilder().SelectFrame(index).Build()

	opts := RunOptions{
		Args: []string{
			"-i", input,
			"-vf", filter,
			"-vsync", "vfr",
			"-frames:v", "1",
			tmpPath,
		},
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("frame extraction")
		},
	}

	if err := e.Run(ctx, opts); err != nil {
		return nil, fmt.Errorf("frame extraction failed: %w", err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("frame %d not produced: %w", index, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil || stat.Size() == 0 {
		return nil, fmt.Errorf("frame %d not produced by %s", index, filepath.Base(input))
	}

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode extracted frame: %w", err)
	}

	return img, nil
}

// DecodeStill decodes an image file through ffmpeg. Used as the fallback
// for formats the native decoders can't handle (HEIC in particular).
func (e *Executor) DecodeStill(ctx context.Context, input string) (image.Image, error) {
	return e.ExtractFrame(ctx, input, 0)
}
