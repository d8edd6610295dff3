package extract

import (
	"context"
	"fmt"
	"image"

	"github.com/packforge/packforge/internal/ffmpeg"
)

// FrameSampler pulls single representative frames out of videos and
// animated loops. Two fixed policies exist: the first frame (palette and
// motion input) and the middle frame (texture input).
type FrameSampler struct {
	ff *ffmpeg.Executor
}

// NewFrameSampler creates a sampler backed by the given executor.
func NewFrameSampler(ff *ffmpeg.Executor) *FrameSampler {
	return &FrameSampler{ff: ff}
}

// First decodes frame zero.
func (s *FrameSampler) First(ctx context.Context, path string) (image.Image, error) {
	return s.ff.ExtractFrame(ctx, path, 0)
}

// Middle decodes the frame at index frameCount/2. The caller supplies
// probed container info so a single probe serves every extractor.
func (s *FrameSampler) Middle(ctx context.Context, path string, info *ffmpeg.VideoInfo) (image.Image, error) {
	if info == nil || info.FrameCount == 0 {
		return nil, fmt.Errorf("no frames available in %s", path)
	}
	return s.ff.ExtractFrame(ctx, path, info.FrameCount/2)
}
