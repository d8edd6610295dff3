package extract

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/packforge/packforge/internal/config"
	"github.com/packforge/packforge/internal/ffmpeg"
	"github.com/packforge/packforge/internal/logging"
	"github.com/packforge/packforge/internal/pack"
	"github.com/packforge/packforge/internal/vision"
)

// TypeOpticalFlow tags motion artifacts in the manifest.
const TypeOpticalFlow = "optical_flow"

// MotionExtractor computes a dense optical-flow snapshot between the
// first two frames of a clip. This samples motion at exactly one point
// in time, not across the full duration.
type MotionExtractor struct {
	logger   zerolog.Logger
	cfg      config.MotionConfig
	dir      string
	counters *Counters
	ff       *ffmpeg.Executor
}

// NewMotionExtractor creates a motion extractor writing into dir.
func NewMotionExtractor(logger zerolog.Logger, cfg config.MotionConfig, dir string, counters *Counters, ff *ffmpeg.Executor) *MotionExtractor {
	return &MotionExtractor{
		logger:   logging.WithComponent(logger, "motion"),
		cfg:      cfg,
		dir:      dir,
		counters: counters,
		ff:       ff,
	}
}

// Extract reads frames 0 and 1, computes dense flow between them, and
// writes one color-coded visualization. A clip too short to supply both
// frames yields zero artifacts and no error.
func (e *MotionExtractor) Extract(ctx context.Context, path string) ([]pack.MotionRecord, error) {
	first, err := e.ff.ExtractFrame(ctx, path, 0)
	if err != nil {
		e.logger.Debug().Err(err).Str("source", path).Msg("no first frame, skipping motion")
		return nil, nil
	}

	second, err := e.ff.ExtractFrame(ctx, path, 1)
	if err != nil {
		e.logger.Debug().Err(err).Str("source", path).Msg("no second frame, skipping motion")
		return nil, nil
	}

	flow := vision.Farneback(vision.ToGray(first), vision.ToGray(second), vision.FlowOpts{
		PyrScale:   e.cfg.PyrScale,
		Levels:     e.cfg.Levels,
		WinSize:    e.cfg.WinSize,
		Iterations: e.cfg.Iterations,
		PolyN:      e.cfg.PolyN,
		PolySigma:  e.cfg.PolySigma,
	})

	name := fmt.Sprintf("motion_%03d.png", e.counters.NextMotion())
	if err := writePNG(filepath.Join(e.dir, name), vision.RenderFlow(flow)); err != nil {
		return nil, err
	}

	e.logger.Debug().Str("source", path).Str("file", name).Msg("optical flow rendered")

	return []pack.MotionRecord{{
		ID:       pack.NewID(),
		Filename: name,
		Source:   filepath.Base(path),
		Type:     TypeOpticalFlow,
	}}, nil
}
