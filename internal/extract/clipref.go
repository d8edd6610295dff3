package extract

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/packforge/packforge/internal/ffmpeg"
	"github.com/packforge/packforge/internal/logging"
	"github.com/packforge/packforge/internal/pack"
)

// ClipRefExtractor records clip metadata for a video without any
// transformation. It is a placeholder for a future stage producing real
// trimmed, time-stretched and reversed clip files; no file is written
// and the record references the original filename.
type ClipRefExtractor struct {
	logger zerolog.Logger
}

// NewClipRefExtractor creates a clip reference extractor.
func NewClipRefExtractor(logger zerolog.Logger) *ClipRefExtractor {
	return &ClipRefExtractor{
		logger: logging.WithComponent(logger, "clipref"),
	}
}

// Extract produces one metadata record from already-probed container
// info. Duration is frame count divided by frame rate; a container with
// no usable frame rate yields zero records.
func (e *ClipRefExtractor) Extract(info *ffmpeg.VideoInfo) []pack.ClipRecord {
	if info == nil || info.FPS == 0 {
		return nil
	}

	name := filepath.Base(info.FilePath)
	e.logger.Debug().
		Str("source", name).
		Float64("duration", info.DurationSeconds()).
		Msg("clip reference recorded")

	return []pack.ClipRecord{{
		ID:        pack.NewID(),
		Filename:  name,
		Source:    name,
		Duration:  info.DurationSeconds(),
		Stretched: false,
	}}
}
