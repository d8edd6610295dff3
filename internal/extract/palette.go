package extract

import (
	"image"

	"github.com/rs/zerolog"

	"github.com/packforge/packforge/internal/config"
	"github.com/packforge/packforge/internal/logging"
	"github.com/packforge/packforge/internal/pack"
	"github.com/packforge/packforge/internal/vision"
)

// PaletteExtractor reduces an image to its dominant-color palette.
type PaletteExtractor struct {
	logger zerolog.Logger
	cfg    config.PaletteConfig
}

// NewPaletteExtractor creates a palette extractor.
func NewPaletteExtractor(logger zerolog.Logger, cfg config.PaletteConfig) *PaletteExtractor {
	return &PaletteExtractor{
		logger: logging.WithComponent(logger, "palette"),
		cfg:    cfg,
	}
}

// Extract clusters the image's colors and returns exactly one record.
// The clustering seed is fixed, so the same decoded image always yields
// the same palette.
func (e *PaletteExtractor) Extract(img image.Image, source string) []pack.PaletteRecord {
	colors := vision.Palette(img, e.cfg.Colors, e.cfg.SampleSize, e.cfg.Seed)

	e.logger.Debug().
		Str("source", source).
		Strs("colors", colors).
		Msg("palette extracted")

	return []pack.PaletteRecord{{
		ID:     pack.NewID(),
		Colors: colors,
		Source: source,
	}}
}
