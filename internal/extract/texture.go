package extract

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/packforge/packforge/internal/config"
	"github.com/packforge/packforge/internal/logging"
	"github.com/packforge/packforge/internal/pack"
	"github.com/packforge/packforge/internal/vision"
)

// Texture artifact type tags, in production order.
const (
	TypeEdgeMap    = "edge_map"
	TypeProcessed  = "processed"
	TypePosterized = "posterized"
)

// TextureExtractor derives static texture variants from a grayscale
// rendition of the input.
type TextureExtractor struct {
	logger   zerolog.Logger
	cfg      config.TextureConfig
	dir      string
	counters *Counters
}

// NewTextureExtractor creates a texture extractor writing into dir.
func NewTextureExtractor(logger zerolog.Logger, cfg config.TextureConfig, dir string, counters *Counters) *TextureExtractor {
	return &TextureExtractor{
		logger:   logging.WithComponent(logger, "texture"),
		cfg:      cfg,
		dir:      dir,
		counters: counters,
	}
}

// Extract produces exactly three artifacts in fixed order: edge map,
// high-pass detail, posterized.
func (e *TextureExtractor) Extract(img image.Image, source string) ([]pack.TextureRecord, error) {
	gray := vision.ToGray(img)
	records := make([]pack.TextureRecord, 0, 3)

	edges := vision.Canny(gray, e.cfg.CannyLow, e.cfg.CannyHigh)
	rec, err := e.write(edges, source, "edges", TypeEdgeMap)
	if err != nil {
		return nil, err
	}
	records = append(records, rec)

	blurred := vision.GaussianBlur(gray, e.cfg.BlurKernel)
	highpass := vision.SubtractSaturate(gray, blurred)
	rec, err = e.write(highpass, source, "highpass", TypeProcessed)
	if err != nil {
		return nil, err
	}
	records = append(records, rec)

	poster := vision.Posterize(gray, e.cfg.PosterStep)
	rec, err = e.write(poster, source, "poster", TypePosterized)
	if err != nil {
		return nil, err
	}
	records = append(records, rec)

	e.logger.Debug().Str("source", source).Int("textures", len(records)).Msg("textures extracted")
	return records, nil
}

func (e *TextureExtractor) write(img image.Image, source, suffix, typ string) (pack.TextureRecord, error) {
	name := fmt.Sprintf("texture_%03d_%s.png", e.counters.NextTexture(), suffix)
	if err := writePNG(filepath.Join(e.dir, name), img); err != nil {
		return pack.TextureRecord{}, err
	}
	return pack.TextureRecord{
		ID:       pack.NewID(),
		Filename: name,
		Source:   source,
		Type:     typ,
	}, nil
}
