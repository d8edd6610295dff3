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

// GhostGenerator derives stylized "ghost" variants of a color image,
// each tagged with a suggested display opacity. Ghosts live in the
// texture directory and advance the shared texture counter.
type GhostGenerator struct {
	logger   zerolog.Logger
	cfg      config.GhostConfig
	dir      string
	counters *Counters
}

// NewGhostGenerator creates a ghost generator writing into dir.
func NewGhostGenerator(logger zerolog.Logger, cfg config.GhostConfig, dir string, counters *Counters) *GhostGenerator {
	return &GhostGenerator{
		logger:   logging.WithComponent(logger, "ghost"),
		cfg:      cfg,
		dir:      dir,
		counters: counters,
	}
}

// Extract produces exactly two artifacts: a high-contrast variant, then
// a desaturated one.
func (e *GhostGenerator) Extract(img image.Image, source string) ([]pack.GhostRecord, error) {
	records := make([]pack.GhostRecord, 0, 2)

	contrast := vision.ScaleContrast(img, e.cfg.ContrastGain)
	rec, err := e.write(contrast, source, "contrast", e.cfg.ContrastOpacity)
	if err != nil {
		return nil, err
	}
	records = append(records, rec)

	desat := vision.ExpandGray(vision.ToGray(img))
	rec, err = e.write(desat, source, "desat", e.cfg.DesatOpacity)
	if err != nil {
		return nil, err
	}
	records = append(records, rec)

	e.logger.Debug().Str("source", source).Msg("ghost variants created")
	return records, nil
}

func (e *GhostGenerator) write(img image.Image, source, suffix string, opacity float64) (pack.GhostRecord, error) {
	name := fmt.Sprintf("ghost_%03d_%s.png", e.counters.NextTexture(), suffix)
	if err := writePNG(filepath.Join(e.dir, name), img); err != nil {
		return pack.GhostRecord{}, err
	}
	return pack.GhostRecord{
		ID:       pack.NewID(),
		Filename: name,
		Source:   source,
		Opacity:  opacity,
	}, nil
}
