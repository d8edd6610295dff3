package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/packforge/packforge/internal/config"
	"github.com/packforge/packforge/internal/extract"
	"github.com/packforge/packforge/internal/ffmpeg"
	"github.com/packforge/packforge/internal/logging"
	"github.com/packforge/packforge/internal/media"
	"github.com/packforge/packforge/internal/pack"
	"github.com/packforge/packforge/pkg/util"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Pipeline drives one batch-extraction run: classify each input,
// dispatch to the per-type extractors, isolate per-file failures, and
// accumulate everything into a single Pack.
type Pipeline struct {
	logger zerolog.Logger
	cfg    *config.Config

	outputRoot  string
	texturesDir string
	motionDir   string
	clipsDir    string

	ff       *ffmpeg.Executor
	sampler  *extract.FrameSampler
	counters *extract.Counters

	palette  *extract.PaletteExtractor
	textures *extract.TextureExtractor
	ghosts   *extract.GhostGenerator
	motion   *extract.MotionExtractor
	clips    *extract.ClipRefExtractor
}

// Warning records one recoverable per-file failure.
type Warning struct {
	File string
	Err  error
}

// Result is the outcome of a run: the pack plus the per-file warnings
// accumulated along the way.
type Result struct {
	Pack     *pack.Pack
	Warnings []Warning
}

// New prepares a run rooted at outputRoot. Directory setup is the only
// fatal concern here; a missing ffmpeg binary degrades video handling
// to per-file warnings instead of killing image-only batches.
func New(logger zerolog.Logger, cfg *config.Config, outputRoot string) (*Pipeline, error) {
	p := &Pipeline{
		logger:      logging.WithComponent(logger, "pipeline"),
		cfg:         cfg,
		outputRoot:  outputRoot,
		texturesDir: filepath.Join(outputRoot, "textures"),
		motionDir:   filepath.Join(outputRoot, "motion"),
		clipsDir:    filepath.Join(outputRoot, "clips"),
		counters:    &extract.Counters{},
	}

	if err := p.prepareDirs(); err != nil {
		return nil, err
	}

	ff, err := ffmpeg.New(logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath, cfg.FFmpeg.Threads)
	if err != nil {
		p.logger.Warn().Err(err).Msg("ffmpeg unavailable, video inputs will be skipped")
	} else {
		p.ff = ff
		p.sampler = extract.NewFrameSampler(ff)
		p.motion = extract.NewMotionExtractor(logger, cfg.Motion, p.motionDir, p.counters, ff)
	}

	p.palette = extract.NewPaletteExtractor(logger, cfg.Palette)
	p.textures = extract.NewTextureExtractor(logger, cfg.Texture, p.texturesDir, p.counters)
	p.ghosts = extract.NewGhostGenerator(logger, cfg.Ghost, p.texturesDir, p.counters)
	p.clips = extract.NewClipRefExtractor(logger)

	return p, nil
}

func (p *Pipeline) prepareDirs() error {
	manifest := filepath.Join(p.outputRoot, "artifacts.json")

	switch p.cfg.OutputPolicy {
	case config.PolicyFail:
		if util.FileExists(manifest) {
			return fmt.Errorf("output root %s already holds a manifest (output_policy: fail)", p.outputRoot)
		}
	case config.PolicyClean:
		for _, dir := range []string{p.texturesDir, p.motionDir, p.clipsDir} {
			if err := util.ClearDir(dir); err != nil {
				return fmt.Errorf("failed to clean %s: %w", dir, err)
			}
		}
		util.CleanupFiles(manifest)
	}

	for _, dir := range []string{p.texturesDir, p.motionDir, p.clipsDir} {
		if err := util.EnsureDir(dir); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Run processes all media in input order and returns the finished pack.
// No failure on an individual file ever aborts the batch; each becomes
// a warning and processing continues with the next file.
func (p *Pipeline) Run(ctx context.Context, packID string, files []string) (*Result, error) {
	pk := pack.New(packID)
	result := &Result{Pack: pk}

	p.logger.Info().
		Str("pack_id", packID).
		Int("files", len(files)).
		Msg("starting extraction run")

	for _, file := range files {
		if !util.FileExists(file) {
			p.warn(result, file, fmt.Errorf("file not found"))
			continue
		}

		kind := media.Classify(file)
		pk.AddSource(filepath.Base(file), string(kind))

		p.logger.Info().
			Str("file", filepath.Base(file)).
			Str("type", string(kind)).
			Msg("processing")

		if err := p.processFile(ctx, pk, file, kind); err != nil {
			p.warn(result, file, err)
		}
	}

	p.logger.Info().
		Str("pack_id", packID).
		Int("palettes", len(pk.Artifacts.ColorPalettes)).
		Int("textures", len(pk.Artifacts.Textures)).
		Int("motion", len(pk.Artifacts.MotionPatterns)).
		Int("clips", len(pk.Artifacts.VideoClips)).
		Int("ghosts", len(pk.Artifacts.GhostedImages)).
		Int("warnings", len(result.Warnings)).
		Msg("extraction run complete")

	return result, nil
}

// processFile dispatches one input to its extractors. Panics from deep
// inside the decode/filter stack are confined to the file boundary.
func (p *Pipeline) processFile(ctx context.Context, pk *pack.Pack, file string, kind media.Kind) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing: %v", r)
		}
	}()

	switch kind {
	case media.KindImage:
		return p.processImage(ctx, pk, file)
	case media.KindVideo, media.KindLoop:
		return p.processVideo(ctx, pk, file)
	default:
		// Unknown kinds stay in source media but produce no artifacts.
		return nil
	}
}

func (p *Pipeline) processImage(ctx context.Context, pk *pack.Pack, file string) error {
	img, err := p.decodeImage(ctx, file)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	source := filepath.Base(file)

	pk.Artifacts.ColorPalettes = append(pk.Artifacts.ColorPalettes, p.palette.Extract(img, source)...)

	textures, err := p.textures.Extract(img, source)
	if err != nil {
		return err
	}
	pk.Artifacts.Textures = append(pk.Artifacts.Textures, textures...)

	ghosts, err := p.ghosts.Extract(img, source)
	if err != nil {
		return err
	}
	pk.Artifacts.GhostedImages = append(pk.Artifacts.GhostedImages, ghosts...)

	return nil
}

func (p *Pipeline) processVideo(ctx context.Context, pk *pack.Pack, file string) error {
	if p.ff == nil {
		return fmt.Errorf("ffmpeg unavailable, cannot process video")
	}

	info, err := p.ff.Probe(ctx, file)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	source := filepath.Base(file)

	// Palette from the first frame; a frameless container just yields
	// no palette.
	if frame, err := p.sampler.First(ctx, file); err == nil {
		pk.Artifacts.ColorPalettes = append(pk.Artifacts.ColorPalettes, p.palette.Extract(frame, source)...)
	} else {
		p.logger.Debug().Err(err).Str("file", source).Msg("no first frame, skipping palette")
	}

	// Textures from the middle frame.
	if frame, err := p.sampler.Middle(ctx, file, info); err == nil {
		textures, err := p.textures.Extract(frame, source)
		if err != nil {
			return err
		}
		pk.Artifacts.Textures = append(pk.Artifacts.Textures, textures...)
	} else {
		p.logger.Debug().Err(err).Str("file", source).Msg("no middle frame, skipping textures")
	}

	motion, err := p.motion.Extract(ctx, file)
	if err != nil {
		return err
	}
	pk.Artifacts.MotionPatterns = append(pk.Artifacts.MotionPatterns, motion...)

	pk.Artifacts.VideoClips = append(pk.Artifacts.VideoClips, p.clips.Extract(info)...)

	return nil
}

// decodeImage decodes a still through the native codecs, falling back
// to ffmpeg for formats they can't handle (HEIC in particular).
func (p *Pipeline) decodeImage(ctx context.Context, file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err == nil {
		return img, nil
	}

	if p.ff != nil {
		return p.ff.DecodeStill(ctx, file)
	}
	return nil, err
}

func (p *Pipeline) warn(result *Result, file string, err error) {
	p.logger.Warn().Err(err).Str("file", filepath.Base(file)).Msg("skipping file")
	result.Warnings = append(result.Warnings, Warning{File: file, Err: err})
}
