package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Output policies for a run against a non-empty output directory.
const (
	PolicyAppend = "append"
	PolicyClean  = "clean"
	PolicyFail   = "fail"
)

// Config holds all application configuration
type Config struct {
	// OutputPolicy controls what happens when the output root already
	// holds artifacts from a previous run: append, clean, or fail.
	OutputPolicy string `yaml:"output_policy"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Extraction settings
	Palette PaletteConfig `yaml:"palette"`
	Texture TextureConfig `yaml:"texture"`
	Motion  MotionConfig  `yaml:"motion"`
	Ghost   GhostConfig   `yaml:"ghost"`

	// OSC settings for the downstream diagnostic command
	OSC OSCConfig `yaml:"osc"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
	Threads    int    `yaml:"threads"`
}

type PaletteConfig struct {
	Colors     int   `yaml:"colors"`
	SampleSize int   `yaml:"sample_size"`
	Seed       int64 `yaml:"seed"`
}

type TextureConfig struct {
	CannyLow   float64 `yaml:"canny_low"`
	CannyHigh  float64 `yaml:"canny_high"`
	BlurKernel int     `yaml:"blur_kernel"`
	PosterStep int     `yaml:"poster_step"`
}

type MotionConfig struct {
	PyrScale   float64 `yaml:"pyr_scale"`
	Levels     int     `yaml:"levels"`
	WinSize    int     `yaml:"win_size"`
	Iterations int     `yaml:"iterations"`
	PolyN      int     `yaml:"poly_n"`
	PolySigma  float64 `yaml:"poly_sigma"`
}

type GhostConfig struct {
	ContrastGain    float64 `yaml:"contrast_gain"`
	ContrastOpacity float64 `yaml:"contrast_opacity"`
	DesatOpacity    float64 `yaml:"desat_opacity"`
}

type OSCConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		OutputPolicy: PolicyAppend,
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			ProbePath:  "ffprobe",
			Threads:    0,
		},
		Palette: PaletteConfig{
			Colors:     6,
			SampleSize: 150,
			Seed:       42,
		},
		Texture: TextureConfig{
			CannyLow:   50,
			CannyHigh:  150,
			BlurKernel: 21,
			PosterStep: 64,
		},
		Motion: MotionConfig{
			PyrScale:   0.5,
			Levels:     3,
			WinSize:    15,
			Iterations: 3,
			PolyN:      5,
			PolySigma:  1.2,
		},
		Ghost: GhostConfig{
			ContrastGain:    1.5,
			ContrastOpacity: 0.5,
			DesatOpacity:    0.3,
		},
		OSC: OSCConfig{
			Host: "127.0.0.1",
			Port: 9000,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".packforge", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
