package pack

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// Pack is the result of one batch-processing run: the source media that
// went in and every artifact that came out, in input order.
type Pack struct {
	PackID      string        `json:"pack_id"`
	CreatedAt   string        `json:"created_at"`
	SourceMedia []SourceMedia `json:"source_media"`
	Artifacts   Artifacts     `json:"artifacts"`
}

// SourceMedia is one validated input file.
type SourceMedia struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
}

// Artifacts groups the extracted records by category. All five arrays
// are always present in the manifest, even when empty.
type Artifacts struct {
	ColorPalettes  []PaletteRecord `json:"color_palettes"`
	Textures       []TextureRecord `json:"textures"`
	MotionPatterns []MotionRecord  `json:"motion_patterns"`
	VideoClips     []ClipRecord    `json:"video_clips"`
	GhostedImages  []GhostRecord   `json:"ghosted_images"`
}

// PaletteRecord is a dominant-color palette extracted from one image or
// sampled video frame.
type PaletteRecord struct {
	ID     string   `json:"id"`
	Colors []string `json:"colors"`
	Source string   `json:"source"`
}

// TextureRecord is one texture variant written to the texture directory.
type TextureRecord struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Source   string `json:"source"`
	Type     string `json:"type"`
}

// MotionRecord is an optical-flow visualization image.
type MotionRecord struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Source   string `json:"source"`
	Type     string `json:"type"`
}

// ClipRecord references a source video's clip metadata. No derived clip
// file exists yet; Filename names the original and Stretched is always
// false until a real trimming stage lands.
type ClipRecord struct {
	ID        string  `json:"id"`
	Filename  string  `json:"filename"`
	Source    string  `json:"source"`
	Duration  float64 `json:"duration"`
	Stretched bool    `json:"stretched"`
}

// GhostRecord is a stylized image variant with a suggested display
// opacity for the downstream renderer.
type GhostRecord struct {
	ID       string  `json:"id"`
	Filename string  `json:"filename"`
	Source   string  `json:"source"`
	Opacity  float64 `json:"opacity"`
}

// New creates an empty pack stamped with the current time. Every
// category array is allocated so the manifest always carries all five
// keys.
func New(packID string) *Pack {
	return &Pack{
		PackID:      packID,
		CreatedAt:   time.Now().Format(time.RFC3339),
		SourceMedia: make([]SourceMedia, 0),
		Artifacts: Artifacts{
			ColorPalettes:  make([]PaletteRecord, 0),
			Textures:       make([]TextureRecord, 0),
			MotionPatterns: make([]MotionRecord, 0),
			VideoClips:     make([]ClipRecord, 0),
			GhostedImages:  make([]GhostRecord, 0),
		},
	}
}

// NewID returns a globally-unique artifact identifier.
func NewID() string {
	return uuid.NewString()
}

// AddSource appends one source-media entry in input order.
func (p *Pack) AddSource(filename, kind string) {
	p.SourceMedia = append(p.SourceMedia, SourceMedia{Filename: filename, Type: kind})
}

// WriteManifest serializes the pack as indented JSON at the given path.
func (p *Pack) WriteManifest(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
