package ffmpeg

import "time"

// VideoInfo contains metadata about a media container
type VideoInfo struct {
	FilePath   string
	Duration   time.Duration
	Width      int
	Height     int
	FPS        float64
	FrameCount int
	VideoCodec string
}

// DurationSeconds returns the clip duration derived from the container's
// frame count and frame rate, as frames / fps. Returns 0 when the frame
// rate is unknown.
func (v *VideoInfo) DurationSeconds() float64 {
	if v.FPS == 0 {
		return 0
	}
	return float64(v.FrameCount) / v.FPS
}

// RunOptions configures an ffmpeg invocation
type RunOptions struct {
	Args       []string
	LogHandler func(line string)
}
