package extract

import "sync/atomic"

// Counters are the run-scoped filename counters. Texture and ghost
// artifacts share one counter because both write into the texture
// directory: their filenames interleave in creation order but never
// collide since the name prefixes differ. Counters are never persisted;
// a fresh run starts again from zero.
type Counters struct {
	texture atomic.Int64
	motion  atomic.Int64
	clip    atomic.Int64
}

// NextTexture returns the next texture-directory sequence number.
func (c *Counters) NextTexture() int64 {
	return c.texture.Add(1) - 1
}

// NextMotion returns the next motion sequence number.
func (c *Counters) NextMotion() int64 {
	return c.motion.Add(1) - 1
}

// NextClip returns the next clip sequence number. Unused until a real
// clip-trimming stage produces files.
func (c *Counters) NextClip() int64 {
	return c.clip.Add(1) - 1
}
