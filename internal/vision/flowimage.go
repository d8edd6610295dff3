package vision

import (
	"image"
	"image/color"
	"math"
)

// RenderFlow converts a flow field into a color-coded visualization:
// direction maps to hue, magnitude is min-max normalized onto value,
// saturation is held at maximum.
func RenderFlow(flow *FlowField) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, flow.W, flow.H))

	minMag, maxMag := math.Inf(1), math.Inf(-1)
	mags := make([]float64, flow.W*flow.H)
	for y := 0; y < flow.H; y++ {
		for x := 0; x < flow.W; x++ {
			m := flow.Magnitude(x, y)
			mags[y*flow.W+x] = m
			if m < minMag {
				minMag = m
			}
			if m > maxMag {
				maxMag = m
			}
		}
	}

	span := maxMag - minMag
	for y := 0; y < flow.H; y++ {
		for x := 0; x < flow.W; x++ {
			u, v := flow.At(x, y)

			ang := math.Atan2(v, u)
			if ang < 0 {
				ang += 2 * math.Pi
			}
			hue := ang * 180 / math.Pi // degrees, 0-360

			val := 0.0
			if span > 0 {
				val = (mags[y*flow.W+x] - minMag) / span * 255
			}

			r, g, b := hsvToRGB(hue, 255, clampU8(val+0.5))
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}

	return out
}

// hsvToRGB converts hue in degrees with 8-bit saturation/value.
func hsvToRGB(hue float64, sat, val uint8) (uint8, uint8, uint8) {
	s := float64(sat) / 255
	v := float64(val) / 255

	h := math.Mod(hue, 360) / 60
	i := int(h)
	f := h - float64(i)

	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return clampU8(r*255 + 0.5), clampU8(g*255 + 0.5), clampU8(b*255 + 0.5)
}
