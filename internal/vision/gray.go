package vision

import (
	"image"
	"image/color"
)

// Luminance weights matching the Rec.601 conversion used across the
// pipeline (texture, ghost and flow inputs all agree on this gray).
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// ToGray converts any image to 8-bit grayscale using Rec.601 luma.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			lum := lumaR*float64(r>>8) + lumaG*float64(g>>8) + lumaB*float64(b>>8)
			gray.SetGray(x, y, color.Gray{Y: clampU8(lum + 0.5)})
		}
	}

	return gray
}

// ExpandGray re-expands a grayscale image to three equal channels.
func ExpandGray(gray *image.Gray) *image.NRGBA {
	bounds := gray.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := gray.GrayAt(x, y).Y
			out.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	return out
}

// ToNRGBA normalizes any decoded image to NRGBA.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}

	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			out.SetNRGBA(x, y, color.NRGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}

	return out
}

// ScaleContrast applies a linear contrast stretch with saturating
// arithmetic on each color channel.
func ScaleContrast(img image.Image, gain float64) *image.NRGBA {
	src := ToNRGBA(img)
	bounds := src.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p := src.NRGBAAt(x, y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: clampU8(gain*float64(p.R) + 0.5),
				G: clampU8(gain*float64(p.G) + 0.5),
				B: clampU8(gain*float64(p.B) + 0.5),
				A: p.A,
			})
		}
	}

	return out
}

func clampU8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
