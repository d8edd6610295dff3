package vision

import (
	"image"
	"math"
)

// GaussianBlur blurs a grayscale image with a square kernel of the given
// odd size. Sigma is derived from the kernel size the way fixed-kernel
// blurs conventionally do: 0.3*((ksize-1)*0.5 - 1) + 0.8.
func GaussianBlur(src *image.Gray, ksize int) *image.Gray {
	if ksize < 3 {
		ksize = 3
	}
	if ksize%2 == 0 {
		ksize++
	}

	sigma := 0.3*(float64(ksize-1)*0.5-1) + 0.8
	kernel := gaussianKernel(ksize, sigma)
	radius := ksize / 2

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Separable convolution: horizontal pass into a float buffer,
	// vertical pass back to bytes.
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sx := reflect101(x+k, w)
				sum += kernel[k+radius] * float64(src.GrayAt(bounds.Min.X+sx, bounds.Min.Y+y).Y)
			}
			tmp[y*w+x] = sum
		}
	}

	out := image.NewGray(bounds)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sy := reflect101(y+k, h)
				sum += kernel[k+radius] * tmp[sy*w+x]
			}
			out.Pix[out.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)] = clampU8(sum + 0.5)
		}
	}

	return out
}

// SubtractSaturate computes a - b per pixel, clamped at zero. Used to
// isolate high-frequency detail by subtracting a blurred copy.
func SubtractSaturate(a, b *image.Gray) *image.Gray {
	bounds := a.Bounds()
	out := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			av := int(a.GrayAt(x, y).Y)
			bv := int(b.GrayAt(x, y).Y)
			d := av - bv
			if d < 0 {
				d = 0
			}
			out.Pix[out.PixOffset(x, y)] = uint8(d)
		}
	}

	return out
}

// Posterize quantizes each pixel into step-wide bands, rescaled back to
// the original range so the output shows flat intensity steps.
func Posterize(src *image.Gray, step int) *image.Gray {
	if step <= 0 {
		step = 1
	}

	bounds := src.Bounds()
	out := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := int(src.GrayAt(x, y).Y)
			out.Pix[out.PixOffset(x, y)] = uint8(v / step * step)
		}
	}

	return out
}

func gaussianKernel(ksize int, sigma float64) []float64 {
	radius := ksize / 2
	kernel := make([]float64, ksize)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// reflect101 mirrors an out-of-range index without repeating the border
// pixel (…cba|abcd|cba…).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}
