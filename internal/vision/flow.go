package vision

import (
	"image"
	"math"
)

// FlowOpts are the dense optical flow parameters. Zero values are
// replaced by DefaultFlowOpts.
type FlowOpts struct {
	PyrScale   float64
	Levels     int
	WinSize    int
	Iterations int
	PolyN      int
	PolySigma  float64
}

// DefaultFlowOpts returns the fixed parameter set used by the motion
// extractor.
func DefaultFlowOpts() FlowOpts {
	return FlowOpts{
		PyrScale:   0.5,
		Levels:     3,
		WinSize:    15,
		Iterations: 3,
		PolyN:      5,
		PolySigma:  1.2,
	}
}

// FlowField holds per-pixel horizontal/vertical displacements.
type FlowField struct {
	W, H int
	U    []float64 // horizontal displacement per pixel
	V    []float64 // vertical displacement per pixel
}

// At returns the displacement vector at (x, y).
func (f *FlowField) At(x, y int) (u, v float64) {
	i := y*f.W + x
	return f.U[i], f.V[i]
}

// Magnitude returns the displacement magnitude at (x, y).
func (f *FlowField) Magnitude(x, y int) float64 {
	u, v := f.At(x, y)
	return math.Hypot(u, v)
}

// Farneback computes dense optical flow between two same-sized grayscale
// frames using Farneback's polynomial expansion method: a Gaussian image
// pyramid, local quadratic fits over polyN neighborhoods, and iterative
// displacement refinement with winsize box integration at each level.
func Farneback(prev, next *image.Gray, opts FlowOpts) *FlowField {
	if opts.PyrScale <= 0 || opts.PyrScale >= 1 {
		opts = DefaultFlowOpts()
	}

	w := prev.Bounds().Dx()
	h := prev.Bounds().Dy()

	f0 := grayToFloat(prev)
	f1 := grayToFloat(next)

	var flowU, flowV []float64
	prevW, prevH := 0, 0

	for k := opts.Levels; k >= 0; k-- {
		scale := math.Pow(opts.PyrScale, float64(k))
		lw := int(math.Round(float64(w) * scale))
		lh := int(math.Round(float64(h) * scale))
		if lw < opts.PolyN*2+1 || lh < opts.PolyN*2+1 {
			continue
		}

		sigma := (1/scale - 1) * 0.5
		i0 := smoothAndResample(f0, w, h, lw, lh, sigma)
		i1 := smoothAndResample(f1, w, h, lw, lh, sigma)

		if flowU == nil {
			flowU = make([]float64, lw*lh)
			flowV = make([]float64, lw*lh)
		} else {
			// Carry flow up from the coarser level, rescaling the
			// displacements along with the grid.
			flowU = resampleFlow(flowU, prevW, prevH, lw, lh, 1/opts.PyrScale)
			flowV = resampleFlow(flowV, prevW, prevH, lw, lh, 1/opts.PyrScale)
		}

		r0 := polyExpansion(i0, lw, lh, opts.PolyN, opts.PolySigma)
		r1 := polyExpansion(i1, lw, lh, opts.PolyN, opts.PolySigma)

		m := make([]float64, lw*lh*5)
		for it := 0; it < opts.Iterations; it++ {
			updateMatrices(r0, r1, flowU, flowV, m, lw, lh)
			boxBlurPlanes(m, lw, lh, opts.WinSize)
			solveFlow(m, flowU, flowV, lw, lh)
		}

		prevW, prevH = lw, lh
	}

	if flowU == nil {
		// Input too small for any pyramid level: no detectable motion.
		flowU = make([]float64, w*h)
		flowV = make([]float64, w*h)
		prevW, prevH = w, h
	}

	return &FlowField{W: prevW, H: prevH, U: flowU, V: flowV}
}

func grayToFloat(g *image.Gray) []float64 {
	bounds := g.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = float64(g.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
		}
	}
	return out
}

// smoothAndResample blurs the full-resolution plane and bilinearly
// resamples it to the pyramid level's dimensions.
func smoothAndResample(src []float64, w, h, dw, dh int, sigma float64) []float64 {
	plane := src
	if sigma > 0.01 {
		ksize := int(sigma*5) | 1
		if ksize < 3 {
			ksize = 3
		}
		plane = blurPlane(src, w, h, ksize, sigma)
	}

	if dw == w && dh == h {
		out := make([]float64, w*h)
		copy(out, plane)
		return out
	}

	out := make([]float64, dw*dh)
	xr := float64(w) / float64(dw)
	yr := float64(h) / float64(dh)
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			out[y*dw+x] = bilinear(plane, w, h, (float64(x)+0.5)*xr-0.5, (float64(y)+0.5)*yr-0.5)
		}
	}
	return out
}

func resampleFlow(src []float64, w, h, dw, dh int, gain float64) []float64 {
	out := make([]float64, dw*dh)
	xr := float64(w) / float64(dw)
	yr := float64(h) / float64(dh)
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			out[y*dw+x] = gain * bilinear(src, w, h, (float64(x)+0.5)*xr-0.5, (float64(y)+0.5)*yr-0.5)
		}
	}
	return out
}

func bilinear(src []float64, w, h int, fx, fy float64) float64 {
	if fx < 0 {
		fx = 0
	}
	if fy < 0 {
		fy = 0
	}
	if fx > float64(w-1) {
		fx = float64(w - 1)
	}
	if fy > float64(h-1) {
		fy = float64(h - 1)
	}
	x0, y0 := int(fx), int(fy)
	x1, y1 := x0+1, y0+1
	if x1 > w-1 {
		x1 = w - 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}
	ax, ay := fx-float64(x0), fy-float64(y0)

	top := src[y0*w+x0]*(1-ax) + src[y0*w+x1]*ax
	bot := src[y1*w+x0]*(1-ax) + src[y1*w+x1]*ax
	return top*(1-ay) + bot*ay
}

func blurPlane(src []float64, w, h, ksize int, sigma float64) []float64 {
	kernel := gaussianKernel(ksize, sigma)
	radius := ksize / 2

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * src[y*w+reflect101(x+k, w)]
			}
			tmp[y*w+x] = sum
		}
	}

	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * tmp[reflect101(y+k, h)*w+x]
			}
			out[y*w+x] = sum
		}
	}
	return out
}

// polyExpansion fits a quadratic polynomial to the Gaussian-weighted
// neighborhood of every pixel and returns five coefficient planes per
// pixel: [by, bx, cyy, cxx, cxy].
func polyExpansion(src []float64, w, h, polyN int, sigma float64) []float64 {
	n := polyN / 2
	if n < 1 {
		n = 2
	}

	g := make([]float64, 2*n+1)
	xg := make([]float64, 2*n+1)
	xxg := make([]float64, 2*n+1)
	sum := 0.0
	for i := -n; i <= n; i++ {
		g[i+n] = math.Exp(-float64(i*i) / (2 * sigma * sigma))
		sum += g[i+n]
	}
	for i := -n; i <= n; i++ {
		g[i+n] /= sum
		xg[i+n] = float64(i) * g[i+n]
		xxg[i+n] = float64(i*i) * g[i+n]
	}

	// Inverse Gram matrix terms for the (1, x, y, x², y², xy) basis
	// under the separable Gaussian weight.
	var ga, gb, gc, gd float64
	for y := -n; y <= n; y++ {
		for x := -n; x <= n; x++ {
			wgt := g[y+n] * g[x+n]
			ga += wgt
			gb += wgt * float64(x*x)
			gc += wgt * float64(x*x*x*x)
			gd += wgt * float64(x*x*y*y)
		}
	}
	det := (gc - gd) * (ga*(gc+gd) - 2*gb*gb)
	ig11 := 1 / gb
	ig55 := 1 / gd
	ig03 := -gb * (gc - gd) / det
	ig33 := (ga*gc - gb*gb) / det

	out := make([]float64, w*h*5)
	row := make([]float64, w*3)

	for y := 0; y < h; y++ {
		// Vertical smoothing pass.
		for x := 0; x < w; x++ {
			b0 := src[y*w+x] * g[n]
			b1 := 0.0
			b2 := 0.0
			for k := 1; k <= n; k++ {
				p := src[reflect101(y+k, h)*w+x]
				q := src[reflect101(y-k, h)*w+x]
				b0 += (p + q) * g[n+k]
				b1 += (p - q) * xg[n+k]
				b2 += (p + q) * xxg[n+k]
			}
			row[x*3] = b0
			row[x*3+1] = b1
			row[x*3+2] = b2
		}

		// Horizontal pass combining into polynomial coefficients.
		for x := 0; x < w; x++ {
			b1 := g[n] * row[x*3]
			b3 := g[n] * row[x*3+1]
			b5 := g[n] * row[x*3+2]
			b2, b4, b6 := 0.0, 0.0, 0.0
			for k := 1; k <= n; k++ {
				xp := reflect101(x+k, w)
				xm := reflect101(x-k, w)
				tg := row[xp*3] + row[xm*3]
				b1 += tg * g[n+k]
				b4 += tg * xxg[n+k]
				b2 += (row[xp*3] - row[xm*3]) * xg[n+k]
				b3 += (row[xp*3+1] + row[xm*3+1]) * g[n+k]
				b6 += (row[xp*3+1] - row[xm*3+1]) * xg[n+k]
				b5 += (row[xp*3+2] + row[xm*3+2]) * g[n+k]
			}

			i := (y*w + x) * 5
			out[i] = b3 * ig11            // by
			out[i+1] = b2 * ig11          // bx
			out[i+2] = b1*ig03 + b5*ig33  // cyy
			out[i+3] = b1*ig03 + b4*ig33  // cxx
			out[i+4] = b6 * ig55          // cxy
		}
	}

	return out
}

// updateMatrices builds the per-pixel 2x2 normal equations relating the
// two frames' polynomial coefficients under the current displacement.
func updateMatrices(r0, r1, flowU, flowV, m []float64, w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			dx := flowU[i]
			dy := flowV[i]

			fx := float64(x) + dx
			fy := float64(y) + dy

			var r2, r3, r4, r5, r6 float64
			x1 := int(math.Floor(fx))
			y1 := int(math.Floor(fy))

			if x1 >= 0 && y1 >= 0 && x1 < w-1 && y1 < h-1 {
				ax := fx - float64(x1)
				ay := fy - float64(y1)
				a00 := (1 - ax) * (1 - ay)
				a01 := ax * (1 - ay)
				a10 := (1 - ax) * ay
				a11 := ax * ay

				p00 := (y1*w + x1) * 5
				p01 := p00 + 5
				p10 := p00 + w*5
				p11 := p10 + 5

				r2 = a00*r1[p00] + a01*r1[p01] + a10*r1[p10] + a11*r1[p11]
				r3 = a00*r1[p00+1] + a01*r1[p01+1] + a10*r1[p10+1] + a11*r1[p11+1]
				r4 = a00*r1[p00+2] + a01*r1[p01+2] + a10*r1[p10+2] + a11*r1[p11+2]
				r5 = a00*r1[p00+3] + a01*r1[p01+3] + a10*r1[p10+3] + a11*r1[p11+3]
				r6 = a00*r1[p00+4] + a01*r1[p01+4] + a10*r1[p10+4] + a11*r1[p11+4]

				r4 = (r0[i*5+2] + r4) * 0.5
				r5 = (r0[i*5+3] + r5) * 0.5
				r6 = (r0[i*5+4] + r6) * 0.25
			} else {
				// Displacement points outside the frame: fall back to
				// the first frame's local expansion.
				r2, r3 = 0, 0
				r4 = r0[i*5+2]
				r5 = r0[i*5+3]
				r6 = r0[i*5+4] * 0.5
			}

			r2 = (r0[i*5] - r2) * 0.5
			r3 = (r0[i*5+1] - r3) * 0.5
			r2 += r4*dy + r6*dx
			r3 += r6*dy + r5*dx

			m[i*5] = r4*r4 + r6*r6
			m[i*5+1] = (r4 + r5) * r6
			m[i*5+2] = r5*r5 + r6*r6
			m[i*5+3] = r4*r2 + r6*r3
			m[i*5+4] = r6*r2 + r5*r3
		}
	}
}

// boxBlurPlanes integrates the five normal-equation planes over the
// winsize neighborhood with a running box sum per row and column.
func boxBlurPlanes(m []float64, w, h, winsize int) {
	if winsize < 3 {
		winsize = 3
	}
	if winsize%2 == 0 {
		winsize++
	}
	radius := winsize / 2
	norm := 1 / float64(winsize*winsize)

	tmp := make([]float64, len(m))
	// Horizontal pass.
	for y := 0; y < h; y++ {
		for p := 0; p < 5; p++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += m[(y*w+clampIdx(k, w))*5+p]
			}
			for x := 0; x < w; x++ {
				tmp[(y*w+x)*5+p] = sum
				sum -= m[(y*w+clampIdx(x-radius, w))*5+p]
				sum += m[(y*w+clampIdx(x+radius+1, w))*5+p]
			}
		}
	}
	// Vertical pass.
	for x := 0; x < w; x++ {
		for p := 0; p < 5; p++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += tmp[(clampIdx(k, h)*w+x)*5+p]
			}
			for y := 0; y < h; y++ {
				m[(y*w+x)*5+p] = sum * norm
				sum -= tmp[(clampIdx(y-radius, h)*w+x)*5+p]
				sum += tmp[(clampIdx(y+radius+1, h)*w+x)*5+p]
			}
		}
	}
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// solveFlow solves the integrated 2x2 system at every pixel.
func solveFlow(m, flowU, flowV []float64, w, h int) {
	for i := 0; i < w*h; i++ {
		g11 := m[i*5]
		g12 := m[i*5+1]
		g22 := m[i*5+2]
		h1 := m[i*5+3]
		h2 := m[i*5+4]

		idet := 1 / (g11*g22 - g12*g12 + 1e-3)
		flowU[i] = (g11*h2 - g12*h1) * idet
		flowV[i] = (g22*h1 - g12*h2) * idet
	}
}
