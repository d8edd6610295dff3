package vision

import (
	"image"
	"math"
	"testing"
)

// squareFrame draws a white square of the given size at (ox, oy) on a
// black background.
func squareFrame(w, h, ox, oy, size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := oy; y < oy+size && y < h; y++ {
		for x := ox; x < ox+size && x < w; x++ {
			img.Pix[y*w+x] = 255
		}
	}
	return img
}

func TestFarnebackStaticScene(t *testing.T) {
	frame := squareFrame(64, 64, 20, 20, 16)
	flow := Farneback(frame, frame, DefaultFlowOpts())

	if flow.W != 64 || flow.H != 64 {
		t.Fatalf("flow field is %dx%d, want 64x64", flow.W, flow.H)
	}

	maxMag := 0.0
	for y := 0; y < flow.H; y++ {
		for x := 0; x < flow.W; x++ {
			if m := flow.Magnitude(x, y); m > maxMag {
				maxMag = m
			}
		}
	}
	if maxMag > 0.1 {
		t.Errorf("static scene produced flow magnitude %f", maxMag)
	}
}

func TestFarnebackMovingSquare(t *testing.T) {
	prev := squareFrame(64, 64, 20, 24, 16)
	next := squareFrame(64, 64, 23, 24, 16) // 3px shift to the right

	flow := Farneback(prev, next, DefaultFlowOpts())

	// Motion energy should concentrate around the square, pointing in
	// +x, and the far background should stay quiet.
	var inSum, inU float64
	var inCount int
	var outSum float64
	var outCount int
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			u, _ := flow.At(x, y)
			m := flow.Magnitude(x, y)
			if x >= 12 && x < 48 && y >= 16 && y < 48 {
				inSum += m
				inU += u
				inCount++
			} else if x < 6 || x >= 58 || y < 6 || y >= 58 {
				outSum += m
				outCount++
			}
		}
	}

	inMean := inSum / float64(inCount)
	outMean := outSum / float64(outCount)

	if inMean < 0.2 {
		t.Errorf("mean flow magnitude around the square is %f, expected motion", inMean)
	}
	if inMean < 2*outMean {
		t.Errorf("motion not localized: inside %f vs outside %f", inMean, outMean)
	}
	if inU <= 0 {
		t.Errorf("net horizontal flow %f, expected positive (rightward) motion", inU)
	}
}

func TestRenderFlowDimensionsAndSaturation(t *testing.T) {
	prev := squareFrame(48, 40, 10, 10, 12)
	next := squareFrame(48, 40, 12, 10, 12)

	flow := Farneback(prev, next, DefaultFlowOpts())
	img := RenderFlow(flow)

	if img.Bounds().Dx() != flow.W || img.Bounds().Dy() != flow.H {
		t.Fatalf("rendered %dx%d, want %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), flow.W, flow.H)
	}

	// The strongest-motion pixel renders at full value; with full
	// saturation that means at least one channel hits 255 and one 0.
	maxChan := uint8(0)
	for y := 0; y < flow.H; y++ {
		for x := 0; x < flow.W; x++ {
			p := img.NRGBAAt(x, y)
			for _, c := range []uint8{p.R, p.G, p.B} {
				if c > maxChan {
					maxChan = c
				}
			}
			if p.A != 255 {
				t.Fatal("alpha must be opaque")
			}
		}
	}
	if maxChan != 255 {
		t.Errorf("expected a fully bright pixel, max channel %d", maxChan)
	}
}

func TestHSVToRGB(t *testing.T) {
	cases := []struct {
		h       float64
		s, v    uint8
		r, g, b uint8
	}{
		{0, 255, 255, 255, 0, 0},
		{120, 255, 255, 0, 255, 0},
		{240, 255, 255, 0, 0, 255},
		{0, 0, 255, 255, 255, 255},
		{0, 255, 0, 0, 0, 0},
	}

	for _, tc := range cases {
		r, g, b := hsvToRGB(tc.h, tc.s, tc.v)
		if r != tc.r || g != tc.g || b != tc.b {
			t.Errorf("hsvToRGB(%v,%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
				tc.h, tc.s, tc.v, r, g, b, tc.r, tc.g, tc.b)
		}
	}
}

func TestFlowFieldMagnitude(t *testing.T) {
	f := &FlowField{W: 1, H: 1, U: []float64{3}, V: []float64{4}}
	if m := f.Magnitude(0, 0); math.Abs(m-5) > 1e-9 {
		t.Errorf("magnitude = %f, want 5", m)
	}
}
