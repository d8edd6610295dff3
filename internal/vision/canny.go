package vision

import "image"

// Canny runs the classic Canny edge detector with fixed low/high
// hysteresis thresholds over the L1 gradient magnitude: 3x3 Sobel
// gradients, non-maximum suppression along the quantized gradient
// direction, then hysteresis linking of weak edges to strong ones.
func Canny(src *image.Gray, low, high float64) *image.Gray {
	if low > high {
		low, high = high, low
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(bounds)
	if w < 3 || h < 3 {
		return out
	}

	px := func(x, y int) int {
		return int(src.Pix[src.PixOffset(bounds.Min.X+reflect101(x, w), bounds.Min.Y+reflect101(y, h))])
	}

	gx := make([]int, w*h)
	gy := make([]int, w*h)
	mag := make([]float64, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (px(x+1, y-1) + 2*px(x+1, y) + px(x+1, y+1)) -
				(px(x-1, y-1) + 2*px(x-1, y) + px(x-1, y+1))
			dy := (px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1)) -
				(px(x-1, y-1) + 2*px(x, y-1) + px(x+1, y-1))
			gx[y*w+x] = dx
			gy[y*w+x] = dy
			mag[y*w+x] = float64(abs(dx) + abs(dy))
		}
	}

	// Non-maximum suppression: 0 = suppressed, 1 = weak, 2 = strong.
	state := make([]uint8, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := mag[i]
			if m < low {
				continue
			}

			var m1, m2 float64
			dx, dy := gx[i], gy[i]
			adx, ady := abs(dx), abs(dy)

			switch {
			case float64(ady) <= 0.4142*float64(adx):
				// Near-horizontal gradient: compare left/right.
				m1, m2 = mag[i-1], mag[i+1]
			case float64(adx) <= 0.4142*float64(ady):
				// Near-vertical gradient: compare up/down.
				m1, m2 = mag[i-w], mag[i+w]
			case dx*dy > 0:
				// 45° diagonal.
				m1, m2 = mag[i-w-1], mag[i+w+1]
			default:
				// 135° diagonal.
				m1, m2 = mag[i-w+1], mag[i+w-1]
			}

			if m >= m1 && m >= m2 {
				if m >= high {
					state[i] = 2
				} else {
					state[i] = 1
				}
			}
		}
	}

	// Hysteresis: flood weak pixels reachable from strong ones.
	stack := make([]int, 0, w)
	for i := range state {
		if state[i] == 2 {
			stack = append(stack, i)
		}
	}

	visited := make([]bool, w*h)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			continue
		}
		visited[i] = true

		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if !visited[j] && state[j] >= 1 {
					stack = append(stack, j)
				}
			}
		}
	}

	for i, v := range visited {
		if v {
			out.Pix[out.PixOffset(bounds.Min.X+i%w, bounds.Min.Y+i/w)] = 255
		}
	}

	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
