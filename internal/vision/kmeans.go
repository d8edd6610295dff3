package vision

import (
	"fmt"
	"image"
	"math"
	"math/rand"

	"github.com/nfnt/resize"
)

const (
	kmeansRestarts = 10
	kmeansMaxIter  = 100
	kmeansTol      = 1e-4
)

// Palette reduces an image to its k dominant colors. The image is first
// downsampled to size x size (aspect ratio intentionally not preserved),
// then clustered with k-means seeded from a fixed source so the same
// pixels always produce the same palette. Colors are returned in cluster
// order as lowercase #rrggbb strings.
func Palette(img image.Image, k, size int, seed int64) []string {
	small := ToNRGBA(resize.Resize(uint(size), uint(size), img, resize.Bilinear))

	bounds := small.Bounds()
	samples := make([][3]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p := small.NRGBAAt(x, y)
			samples = append(samples, [3]float64{float64(p.R), float64(p.G), float64(p.B)})
		}
	}

	centers := cluster(samples, k, seed)

	colors := make([]string, 0, k)
	for _, c := range centers {
		colors = append(colors, fmt.Sprintf("#%02x%02x%02x",
			truncU8(c[0]), truncU8(c[1]), truncU8(c[2])))
	}
	return colors
}

// cluster runs k-means with a fixed number of restarts, keeping the
// centroid set with the lowest inertia.
func cluster(samples [][3]float64, k int, seed int64) [][3]float64 {
	rng := rand.New(rand.NewSource(seed))

	best := make([][3]float64, k)
	bestInertia := math.Inf(1)

	for r := 0; r < kmeansRestarts; r++ {
		centers, inertia := kmeansOnce(samples, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			copy(best, centers)
		}
	}

	return best
}

func kmeansOnce(samples [][3]float64, k int, rng *rand.Rand) ([][3]float64, float64) {
	centers := make([][3]float64, k)
	for i := range centers {
		centers[i] = samples[rng.Intn(len(samples))]
	}

	assign := make([]int, len(samples))
	sums := make([][3]float64, k)
	counts := make([]int, k)

	for iter := 0; iter < kmeansMaxIter; iter++ {
		for i := range sums {
			sums[i] = [3]float64{}
			counts[i] = 0
		}

		for i, s := range samples {
			bestIdx, bestDist := 0, math.Inf(1)
			for c := range centers {
				d := dist2(s, centers[c])
				if d < bestDist {
					bestIdx, bestDist = c, d
				}
			}
			assign[i] = bestIdx
			sums[bestIdx][0] += s[0]
			sums[bestIdx][1] += s[1]
			sums[bestIdx][2] += s[2]
			counts[bestIdx]++
		}

		shift := 0.0
		for c := range centers {
			var next [3]float64
			if counts[c] == 0 {
				// Re-seed empty clusters from a random sample.
				next = samples[rng.Intn(len(samples))]
			} else {
				n := float64(counts[c])
				next = [3]float64{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}
			}
			shift += dist2(centers[c], next)
			centers[c] = next
		}

		if shift < kmeansTol {
			break
		}
	}

	inertia := 0.0
	for i, s := range samples {
		inertia += dist2(s, centers[assign[i]])
	}
	return centers, inertia
}

func dist2(a, b [3]float64) float64 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return dr*dr + dg*dg + db*db
}

func truncU8(v float64) int {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}
