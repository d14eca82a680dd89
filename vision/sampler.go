package vision

import (
	"fmt"
	"math"
	"sort"
)

// PixelBuffer is a decoded RGBA image, 4 bytes per pixel. The engine never
// parses container formats, it only ever sees one of these.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{Width: width, Height: height, Pix: make([]uint8, width*height*4)}
}

func (b *PixelBuffer) Valid() bool {
	return b != nil && b.Width > 0 && b.Height > 0 && len(b.Pix) >= b.Width*b.Height*4
}

// At returns the RGBA channels at (x, y). Callers are expected to stay in
// bounds, same as with the raw slice.
func (b *PixelBuffer) At(x, y int) (r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

func (b *PixelBuffer) Set(x, y int, r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = r, g, bl, a
}

const (
	maxClusters     = 20
	clusterDistance = 40.0
	// below this alpha a pixel is treated as transparent and skipped
	alphaOpaqueMin = 128
)

// ColorCluster is a running-mean group of near-identical sampled pixels.
type ColorCluster struct {
	R     float64
	G     float64
	B     float64
	Count int
}

func (c ColorCluster) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", uint8(math.Round(c.R)), uint8(math.Round(c.G)), uint8(math.Round(c.B)))
}

// Percent is the share of this cluster among totalSampled pixels, rounded.
func (c ColorCluster) Percent(totalSampled int) int {
	if totalSampled <= 0 {
		return 0
	}
	return int(math.Round(float64(c.Count) / float64(totalSampled) * 100))
}

func (c ColorCluster) distanceTo(r, g, b float64) float64 {
	dr := c.R - r
	dg := c.G - g
	db := c.B - b
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// SampleClusters walks the buffer at the given pixel stride and folds each
// opaque sample into the nearest cluster within clusterDistance, opening new
// clusters up to the cap. Once the cap is reached, unmatched samples are
// dropped on purpose: the tail of a 20+ color image carries no signal for us.
// Returned clusters are ranked by count descending. The second return value
// is the total number of sampled (non-transparent) pixels, including dropped
// ones, so percentages stay honest.
func SampleClusters(buf *PixelBuffer, stride int) ([]ColorCluster, int) {
	if !buf.Valid() {
		return nil, 0
	}
	if stride < 1 {
		stride = 1
	}

	clusters := make([]ColorCluster, 0, maxClusters)
	sampled := 0
	for y := 0; y < buf.Height; y += stride {
		for x := 0; x < buf.Width; x += stride {
			r, g, b, a := buf.At(x, y)
			if a < alphaOpaqueMin {
				continue
			}
			sampled++
			fr, fg, fb := float64(r), float64(g), float64(b)

			matched := -1
			for i := range clusters {
				if clusters[i].distanceTo(fr, fg, fb) < clusterDistance {
					matched = i
					break
				}
			}
			if matched >= 0 {
				cl := &clusters[matched]
				n := float64(cl.Count)
				cl.R = (cl.R*n + fr) / (n + 1)
				cl.G = (cl.G*n + fg) / (n + 1)
				cl.B = (cl.B*n + fb) / (n + 1)
				cl.Count++
			} else if len(clusters) < maxClusters {
				clusters = append(clusters, ColorCluster{R: fr, G: fg, B: fb, Count: 1})
			}
			// over the cap and no match: dropped
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count > clusters[j].Count
	})
	return clusters, sampled
}
