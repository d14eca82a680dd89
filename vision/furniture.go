package vision

// fallback when every pixel is filtered out (all-white studio shot etc.)
const neutralGray = "#8a8a8a"

// ExtractDominantColor pulls a representative color out of a product photo.
// Only the central 60% of the frame is sampled and near-white/near-black
// pixels are excluded, which suppresses studio backgrounds and hard shadows.
// The survivors are channel-averaged; if nothing survives we fall back to a
// neutral gray.
func ExtractDominantColor(buf *PixelBuffer) string {
	if !buf.Valid() {
		return neutralGray
	}

	x0 := buf.Width / 5
	y0 := buf.Height / 5
	x1 := buf.Width - x0
	y1 := buf.Height - y0

	var rSum, gSum, bSum float64
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, a := buf.At(x, y)
			if a < alphaOpaqueMin {
				continue
			}
			luma := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			if luma < 30 || luma > 230 {
				continue
			}
			rSum += float64(r)
			gSum += float64(g)
			bSum += float64(b)
			n++
		}
	}
	if n == 0 {
		return neutralGray
	}
	return FormatHex(
		uint8(rSum/float64(n)+0.5),
		uint8(gSum/float64(n)+0.5),
		uint8(bSum/float64(n)+0.5),
	)
}
