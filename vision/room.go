package vision

import (
	"math"
	"strings"

	"roomvizapi/models"
)

// analyzeStride keeps the pixel scan cheap on phone-sized photos while still
// covering the whole frame.
const analyzeStride = 4

type PaletteEntry struct {
	Hex     string `json:"hex"`
	Percent int    `json:"percent"`
	Name    string `json:"name"`
}

// RoomAnalysis is an immutable snapshot of one analyzed room photo.
// Re-analysis produces a new value, never mutates an old one.
type RoomAnalysis struct {
	DominantColors  []string              `json:"dominant_colors"`
	Palette         []PaletteEntry        `json:"palette"`
	Brightness      float64               `json:"brightness"` // 0..100
	Warmth          float64               `json:"warmth"`     // -100..100
	Style           string                `json:"style"`
	Ambiance        models.Ambiance       `json:"ambiance"`
	Lighting        models.Lighting       `json:"lighting"`
	SuggestedColors []string              `json:"suggested_colors"`
	ExtractedColors []string              `json:"extracted_colors"`
	RoomType        string                `json:"room_type"`
	SizeLabel       string                `json:"size_label"`
	Dimensions      models.RoomDimensions `json:"dimensions"`
}

// Usable reports whether the analysis carries any color signal. A fully
// transparent image yields zero clusters, which is a valid "nothing to say"
// result, not an error.
func (a *RoomAnalysis) Usable() bool {
	return a != nil && len(a.DominantColors) > 0
}

// AnalyzeRoom runs the full room profile over a decoded photo: color
// clusters, brightness/warmth statistics, ambiance and lighting
// classification, dimension estimation and furniture color suggestions.
// Deterministic for identical pixel input.
func AnalyzeRoom(buf *PixelBuffer) *RoomAnalysis {
	analysis := &RoomAnalysis{
		Ambiance:   models.AmbianceModern,
		Lighting:   models.LightingModerate,
		Dimensions: models.DefaultRoomDimensions(),
	}
	if !buf.Valid() {
		return analysis
	}

	clusters, sampled := SampleClusters(buf, analyzeStride)
	brightness, warmth := brightnessWarmth(buf, analyzeStride)
	analysis.Brightness = brightness
	analysis.Warmth = warmth

	for i, cl := range clusters {
		hex := cl.Hex()
		analysis.ExtractedColors = append(analysis.ExtractedColors, hex)
		if i < 5 {
			analysis.DominantColors = append(analysis.DominantColors, hex)
		}
		if i < 8 {
			analysis.Palette = append(analysis.Palette, PaletteEntry{
				Hex:     hex,
				Percent: cl.Percent(sampled),
				Name:    NameColor(hex),
			})
		}
	}

	analysis.Ambiance = classifyAmbiance(brightness, warmth, analysis.Palette)
	analysis.Lighting = classifyLighting(brightness, warmth)
	analysis.Style = styleFor(analysis.Ambiance)
	analysis.Dimensions = EstimateDimensions(buf)
	analysis.SizeLabel = sizeLabel(analysis.Dimensions)
	analysis.RoomType = guessRoomType(brightness, warmth)

	// harmonious-but-distinct furniture colors: rotate hue, invert the
	// lightness direction so light rooms get darker suggestions
	for i, hex := range analysis.DominantColors {
		if i >= 3 {
			break
		}
		r, g, b := ParseHex(hex)
		h, s, l := RGBToHSL(r, g, b)
		if l > 50 {
			l = math.Max(0, l-25)
		} else {
			l = math.Min(100, l+25)
		}
		sr, sg, sb := HSLToRGB(h+30, s, l)
		analysis.SuggestedColors = append(analysis.SuggestedColors, FormatHex(sr, sg, sb))
	}

	return analysis
}

func brightnessWarmth(buf *PixelBuffer, stride int) (brightness, warmth float64) {
	var lumaSum, warmSum float64
	n := 0
	for y := 0; y < buf.Height; y += stride {
		for x := 0; x < buf.Width; x += stride {
			r, g, b, a := buf.At(x, y)
			if a < alphaOpaqueMin {
				continue
			}
			lumaSum += 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			warmSum += float64(r) - float64(b)
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	brightness = lumaSum / float64(n) / 255 * 100
	warmth = warmSum / float64(n) / 255 * 100
	return brightness, warmth
}

// classifyAmbiance is an ordered decision table over brightness, warmth and
// the dominant color names. First match wins, modern is the guaranteed
// default, so every input resolves to exactly one ambiance.
func classifyAmbiance(brightness, warmth float64, palette []PaletteEntry) models.Ambiance {
	switch {
	case brightness > 70 && warmth > 10:
		return models.AmbianceCozy
	case brightness > 75 && warmth < 10:
		return models.AmbianceMinimalist
	case brightness < 50 && warmth < 0:
		return models.AmbianceIndustrial
	case brightness > 65 && hasCoolAccent(palette):
		return models.AmbianceLuxurious
	case warmth > 25 && brightness >= 40:
		return models.AmbianceTraditional
	default:
		return models.AmbianceModern
	}
}

func hasCoolAccent(palette []PaletteEntry) bool {
	limit := len(palette)
	if limit > 3 {
		limit = 3
	}
	for _, entry := range palette[:limit] {
		if strings.Contains(entry.Name, "Blue") || strings.Contains(entry.Name, "Purple") {
			return true
		}
	}
	return false
}

func classifyLighting(brightness, warmth float64) models.Lighting {
	switch {
	case brightness > 75:
		return models.LightingBright
	case brightness < 35:
		return models.LightingDim
	case warmth >= 0:
		return models.LightingNatural
	default:
		return models.LightingArtificial
	}
}

func styleFor(ambiance models.Ambiance) string {
	switch ambiance {
	case models.AmbianceCozy:
		return "rustic"
	case models.AmbianceMinimalist:
		return "scandinavian"
	case models.AmbianceIndustrial:
		return "industrial"
	case models.AmbianceLuxurious:
		return "art deco"
	case models.AmbianceTraditional:
		return "classic"
	default:
		return "contemporary"
	}
}

func guessRoomType(brightness, warmth float64) string {
	switch {
	case warmth > 20 && brightness < 60:
		return "bedroom"
	case brightness < 35:
		return "media room"
	default:
		return "living room"
	}
}

func sizeLabel(d models.RoomDimensions) string {
	area := d.Width * d.Depth
	switch {
	case area < 12:
		return "compact"
	case area < 25:
		return "medium"
	default:
		return "spacious"
	}
}

// EstimateDimensions guesses room size from a single photo. This is a
// heuristic, not photogrammetry: the aspect ratio picks a base size bucket
// and two brightness gradients (ceiling vs floor, left vs right edge) nudge
// depth and width within a bounded multiplier. The result is deterministic
// and always inside the RoomDimensions bounds; treat it as a best-effort
// suggestion the user can override.
func EstimateDimensions(buf *PixelBuffer) models.RoomDimensions {
	if !buf.Valid() {
		return models.DefaultRoomDimensions()
	}

	aspect := float64(buf.Width) / float64(buf.Height)

	var base models.RoomDimensions
	switch {
	case aspect > 1.7: // wide panoramic
		base = models.RoomDimensions{Width: 7, Depth: 4.5, Height: 2.8}
	case aspect >= 1.0: // standard landscape
		base = models.RoomDimensions{Width: 5, Depth: 4, Height: 2.8}
	default: // portrait
		base = models.RoomDimensions{Width: 4, Depth: 5, Height: 3}
	}

	depthFactor := perspectiveFactor(meanLumaRegion(buf, 0, 0, buf.Width, buf.Height/3),
		meanLumaRegion(buf, 0, buf.Height-buf.Height/3, buf.Width, buf.Height/3))

	edge := buf.Width / 10
	if edge < 1 {
		edge = 1
	}
	widthFactor := perspectiveFactor(meanLumaRegion(buf, 0, 0, edge, buf.Height),
		meanLumaRegion(buf, buf.Width-edge, 0, edge, buf.Height))

	base.Width *= widthFactor
	base.Depth *= depthFactor
	return base.Clamped()
}

// perspectiveFactor turns a brightness contrast between two image regions
// into a bounded size multiplier. More contrast reads as more depth cues.
func perspectiveFactor(lumaA, lumaB float64) float64 {
	diff := math.Abs(lumaA-lumaB) / 255
	f := 0.95 + diff*0.6
	if f > 1.2 {
		f = 1.2
	}
	return f
}

func meanLumaRegion(buf *PixelBuffer, x0, y0, w, h int) float64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	var sum float64
	n := 0
	for y := y0; y < y0+h && y < buf.Height; y++ {
		for x := x0; x < x0+w && x < buf.Width; x++ {
			r, g, b, a := buf.At(x, y)
			if a < alphaOpaqueMin {
				continue
			}
			sum += 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// RoomColorsFromAnalysis seeds wall/floor/accent colors from the top
// clusters. Each surface stays independently overridable after this.
func RoomColorsFromAnalysis(a *RoomAnalysis) models.RoomColors {
	colors := models.RoomColors{
		Floor:   "#8a7560",
		Walls:   "#e8e2d8",
		Ceiling: "#f8f8f8",
		Accent:  "#5a7a8a",
	}
	if a == nil {
		return colors
	}
	if len(a.DominantColors) > 0 {
		colors.Walls = a.DominantColors[0]
	}
	if len(a.DominantColors) > 1 {
		colors.Floor = a.DominantColors[1]
	}
	if len(a.DominantColors) > 2 {
		colors.Accent = a.DominantColors[2]
	}
	return colors
}
