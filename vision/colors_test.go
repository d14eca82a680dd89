package vision

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestRGBToHSLRoundTrip(t *testing.T) {
	samples := []struct{ r, g, b uint8 }{
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{18, 52, 86},
		{200, 180, 140},
		{90, 122, 138},
		{250, 128, 114},
	}
	for _, s := range samples {
		h, sat, l := RGBToHSL(s.r, s.g, s.b)
		r2, g2, b2 := HSLToRGB(h, sat, l)
		assert.InDelta(t, float64(s.r), float64(r2), 2, "red channel for %v", s)
		assert.InDelta(t, float64(s.g), float64(g2), 2, "green channel for %v", s)
		assert.InDelta(t, float64(s.b), float64(b2), 2, "blue channel for %v", s)
	}
}

func TestRGBToHSLAchromatic(t *testing.T) {
	for _, v := range []uint8{0, 64, 128, 200, 255} {
		h, s, l := RGBToHSL(v, v, v)
		assert.Equal(t, 0.0, h)
		assert.Equal(t, 0.0, s)
		assert.InDelta(t, float64(v)/255*100, l, 0.5)
	}
}

func TestParseHexMalformed(t *testing.T) {
	for _, input := range []string{"", "zzz", "#12", "not-a-color", "#gggggg"} {
		r, g, b := ParseHex(input)
		assert.Equal(t, uint8(128), r, "input %q", input)
		assert.Equal(t, uint8(128), g, "input %q", input)
		assert.Equal(t, uint8(128), b, "input %q", input)
	}
}

func TestParseHexHashOptional(t *testing.T) {
	r, g, b := ParseHex("1a2b3c")
	assert.Equal(t, uint8(0x1a), r)
	assert.Equal(t, uint8(0x2b), g)
	assert.Equal(t, uint8(0x3c), b)

	r, g, b = ParseHex("#1a2b3c")
	assert.Equal(t, uint8(0x1a), r)
	assert.Equal(t, uint8(0x2b), g)
	assert.Equal(t, uint8(0x3c), b)
}

func TestComplementary(t *testing.T) {
	assert.Equal(t, "#ffffff", Complementary("#000000"))
	assert.Equal(t, "#00ffff", Complementary("#ff0000"))
	assert.Equal(t, "#ff00ff", Complementary("#00ff00"))
}

func TestNameColorAchromaticBands(t *testing.T) {
	assert.Equal(t, "Black", NameColor("#000000"))
	assert.Equal(t, "Charcoal", NameColor("#222222"))
	assert.Equal(t, "Gray", NameColor("#808080"))
	assert.Equal(t, "White", NameColor("#ffffff"))
}

func TestNameColorHueFamilies(t *testing.T) {
	assert.Contains(t, NameColor("#ff0000"), "Red")
	assert.Contains(t, NameColor("#0000ff"), "Blue")
	assert.Contains(t, NameColor("#00a000"), "Green")
}

func TestNameColorBrownBand(t *testing.T) {
	// warm low-lightness colors in the wood band get brown family names,
	// never "Orange"
	name := NameColor("#5a3a1a")
	assert.NotContains(t, name, "Orange")
	assert.Contains(t, name, "Brown")
}

func TestNameColorDeterministic(t *testing.T) {
	for _, hex := range []string{"#ff0000", "#123456", "#aabbcc", "#808080"} {
		first := NameColor(hex)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, NameColor(hex))
		}
	}
}

func TestNameColorSinglePrefix(t *testing.T) {
	// prefixes never stack
	wordCount := len(regexp.MustCompile(`\s+`).Split(NameColor("#ffb6c1"), -1))
	assert.LessOrEqual(t, wordCount, 2)
}

func TestHarmoniousSet(t *testing.T) {
	set := HarmoniousSet("#3a5a7a")
	require.Len(t, set, 6)
	for _, hex := range set {
		assert.Regexp(t, hexPattern, hex)
	}

	// stable output for stable input
	assert.Equal(t, set, HarmoniousSet("#3a5a7a"))
}

func TestHarmoniousSetShadePair(t *testing.T) {
	set := HarmoniousSet("#808080")
	require.Len(t, set, 6)

	_, _, lBase := RGBToHSL(ParseHex("#808080"))
	_, _, lLight := RGBToHSL(ParseHex(set[2]))
	_, _, lDark := RGBToHSL(ParseHex(set[3]))
	assert.Greater(t, lLight, lBase)
	assert.Less(t, lDark, lBase)
}
