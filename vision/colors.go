package vision

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGBToHSL converts 8-bit channels to hue [0,360), saturation and lightness
// [0,100]. Achromatic inputs come back with s=0 and h=0 exactly.
func RGBToHSL(r, g, b uint8) (h, s, l float64) {
	fr := float64(r) / 255
	fg := float64(g) / 255
	fb := float64(b) / 255

	max := math.Max(fr, math.Max(fg, fb))
	min := math.Min(fr, math.Min(fg, fb))
	l = (max + min) / 2

	if max == min {
		return 0, 0, l * 100
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case fr:
		h = (fg - fb) / d
		if fg < fb {
			h += 6
		}
	case fg:
		h = (fb-fr)/d + 2
	default:
		h = (fr-fg)/d + 4
	}
	h *= 60
	if h >= 360 {
		h -= 360
	}
	return h, s * 100, l * 100
}

// HSLToRGB is the inverse of RGBToHSL, used for palette generation.
func HSLToRGB(h, s, l float64) (r, g, b uint8) {
	h = math.Mod(math.Mod(h, 360)+360, 360)
	s = clamp01(s / 100)
	l = clamp01(l / 100)

	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hk := h / 360

	conv := func(t float64) float64 {
		if t < 0 {
			t += 1
		}
		if t > 1 {
			t -= 1
		}
		switch {
		case t < 1.0/6:
			return p + (q-p)*6*t
		case t < 1.0/2:
			return q
		case t < 2.0/3:
			return p + (q-p)*(2.0/3-t)*6
		default:
			return p
		}
	}

	r = uint8(math.Round(conv(hk+1.0/3) * 255))
	g = uint8(math.Round(conv(hk) * 255))
	b = uint8(math.Round(conv(hk-1.0/3) * 255))
	return r, g, b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ParseHex reads "#rrggbb" (hash optional). Anything malformed comes back as
// mid gray so color functions stay total.
func ParseHex(hex string) (r, g, b uint8) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 128, 128, 128
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 128, 128, 128
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

func FormatHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Complementary inverts every channel.
func Complementary(hex string) string {
	r, g, b := ParseHex(hex)
	return FormatHex(255-r, 255-g, 255-b)
}

var hueNames = []struct {
	upTo float64
	name string
}{
	{15, "Red"},
	{45, "Orange"},
	{70, "Yellow"},
	{160, "Green"},
	{200, "Cyan"},
	{250, "Blue"},
	{290, "Purple"},
	{330, "Magenta"},
	{345, "Rose"},
	{360, "Red"},
}

// NameColor maps a hex color to a stable human-readable name. Pure and
// total: the UI and the tests both compare literal strings, so the same hex
// must always produce the same name.
func NameColor(hex string) string {
	r, g, b := ParseHex(hex)
	h, s, l := RGBToHSL(r, g, b)

	// achromatic family, lightness bands only
	if s < 10 {
		switch {
		case l < 8:
			return "Black"
		case l < 20:
			return "Charcoal"
		case l < 45:
			return "Dark Gray"
		case l < 65:
			return "Gray"
		case l < 85:
			return "Light Gray"
		default:
			return "White"
		}
	}

	// the 20-50 degree band dominates wood floors and upholstery; generic
	// hue bucketing calls all of it "orange" which reads wrong
	if h >= 20 && h <= 50 {
		switch {
		case l < 25:
			return "Dark Brown"
		case l < 45:
			return "Brown"
		case l < 65:
			if s > 50 {
				return "Tan"
			}
			return "Taupe"
		case l < 82:
			return "Beige"
		default:
			return "Cream"
		}
	}

	base := "Red"
	for _, bucket := range hueNames {
		if h < bucket.upTo {
			base = bucket.name
			break
		}
	}

	lightPrefix := ""
	switch {
	case l < 25:
		lightPrefix = "Dark"
	case l < 40 && s > 70:
		lightPrefix = "Deep"
	case l > 85:
		lightPrefix = "Pale"
	case l > 70:
		lightPrefix = "Light"
	}

	satPrefix := ""
	switch {
	case s < 25:
		satPrefix = "Muted"
	case s < 45:
		satPrefix = "Soft"
	case s > 85:
		satPrefix = "Vivid"
	case s > 65:
		satPrefix = "Rich"
	}

	// one prefix is plenty; stacking both produces noise like "Light Pale Rose"
	if lightPrefix != "" {
		return lightPrefix + " " + base
	}
	if satPrefix != "" {
		return satPrefix + " " + base
	}
	return base
}

// HarmoniousSet derives six related colors from a base: two analogous hues,
// a lighter and a darker shade, a softened complementary and a triadic
// accent. Always the same six, always in that order.
func HarmoniousSet(hex string) []string {
	r, g, b := ParseHex(hex)
	h, s, l := RGBToHSL(r, g, b)

	variant := func(dh, ds, dl float64) string {
		vr, vg, vb := HSLToRGB(h+dh, math.Min(100, math.Max(0, s+ds)), math.Min(100, math.Max(0, l+dl)))
		return FormatHex(vr, vg, vb)
	}

	return []string{
		variant(-29, 0, 0),
		variant(29, 0, 0),
		variant(0, 0, 20),
		variant(0, 0, -20),
		variant(180, -s*0.4, 0),
		variant(120, -s*0.3, 15),
	}
}
