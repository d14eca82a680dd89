package vision

import (
	"fmt"
	"math"

	"roomvizapi/models"
)

const (
	SuggestionColor     = "color"
	SuggestionPlacement = "placement"
	SuggestionStyle     = "style"
	SuggestionValue     = "value"
)

// Suggestion is an ephemeral, explainable recommendation. The whole set is
// re-derived from current state on every call; nothing here is persisted or
// dismissed statefully.
type Suggestion struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Confidence  int    `json:"confidence"`
}

// GenerateSuggestions evaluates the rule set against a room analysis, the
// current furniture and an optional price. Every rule is independently
// optional based on what inputs are available; given identical inputs the
// output is identical, there is no hidden randomness.
func GenerateSuggestions(analysis *RoomAnalysis, objects []models.FurnitureObject, price *float64) []Suggestion {
	suggestions := []Suggestion{}
	if analysis == nil {
		return suggestions
	}

	if len(analysis.DominantColors) > 0 {
		top := analysis.DominantColors[0]
		suggestions = append(suggestions, Suggestion{
			ID:          "color-match",
			Type:        SuggestionColor,
			Title:       "Match the room palette",
			Description: fmt.Sprintf("The room is dominated by %s (%s). Furniture in the same family blends in naturally.", NameColor(top), top),
			Confidence:  92,
		})

		comp := Complementary(top)
		suggestions = append(suggestions, Suggestion{
			ID:          "color-contrast",
			Type:        SuggestionColor,
			Title:       "Add a contrast piece",
			Description: fmt.Sprintf("%s (%s) is the complement of the dominant room color and makes a statement piece stand out.", NameColor(comp), comp),
			Confidence:  78,
		})
	}

	if analysis.SizeLabel != "" {
		suggestions = append(suggestions, Suggestion{
			ID:          "placement",
			Type:        SuggestionPlacement,
			Title:       "Placement tip",
			Description: placementTip(analysis.SizeLabel, len(objects)),
			Confidence:  88,
		})
	}

	if analysis.Ambiance != "" {
		suggestions = append(suggestions, Suggestion{
			ID:          "style-match",
			Type:        SuggestionStyle,
			Title:       "Style match",
			Description: fmt.Sprintf("The room reads as %s; %s pieces will feel at home here.", analysis.Ambiance, analysis.Style),
			Confidence:  85,
		})
	}

	if price != nil {
		score := valueScore(analysis, *price)
		suggestions = append(suggestions, Suggestion{
			ID:          "value",
			Type:        SuggestionValue,
			Title:       "Value for this room",
			Description: valueDescription(score),
			Confidence:  score,
		})
	}

	if analysis.Lighting == models.LightingDim && len(analysis.DominantColors) > 0 {
		r, g, b := ParseHex(analysis.DominantColors[0])
		h, s, l := RGBToHSL(r, g, b)
		lr, lg, lb := HSLToRGB(h, s, math.Min(100, l+25))
		suggestions = append(suggestions, Suggestion{
			ID:          "lighting",
			Type:        SuggestionStyle,
			Title:       "Brighten it up",
			Description: fmt.Sprintf("The room is on the dim side; a lighter shade like %s keeps it from feeling heavy.", FormatHex(lr, lg, lb)),
			Confidence:  82,
		})
	}

	return suggestions
}

func placementTip(sizeLabel string, objectCount int) string {
	switch sizeLabel {
	case "compact":
		if objectCount >= 3 {
			return "The room is compact and already holds several pieces; favor wall placement to keep the center walkable."
		}
		return "In a compact room, anchor the largest piece against the longest wall to keep the floor open."
	case "spacious":
		return "A spacious room can carry a free-standing arrangement; float the main piece away from the walls."
	default:
		return "Keep about half a meter of clearance to each wall so the room stays easy to move through."
	}
}

func valueScore(analysis *RoomAnalysis, price float64) int {
	score := 70
	if analysis.Ambiance == models.AmbianceLuxurious {
		score += 10
	}
	if analysis.Brightness > 60 {
		score += 5
	}
	if analysis.Lighting == models.LightingNatural {
		score += 5
	}
	if price < 50000 {
		score += 10
	} else if price < 150000 {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	return score
}

func valueDescription(score int) string {
	switch {
	case score >= 80:
		return "This is an exceptional fit for the room at this price."
	case score >= 60:
		return "A good fit for the room; the price is within a reasonable range."
	default:
		return "Consider whether the piece really fits this room before committing."
	}
}
