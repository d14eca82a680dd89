package models

import "encoding/json"

// PricePredictionIn is the fixed request contract of the external
// price-prediction service. Category specific fields ride in Extra and are
// passed through untouched.
type PricePredictionIn struct {
	Category    string                 `json:"category"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Condition   string                 `json:"condition"`
	Extra       map[string]interface{} `json:"-"`
}

func (p PricePredictionIn) MarshalJSON() ([]byte, error) {
	payload := map[string]interface{}{
		"category":    p.Category,
		"title":       p.Title,
		"description": p.Description,
		"condition":   p.Condition,
	}
	for k, v := range p.Extra {
		if _, taken := payload[k]; !taken {
			payload[k] = v
		}
	}
	return json.Marshal(payload)
}

type PricePredictionOut struct {
	PredictedPrice  float64  `json:"predicted_price"`
	ConfidenceLower float64  `json:"confidence_lower"`
	ConfidenceUpper float64  `json:"confidence_upper"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	Recommendation  string   `json:"recommendation"`
	AllowedPriceMin *float64 `json:"allowed_price_min,omitempty"`
	AllowedPriceMax *float64 `json:"allowed_price_max,omitempty"`
}
