package models

import (
	"regexp"

	"github.com/go-playground/validator"
)

// Ambiance is the qualitative room style label derived from the photo
// analysis. Closed set, stored as plain strings.
type Ambiance string

const (
	AmbianceCozy        Ambiance = "cozy"
	AmbianceModern      Ambiance = "modern"
	AmbianceIndustrial  Ambiance = "industrial"
	AmbianceMinimalist  Ambiance = "minimalist"
	AmbianceTraditional Ambiance = "traditional"
	AmbianceLuxurious   Ambiance = "luxurious"
)

func (a *Ambiance) Scan(value interface{}) error {
	*a = Ambiance(value.(string))
	return nil
}

func (a Ambiance) Value() string {
	return string(a)
}

func ValidateAmbiance(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	matched, _ := regexp.MatchString("^cozy|modern|industrial|minimalist|traditional|luxurious$", value)
	return matched
}
