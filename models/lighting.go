package models

import (
	"regexp"

	"github.com/go-playground/validator"
)

type Lighting string

const (
	LightingBright     Lighting = "bright"
	LightingModerate   Lighting = "moderate"
	LightingDim        Lighting = "dim"
	LightingNatural    Lighting = "natural"
	LightingArtificial Lighting = "artificial"
)

func (l *Lighting) Scan(value interface{}) error {
	*l = Lighting(value.(string))
	return nil
}

func (l Lighting) Value() string {
	return string(l)
}

func ValidateLighting(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	matched, _ := regexp.MatchString("^bright|moderate|dim|natural|artificial$", value)
	return matched
}
