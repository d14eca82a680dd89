package models

import (
	"regexp"

	"github.com/go-playground/validator"
)

type FurnitureType string

const (
	FurnitureSofa    FurnitureType = "sofa"
	FurnitureChair   FurnitureType = "chair"
	FurnitureTable   FurnitureType = "table"
	FurnitureBed     FurnitureType = "bed"
	FurnitureCabinet FurnitureType = "cabinet"
	FurnitureLamp    FurnitureType = "lamp"
	FurniturePlant   FurnitureType = "plant"
	FurnitureRug     FurnitureType = "rug"
)

func (f *FurnitureType) Scan(value interface{}) error {
	*f = FurnitureType(value.(string))
	return nil
}

func (f FurnitureType) Value() string {
	return string(f)
}

func ValidateFurnitureType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	matched, _ := regexp.MatchString("^sofa|chair|table|bed|cabinet|lamp|plant|rug$", value)
	return matched
}

// FurnitureObject is one placed item inside a scene. Position is in meters
// on the floor plane (y >= 0), rotation is radians about the vertical axis.
// Selection/drag state lives in the scene, not here, so the same struct is
// used for persistence inside SavedRoomConfig.
type FurnitureObject struct {
	ID             string        `json:"id"`
	Type           FurnitureType `json:"type"`
	X              float64       `json:"x"`
	Y              float64       `json:"y"`
	Z              float64       `json:"z"`
	Rotation       float64       `json:"rotation"`
	Scale          float64       `json:"scale"`
	Color          string        `json:"color"`
	Material       string        `json:"material"`
	SourceImageURL *string       `json:"source_image_url,omitempty"`
}
