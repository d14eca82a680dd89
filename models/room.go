package models

import "github.com/lib/pq"

// RoomDimensions are meters. Width/depth live in [2, 20], height in [2, 5];
// out-of-range overrides are clamped, never rejected.
type RoomDimensions struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

const (
	RoomMinSide   = 2.0
	RoomMaxSide   = 20.0
	RoomMinHeight = 2.0
	RoomMaxHeight = 5.0
)

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamped returns a copy forced into the valid bounds.
func (d RoomDimensions) Clamped() RoomDimensions {
	return RoomDimensions{
		Width:  clampF(d.Width, RoomMinSide, RoomMaxSide),
		Depth:  clampF(d.Depth, RoomMinSide, RoomMaxSide),
		Height: clampF(d.Height, RoomMinHeight, RoomMaxHeight),
	}
}

func DefaultRoomDimensions() RoomDimensions {
	return RoomDimensions{Width: 5, Depth: 4, Height: 2.8}
}

// RoomColors are surface colors as RGB hex strings, seeded from the top
// clusters of a room analysis and independently overridable.
type RoomColors struct {
	Floor   string `json:"floor"`
	Walls   string `json:"walls"`
	Ceiling string `json:"ceiling"`
	Accent  string `json:"accent"`
}

type LightingSettings struct {
	Intensity   float64 `json:"intensity"`
	Temperature float64 `json:"temperature"` // kelvin
	AmbientHex  string  `json:"ambient_hex"`
}

// RoomScan tracks one uploaded room photo through the analysis pipeline.
// Image bytes live in R2, only the object key is stored here.
type RoomScan struct {
	JsonModel
	Owner     UserAccount `json:"-"`
	OwnerID   uint        `json:"-"`
	Listing   *Listing    `json:"listing,omitempty"`
	ListingID *uint       `json:"listing_id"`
	ImageURL  *string     `json:"image_url"`

	ProcessingStatus    string  `json:"processing_status"` // idle, pending, completed, failed
	ProcessRetryTimes   int     `json:"process_retry_times"`
	ProcessErrorMessage *string `json:"process_error_message"`

	// analysis results, populated by the worker
	Brightness     *float64       `json:"brightness"`
	Warmth         *float64       `json:"warmth"`
	Ambiance       *Ambiance      `json:"ambiance"`
	Lighting       *Lighting      `json:"lighting"`
	RoomType       *string        `json:"room_type"`
	SizeLabel      *string        `json:"size_label"`
	Width          *float64       `json:"width"`
	Depth          *float64       `json:"depth"`
	Height         *float64       `json:"height"`
	DominantColors pq.StringArray `gorm:"type:text[]" json:"dominant_colors"`
	PaletteJSON    *string        `gorm:"type:text" json:"-"`
	SuggestedJSON  *string        `gorm:"type:text" json:"-"`
}

// SavedRoomConfig is an explicit user snapshot of the visualizer state.
// Immutable once created; loading one never mutates the stored row.
type SavedRoomConfig struct {
	JsonModel
	Name      string      `json:"name"`
	Owner     UserAccount `json:"-"`
	OwnerID   uint        `json:"-"`
	ListingID *uint       `json:"listing_id"`

	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`

	FloorColor   string `json:"floor_color"`
	WallColor    string `json:"wall_color"`
	CeilingColor string `json:"ceiling_color"`
	AccentColor  string `json:"accent_color"`

	FurnitureJSON string  `gorm:"type:text" json:"-"`
	LightingJSON  string  `gorm:"type:text" json:"-"`
	AnalysisJSON  *string `gorm:"type:text" json:"-"`
}
