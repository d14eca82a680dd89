package vision

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"roomvizapi/models"
)

const (
	// keeps furniture from clipping into walls
	wallMargin = 0.5

	minObjectScale = 0.5
	maxObjectScale = 2.0
)

// Scene owns the placed furniture set and the pointer-drag state machine.
// At most one object is selected at a time and only the selected object can
// be dragged, scaled or rotated. Scenes are single-viewer session state and
// are not safe for concurrent use; callers serialize access.
type Scene struct {
	ID         string
	Dimensions models.RoomDimensions
	Colors     models.RoomColors
	Lighting   models.LightingSettings

	objects []*models.FurnitureObject

	selectedID  string
	dragging    bool
	dragOffsetX float64
	dragOffsetZ float64

	rng *rand.Rand
}

func NewScene(dims models.RoomDimensions) *Scene {
	return NewSceneSeeded(dims, time.Now().UnixNano())
}

// NewSceneSeeded takes an explicit seed so randomized placement is
// reproducible in tests.
func NewSceneSeeded(dims models.RoomDimensions, seed int64) *Scene {
	return &Scene{
		ID:         uuid.NewString(),
		Dimensions: dims.Clamped(),
		Colors:     models.RoomColors{Floor: "#8a7560", Walls: "#e8e2d8", Ceiling: "#f8f8f8", Accent: "#5a7a8a"},
		Lighting:   models.LightingSettings{Intensity: 1, Temperature: 4500, AmbientHex: "#ffffff"},
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Objects returns a snapshot copy; the scene keeps ownership of the live set.
func (s *Scene) Objects() []models.FurnitureObject {
	out := make([]models.FurnitureObject, len(s.objects))
	for i, obj := range s.objects {
		out[i] = *obj
	}
	return out
}

func (s *Scene) SelectedID() string {
	return s.selectedID
}

func (s *Scene) Dragging() bool {
	return s.dragging
}

func (s *Scene) find(id string) *models.FurnitureObject {
	for _, obj := range s.objects {
		if obj.ID == id {
			return obj
		}
	}
	return nil
}

func (s *Scene) halfExtents() (hx, hz float64) {
	hx = s.Dimensions.Width/2 - wallMargin
	hz = s.Dimensions.Depth/2 - wallMargin
	if hx < 0 {
		hx = 0
	}
	if hz < 0 {
		hz = 0
	}
	return hx, hz
}

func (s *Scene) clampToFloor(x, z float64) (float64, float64) {
	hx, hz := s.halfExtents()
	return clampRange(x, -hx, hx), clampRange(z, -hz, hz)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Add places a new object at room center with identity rotation and scale.
func (s *Scene) Add(t models.FurnitureType, color, material string) models.FurnitureObject {
	return s.place(t, color, material, 0, 0)
}

// AddAt places a new object at the requested floor position, clamped to the
// walkable bounds.
func (s *Scene) AddAt(t models.FurnitureType, color, material string, x, z float64) models.FurnitureObject {
	return s.place(t, color, material, x, z)
}

// AddRandom places a new object at a random position inside the clamped
// floor bounds, used for multi-item free placement.
func (s *Scene) AddRandom(t models.FurnitureType, color, material string) models.FurnitureObject {
	hx, hz := s.halfExtents()
	x := (s.rng.Float64()*2 - 1) * hx
	z := (s.rng.Float64()*2 - 1) * hz
	return s.place(t, color, material, x, z)
}

func (s *Scene) place(t models.FurnitureType, color, material string, x, z float64) models.FurnitureObject {
	x, z = s.clampToFloor(x, z)
	obj := &models.FurnitureObject{
		ID:       uuid.NewString(),
		Type:     t,
		X:        x,
		Y:        0,
		Z:        z,
		Rotation: 0,
		Scale:    1,
		Color:    color,
		Material: material,
	}
	s.objects = append(s.objects, obj)
	return *obj
}

func (s *Scene) Remove(id string) bool {
	for i, obj := range s.objects {
		if obj.ID == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			if s.selectedID == id {
				s.selectedID = ""
				s.dragging = false
			}
			return true
		}
	}
	return false
}

// Select marks the object as the single selected one; any previous selection
// is dropped, including an in-flight drag.
func (s *Scene) Select(id string) bool {
	if s.find(id) == nil {
		return false
	}
	if s.selectedID != id {
		s.dragging = false
	}
	s.selectedID = id
	return true
}

func (s *Scene) Deselect() {
	s.selectedID = ""
	s.dragging = false
}

// PointerDown starts a drag on the object under the pointer. px/pz are the
// pointer unprojected onto the floor plane. The offset between the object
// center and the hit point is captured here so dragging does not snap the
// object center to the cursor.
func (s *Scene) PointerDown(id string, px, pz float64) bool {
	obj := s.find(id)
	if obj == nil {
		return false
	}
	// selecting a new object forces the previous one out of dragging
	s.selectedID = id
	s.dragOffsetX = obj.X - px
	s.dragOffsetZ = obj.Z - pz
	s.dragging = true
	return true
}

// PointerMove repositions the dragged object, clamped to the floor bounds.
// Repeat events with identical coordinates are no-ops by construction.
func (s *Scene) PointerMove(px, pz float64) {
	if !s.dragging {
		return
	}
	obj := s.find(s.selectedID)
	if obj == nil {
		s.dragging = false
		return
	}
	obj.X, obj.Z = s.clampToFloor(px+s.dragOffsetX, pz+s.dragOffsetZ)
}

func (s *Scene) PointerUp() {
	s.dragging = false
}

// SetScale adjusts the selected object's uniform scale, bounded.
func (s *Scene) SetScale(scale float64) bool {
	obj := s.find(s.selectedID)
	if obj == nil {
		return false
	}
	obj.Scale = clampRange(scale, minObjectScale, maxObjectScale)
	return true
}

// SetRotation sets the selected object's rotation about the vertical axis,
// normalized into [0, 2π).
func (s *Scene) SetRotation(rad float64) bool {
	obj := s.find(s.selectedID)
	if obj == nil {
		return false
	}
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	obj.Rotation = rad
	return true
}

// SetDimensions applies a (clamped) dimension override and pulls any object
// that ended up outside the new bounds back in.
func (s *Scene) SetDimensions(dims models.RoomDimensions) {
	s.Dimensions = dims.Clamped()
	for _, obj := range s.objects {
		obj.X, obj.Z = s.clampToFloor(obj.X, obj.Z)
	}
}

// SetObjects replaces the furniture set, e.g. when loading a saved config.
// Selection state is reset.
func (s *Scene) SetObjects(objects []models.FurnitureObject) {
	s.objects = s.objects[:0]
	for _, obj := range objects {
		copied := obj
		if copied.ID == "" {
			copied.ID = uuid.NewString()
		}
		if copied.Scale == 0 {
			copied.Scale = 1
		}
		copied.X, copied.Z = s.clampToFloor(copied.X, copied.Z)
		s.objects = append(s.objects, &copied)
	}
	s.selectedID = ""
	s.dragging = false
}
