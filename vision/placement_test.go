package vision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomvizapi/models"
)

func testScene() *Scene {
	return NewSceneSeeded(models.RoomDimensions{Width: 6, Depth: 5, Height: 3}, 1)
}

func TestAddPlacesAtCenter(t *testing.T) {
	scene := testScene()

	obj := scene.Add(models.FurnitureSofa, "#334455", "fabric")

	assert.NotEmpty(t, obj.ID)
	assert.Equal(t, 0.0, obj.X)
	assert.Equal(t, 0.0, obj.Z)
	assert.Equal(t, 1.0, obj.Scale)
	assert.Equal(t, 0.0, obj.Rotation)
	assert.Len(t, scene.Objects(), 1)
}

func TestAddAtClampsToWalls(t *testing.T) {
	scene := testScene()

	// 6x5 room: usable half extents are 2.5 and 2.0
	obj := scene.AddAt(models.FurnitureChair, "#112233", "wood", 100, 100)

	assert.Equal(t, 2.5, obj.X)
	assert.Equal(t, 2.0, obj.Z)
}

func TestAddRandomStaysInBounds(t *testing.T) {
	scene := testScene()

	for i := 0; i < 50; i++ {
		obj := scene.AddRandom(models.FurniturePlant, "#224422", "ceramic")
		assert.LessOrEqual(t, math.Abs(obj.X), 2.5)
		assert.LessOrEqual(t, math.Abs(obj.Z), 2.0)
	}
}

func TestSingleSelection(t *testing.T) {
	scene := testScene()
	first := scene.Add(models.FurnitureSofa, "#334455", "fabric")
	second := scene.Add(models.FurnitureChair, "#556677", "wood")

	require.True(t, scene.Select(first.ID))
	assert.Equal(t, first.ID, scene.SelectedID())

	require.True(t, scene.Select(second.ID))
	assert.Equal(t, second.ID, scene.SelectedID())

	assert.False(t, scene.Select("no-such-id"))
	// failed select keeps the previous selection
	assert.Equal(t, second.ID, scene.SelectedID())

	scene.Deselect()
	assert.Empty(t, scene.SelectedID())
}

func TestDragKeepsGrabOffset(t *testing.T) {
	scene := testScene()
	obj := scene.AddAt(models.FurnitureTable, "#223344", "wood", 1, 1)

	// grab the corner half a meter off center
	require.True(t, scene.PointerDown(obj.ID, 1.5, 1.2))
	assert.True(t, scene.Dragging())

	scene.PointerMove(2.0, 1.2)
	moved := scene.Objects()[0]
	// object follows the pointer delta, it does not snap its center to it
	assert.InDelta(t, 1.5, moved.X, 1e-9)
	assert.InDelta(t, 1.0, moved.Z, 1e-9)

	scene.PointerUp()
	assert.False(t, scene.Dragging())
}

func TestDragClampsToWalls(t *testing.T) {
	scene := testScene()
	obj := scene.Add(models.FurnitureSofa, "#334455", "fabric")

	require.True(t, scene.PointerDown(obj.ID, 0, 0))
	scene.PointerMove(100, 100)

	dragged := scene.Objects()[0]
	assert.Equal(t, 2.5, dragged.X)
	assert.Equal(t, 2.0, dragged.Z)
}

func TestPointerMoveIdempotent(t *testing.T) {
	scene := testScene()
	obj := scene.Add(models.FurnitureSofa, "#334455", "fabric")
	require.True(t, scene.PointerDown(obj.ID, 0, 0))

	scene.PointerMove(1.25, -0.5)
	first := scene.Objects()[0]
	scene.PointerMove(1.25, -0.5)
	second := scene.Objects()[0]

	assert.Equal(t, first.X, second.X)
	assert.Equal(t, first.Z, second.Z)
}

func TestPointerMoveWithoutDragIsNoop(t *testing.T) {
	scene := testScene()
	scene.Add(models.FurnitureSofa, "#334455", "fabric")

	scene.PointerMove(2, 2)

	obj := scene.Objects()[0]
	assert.Equal(t, 0.0, obj.X)
	assert.Equal(t, 0.0, obj.Z)
}

func TestSetScaleBounds(t *testing.T) {
	scene := testScene()
	obj := scene.Add(models.FurnitureLamp, "#ddddcc", "metal")
	require.True(t, scene.Select(obj.ID))

	scene.SetScale(10)
	assert.Equal(t, 2.0, scene.Objects()[0].Scale)

	scene.SetScale(0.01)
	assert.Equal(t, 0.5, scene.Objects()[0].Scale)

	scene.SetScale(1.3)
	assert.Equal(t, 1.3, scene.Objects()[0].Scale)
}

func TestSetRotationNormalized(t *testing.T) {
	scene := testScene()
	obj := scene.Add(models.FurnitureChair, "#556677", "wood")
	require.True(t, scene.Select(obj.ID))

	scene.SetRotation(-math.Pi / 2)
	assert.InDelta(t, 3*math.Pi/2, scene.Objects()[0].Rotation, 1e-9)

	scene.SetRotation(5 * math.Pi)
	assert.InDelta(t, math.Pi, scene.Objects()[0].Rotation, 1e-9)
}

func TestTransformRequiresSelection(t *testing.T) {
	scene := testScene()
	scene.Add(models.FurnitureChair, "#556677", "wood")

	assert.False(t, scene.SetScale(1.5))
	assert.False(t, scene.SetRotation(1))
	assert.Equal(t, 1.0, scene.Objects()[0].Scale)
}

func TestRemoveClearsSelection(t *testing.T) {
	scene := testScene()
	obj := scene.Add(models.FurnitureRug, "#884422", "wool")
	require.True(t, scene.PointerDown(obj.ID, 0, 0))

	require.True(t, scene.Remove(obj.ID))
	assert.Empty(t, scene.SelectedID())
	assert.False(t, scene.Dragging())
	assert.Empty(t, scene.Objects())

	assert.False(t, scene.Remove(obj.ID))
}

func TestSetDimensionsReclampsObjects(t *testing.T) {
	scene := NewSceneSeeded(models.RoomDimensions{Width: 20, Depth: 20, Height: 3}, 1)
	scene.AddAt(models.FurnitureCabinet, "#443322", "wood", 9, 9)

	scene.SetDimensions(models.RoomDimensions{Width: 6, Depth: 5, Height: 3})

	obj := scene.Objects()[0]
	assert.Equal(t, 2.5, obj.X)
	assert.Equal(t, 2.0, obj.Z)
}

func TestSetDimensionsClampsInput(t *testing.T) {
	scene := testScene()

	scene.SetDimensions(models.RoomDimensions{Width: 100, Depth: 0.1, Height: 50})

	assert.Equal(t, models.RoomMaxSide, scene.Dimensions.Width)
	assert.Equal(t, models.RoomMinSide, scene.Dimensions.Depth)
	assert.Equal(t, models.RoomMaxHeight, scene.Dimensions.Height)
}

func TestSetObjectsFillsDefaults(t *testing.T) {
	scene := testScene()
	scene.Add(models.FurnitureSofa, "#334455", "fabric")

	scene.SetObjects([]models.FurnitureObject{
		{Type: models.FurnitureBed, X: 50, Z: -50},
		{ID: "kept-id", Type: models.FurnitureLamp, Scale: 1.5, X: 1, Z: 1},
	})

	objects := scene.Objects()
	require.Len(t, objects, 2)
	assert.NotEmpty(t, objects[0].ID)
	assert.Equal(t, 1.0, objects[0].Scale)
	assert.Equal(t, 2.5, objects[0].X)
	assert.Equal(t, -2.0, objects[0].Z)
	assert.Equal(t, "kept-id", objects[1].ID)
	assert.Equal(t, 1.5, objects[1].Scale)
	assert.Empty(t, scene.SelectedID())
}

func TestObjectsReturnsSnapshot(t *testing.T) {
	scene := testScene()
	scene.Add(models.FurnitureSofa, "#334455", "fabric")

	snapshot := scene.Objects()
	snapshot[0].X = 99

	assert.Equal(t, 0.0, scene.Objects()[0].X)
}
