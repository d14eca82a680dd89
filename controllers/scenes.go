package controllers

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"roomvizapi/models"
	"roomvizapi/vision"
)

// SceneRegistry keeps live editing sessions in memory, keyed by session id.
// Sessions are per-user scratch state; the durable form is SavedRoomConfig.
type SceneRegistry struct {
	mu     sync.RWMutex
	scenes map[string]*sceneSession
}

type sceneSession struct {
	mu      sync.Mutex
	ownerID uint
	scene   *vision.Scene
}

func NewSceneRegistry() *SceneRegistry {
	return &SceneRegistry{scenes: make(map[string]*sceneSession)}
}

func (r *SceneRegistry) Create(ownerID uint, scene *vision.Scene) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.scenes[id] = &sceneSession{ownerID: ownerID, scene: scene}
	r.mu.Unlock()
	return id
}

// Acquire returns the scene locked for exclusive use; callers must invoke the
// returned release func when done. Scenes themselves are not concurrency safe.
func (r *SceneRegistry) Acquire(id string, ownerID uint) (*vision.Scene, func()) {
	r.mu.RLock()
	session, ok := r.scenes[id]
	r.mu.RUnlock()
	if !ok || session.ownerID != ownerID {
		return nil, nil
	}
	session.mu.Lock()
	return session.scene, session.mu.Unlock
}

func (r *SceneRegistry) Delete(id string, ownerID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.scenes[id]
	if !ok || session.ownerID != ownerID {
		return false
	}
	delete(r.scenes, id)
	return true
}

type SceneController struct {
	Scenes *SceneRegistry
}

type CreateSceneIn struct {
	Width  *float64 `json:"width"`
	Depth  *float64 `json:"depth"`
	Height *float64 `json:"height"`
}

type AddFurnitureIn struct {
	Type     string   `json:"type" validate:"required,furniture_type"`
	Color    string   `json:"color"`
	Material string   `json:"material"`
	X        *float64 `json:"x"`
	Z        *float64 `json:"z"`
	Random   bool     `json:"random"`
}

type PointerIn struct {
	ObjectID string  `json:"object_id"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
}

type TransformIn struct {
	Scale    *float64 `json:"scale"`
	Rotation *float64 `json:"rotation"`
}

type SceneOut struct {
	SceneID    string                    `json:"scene_id"`
	Dimensions models.RoomDimensions     `json:"dimensions"`
	Colors     models.RoomColors         `json:"colors"`
	Lighting   models.LightingSettings   `json:"lighting"`
	Objects    []models.FurnitureObject  `json:"objects"`
	SelectedID string                    `json:"selected_id,omitempty"`
	Dragging   bool                      `json:"dragging"`
}

func (controller *SceneController) SceneRoutes(g *echo.Group) {
	g.POST("", controller.CreateScene)
	g.GET("/:sceneId", controller.GetScene)
	g.DELETE("/:sceneId", controller.CloseScene)
	g.POST("/:sceneId/furniture", controller.AddFurniture)
	g.DELETE("/:sceneId/furniture/:objectId", controller.RemoveFurniture)
	g.POST("/:sceneId/select", controller.SelectObject)
	g.POST("/:sceneId/pointer/down", controller.PointerDown)
	g.POST("/:sceneId/pointer/move", controller.PointerMove)
	g.POST("/:sceneId/pointer/up", controller.PointerUp)
	g.POST("/:sceneId/transform", controller.Transform)
	g.POST("/:sceneId/dimensions", controller.SetDimensions)
}

func (controller *SceneController) currentScene(c echo.Context) (*vision.Scene, string, func(), error) {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return nil, "", nil, c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	sceneId := c.Param("sceneId")
	scene, release := controller.Scenes.Acquire(sceneId, user.ID)
	if scene == nil {
		return nil, "", nil, c.JSON(http.StatusNotFound, map[string]string{"error": "Scene not found"})
	}
	return scene, sceneId, release, nil
}

func (controller *SceneController) CreateScene(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	var req CreateSceneIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	dims := models.DefaultRoomDimensions()
	if req.Width != nil {
		dims.Width = *req.Width
	}
	if req.Depth != nil {
		dims.Depth = *req.Depth
	}
	if req.Height != nil {
		dims.Height = *req.Height
	}
	scene := vision.NewScene(dims.Clamped())
	sceneId := controller.Scenes.Create(user.ID, scene)

	return c.JSON(http.StatusCreated, sceneOut(sceneId, scene))
}

func (controller *SceneController) GetScene(c echo.Context) error {
	scene, sceneId, release, err := controller.currentScene(c)
	if scene == nil {
		return err
	}
	defer release()
	return c.JSON(http.StatusOK, sceneOut(sceneId, scene))
}

func (controller *SceneController) CloseScene(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	if !controller.Scenes.Delete(c.Param("sceneId"), user.ID) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Scene not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (controller *SceneController) AddFurniture(c echo.Context) error {
	scene, sceneId, release, err := controller.currentScene(c)
	if scene == nil {
		return err
	}
	defer release()
	var req AddFurnitureIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	furnitureType := models.FurnitureType(req.Type)
	var obj models.FurnitureObject
	if req.Random {
		obj = scene.AddRandom(furnitureType, req.Color, req.Material)
	} else if req.X != nil && req.Z != nil {
		obj = scene.AddAt(furnitureType, req.Color, req.Material, *req.X, *req.Z)
	} else {
		obj = scene.Add(furnitureType, req.Color, req.Material)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"object": obj, "scene": sceneOut(sceneId, scene)})
}

func (controller *SceneController) RemoveFurniture(c echo.Context) error {
	scene, sceneId, release, err := controller.currentScene(c)
	if scene == nil {
		return err
	}
	defer release()
	if !scene.Remove(c.Param("objectId")) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Object not found"})
	}
	return c.JSON(http.StatusOK, sceneOut(sceneId, scene))
}

func (controller *SceneController) SelectObject(c echo.Context) error {
	scene, sceneId, release, err := controller.currentScene(c)
	if scene == nil {
		return err
	}
	defer release()
	var req PointerIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.ObjectID == "" {
		scene.Deselect()
	} else if !scene.Select(req.ObjectID) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Object not found"})
	}
	return c.JSON(http.StatusOK, sceneOut(sceneId, scene))
}

func (controller *SceneController) PointerDown(c echo.Context) error {
	scene, sceneId, release, err := controller.currentScene(c)
	if scene == nil {
		return err
	}
	defer release()
	var req PointerIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if !scene.PointerDown(req.ObjectID, req.X, req.Z) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Object not found"})
	}
	return c.JSON(http.StatusOK, sceneOut(sceneId, scene))
}

func (controller *SceneController) PointerMove(c echo.Context) error {
	scene, sceneId, release, err := controller.currentScene(c)
	if scene == nil {
		return err
	}
	defer release()
	var req PointerIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	scene.PointerMove(req.X, req.Z)
	return c.JSON(http.StatusOK, sceneOut(sceneId, scene))
}

func (controller *SceneController) PointerUp(c echo.Context) error {
	scene, sceneId, release, err := controller.currentScene(c)
	if scene == nil {
		return err
	}
	defer release()
	scene.PointerUp()
	return c.JSON(http.StatusOK, sceneOut(sceneId, scene))
}

func (controller *SceneController) Transform(c echo.Context) error {
	scene, sceneId, release, err := controller.currentScene(c)
	if scene == nil {
		return err
	}
	defer release()
	var req TransformIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if scene.SelectedID() == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No object selected"})
	}
	if req.Scale != nil {
		scene.SetScale(*req.Scale)
	}
	if req.Rotation != nil {
		scene.SetRotation(*req.Rotation)
	}
	return c.JSON(http.StatusOK, sceneOut(sceneId, scene))
}

func (controller *SceneController) SetDimensions(c echo.Context) error {
	scene, sceneId, release, err := controller.currentScene(c)
	if scene == nil {
		return err
	}
	defer release()
	var req CreateSceneIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	dims := scene.Dimensions
	if req.Width != nil {
		dims.Width = *req.Width
	}
	if req.Depth != nil {
		dims.Depth = *req.Depth
	}
	if req.Height != nil {
		dims.Height = *req.Height
	}
	scene.SetDimensions(dims)
	return c.JSON(http.StatusOK, sceneOut(sceneId, scene))
}

func sceneOut(sceneId string, scene *vision.Scene) SceneOut {
	return SceneOut{
		SceneID:    sceneId,
		Dimensions: scene.Dimensions,
		Colors:     scene.Colors,
		Lighting:   scene.Lighting,
		Objects:    scene.Objects(),
		SelectedID: scene.SelectedID(),
		Dragging:   scene.Dragging(),
	}
}
