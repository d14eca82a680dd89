package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"

	"roomvizapi/models"
	"roomvizapi/services"
	"roomvizapi/vision"
)

type SaveConfigIn struct {
	Name      string                   `json:"name" validate:"required,max=120"`
	ListingID *uint                    `json:"listing_id"`
	Width     float64                  `json:"width"`
	Depth     float64                  `json:"depth"`
	Height    float64                  `json:"height"`
	Colors    models.RoomColors        `json:"colors"`
	Furniture []models.FurnitureObject `json:"furniture"`
	Lighting  models.LightingSettings  `json:"lighting"`
	Analysis  *vision.RoomAnalysis     `json:"analysis"`
}

type SavedConfigOut struct {
	ID        uint                     `json:"id"`
	Name      string                   `json:"name"`
	ListingID *uint                    `json:"listing_id"`
	Width     float64                  `json:"width"`
	Depth     float64                  `json:"depth"`
	Height    float64                  `json:"height"`
	Colors    models.RoomColors        `json:"colors"`
	Furniture []models.FurnitureObject `json:"furniture"`
	Lighting  models.LightingSettings  `json:"lighting"`
	Analysis  *vision.RoomAnalysis     `json:"analysis,omitempty"`
	CreatedAt string                   `json:"created_at"`
}

type ConfigController struct {
	Store services.ConfigStoreProvider
}

func (controller *ConfigController) ConfigRoutes(g *echo.Group) {
	g.POST("", controller.SaveConfig)
	g.GET("", controller.ListConfigs)
	g.DELETE("/:configId", controller.DeleteConfig)
}

func (controller *ConfigController) SaveConfig(c echo.Context) error {
	var req SaveConfigIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	dims := models.RoomDimensions{Width: req.Width, Depth: req.Depth, Height: req.Height}.Clamped()

	furniture := req.Furniture
	if furniture == nil {
		furniture = []models.FurnitureObject{}
	}
	furnitureJson, err := json.Marshal(furniture)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid furniture payload"})
	}
	lightingJson, err := json.Marshal(req.Lighting)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lighting payload"})
	}

	cfg := models.SavedRoomConfig{
		Name:          req.Name,
		OwnerID:       user.ID,
		ListingID:     req.ListingID,
		Width:         dims.Width,
		Depth:         dims.Depth,
		Height:        dims.Height,
		FloorColor:    req.Colors.Floor,
		WallColor:     req.Colors.Walls,
		CeilingColor:  req.Colors.Ceiling,
		AccentColor:   req.Colors.Accent,
		FurnitureJSON: string(furnitureJson),
		LightingJSON:  string(lightingJson),
	}
	if req.Analysis != nil {
		analysisJson, err := json.Marshal(req.Analysis)
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid analysis payload"})
		}
		cfg.AnalysisJSON = StrPointer(string(analysisJson))
	}

	id, err := controller.Store.Save(c.Request().Context(), &cfg)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Could not save configuration, please try again"})
	}
	cfg.ID = id

	return c.JSON(http.StatusCreated, configOut(cfg))
}

func (controller *ConfigController) ListConfigs(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	configs, err := controller.Store.List(c.Request().Context(), user.ID)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Could not load configurations"})
	}

	out := make([]SavedConfigOut, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, configOut(cfg))
	}
	return c.JSON(http.StatusOK, out)
}

func (controller *ConfigController) DeleteConfig(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	var configId uint
	if err := echo.PathParamsBinder(c).Uint("configId", &configId).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	if err := controller.Store.Delete(c.Request().Context(), user.ID, configId); err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Could not delete configuration"})
	}
	return c.NoContent(http.StatusNoContent)
}

func configOut(cfg models.SavedRoomConfig) SavedConfigOut {
	out := SavedConfigOut{
		ID:        cfg.ID,
		Name:      cfg.Name,
		ListingID: cfg.ListingID,
		Width:     cfg.Width,
		Depth:     cfg.Depth,
		Height:    cfg.Height,
		Colors: models.RoomColors{
			Floor:   cfg.FloorColor,
			Walls:   cfg.WallColor,
			Ceiling: cfg.CeilingColor,
			Accent:  cfg.AccentColor,
		},
		Furniture: []models.FurnitureObject{},
		CreatedAt: cfg.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if cfg.FurnitureJSON != "" {
		var furniture []models.FurnitureObject
		if err := json.Unmarshal([]byte(cfg.FurnitureJSON), &furniture); err == nil {
			out.Furniture = furniture
		}
	}
	if cfg.LightingJSON != "" {
		var lighting models.LightingSettings
		if err := json.Unmarshal([]byte(cfg.LightingJSON), &lighting); err == nil {
			out.Lighting = lighting
		}
	}
	if cfg.AnalysisJSON != nil {
		var analysis vision.RoomAnalysis
		if err := json.Unmarshal([]byte(*cfg.AnalysisJSON), &analysis); err == nil {
			out.Analysis = &analysis
		}
	}
	return out
}
