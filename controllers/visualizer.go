package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"roomvizapi/models"
	"roomvizapi/services"
	"roomvizapi/vision"
)

// uploads analyzed inline are capped well below the queue pipeline limits
const maxInlineImageBytes = 15 << 20

type RoomAnalysisOut struct {
	Analysis *vision.RoomAnalysis `json:"analysis"`
	Colors   models.RoomColors    `json:"colors"`
	Usable   bool                 `json:"usable"`
}

type FurnitureColorOut struct {
	Hex        string   `json:"hex"`
	Name       string   `json:"name"`
	Harmonious []string `json:"harmonious"`
}

type SuggestionsIn struct {
	Analysis  *vision.RoomAnalysis     `json:"analysis" validate:"required"`
	Furniture []models.FurnitureObject `json:"furniture"`
	ListingID *uint                    `json:"listing_id"`
	Price     *float64                 `json:"price"`
}

type SuggestionsOut struct {
	Suggestions []vision.Suggestion `json:"suggestions"`
}

type VisualizerController struct {
	Predictor services.PricePredictionProvider
}

func (controller *VisualizerController) VisualizerRoutes(g *echo.Group) {
	g.POST("/analyze/room", controller.AnalyzeRoomImage)
	g.POST("/analyze/furniture", controller.AnalyzeFurnitureImage)
	g.POST("/suggestions", controller.Suggestions)
}

func readUploadedImage(c echo.Context) (*vision.PixelBuffer, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("image file is required")
	}
	if fileHeader.Size > maxInlineImageBytes {
		return nil, fmt.Errorf("image is too large")
	}
	if !services.IsAllowedImageName(fileHeader.Filename) {
		return nil, fmt.Errorf("unsupported image type")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("could not read uploaded image")
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("could not read uploaded image")
	}
	return services.DecodeRGBA(imageBytes)
}

// AnalyzeRoomImage runs the full room analysis synchronously on an uploaded
// photo. The queue based flow over scans is preferred for large images.
func (controller *VisualizerController) AnalyzeRoomImage(c echo.Context) error {
	buf, err := readUploadedImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	analysis := vision.AnalyzeRoom(buf)
	return c.JSON(http.StatusOK, RoomAnalysisOut{
		Analysis: analysis,
		Colors:   vision.RoomColorsFromAnalysis(analysis),
		Usable:   analysis.Usable(),
	})
}

func (controller *VisualizerController) AnalyzeFurnitureImage(c echo.Context) error {
	buf, err := readUploadedImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	hex := vision.ExtractDominantColor(buf)
	return c.JSON(http.StatusOK, FurnitureColorOut{
		Hex:        hex,
		Name:       vision.NameColor(hex),
		Harmonious: vision.HarmoniousSet(hex),
	})
}

func (controller *VisualizerController) Suggestions(c echo.Context) error {
	var req SuggestionsIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Analysis == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "analysis is required"})
	}
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	price := req.Price
	if price == nil && req.ListingID != nil {
		db, ok := c.Get("__db").(*gorm.DB)
		if !ok {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
		}
		var listing models.Listing
		if err := db.Where("id = ?", *req.ListingID).First(&listing).Error; err == nil {
			price = listing.Price
			if price == nil {
				price = controller.predictListingPrice(c, listing, user.ID)
			}
		}
	}

	return c.JSON(http.StatusOK, SuggestionsOut{
		Suggestions: vision.GenerateSuggestions(req.Analysis, req.Furniture, price),
	})
}

// predictListingPrice asks the pricing model for an estimate when the listing
// has no price of its own. Best effort, nil on any failure.
func (controller *VisualizerController) predictListingPrice(c echo.Context, listing models.Listing, userId uint) *float64 {
	if controller.Predictor == nil {
		return nil
	}
	in := models.PricePredictionIn{
		Category:  listing.Category,
		Title:     listing.Title,
		Condition: listing.Condition,
	}
	if listing.Description != nil {
		in.Description = *listing.Description
	}
	out, err := controller.Predictor.PredictPrice(c.Request().Context(), in)
	if err != nil {
		fmt.Printf("Price prediction failed for listing %v of user %v: %s\n", listing.ID, userId, err)
		sentry.CaptureException(err)
		return nil
	}
	if out == nil {
		return nil
	}
	return &out.PredictedPrice
}
