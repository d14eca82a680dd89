package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"roomvizapi/models"
	"roomvizapi/services"
	"roomvizapi/tasks"
	"roomvizapi/vision"
)

type CreateScanIn struct {
	FileName  *string `json:"file_name" validate:"required,max=200"`
	ListingID *uint   `json:"listing_id"`
}

type ScanResponse struct {
	ID               uint                  `json:"id"`
	ListingID        *uint                 `json:"listing_id"`
	ProcessingStatus string                `json:"processing_status"`
	Uri              *string               `json:"uri,omitempty"`
	Brightness       *float64              `json:"brightness,omitempty"`
	Warmth           *float64              `json:"warmth,omitempty"`
	Ambiance         *string               `json:"ambiance,omitempty"`
	Lighting         *string               `json:"lighting,omitempty"`
	RoomType         *string               `json:"room_type,omitempty"`
	SizeLabel        *string               `json:"size_label,omitempty"`
	Width            *float64              `json:"width,omitempty"`
	Depth            *float64              `json:"depth,omitempty"`
	Height           *float64              `json:"height,omitempty"`
	DominantColors   []string              `json:"dominant_colors,omitempty"`
	Palette          []vision.PaletteEntry `json:"palette,omitempty"`
	SuggestedColors  []string              `json:"suggested_colors,omitempty"`
	CreatedAt        string                `json:"created_at"`
}

type ScanCreatedResponse struct {
	Scan          ScanResponse `json:"scan"`
	FileUploadUrl string       `json:"file_upload_url"`
}

type ScanController struct {
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
	URLCache    services.URLCacheServiceProvider
}

func (controller *ScanController) ScanRoutes(g *echo.Group) {
	g.POST("", controller.CreateScan)
	g.GET("", controller.ListScans)
	g.POST("/:scanId/analyze", controller.AnalyzeScan)
	g.GET("/:scanId", controller.GetScan)
}

func (controller *ScanController) CreateScan(c echo.Context) error {
	var req CreateScanIn
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
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	if req.FileName == nil || *req.FileName == "" {
		sentry.CaptureException(fmt.Errorf("Image was not provided when creating scan, user %v", user.ID))
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Sorry, it seems image was not provided, please try again"})
	}
	if !services.IsAllowedImageName(*req.FileName) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image type"})
	}

	scan := models.RoomScan{
		OwnerID:          user.ID,
		ListingID:        req.ListingID,
		ProcessingStatus: "idle",
	}
	var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
	safeFileName := fmt.Sprintf("scans/%s", *req.FileName)

	uploadUrl, presignErr := controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
	scan.ImageURL = &safeFileName
	if presignErr != nil {
		log.Printf("Unable to presign upload for scan of user %v!, %s", user.ID, presignErr)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Error while creating scan with attachment",
		})
	}
	if err := db.Create(&scan).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	return c.JSON(http.StatusCreated, ScanCreatedResponse{
		Scan:          scanResponse(scan, nil),
		FileUploadUrl: uploadUrl,
	})
}

func (controller *ScanController) AnalyzeScan(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
	}

	var scanId uint
	if err := echo.PathParamsBinder(c).Uint("scanId", &scanId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	var scan models.RoomScan
	if err := db.Where("id = ? AND owner_id = ?", scanId, user.ID).First(&scan).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Scan not found"})
	}

	scan.ProcessingStatus = "pending"
	if err := db.Save(&scan).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update scan status, please try again"})
	}

	task, err := tasks.NewRoomScanAnalysisTask(scan.ID)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not start analysis, please try again"})
	}
	info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("analyze"))
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not start analysis, please try again"})
	}
	fmt.Println("[Queue] Room analysis task submitted, Scan ID: ", scan.ID, " Task ID: ", info.ID)

	return c.JSON(http.StatusAccepted, map[string]interface{}{"scan_id": scan.ID, "processing_status": scan.ProcessingStatus})
}

func (controller *ScanController) GetScan(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var scanId uint
	if err := echo.PathParamsBinder(c).Uint("scanId", &scanId).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	var scan models.RoomScan
	if err := db.Where("id = ? AND owner_id = ?", scanId, user.ID).First(&scan).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Scan not found"})
	}

	var uri *string
	if scan.ImageURL != nil && *scan.ImageURL != "" {
		if url, err := controller.URLCache.GetReadURL(c.Request().Context(), *scan.ImageURL); err == nil && url != "" {
			uri = &url
		}
	}
	return c.JSON(http.StatusOK, scanResponse(scan, uri))
}

// populatePresignedScanImages enriches scans with presigned read URLs
// concurrently, with a direct R2 failsafe when the cache system itself fails.
func (controller *ScanController) populatePresignedScanImages(ctx context.Context, scans []models.RoomScan) []ScanResponse {
	if len(scans) == 0 {
		return []ScanResponse{}
	}

	var wg sync.WaitGroup
	processed := make([]ScanResponse, len(scans))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, scanItem := range scans {
		wg.Add(1)
		go func(index int, item models.RoomScan) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL

				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})

					fallbackUrl, fallbackErr := controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			processed[index] = scanResponse(item, &imageUrl)
		}(i, scanItem)
	}

	wg.Wait()
	return processed
}

func (controller *ScanController) ListScans(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var scans []models.RoomScan
	if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Find(&scans).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch scans"})
	}

	return c.JSON(http.StatusOK, controller.populatePresignedScanImages(c.Request().Context(), scans))
}

func scanResponse(scan models.RoomScan, uri *string) ScanResponse {
	resp := ScanResponse{
		ID:               scan.ID,
		ListingID:        scan.ListingID,
		ProcessingStatus: scan.ProcessingStatus,
		Uri:              uri,
		Brightness:       scan.Brightness,
		Warmth:           scan.Warmth,
		RoomType:         scan.RoomType,
		SizeLabel:        scan.SizeLabel,
		Width:            scan.Width,
		Depth:            scan.Depth,
		Height:           scan.Height,
		DominantColors:   scan.DominantColors,
		CreatedAt:        scan.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if scan.Ambiance != nil {
		resp.Ambiance = StrPointer(string(*scan.Ambiance))
	}
	if scan.Lighting != nil {
		resp.Lighting = StrPointer(string(*scan.Lighting))
	}
	if scan.PaletteJSON != nil {
		var palette []vision.PaletteEntry
		if err := json.Unmarshal([]byte(*scan.PaletteJSON), &palette); err == nil {
			resp.Palette = palette
		}
	}
	if scan.SuggestedJSON != nil {
		var suggested []string
		if err := json.Unmarshal([]byte(*scan.SuggestedJSON), &suggested); err == nil {
			resp.SuggestedColors = suggested
		}
	}
	return resp
}
