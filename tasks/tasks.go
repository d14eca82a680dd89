package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"roomvizapi/models"
	"roomvizapi/services"
	"roomvizapi/vision"
)

const TypeRoomScanAnalysis = "visualize:room_scan"

type RoomScanPayload struct {
	ScanID uint `json:"scan_id"`
}

func NewRoomScanAnalysisTask(scanID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(RoomScanPayload{ScanID: scanID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRoomScanAnalysis, payload), nil
}

// HandleRoomScanAnalysisTask downloads the scan photo from R2, runs the room
// analysis and writes the results back on the scan row. A decode failure
// marks the scan failed and leaves any previous analysis columns untouched.
func HandleRoomScanAnalysisTask(ctx context.Context, t *asynq.Task, db *gorm.DB, awsService services.AWSServiceProvider, fbApp *firebase.App) error {
	var payload RoomScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Scan: %v] Room analysis starting\n", payload.ScanID)

	var scan models.RoomScan
	res := db.First(&scan, payload.ScanID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving scan for analysis %v", payload.ScanID))
		return res.Error
	}
	if scan.ImageURL == nil || *scan.ImageURL == "" {
		return saveScanFail(db, scan, "scan has no image", false)
	}

	bucketName := services.GetEnv("R2_BUCKET_NAME", "")
	fileUrl, err := awsService.GetPresignedR2FileReadURL(ctx, bucketName, *scan.ImageURL)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Scan: %v] Error on getting presigned URL for %s: %v", scan.ID, *scan.ImageURL, err))
		return saveScanFail(db, scan, "could not reach photo storage", true)
	}
	imageBytes, err := services.ReadFileFromUrl(fileUrl)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Scan: %v] Error on downloading %s: %v", scan.ID, *scan.ImageURL, err))
		return saveScanFail(db, scan, "could not download photo", true)
	}

	buf, err := services.DecodeRGBA(imageBytes)
	if err != nil {
		fmt.Printf("[Scan: %v] Decode failed: %v\n", scan.ID, err)
		sentry.CaptureException(fmt.Errorf("[Scan: %v] Decode failed: %v", scan.ID, err))
		// unparsable uploads never get better on retry
		return saveScanFail(db, scan, "photo could not be decoded", false)
	}

	analysis := vision.AnalyzeRoom(buf)

	scan.Brightness = &analysis.Brightness
	scan.Warmth = &analysis.Warmth
	scan.Ambiance = &analysis.Ambiance
	scan.Lighting = &analysis.Lighting
	scan.RoomType = &analysis.RoomType
	scan.SizeLabel = &analysis.SizeLabel
	scan.Width = &analysis.Dimensions.Width
	scan.Depth = &analysis.Dimensions.Depth
	scan.Height = &analysis.Dimensions.Height
	scan.DominantColors = pq.StringArray(analysis.DominantColors)
	if paletteJSON, err := json.Marshal(analysis.Palette); err == nil {
		scan.PaletteJSON = services.StrPointer(string(paletteJSON))
	}
	if suggestedJSON, err := json.Marshal(analysis.SuggestedColors); err == nil {
		scan.SuggestedJSON = services.StrPointer(string(suggestedJSON))
	}
	scan.ProcessingStatus = "completed"
	scan.ProcessErrorMessage = nil

	if err := db.Save(&scan).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Scan: %v] Error on saving analysis: %v", scan.ID, err))
		return err
	}
	fmt.Printf("[Scan: %v] Room analysis done, ambiance %s, lighting %s\n", scan.ID, analysis.Ambiance, analysis.Lighting)

	services.SendNotification(fbApp, db, scan.OwnerID,
		"Room analysis ready",
		"Your room has been analyzed, open the visualizer to see suggestions",
		map[string]string{"scan_id": fmt.Sprintf("%v", scan.ID)},
	)
	return nil
}

// saveScanFail records a failure on the scan row. Returning an error makes
// asynq retry, so retryable failures return one and terminal ones do not.
func saveScanFail(db *gorm.DB, scan models.RoomScan, msg string, shouldRetry bool) error {
	scan.ProcessingStatus = "failed"
	scan.ProcessErrorMessage = &msg
	scan.ProcessRetryTimes++
	if err := db.Save(&scan).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Scan: %v] Error on saving fail state: %v", scan.ID, err))
	}
	if shouldRetry {
		return fmt.Errorf("[Scan: %v] %s", scan.ID, msg)
	}
	return nil
}
