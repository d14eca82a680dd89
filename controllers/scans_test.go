package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"roomvizapi/dbhelper"
	"roomvizapi/models"
	"roomvizapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string {
	return &s
}

type initRecordingAWSProvider struct {
	test.AWSProviderMock
	initialized bool
}

func (p *initRecordingAWSProvider) InitPresignClient(ctx context.Context) error {
	p.initialized = true
	return nil
}

func TestSetupServerInitializesPresignClient(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()

	provider := &initRecordingAWSProvider{}
	SetupServer(db, provider, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})

	assert.True(t, provider.initialized)
}

func userPk(user *models.UserAccount) string {
	return strconv.FormatUint(uint64(user.ID), 10)
}

func TestCreateScanOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := CreateScanIn{
		FileName: stringPtr("living-room.jpg"),
	}

	req := test.NewJSONAuthRequest("POST", "/viz/scans", userPk(user), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, "Expected status code 201 Created, got %d", rec.Code)

	var response ScanCreatedResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "idle", response.Scan.ProcessingStatus)
	assert.Contains(t, response.FileUploadUrl, "fakebucketurl.com")
	assert.Contains(t, response.FileUploadUrl, "living-room.jpg")

	var stored models.RoomScan
	require.NoError(t, db.First(&stored, response.Scan.ID).Error)
	assert.Equal(t, user.ID, stored.OwnerID)
}

func TestCreateScanMissingFileName(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("POST", "/viz/scans", userPk(user), CreateScanIn{})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateScanBadExtension(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := CreateScanIn{FileName: stringPtr("malware.exe")}
	req := test.NewJSONAuthRequest("POST", "/viz/scans", userPk(user), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "Unsupported")
}

func TestCreateScanUnauthorized(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})

	req := test.NewJSONAuthRequest("POST", "/viz/scans", "", CreateScanIn{FileName: stringPtr("room.jpg")})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListScansOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)
	other := test.FakeUserV2(db, "Other", "other@example.com")

	scan1 := models.RoomScan{OwnerID: user.ID, ImageURL: stringPtr("scans/one.jpg"), ProcessingStatus: "completed"}
	scan2 := models.RoomScan{OwnerID: user.ID, ImageURL: stringPtr("scans/two.jpg"), ProcessingStatus: "idle"}
	foreign := models.RoomScan{OwnerID: other.ID, ImageURL: stringPtr("scans/three.jpg"), ProcessingStatus: "idle"}
	db.Create(&scan1)
	db.Create(&scan2)
	db.Create(&foreign)

	req := test.NewJSONAuthRequest("GET", "/viz/scans", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response []ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 2)
	for _, item := range response {
		require.NotNil(t, item.Uri)
		assert.Contains(t, *item.Uri, "fakecdn.com")
	}
}

func TestListScansCacheFallback(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	// broken cache forces the direct R2 fallback
	e := SetupServer(db, &test.AWSProviderMock{MockUrl: "https://direct-r2.example.com/file"}, test.PredictorMock{}, nil, nil, nil,
		test.URLCacheMock{Err: fmt.Errorf("cache exploded")})
	user := test.FakeUser(db)

	scan := models.RoomScan{OwnerID: user.ID, ImageURL: stringPtr("scans/one.jpg"), ProcessingStatus: "completed"}
	db.Create(&scan)

	req := test.NewJSONAuthRequest("GET", "/viz/scans", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response []ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 1)
	require.NotNil(t, response[0].Uri)
	assert.Equal(t, "https://direct-r2.example.com/file", *response[0].Uri)
}

func TestGetScanOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	ambiance := models.AmbianceCozy
	scan := models.RoomScan{
		OwnerID:          user.ID,
		ImageURL:         stringPtr("scans/one.jpg"),
		ProcessingStatus: "completed",
		Brightness:       test.Float64Pointer(72),
		Ambiance:         &ambiance,
		DominantColors:   []string{"#8a7560", "#e8e2d8"},
	}
	db.Create(&scan)

	req := test.NewJSONAuthRequest("GET", fmt.Sprintf("/viz/scans/%v", scan.ID), userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, scan.ID, response.ID)
	require.NotNil(t, response.Ambiance)
	assert.Equal(t, "cozy", *response.Ambiance)
	assert.Equal(t, []string{"#8a7560", "#e8e2d8"}, response.DominantColors)
}

func TestGetScanOfAnotherUser(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)
	other := test.FakeUserV2(db, "Other", "other@example.com")

	scan := models.RoomScan{OwnerID: other.ID, ProcessingStatus: "idle"}
	db.Create(&scan)

	req := test.NewJSONAuthRequest("GET", fmt.Sprintf("/viz/scans/%v", scan.ID), userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeScanNotFound(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("POST", "/viz/scans/999999/analyze", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
