package controllers

import (
	"encoding/json"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"roomvizapi/dbhelper"
	"roomvizapi/models"
	"roomvizapi/test"
	"roomvizapi/vision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRoomImageOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	photo := test.SolidPNG(100, 100, color.NRGBA{R: 150, G: 100, B: 40, A: 255})
	req := test.NewMultipartAuthRequest("POST", "/viz/analyze/room", userPk(user), "room.png", photo)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response RoomAnalysisOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotNil(t, response.Analysis)
	assert.True(t, response.Usable)
	assert.Equal(t, models.AmbianceTraditional, response.Analysis.Ambiance)
	assert.NotEmpty(t, response.Analysis.DominantColors)
	// room surfaces seeded from the photo
	assert.Equal(t, response.Analysis.DominantColors[0], response.Colors.Walls)
}

func TestAnalyzeRoomImageUndecodable(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	req := test.NewMultipartAuthRequest("POST", "/viz/analyze/room", userPk(user), "room.png", []byte("not an image"))
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeRoomImageBadExtension(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	photo := test.SolidPNG(10, 10, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	req := test.NewMultipartAuthRequest("POST", "/viz/analyze/room", userPk(user), "room.exe", photo)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeFurnitureImageOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	photo := test.SolidPNG(60, 60, color.NRGBA{R: 50, G: 50, B: 200, A: 255})
	req := test.NewMultipartAuthRequest("POST", "/viz/analyze/furniture", userPk(user), "sofa.png", photo)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response FurnitureColorOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "#3232c8", response.Hex)
	assert.NotEmpty(t, response.Name)
	assert.Len(t, response.Harmonious, 6)
}

func TestSuggestionsWithExplicitPrice(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := SuggestionsIn{
		Analysis: &vision.RoomAnalysis{
			DominantColors: []string{"#8a7560"},
			Brightness:     40,
			Ambiance:       models.AmbianceModern,
			Lighting:       models.LightingArtificial,
			SizeLabel:      "medium",
		},
		Price: test.Float64Pointer(30000),
	}

	req := test.NewJSONAuthRequest("POST", "/viz/suggestions", userPk(user), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response SuggestionsOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	var value *vision.Suggestion
	for i := range response.Suggestions {
		if response.Suggestions[i].ID == "value" {
			value = &response.Suggestions[i]
		}
	}
	require.NotNil(t, value)
	// base 70 plus the under-50k bonus
	assert.Equal(t, 80, value.Confidence)
}

func TestSuggestionsListingPriceLookup(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)
	listing := test.FakeListing(db, user.ID, test.Float64Pointer(30000))

	reqBody := SuggestionsIn{
		Analysis: &vision.RoomAnalysis{
			DominantColors: []string{"#8a7560"},
			Ambiance:       models.AmbianceModern,
			SizeLabel:      "medium",
		},
		ListingID: &listing.ID,
	}

	req := test.NewJSONAuthRequest("POST", "/viz/suggestions", userPk(user), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response SuggestionsOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	found := false
	for _, s := range response.Suggestions {
		if s.ID == "value" {
			found = true
		}
	}
	assert.True(t, found, "value rule should fire when the listing has a price")
}

func TestSuggestionsPredictedPrice(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	// listing without a price falls through to the prediction service
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{Out: &models.PricePredictionOut{PredictedPrice: 45000}}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)
	listing := test.FakeListing(db, user.ID, nil)

	reqBody := SuggestionsIn{
		Analysis: &vision.RoomAnalysis{
			DominantColors: []string{"#8a7560"},
			Ambiance:       models.AmbianceModern,
			SizeLabel:      "medium",
		},
		ListingID: &listing.ID,
	}

	req := test.NewJSONAuthRequest("POST", "/viz/suggestions", userPk(user), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response SuggestionsOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	found := false
	for _, s := range response.Suggestions {
		if s.ID == "value" {
			found = true
			assert.Equal(t, 80, s.Confidence)
		}
	}
	assert.True(t, found)
}

func TestSuggestionsMissingAnalysis(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, test.PredictorMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("POST", "/viz/suggestions", userPk(user), SuggestionsIn{})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
