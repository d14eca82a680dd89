package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"roomvizapi/models"
)

// PricePredictionProvider is the external ensemble model, a black box behind
// a fixed JSON contract. We only ever consume predicted_price; the rest of
// the response passes through untouched.
type PricePredictionProvider interface {
	PredictPrice(ctx context.Context, req models.PricePredictionIn) (*models.PricePredictionOut, error)
}

type PricePredictionService struct {
	BaseURL string
	Client  *http.Client
}

func NewPricePredictionService() *PricePredictionService {
	return &PricePredictionService{
		BaseURL: GetEnv("PRICE_PREDICTOR_URL", "http://localhost:8501"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *PricePredictionService) PredictPrice(ctx context.Context, in models.PricePredictionIn) (*models.PricePredictionOut, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, errors.Wrap(err, "marshal prediction request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/predict", s.BaseURL), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build prediction request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "call price predictor")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read predictor response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("price predictor returned %d: %s", resp.StatusCode, string(body))
	}

	var out models.PricePredictionOut
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Wrap(err, "decode predictor response")
	}
	return &out, nil
}
