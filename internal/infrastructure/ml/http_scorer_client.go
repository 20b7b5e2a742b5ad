package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/port"
)

// DefaultTimeout bounds a single scoring call. No retries: the caller
// degrades to heuristic-only scoring on failure.
const DefaultTimeout = 2 * time.Second

type scoreRequest struct {
	AvgAmount7d        float64 `json:"avg_amount_7d"`
	TxVelocity1h       float64 `json:"tx_velocity_1h"`
	DeviceChangeFreq   float64 `json:"device_change_freq"`
	TimeOfDayDeviation float64 `json:"time_of_day_deviation"`
}

type scoreResponse struct {
	MLScore *float64 `json:"ml_score"`
	Error   string   `json:"error"`
}

// HTTPScorerClient calls the external ML scoring service over HTTP. It
// implements port.MLScorerClient.
type HTTPScorerClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPScorerClient creates a client for the scoring service at endpoint
// (scheme and host; the /score path is appended). A non-positive timeout
// falls back to DefaultTimeout.
func NewHTTPScorerClient(endpoint string, timeout time.Duration, logger *slog.Logger) *HTTPScorerClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPScorerClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Score posts the feature vector and returns the model's score clamped to
// [0,100]. Transport failures and non-2xx statuses wrap ErrMLUnavailable;
// malformed bodies, an error field in the payload, or a missing score wrap
// ErrMLInvalidResponse.
func (c *HTTPScorerClient) Score(ctx context.Context, features model.RiskFeatureVector) (float64, error) {
	payload := scoreRequest{
		AvgAmount7d:        features.AvgAmount7d,
		TxVelocity1h:       features.TxVelocity1h,
		DeviceChangeFreq:   features.DeviceChangeFreq,
		TimeOfDayDeviation: features.TimeOfDayDeviation(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/score", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", port.ErrMLUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: status %d", port.ErrMLUnavailable, resp.StatusCode)
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", port.ErrMLInvalidResponse, err)
	}

	// A 200 can still carry a failure: the model reports internal errors
	// in-band.
	if out.Error != "" {
		return 0, fmt.Errorf("%w: %s", port.ErrMLInvalidResponse, out.Error)
	}
	if out.MLScore == nil {
		return 0, fmt.Errorf("%w: missing ml_score", port.ErrMLInvalidResponse)
	}

	score := *out.MLScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}
