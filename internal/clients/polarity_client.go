package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/spacesedan/commentsense/internal/models"
)

// PolarityClient calls an HTTP polarity service that answers
// {"pos":..,"neu":..,"neg":..,"compound":..} for a {"text":..} body.
// It never retries; a failed call aborts the analysis.
type PolarityClient struct {
	Client   *http.Client
	Endpoint string
}

func NewPolarityClient(endpoint string) *PolarityClient {
	return &PolarityClient{
		Client:   &http.Client{Timeout: 10 * time.Second},
		Endpoint: endpoint,
	}
}

func (p *PolarityClient) PolarityScores(ctx context.Context, text string) (models.PolarityRecord, error) {
	var rec models.PolarityRecord
	if p.Endpoint == "" {
		return rec, fmt.Errorf("[PolarityClient] endpoint is not configured")
	}

	body, err := json.Marshal(models.PolarityServiceRequest{Text: text})
	if err != nil {
		return rec, fmt.Errorf("[PolarityClient] failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return rec, fmt.Errorf("[PolarityClient] failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := p.Client.Do(req)
	if err != nil {
		return rec, fmt.Errorf("[PolarityClient] request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return rec, fmt.Errorf("[PolarityClient] status code %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return rec, fmt.Errorf("[PolarityClient] failed to read response: %w", err)
	}

	var scores polarityResponse
	if err := json.Unmarshal(respBody, &scores); err != nil {
		return rec, fmt.Errorf("[PolarityClient] failed to unmarshal response: %w", err)
	}
	return scores.record()
}

// polarityResponse uses pointers so a missing field is told apart from a zero score.
type polarityResponse struct {
	Pos      *float64 `json:"pos"`
	Neu      *float64 `json:"neu"`
	Neg      *float64 `json:"neg"`
	Compound *float64 `json:"compound"`
}

func (r polarityResponse) record() (models.PolarityRecord, error) {
	var missing []string
	for name, v := range map[string]*float64{"pos": r.Pos, "neu": r.Neu, "neg": r.Neg, "compound": r.Compound} {
		if v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return models.PolarityRecord{}, fmt.Errorf("[PolarityClient] response is missing %s", strings.Join(missing, ", "))
	}
	return models.PolarityRecord{Positive: *r.Pos, Neutral: *r.Neu, Negative: *r.Neg, Compound: *r.Compound}, nil
}

// HealthCheck scores a fixed phrase and fails unless the service answers.
func (p *PolarityClient) HealthCheck(ctx context.Context) error {
	_, err := p.PolarityScores(ctx, "health check")
	return err
}
