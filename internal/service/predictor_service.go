package service

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/orquestadev/orquesta/internal/scoring"
	"github.com/tidwall/gjson"
)

// PredictorService calls a remote model-serving endpoint implementing the
// predict contract. Any failure is reported as an error so the caller
// falls back to the heuristic scorer for that candidate.
type PredictorService struct {
	client  *resty.Client
	baseURL string
}

func NewPredictorService(baseURL string) *PredictorService {
	return &PredictorService{
		client:  resty.New().SetTimeout(5 * time.Second),
		baseURL: baseURL,
	}
}

func (s *PredictorService) Predict(f scoring.Features, role string) (float64, error) {
	available := 0
	if f.Available {
		available = 1
	}
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"role":       role,
			"role_index": scoring.RoleIndex(role),
			"features": map[string]interface{}{
				"age":              f.Age,
				"experience_years": f.ExperienceYears,
				"available":        available,
			},
		}).
		Post(s.baseURL + "/predict")
	if err != nil {
		return 0, err
	}
	if resp.StatusCode() != 200 {
		return 0, fmt.Errorf("predictor returned status %d", resp.StatusCode())
	}

	score := gjson.Get(resp.String(), "score")
	if !score.Exists() {
		return 0, fmt.Errorf("predictor response missing score field")
	}
	return score.Float(), nil
}
