package dto

import (
	"errors"
	"fmt"
)

// Retrain status values reported back to the caller. Retrain failures are
// never fatal to the feedback flow.
const (
	RetrainDone    = "retrained"
	RetrainSkipped = "skipped"
)

// FeedbackPayload is the body of POST /v1/feedback.
type FeedbackPayload struct {
	Role          string `json:"role"`
	PersonID      uint   `json:"person_id"`
	Result        string `json:"result"` // 'aceptada' or 'corrigida'
	AlternativeID *uint  `json:"alternative_id"`
}

func (p *FeedbackPayload) Validate() error {
	if p.Role == "" {
		return errors.New("role is required")
	}
	if p.Result != "aceptada" && p.Result != "corrigida" {
		return fmt.Errorf("result must be either 'aceptada' or 'corrigida', got %q", p.Result)
	}
	return nil
}

// FeedbackResult reports the updated bundle plus what happened to the
// model: "weights updated" vs "weights updated, retrain skipped/failed".
type FeedbackResult struct {
	Status   string             `json:"status"`
	Weights  map[string]float64 `json:"weights"`
	MLStatus string             `json:"ml_status"`
}

// MeetingFeedbackPayload is the free-form coordinator feedback for a past
// meeting, optionally adjusting one learned preference directly.
type MeetingFeedbackPayload struct {
	WeekDate     string                `json:"week_date"`
	Liked        *bool                 `json:"liked"`
	Instructions string                `json:"instructions"`
	Comments     string                `json:"comments"`
	Adjustment   *PreferenceAdjustment `json:"adjustment"`
}

type PreferenceAdjustment struct {
	Name  string   `json:"name"`
	Role  string   `json:"role"`
	Score *float64 `json:"score"`
}
