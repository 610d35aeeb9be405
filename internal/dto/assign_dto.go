package dto

import "errors"

// CandidateStats are optional pre-computed statistics for one candidate.
// Anything missing is read from the person's metadata instead.
type CandidateStats struct {
	AssignmentsLast4Weeks *int     `json:"assignments_last_4w"`
	AssignedLastWeek      *bool    `json:"assigned_last_week"`
	SuccessRateForRole    *float64 `json:"success_rate_for_role"`
}

// AssignPayload is the body of POST /v1/assign. Stats are keyed by person
// ID rendered as a string. Weights, when present, override the persisted
// default bundle entirely.
type AssignPayload struct {
	Role      string                    `json:"role"`
	PersonIDs []uint                    `json:"person_ids"`
	Stats     map[string]CandidateStats `json:"stats"`
	Weights   map[string]float64        `json:"weights"`
}

func (p *AssignPayload) Validate() error {
	if p.Role == "" {
		return errors.New("role is required")
	}
	if len(p.PersonIDs) == 0 {
		return errors.New("person_ids must contain at least one ID")
	}
	return nil
}

// AssignResult is the selected candidate for one role.
type AssignResult struct {
	PersonID uint    `json:"person_id"`
	Score    float64 `json:"score"`
	Role     string  `json:"role"`
}
