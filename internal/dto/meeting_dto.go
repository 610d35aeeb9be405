package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Candidate is one pool entry for a meeting allocation.
// LastAssignmentWeeksAgo, when set, takes precedence over rotation memory.
type Candidate struct {
	ID                     uint     `json:"id"`
	Name                   string   `json:"name"`
	Gender                 string   `json:"gender"` // 'M' or 'F'
	Roles                  []string `json:"roles"`
	LastAssignmentWeeksAgo *int     `json:"last_assignment_weeks_ago"`
}

// NormalizeGender maps the accepted spellings ("Hombre"/"Mujer" and the
// single letters, any case) to the canonical "M"/"F".
func NormalizeGender(g string) string {
	switch strings.ToUpper(strings.TrimSpace(g)) {
	case "M", "HOMBRE":
		return "M"
	case "F", "MUJER":
		return "F"
	}
	return strings.ToUpper(strings.TrimSpace(g))
}

// ActivityRequest is one slot to fill within the meeting, processed in
// request order.
type ActivityRequest struct {
	Type              string `json:"type"` // 'presidente', 'oracion', 'seamos_mejores_maestros', 'generic', ...
	Title             string `json:"title"`
	RequiresAssistant bool   `json:"requires_assistant"`
}

// MeetingPayload is the body of POST /v1/assign_meeting.
type MeetingPayload struct {
	WeekDate     string            `json:"week_date"`
	Candidates   []Candidate       `json:"candidates"`
	Activities   []ActivityRequest `json:"activities"`
	ExcludeNames []string          `json:"exclude_names"`
}

func (p *MeetingPayload) Validate() error {
	if p.WeekDate != "" {
		if _, err := time.Parse(dateLayout, p.WeekDate); err != nil {
			return fmt.Errorf("week_date must be YYYY-MM-DD: %w", err)
		}
	}
	for i, a := range p.Activities {
		if a.Type == "" {
			return fmt.Errorf("activity %d: type is required", i)
		}
	}
	for i, c := range p.Candidates {
		if c.Name == "" {
			return fmt.Errorf("candidate %d: name is required", i)
		}
	}
	if len(p.Activities) == 0 {
		return errors.New("activities must contain at least one entry")
	}
	return nil
}

// Week returns the parsed week date, defaulting to now.
func (p *MeetingPayload) Week(now time.Time) time.Time {
	if p.WeekDate == "" {
		return now
	}
	d, err := time.Parse(dateLayout, p.WeekDate)
	if err != nil {
		return now
	}
	return d
}

// PersonRef identifies an assigned person in a meeting result.
type PersonRef struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

// ActivityAssignment is one filled (or explicitly unfilled) slot.
type ActivityAssignment struct {
	Theme     string     `json:"theme"`
	Publisher *PersonRef `json:"publisher"`
	Assistant *PersonRef `json:"assistant"`
}

type MeetingResponse struct {
	WeekDate    string               `json:"week_date"`
	Assignments []ActivityAssignment `json:"assignments"`
}

// StatusResponse is the body of GET /v1/status.
type StatusResponse struct {
	Version             string `json:"version"`
	State               string `json:"state"`
	PersonsRemembered   int    `json:"persons_remembered"`
	Feedbacks           int    `json:"feedbacks"`
	FeedbackHistorySize int    `json:"feedback_history_size"`
	ModelLoaded         bool   `json:"model_loaded"`
	Timestamp           string `json:"timestamp"`
}
