package scoring

import "errors"

// ErrNoModel is returned when no fitted model is loaded; callers fall back
// to the heuristic formula.
var ErrNoModel = errors.New("no fitted model available")

// Features are the flattened numeric person attributes fed to a predictor.
type Features struct {
	Age             float64
	ExperienceYears float64
	Available       bool
}

// Vector returns the feature row in training order: role index first.
func (f Features) Vector(role string) []float64 {
	avail := 0.0
	if f.Available {
		avail = 1.0
	}
	return []float64{float64(RoleIndex(role)), f.Age, f.ExperienceYears, avail}
}

// Predictor scores a candidate for a role. Any error means "unavailable"
// and the caller silently uses the heuristic instead; failures are
// per-call, not global.
type Predictor interface {
	Predict(f Features, role string) (float64, error)
}
