// Package scoring computes candidate desirability scores: the weighted
// heuristic formula, the per-event rotation formula, and the optional
// learned predictor that substitutes for the heuristic per candidate.
package scoring

import (
	"hash/fnv"
)

// Weight keys. Per-role skill overrides use SkillKey(role).
const (
	WBalance     = "w_balance"
	WSkill       = "w_skill"
	WRecent      = "w_recent"
	WUnavailable = "w_unavailable"
	WHistory     = "w_history"
)

// Staleness weights for the per-event rotation formula: fairness dominates
// for ceremonial roles, fairness and learned preference balance evenly for
// activity publishers and assistants.
const (
	StalenessWeightGeneral  = 0.6
	StalenessWeightActivity = 0.5

	stalenessScale = 20.0
)

// Weights is a named bundle of scoring coefficients.
type Weights map[string]float64

// Defaults are the hard-coded coefficients used when no bundle is stored.
// The unavailability penalty dominates so an unavailable person is
// functionally disqualified without being hard-filtered.
func Defaults() Weights {
	return Weights{
		WBalance:     1.0,
		WSkill:       1.0,
		WRecent:      1.0,
		WUnavailable: 100.0,
		WHistory:     1.0,
	}
}

// Get returns the coefficient for key, falling back to def when absent.
func (w Weights) Get(key string, def float64) float64 {
	if w == nil {
		return def
	}
	if v, ok := w[key]; ok {
		return v
	}
	return def
}

// SkillKey is the lazily-created per-role skill coefficient key.
func SkillKey(role string) string {
	return "w_skill::" + role
}

// Profile is what the formula needs to know about a person.
type Profile struct {
	Skills    []string
	Available bool
}

// Stats are the per-candidate rolling statistics. SuccessRateForRole
// defaults to 0.5 when the caller has no history for the role.
type Stats struct {
	AssignmentsLast4Weeks int
	AssignedLastWeek      bool
	SuccessRateForRole    float64
}

// Compute applies the heuristic formula. Higher is better; the result is
// unbounded because the unavailability penalty can push it far negative.
// The per-role skill key overrides w_skill when feedback has created one.
func Compute(p Profile, role string, stats Stats, w Weights) float64 {
	balance := 1.0 / float64(1+stats.AssignmentsLast4Weeks)

	skill := 0.0
	for _, s := range p.Skills {
		if s == role {
			skill = 1.0
			break
		}
	}

	recent := 0.0
	if stats.AssignedLastWeek {
		recent = 1.0
	}

	unavailable := 0.0
	if !p.Available {
		unavailable = 1.0
	}

	wSkill := w.Get(SkillKey(role), w.Get(WSkill, 1.0))

	return w.Get(WBalance, 1.0)*balance +
		wSkill*skill -
		w.Get(WRecent, 1.0)*recent -
		w.Get(WUnavailable, 100.0)*unavailable +
		w.Get(WHistory, 1.0)*stats.SuccessRateForRole
}

// RotationScore blends time-since-last-assignment with the learned
// preference for per-event ranking.
func RotationScore(stalenessWeeks int, preference, stalenessWeight float64) float64 {
	return (float64(stalenessWeeks)/stalenessScale)*stalenessWeight +
		preference*(1-stalenessWeight)
}

// RoleIndex maps a role tag to a stable small integer feature.
func RoleIndex(role string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(role))
	return int(h.Sum32() % 1000)
}
