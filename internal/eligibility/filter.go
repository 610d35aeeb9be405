// Package eligibility reduces a candidate pool to those satisfying the
// hard constraints for a requested role.
package eligibility

// MinRestWeeks is the rest period: people assigned less than this many
// weeks ago are skipped.
const MinRestWeeks = 2

// Wildcard role tags admit any publisher regardless of capability list.
var wildcardRoles = map[string]bool{
	"generic":    true,
	"publicador": true,
}

// Candidate is the pool entry the filter and the selector operate on.
// StalenessWeeks is resolved by the caller (payload value or rotation
// memory) before filtering.
type Candidate struct {
	ID             uint
	Name           string
	Gender         string
	Roles          []string
	StalenessWeeks int
}

// HasRole reports whether the candidate's capability set contains role.
func (c Candidate) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Filter returns the candidates passing every hard rule: not excluded,
// capable of the role (wildcard roles admit everyone), matching gender
// when one is required, and past the rest period. An empty result is not
// an error; callers decide how to degrade.
func Filter(pool []Candidate, role string, excluded map[string]bool, gender string) []Candidate {
	eligible := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if excluded[c.Name] {
			continue
		}
		if gender != "" && c.Gender != gender {
			continue
		}
		if !wildcardRoles[role] && !c.HasRole(role) {
			continue
		}
		if c.StalenessWeeks < MinRestWeeks {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}

// ExclusionSet builds a lookup from one or more name lists.
func ExclusionSet(lists ...[]string) map[string]bool {
	set := map[string]bool{}
	for _, list := range lists {
		for _, name := range list {
			set[name] = true
		}
	}
	return set
}
