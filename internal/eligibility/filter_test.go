package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(pool []Candidate) []string {
	out := make([]string, 0, len(pool))
	for _, c := range pool {
		out = append(out, c.Name)
	}
	return out
}

func TestFilterRestPeriod(t *testing.T) {
	pool := []Candidate{
		{Name: "Ana", Gender: "F", Roles: []string{"lector"}, StalenessWeeks: 1},
		{Name: "Ben", Gender: "M", Roles: []string{"lector"}, StalenessWeeks: 5},
	}

	got := Filter(pool, "lector", nil, "")
	assert.Equal(t, []string{"Ben"}, names(got))

	// Exactly at the boundary counts as rested.
	pool[0].StalenessWeeks = MinRestWeeks
	got = Filter(pool, "lector", nil, "")
	assert.Equal(t, []string{"Ana", "Ben"}, names(got))
}

func TestFilterCapability(t *testing.T) {
	pool := []Candidate{
		{Name: "Ana", Roles: []string{"presidente", "lector"}, StalenessWeeks: 9},
		{Name: "Ben", Roles: []string{"oracion"}, StalenessWeeks: 9},
	}

	got := Filter(pool, "lector", nil, "")
	assert.Equal(t, []string{"Ana"}, names(got))
}

func TestFilterWildcardRolesAdmitEveryone(t *testing.T) {
	pool := []Candidate{
		{Name: "Ana", Roles: nil, StalenessWeeks: 9},
		{Name: "Ben", Roles: []string{"oracion"}, StalenessWeeks: 9},
	}

	for _, role := range []string{"generic", "publicador"} {
		got := Filter(pool, role, nil, "")
		assert.Equal(t, []string{"Ana", "Ben"}, names(got), role)
	}
}

func TestFilterGender(t *testing.T) {
	pool := []Candidate{
		{Name: "Ana", Gender: "F", Roles: []string{"lector"}, StalenessWeeks: 9},
		{Name: "Ben", Gender: "M", Roles: []string{"lector"}, StalenessWeeks: 9},
	}

	assert.Equal(t, []string{"Ben"}, names(Filter(pool, "lector", nil, "M")))
	assert.Equal(t, []string{"Ana"}, names(Filter(pool, "lector", nil, "F")))
	// Empty gender means no constraint.
	assert.Len(t, Filter(pool, "lector", nil, ""), 2)
}

func TestFilterExclusion(t *testing.T) {
	pool := []Candidate{
		{Name: "Ana", Roles: []string{"lector"}, StalenessWeeks: 9},
		{Name: "Ben", Roles: []string{"lector"}, StalenessWeeks: 9},
	}

	excluded := ExclusionSet([]string{"Ana"})
	assert.Equal(t, []string{"Ben"}, names(Filter(pool, "lector", excluded, "")))
}

func TestFilterEmptyResultIsNotAnError(t *testing.T) {
	pool := []Candidate{
		{Name: "Ana", Roles: []string{"oracion"}, StalenessWeeks: 9},
	}
	got := Filter(pool, "lector", nil, "")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHasRole(t *testing.T) {
	c := Candidate{Roles: []string{"presidente", "lector"}}
	assert.True(t, c.HasRole("lector"))
	assert.False(t, c.HasRole("oracion"))
	assert.False(t, Candidate{}.HasRole("lector"))
}

func TestExclusionSetMergesLists(t *testing.T) {
	set := ExclusionSet([]string{"Ana", "Ben"}, []string{"Ben", "Carla"}, nil)
	assert.Equal(t, map[string]bool{"Ana": true, "Ben": true, "Carla": true}, set)
}
