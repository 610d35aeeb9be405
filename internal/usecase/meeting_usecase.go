package usecase

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/orquestadev/orquesta/internal/dto"
	"github.com/orquestadev/orquesta/internal/eligibility"
	"github.com/orquestadev/orquesta/internal/logger"
	"github.com/orquestadev/orquesta/internal/rotation"
	"github.com/orquestadev/orquesta/internal/scoring"
)

// TieBreak selects how equally-scored candidates are resolved.
type TieBreak string

const (
	TieBreakDeterministic TieBreak = "deterministic"
	TieBreakRandom        TieBreak = "random"
)

// Role tags with special handling.
const (
	RoleTeaching  = "seamos_mejores_maestros"
	RolePublisher = "publicador"
)

// generalRoles are the ceremonial slots; they imply an all-male pool and
// the fairness-heavy staleness weight.
var generalRoles = map[string]bool{
	"presidente":     true,
	"oracion":        true,
	"oracion_inicio": true,
	"oracion_final":  true,
	"conductor":      true,
	"lector":         true,
}

// teachingKeywords identify "seamos mejores maestros" activities by title
// when the request does not tag them explicitly.
var teachingKeywords = []string{
	"DE CASA EN CASA", "PREDICACIÓN", "PREDICACION", "REVISITA",
	"CURSO BÍBLICO", "CURSO BIBLICO", "DISCURSO", "ANIME", "LMD",
}

// MeetingConfig resolves the behaviors deliberately left configurable:
// assistant tie-breaking and female-preference ordering for teaching
// activities.
type MeetingConfig struct {
	TieBreak            TieBreak
	FemaleFirstTeaching bool
	// Seed fixes the random tie-break sequence; 0 seeds from the clock.
	Seed int64
}

// MeetingUsecase allocates every slot of one meeting, role by role.
type MeetingUsecase struct {
	memory *rotation.Memory
	cfg    MeetingConfig
	log    *logger.Logger
	rng    *rand.Rand
	now    func() time.Time
}

func NewMeetingUsecase(memory *rotation.Memory, cfg MeetingConfig, log *logger.Logger) *MeetingUsecase {
	if cfg.TieBreak == "" {
		cfg.TieBreak = TieBreakDeterministic
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MeetingUsecase{
		memory: memory,
		cfg:    cfg,
		log:    log,
		rng:    rand.New(rand.NewSource(seed)),
		now:    time.Now,
	}
}

// AssignMeeting fills the requested activities in order: earlier roles
// have first pick of the pool. Every placement records a rotation
// timestamp; memory is persisted once at the end.
func (u *MeetingUsecase) AssignMeeting(payload *dto.MeetingPayload) (*dto.MeetingResponse, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	week := payload.Week(u.now())
	used := map[string]bool{}
	assignments := make([]dto.ActivityAssignment, 0, len(payload.Activities))

	// Staleness is resolved once for the whole event. Placements made
	// while filling earlier slots must not push a person below the rest
	// period, or the reuse fallback below could never reuse anyone.
	staleness := u.stalenessSnapshot(payload.Candidates, week)

	for _, activity := range payload.Activities {
		result := dto.ActivityAssignment{Theme: activity.Title}
		role, gender, teaching := u.deriveConstraints(activity)

		pool := u.eligiblePool(payload.Candidates, staleness, role,
			eligibility.ExclusionSet(payload.ExcludeNames, usedNames(used)), gender)
		if len(pool) == 0 {
			// Degrade gracefully: allow reuse within this meeting before
			// leaving the slot unfilled.
			pool = u.eligiblePool(payload.Candidates, staleness, role,
				eligibility.ExclusionSet(payload.ExcludeNames), gender)
		}

		if len(pool) == 0 {
			u.log.Warn("no eligible candidates, slot left unfilled",
				"activity", activity.Title, "role", role)
			assignments = append(assignments, result)
			continue
		}

		if teaching && u.cfg.FemaleFirstTeaching {
			pool = femaleFirst(pool)
		}

		selected := u.pick(pool, u.prefRole(role))
		result.Publisher = &dto.PersonRef{Name: selected.Name, Gender: selected.Gender}
		used[selected.Name] = true
		u.memory.RecordAssignment(selected.Name, week)

		if activity.RequiresAssistant || teaching {
			// Assistant must match the primary's gender and may not reuse
			// anyone placed earlier in this meeting.
			assistantPool := u.eligiblePool(payload.Candidates, staleness, RolePublisher,
				eligibility.ExclusionSet(payload.ExcludeNames, usedNames(used)), selected.Gender)
			if len(assistantPool) > 0 {
				assistant := u.pick(assistantPool, RolePublisher)
				result.Assistant = &dto.PersonRef{Name: assistant.Name, Gender: assistant.Gender}
				used[assistant.Name] = true
				u.memory.RecordAssignment(assistant.Name, week)
			}
		}

		assignments = append(assignments, result)
	}

	if err := u.memory.Save(); err != nil {
		return nil, fmt.Errorf("persist rotation memory: %w", err)
	}

	return &dto.MeetingResponse{
		WeekDate:    week.Format("2006-01-02"),
		Assignments: assignments,
	}, nil
}

// deriveConstraints maps an activity to its role tag, gender constraint
// and whether it is a teaching activity. Teaching activities draw from the
// mixed publisher pool; everything else defaults to the all-male pool.
func (u *MeetingUsecase) deriveConstraints(activity dto.ActivityRequest) (role, gender string, teaching bool) {
	teaching = activity.Type == RoleTeaching || matchesTeachingTitle(activity.Title)
	if teaching {
		return RolePublisher, "", true
	}
	return activity.Type, "M", false
}

func matchesTeachingTitle(title string) bool {
	upper := strings.ToUpper(title)
	for _, kw := range teachingKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// prefRole picks the preference key: ceremonial roles learn under their
// own tag, everything else under the publisher tag.
func (u *MeetingUsecase) prefRole(role string) string {
	if generalRoles[role] {
		return role
	}
	return RolePublisher
}

func (u *MeetingUsecase) stalenessWeight(prefRole string) float64 {
	if generalRoles[prefRole] {
		return scoring.StalenessWeightGeneral
	}
	return scoring.StalenessWeightActivity
}

// stalenessSnapshot resolves every candidate's staleness up front, payload
// value taking precedence over rotation memory.
func (u *MeetingUsecase) stalenessSnapshot(candidates []dto.Candidate, week time.Time) map[string]int {
	snapshot := make(map[string]int, len(candidates))
	for _, c := range candidates {
		if c.LastAssignmentWeeksAgo != nil {
			snapshot[c.Name] = *c.LastAssignmentWeeksAgo
			continue
		}
		snapshot[c.Name] = u.memory.StalenessWeeks(c.Name, week)
	}
	return snapshot
}

// eligiblePool applies the hard constraint filter over the snapshot.
func (u *MeetingUsecase) eligiblePool(candidates []dto.Candidate, staleness map[string]int, role string, excluded map[string]bool, gender string) []eligibility.Candidate {
	pool := make([]eligibility.Candidate, 0, len(candidates))
	for _, c := range candidates {
		pool = append(pool, eligibility.Candidate{
			ID:             c.ID,
			Name:           c.Name,
			Gender:         dto.NormalizeGender(c.Gender),
			Roles:          c.Roles,
			StalenessWeeks: staleness[c.Name],
		})
	}
	return eligibility.Filter(pool, role, excluded, gender)
}

// pick ranks the pool by rotation score, longest-idle first, and returns
// the winner. The sort is stable so true ties fall back to pool order;
// the random tie-break draws uniformly among the top-scored candidates.
func (u *MeetingUsecase) pick(pool []eligibility.Candidate, prefRole string) eligibility.Candidate {
	weight := u.stalenessWeight(prefRole)
	type scored struct {
		score float64
		cand  eligibility.Candidate
	}
	ranked := make([]scored, len(pool))
	for i, c := range pool {
		ranked[i] = scored{
			score: scoring.RotationScore(c.StalenessWeeks, u.memory.Preference(c.Name, prefRole), weight),
			cand:  c,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if u.cfg.TieBreak == TieBreakRandom {
		top := 1
		for top < len(ranked) && math.Abs(ranked[top].score-ranked[0].score) < 1e-9 {
			top++
		}
		return ranked[u.rng.Intn(top)].cand
	}
	return ranked[0].cand
}

// ApplyMeetingFeedback stores a free-form feedback event and, when an
// explicit adjustment is present, overwrites the learned preference.
func (u *MeetingUsecase) ApplyMeetingFeedback(payload *dto.MeetingFeedbackPayload) (*rotation.FeedbackEntry, error) {
	entry := rotation.FeedbackEntry{
		Timestamp:    u.now(),
		WeekDate:     payload.WeekDate,
		Liked:        payload.Liked,
		Instructions: payload.Instructions,
		Comments:     payload.Comments,
	}
	if adj := payload.Adjustment; adj != nil {
		if adj.Name == "" || adj.Role == "" {
			return nil, fmt.Errorf("%w: adjustment requires name and role", ErrValidation)
		}
		score := rotation.DefaultPreference
		if adj.Score != nil {
			score = *adj.Score
		}
		if score < 0 || score > 1 {
			return nil, fmt.Errorf("%w: adjustment score must be in [0,1]", ErrValidation)
		}
		u.memory.SetPreference(adj.Name, adj.Role, score)
		entry.Adjustments = map[string]interface{}{
			"name": adj.Name, "role": adj.Role, "score": score,
		}
	}

	u.memory.AppendFeedback(entry)
	if err := u.memory.Save(); err != nil {
		return nil, fmt.Errorf("persist rotation memory: %w", err)
	}
	return &entry, nil
}

func usedNames(used map[string]bool) []string {
	names := make([]string, 0, len(used))
	for name := range used {
		names = append(names, name)
	}
	return names
}

func femaleFirst(pool []eligibility.Candidate) []eligibility.Candidate {
	out := make([]eligibility.Candidate, 0, len(pool))
	for _, c := range pool {
		if c.Gender == "F" {
			out = append(out, c)
		}
	}
	for _, c := range pool {
		if c.Gender != "F" {
			out = append(out, c)
		}
	}
	return out
}
