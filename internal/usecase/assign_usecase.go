package usecase

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/orquestadev/orquesta/internal/dto"
	"github.com/orquestadev/orquesta/internal/logger"
	"github.com/orquestadev/orquesta/internal/model"
	"github.com/orquestadev/orquesta/internal/repository"
	"github.com/orquestadev/orquesta/internal/scoring"
)

var (
	// ErrValidation marks caller mistakes; handlers map it to 400.
	ErrValidation = errors.New("validation error")
	// ErrNoCandidates means the supplied IDs resolved to an empty set.
	ErrNoCandidates = errors.New("no candidates found for the supplied person_ids")
	// ErrNoSelection should be unreachable for a non-empty candidate set.
	ErrNoSelection = errors.New("scoring failed to select a candidate")
)

// PersonStore, WeightsStore and HistoryStore are the persistence
// collaborators the allocation core depends on.
type PersonStore interface {
	FindByIDs(ids []uint) ([]model.Person, error)
}

type WeightsStore interface {
	FindByName(name string) (*model.ModelWeights, error)
	Save(row *model.ModelWeights) error
}

type HistoryStore interface {
	Append(entry *model.AssignmentHistory) error
	ListPage(page, pageSize int) ([]model.AssignmentHistory, int64, error)
	LoadLabeled() ([]repository.LabeledOutcome, error)
}

// AssignUsecase implements single-best-candidate selection: the caller has
// already narrowed the pool, we just score and pick.
type AssignUsecase struct {
	persons   PersonStore
	weights   WeightsStore
	predictor scoring.Predictor
	log       *logger.Logger
}

func NewAssignUsecase(persons PersonStore, weights WeightsStore, predictor scoring.Predictor, log *logger.Logger) *AssignUsecase {
	return &AssignUsecase{persons: persons, weights: weights, predictor: predictor, log: log}
}

// AssignBest scores every candidate and returns the strict maximum, ties
// broken by first-seen order. Scoring is sequential on purpose: evaluation
// order affects tie-breaking and candidate counts are small.
func (u *AssignUsecase) AssignBest(payload *dto.AssignPayload) (*dto.AssignResult, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	weights, err := u.resolveWeights(payload.Weights)
	if err != nil {
		return nil, err
	}

	candidates, err := u.persons.FindByIDs(payload.PersonIDs)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	bestScore := math.Inf(-1)
	var best *model.Person
	for i := range candidates {
		person := &candidates[i]
		score := u.scoreCandidate(person, payload, weights)
		if score > bestScore {
			bestScore = score
			best = person
		}
	}
	if best == nil {
		return nil, ErrNoSelection
	}

	return &dto.AssignResult{PersonID: best.ID, Score: bestScore, Role: payload.Role}, nil
}

// scoreCandidate tries the predictive model first and silently falls back
// to the heuristic formula. The substitution is per candidate; the model
// is trained to approximate the same scale, so mixing within one
// comparison is accepted.
func (u *AssignUsecase) scoreCandidate(person *model.Person, payload *dto.AssignPayload, weights scoring.Weights) float64 {
	if u.predictor != nil {
		features := scoring.Features{
			Age:             person.MetaFloat("age", 0),
			ExperienceYears: person.MetaFloat("experience_years", 0),
			Available:       person.Available(),
		}
		score, err := u.predictor.Predict(features, payload.Role)
		if err == nil {
			return score
		}
		if !errors.Is(err, scoring.ErrNoModel) {
			u.log.Warn("predictor unavailable, using heuristic",
				"person_id", person.ID, "error", err)
		}
	}

	profile := scoring.Profile{Skills: person.Skills(), Available: person.Available()}
	return scoring.Compute(profile, payload.Role, u.statsFor(person, payload), weights)
}

// statsFor merges payload-supplied statistics over the person's metadata.
func (u *AssignUsecase) statsFor(person *model.Person, payload *dto.AssignPayload) scoring.Stats {
	stats := scoring.Stats{
		AssignmentsLast4Weeks: int(person.MetaFloat("assignments_last_4w", 0)),
		AssignedLastWeek:      person.MetaBool("assigned_last_week", false),
		SuccessRateForRole:    person.MetaFloat("success_rate_for_role", 0.5),
	}
	override, ok := payload.Stats[strconv.FormatUint(uint64(person.ID), 10)]
	if !ok {
		return stats
	}
	if override.AssignmentsLast4Weeks != nil {
		stats.AssignmentsLast4Weeks = *override.AssignmentsLast4Weeks
	}
	if override.AssignedLastWeek != nil {
		stats.AssignedLastWeek = *override.AssignedLastWeek
	}
	if override.SuccessRateForRole != nil {
		stats.SuccessRateForRole = *override.SuccessRateForRole
	}
	return stats
}

// resolveWeights prefers the explicit payload override, then the persisted
// default bundle. Missing keys fall back to hard-coded defaults inside the
// formula itself.
func (u *AssignUsecase) resolveWeights(override map[string]float64) (scoring.Weights, error) {
	if override != nil {
		return scoring.Weights(override), nil
	}
	row, err := u.weights.FindByName(model.DefaultWeightsName)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return scoring.Defaults(), nil
	}
	stored := row.WeightMap()
	if len(stored) == 0 {
		return scoring.Defaults(), nil
	}
	return scoring.Weights(stored), nil
}
