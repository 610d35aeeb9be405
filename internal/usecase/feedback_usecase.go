package usecase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/orquestadev/orquesta/internal/dto"
	"github.com/orquestadev/orquesta/internal/logger"
	"github.com/orquestadev/orquesta/internal/model"
	"github.com/orquestadev/orquesta/internal/scoring"
	"gorm.io/datatypes"
)

// defaultAlpha is the per-feedback nudge applied to a role's skill weight.
const defaultAlpha = 0.05

// FeedbackUsecase ingests outcome signals for past assignments: it updates
// the default weight bundle, appends to history, and refits the predictive
// model from accumulated outcomes.
type FeedbackUsecase struct {
	weights WeightsStore
	history HistoryStore
	models  *scoring.ModelStore
	log     *logger.Logger
	alpha   float64
	now     func() time.Time
}

func NewFeedbackUsecase(weights WeightsStore, history HistoryStore, models *scoring.ModelStore, log *logger.Logger) *FeedbackUsecase {
	return &FeedbackUsecase{
		weights: weights,
		history: history,
		models:  models,
		log:     log,
		alpha:   defaultAlpha,
		now:     time.Now,
	}
}

// ApplyFeedback nudges the per-role skill weight by ±alpha, persists the
// bundle as the new default, appends the outcome to history, and attempts
// a retrain. Weight and history persistence failures are hard errors;
// retrain failures only downgrade ml_status.
func (u *FeedbackUsecase) ApplyFeedback(payload *dto.FeedbackPayload) (*dto.FeedbackResult, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	row, err := u.weights.FindByName(model.DefaultWeightsName)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &model.ModelWeights{Name: model.DefaultWeightsName}
	}
	weights := row.WeightMap()
	if len(weights) == 0 {
		weights = scoring.Defaults()
	}

	// Per-role key is created lazily on first feedback and never removed.
	// No clamping: repeated corrections may drive it negative.
	key := scoring.SkillKey(payload.Role)
	if _, ok := weights[key]; !ok {
		weights[key] = 1.0
	}
	switch payload.Result {
	case model.ResultadoAceptada:
		weights[key] += u.alpha
	case model.ResultadoCorrigida:
		weights[key] -= u.alpha
	}

	if err := row.SetWeightMap(weights); err != nil {
		return nil, err
	}
	row.UpdatedAt = u.now()
	if err := u.weights.Save(row); err != nil {
		return nil, fmt.Errorf("persist weights: %w", err)
	}

	extra, _ := json.Marshal(map[string]interface{}{"alternative_id": payload.AlternativeID})
	entry := &model.AssignmentHistory{
		Semana:    u.now(),
		Role:      payload.Role,
		PersonID:  payload.PersonID,
		Resultado: payload.Result,
		Feedback:  datatypes.JSON(extra),
		CreatedAt: u.now(),
	}
	if err := u.history.Append(entry); err != nil {
		return nil, fmt.Errorf("persist history: %w", err)
	}

	mlStatus := dto.RetrainDone
	if err := u.Retrain(); err != nil {
		u.log.Warn("retrain skipped", "error", err)
		mlStatus = fmt.Sprintf("%s: %v", dto.RetrainSkipped, err)
	}

	return &dto.FeedbackResult{
		Status:   "weights_updated",
		Weights:  weights,
		MLStatus: mlStatus,
	}, nil
}

// History returns one page of recorded outcomes, newest first.
func (u *FeedbackUsecase) History(page, pageSize int) ([]model.AssignmentHistory, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return u.history.ListPage(page, pageSize)
}

// Retrain rebuilds the feature/label table from every history entry with a
// known outcome and atomically swaps the fitted model on success. The
// previous model stays in place on any failure.
func (u *FeedbackUsecase) Retrain() error {
	rows, err := u.history.LoadLabeled()
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	x := make([][]float64, 0, len(rows))
	y := make([]float64, 0, len(rows))
	for _, row := range rows {
		person := model.Person{Metadata: row.Metadata}
		features := scoring.Features{
			Age:             person.MetaFloat("age", 0),
			ExperienceYears: person.MetaFloat("experience_years", 0),
			Available:       person.Available(),
		}
		x = append(x, features.Vector(row.Role))

		label := 0.0
		if row.Resultado == model.ResultadoAceptada {
			label = 1.0
		}
		y = append(y, label)
	}

	fitted, err := scoring.Fit(x, y)
	if err != nil {
		return err
	}
	if err := u.models.Swap(fitted); err != nil {
		return fmt.Errorf("swap model: %w", err)
	}
	u.log.Info("model retrained", "samples", len(x))
	return nil
}
