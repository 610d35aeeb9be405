package usecase

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orquestadev/orquesta/internal/dto"
	"github.com/orquestadev/orquesta/internal/logger"
	"github.com/orquestadev/orquesta/internal/model"
	"github.com/orquestadev/orquesta/internal/repository"
	"github.com/orquestadev/orquesta/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func testModelStore(t *testing.T) *scoring.ModelStore {
	t.Helper()
	store, err := scoring.NewModelStore(filepath.Join(t.TempDir(), "model.json"))
	require.NoError(t, err)
	return store
}

func TestApplyFeedbackValidation(t *testing.T) {
	uc := NewFeedbackUsecase(&fakeWeights{}, &fakeHistory{}, testModelStore(t), logger.NewNop())

	_, err := uc.ApplyFeedback(&dto.FeedbackPayload{Role: "lector", Result: "maybe"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = uc.ApplyFeedback(&dto.FeedbackPayload{Result: "aceptada"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplyFeedbackAcceptedRaisesRoleWeight(t *testing.T) {
	weights := &fakeWeights{}
	history := &fakeHistory{}
	uc := NewFeedbackUsecase(weights, history, testModelStore(t), logger.NewNop())

	got, err := uc.ApplyFeedback(&dto.FeedbackPayload{Role: "lector", PersonID: 3, Result: "aceptada"})
	require.NoError(t, err)

	assert.Equal(t, "weights_updated", got.Status)
	assert.InDelta(t, 1.05, got.Weights[scoring.SkillKey("lector")], 1e-9)
	// The base bundle is carried along, not replaced.
	assert.InDelta(t, 1.0, got.Weights[scoring.WBalance], 1e-9)

	require.NotNil(t, weights.row)
	assert.Equal(t, model.DefaultWeightsName, weights.row.Name)
	assert.InDelta(t, 1.05, weights.row.WeightMap()[scoring.SkillKey("lector")], 1e-9)

	require.Len(t, history.entries, 1)
	assert.Equal(t, "lector", history.entries[0].Role)
	assert.Equal(t, uint(3), history.entries[0].PersonID)
	assert.Equal(t, model.ResultadoAceptada, history.entries[0].Resultado)
}

func TestApplyFeedbackRepeatedCorrectionsAccumulate(t *testing.T) {
	weights := &fakeWeights{}
	uc := NewFeedbackUsecase(weights, &fakeHistory{}, testModelStore(t), logger.NewNop())
	payload := &dto.FeedbackPayload{Role: "lector", PersonID: 3, Result: "corrigida"}

	_, err := uc.ApplyFeedback(payload)
	require.NoError(t, err)
	got, err := uc.ApplyFeedback(payload)
	require.NoError(t, err)

	assert.InDelta(t, 0.90, got.Weights[scoring.SkillKey("lector")], 1e-9)
}

func TestApplyFeedbackAcceptThenCorrectRoundTrips(t *testing.T) {
	weights := &fakeWeights{}
	uc := NewFeedbackUsecase(weights, &fakeHistory{}, testModelStore(t), logger.NewNop())

	_, err := uc.ApplyFeedback(&dto.FeedbackPayload{Role: "lector", PersonID: 3, Result: "aceptada"})
	require.NoError(t, err)
	got, err := uc.ApplyFeedback(&dto.FeedbackPayload{Role: "lector", PersonID: 3, Result: "corrigida"})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, got.Weights[scoring.SkillKey("lector")], 1e-9)
}

func TestApplyFeedbackRetrainSkippedWithThinHistory(t *testing.T) {
	models := testModelStore(t)
	uc := NewFeedbackUsecase(&fakeWeights{}, &fakeHistory{}, models, logger.NewNop())

	got, err := uc.ApplyFeedback(&dto.FeedbackPayload{Role: "lector", PersonID: 3, Result: "aceptada"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.MLStatus, dto.RetrainSkipped))
	assert.False(t, models.Loaded())
}

func TestApplyFeedbackRetrainsWhenHistorySuffices(t *testing.T) {
	history := &fakeHistory{labeled: []repository.LabeledOutcome{
		{Role: "lector", Resultado: model.ResultadoAceptada,
			Metadata: datatypes.JSONMap{"age": 40.0, "experience_years": 10.0}},
		{Role: "lector", Resultado: model.ResultadoCorrigida,
			Metadata: datatypes.JSONMap{"age": 22.0, "experience_years": 1.0}},
	}}
	models := testModelStore(t)
	uc := NewFeedbackUsecase(&fakeWeights{}, history, models, logger.NewNop())

	got, err := uc.ApplyFeedback(&dto.FeedbackPayload{Role: "lector", PersonID: 3, Result: "aceptada"})
	require.NoError(t, err)
	assert.Equal(t, dto.RetrainDone, got.MLStatus)
	assert.True(t, models.Loaded())
}

func TestApplyFeedbackWeightsSaveFailureIsFatal(t *testing.T) {
	boom := errors.New("db down")
	history := &fakeHistory{}
	uc := NewFeedbackUsecase(&fakeWeights{saveErr: boom}, history, testModelStore(t), logger.NewNop())

	_, err := uc.ApplyFeedback(&dto.FeedbackPayload{Role: "lector", PersonID: 3, Result: "aceptada"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, history.entries)
}

func TestApplyFeedbackHistoryFailureIsFatal(t *testing.T) {
	boom := errors.New("db down")
	uc := NewFeedbackUsecase(&fakeWeights{}, &fakeHistory{appendErr: boom}, testModelStore(t), logger.NewNop())

	_, err := uc.ApplyFeedback(&dto.FeedbackPayload{Role: "lector", PersonID: 3, Result: "aceptada"})
	assert.ErrorIs(t, err, boom)
}

func TestHistoryPaging(t *testing.T) {
	history := &fakeHistory{}
	for i := 0; i < 5; i++ {
		history.entries = append(history.entries, &model.AssignmentHistory{Role: "lector"})
	}
	uc := NewFeedbackUsecase(&fakeWeights{}, history, testModelStore(t), logger.NewNop())

	rows, total, err := uc.History(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, rows, 2)

	rows, _, err = uc.History(3, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// Out-of-range arguments are normalized instead of failing.
	rows, total, err = uc.History(0, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, rows, 5)
}

func TestRetrainKeepsOldModelOnFailure(t *testing.T) {
	models := testModelStore(t)
	seeded := &scoring.LinearModel{Intercept: 0.5, Coef: []float64{0, 0, 0, 0}}
	require.NoError(t, models.Swap(seeded))

	uc := NewFeedbackUsecase(&fakeWeights{}, &fakeHistory{loadErr: errors.New("db down")}, models, logger.NewNop())
	require.Error(t, uc.Retrain())

	got, err := models.Predict(scoring.Features{}, "lector")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9)
}
