package repository

import (
	"github.com/orquestadev/orquesta/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db}
}

func (r *HistoryRepository) Append(entry *model.AssignmentHistory) error {
	return r.db.Create(entry).Error
}

// LabeledOutcome joins a history row with the person's metadata so the
// retrain step can rebuild the original feature vector.
type LabeledOutcome struct {
	Role      string            `gorm:"column:role"`
	Resultado string            `gorm:"column:resultado"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata"`
}

// ListPage returns one page of history entries, newest first, plus the
// total row count.
func (r *HistoryRepository) ListPage(page, pageSize int) ([]model.AssignmentHistory, int64, error) {
	var total int64
	if err := r.db.Model(&model.AssignmentHistory{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.AssignmentHistory
	err := r.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

// LoadLabeled returns all history entries with a known outcome, joined
// with their person.
func (r *HistoryRepository) LoadLabeled() ([]LabeledOutcome, error) {
	var rows []LabeledOutcome
	err := r.db.Model(&model.AssignmentHistory{}).
		Select("assignment_history.role, assignment_history.resultado, persons.metadata").
		Joins("JOIN persons ON persons.id = assignment_history.person_id").
		Where("assignment_history.resultado IN ?", []string{model.ResultadoAceptada, model.ResultadoCorrigida}).
		Scan(&rows).Error
	return rows, err
}
