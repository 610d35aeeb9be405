package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/orquestadev/orquesta/internal/model"
	"gorm.io/gorm"
)

type TokenRequestRepository struct {
	db *gorm.DB
}

func NewTokenRequestRepository(db *gorm.DB) *TokenRequestRepository {
	return &TokenRequestRepository{db}
}

func (r *TokenRequestRepository) Create(req *model.TokenRequest) error {
	return r.db.Create(req).Error
}

// FindPendingByEmail returns (nil, nil) when the email has no pending
// request.
func (r *TokenRequestRepository) FindPendingByEmail(email string) (*model.TokenRequest, error) {
	var row model.TokenRequest
	err := r.db.First(&row, "email = ? AND status = ?", email, model.TokenRequestPending).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *TokenRequestRepository) FindByID(id uuid.UUID) (*model.TokenRequest, error) {
	var row model.TokenRequest
	err := r.db.First(&row, "id = ?", id).Error
	return &row, err
}

func (r *TokenRequestRepository) ListByStatus(status string) ([]model.TokenRequest, error) {
	var rows []model.TokenRequest
	q := r.db.Order("requested_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *TokenRequestRepository) Update(req *model.TokenRequest) error {
	return r.db.Save(req).Error
}
