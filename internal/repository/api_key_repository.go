package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orquestadev/orquesta/internal/model"
	"gorm.io/gorm"
)

type ApiKeyRepository struct {
	db *gorm.DB
}

func NewApiKeyRepository(db *gorm.DB) *ApiKeyRepository {
	return &ApiKeyRepository{db}
}

func (r *ApiKeyRepository) Create(key *model.ApiKey) error {
	return r.db.Create(key).Error
}

// FindActive returns (nil, nil) when the key is unknown or inactive.
func (r *ApiKeyRepository) FindActive(key string) (*model.ApiKey, error) {
	var row model.ApiKey
	err := r.db.First(&row, "key = ? AND is_active = ?", key, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ApiKeyRepository) List(onlyActive bool) ([]model.ApiKey, error) {
	var keys []model.ApiKey
	q := r.db.Order("created_at DESC")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&keys).Error
	return keys, err
}

func (r *ApiKeyRepository) Revoke(id uuid.UUID) error {
	res := r.db.Model(&model.ApiKey{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchLastUsed is best-effort; auth does not fail when it errors.
func (r *ApiKeyRepository) TouchLastUsed(id uuid.UUID, at time.Time) error {
	return r.db.Model(&model.ApiKey{}).Where("id = ?", id).Update("last_used", at).Error
}
