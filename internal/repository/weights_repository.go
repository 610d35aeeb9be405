package repository

import (
	"errors"

	"github.com/orquestadev/orquesta/internal/model"
	"gorm.io/gorm"
)

type WeightsRepository struct {
	db *gorm.DB
}

func NewWeightsRepository(db *gorm.DB) *WeightsRepository {
	return &WeightsRepository{db}
}

// FindByName returns (nil, nil) when no bundle with that name exists.
func (r *WeightsRepository) FindByName(name string) (*model.ModelWeights, error) {
	var row model.ModelWeights
	err := r.db.First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *WeightsRepository) Save(row *model.ModelWeights) error {
	return r.db.Save(row).Error
}
