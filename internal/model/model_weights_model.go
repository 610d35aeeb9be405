package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// DefaultWeightsName is the bundle read when a request does not supply an
// explicit override.
const DefaultWeightsName = "default"

type ModelWeights struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex" json:"name"`
	Weights   datatypes.JSON `json:"weights"` // { "w_balance": 1.0, "w_skill::lector": 1.05, ... }
	UpdatedAt time.Time      `gorm:"type:date" json:"updated_at"`
}

func (m *ModelWeights) TableName() string {
	return "model_weights"
}

// WeightMap decodes the stored JSON bundle. A missing or malformed column
// yields an empty map so callers fall through to hard-coded defaults.
func (m *ModelWeights) WeightMap() map[string]float64 {
	out := map[string]float64{}
	if len(m.Weights) == 0 {
		return out
	}
	if err := json.Unmarshal(m.Weights, &out); err != nil {
		return map[string]float64{}
	}
	return out
}

func (m *ModelWeights) SetWeightMap(w map[string]float64) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return err
	}
	m.Weights = datatypes.JSON(raw)
	return nil
}
