package model

import (
	"time"

	"github.com/google/uuid"
)

type ApiKey struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Key       string     `gorm:"uniqueIndex" json:"-"`
	Owner     string     `json:"owner"` // user or service name (e.g. "App Movil", "Admin")
	Purpose   string     `json:"purpose"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time  `gorm:"type:date" json:"created_at"`
	ExpiresAt *time.Time `gorm:"type:date" json:"expires_at"`
	LastUsed  *time.Time `json:"last_used"`
}

func (k *ApiKey) TableName() string {
	return "api_keys"
}

// Expired reports whether the key has an expiry in the past.
func (k *ApiKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}
