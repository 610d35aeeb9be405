package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TokenRequestPending  = "pending"
	TokenRequestApproved = "approved"
	TokenRequestRejected = "rejected"
)

type TokenRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Owner       string     `json:"owner"`
	Email       string     `gorm:"index" json:"email"`
	Purpose     string     `json:"purpose"`
	Status      string     `gorm:"type:varchar(20);default:pending" json:"status"`
	Notes       string     `json:"notes"`
	RequestedAt time.Time  `json:"requested_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
}

func (t *TokenRequest) TableName() string {
	return "token_requests"
}
