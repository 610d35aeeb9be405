package dto

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type TokenRequestCreate struct {
	Owner   string `json:"owner"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

func (r *TokenRequestCreate) Validate() error {
	if r.Owner == "" {
		return errors.New("owner is required")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if r.Purpose == "" {
		return errors.New("purpose is required")
	}
	return nil
}

type TokenApproval struct {
	RequestID uuid.UUID `json:"request_id"`
	Approved  bool      `json:"approved"`
	Notes     string    `json:"notes"`
	// ExpiresDays overrides DEFAULT_TOKEN_EXPIRY_DAYS when set.
	ExpiresDays *int `json:"expires_days"`
}

// MintedToken is returned exactly once, on approval.
type MintedToken struct {
	Owner     string `json:"owner"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}
