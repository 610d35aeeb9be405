package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orquestadev/orquesta/internal/dto"
	"github.com/orquestadev/orquesta/internal/model"
	"github.com/orquestadev/orquesta/internal/util"
)

var (
	// ErrDuplicatePending: one pending request per email at a time.
	ErrDuplicatePending = errors.New("a pending token request already exists for this email")
	// ErrAlreadyReviewed: requests are reviewed exactly once.
	ErrAlreadyReviewed = errors.New("token request was already reviewed")
)

type TokenRequestStore interface {
	Create(req *model.TokenRequest) error
	FindPendingByEmail(email string) (*model.TokenRequest, error)
	FindByID(id uuid.UUID) (*model.TokenRequest, error)
	ListByStatus(status string) ([]model.TokenRequest, error)
	Update(req *model.TokenRequest) error
}

type ApiKeyStore interface {
	Create(key *model.ApiKey) error
	List(onlyActive bool) ([]model.ApiKey, error)
	Revoke(id uuid.UUID) error
}

// TokenUsecase implements the request/approve/revoke workflow for API
// keys. Anyone may request; only an admin approves.
type TokenUsecase struct {
	requests          TokenRequestStore
	keys              ApiKeyStore
	defaultExpiryDays int
	now               func() time.Time
}

func NewTokenUsecase(requests TokenRequestStore, keys ApiKeyStore, defaultExpiryDays int) *TokenUsecase {
	return &TokenUsecase{
		requests:          requests,
		keys:              keys,
		defaultExpiryDays: defaultExpiryDays,
		now:               time.Now,
	}
}

func (u *TokenUsecase) RequestToken(payload *dto.TokenRequestCreate) (*model.TokenRequest, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	existing, err := u.requests.FindPendingByEmail(payload.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicatePending
	}

	req := &model.TokenRequest{
		ID:          uuid.New(),
		Owner:       payload.Owner,
		Email:       payload.Email,
		Purpose:     payload.Purpose,
		Status:      model.TokenRequestPending,
		RequestedAt: u.now(),
	}
	if err := u.requests.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (u *TokenUsecase) ListRequests(status string) ([]model.TokenRequest, error) {
	return u.requests.ListByStatus(status)
}

// Review approves or rejects a pending request. On approval a key is
// minted and returned exactly once; it is never readable again.
func (u *TokenUsecase) Review(payload *dto.TokenApproval) (*dto.MintedToken, error) {
	req, err := u.requests.FindByID(payload.RequestID)
	if err != nil {
		return nil, err
	}
	if req.Status != model.TokenRequestPending {
		return nil, ErrAlreadyReviewed
	}

	now := u.now()
	req.Notes = payload.Notes
	req.ReviewedAt = &now

	if !payload.Approved {
		req.Status = model.TokenRequestRejected
		return nil, u.requests.Update(req)
	}

	token, err := util.GenerateToken()
	if err != nil {
		return nil, err
	}
	expiryDays := u.defaultExpiryDays
	if payload.ExpiresDays != nil {
		expiryDays = *payload.ExpiresDays
	}
	expiresAt := now.AddDate(0, 0, expiryDays)

	key := &model.ApiKey{
		ID:        uuid.New(),
		Key:       token,
		Owner:     req.Owner,
		Purpose:   req.Purpose,
		IsActive:  true,
		CreatedAt: now,
		ExpiresAt: &expiresAt,
	}
	if err := u.keys.Create(key); err != nil {
		return nil, err
	}

	req.Status = model.TokenRequestApproved
	if err := u.requests.Update(req); err != nil {
		return nil, err
	}

	return &dto.MintedToken{
		Owner:     req.Owner,
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02"),
	}, nil
}

func (u *TokenUsecase) ListKeys(onlyActive bool) ([]model.ApiKey, error) {
	return u.keys.List(onlyActive)
}

func (u *TokenUsecase) Revoke(id uuid.UUID) error {
	return u.keys.Revoke(id)
}
