package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/orquestadev/orquesta/internal/dto"
	"github.com/orquestadev/orquesta/internal/usecase"
	"github.com/orquestadev/orquesta/internal/util"
)

type TokenHandler struct {
	uc *usecase.TokenUsecase
}

func NewTokenHandler(uc *usecase.TokenUsecase) *TokenHandler {
	return &TokenHandler{uc: uc}
}

// RegisterRoutes mounts the token workflow: requesting is public, review
// and key management require the admin token.
func (h *TokenHandler) RegisterRoutes(app *fiber.App, admin fiber.Handler) {
	tokens := app.Group("/v1/tokens")
	tokens.Post("/request", h.Request)

	tokens.Get("/requests", admin, h.ListRequests)
	tokens.Post("/approve", admin, h.Review)
	tokens.Get("/list", admin, h.ListKeys)
	tokens.Post("/revoke/:id", admin, h.Revoke)
}

func (h *TokenHandler) Request(c *fiber.Ctx) error {
	var payload dto.TokenRequestCreate
	if err := c.BodyParser(&payload); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid JSON body",
		}, err)
	}

	req, err := h.uc.RequestToken(&payload)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: err.Error(),
			})
		case errors.Is(err, usecase.ErrDuplicatePending):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusConflict,
				Message: "You already have a pending request. Please wait for the administrator's review.",
			})
		default:
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Message: "failed to create token request",
			}, err)
		}
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "token request created",
		Data:    req,
	})
}

func (h *TokenHandler) ListRequests(c *fiber.Ctx) error {
	status := c.Query("status", "pending")
	requests, err := h.uc.ListRequests(status)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list token requests",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "token requests",
		Data:    requests,
	})
}

func (h *TokenHandler) Review(c *fiber.Ctx) error {
	var payload dto.TokenApproval
	if err := c.BodyParser(&payload); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid JSON body",
		}, err)
	}

	minted, err := h.uc.Review(&payload)
	if err != nil {
		if errors.Is(err, usecase.ErrAlreadyReviewed) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusConflict,
				Message: err.Error(),
			})
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to review token request",
		}, err)
	}

	if minted == nil {
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Code:    fiber.StatusOK,
			Message: "token request rejected",
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "token request approved",
		Data:    minted,
	})
}

func (h *TokenHandler) ListKeys(c *fiber.Ctx) error {
	onlyActive := c.QueryBool("active", false)
	keys, err := h.uc.ListKeys(onlyActive)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list keys",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "api keys",
		Data:    keys,
	})
}

func (h *TokenHandler) Revoke(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid key id",
		}, err)
	}
	if err := h.uc.Revoke(id); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to revoke key",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "key revoked",
	})
}
