package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/orquestadev/orquesta/internal/config"
	"github.com/orquestadev/orquesta/internal/dto"
	"github.com/orquestadev/orquesta/internal/response"
	"github.com/orquestadev/orquesta/internal/rotation"
	"github.com/orquestadev/orquesta/internal/scoring"
	"github.com/orquestadev/orquesta/internal/usecase"
	"github.com/orquestadev/orquesta/internal/util"
)

type AssignHandler struct {
	assignUC   *usecase.AssignUsecase
	meetingUC  *usecase.MeetingUsecase
	feedbackUC *usecase.FeedbackUsecase
	memory     *rotation.Memory
	models     *scoring.ModelStore
}

func NewAssignHandler(assignUC *usecase.AssignUsecase, meetingUC *usecase.MeetingUsecase, feedbackUC *usecase.FeedbackUsecase, memory *rotation.Memory, models *scoring.ModelStore) *AssignHandler {
	return &AssignHandler{
		assignUC:   assignUC,
		meetingUC:  meetingUC,
		feedbackUC: feedbackUC,
		memory:     memory,
		models:     models,
	}
}

// RegisterRoutes mounts the public endpoints and the token-protected v1
// business routes.
func (h *AssignHandler) RegisterRoutes(app *fiber.App, auth fiber.Handler) {
	app.Get("/", h.Root)

	v1 := app.Group("/v1")
	v1.Get("/config", h.Config)
	v1.Get("/status", h.Status)

	protected := v1.Group("", auth)
	protected.Post("/assign", h.Assign)
	protected.Post("/feedback", h.Feedback)
	protected.Post("/assign_meeting", h.AssignMeeting)
	protected.Post("/meeting_feedback", h.MeetingFeedback)
	protected.Get("/feedback/history", h.FeedbackHistory)
	protected.Get("/history", h.History)
}

func (h *AssignHandler) Assign(c *fiber.Ctx) error {
	var payload dto.AssignPayload
	if err := c.BodyParser(&payload); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid JSON body",
		}, err)
	}

	result, err := h.assignUC.AssignBest(&payload)
	if err != nil {
		return h.mapError(c, err, "failed to assign")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "assigned",
		Data:    result,
	})
}

func (h *AssignHandler) Feedback(c *fiber.Ctx) error {
	var payload dto.FeedbackPayload
	if err := c.BodyParser(&payload); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid JSON body",
		}, err)
	}

	result, err := h.feedbackUC.ApplyFeedback(&payload)
	if err != nil {
		return h.mapError(c, err, "failed to process feedback")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "feedback_processed",
		Data:    result,
	})
}

func (h *AssignHandler) AssignMeeting(c *fiber.Ctx) error {
	var payload dto.MeetingPayload
	if err := c.BodyParser(&payload); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid JSON body",
		}, err)
	}

	result, err := h.meetingUC.AssignMeeting(&payload)
	if err != nil {
		return h.mapError(c, err, "failed to assign meeting")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "meeting assigned",
		Data:    result,
	})
}

func (h *AssignHandler) MeetingFeedback(c *fiber.Ctx) error {
	var payload dto.MeetingFeedbackPayload
	if err := c.BodyParser(&payload); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid JSON body",
		}, err)
	}

	entry, err := h.meetingUC.ApplyMeetingFeedback(&payload)
	if err != nil {
		return h.mapError(c, err, "failed to store feedback")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "feedback stored",
		Data: fiber.Map{
			"total_feedbacks": h.memory.FeedbackCount(),
			"feedback":        entry,
		},
	})
}

func (h *AssignHandler) FeedbackHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	entries := h.memory.RecentFeedback(limit)
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "feedback history",
		Data: fiber.Map{
			"total":     h.memory.FeedbackHistorySize(),
			"showing":   len(entries),
			"feedbacks": entries,
		},
	})
}

func (h *AssignHandler) History(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	rows, total, err := h.feedbackUC.History(page, pageSize)
	if err != nil {
		return h.mapError(c, err, "failed to load history")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:       fiber.StatusOK,
		Message:    "assignment history",
		Data:       rows,
		Pagination: response.NewPagination(page, pageSize, total),
	})
}

func (h *AssignHandler) Status(c *fiber.Ctx) error {
	appCfg := config.LoadAppConfig()
	return c.JSON(dto.StatusResponse{
		Version:             appCfg.Version,
		State:               "running",
		PersonsRemembered:   h.memory.PersonsRemembered(),
		Feedbacks:           h.memory.FeedbackCount(),
		FeedbackHistorySize: h.memory.FeedbackHistorySize(),
		ModelLoaded:         h.models.Loaded(),
		Timestamp:           time.Now().Format(time.RFC3339),
	})
}

func (h *AssignHandler) Config(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": config.LoadAppConfig().Version,
		"status":  "active",
	})
}

func (h *AssignHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Orquesta API is running"})
}

func (h *AssignHandler) mapError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrNoCandidates):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: err.Error(),
		})
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: message,
		}, err)
	}
}
