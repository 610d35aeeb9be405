package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/orquestadev/orquesta/internal/logger"
	"github.com/orquestadev/orquesta/internal/repository"
	"github.com/orquestadev/orquesta/internal/util"
)

// TokenAuth checks the bearer token against the api_keys table. Expired or
// inactive keys are rejected; last_used is updated best-effort.
func TokenAuth(keys *repository.ApiKeyRepository, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "Missing or invalid Authorization header",
			})
		}

		key, err := keys.FindActive(token)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Message: "could not verify token",
			}, err)
		}
		if key == nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusForbidden,
				Message: "Invalid or inactive token",
			})
		}
		now := time.Now()
		if key.Expired(now) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusForbidden,
				Message: "Token expired",
			})
		}

		if err := keys.TouchLastUsed(key.ID, now); err != nil {
			log.Warn("could not update key last_used", "owner", key.Owner, "error", err)
		}

		c.Locals("api_key_owner", key.Owner)
		return c.Next()
	}
}

// AdminAuth compares the bearer token against the configured admin token.
func AdminAuth(adminToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "Missing or invalid Authorization header",
			})
		}
		if token != adminToken {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusForbidden,
				Message: "Admin privileges required",
			})
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	auth := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	return token, token != ""
}
