package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/middleware"
	"github.com/Lagare24/cris-bel-water/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

var errInvalidBody = errors.New("invalid request body")

// writeError renders an error using the shared shapes:
// 400 {message, errors?}, 404 {message}, 409 {message, ...details}, 500 {message, error}.
func writeError(c *fiber.Ctx, err error, fallback string) error {
	appErr := service.AsAppError(err, fallback)
	body := fiber.Map{"message": appErr.Message}
	for k, v := range appErr.Details {
		body[k] = v
	}

	status := fiber.StatusInternalServerError
	switch appErr.Kind {
	case service.KindValidation:
		status = fiber.StatusBadRequest
		if len(appErr.Errors) > 0 {
			body["errors"] = appErr.Errors
		}
	case service.KindNotFound:
		status = fiber.StatusNotFound
	case service.KindConflict:
		status = fiber.StatusConflict
	default:
		detail := "internal error"
		if appErr.Err != nil {
			detail = appErr.Err.Error()
		}
		body["error"] = detail
		log.Error().
			Err(appErr.Err).
			Str("request_id", middleware.RequestID(c)).
			Str("path", c.Path()).
			Msg(appErr.Message)
	}

	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": message})
}

// parseBody decodes a JSON body; an empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return nil
}

// parseID reads a positive numeric path parameter.
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseDate accepts YYYY-MM-DD or an RFC3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func optionalDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalUint(c *fiber.Ctx, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	id := uint(v)
	return &id, nil
}

func includeInactive(c *fiber.Ctx) bool {
	v, err := strconv.ParseBool(c.Query("includeInactive", "false"))
	return err == nil && v
}
