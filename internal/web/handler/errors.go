package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/restopos/restopos/internal/apperror"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Kind    string                `json:"kind"`
	Fields  []apperror.FieldError `json:"fields,omitempty"`
}

// StatusOf returns the HTTP status for an error kind.
func StatusOf(kind string) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindAuthentication:
		return fiber.StatusUnauthorized
	case apperror.KindAccountLocked:
		return fiber.StatusLocked
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindDomain:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders err as an ErrorResponse. Internal errors are logged and
// their message is not sent to the client.
func ErrorHandler(c fiber.Ctx, err error) error {
	resp := ErrorResponse{Kind: apperror.KindOf(err), Message: err.Error()}
	status := StatusOf(resp.Kind)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		resp.Message = fe.Message

		if status == fiber.StatusNotFound {
			resp.Kind = apperror.KindNotFound
		}
	}

	var ve *apperror.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")

		resp.Message = "internal server error"
	}

	return c.Status(status).JSON(resp)
}
