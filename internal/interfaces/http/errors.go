package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// MessageInternal mensaje genérico de los 500; el detalle solo va al log.
const MessageInternal = "Internal server error"

// messages mensajes por error de dominio para un endpoint concreto.
type messages map[error]string

// classify traduce un error de dominio a status HTTP, código y mensaje por defecto.
func classify(err error) (int, string, string) {
	var valErr *domain.ValidationError
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &valErr):
		return fiber.StatusBadRequest, "VALIDATION", valErr.Message
	case errors.As(err, &stockErr):
		return fiber.StatusBadRequest, "INSUFFICIENT_STOCK", stockErr.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", "Invalid input"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "Not found"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS", "Email exists already"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE", "Already exists"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT", "Conflict with current state"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "Wrong credentials"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "Forbidden"
	}
	return fiber.StatusInternalServerError, "INTERNAL", MessageInternal
}

func resolve(log zerolog.Logger, c *fiber.Ctx, err error, msgs messages) (int, string, string) {
	status, code, msg := classify(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return status, code, msg
	}
	for target, m := range msgs {
		if errors.Is(err, target) {
			msg = m
			break
		}
	}
	return status, code, msg
}

// respondError responde con dto.ErrorResponse{code, message}.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error, msgs messages) error {
	status, code, msg := resolve(log, c, err, msgs)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// respondMovementError responde con {error: message} (endpoints de movimientos e importación).
func respondMovementError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, _, msg := resolve(log, c, err, nil)
	return c.Status(status).JSON(dto.MovementError{Error: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "Invalid request body"})
}

// ErrorHandler respuesta de Fiber para errores no manejados por los handlers
// (rutas inexistentes, cuerpos demasiado grandes, panics recuperados).
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no manejado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: MessageInternal})
	}
}
