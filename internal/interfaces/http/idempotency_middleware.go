package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// Cabeceras de idempotencia.
const (
	HeaderIdempotencyKey  = "Idempotency-Key"
	HeaderXIdempotencyKey = "X-Idempotency-Key"
	HeaderReplayed        = "Idempotent-Replayed"
)

// IdempotencyMiddleware reproduce la respuesta guardada cuando la clave ya se vio y
// registra la respuesta 2xx de la primera ejecución. Sin cabecera la petición pasa sin guard.
func IdempotencyMiddleware(guard *idempotency.Guard, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" {
			key = c.Get(HeaderXIdempotencyKey)
		}
		if key == "" {
			return c.Next()
		}
		if err := idempotency.ValidateKey(key); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.MovementError{Error: err.Error()})
		}

		ctx := c.UserContext()
		rec, err := guard.Lookup(ctx, key)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("consulta de idempotencia falló, se continúa sin guard")
			return c.Next()
		}
		if rec != nil {
			return replay(c, rec)
		}

		if !guard.Acquire(key) {
			return c.Status(fiber.StatusConflict).JSON(dto.MovementError{Error: idempotency.ErrInFlight.Error()})
		}
		defer guard.Release(key)

		// Otro request con la misma clave pudo terminar entre Lookup y Acquire.
		if rec, err := guard.Lookup(ctx, key); err == nil && rec != nil {
			return replay(c, rec)
		}

		if err := c.Next(); err != nil {
			return err
		}
		guard.Remember(ctx, key, c.Response().StatusCode(), c.Response().Body())
		return nil
	}
}

func replay(c *fiber.Ctx, rec *entity.IdempotencyRecord) error {
	c.Set(HeaderReplayed, "true")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(rec.StatusCode).Send(rec.Body)
}
