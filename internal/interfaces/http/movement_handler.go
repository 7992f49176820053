package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// MovementHandler maneja recepciones, despachos y transferencias (protegido).
type MovementHandler struct {
	movements *inventory.MovementService
	activity  *usecase.ActivityUseCase
	log       zerolog.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(movements *inventory.MovementService, activity *usecase.ActivityUseCase, log zerolog.Logger) *MovementHandler {
	return &MovementHandler{movements: movements, activity: activity, log: log}
}

// Receive godoc
// @Summary      Recibir stock en un bin
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               false  "10-255 caracteres"
// @Param        body             body    dto.MovementRequest  true   "productId, binId, qty, reference, user"
// @Success      200  {object}  inventory.Result
// @Failure      400  {object}  dto.MovementError
// @Failure      409  {object}  dto.MovementError
// @Router       /transactions/receive [post]
func (h *MovementHandler) Receive(c *fiber.Ctx) error {
	return h.handle(c, entity.ActionReceive, func(in inventory.MovementInput) inventory.Command {
		return inventory.NewReceiveCommand(in)
	})
}

// Ship godoc
// @Summary      Despachar stock desde un bin
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               false  "10-255 caracteres"
// @Param        body             body    dto.MovementRequest  true   "productId, binId, qty, reference, user"
// @Success      200  {object}  inventory.Result
// @Failure      400  {object}  dto.MovementError  "validación o stock insuficiente"
// @Failure      409  {object}  dto.MovementError
// @Router       /transactions/ship [post]
func (h *MovementHandler) Ship(c *fiber.Ctx) error {
	return h.handle(c, entity.ActionShip, func(in inventory.MovementInput) inventory.Command {
		return inventory.NewShipCommand(in)
	})
}

// Transfer godoc
// @Summary      Transferir stock entre bins
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               false  "10-255 caracteres"
// @Param        body             body    dto.MovementRequest  true   "productId, fromBinId, toBinId, qty, reference, user"
// @Success      200  {object}  inventory.Result
// @Failure      400  {object}  dto.MovementError
// @Failure      409  {object}  dto.MovementError
// @Router       /transactions/transfer [post]
func (h *MovementHandler) Transfer(c *fiber.Ctx) error {
	return h.handle(c, entity.ActionTransfer, func(in inventory.MovementInput) inventory.Command {
		return inventory.NewTransferCommand(in)
	})
}

func (h *MovementHandler) handle(c *fiber.Ctx, action string, build func(inventory.MovementInput) inventory.Command) error {
	var req dto.MovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MovementError{Error: "Invalid request body"})
	}
	in := inventory.MovementInput{
		ProductID: strings.TrimSpace(req.ProductID),
		BinID:     strings.TrimSpace(req.BinID),
		FromBinID: strings.TrimSpace(req.FromBinID),
		ToBinID:   strings.TrimSpace(req.ToBinID),
		Qty:       req.Qty,
		Reference: strings.TrimSpace(req.Reference),
		User:      performer(c, req.User),
	}

	res, err := h.movements.Run(c.UserContext(), build(in))
	if err != nil {
		return respondMovementError(c, h.log, err)
	}

	h.activity.Record(c.UserContext(), usecase.Actor{Name: in.User, Role: GetRole(c)}, action, movementDetails(action, in))
	return c.JSON(res)
}

// performer nombre que queda en el ledger: body, luego el token, luego "api".
func performer(c *fiber.Ctx, fromBody string) string {
	if u := strings.TrimSpace(fromBody); u != "" {
		return u
	}
	if name := GetName(c); name != "" {
		return name
	}
	return entity.DefaultPerformer
}

func movementDetails(action string, in inventory.MovementInput) fiber.Map {
	d := fiber.Map{
		"productId": in.ProductID,
		"qty":       in.Qty,
		"reference": in.Reference,
	}
	if action == entity.ActionTransfer {
		d["fromBinId"] = in.FromBinID
		d["toBinId"] = in.ToBinID
	} else {
		d["binId"] = in.BinID
	}
	return d
}
