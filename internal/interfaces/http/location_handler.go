package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// LocationHandler maneja ubicaciones y bins.
type LocationHandler struct {
	uc       *usecase.LocationUseCase
	activity *usecase.ActivityUseCase
	log      zerolog.Logger
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *usecase.LocationUseCase, activity *usecase.ActivityUseCase, log zerolog.Logger) *LocationHandler {
	return &LocationHandler{uc: uc, activity: activity, log: log}
}

var (
	locationMessages = messages{
		domain.ErrNotFound:  "Location not found",
		domain.ErrDuplicate: "Location name already exists",
		domain.ErrConflict:  "Cannot delete location while bins hold stock",
	}
	binMessages = messages{
		domain.ErrNotFound:  "Bin not found",
		domain.ErrDuplicate: "Bin code already exists in this location",
		domain.ErrConflict:  "Cannot delete bin while it holds stock",
	}
)

// List godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Produce      json
// @Success      200  {array}   dto.LocationResponse
// @Router       /locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, locationMessages)
	}
	return c.JSON(out)
}

// ListBins godoc
// @Summary      Bins de una ubicación
// @Tags         locations
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación (UUID)"
// @Success      200  {array}   dto.BinResponse
// @Router       /locations/{id}/bins [get]
func (h *LocationHandler) ListBins(c *fiber.Ctx) error {
	out, err := h.uc.ListBins(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, locationMessages)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear ubicación
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "name"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /admin/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err, locationMessages)
	}
	h.activity.Record(c.UserContext(), actor(c), entity.ActionCreateLocation, fiber.Map{"id": out.ID, "name": out.Name})
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Eliminar ubicación
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación (UUID)"
// @Success      200  {object}  dto.OKResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /admin/locations/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err, locationMessages)
	}
	h.activity.Record(c.UserContext(), actor(c), entity.ActionDeleteLocation, fiber.Map{"id": id})
	return c.JSON(dto.OKResponse{OK: true, Message: "Location deleted"})
}

// CreateBin godoc
// @Summary      Crear bin
// @Description  El código se guarda en mayúsculas; único por ubicación.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBinRequest  true  "locationId, code"
// @Success      201   {object}  dto.BinResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /admin/bins [post]
func (h *LocationHandler) CreateBin(c *fiber.Ctx) error {
	var in dto.CreateBinRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateBin(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err, binMessages)
	}
	h.activity.Record(c.UserContext(), actor(c), entity.ActionCreateBin, fiber.Map{"id": out.ID, "locationId": out.LocationID, "code": out.Code})
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteBin godoc
// @Summary      Eliminar bin
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del bin (UUID)"
// @Success      200  {object}  dto.OKResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /admin/bins/{id} [delete]
func (h *LocationHandler) DeleteBin(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.DeleteBin(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err, binMessages)
	}
	h.activity.Record(c.UserContext(), actor(c), entity.ActionDeleteBin, fiber.Map{"id": id})
	return c.JSON(dto.OKResponse{OK: true, Message: "Bin deleted"})
}
