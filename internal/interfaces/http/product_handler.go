package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	uc       *usecase.ProductUseCase
	activity *usecase.ActivityUseCase
	log      zerolog.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, activity *usecase.ActivityUseCase, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, activity: activity, log: log}
}

var productMessages = messages{
	domain.ErrNotFound:  "Product not found",
	domain.ErrDuplicate: "SKU already exists",
	domain.ErrConflict:  "Cannot delete product with stock on hand",
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Success      200  {array}   dto.ProductResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, productMessages)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Description  Sin sku se genera SKU-###. unit por defecto each, min_qty 10.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err, productMessages)
	}
	h.activity.Record(c.UserContext(), actor(c), entity.ActionCreateProduct, fiber.Map{"id": out.ID, "sku": out.SKU, "name": out.Name})
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (parcial)
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto (UUID)"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /admin/products/{id} [patch]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err, productMessages)
	}
	h.activity.Record(c.UserContext(), actor(c), entity.ActionUpdateProduct, fiber.Map{"id": out.ID, "changes": in})
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Rechazado con 409 mientras haya stock o historial.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto (UUID)"
// @Success      200  {object}  dto.OKResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, productMessages)
	}
	h.activity.Record(c.UserContext(), actor(c), entity.ActionDeleteProduct, fiber.Map{"id": out.ID, "sku": out.SKU, "name": out.Name})
	return c.JSON(dto.OKResponse{OK: true, Message: "Product deleted"})
}

// Transactions godoc
// @Summary      Historial de movimientos del producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto (UUID)"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /products/{id}/transactions [get]
func (h *ProductHandler) Transactions(c *fiber.Ctx) error {
	out, err := h.uc.Transactions(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, productMessages)
	}
	return c.JSON(out)
}
