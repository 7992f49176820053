package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockHandler consulta y limpieza de niveles de stock.
type StockHandler struct {
	uc       *usecase.StockUseCase
	activity *usecase.ActivityUseCase
	log      zerolog.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase, activity *usecase.ActivityUseCase, log zerolog.Logger) *StockHandler {
	return &StockHandler{uc: uc, activity: activity, log: log}
}

var stockMessages = messages{
	domain.ErrNotFound: "Stock not found",
}

// List godoc
// @Summary      Niveles de stock
// @Tags         stock
// @Produce      json
// @Success      200  {array}   dto.StockResponse
// @Router       /stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, stockMessages)
	}
	return c.JSON(out)
}

// Check godoc
// @Summary      Cantidad disponible en un bin
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Param        binId      path  string  true  "ID del bin"
// @Success      200  {object}  dto.StockCheckResponse
// @Router       /stock/check/{productId}/{binId} [get]
func (h *StockHandler) Check(c *fiber.Ctx) error {
	out, err := h.uc.Check(c.UserContext(), c.Params("productId"), c.Params("binId"))
	if err != nil {
		return respondError(c, h.log, err, stockMessages)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar fila de stock
// @Description  Limpieza administrativa; no genera asiento en el ledger.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Param        binId      path  string  true  "ID del bin"
// @Success      200  {object}  dto.OKResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /admin/stock/{productId}/{binId} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), c.Params("productId"), c.Params("binId"))
	if err != nil {
		return respondError(c, h.log, err, stockMessages)
	}
	h.activity.Record(c.UserContext(), actor(c), entity.ActionDeleteStock, fiber.Map{
		"productId": out.ProductID,
		"sku":       out.SKU,
		"binId":     out.BinID,
		"binCode":   out.BinCode,
		"qty":       out.Qty,
	})
	return c.JSON(dto.OKResponse{OK: true, Message: "Stock entry deleted"})
}
