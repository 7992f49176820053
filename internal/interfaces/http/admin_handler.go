package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/report"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// AdminHandler auditoría, reportes y conciliación (Manager/Admin).
type AdminHandler struct {
	activity  *usecase.ActivityUseCase
	digest    *report.DigestUseCase
	reconcile *inventory.ReconcileUseCase
	log       zerolog.Logger
}

// NewAdminHandler construye el handler.
func NewAdminHandler(activity *usecase.ActivityUseCase, digest *report.DigestUseCase, reconcile *inventory.ReconcileUseCase, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{activity: activity, digest: digest, reconcile: reconcile, log: log}
}

// Logs godoc
// @Summary      Log de actividad
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 500, por defecto 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}   dto.ActivityLogResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /admin/logs [get]
func (h *AdminHandler) Logs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Invalid pagination"})
	}
	out, err := h.activity.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, h.log, err, nil)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Description  Filas con qty por debajo del min_qty del producto (o del umbral global).
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.LowStockResponse
// @Router       /admin/low-stock [get]
func (h *AdminHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.digest.LowStock(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, nil)
	}
	return c.JSON(out)
}

// SendDigest godoc
// @Summary      Enviar el resumen diario ahora
// @Description  Un fallo de SMTP responde 200 con success=false.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DigestResponse
// @Router       /admin/send-digest [post]
func (h *AdminHandler) SendDigest(c *fiber.Ctx) error {
	out, err := h.digest.Send(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, nil)
	}
	h.activity.Record(c.UserContext(), actor(c), entity.ActionSendDigest, out)
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar ledger contra stock
// @Description  Reproduce el ledger completo y lista los pares producto/bin que no coinciden.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /admin/reconcile [get]
func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	mismatches, err := h.reconcile.Mismatches(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, nil)
	}
	out := dto.ReconcileResponse{
		Consistent: len(mismatches) == 0,
		Mismatches: make([]dto.MismatchResponse, 0, len(mismatches)),
	}
	for _, m := range mismatches {
		out.Mismatches = append(out.Mismatches, dto.MismatchResponse{
			ProductID: m.ProductID,
			BinID:     m.BinID,
			LedgerQty: m.LedgerQty,
			StockQty:  m.StockQty,
		})
	}
	return c.JSON(out)
}
