package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/report"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// CSVHandler importación y exportación de CSV.
type CSVHandler struct {
	imports  *inventory.ImportUseCase
	exports  *report.ExportUseCase
	activity *usecase.ActivityUseCase
	log      zerolog.Logger
}

// NewCSVHandler construye el handler.
func NewCSVHandler(imports *inventory.ImportUseCase, exports *report.ExportUseCase, activity *usecase.ActivityUseCase, log zerolog.Logger) *CSVHandler {
	return &CSVHandler{imports: imports, exports: exports, activity: activity, log: log}
}

// Import godoc
// @Summary      Importar CSV
// @Description  shipment recibe cantidades, reconcile ajusta al conteo, catalog solo crea productos.
// @Tags         csv
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true   "archivo CSV"
// @Param        type     formData  string  false  "shipment | reconcile | catalog"
// @Param        charset  formData  string  false  "utf-8 | windows-1252 | iso-8859-1"
// @Success      200  {object}  dto.ImportResponse
// @Failure      400  {object}  dto.MovementError
// @Router       /import/csv [post]
func (h *CSVHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MovementError{Error: "No file uploaded"})
	}
	f, err := fh.Open()
	if err != nil {
		return respondMovementError(c, h.log, fmt.Errorf("abrir archivo subido: %w", err))
	}
	defer f.Close()

	user := performer(c, c.FormValue("user"))
	in := inventory.ImportInput{
		Type:        c.FormValue("type"),
		Charset:     c.FormValue("charset"),
		Source:      f,
		PerformedBy: user,
		Reference:   "CSV " + fh.Filename,
	}
	res, err := h.imports.Import(c.UserContext(), in)
	if err != nil {
		return respondMovementError(c, h.log, err)
	}

	h.activity.Record(c.UserContext(), usecase.Actor{Name: user, Role: GetRole(c)}, entity.ActionImportCSV, fiber.Map{
		"type":     in.Type,
		"filename": fh.Filename,
		"imported": res.Imported,
	})
	return c.JSON(dto.ImportResponse{OK: true, Imported: res.Imported, Message: res.Message})
}

// Export godoc
// @Summary      Exportar CSV
// @Tags         csv
// @Security     Bearer
// @Produce      text/csv
// @Param        mode  query  string  false  "snapshot | locations | products"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /export/csv [get]
func (h *CSVHandler) Export(c *fiber.Ctx) error {
	file, err := h.exports.Export(c.UserContext(), c.Query("mode"))
	if err != nil {
		return respondError(c, h.log, err, nil)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment(file.Filename)
	return c.Send(file.Data)
}
