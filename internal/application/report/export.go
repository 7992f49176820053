package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var exportFilenames = map[string]string{
	repository.ExportSnapshot:  "snapshot_export.csv",
	repository.ExportLocations: "location_export.csv",
	repository.ExportProducts:  "products_export.csv",
}

// ExportFile CSV listo para servir como adjunto.
type ExportFile struct {
	Filename string
	Data     []byte
}

// ExportUseCase exporta stock, ubicaciones o productos a CSV.
type ExportUseCase struct {
	repo repository.ExportRepository
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(repo repository.ExportRepository) *ExportUseCase {
	return &ExportUseCase{repo: repo}
}

// Export modo vacío = snapshot. Modo desconocido -> ValidationError.
func (uc *ExportUseCase) Export(ctx context.Context, mode string) (*ExportFile, error) {
	if mode == "" {
		mode = repository.ExportSnapshot
	}
	filename, ok := exportFilenames[mode]
	if !ok {
		return nil, domain.NewValidationError("Invalid export mode")
	}
	table, err := uc.repo.Export(ctx, mode)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(table.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return &ExportFile{Filename: filename, Data: buf.Bytes()}, nil
}
