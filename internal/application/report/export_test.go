package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

type fakeExport struct{ mode string }

func (f *fakeExport) Export(_ context.Context, mode string) (*entity.Table, error) {
	f.mode = mode
	return &entity.Table{
		Columns: []string{"location", "sku", "product", "bin", "quantity"},
		Rows:    [][]string{{"Main", "SKU-001", "Tomatoes, red", "A1", "6"}},
	}, nil
}

func TestExport_SnapshotPorDefecto(t *testing.T) {
	repo := &fakeExport{}
	file, err := NewExportUseCase(repo).Export(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, repository.ExportSnapshot, repo.mode)
	assert.Equal(t, "snapshot_export.csv", file.Filename)
	assert.Equal(t, "location,sku,product,bin,quantity\nMain,SKU-001,\"Tomatoes, red\",A1,6\n", string(file.Data))
}

func TestExport_ModoInvalido(t *testing.T) {
	repo := &fakeExport{}
	_, err := NewExportUseCase(repo).Export(context.Background(), "invoices")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, repo.mode)
}
