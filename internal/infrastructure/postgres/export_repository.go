package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.ExportRepository = (*ExportRepo)(nil)

// Cada consulta convierte todo a texto para escribir el CSV sin conocer los tipos.
var exportQueries = map[string]struct {
	columns []string
	query   string
}{
	repository.ExportSnapshot: {
		columns: []string{"location", "sku", "product", "bin", "quantity"},
		query: `
			SELECT l.name, p.sku, p.name, b.code, s.qty::text
			FROM stock_levels s
			JOIN products p ON s.product_id = p.id
			JOIN bins b ON s.bin_id = b.id
			JOIN locations l ON b.location_id = l.id
			ORDER BY l.name, p.name, b.code`,
	},
	repository.ExportLocations: {
		columns: []string{"location", "total_bins", "total_items"},
		query: `
			SELECT l.name, COUNT(DISTINCT b.id)::text, COALESCE(SUM(s.qty), 0)::text
			FROM locations l
			LEFT JOIN bins b ON b.location_id = l.id
			LEFT JOIN stock_levels s ON s.bin_id = b.id
			GROUP BY l.id, l.name
			ORDER BY l.name`,
	},
	repository.ExportProducts: {
		columns: []string{"sku", "product_name", "description", "unit", "total_quantity"},
		query: `
			SELECT p.sku, p.name, p.description, p.unit, COALESCE(SUM(s.qty), 0)::text
			FROM products p
			LEFT JOIN stock_levels s ON s.product_id = p.id
			GROUP BY p.id
			ORDER BY p.name`,
	},
}

// ExportRepo tablas planas para CSV.
type ExportRepo struct {
	pool *pgxpool.Pool
}

// NewExportRepository construye el repositorio.
func NewExportRepository(pool *pgxpool.Pool) *ExportRepo {
	return &ExportRepo{pool: pool}
}

func (r *ExportRepo) Export(ctx context.Context, mode string) (*entity.Table, error) {
	spec, ok := exportQueries[mode]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	rows, err := r.pool.Query(ctx, spec.query)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", mode, err)
	}
	data, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) ([]string, error) {
		out := make([]string, len(spec.columns))
		ptrs := make([]any, len(out))
		for i := range out {
			ptrs[i] = &out[i]
		}
		err := row.Scan(ptrs...)
		return out, err
	})
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", mode, err)
	}
	return &entity.Table{Columns: spec.columns, Rows: data}, nil
}
