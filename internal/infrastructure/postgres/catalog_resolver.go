package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.CatalogResolver = (*CatalogResolver)(nil)

// CatalogResolver buscar-o-crear de ubicaciones, bins y productos para la importación CSV.
// Las búsquedas no distinguen mayúsculas. Si dos importaciones crean lo mismo a la vez,
// la que pierde el unique vuelve a buscar.
type CatalogResolver struct {
	pool *pgxpool.Pool
}

// NewCatalogResolver construye el resolver.
func NewCatalogResolver(pool *pgxpool.Pool) *CatalogResolver {
	return &CatalogResolver{pool: pool}
}

func (r *CatalogResolver) ResolveLocation(ctx context.Context, name string) (string, error) {
	find := func() (string, error) {
		return r.findID(ctx, `SELECT id FROM locations WHERE lower(name) = lower($1)`, name)
	}
	insert := func() (string, error) {
		var id string
		err := r.pool.QueryRow(ctx, `INSERT INTO locations (name) VALUES ($1) RETURNING id`, name).Scan(&id)
		return id, err
	}
	return findOrCreate(find, insert)
}

// ResolveBin code ya viene en mayúsculas; un bin existente con otro casing se normaliza.
func (r *CatalogResolver) ResolveBin(ctx context.Context, locationID, code string) (string, error) {
	var id, stored string
	err := r.pool.QueryRow(ctx, `SELECT id, code FROM bins WHERE location_id = $1 AND lower(code) = lower($2)`,
		locationID, code).Scan(&id, &stored)
	switch {
	case err == nil:
		if stored != code {
			if _, err := r.pool.Exec(ctx, `UPDATE bins SET code = $2 WHERE id = $1`, id, code); err != nil {
				return "", fmt.Errorf("normalize bin code: %w", err)
			}
		}
		return id, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return "", fmt.Errorf("find bin: %w", err)
	}

	find := func() (string, error) {
		return r.findID(ctx, `SELECT id FROM bins WHERE location_id = $1 AND lower(code) = lower($2)`, locationID, code)
	}
	insert := func() (string, error) {
		var id string
		err := r.pool.QueryRow(ctx, `INSERT INTO bins (location_id, code) VALUES ($1, $2) RETURNING id`, locationID, code).Scan(&id)
		return id, err
	}
	return findOrCreate(find, insert)
}

// ResolveProduct productos únicos por (SKU, unidad) o (nombre, unidad). Un SKU existente con otra
// unidad no se reutiliza: se crea un producto nuevo con SKU automático. Si el producto ya existe
// y la fila trae descripción, se actualiza.
func (r *CatalogResolver) ResolveProduct(ctx context.Context, spec repository.ProductSpec) (string, bool, error) {
	var id string
	skuTaken := false

	if spec.SKU != "" {
		var unit string
		err := r.pool.QueryRow(ctx, `SELECT id, unit FROM products WHERE lower(sku) = lower($1)`, spec.SKU).Scan(&id, &unit)
		switch {
		case err == nil:
			skuTaken = true
			if unit != spec.Unit {
				id = ""
			}
		case !errors.Is(err, pgx.ErrNoRows):
			return "", false, fmt.Errorf("find product by sku: %w", err)
		}
	}

	if id == "" && spec.Name != "" {
		found, err := r.findID(ctx, `SELECT id FROM products WHERE lower(name) = lower($1) AND lower(unit) = lower($2) ORDER BY created_at LIMIT 1`,
			spec.Name, spec.Unit)
		if err != nil {
			return "", false, err
		}
		id = found
	}

	if id != "" {
		if spec.Description != "" {
			if _, err := r.pool.Exec(ctx, `UPDATE products SET description = $2 WHERE id = $1`, id, spec.Description); err != nil {
				return "", false, fmt.Errorf("refresh product description: %w", err)
			}
		}
		return id, false, nil
	}

	sku := spec.SKU
	if sku == "" || skuTaken {
		next, err := nextSKU(ctx, r.pool)
		if err != nil {
			return "", false, err
		}
		sku = next
	}
	p := &entity.Product{
		SKU:          sku,
		Name:         spec.Name,
		Description:  spec.Description,
		Unit:         spec.Unit,
		LeadTimeDays: entity.DefaultLeadTimeDays,
	}
	if err := insertProduct(ctx, r.pool, p); err != nil {
		return "", false, err
	}
	return p.ID, true, nil
}

// findID "" si no hay fila.
func (r *CatalogResolver) findID(ctx context.Context, query string, args ...any) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, query, args...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("catalog lookup: %w", err)
	}
	return id, nil
}

func findOrCreate(find func() (string, error), insert func() (string, error)) (string, error) {
	id, err := find()
	if err != nil || id != "" {
		return id, err
	}
	id, err = insert()
	if err == nil {
		return id, nil
	}
	if !isUniqueViolation(err) {
		return "", fmt.Errorf("catalog insert: %w", err)
	}
	// otra importación lo creó entre la búsqueda y el insert
	return find()
}
