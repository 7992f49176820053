package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, unit, min_qty, lead_time_days, created_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Unit, &p.MinQty, &p.LeadTimeDays, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste el producto; completa ID y CreatedAt. SKU repetido -> ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return insertProduct(ctx, r.pool, p)
}

func insertProduct(ctx context.Context, q Querier, p *entity.Product) error {
	err := q.QueryRow(ctx, `
		INSERT INTO products (sku, name, description, unit, min_qty, lead_time_days)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		p.SKU, p.Name, p.Description, p.Unit, p.MinQty, p.LeadTimeDays).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) || (err != nil && isInvalidUUID(err)) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET sku = $2, name = $3, description = $4, unit = $5, min_qty = $6, lead_time_days = $7
		WHERE id = $1`,
		p.ID, p.SKU, p.Name, p.Description, p.Unit, p.MinQty, p.LeadTimeDays)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, sku`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Product, error) {
		return scanProduct(row)
	})
}

// Delete rechaza con ErrConflict si hay stock o historial en el ledger (el ledger no se borra).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		var exists, hasStock bool
		err := q.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM products WHERE id = $1),
			       EXISTS (SELECT 1 FROM stock_levels WHERE product_id = $1 AND qty > 0)`, id).
			Scan(&exists, &hasStock)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("check product: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		if hasStock {
			return domain.ErrConflict
		}
		if _, err := q.Exec(ctx, `DELETE FROM stock_levels WHERE product_id = $1`, id); err != nil {
			return fmt.Errorf("delete product stock: %w", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
}

// NextSKU siguiente SKU-### a partir del mayor SKU automático existente.
func (r *ProductRepo) NextSKU(ctx context.Context) (string, error) {
	return nextSKU(ctx, r.pool)
}

func nextSKU(ctx context.Context, q Querier) (string, error) {
	var next int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(SUBSTRING(sku FROM 5) AS INTEGER)), 0) + 1
		FROM products WHERE sku ~ '^SKU-[0-9]+$'`).Scan(&next)
	if err != nil {
		return "", fmt.Errorf("next sku: %w", err)
	}
	return fmt.Sprintf("SKU-%03d", next), nil
}
