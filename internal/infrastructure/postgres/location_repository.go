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

var (
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.BinRepository      = (*BinRepo)(nil)
)

// LocationRepo ubicaciones.
type LocationRepo struct {
	pool *pgxpool.Pool
}

// NewLocationRepository construye el repositorio.
func NewLocationRepository(pool *pgxpool.Pool) *LocationRepo {
	return &LocationRepo{pool: pool}
}

// Create nombre repetido (sin distinguir mayúsculas) -> ErrDuplicate.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO locations (name) VALUES ($1) RETURNING id, created_at`, l.Name).
		Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Location, error) {
		var l entity.Location
		err := row.Scan(&l.ID, &l.Name, &l.CreatedAt)
		return &l, err
	})
}

// Delete borra filas de stock en cero, bins y ubicación. Stock > 0 o historial -> ErrConflict.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		var exists, hasStock bool
		err := q.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM locations WHERE id = $1),
			       EXISTS (SELECT 1 FROM stock_levels sl JOIN bins b ON b.id = sl.bin_id
			               WHERE b.location_id = $1 AND sl.qty > 0)`, id).
			Scan(&exists, &hasStock)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("check location: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		if hasStock {
			return domain.ErrConflict
		}
		stmts := []string{
			`DELETE FROM stock_levels WHERE bin_id IN (SELECT id FROM bins WHERE location_id = $1)`,
			`DELETE FROM bins WHERE location_id = $1`,
			`DELETE FROM locations WHERE id = $1`,
		}
		for _, s := range stmts {
			if _, err := q.Exec(ctx, s, id); err != nil {
				if isForeignKeyViolation(err) {
					return domain.ErrConflict
				}
				return fmt.Errorf("delete location: %w", err)
			}
		}
		return nil
	})
}

// BinRepo bins.
type BinRepo struct {
	pool *pgxpool.Pool
}

// NewBinRepository construye el repositorio.
func NewBinRepository(pool *pgxpool.Pool) *BinRepo {
	return &BinRepo{pool: pool}
}

// Create código repetido en la ubicación -> ErrDuplicate; ubicación inexistente -> ErrNotFound.
func (r *BinRepo) Create(ctx context.Context, b *entity.Bin) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO bins (location_id, code) VALUES ($1, $2) RETURNING id, created_at`,
		b.LocationID, b.Code).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err), isInvalidUUID(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert bin: %w", err)
	}
	return nil
}

func (r *BinRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.Bin, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, location_id, code, created_at FROM bins WHERE location_id = $1 ORDER BY code`, locationID)
	if err == nil {
		var bins []*entity.Bin
		bins, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Bin, error) {
			var b entity.Bin
			err := row.Scan(&b.ID, &b.LocationID, &b.Code, &b.CreatedAt)
			return &b, err
		})
		if err == nil {
			return bins, nil
		}
	}
	if isInvalidUUID(err) {
		return nil, nil
	}
	return nil, fmt.Errorf("list bins: %w", err)
}

// Delete stock > 0 o historial en el ledger -> ErrConflict.
func (r *BinRepo) Delete(ctx context.Context, id string) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		var exists, hasStock bool
		err := q.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM bins WHERE id = $1),
			       EXISTS (SELECT 1 FROM stock_levels WHERE bin_id = $1 AND qty > 0)`, id).
			Scan(&exists, &hasStock)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("check bin: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		if hasStock {
			return domain.ErrConflict
		}
		if _, err := q.Exec(ctx, `DELETE FROM stock_levels WHERE bin_id = $1`, id); err != nil {
			return fmt.Errorf("delete bin stock: %w", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM bins WHERE id = $1`, id); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("delete bin: %w", err)
		}
		return nil
	})
}
