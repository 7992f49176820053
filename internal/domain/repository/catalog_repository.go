package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	List(ctx context.Context) ([]*entity.Product, error)
	// Delete elimina el producto y sus filas de stock en cero; ErrConflict si tiene stock.
	Delete(ctx context.Context, id string) error
	// NextSKU genera el siguiente SKU automático (SKU-001, SKU-002, ...).
	NextSKU(ctx context.Context) (string, error)
}

// LocationRepository define el puerto de persistencia para Location.
type LocationRepository interface {
	Create(ctx context.Context, l *entity.Location) error
	List(ctx context.Context) ([]*entity.Location, error)
	// Delete elimina la ubicación y sus bins; ErrConflict si algún bin tiene stock.
	Delete(ctx context.Context, id string) error
}

// BinRepository define el puerto de persistencia para Bin.
type BinRepository interface {
	Create(ctx context.Context, b *entity.Bin) error
	ListByLocation(ctx context.Context, locationID string) ([]*entity.Bin, error)
	// Delete elimina el bin; ErrConflict si tiene stock.
	Delete(ctx context.Context, id string) error
}

// ProductSpec datos de producto leídos de un CSV para buscar-o-crear.
type ProductSpec struct {
	SKU         string
	Name        string
	Description string
	Unit        string
}

// CatalogResolver buscar-o-crear de catálogo usado por la importación CSV.
type CatalogResolver interface {
	ResolveLocation(ctx context.Context, name string) (string, error)
	ResolveBin(ctx context.Context, locationID, code string) (string, error)
	ResolveProduct(ctx context.Context, spec ProductSpec) (id string, created bool, err error)
}
