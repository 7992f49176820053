package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockRepository consultas de stock fuera de los comandos de movimiento.
type StockRepository interface {
	List(ctx context.Context) ([]*entity.StockView, error)
	// Levels todas las filas de stock_levels (para conciliar con el ledger).
	Levels(ctx context.Context) ([]*entity.StockLevel, error)
	// Delete elimina la fila de stock y devuelve la vista eliminada; ErrNotFound si no existe.
	Delete(ctx context.Context, productID, binID string) (*entity.StockView, error)
	LowStock(ctx context.Context, threshold int) ([]*entity.LowStockItem, error)
}

// LedgerRepository lectura del ledger.
type LedgerRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]*entity.TransactionHistoryItem, error)
	All(ctx context.Context) ([]*entity.StockTransaction, error)
}

// Modos de exportación CSV.
const (
	ExportSnapshot  = "snapshot"
	ExportLocations = "locations"
	ExportProducts  = "products"
)

// ExportRepository tablas planas para exportar a CSV.
type ExportRepository interface {
	// Export devuelve la tabla del modo indicado; ErrInvalidInput si el modo no existe.
	Export(ctx context.Context, mode string) (*entity.Table, error)
}
