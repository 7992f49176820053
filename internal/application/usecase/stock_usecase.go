package usecase

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// StockUseCase consultas de stock y limpieza administrativa de filas.
type StockUseCase struct {
	stock      repository.StockRepository
	quantities repository.QuantityRepository
}

// NewStockUseCase construye el caso de uso. quantities se usa fuera de transacción (solo lectura).
func NewStockUseCase(stock repository.StockRepository, quantities repository.QuantityRepository) *StockUseCase {
	return &StockUseCase{stock: stock, quantities: quantities}
}

// List stock actual con nombres resueltos.
func (uc *StockUseCase) List(ctx context.Context) ([]dto.StockResponse, error) {
	rows, err := uc.stock.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(rows))
	for _, v := range rows {
		out = append(out, toStockResponse(v))
	}
	return out, nil
}

// Check cantidad disponible de un producto en un bin (0 si no hay fila).
func (uc *StockUseCase) Check(ctx context.Context, productID, binID string) (*dto.StockCheckResponse, error) {
	if productID == "" || binID == "" {
		return nil, domain.NewValidationError("productId and binId required")
	}
	qty, err := uc.quantities.GetQuantity(ctx, productID, binID)
	if err != nil {
		return nil, err
	}
	return &dto.StockCheckResponse{Qty: qty}, nil
}

// Delete borra la fila de stock sin asiento en el ledger y devuelve lo eliminado.
func (uc *StockUseCase) Delete(ctx context.Context, productID, binID string) (*dto.StockResponse, error) {
	v, err := uc.stock.Delete(ctx, productID, binID)
	if err != nil {
		return nil, err
	}
	out := toStockResponse(v)
	return &out, nil
}

func toStockResponse(v *entity.StockView) dto.StockResponse {
	return dto.StockResponse{
		ProductID:    v.ProductID,
		SKU:          v.SKU,
		ProductName:  v.ProductName,
		LocationID:   v.LocationID,
		LocationName: v.LocationName,
		BinID:        v.BinID,
		BinCode:      v.BinCode,
		Qty:          v.Qty,
		UpdatedAt:    v.UpdatedAt,
	}
}
