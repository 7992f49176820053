package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// skuAttempts reintentos cuando el SKU automático choca con uno creado en paralelo.
const skuAttempts = 3

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía movimientos.
type ProductUseCase struct {
	repo   repository.ProductRepository
	ledger repository.LedgerRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, ledger repository.LedgerRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, ledger: ledger}
}

// Create crea un nuevo producto aplicando los valores por defecto (unit each, min_qty 10, lead 0).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("Product name is required")
	}
	product := &entity.Product{
		SKU:          strings.TrimSpace(in.SKU),
		Name:         name,
		Description:  in.Description,
		Unit:         domaininv.NormalizeUnit(in.Unit),
		MinQty:       decimal.NewNullDecimal(entity.DefaultMinQty),
		LeadTimeDays: entity.DefaultLeadTimeDays,
	}
	if in.MinQty != nil {
		product.MinQty = decimal.NewNullDecimal(*in.MinQty)
	}
	if in.LeadTimeDays != nil {
		product.LeadTimeDays = *in.LeadTimeDays
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if product.SKU != "" {
		if err := uc.repo.Create(ctx, product); err != nil {
			return nil, err
		}
		return toProductResponse(product), nil
	}

	var err error
	for i := 0; i < skuAttempts; i++ {
		product.SKU, err = uc.repo.NextSKU(ctx)
		if err != nil {
			return nil, err
		}
		err = uc.repo.Create(ctx, product)
		if !errors.Is(err, domain.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualización parcial. ErrNotFound si el producto no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Empty() {
		return nil, domain.NewValidationError("No fields to update")
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Unit != nil {
		product.Unit = domaininv.NormalizeUnit(*in.Unit)
	}
	if in.MinQty != nil {
		product.MinQty = decimal.NewNullDecimal(*in.MinQty)
	}
	if in.LeadTimeDays != nil {
		product.LeadTimeDays = *in.LeadTimeDays
	}
	if product.Name == "" {
		return nil, domain.NewValidationError("Product name is required")
	}
	if product.SKU == "" {
		return nil, domain.NewValidationError("sku cannot be empty")
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista todos los productos.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Get devuelve el producto; ErrNotFound si no existe.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto por ID. ErrConflict mientras tenga stock o historial.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Transactions historial del ledger del producto, más reciente primero.
func (uc *ProductUseCase) Transactions(ctx context.Context, productID string) ([]dto.TransactionResponse, error) {
	entries, err := uc.ledger.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.TransactionResponse{
			ID:               e.ID,
			Type:             e.Type,
			ProductID:        e.ProductID,
			FromBinID:        e.FromBinID,
			FromBinCode:      e.FromBinCode,
			FromLocationName: e.FromLocationName,
			ToBinID:          e.ToBinID,
			ToBinCode:        e.ToBinCode,
			ToLocationName:   e.ToLocationName,
			Qty:              e.Qty,
			Reference:        e.Reference,
			PerformedBy:      e.PerformedBy,
			OccurredAt:       e.OccurredAt,
		})
	}
	return out, nil
}

func validateProduct(p *entity.Product) error {
	if p.MinQty.Valid && p.MinQty.Decimal.IsNegative() {
		return domain.NewValidationError("min_qty must be non-negative")
	}
	if p.LeadTimeDays < 0 {
		return domain.NewValidationError("lead_time_days must be non-negative")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Unit:         p.Unit,
		LeadTimeDays: p.LeadTimeDays,
		CreatedAt:    p.CreatedAt,
	}
	if p.MinQty.Valid {
		min := p.MinQty.Decimal
		out.MinQty = &min
	}
	return out
}
