package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones y sus bins.
type LocationUseCase struct {
	locations repository.LocationRepository
	bins      repository.BinRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(locations repository.LocationRepository, bins repository.BinRepository) *LocationUseCase {
	return &LocationUseCase{locations: locations, bins: bins}
}

// Create crea una nueva ubicación. ErrDuplicate si el nombre ya existe (sin distinguir mayúsculas).
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("Location name is required")
	}
	location := &entity.Location{Name: name}
	if err := uc.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List lista las ubicaciones ordenadas por nombre.
func (uc *LocationUseCase) List(ctx context.Context) ([]dto.LocationResponse, error) {
	list, err := uc.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return items, nil
}

// Delete elimina la ubicación con sus bins vacíos.
func (uc *LocationUseCase) Delete(ctx context.Context, id string) error {
	return uc.locations.Delete(ctx, id)
}

// CreateBin crea un bin; el código se guarda en mayúsculas.
func (uc *LocationUseCase) CreateBin(ctx context.Context, in dto.CreateBinRequest) (*dto.BinResponse, error) {
	code := domaininv.CanonicalBinCode(in.Code)
	if strings.TrimSpace(in.LocationID) == "" || code == "" {
		return nil, domain.NewValidationError("Location ID and bin code are required")
	}
	bin := &entity.Bin{LocationID: strings.TrimSpace(in.LocationID), Code: code}
	if err := uc.bins.Create(ctx, bin); err != nil {
		return nil, err
	}
	return toBinResponse(bin), nil
}

// ListBins bins de la ubicación ordenados por código.
func (uc *LocationUseCase) ListBins(ctx context.Context, locationID string) ([]dto.BinResponse, error) {
	list, err := uc.bins.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BinResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBinResponse(b))
	}
	return items, nil
}

// DeleteBin elimina un bin sin stock.
func (uc *LocationUseCase) DeleteBin(ctx context.Context, id string) error {
	return uc.bins.Delete(ctx, id)
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt}
}

func toBinResponse(b *entity.Bin) *dto.BinResponse {
	return &dto.BinResponse{ID: b.ID, LocationID: b.LocationID, Code: b.Code, CreatedAt: b.CreatedAt}
}
