package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

type memProducts struct {
	bySKU   map[string]*entity.Product
	byID    map[string]*entity.Product
	nextSKU []string // SKUs que devolverá NextSKU, en orden
}

func newMemProducts() *memProducts {
	return &memProducts{bySKU: map[string]*entity.Product{}, byID: map[string]*entity.Product{}}
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	if _, ok := m.bySKU[p.SKU]; ok {
		return domain.ErrDuplicate
	}
	p.ID = fmt.Sprintf("p-%d", len(m.byID)+1)
	cp := *p
	m.bySKU[p.SKU] = &cp
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) List(context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *memProducts) NextSKU(context.Context) (string, error) {
	if len(m.nextSKU) == 0 {
		return "", fmt.Errorf("sin SKUs")
	}
	s := m.nextSKU[0]
	m.nextSKU = m.nextSKU[1:]
	return s, nil
}

func TestProductCreate_ValoresPorDefecto(t *testing.T) {
	repo := newMemProducts()
	uc := NewProductUseCase(repo, nil)

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{SKU: "APL-1", Name: " Apples ", Unit: "Crates"})

	require.NoError(t, err)
	assert.Equal(t, "Apples", out.Name)
	assert.Equal(t, "crate", out.Unit)
	require.NotNil(t, out.MinQty)
	assert.True(t, out.MinQty.Equal(decimal.NewFromInt(10)))
	assert.Zero(t, out.LeadTimeDays)
}

func TestProductCreate_SKUAutomaticoReintentaDuplicado(t *testing.T) {
	repo := newMemProducts()
	repo.bySKU["SKU-001"] = &entity.Product{SKU: "SKU-001"}
	repo.nextSKU = []string{"SKU-001", "SKU-002"}
	uc := NewProductUseCase(repo, nil)

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "Pears"})

	require.NoError(t, err)
	assert.Equal(t, "SKU-002", out.SKU)
}

func TestProductCreate_Validacion(t *testing.T) {
	uc := NewProductUseCase(newMemProducts(), nil)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := decimal.NewFromInt(-1)
	_, err = uc.Create(context.Background(), dto.CreateProductRequest{SKU: "X", Name: "X", MinQty: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUpdate_Parcial(t *testing.T) {
	repo := newMemProducts()
	uc := NewProductUseCase(repo, nil)
	created, err := uc.Create(context.Background(), dto.CreateProductRequest{SKU: "A-1", Name: "Apples", Description: "red"})
	require.NoError(t, err)

	lead := 4
	out, err := uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{LeadTimeDays: &lead})

	require.NoError(t, err)
	assert.Equal(t, 4, out.LeadTimeDays)
	assert.Equal(t, "Apples", out.Name)
	assert.Equal(t, "red", out.Description)
}

func TestProductUpdate_Errores(t *testing.T) {
	repo := newMemProducts()
	uc := NewProductUseCase(repo, nil)
	created, err := uc.Create(context.Background(), dto.CreateProductRequest{SKU: "A-1", Name: "Apples"})
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	name := "x"
	_, err = uc.Update(context.Background(), "missing", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	empty := ""
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{SKU: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductDelete_NoExiste(t *testing.T) {
	uc := NewProductUseCase(newMemProducts(), nil)

	_, err := uc.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
