package inventory_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// fakeCatalog buscar-o-crear en memoria con claves sin distinguir mayúsculas.
type fakeCatalog struct {
	locations map[string]string
	bins      map[string]string
	products  map[string]string
	specs     []repository.ProductSpec
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{locations: map[string]string{}, bins: map[string]string{}, products: map[string]string{}}
}

func (f *fakeCatalog) ResolveLocation(_ context.Context, name string) (string, error) {
	k := domaininv.FoldName(name)
	if id, ok := f.locations[k]; ok {
		return id, nil
	}
	id := fmt.Sprintf("L%d", len(f.locations)+1)
	f.locations[k] = id
	return id, nil
}

func (f *fakeCatalog) ResolveBin(_ context.Context, locationID, code string) (string, error) {
	k := locationID + "/" + domaininv.FoldName(code)
	if id, ok := f.bins[k]; ok {
		return id, nil
	}
	id := fmt.Sprintf("B%d", len(f.bins)+1)
	f.bins[k] = id
	return id, nil
}

func (f *fakeCatalog) ResolveProduct(_ context.Context, spec repository.ProductSpec) (string, bool, error) {
	f.specs = append(f.specs, spec)
	k := domaininv.FoldName(spec.Name) + "/" + spec.Unit
	if id, ok := f.products[k]; ok {
		return id, false, nil
	}
	id := fmt.Sprintf("P%d", len(f.products)+1)
	f.products[k] = id
	return id, true, nil
}

func newImport(store *inventorytest.Store, cat *fakeCatalog) *inventory.ImportUseCase {
	return inventory.NewImportUseCase(cat, newService(store), zerolog.Nop())
}

func TestImport_ShipmentPasaPorElLedger(t *testing.T) {
	store := inventorytest.NewStore()
	cat := newFakeCatalog()
	csvData := "\ufeffLocation,Product,Bin,Qty,Unit\n" +
		"Main,Apples,a-1,\"1,000\",Crates\n" +
		"main,apples,A-1,5,crate\n" +
		"Main,Pears,A-2,0,each\n" +
		",Plums,A-3,4,each\n"

	res, err := newImport(store, cat).Import(context.Background(), inventory.ImportInput{
		Source: strings.NewReader(csvData), PerformedBy: "ana",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, "Import complete (shipment)", res.Message)
	assert.True(t, store.Qty("P1", "B1").Equal(d("1005")))
	ledger := store.Ledger()
	require.Len(t, ledger, 2)
	assert.Equal(t, entity.TransactionIN, ledger[0].Type)
	assert.Equal(t, "ana", ledger[0].PerformedBy)
	assert.Equal(t, "crate", cat.specs[0].Unit)
}

func TestImport_ReconcileAjustaAlObjetivo(t *testing.T) {
	store := inventorytest.NewStore()
	cat := newFakeCatalog()
	uc := newImport(store, cat)
	ctx := context.Background()

	_, err := uc.Import(ctx, inventory.ImportInput{
		Source: strings.NewReader("location,product,bin,qty\nMain,Apples,A-1,10\n"),
	})
	require.NoError(t, err)

	res, err := uc.Import(ctx, inventory.ImportInput{
		Type:   "reconcile",
		Source: strings.NewReader("location,product,bin,qty\nMain,Apples,A-1,4\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.True(t, store.Qty("P1", "B1").Equal(d("4")))

	ledger := store.Ledger()
	require.Len(t, ledger, 2)
	assert.Equal(t, entity.TransactionOUT, ledger[1].Type)
	assert.True(t, ledger[1].Qty.Equal(d("6")))
}

func TestImport_CatalogNoTocaStock(t *testing.T) {
	store := inventorytest.NewStore()
	cat := newFakeCatalog()

	res, err := newImport(store, cat).Import(context.Background(), inventory.ImportInput{
		Type:   "catalog",
		Source: strings.NewReader("sku,name,description,unit\nSKU-9,Honey,Raw,jars\n,,,\n"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Zero(t, store.Begins)
	require.Len(t, cat.specs, 1)
	assert.Equal(t, "jars", cat.specs[0].Unit)
}

func TestImport_Windows1252(t *testing.T) {
	store := inventorytest.NewStore()
	cat := newFakeCatalog()
	// "Café" con é = 0xE9 en windows-1252
	raw := []byte("location,product,bin,qty\nMain,Caf\xe9,A-1,2\n")

	_, err := newImport(store, cat).Import(context.Background(), inventory.ImportInput{
		Charset: "windows-1252",
		Source:  strings.NewReader(string(raw)),
	})

	require.NoError(t, err)
	require.Len(t, cat.specs, 1)
	assert.Equal(t, "Café", cat.specs[0].Name)
}

func TestImport_Errores(t *testing.T) {
	uc := newImport(inventorytest.NewStore(), newFakeCatalog())
	ctx := context.Background()

	_, err := uc.Import(ctx, inventory.ImportInput{Source: strings.NewReader("location,product,bin,qty\n")})
	assert.EqualError(t, err, "CSV appears empty")

	_, err = uc.Import(ctx, inventory.ImportInput{Type: "bogus", Source: strings.NewReader("a\n1\n")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Import(ctx, inventory.ImportInput{Charset: "ebcdic", Source: strings.NewReader("a\n1\n")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
