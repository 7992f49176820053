// Package inventorytest provee un almacén en memoria que implementa inventory.TxBeginner
// para tests de servicio y de handlers sin PostgreSQL.
package inventorytest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Store estado en memoria. Las transacciones se serializan con un mutex que se
// mantiene desde Begin hasta Commit/Rollback, equivalente a bloquear todas las filas.
type Store struct {
	txMu sync.Mutex

	mu      sync.Mutex
	levels  map[domaininv.Key]decimal.Decimal
	ledger  []*entity.StockTransaction
	failOn  map[string]error
	commitE error

	Begins    int
	Commits   int
	Rollbacks int
	Calls     int // operaciones del repositorio ejecutadas
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{levels: make(map[domaininv.Key]decimal.Decimal)}
}

var _ inventory.TxBeginner = (*Store)(nil)

// Seed fija la cantidad de un producto en un bin (fuera del ledger).
func (s *Store) Seed(productID, binID string, qty decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[domaininv.Key{ProductID: productID, BinID: binID}] = qty
}

// FailOn hace que la operación indicada (p.ej. "InsertLedgerOut") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn == nil {
		s.failOn = make(map[string]error)
	}
	s.failOn[op] = err
}

// FailCommit hace que Commit devuelva err.
func (s *Store) FailCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitE = err
}

// Qty cantidad confirmada; cero si no hay fila.
func (s *Store) Qty(productID, binID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[domaininv.Key{ProductID: productID, BinID: binID}]
}

// HasRow indica si existe fila de stock confirmada.
func (s *Store) HasRow(productID, binID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.levels[domaininv.Key{ProductID: productID, BinID: binID}]
	return ok
}

// Ledger copia de las entradas confirmadas.
func (s *Store) Ledger() []*entity.StockTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.StockTransaction, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// Levels filas de stock confirmadas.
func (s *Store) Levels() []*entity.StockLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.StockLevel, 0, len(s.levels))
	for k, v := range s.levels {
		out = append(out, &entity.StockLevel{ProductID: k.ProductID, BinID: k.BinID, Qty: v})
	}
	return out
}

// Begin abre una transacción sobre una copia del estado.
func (s *Store) Begin(ctx context.Context) (inventory.Tx, error) {
	s.txMu.Lock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Begins++
	if err := s.failOn["Begin"]; err != nil {
		s.txMu.Unlock()
		return nil, err
	}
	levels := make(map[domaininv.Key]decimal.Decimal, len(s.levels))
	for k, v := range s.levels {
		levels[k] = v
	}
	return &memTx{store: s, levels: levels}, nil
}

type memTx struct {
	store  *Store
	levels map[domaininv.Key]decimal.Decimal
	ledger []*entity.StockTransaction
	closed bool
}

func (t *memTx) Quantities() repository.QuantityRepository { return &memRepo{tx: t} }

func (t *memTx) Commit(ctx context.Context) error {
	if t.closed {
		return fmt.Errorf("tx cerrada")
	}
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	t.closed = true
	defer s.txMu.Unlock()
	if s.commitE != nil {
		return s.commitE
	}
	s.levels = t.levels
	s.ledger = append(s.ledger, t.ledger...)
	s.Commits++
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.closed {
		return nil
	}
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	t.closed = true
	s.Rollbacks++
	s.txMu.Unlock()
	return nil
}

type memRepo struct {
	tx *memTx
}

func (r *memRepo) call(op string) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	return s.failOn[op]
}

func (r *memRepo) GetQuantity(ctx context.Context, productID, binID string) (decimal.Decimal, error) {
	if err := r.call("GetQuantity"); err != nil {
		return decimal.Zero, err
	}
	return r.tx.levels[domaininv.Key{ProductID: productID, BinID: binID}], nil
}

func (r *memRepo) GetQuantityForUpdate(ctx context.Context, productID, binID string) (decimal.Decimal, error) {
	if err := r.call("GetQuantityForUpdate"); err != nil {
		return decimal.Zero, err
	}
	return r.tx.levels[domaininv.Key{ProductID: productID, BinID: binID}], nil
}

func (r *memRepo) AdjustQuantity(ctx context.Context, productID, binID string, delta decimal.Decimal) error {
	if err := r.call("AdjustQuantity"); err != nil {
		return err
	}
	k := domaininv.Key{ProductID: productID, BinID: binID}
	cur, ok := r.tx.levels[k]
	if !ok && delta.IsNegative() {
		return fmt.Errorf("adjust quantity: no stock row for product %s bin %s", productID, binID)
	}
	next := cur.Add(delta)
	if next.IsNegative() {
		return fmt.Errorf("adjust quantity: check constraint qty >= 0 violated")
	}
	r.tx.levels[k] = next
	return nil
}

func (r *memRepo) insert(op, kind string, f repository.LedgerFields) error {
	if err := r.call(op); err != nil {
		return err
	}
	by := f.PerformedBy
	if by == "" {
		by = entity.DefaultPerformer
	}
	r.tx.ledger = append(r.tx.ledger, &entity.StockTransaction{
		ID:          uuid.NewString(),
		Type:        kind,
		ProductID:   f.ProductID,
		FromBinID:   f.FromBinID,
		ToBinID:     f.ToBinID,
		Qty:         f.Qty,
		Reference:   f.Reference,
		PerformedBy: by,
		OccurredAt:  time.Now(),
	})
	return nil
}

func (r *memRepo) InsertLedgerIn(ctx context.Context, f repository.LedgerFields) error {
	return r.insert("InsertLedgerIn", entity.TransactionIN, f)
}

func (r *memRepo) InsertLedgerOut(ctx context.Context, f repository.LedgerFields) error {
	return r.insert("InsertLedgerOut", entity.TransactionOUT, f)
}

func (r *memRepo) InsertLedgerMove(ctx context.Context, f repository.LedgerFields) error {
	return r.insert("InsertLedgerMove", entity.TransactionMOVE, f)
}
