package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/cache"
	apphttp "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
)

const (
	productA = "prod-a"
	binA     = "bin-a"
	binB     = "bin-b"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []*entity.ActivityLog
}

func (r *fakeActivityRepo) Create(_ context.Context, l *entity.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, l)
	return nil
}

func (r *fakeActivityRepo) List(_ context.Context, _, _ int) ([]*entity.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, nil
}

func (r *fakeActivityRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.ActionType)
	}
	return out
}

type fakeIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]*entity.IdempotencyRecord
}

func (s *fakeIdempotencyStore) FindSince(_ context.Context, key string, since time.Time) (*entity.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok || rec.CreatedAt.Before(since) {
		return nil, nil
	}
	return rec, nil
}

func (s *fakeIdempotencyStore) Save(_ context.Context, rec *entity.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.Key]; !ok {
		s.records[rec.Key] = rec
	}
	return nil
}

func (s *fakeIdempotencyStore) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

type movementEnv struct {
	app      *fiber.App
	store    *inventorytest.Store
	activity *fakeActivityRepo
	guard    *idempotency.Guard
}

func newMovementEnv(t *testing.T) *movementEnv {
	t.Helper()
	log := zerolog.Nop()
	env := &movementEnv{
		store:    inventorytest.NewStore(),
		activity: &fakeActivityRepo{},
	}
	env.guard = idempotency.NewGuard(
		cache.NewMemoryCache(time.Minute),
		&fakeIdempotencyStore{records: make(map[string]*entity.IdempotencyRecord)},
		24*time.Hour, nil, log,
	)
	h := apphttp.NewMovementHandler(
		inventory.NewMovementService(env.store, nil, log),
		usecase.NewActivityUseCase(env.activity, log),
		log,
	)

	env.app = fiber.New()
	tx := env.app.Group("/transactions", apphttp.IdempotencyMiddleware(env.guard, log))
	tx.Post("/receive", h.Receive)
	tx.Post("/ship", h.Ship)
	tx.Post("/transfer", h.Transfer)
	t.Cleanup(env.guard.Wait)
	return env
}

func (e *movementEnv) post(t *testing.T, path, key, body string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(apphttp.HeaderIdempotencyKey, key)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_SumaStockYRegistraActividad(t *testing.T) {
	env := newMovementEnv(t)

	resp, body := env.post(t, "/transactions/receive", "",
		`{"productId":"prod-a","binId":"bin-a","qty":5,"reference":"PO-1","user":"maria"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, body)
	assert.True(t, env.store.Qty(productA, binA).Equal(decimal.NewFromInt(5)))

	ledger := env.store.Ledger()
	require.Len(t, ledger, 1)
	assert.Equal(t, entity.TransactionIN, ledger[0].Type)
	assert.Equal(t, "maria", ledger[0].PerformedBy)
	assert.Equal(t, "PO-1", ledger[0].Reference)
	assert.Equal(t, []string{entity.ActionReceive}, env.activity.actions())
}

func TestReceive_SinUsuarioUsaApi(t *testing.T) {
	env := newMovementEnv(t)

	resp, _ := env.post(t, "/transactions/receive", "", `{"productId":"prod-a","binId":"bin-a","qty":"2.5"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	ledger := env.store.Ledger()
	require.Len(t, ledger, 1)
	assert.Equal(t, entity.DefaultPerformer, ledger[0].PerformedBy)
	assert.True(t, env.store.Qty(productA, binA).Equal(decimal.RequireFromString("2.5")))
}

func TestReceive_CantidadNoPositiva_400(t *testing.T) {
	env := newMovementEnv(t)

	resp, body := env.post(t, "/transactions/receive", "", `{"productId":"prod-a","binId":"bin-a","qty":0}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"productId, binId, positive qty required"}`, body)
	assert.Empty(t, env.store.Ledger())
	assert.Zero(t, env.store.Begins, "la validación no debe abrir transacción")
	assert.Empty(t, env.activity.actions())
}

func TestShip_StockInsuficiente_400(t *testing.T) {
	env := newMovementEnv(t)

	resp, body := env.post(t, "/transactions/ship", "", `{"productId":"prod-a","binId":"bin-a","qty":3}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Only 0 available"}`, body)
	assert.Empty(t, env.store.Ledger())
}

func TestShip_DescuentaStock(t *testing.T) {
	env := newMovementEnv(t)
	env.store.Seed(productA, binA, decimal.NewFromInt(10))

	resp, _ := env.post(t, "/transactions/ship", "", `{"productId":"prod-a","binId":"bin-a","qty":4}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.store.Qty(productA, binA).Equal(decimal.NewFromInt(6)))
	assert.Equal(t, []string{entity.ActionShip}, env.activity.actions())
}

func TestTransfer_MismoBin_400(t *testing.T) {
	env := newMovementEnv(t)
	env.store.Seed(productA, binA, decimal.NewFromInt(10))

	resp, body := env.post(t, "/transactions/transfer", "",
		`{"productId":"prod-a","fromBinId":"bin-a","toBinId":"bin-a","qty":1}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"productId, fromBinId!=toBinId, positive qty required"}`, body)
	assert.True(t, env.store.Qty(productA, binA).Equal(decimal.NewFromInt(10)))
}

func TestTransfer_MismoBinUUIDEnMayusculas_400(t *testing.T) {
	env := newMovementEnv(t)

	resp, body := env.post(t, "/transactions/transfer", "",
		`{"productId":"prod-a","fromBinId":"6f9619ff-8b86-d011-b42d-00c04fc964ff","toBinId":"6F9619FF-8B86-D011-B42D-00C04FC964FF","qty":1}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"productId, fromBinId!=toBinId, positive qty required"}`, body)
	assert.Zero(t, env.store.Begins, "la validación no debe abrir transacción")
}

func TestReceive_CantidadFueraDeEscala_400(t *testing.T) {
	tests := []struct {
		name string
		qty  string
		msg  string
	}{
		{"redondea a cero", `0.0004`, "qty supports at most 3 decimal places"},
		{"redondea hacia arriba", `"0.0006"`, "qty supports at most 3 decimal places"},
		{"desborda la columna", `1e12`, "qty must be less than 100000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newMovementEnv(t)

			resp, body := env.post(t, "/transactions/receive", "idem-key-"+strings.ReplaceAll(tt.name, " ", "-"),
				`{"productId":"prod-a","binId":"bin-a","qty":`+tt.qty+`}`)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, `{"error":"`+tt.msg+`"}`, body)
			assert.Zero(t, env.store.Begins)
			assert.Empty(t, env.store.Ledger())
		})
	}
}

func TestTransfer_MueveEntreBins(t *testing.T) {
	env := newMovementEnv(t)
	env.store.Seed(productA, binA, decimal.NewFromInt(10))

	resp, _ := env.post(t, "/transactions/transfer", "",
		`{"productId":"prod-a","fromBinId":"bin-a","toBinId":"bin-b","qty":7}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.store.Qty(productA, binA).Equal(decimal.NewFromInt(3)))
	assert.True(t, env.store.Qty(productA, binB).Equal(decimal.NewFromInt(7)))
	ledger := env.store.Ledger()
	require.Len(t, ledger, 1)
	assert.Equal(t, entity.TransactionMOVE, ledger[0].Type)
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestIdempotency_ReplayNoRepiteMovimiento(t *testing.T) {
	env := newMovementEnv(t)
	const key = "receive-key-0001"
	payload := `{"productId":"prod-a","binId":"bin-a","qty":5}`

	first, firstBody := env.post(t, "/transactions/receive", key, payload)
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.Empty(t, first.Header.Get(apphttp.HeaderReplayed))

	for i := 0; i < 3; i++ {
		resp, body := env.post(t, "/transactions/receive", key, payload)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, firstBody, body)
		assert.Equal(t, "true", resp.Header.Get(apphttp.HeaderReplayed))
	}

	assert.Len(t, env.store.Ledger(), 1)
	assert.True(t, env.store.Qty(productA, binA).Equal(decimal.NewFromInt(5)))
	assert.Len(t, env.activity.actions(), 1)
}

func TestIdempotency_CabeceraAlternativa(t *testing.T) {
	env := newMovementEnv(t)
	payload := `{"productId":"prod-a","binId":"bin-a","qty":1}`

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/transactions/receive", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(apphttp.HeaderXIdempotencyKey, "x-header-key-01")
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Len(t, env.store.Ledger(), 1)
}

func TestIdempotency_ClaveInvalida_400(t *testing.T) {
	env := newMovementEnv(t)

	resp, body := env.post(t, "/transactions/receive", "short", `{"productId":"prod-a","binId":"bin-a","qty":5}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Invalid Idempotency-Key format")
	assert.Empty(t, env.store.Ledger())
}

func TestIdempotency_ErrorNoSeGuarda(t *testing.T) {
	env := newMovementEnv(t)
	const key = "ship-retry-key-01"
	payload := `{"productId":"prod-a","binId":"bin-a","qty":3}`

	resp, body := env.post(t, "/transactions/ship", key, payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Only 0 available"}`, body)

	env.store.Seed(productA, binA, decimal.NewFromInt(5))
	resp, body = env.post(t, "/transactions/ship", key, payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, body)
	assert.Empty(t, resp.Header.Get(apphttp.HeaderReplayed))
	assert.True(t, env.store.Qty(productA, binA).Equal(decimal.NewFromInt(2)))
}

func TestIdempotency_ClavesDistintasEjecutanAmbas(t *testing.T) {
	env := newMovementEnv(t)
	payload := `{"productId":"prod-a","binId":"bin-a","qty":2}`

	r1, _ := env.post(t, "/transactions/receive", "distinct-key-0001", payload)
	r2, _ := env.post(t, "/transactions/receive", "distinct-key-0002", payload)

	assert.Equal(t, http.StatusOK, r1.StatusCode)
	assert.Equal(t, http.StatusOK, r2.StatusCode)
	assert.True(t, env.store.Qty(productA, binA).Equal(decimal.NewFromInt(4)))
}

func TestIdempotency_ConcurrentesEjecutanUnaVez(t *testing.T) {
	env := newMovementEnv(t)
	const key = "concurrent-key-01"
	payload := `{"productId":"prod-a","binId":"bin-a","qty":1}`

	var wg sync.WaitGroup
	statuses := make([]int, 8)
	for i := range statuses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/transactions/receive", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(apphttp.HeaderIdempotencyKey, key)
			resp, err := env.app.Test(req, -1)
			if err != nil {
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	for _, s := range statuses {
		assert.Contains(t, []int{http.StatusOK, http.StatusConflict}, s)
	}
	assert.Len(t, env.store.Ledger(), 1)
	assert.True(t, env.store.Qty(productA, binA).Equal(decimal.NewFromInt(1)))
}
