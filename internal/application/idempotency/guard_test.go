package idempotency_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ─── fakes ────────────────────────────────────────────────────────────────────

type fakeCache struct {
	mu   sync.Mutex
	data map[string]*entity.IdempotencyRecord
	err  error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]*entity.IdempotencyRecord{}} }

func (c *fakeCache) Get(_ context.Context, key string) (*entity.IdempotencyRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, rec *entity.IdempotencyRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[rec.Key] = rec
	return nil
}

type fakeStore struct {
	mu        sync.Mutex
	data      map[string]*entity.IdempotencyRecord
	findErr   error
	lastSince time.Time
	saves     int
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string]*entity.IdempotencyRecord{}} }

func (s *fakeStore) FindSince(_ context.Context, key string, since time.Time) (*entity.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSince = since
	if s.findErr != nil {
		return nil, s.findErr
	}
	rec, ok := s.data[key]
	if !ok || !rec.CreatedAt.After(since) {
		return nil, nil
	}
	return rec, nil
}

func (s *fakeStore) Save(_ context.Context, rec *entity.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if _, ok := s.data[rec.Key]; !ok {
		s.data[rec.Key] = rec
	}
	return nil
}

func (s *fakeStore) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, rec := range s.data {
		if rec.CreatedAt.Before(before) {
			delete(s.data, k)
			n++
		}
	}
	return n, nil
}

func newGuard(c *fakeCache, s *fakeStore) *idempotency.Guard {
	return idempotency.NewGuard(c, s, 24*time.Hour, nil, zerolog.Nop())
}

// ─── tests ────────────────────────────────────────────────────────────────────

func TestValidateKey(t *testing.T) {
	assert.ErrorIs(t, idempotency.ValidateKey("corta"), idempotency.ErrInvalidKey)
	assert.ErrorIs(t, idempotency.ValidateKey(strings.Repeat("x", 256)), idempotency.ErrInvalidKey)
	assert.NoError(t, idempotency.ValidateKey(strings.Repeat("x", 10)))
	assert.NoError(t, idempotency.ValidateKey(strings.Repeat("x", 255)))
}

func TestValidateKey_CuentaCaracteresNoBytes(t *testing.T) {
	// "ñ" ocupa 2 bytes: 9 runas son 18 bytes y siguen siendo pocas
	assert.ErrorIs(t, idempotency.ValidateKey(strings.Repeat("ñ", 9)), idempotency.ErrInvalidKey)
	assert.NoError(t, idempotency.ValidateKey(strings.Repeat("ñ", 10)))
	// 200 runas son 400 bytes y caben en el límite de 255 caracteres
	assert.NoError(t, idempotency.ValidateKey(strings.Repeat("ñ", 200)))
	assert.ErrorIs(t, idempotency.ValidateKey(strings.Repeat("ñ", 256)), idempotency.ErrInvalidKey)
}

func TestRemember_GuardaEnCacheYAlmacen(t *testing.T) {
	c, s := newFakeCache(), newFakeStore()
	g := newGuard(c, s)

	body := []byte(`{"ok":true}`)
	g.Remember(context.Background(), "key-0000001", 200, body)
	body[0] = 'X' // el guard debe haber copiado el cuerpo
	g.Wait()

	rec, err := g.Lookup(context.Background(), "key-0000001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 200, rec.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(rec.Body))
	assert.Equal(t, 1, s.saves)
}

func TestRemember_IgnoraNoExitosas(t *testing.T) {
	c, s := newFakeCache(), newFakeStore()
	g := newGuard(c, s)

	g.Remember(context.Background(), "key-0000002", 400, []byte(`{"error":"x"}`))
	g.Remember(context.Background(), "key-0000002", 500, []byte(`{"error":"y"}`))
	g.Wait()

	rec, err := g.Lookup(context.Background(), "key-0000002")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Zero(t, s.saves)
}

func TestLookup_HitDurableRecargaCache(t *testing.T) {
	c, s := newFakeCache(), newFakeStore()
	s.data["key-0000003"] = &entity.IdempotencyRecord{Key: "key-0000003", StatusCode: 201, Body: []byte(`{}`), CreatedAt: time.Now()}
	g := newGuard(c, s)

	rec, err := g.Lookup(context.Background(), "key-0000003")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Contains(t, c.data, "key-0000003")
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), s.lastSince, time.Minute)
}

func TestLookup_RegistroFueraDeVentanaNoCuenta(t *testing.T) {
	c, s := newFakeCache(), newFakeStore()
	s.data["key-0000004"] = &entity.IdempotencyRecord{Key: "key-0000004", StatusCode: 200, CreatedAt: time.Now().Add(-25 * time.Hour)}

	rec, err := newGuard(c, s).Lookup(context.Background(), "key-0000004")

	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLookup_CacheCaidaConsultaAlmacen(t *testing.T) {
	c, s := newFakeCache(), newFakeStore()
	c.err = errors.New("redis caído")
	s.data["key-0000005"] = &entity.IdempotencyRecord{Key: "key-0000005", StatusCode: 200, CreatedAt: time.Now()}

	rec, err := newGuard(c, s).Lookup(context.Background(), "key-0000005")

	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestLookup_ErrorDelAlmacenSePropaga(t *testing.T) {
	c, s := newFakeCache(), newFakeStore()
	s.findErr = errors.New("db caída")

	_, err := newGuard(c, s).Lookup(context.Background(), "key-0000006")

	assert.Error(t, err)
}

func TestAcquire_ClaveEnCurso(t *testing.T) {
	g := newGuard(newFakeCache(), newFakeStore())

	assert.True(t, g.Acquire("key-0000007"))
	assert.False(t, g.Acquire("key-0000007"))
	g.Release("key-0000007")
	assert.True(t, g.Acquire("key-0000007"))
}

func TestPurge_EliminaVencidos(t *testing.T) {
	s := newFakeStore()
	s.data["vieja-000001"] = &entity.IdempotencyRecord{Key: "vieja-000001", CreatedAt: time.Now().Add(-48 * time.Hour)}
	s.data["nueva-000001"] = &entity.IdempotencyRecord{Key: "nueva-000001", CreatedAt: time.Now()}

	n, err := newGuard(newFakeCache(), s).Purge(context.Background())

	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Contains(t, s.data, "nueva-000001")
}

// slowCache simula una caché remota que no responde: Set espera al deadline del ctx.
type slowCache struct{}

func (slowCache) Get(context.Context, string) (*entity.IdempotencyRecord, error) { return nil, nil }

func (slowCache) Set(ctx context.Context, _ *entity.IdempotencyRecord) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRemember_CacheLentaNoBloqueaRespuesta(t *testing.T) {
	s := newFakeStore()
	g := idempotency.NewGuard(slowCache{}, s, 24*time.Hour, nil, zerolog.Nop())

	start := time.Now()
	g.Remember(context.Background(), "key-0000009", 200, []byte(`{"ok":true}`))
	elapsed := time.Since(start)
	g.Wait()

	assert.Less(t, elapsed, time.Second, "Remember debe acotar la escritura en caché")
	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, 1, s.saves, "el almacén durable se escribe aunque la caché falle")
}
