package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/pkg/metrics"
)

// Límites de longitud de la Idempotency-Key.
const (
	MinKeyLength = 10
	MaxKeyLength = 255
)

// Errores del guard; el mensaje viaja tal cual al cliente.
var (
	ErrInvalidKey = errors.New("Invalid Idempotency-Key format. Must be 10-255 characters.")
	ErrInFlight   = errors.New("A request with this Idempotency-Key is already in progress")
)

// persistTimeout tiempo máximo de la escritura asíncrona al almacén durable.
const persistTimeout = 5 * time.Second

// cacheWriteTimeout cota de la escritura síncrona en caché; con Redis es un viaje de red
// que corre antes de enviar la respuesta.
const cacheWriteTimeout = 150 * time.Millisecond

// ResponseCache capa rápida con TTL. Get devuelve nil sin error si no hay entrada.
type ResponseCache interface {
	Get(ctx context.Context, key string) (*entity.IdempotencyRecord, error)
	Set(ctx context.Context, rec *entity.IdempotencyRecord) error
}

// Guard recuerda respuestas exitosas por clave: caché rápida delante del almacén durable.
// También marca claves en curso para que un duplicado concurrente no ejecute dos veces.
type Guard struct {
	cache     ResponseCache
	store     repository.IdempotencyRepository
	retention time.Duration
	metrics   *metrics.Recorder
	log       zerolog.Logger
	now       func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
	wg       sync.WaitGroup
}

// NewGuard construye el guard. retention es la ventana de consulta del almacén durable.
func NewGuard(cache ResponseCache, store repository.IdempotencyRepository, retention time.Duration, rec *metrics.Recorder, log zerolog.Logger) *Guard {
	return &Guard{
		cache:     cache,
		store:     store,
		retention: retention,
		metrics:   rec,
		log:       log,
		now:       time.Now,
		inFlight:  make(map[string]struct{}),
	}
}

// ValidateKey exige entre 10 y 255 caracteres (runas, no bytes).
func ValidateKey(key string) error {
	if n := utf8.RuneCountInString(key); n < MinKeyLength || n > MaxKeyLength {
		return ErrInvalidKey
	}
	return nil
}

// Lookup busca primero en la caché y luego en el almacén durable (solo registros dentro
// de la ventana de retención). Un hit durable se vuelve a cargar en la caché.
// Devuelve nil sin error si la clave no se ha visto.
func (g *Guard) Lookup(ctx context.Context, key string) (*entity.IdempotencyRecord, error) {
	rec, err := g.cache.Get(ctx, key)
	if err != nil {
		g.log.Warn().Err(err).Str("key", key).Msg("caché de idempotencia no disponible, se consulta el almacén")
	} else if rec != nil {
		g.metrics.IdempotencyEvent("hit_cache")
		return rec, nil
	}

	rec, err = g.store.FindSince(ctx, key, g.now().Add(-g.retention))
	if err != nil {
		g.metrics.IdempotencyEvent("lookup_error")
		return nil, err
	}
	if rec == nil {
		g.metrics.IdempotencyEvent("miss")
		return nil, nil
	}
	g.metrics.IdempotencyEvent("hit_store")
	if err := g.setCache(ctx, rec); err != nil {
		g.log.Warn().Err(err).Str("key", key).Msg("no se pudo recargar la caché de idempotencia")
	}
	return rec, nil
}

// Acquire marca la clave como en curso. False si otro request ya la tiene.
func (g *Guard) Acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		g.metrics.IdempotencyEvent("in_flight")
		return false
	}
	g.inFlight[key] = struct{}{}
	return true
}

// Release libera la marca de Acquire.
func (g *Guard) Release(key string) {
	g.mu.Lock()
	delete(g.inFlight, key)
	g.mu.Unlock()
}

// Remember guarda una respuesta 2xx: en la caché de forma síncrona (acotada por
// cacheWriteTimeout) y en el almacén durable en segundo plano. Respuestas no
// exitosas se ignoran para permitir reintentos. body se copia.
func (g *Guard) Remember(ctx context.Context, key string, status int, body []byte) {
	if status < 200 || status > 299 {
		return
	}
	rec := &entity.IdempotencyRecord{
		Key:        key,
		StatusCode: status,
		Body:       append([]byte(nil), body...),
		CreatedAt:  g.now(),
	}
	if err := g.setCache(ctx, rec); err != nil {
		g.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar en la caché de idempotencia")
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		defer cancel()
		if err := g.store.Save(pctx, rec); err != nil {
			g.log.Error().Err(err).Str("key", key).Msg("no se pudo persistir la respuesta idempotente")
			return
		}
		g.metrics.IdempotencyEvent("stored")
	}()
}

func (g *Guard) setCache(ctx context.Context, rec *entity.IdempotencyRecord) error {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
	defer cancel()
	return g.cache.Set(cctx, rec)
}

// Wait espera las escrituras durables pendientes (apagado ordenado y tests).
func (g *Guard) Wait() {
	g.wg.Wait()
}

// Purge elimina registros durables más viejos que la ventana de retención.
func (g *Guard) Purge(ctx context.Context) (int64, error) {
	n, err := g.store.DeleteOlderThan(ctx, g.now().Add(-g.retention))
	if err != nil {
		return 0, err
	}
	g.metrics.Purged(n)
	g.log.Info().Int64("deleted", n).Msg("purga de registros de idempotencia")
	return n, nil
}
