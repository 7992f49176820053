package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// MemoryCache caché de respuestas idempotentes en proceso con TTL.
// Las entradas vencidas se ignoran en Get y se eliminan con Sweep.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	rec       *entity.IdempotencyRecord
	expiresAt time.Time
}

var _ idempotency.ResponseCache = (*MemoryCache)(nil)

// NewMemoryCache crea la caché con el TTL dado.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

// Get devuelve la entrada vigente o nil.
func (c *MemoryCache) Get(_ context.Context, key string) (*entity.IdempotencyRecord, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, nil
	}
	return e.rec, nil
}

// Set guarda la entrada con vencimiento now+TTL.
func (c *MemoryCache) Set(_ context.Context, rec *entity.IdempotencyRecord) error {
	c.mu.Lock()
	c.entries[rec.Key] = memoryEntry{rec: rec, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// Sweep elimina entradas vencidas y devuelve cuántas.
func (c *MemoryCache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len número de entradas (vigentes o no).
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Run barre la caché cada interval hasta que ctx se cancele.
func (c *MemoryCache) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Sweep()
		}
	}
}
