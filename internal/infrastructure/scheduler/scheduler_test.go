package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_ExpresionInvalida(t *testing.T) {
	s := New(time.UTC, zerolog.Nop())
	err := s.Add("digest", "cada mañana", func(context.Context) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest")
	assert.Equal(t, 0, s.Len())
}

func TestAdd_RegistraTareas(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("zoneinfo no disponible")
	}
	s := New(loc, zerolog.Nop())
	require.NoError(t, s.Add("digest", "0 7 * * *", func(context.Context) {}))
	require.NoError(t, s.Add("idempotency-purge", "0 2 * * *", func(context.Context) {}))
	assert.Equal(t, 2, s.Len())
}

func TestWrap_ContextoConTimeoutYCancelacion(t *testing.T) {
	s := New(nil, zerolog.Nop())
	var got context.Context
	s.wrap("probe", func(ctx context.Context) {
		got = ctx
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
	})()
	require.NotNil(t, got)
	// El contexto de la ejecución se cancela al terminar.
	assert.Error(t, got.Err())

	s.Stop(context.Background())
	s.wrap("after-stop", func(ctx context.Context) {
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})()
}

func TestStartStop(t *testing.T) {
	s := New(time.UTC, zerolog.Nop())
	require.NoError(t, s.Add("noop", "@every 1h", func(context.Context) {}))
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
