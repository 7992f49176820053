package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// JobTimeout tiempo máximo de una ejecución programada.
const JobTimeout = 5 * time.Minute

// Scheduler tareas periódicas (resumen diario, purga de idempotencia) sobre robfig/cron.
type Scheduler struct {
	cron   *cron.Cron
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New crea el scheduler en la zona horaria loc (nil = UTC).
// Una tarea que sigue corriendo cuando toca la siguiente se salta.
func New(loc *time.Location, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registra fn con una expresión cron de 5 campos ("0 7 * * *").
func (s *Scheduler) Add(name, spec string, fn func(ctx context.Context)) error {
	_, err := s.cron.AddFunc(spec, s.wrap(name, fn))
	if err != nil {
		return fmt.Errorf("scheduler: tarea %q con expresión %q: %w", name, spec, err)
	}
	s.log.Info().Str("job", name).Str("schedule", spec).Msg("tarea programada")
	return nil
}

func (s *Scheduler) wrap(name string, fn func(ctx context.Context)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(s.ctx, JobTimeout)
		defer cancel()
		start := time.Now()
		s.log.Info().Str("job", name).Msg("ejecutando tarea programada")
		fn(ctx)
		s.log.Info().Str("job", name).Dur("duration", time.Since(start)).Msg("tarea programada terminada")
	}
}

// Len número de tareas registradas.
func (s *Scheduler) Len() int { return len(s.cron.Entries()) }

// Start arranca el scheduler en su propia goroutine.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop cancela las tareas en curso y espera a que terminen o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler: tiempo de espera agotado al detener tareas")
	}
}

// cronLogger adapta zerolog a cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
