package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/pkg/metrics"
)

// MovementService ejecuta comandos de movimiento: valida, abre transacción,
// ejecuta, y hace Commit o Rollback. Un comando nunca deja escrituras parciales.
type MovementService struct {
	db      TxBeginner
	metrics *metrics.Recorder
	log     zerolog.Logger
	tracer  trace.Tracer
}

// NewMovementService construye el servicio. rec puede ser nil.
func NewMovementService(db TxBeginner, rec *metrics.Recorder, log zerolog.Logger) *MovementService {
	return &MovementService{
		db:      db,
		metrics: rec,
		log:     log,
		tracer:  otel.Tracer("stock-ledger-api/inventory"),
	}
}

// Run ejecuta un comando. Un error de validación se devuelve sin abrir transacción;
// cualquier error de Execute revierte la transacción y se devuelve sin envolver.
func (s *MovementService) Run(ctx context.Context, cmd Command) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "movement."+strings.ToLower(cmd.Kind()),
		trace.WithAttributes(attribute.String("movement.type", cmd.Kind())))
	defer span.End()

	start := time.Now()
	res, err := s.run(ctx, cmd)
	s.metrics.ObserveMovement(cmd.Kind(), outcome(err), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

func (s *MovementService) run(ctx context.Context, cmd Command) (Result, error) {
	if err := cmd.Validate(); err != nil {
		return Result{}, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("begin transaction: %w", err)
	}
	done := false
	defer func() {
		// también cubre un panic dentro de Execute
		if !done {
			s.rollback(ctx, tx)
		}
	}()

	res, err := cmd.Execute(ctx, tx.Quantities())
	if err != nil {
		return Result{}, err
	}
	done = true
	if err := tx.Commit(ctx); err != nil {
		s.rollback(ctx, tx)
		return Result{}, fmt.Errorf("commit transaction: %w", err)
	}
	return res, nil
}

// RunBatch ejecuta varios comandos en UNA transacción: todos o ninguno.
// Valida todos antes de abrir la transacción. Devuelve cuántos se aplicaron.
func (s *MovementService) RunBatch(ctx context.Context, cmds []Command) (int, error) {
	ctx, span := s.tracer.Start(ctx, "movement.batch",
		trace.WithAttributes(attribute.Int("movement.count", len(cmds))))
	defer span.End()

	n, err := s.runBatch(ctx, cmds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return n, err
}

func (s *MovementService) runBatch(ctx context.Context, cmds []Command) (int, error) {
	if len(cmds) == 0 {
		return 0, nil
	}
	for i, cmd := range cmds {
		if err := cmd.Validate(); err != nil {
			return 0, fmt.Errorf("movimiento %d: %w", i+1, err)
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	done := false
	defer func() {
		if !done {
			s.rollback(ctx, tx)
		}
	}()

	repo := tx.Quantities()
	for i, cmd := range cmds {
		start := time.Now()
		_, err := cmd.Execute(ctx, repo)
		s.metrics.ObserveMovement(cmd.Kind(), outcome(err), time.Since(start))
		if err != nil {
			return 0, fmt.Errorf("movimiento %d: %w", i+1, err)
		}
	}
	done = true
	if err := tx.Commit(ctx); err != nil {
		s.rollback(ctx, tx)
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return len(cmds), nil
}

// rollback usa un contexto sin cancelación: si el request se cortó, igual hay que liberar la conexión.
func (s *MovementService) rollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		s.log.Error().Err(err).Msg("rollback de movimiento falló")
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrInvalidInput):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.OutcomeInsufficient
	default:
		return metrics.OutcomeError
	}
}
