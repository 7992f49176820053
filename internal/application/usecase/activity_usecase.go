package usecase

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Límites de paginación del log de actividad.
const (
	DefaultLogLimit = 100
	MaxLogLimit     = 500
)

// Actor quién ejecuta una acción (nombre y rol del token).
type Actor struct {
	Name string
	Role string
}

// ActivityUseCase escribe y consulta el log de auditoría.
// Record es best-effort: un fallo se registra en el log y nunca llega al cliente.
type ActivityUseCase struct {
	repo repository.ActivityLogRepository
	log  zerolog.Logger
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(repo repository.ActivityLogRepository, log zerolog.Logger) *ActivityUseCase {
	return &ActivityUseCase{repo: repo, log: log}
}

// Record guarda la acción con details serializado a JSON.
func (uc *ActivityUseCase) Record(ctx context.Context, actor Actor, action string, details any) {
	raw, err := json.Marshal(details)
	if err != nil {
		uc.log.Error().Err(err).Str("action", action).Msg("no se pudo serializar el detalle de actividad")
		return
	}
	entry := &entity.ActivityLog{
		ActionType: action,
		UserName:   actor.Name,
		UserRole:   actor.Role,
		Details:    raw,
	}
	if err := uc.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		uc.log.Error().Err(err).Str("action", action).Str("user", actor.Name).Msg("no se pudo registrar la actividad")
	}
}

// List entradas más recientes primero.
func (uc *ActivityUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ActivityLogResponse, error) {
	if page.Limit <= 0 {
		page.Limit = DefaultLogLimit
	}
	if page.Limit > MaxLogLimit {
		page.Limit = MaxLogLimit
	}
	page.DefaultPage()
	logs, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityLogResponse, 0, len(logs))
	for _, l := range logs {
		details := l.Details
		if len(details) == 0 {
			details = json.RawMessage("null")
		}
		out = append(out, dto.ActivityLogResponse{
			ID:         l.ID,
			ActionType: l.ActionType,
			UserName:   l.UserName,
			UserRole:   l.UserRole,
			Details:    details,
			Timestamp:  l.Timestamp,
		})
	}
	return out, nil
}
