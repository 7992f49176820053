package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ManagerEmails emails de usuarios Manager o Admin (destinatarios del resumen).
	ManagerEmails(ctx context.Context) ([]string, error)
}
