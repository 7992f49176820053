package entity

import "time"

// Roles válidos para User.
const (
	RoleWorker  = "Worker"
	RoleManager = "Manager"
	RoleAdmin   = "Admin"
)

// IsValidRole indica si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	switch role {
	case RoleWorker, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	CreatedAt    time.Time
}
