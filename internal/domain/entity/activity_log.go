package entity

import (
	"encoding/json"
	"time"
)

// Acciones registradas en el log de actividad.
const (
	ActionReceive        = "RECEIVE"
	ActionShip           = "SHIP"
	ActionTransfer       = "TRANSFER"
	ActionCreateProduct  = "CREATE_PRODUCT"
	ActionUpdateProduct  = "UPDATE_PRODUCT"
	ActionDeleteProduct  = "DELETE_PRODUCT"
	ActionCreateLocation = "CREATE_LOCATION"
	ActionDeleteLocation = "DELETE_LOCATION"
	ActionCreateBin      = "CREATE_BIN"
	ActionDeleteBin      = "DELETE_BIN"
	ActionDeleteStock    = "DELETE_STOCK"
	ActionImportCSV      = "IMPORT_CSV"
	ActionSendDigest     = "SEND_DIGEST"
)

// ActivityLog entrada de auditoría (quién hizo qué). No participa en la consistencia del stock.
type ActivityLog struct {
	ID         string
	ActionType string
	UserName   string
	UserRole   string
	Details    json.RawMessage
	Timestamp  time.Time
}
