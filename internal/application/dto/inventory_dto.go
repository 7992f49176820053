package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// MovementRequest body de POST /transactions/{receive,ship,transfer}.
// Receive y Ship usan BinID; Transfer usa FromBinID y ToBinID.
type MovementRequest struct {
	ProductID string          `json:"productId"`
	BinID     string          `json:"binId,omitempty"`
	FromBinID string          `json:"fromBinId,omitempty"`
	ToBinID   string          `json:"toBinId,omitempty"`
	Qty       decimal.Decimal `json:"qty"`
	Reference string          `json:"reference,omitempty"`
	User      string          `json:"user,omitempty"`
}

// MovementError cuerpo de error de los endpoints de movimientos.
type MovementError struct {
	Error string `json:"error"`
}

// StockResponse fila de stock con nombres resueltos.
type StockResponse struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	BinID        string          `json:"bin_id"`
	BinCode      string          `json:"bin_code"`
	Qty          decimal.Decimal `json:"qty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StockCheckResponse cantidad disponible en un bin.
type StockCheckResponse struct {
	Qty decimal.Decimal `json:"qty"`
}

// LowStockResponse fila del reporte de stock bajo.
type LowStockResponse struct {
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	Description  string          `json:"description"`
	LocationName string          `json:"location_name"`
	BinCode      string          `json:"bin_code"`
	Qty          decimal.Decimal `json:"qty"`
	MinQty       decimal.Decimal `json:"min_qty"`
	LeadTimeDays int             `json:"lead_time_days"`
}

// ImportResponse resultado de POST /import/csv.
type ImportResponse struct {
	OK       bool   `json:"ok"`
	Imported int    `json:"imported"`
	Message  string `json:"message"`
}

// MismatchResponse diferencia entre el ledger reproducido y stock_levels.
type MismatchResponse struct {
	ProductID string          `json:"product_id"`
	BinID     string          `json:"bin_id"`
	LedgerQty decimal.Decimal `json:"ledger_qty"`
	StockQty  decimal.Decimal `json:"stock_qty"`
}

// ReconcileResponse resultado de GET /admin/reconcile.
type ReconcileResponse struct {
	Consistent bool               `json:"consistent"`
	Mismatches []MismatchResponse `json:"mismatches"`
}

// ActivityLogResponse entrada del log de actividad.
type ActivityLogResponse struct {
	ID         string          `json:"id"`
	ActionType string          `json:"action_type"`
	UserName   string          `json:"user_name"`
	UserRole   string          `json:"user_role"`
	Details    json.RawMessage `json:"details"`
	Timestamp  time.Time       `json:"timestamp"`
}

// DigestResponse resultado del envío del resumen de stock bajo.
type DigestResponse struct {
	Success        bool   `json:"success"`
	Reason         string `json:"reason,omitempty"`
	Error          string `json:"error,omitempty"`
	ItemCount      int    `json:"item_count"`
	RecipientCount int    `json:"recipient_count,omitempty"`
}
